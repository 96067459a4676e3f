// Package cli provides the cobra commands for the octoeb CLI.
package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/enderlabs/octoeb/internal/core/plan"
	"github.com/enderlabs/octoeb/internal/ports/primary"
)

// NewContext creates the context CLI commands run under.
func NewContext() context.Context {
	return context.Background()
}

// renderResult prints the per-step outcome table and the artifacts a run
// produced. Called for both successful and failed runs; a failed run still
// shows which steps were applied before the failure.
func renderResult(res *primary.FlowResult) {
	if res == nil || res.Result == nil {
		return
	}

	if res.Result.AllSkipped() && len(res.Result.Steps) > 0 {
		fmt.Printf("%s %s %s: nothing to do, remote state already matches\n",
			color.New(color.FgYellow).Sprint("≡"), res.Action, res.Version)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, sr := range res.Result.Steps {
		detail := sr.Reason
		fmt.Fprintf(w, "%s\t%s\t%s\n", statusGlyph(sr.Status), sr.Step.Describe(), detail)
	}
	w.Flush()

	a := res.Result.Artifacts
	if a.BranchURL != "" {
		fmt.Printf("  Branch: %s\n", a.BranchURL)
	}
	if a.PRURL != "" {
		fmt.Printf("  Pull request: %s\n", a.PRURL)
	}
	if a.Tag != "" {
		fmt.Printf("  Tag: %s\n", a.Tag)
	}
	if a.ReleaseURL != "" {
		fmt.Printf("  Release: %s\n", a.ReleaseURL)
	}
}

func statusGlyph(status plan.Status) string {
	switch status {
	case plan.StatusSucceeded:
		return color.New(color.FgGreen).Sprint("✓")
	case plan.StatusSkipped:
		return color.New(color.FgYellow).Sprint("≡")
	case plan.StatusFailed:
		return color.New(color.FgRed).Sprint("✗")
	default:
		return "?"
	}
}
