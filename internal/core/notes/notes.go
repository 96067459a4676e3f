// Package notes renders release-notes markdown from the commits a release
// carries. Conventional commit subjects are grouped into sections; anything
// that does not parse lands under Other rather than being dropped.
package notes

import (
	"fmt"
	"strings"

	"github.com/leodido/go-conventionalcommits"
	"github.com/leodido/go-conventionalcommits/parser"
)

// Commit is one commit contributing to the release.
type Commit struct {
	SHA     string
	Subject string
}

// Build renders the markdown body attached to QA pull requests and published
// releases. Returns the empty string when there are no commits.
func Build(commits []Commit) string {
	if len(commits) == 0 {
		return ""
	}

	machine := parser.NewMachine(conventionalcommits.WithTypes(conventionalcommits.TypesConventional))

	var breaking, features, fixes, other []string
	for _, c := range commits {
		entry, typ := formatEntry(c, machine)
		switch typ {
		case typeBreaking:
			breaking = append(breaking, entry)
		case "feat":
			features = append(features, entry)
		case "fix":
			fixes = append(fixes, entry)
		default:
			other = append(other, entry)
		}
	}

	var b strings.Builder
	b.WriteString("**Changes:**\n")
	writeSection(&b, "Breaking Changes", breaking)
	writeSection(&b, "Features", features)
	writeSection(&b, "Bug Fixes", fixes)
	writeSection(&b, "Other", other)
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// typeBreaking marks entries routed to the Breaking Changes section
// regardless of their commit type.
const typeBreaking = "breaking"

// formatEntry renders one changelog line and reports which section it
// belongs in. Subjects that do not parse as conventional commits are kept
// verbatim and classified under Other.
func formatEntry(c Commit, machine conventionalcommits.Machine) (string, string) {
	subject := strings.TrimSpace(c.Subject)
	entry := fmt.Sprintf("- %s", subject)
	typ := ""

	if msg, err := machine.Parse([]byte(subject)); err == nil {
		if cc, ok := msg.(*conventionalcommits.ConventionalCommit); ok {
			typ = cc.Type
			if cc.Scope != nil && *cc.Scope != "" {
				entry = fmt.Sprintf("- **%s:** %s", *cc.Scope, cc.Description)
			} else {
				entry = fmt.Sprintf("- %s", cc.Description)
			}
			if cc.IsBreakingChange() {
				typ = typeBreaking
			}
		}
	}

	return withSHA(entry, c.SHA), typ
}

func withSHA(entry, sha string) string {
	if len(sha) > 7 {
		sha = sha[:7]
	}
	if sha == "" {
		return entry
	}
	return fmt.Sprintf("%s (%s)", entry, sha)
}

func writeSection(b *strings.Builder, title string, entries []string) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n", title)
	for _, e := range entries {
		b.WriteString(e)
		b.WriteString("\n")
	}
}
