package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enderlabs/octoeb/internal/ports/primary"
	"github.com/enderlabs/octoeb/internal/wire"
)

// QACmd returns the qa command
func QACmd() *cobra.Command {
	var versionFlag string

	cmd := &cobra.Command{
		Use:   "qa",
		Short: "Open the QA pull request for a started version",
		Long: `Open the QA pull request from the version's flow branch into master.
The pull request body carries the changelog since master. Running qa again
while the pull request is open is a no-op.

Examples:
  octoeb qa --version 1.5.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateVersion(versionFlag); err != nil {
				return err
			}

			res, err := wire.FlowService().QA(NewContext(), primary.TargetRequest{
				Version: versionFlag,
			})
			renderResult(res)
			if err != nil {
				return fmt.Errorf("failed to open QA: %w", err)
			}

			fmt.Printf("✓ QA ready for %s\n", res.Version)
			return nil
		},
	}

	cmd.Flags().StringVarP(&versionFlag, "version", "v", "", "version under QA (required)")
	cmd.MarkFlagRequired("version")

	return cmd
}
