package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enderlabs/octoeb/internal/ports/primary"
	"github.com/enderlabs/octoeb/internal/wire"
)

// ReleaseCmd returns the release command
func ReleaseCmd() *cobra.Command {
	var versionFlag string

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Tag and publish a version that passed QA",
		Long: `Tag the version on master and publish the platform release with notes
covering everything since the previous release. Requires the QA pull request
to be merged unless require_qa is off in the configuration.

Examples:
  octoeb release --version 1.5.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateVersion(versionFlag); err != nil {
				return err
			}

			res, err := wire.FlowService().Release(NewContext(), primary.TargetRequest{
				Version: versionFlag,
			})
			renderResult(res)
			if err != nil {
				return fmt.Errorf("failed to release: %w", err)
			}

			fmt.Printf("✓ Released %s\n", res.Version)
			return nil
		},
	}

	cmd.Flags().StringVarP(&versionFlag, "version", "v", "", "version to release (required)")
	cmd.MarkFlagRequired("version")

	return cmd
}
