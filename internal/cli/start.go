package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enderlabs/octoeb/internal/ports/primary"
	"github.com/enderlabs/octoeb/internal/wire"
)

// StartCmd returns the start command
func StartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a release or hotfix branch",
		Long:  `Cut a new release branch from develop or a hotfix branch from master.`,
	}

	cmd.AddCommand(startReleaseCmd())
	cmd.AddCommand(startHotfixCmd())

	return cmd
}

func startReleaseCmd() *cobra.Command {
	var versionFlag string

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Cut a release branch from develop",
		Long: `Cut a release branch from develop for the next minor version.

Without --version the next version is the highest existing tag with the minor
bumped. An explicit --version must be greater than every existing tag.

Examples:
  octoeb start release
  octoeb start release --version 2.0.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateVersion(versionFlag); err != nil {
				return err
			}

			res, err := wire.FlowService().StartRelease(NewContext(), primary.StartRequest{
				Version: versionFlag,
			})
			renderResult(res)
			if err != nil {
				return fmt.Errorf("failed to start release: %w", err)
			}

			fmt.Printf("✓ Started release %s on %s\n", res.Version, res.Branch)
			return nil
		},
	}

	cmd.Flags().StringVarP(&versionFlag, "version", "v", "", "explicit version to start (default: next minor)")

	return cmd
}

func startHotfixCmd() *cobra.Command {
	var versionFlag, lineFlag string

	cmd := &cobra.Command{
		Use:   "hotfix",
		Short: "Cut a hotfix branch from master",
		Long: `Cut a hotfix branch from master for the next patch version.

Without flags the patch is bumped on the line of the highest existing tag.
Use --line to patch an older release line.

Examples:
  octoeb start hotfix
  octoeb start hotfix --line 1.4
  octoeb start hotfix --version 1.4.3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateVersion(versionFlag); err != nil {
				return err
			}
			if err := validateLine(lineFlag); err != nil {
				return err
			}

			res, err := wire.FlowService().StartHotfix(NewContext(), primary.StartRequest{
				Version: versionFlag,
				Line:    lineFlag,
			})
			renderResult(res)
			if err != nil {
				return fmt.Errorf("failed to start hotfix: %w", err)
			}

			fmt.Printf("✓ Started hotfix %s on %s\n", res.Version, res.Branch)
			return nil
		},
	}

	cmd.Flags().StringVarP(&versionFlag, "version", "v", "", "explicit version to start (default: next patch)")
	cmd.Flags().StringVarP(&lineFlag, "line", "l", "", "major.minor line to patch (default: latest)")

	return cmd
}
