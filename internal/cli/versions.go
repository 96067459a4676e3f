package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enderlabs/octoeb/internal/wire"
)

// VersionsCmd returns the versions command
func VersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "Show the current release and pre-release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := wire.FlowService().Versions(NewContext())
			if err != nil {
				return fmt.Errorf("failed to list versions: %w", err)
			}

			if info.Release == "" && info.Prerelease == "" {
				fmt.Println("No releases published yet")
				return nil
			}
			if info.Release != "" {
				fmt.Printf("Release:     %s\n", info.Release)
			}
			if info.Prerelease != "" {
				fmt.Printf("Pre-release: %s\n", info.Prerelease)
			}
			return nil
		},
	}
}
