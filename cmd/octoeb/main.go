package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/enderlabs/octoeb/internal/cli"
	"github.com/enderlabs/octoeb/internal/version"
)

func main() {
	// A .env in the working directory may carry OCTOEB_TOKEN.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "octoeb",
		Short:   "octoeb - release flow automation for GitHub repositories",
		Version: version.String(),
		Long: `octoeb drives the team release flow against a GitHub repository.
It cuts release and hotfix branches, opens QA pull requests, and tags and
publishes releases, deciding what to do from the repository's current state.`,
	}

	rootCmd.AddCommand(cli.StartCmd())
	rootCmd.AddCommand(cli.QACmd())
	rootCmd.AddCommand(cli.ReleaseCmd())
	rootCmd.AddCommand(cli.VersionsCmd())
	rootCmd.AddCommand(cli.HistoryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
