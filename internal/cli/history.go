package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/enderlabs/octoeb/internal/wire"
)

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past runs from the local journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := wire.FlowService().History(NewContext(), limit)
			if err != nil {
				return fmt.Errorf("failed to list history: %w", err)
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded yet")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tACTION\tVERSION\tOUTCOME\tSTEPS")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					run.Action, run.Version, run.Outcome, len(run.Steps))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to show")

	return cmd
}
