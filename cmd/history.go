package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"traininghours/storage"
)

var (
	historyLimit int
	historyDB    string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent transform runs from the history journal",
	Long: `List transform runs recorded in the SQLite history journal, newest first.

Runs are journaled when history.enabled is true or --history-db is passed to
transform or serve.`,
	Example: `
  # Show the last 10 runs from the configured journal
  traininghours history

  # Show 50 runs from a specific database
  traininghours history --limit 50 --db ./traininghours.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(appOverrides{historyDB: historyDB})
		if err != nil {
			return err
		}
		defer a.Close()

		if a.store == nil {
			return fmt.Errorf("history is disabled: set history.enabled in the config or pass --db")
		}

		runs, err := a.store.ListRuns(context.Background(), historyLimit)
		if err != nil {
			return err
		}
		return printRuns(cmd.OutOrStdout(), runs)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of runs to list")
	historyCmd.Flags().StringVar(&historyDB, "db", "", "Path to the SQLite history database (overrides history.db)")
}

func printRuns(w io.Writer, runs []storage.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tSTATUS\tROWS\tWARNINGS\tSOURCE\tDESTINATION\tERROR")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Status,
			run.RowCount,
			run.WarningCount,
			run.Source,
			run.Destination,
			strings.ReplaceAll(run.Error, "\n", " "),
		)
	}
	return tw.Flush()
}
