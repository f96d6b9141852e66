package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"traininghours/output"
	"traininghours/summary"
	"traininghours/transform"
)

var (
	transformInput       string
	transformOutput      string
	transformWarningsCSV string
	transformStats       bool
	transformStrictHours bool
	transformJSON        bool
	transformHistoryDB   string
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Build the monthly training hours report from a session export",
	Long: `Read the first worksheet of the input workbook, validate each row and write
one sheet per month with hours per instructor, school, payment framework and day.

Rows that cannot be read are skipped and reported as "Row #N: ..." warnings.
The output file always gets the .xlsx extension.`,
	Example: `
  # Transform an Excel export
  traininghours transform -i sessions.xlsx -o report.xlsx

  # Reject rows with non-numeric hours instead of counting them as 0
  traininghours transform -i sessions.xlsx -o report --strict-hours

  # Print the result as JSON
  traininghours transform -i sessions.xls -o report.xlsx --json

  # Journal the run in a SQLite history database
  traininghours transform -i sessions.xlsx -o report.xlsx --history-db ./traininghours.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(transformInput) == "" || strings.TrimSpace(transformOutput) == "" {
			return fmt.Errorf("both --input and --output are required")
		}

		a, err := newApp(appOverrides{strictHours: transformStrictHours, historyDB: transformHistoryDB})
		if err != nil {
			return err
		}
		defer a.Close()

		result := a.service.Run(context.Background(), transformInput, transformOutput)

		if transformJSON {
			if err := printResultJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
		} else {
			printResultSummary(cmd.OutOrStdout(), result)
		}
		if !result.Succeeded() {
			return fmt.Errorf("transform failed: %s", result.Errors[0])
		}

		if strings.TrimSpace(transformWarningsCSV) != "" {
			if err := output.WriteWarningsCSV(transformWarningsCSV, result.Rejections); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Warnings exported. Rows: %d, File: %s\n", len(result.Rejections), transformWarningsCSV)
		}

		if transformStats {
			return printMonthStats(cmd.OutOrStdout(), result.Table)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transformCmd)

	transformCmd.Flags().StringVarP(&transformInput, "input", "i", "", "Source workbook (.xlsx or .xls)")
	transformCmd.Flags().StringVarP(&transformOutput, "output", "o", "", "Destination report path (.xlsx is enforced)")
	transformCmd.Flags().StringVar(&transformWarningsCSV, "warnings-csv", "", "Write rejected rows to this CSV file")
	transformCmd.Flags().BoolVar(&transformStats, "stats", false, "Print per-month totals, mean and median hours per group")
	transformCmd.Flags().BoolVar(&transformStrictHours, "strict-hours", false, "Reject rows whose training_hours cell is not numeric")
	transformCmd.Flags().BoolVar(&transformJSON, "json", false, "Print the result as JSON")
	transformCmd.Flags().StringVar(&transformHistoryDB, "history-db", "", "Record the run in this SQLite database (overrides history.db)")
}

func printResultJSON(w io.Writer, result transform.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

func printResultSummary(w io.Writer, result transform.Result) {
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	if !result.Succeeded() {
		fmt.Fprintf(w, "Transform failed: %s\n", strings.Join(result.Errors, "; "))
		return
	}
	fmt.Fprintf(w, "Transform completed. Rows written: %d, Rows skipped: %d, Months: %d, File: %s\n",
		result.RowCount,
		len(result.Warnings),
		len(result.Table.Months()),
		result.Output,
	)
}

func printMonthStats(w io.Writer, table summary.Table) error {
	monthStats, err := table.Stats()
	if err != nil {
		return err
	}
	for _, month := range monthStats {
		fmt.Fprintf(w, "%s: groups %d, total %.2fh, mean %.2fh, median %.2fh\n",
			output.MonthName(month.Month),
			month.Groups,
			month.TotalHours,
			month.MeanHours,
			month.MedianHours,
		)
	}
	return nil
}
