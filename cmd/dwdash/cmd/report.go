package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/dwdash/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print report tables to the terminal",
	Long: `Report runs the enabled reports and prints the aggregate table each
chart is drawn from.

Example:
  dwdash report --report education-composition`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	outcomes := a.runner.RunAll(ctx, a.reports)
	printTables(cmd.OutOrStdout(), outcomes)

	if n := report.Failed(outcomes); n > 0 {
		return fmt.Errorf("%d of %d reports failed", n, len(outcomes))
	}
	return nil
}

func printTables(w io.Writer, outcomes []report.Outcome) {
	for _, o := range outcomes {
		fmt.Fprintf(w, "\n== %s ==\n", o.Report.Heading())
		if o.Err != nil {
			fmt.Fprintf(w, "error: %v\n", o.Err)
			continue
		}
		if o.Result.Notice != "" {
			fmt.Fprintf(w, "note: %s\n", o.Result.Notice)
		}

		table := tablewriter.NewWriter(w)
		table.SetHeader(o.Result.Table.Header)
		table.AppendBulk(o.Result.Table.Rows)
		table.Render()
		fmt.Fprintf(w, "%d input rows\n", o.Result.Rows)
	}
}
