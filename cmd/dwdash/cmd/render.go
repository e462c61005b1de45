package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/dwdash/internal/report"
)

var outDir string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render report charts to PNG files",
	Long: `Render runs the enabled reports once and writes each chart to
<out>/<report-id>.png. A failing report is listed and does not stop the
others; the command fails if any report failed.

Example:
  dwdash render --out charts --report standard-cost`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&outDir, "out", "o", "charts",
		"Directory to write PNG files to")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outcomes := a.runner.RunAll(ctx, a.reports)
	if err := writeCharts(cmd, outDir, outcomes); err != nil {
		return err
	}
	if n := report.Failed(outcomes); n > 0 {
		return fmt.Errorf("%d of %d reports failed", n, len(outcomes))
	}
	return nil
}

// writeCharts writes every successful chart and prints one line per report.
func writeCharts(cmd *cobra.Command, dir string, outcomes []report.Outcome) error {
	for _, o := range outcomes {
		if o.Err != nil {
			cmd.Printf("FAIL %s: %v\n", o.Report.ID(), o.Err)
			continue
		}
		path := filepath.Join(dir, o.Report.ID()+".png")
		if err := os.WriteFile(path, o.Result.Chart, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		cmd.Printf("OK   %s -> %s\n", o.Report.ID(), path)
	}
	return nil
}
