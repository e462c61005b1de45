package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/dwdash/internal/report"
	"github.com/dbsmedya/dwdash/internal/verifier"
	"github.com/dbsmedya/dwdash/internal/warehouse"
)

var verifyMethod string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and run preflight checks",
	Long: `Validate checks the configuration file and runs preflight checks
against the warehouse before the dashboard is served.

Checks performed:
  - Configuration syntax and required fields
  - Warehouse connectivity
  - Existence and non-emptiness of every table the enabled reports read
  - A full run of every enabled report
  - Join verification (count: COUNT(*) of each join in the warehouse,
    sha256: a second run must produce identical tables)

Example:
  dwdash validate --config dwdash.yaml --verify sha256`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&verifyMethod, "verify", string(verifier.MethodCount),
		"Verification method (count, sha256, skip)")
	rootCmd.AddCommand(validateCmd)
}

var (
	okMark   = color.Green.Sprint("✔")
	failMark = color.Red.Sprint("✘")
	skipMark = color.Yellow.Sprint("-")
)

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, color.Bold.Sprint("=== Configuration ==="))
	fmt.Fprintf(out, "Config file: %s\n", GetConfigFile())

	a, err := newApp(ctx, cmd)
	if err != nil {
		fmt.Fprintf(out, "%s %v\n", failMark, err)
		return errors.New("validation failed")
	}
	defer a.Close()

	fmt.Fprintf(out, "%s configuration valid\n", okMark)
	fmt.Fprintf(out, "%s connected to %s\n", okMark, a.db.Describe())

	fmt.Fprintln(out, color.Bold.Sprint("\n=== Preflight ==="))
	stats, err := a.client.Preflight(ctx, report.Tables(a.reports))
	printTableStats(out, stats)
	if err != nil {
		fmt.Fprintf(out, "%s %v\n", failMark, err)
		return errors.New("validation failed")
	}

	fmt.Fprintln(out, color.Bold.Sprint("\n=== Reports ==="))
	outcomes := a.runner.RunAll(ctx, a.reports)
	printOutcomes(out, outcomes)

	v, err := verifier.NewVerifier(a.client, a.runner, verifier.VerificationMethod(verifyMethod), a.log)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, color.Bold.Sprintf("\n=== Verification (%s) ===", v.GetMethod()))
	vstats, verr := v.Verify(ctx, outcomes)
	if vstats != nil {
		printVerification(out, vstats)
	}

	failed := report.Failed(outcomes)
	if failed > 0 || verr != nil {
		if verr != nil {
			fmt.Fprintf(out, "%s %v\n", failMark, verr)
		}
		return fmt.Errorf("validation failed: %d reports failed", failed)
	}

	fmt.Fprintln(out, color.Bold.Sprint("\n=== Validation Complete ==="))
	fmt.Fprintf(out, "%s all %d reports validated\n", okMark, len(outcomes))
	return nil
}

func printTableStats(w io.Writer, stats []warehouse.TableStat) {
	for _, s := range stats {
		mark := okMark
		if s.Rows == 0 {
			mark = failMark
		}
		fmt.Fprintf(w, "%s %-20s %d rows\n", mark, s.Table, s.Rows)
	}
}

func printOutcomes(w io.Writer, outcomes []report.Outcome) {
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "%s %-22s %v\n", failMark, o.Report.ID(), o.Err)
			continue
		}
		fmt.Fprintf(w, "%s %-22s %d input rows, %d table rows, %s\n", okMark, o.Report.ID(),
			o.Result.Rows, len(o.Result.Table.Rows), o.Duration.Round(time.Millisecond))
		if o.Result.Notice != "" {
			fmt.Fprintf(w, "  %s %s\n", color.Yellow.Sprint("note:"), o.Result.Notice)
		}
	}
}

func printVerification(w io.Writer, stats *verifier.VerifyStats) {
	for _, r := range stats.Results {
		switch {
		case r.Skipped:
			fmt.Fprintf(w, "%s %-22s skipped\n", skipMark, r.Report)
		case r.Match && r.Method == verifier.MethodSHA256:
			fmt.Fprintf(w, "%s %-22s %s\n", okMark, r.Report, r.Hash[:16])
		case r.Match && r.Join != "":
			fmt.Fprintf(w, "%s %-22s %d rows (%s)\n", okMark, r.Report, r.WarehouseRows, r.Join)
		case r.Match:
			fmt.Fprintf(w, "%s %-22s %d rows\n", okMark, r.Report, r.WarehouseRows)
		default:
			fmt.Fprintf(w, "%s %-22s %s\n", failMark, r.Report, r.ErrorMessage)
		}
	}
}
