// Package verifier cross-checks report output against the warehouse.
package verifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dbsmedya/dwdash/internal/logger"
	"github.com/dbsmedya/dwdash/internal/report"
	"github.com/dbsmedya/dwdash/internal/warehouse"
)

// VerificationMethod defines how report output is checked.
type VerificationMethod string

const (
	// MethodCount compares the in-memory join row count with COUNT(*) of
	// the same join run by the database.
	MethodCount VerificationMethod = "count"
	// MethodSHA256 reruns each report and compares fingerprints of the
	// aggregate tables.
	MethodSHA256 VerificationMethod = "sha256"
	// MethodSkip skips verification entirely
	MethodSkip VerificationMethod = "skip"
)

// Counter counts join rows in the database. *warehouse.Client implements it.
type Counter interface {
	CountJoin(ctx context.Context, j warehouse.JoinCount) (int64, error)
}

// Rerunner runs a report again. *report.Runner implements it.
type Rerunner interface {
	Run(ctx context.Context, rep report.Report) report.Outcome
}

// VerifyResult holds the verification result for a single report.
type VerifyResult struct {
	Report        string
	Method        VerificationMethod
	Join          string // tables of the counted join, in join order
	InMemoryRows  int64
	WarehouseRows int64
	Hash          string
	RerunHash     string
	Match         bool
	Skipped       bool
	ErrorMessage  string
}

// VerifyStats contains overall verification statistics.
type VerifyStats struct {
	ReportsVerified int
	ReportsPassed   int
	ReportsFailed   int
	ReportsSkipped  int
	TotalRows       int64
	Method          VerificationMethod
	Results         []VerifyResult
}

// Verifier checks report outcomes.
type Verifier struct {
	counter Counter
	rerun   Rerunner
	method  VerificationMethod
	logger  *logger.Logger
}

// NewVerifier creates a verifier. MethodCount needs counter, MethodSHA256
// needs rerun.
func NewVerifier(counter Counter, rerun Rerunner, method VerificationMethod, log *logger.Logger) (*Verifier, error) {
	if method == "" {
		method = MethodCount
	}
	switch method {
	case MethodCount:
		if counter == nil {
			return nil, fmt.Errorf("count verification needs a warehouse counter")
		}
	case MethodSHA256:
		if rerun == nil {
			return nil, fmt.Errorf("sha256 verification needs a report runner")
		}
	case MethodSkip:
	default:
		return nil, fmt.Errorf("unsupported verification method: %s", method)
	}
	if log == nil {
		log = logger.NewDefault()
	}

	return &Verifier{
		counter: counter,
		rerun:   rerun,
		method:  method,
		logger:  log,
	}, nil
}

// Verify checks every successful outcome. Failed outcomes and reports
// without a countable join are skipped. A mismatch is reported in the stats
// and as an error after all reports are checked.
func (v *Verifier) Verify(ctx context.Context, outcomes []report.Outcome) (*VerifyStats, error) {
	stats := &VerifyStats{Method: v.method}
	if v.method == MethodSkip {
		v.logger.Info("Verification SKIPPED (method=skip)")
		return stats, nil
	}

	v.logger.Infof("Starting verification (method=%s) for %d reports", v.method, len(outcomes))

	for _, o := range outcomes {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("verification interrupted: %w", err)
		}
		if o.Err != nil || o.Result == nil {
			stats.ReportsSkipped++
			stats.Results = append(stats.Results, VerifyResult{Report: o.Report.ID(), Method: v.method, Skipped: true})
			continue
		}

		var (
			result *VerifyResult
			err    error
		)
		switch v.method {
		case MethodCount:
			result, err = v.verifyByCount(ctx, o)
		case MethodSHA256:
			result, err = v.verifyBySHA256(ctx, o)
		}
		if err != nil {
			return stats, fmt.Errorf("verification failed for report %s: %w", o.Report.ID(), err)
		}

		stats.Results = append(stats.Results, *result)
		if result.Skipped {
			stats.ReportsSkipped++
			v.logger.Debugf("Skipping report %q (no join to count)", result.Report)
			continue
		}

		stats.ReportsVerified++
		stats.TotalRows += result.InMemoryRows
		if result.Match {
			stats.ReportsPassed++
			v.logger.Debugf("Verification PASSED for report %q (%d rows)", result.Report, result.InMemoryRows)
		} else {
			stats.ReportsFailed++
			v.logger.Errorf("Verification FAILED for report %q: %s", result.Report, result.ErrorMessage)
		}
	}

	v.logger.Infof("Verification complete: %d reports verified, %d passed, %d failed, %d skipped",
		stats.ReportsVerified, stats.ReportsPassed, stats.ReportsFailed, stats.ReportsSkipped)

	if stats.ReportsFailed > 0 {
		return stats, fmt.Errorf("verification failed: %d reports had mismatches", stats.ReportsFailed)
	}
	return stats, nil
}

func (v *Verifier) verifyByCount(ctx context.Context, o report.Outcome) (*VerifyResult, error) {
	result := &VerifyResult{
		Report:       o.Report.ID(),
		Method:       MethodCount,
		InMemoryRows: int64(o.Result.Rows),
	}

	jc, ok := o.Report.(report.JoinCounter)
	if !ok {
		result.Skipped = true
		return result, nil
	}

	join := jc.JoinCount()
	result.Join = strings.Join(join.Tables(), " -> ")

	count, err := v.counter.CountJoin(ctx, join)
	if err != nil {
		return nil, err
	}
	result.WarehouseRows = count
	result.Match = count == result.InMemoryRows
	if !result.Match {
		result.ErrorMessage = fmt.Sprintf("count mismatch: in-memory=%d, warehouse=%d", result.InMemoryRows, count)
	}
	return result, nil
}

func (v *Verifier) verifyBySHA256(ctx context.Context, o report.Outcome) (*VerifyResult, error) {
	rerun := v.rerun.Run(ctx, o.Report)
	if rerun.Err != nil {
		return nil, fmt.Errorf("rerun failed: %w", rerun.Err)
	}

	result := &VerifyResult{
		Report:        o.Report.ID(),
		Method:        MethodSHA256,
		InMemoryRows:  int64(o.Result.Rows),
		WarehouseRows: int64(rerun.Result.Rows),
		Hash:          Fingerprint(o.Result.Table),
		RerunHash:     Fingerprint(rerun.Result.Table),
	}
	result.Match = result.Hash == result.RerunHash && result.InMemoryRows == result.WarehouseRows

	if !result.Match {
		if result.InMemoryRows != result.WarehouseRows {
			result.ErrorMessage = fmt.Sprintf("count mismatch: first=%d, rerun=%d", result.InMemoryRows, result.WarehouseRows)
		} else {
			result.ErrorMessage = fmt.Sprintf("hash mismatch: first=%s, rerun=%s", result.Hash[:16], result.RerunHash[:16])
		}
	}
	return result, nil
}

// Fingerprint returns the SHA-256 of a table, hex encoded. Tables with the
// same header and rows in the same order have the same fingerprint.
func Fingerprint(t *report.Table) string {
	hasher := sha256.New()
	if t != nil {
		hasher.Write([]byte(serializeRow(t.Header)))
		hasher.Write([]byte("\n"))
		for _, row := range t.Rows {
			hasher.Write([]byte(serializeRow(row)))
			hasher.Write([]byte("\n"))
		}
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

// serializeRow joins cells with a null byte so cells containing commas or
// spaces cannot collide.
func serializeRow(cells []string) string {
	return strings.Join(cells, "\x00")
}

// GetMethod returns the configured verification method.
func (v *Verifier) GetMethod() VerificationMethod {
	return v.method
}
