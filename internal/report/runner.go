package report

import (
	"context"
	"fmt"
	"time"

	"github.com/dbsmedya/dwdash/internal/logger"
	"github.com/dbsmedya/dwdash/internal/warehouse"
)

// Outcome is the result or error of one report run.
type Outcome struct {
	Report   Report
	Result   *Result
	Err      error
	Duration time.Duration
}

// Runner runs reports serially against one source.
type Runner struct {
	source warehouse.Source
	logger *logger.Logger
}

// NewRunner creates a Runner. A nil logger discards output.
func NewRunner(source warehouse.Source, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.NewNop()
	}
	return &Runner{source: source, logger: log}
}

// Run runs one report. The error is wrapped with the report id.
func (r *Runner) Run(ctx context.Context, rep Report) Outcome {
	log := r.logger.WithReport(rep.ID())
	start := time.Now()

	res, err := rep.Run(ctx, r.source)
	out := Outcome{Report: rep, Result: res, Duration: time.Since(start)}
	if err != nil {
		out.Err = fmt.Errorf("report %s: %w", rep.ID(), err)
		out.Result = nil
		log.Errorw("report failed", "error", err, "duration", out.Duration)
		return out
	}

	log.Infow("report complete", "rows", res.Rows, "duration", out.Duration)
	return out
}

// RunAll runs reps in order. A failing report does not stop the others; a
// cancelled context does.
func (r *Runner) RunAll(ctx context.Context, reps []Report) []Outcome {
	outcomes := make([]Outcome, 0, len(reps))
	for _, rep := range reps {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, Outcome{Report: rep, Err: fmt.Errorf("report %s: %w", rep.ID(), err)})
			continue
		}
		outcomes = append(outcomes, r.Run(ctx, rep))
	}
	return outcomes
}

// Failed counts outcomes that carry an error.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
