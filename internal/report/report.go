// Package report defines the dashboard reports. Each report fetches fixed
// warehouse selects, joins and aggregates them in memory, and renders one
// chart from the aggregate.
package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/dwdash/internal/chart"
	"github.com/dbsmedya/dwdash/internal/config"
	"github.com/dbsmedya/dwdash/internal/frame"
	"github.com/dbsmedya/dwdash/internal/warehouse"
)

var (
	// ErrUnknownReport is returned by Lookup for an unregistered id.
	ErrUnknownReport = errors.New("unknown report")
	// ErrSyntheticDisabled is returned by reports that need a synthetic
	// pairing when synthetic pairing is turned off.
	ErrSyntheticDisabled = errors.New("report needs synthetic pairing, which is disabled")
)

// Report is one dashboard section.
type Report interface {
	ID() string
	Heading() string
	Run(ctx context.Context, src warehouse.Source) (*Result, error)
}

// Selector is implemented by reports that can name the selects they run,
// so their tables can be checked before running.
type Selector interface {
	Selects() []warehouse.Select
}

// Tables returns the distinct tables read by reps, in first-use order.
func Tables(reps []Report) []string {
	seen := make(map[string]bool)
	var tables []string
	for _, rep := range reps {
		sel, ok := rep.(Selector)
		if !ok {
			continue
		}
		for _, s := range sel.Selects() {
			if !seen[s.Table] {
				seen[s.Table] = true
				tables = append(tables, s.Table)
			}
		}
	}
	return tables
}

// JoinCounter is implemented by reports whose in-memory join the database
// can recount with COUNT(*).
type JoinCounter interface {
	JoinCount() warehouse.JoinCount
}

// Result is the output of one report run.
type Result struct {
	ID      string
	Heading string
	// Table is the aggregate the chart is drawn from.
	Table  *Table
	Chart  []byte
	Legend []chart.LegendEntry
	// Notice explains caveats of the data shown, e.g. a synthetic pairing.
	Notice string
	// Rows is the number of rows fed to the aggregation.
	Rows  int
	Joins []frame.JoinStats
}

// Options configures every report in a registry.
type Options struct {
	Seed             int64
	SyntheticPairing bool
	Size             chart.Size
}

// OptionsFromConfig maps the reports config section to Options.
func OptionsFromConfig(cfg *config.ReportsConfig) Options {
	return Options{
		Seed:             cfg.Seed,
		SyntheticPairing: cfg.SyntheticPairing,
		Size:             chart.Size{Width: cfg.Width, Height: cfg.Height},
	}
}

// Registry holds the reports in page order.
type Registry struct {
	reports *orderedmap.OrderedMap[string, Report]
}

// NewRegistry returns a registry with all four reports in page order.
func NewRegistry(opts Options) *Registry {
	r := &Registry{reports: orderedmap.NewOrderedMap[string, Report]()}
	for _, rep := range []Report{
		&StandardCost{size: opts.Size},
		&DepartmentGeography{opts: opts},
		&EducationComposition{size: opts.Size},
		&CategoryCount{opts: opts},
	} {
		r.reports.Set(rep.ID(), rep)
	}
	return r
}

// Lookup returns the report registered under id.
func (r *Registry) Lookup(id string) (Report, error) {
	rep, ok := r.reports.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, id)
	}
	return rep, nil
}

// All returns every report in page order.
func (r *Registry) All() []Report {
	out := make([]Report, 0, r.reports.Len())
	for el := r.reports.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Select returns the reports named by ids, in page order. An empty list
// selects all of them.
func (r *Registry) Select(ids []string) ([]Report, error) {
	if len(ids) == 0 {
		return r.All(), nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, err := r.Lookup(id); err != nil {
			return nil, err
		}
		want[id] = true
	}
	var out []Report
	for _, rep := range r.All() {
		if want[rep.ID()] {
			out = append(out, rep)
		}
	}
	return out, nil
}
