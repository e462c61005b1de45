package report

import (
	"context"
	"fmt"

	"github.com/dbsmedya/dwdash/internal/chart"
	"github.com/dbsmedya/dwdash/internal/config"
	"github.com/dbsmedya/dwdash/internal/frame"
	"github.com/dbsmedya/dwdash/internal/warehouse"
)

// DepartmentGeography counts employees per department and country. The
// warehouse has no employee-to-geography key, so each employee is given a
// country drawn at random from dimgeography rows.
type DepartmentGeography struct {
	opts Options
}

func (r *DepartmentGeography) ID() string      { return config.ReportDepartmentGeography }
func (r *DepartmentGeography) Heading() string { return "Distribution of Department Name by Geography" }

func (r *DepartmentGeography) Selects() []warehouse.Select {
	return []warehouse.Select{warehouse.DimEmployee, warehouse.DimGeography}
}

func (r *DepartmentGeography) Run(ctx context.Context, src warehouse.Source) (*Result, error) {
	if !r.opts.SyntheticPairing {
		return nil, ErrSyntheticDisabled
	}

	employees, err := src.Fetch(ctx, warehouse.DimEmployee)
	if err != nil {
		return nil, err
	}
	geography, err := src.Fetch(ctx, warehouse.DimGeography)
	if err != nil {
		return nil, err
	}

	// Drawn from rows, not distinct names, so countries with more
	// geography rows are picked more often.
	countries, err := frame.NonNull(geography, "EnglishCountryRegionName")
	if err != nil {
		return nil, err
	}
	employees, err = frame.AssignRandom(employees, "EnglishCountryRegionName", countries, r.opts.Seed)
	if err != nil {
		return nil, err
	}

	sizes, err := frame.GroupSize(employees, []string{"DepartmentName", "EnglishCountryRegionName"})
	if err != nil {
		return nil, err
	}
	pivot, err := frame.NewPivot(sizes, "DepartmentName", "EnglishCountryRegionName", "Count")
	if err != nil {
		return nil, err
	}

	table := newTable("Department", "Country", "Employees")
	departments := pivot.Rows()
	values := make([][]float64, len(departments))
	for i, dept := range departments {
		values[i] = make([]float64, len(pivot.Columns))
		for j, country := range pivot.Columns {
			v, ok := pivot.Value(dept, country)
			if !ok {
				continue
			}
			values[i][j] = v
			table.add(dept, country, formatCount(v))
		}
	}

	img, legend, err := chart.GroupedBar(chart.GroupedBarSpec{
		Title:      "Distribution of Department Name by Geography",
		XLabel:     "Department Name",
		YLabel:     "Count",
		Categories: departments,
		Segments:   pivot.Columns,
		Values:     values,
		Size:       r.opts.Size,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		ID:      r.ID(),
		Heading: r.Heading(),
		Table:   table,
		Chart:   img,
		Legend:  legend,
		Notice: fmt.Sprintf("Countries are assigned to employees at random (seed %d); "+
			"the warehouse does not link employees to a geography.", r.opts.Seed),
		Rows: employees.Nrow(),
	}, nil
}
