package report

import (
	"context"
	"fmt"

	"github.com/dbsmedya/dwdash/internal/chart"
	"github.com/dbsmedya/dwdash/internal/config"
	"github.com/dbsmedya/dwdash/internal/frame"
	"github.com/dbsmedya/dwdash/internal/warehouse"
)

// EducationComposition shows the share of each education level among
// customers, counted per country and summed over countries.
type EducationComposition struct {
	size chart.Size
}

func (r *EducationComposition) ID() string      { return config.ReportEducationComposition }
func (r *EducationComposition) Heading() string { return "Customer Education Composition by Country" }

// JoinCount is dimcustomer JOIN dimgeography.
func (r *EducationComposition) JoinCount() warehouse.JoinCount {
	return warehouse.JoinCount{
		Base: warehouse.DimCustomer.Table,
		Steps: []warehouse.JoinStep{
			{Table: warehouse.DimGeography.Table, LeftKey: "GeographyKey", RightKey: "GeographyKey"},
		},
	}
}

func (r *EducationComposition) Selects() []warehouse.Select {
	return []warehouse.Select{warehouse.DimCustomer, warehouse.DimGeography}
}

func (r *EducationComposition) Run(ctx context.Context, src warehouse.Source) (*Result, error) {
	customers, err := src.Fetch(ctx, warehouse.DimCustomer)
	if err != nil {
		return nil, err
	}
	geography, err := src.Fetch(ctx, warehouse.DimGeography)
	if err != nil {
		return nil, err
	}

	merged, stats, err := frame.InnerJoin(customers, geography, "GeographyKey", "GeographyKey")
	if err != nil {
		return nil, fmt.Errorf("join customer to geography: %w", err)
	}

	sizes, err := frame.GroupSize(merged, []string{"EnglishCountryRegionName", "EnglishEducation"})
	if err != nil {
		return nil, err
	}
	composition, err := frame.NewPivot(sizes, "EnglishCountryRegionName", "EnglishEducation", "Count")
	if err != nil {
		return nil, err
	}
	totals := composition.ColumnTotals()

	grand := 0.0
	for _, v := range totals {
		grand += v
	}

	table := newTable("Education", "Customers", "Share")
	slices := make([]chart.Slice, 0, len(composition.Columns))
	for _, level := range composition.Columns {
		n := totals[level]
		slices = append(slices, chart.Slice{Label: level, Value: n})
		table.add(level, formatCount(n), fmt.Sprintf("%.1f%%", 100*n/grand))
	}

	img, err := chart.Donut(chart.DonutSpec{
		Title:  "Customer Education Composition by Country",
		Slices: slices,
		Size:   r.size,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		ID:      r.ID(),
		Heading: r.Heading(),
		Table:   table,
		Chart:   img,
		Rows:    merged.Nrow(),
		Joins:   []frame.JoinStats{stats},
	}, nil
}
