package report

import (
	"context"
	"fmt"

	"github.com/dbsmedya/dwdash/internal/chart"
	"github.com/dbsmedya/dwdash/internal/config"
	"github.com/dbsmedya/dwdash/internal/frame"
	"github.com/dbsmedya/dwdash/internal/warehouse"
)

// StandardCost charts the mean standard cost of each product per calendar
// month of its internet sales.
type StandardCost struct {
	size chart.Size
}

func (r *StandardCost) ID() string      { return config.ReportStandardCost }
func (r *StandardCost) Heading() string { return "Standard Cost per Product per Month" }

// JoinCount is factinternetsales JOIN dimtime JOIN dimproduct.
func (r *StandardCost) JoinCount() warehouse.JoinCount {
	return warehouse.JoinCount{
		Base: warehouse.FactInternetSales.Table,
		Steps: []warehouse.JoinStep{
			{Table: warehouse.DimTime.Table, LeftKey: "OrderDateKey", RightKey: "TimeKey"},
			{Table: warehouse.DimProduct.Table, LeftKey: "ProductKey", RightKey: "ProductKey"},
		},
	}
}

func (r *StandardCost) Selects() []warehouse.Select {
	return []warehouse.Select{warehouse.DimProduct, warehouse.DimTime, warehouse.FactInternetSales}
}

func (r *StandardCost) Run(ctx context.Context, src warehouse.Source) (*Result, error) {
	products, err := src.Fetch(ctx, warehouse.DimProduct)
	if err != nil {
		return nil, err
	}
	times, err := src.Fetch(ctx, warehouse.DimTime)
	if err != nil {
		return nil, err
	}
	sales, err := src.Fetch(ctx, warehouse.FactInternetSales)
	if err != nil {
		return nil, err
	}

	withTime, timeStats, err := frame.InnerJoin(sales, times, "OrderDateKey", "TimeKey")
	if err != nil {
		return nil, fmt.Errorf("join sales to time: %w", err)
	}
	merged, productStats, err := frame.InnerJoin(withTime, products, "ProductKey", "ProductKey")
	if err != nil {
		return nil, fmt.Errorf("join sales to product: %w", err)
	}

	means, err := frame.GroupMean(merged, []string{"EnglishMonthName", "EnglishProductName"}, "StandardCost")
	if err != nil {
		return nil, err
	}
	pivot, err := frame.NewPivot(means, "EnglishMonthName", "EnglishProductName", "StandardCost")
	if err != nil {
		return nil, err
	}
	pivot = pivot.Reindex(frame.Months)
	if pivot.Cells() == 0 {
		return nil, fmt.Errorf("no sales fall in a known calendar month: %w", chart.ErrNoData)
	}

	table := newTable("Month", "Product", "Mean Standard Cost")
	series := make([]chart.LineSeries, len(pivot.Columns))
	for j, product := range pivot.Columns {
		series[j].Name = product
	}
	for i, month := range pivot.Rows() {
		for j, product := range pivot.Columns {
			v, ok := pivot.Value(month, product)
			if !ok {
				continue
			}
			series[j].X = append(series[j].X, float64(i))
			series[j].Y = append(series[j].Y, v)
			table.add(month, product, formatFloat(v))
		}
	}

	img, err := chart.Line(chart.LineSpec{
		Title:      "Comparison of Standard Cost per Product per Month",
		XLabel:     "Month",
		YLabel:     "Standard Cost",
		Categories: pivot.Rows(),
		Series:     series,
		Size:       r.size,
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
		Joins:   []frame.JoinStats{timeStats, productStats},
	}, nil
}
