package report

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dbsmedya/dwdash/internal/chart"
	"github.com/dbsmedya/dwdash/internal/config"
	"github.com/dbsmedya/dwdash/internal/frame"
	"github.com/dbsmedya/dwdash/internal/warehouse"
)

// CategoryCount plots how many rows each product category name has, colored
// by a currency drawn at random per category row. The warehouse has no
// category-to-currency key.
type CategoryCount struct {
	opts Options
}

func (r *CategoryCount) ID() string      { return config.ReportCategoryCount }
func (r *CategoryCount) Heading() string { return "Product Category Name Count" }

func (r *CategoryCount) Selects() []warehouse.Select {
	return []warehouse.Select{warehouse.DimProductCategory, warehouse.DimCurrency}
}

func (r *CategoryCount) Run(ctx context.Context, src warehouse.Source) (*Result, error) {
	if !r.opts.SyntheticPairing {
		return nil, ErrSyntheticDisabled
	}

	categories, err := src.Fetch(ctx, warehouse.DimProductCategory)
	if err != nil {
		return nil, err
	}
	currencies, err := src.Fetch(ctx, warehouse.DimCurrency)
	if err != nil {
		return nil, err
	}

	names, err := frame.NonNull(currencies, "CurrencyName")
	if err != nil {
		return nil, err
	}
	categories, err = frame.AssignRandom(categories, "CurrencyName", names, r.opts.Seed)
	if err != nil {
		return nil, err
	}

	counts, err := frame.Counts(categories, "EnglishProductCategoryName")
	if err != nil {
		return nil, err
	}
	first, err := frame.First(categories, "EnglishProductCategoryName", "CurrencyName")
	if err != nil {
		return nil, err
	}

	currencyOf := make([]string, len(counts))
	for i, c := range counts {
		currencyOf[i] = first[c.Value]
	}
	codes, _ := frame.Factorize(currencyOf)

	table := newTable("Category", "Count", "Currency", "Currency Code")
	bubbles := make([]chart.Bubble, len(counts))
	for i, c := range counts {
		bubbles[i] = chart.Bubble{Category: c.Value, Count: float64(c.N), Code: codes[i]}
		table.add(c.Value, strconv.Itoa(c.N), currencyOf[i], strconv.Itoa(codes[i]))
	}

	img, err := chart.BubbleChart(chart.BubbleSpec{
		Title:   "Product Category Name Count",
		XLabel:  "Product Category Name",
		YLabel:  "Count",
		Bubbles: bubbles,
		Size:    r.opts.Size,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		ID:      r.ID(),
		Heading: r.Heading(),
		Table:   table,
		Chart:   img,
		Notice: fmt.Sprintf("Currencies are assigned to product categories at random (seed %d); "+
			"the warehouse does not link categories to a currency.", r.opts.Seed),
		Rows: categories.Nrow(),
	}, nil
}
