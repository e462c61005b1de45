package chart

import (
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// Slice is one labelled share of a donut.
type Slice struct {
	Label string
	Value float64
}

// DonutSpec is a donut chart of shares of a whole.
type DonutSpec struct {
	Title  string
	Slices []Slice
	Size   Size
}

// Donut renders the slices with "label pct%" text. Zero slices are omitted.
func Donut(spec DonutSpec) ([]byte, error) {
	total := 0.0
	for _, s := range spec.Slices {
		if s.Value > 0 {
			total += s.Value
		}
	}
	if total == 0 {
		return nil, ErrNoData
	}

	values := make([]gochart.Value, 0, len(spec.Slices))
	for i, s := range spec.Slices {
		if s.Value <= 0 {
			continue
		}
		c := colorAt(i)
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s %.1f%%", truncate(s.Label), 100*s.Value/total),
			Value: s.Value,
			Style: gochart.Style{FillColor: c, StrokeColor: gochart.ColorWhite, StrokeWidth: 2},
		})
	}

	ch := gochart.DonutChart{
		Title:  spec.Title,
		Width:  spec.Size.Width,
		Height: spec.Size.Height,
		Values: values,
	}
	return render(ch)
}
