package chart

import (
	gochart "github.com/wcharczuk/go-chart/v2"
)

// LineSeries is one named line over category indexes. X holds the indexes
// of the categories that have a value, ascending; absent categories leave a
// gap in the line.
type LineSeries struct {
	Name string
	X    []float64
	Y    []float64
}

// LineSpec is a multi-series line chart over an ordered categorical x axis.
type LineSpec struct {
	Title      string
	XLabel     string
	YLabel     string
	Categories []string
	Series     []LineSeries
	Size       Size
}

// Line renders a line chart with dot markers and a legend.
func Line(spec LineSpec) ([]byte, error) {
	var series []gochart.Series
	var all []float64
	for i, s := range spec.Series {
		if len(s.X) == 0 {
			continue
		}
		c := colorAt(i)
		series = append(series, gappedSeries{
			name: truncate(s.Name),
			style: gochart.Style{
				StrokeColor: c,
				StrokeWidth: 2,
				DotColor:    c,
				DotWidth:    3,
			},
			runs: splitRuns(s.X, s.Y),
		})
		all = append(all, s.Y...)
	}
	if len(series) == 0 || len(spec.Categories) == 0 {
		return nil, ErrNoData
	}

	ch := gochart.Chart{
		Title:      spec.Title,
		Width:      spec.Size.Width,
		Height:     spec.Size.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 220, Right: 20, Bottom: 20}},
		XAxis:      categoryAxis(spec.XLabel, spec.Categories, 45),
		YAxis:      gochart.YAxis{Name: spec.YLabel, Range: paddedRange(all, false)},
		Series:     series,
	}
	ch.Elements = []gochart.Renderable{gochart.LegendLeft(&ch)}

	return render(ch)
}

// splitRuns cuts a line into runs of adjacent category indexes.
func splitRuns(xs, ys []float64) []gochart.ContinuousSeries {
	var runs []gochart.ContinuousSeries
	start := 0
	for i := 1; i <= len(xs); i++ {
		if i < len(xs) && xs[i] == xs[i-1]+1 {
			continue
		}
		runs = append(runs, gochart.ContinuousSeries{XValues: xs[start:i], YValues: ys[start:i]})
		start = i
	}
	return runs
}

// gappedSeries is one legend entry drawn as several disconnected runs.
type gappedSeries struct {
	name  string
	style gochart.Style
	runs  []gochart.ContinuousSeries
}

func (gs gappedSeries) GetName() string             { return gs.name }
func (gs gappedSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }
func (gs gappedSeries) GetStyle() gochart.Style     { return gs.style }
func (gs gappedSeries) Validate() error             { return nil }

// Render implements gochart.Series.
func (gs gappedSeries) Render(r gochart.Renderer, canvasBox gochart.Box, xrange, yrange gochart.Range, defaults gochart.Style) {
	style := gs.style.InheritFrom(defaults)
	for _, run := range gs.runs {
		gochart.Draw.LineSeries(r, canvasBox, xrange, yrange, style, run)
	}
}
