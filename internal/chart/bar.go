package chart

import (
	gochart "github.com/wcharczuk/go-chart/v2"
)

// groupWidth is the share of a category slot taken by its bar group.
const groupWidth = 0.8

// GroupedBarSpec is one group of bars per category with one bar per
// segment. Bar heights are raw counts.
type GroupedBarSpec struct {
	Title      string
	XLabel     string
	YLabel     string
	Categories []string    // one group each
	Segments   []string    // one bar per group, e.g. countries
	Values     [][]float64 // Values[category][segment]
	Size       Size
}

// GroupedBar renders the spec and returns the image plus the segment legend.
func GroupedBar(spec GroupedBarSpec) ([]byte, []LegendEntry, error) {
	if len(spec.Categories) == 0 || len(spec.Segments) == 0 {
		return nil, nil, ErrNoData
	}

	width := groupWidth / float64(len(spec.Segments))
	legend := make([]LegendEntry, len(spec.Segments))
	series := make([]gochart.Series, 0, len(spec.Segments))
	var all []float64
	total := 0.0

	for j, seg := range spec.Segments {
		c := colorAt(j)
		legend[j] = LegendEntry{Label: seg, Color: Hex(c)}

		bs := barSeries{
			name:  truncate(seg),
			style: gochart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
			width: width,
		}
		offset := -groupWidth/2 + width*(float64(j)+0.5)
		for i := range spec.Categories {
			v := spec.Values[i][j]
			if v == 0 {
				continue
			}
			total += v
			bs.x = append(bs.x, float64(i)+offset)
			bs.y = append(bs.y, v)
			all = append(all, v)
		}
		series = append(series, bs)
	}
	if total == 0 {
		return nil, nil, ErrNoData
	}

	ch := gochart.Chart{
		Title:      spec.Title,
		Width:      spec.Size.Width,
		Height:     spec.Size.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      categoryAxis(spec.XLabel, spec.Categories, 90),
		YAxis:      gochart.YAxis{Name: spec.YLabel, Range: paddedRange(all, true)},
		Series:     series,
	}

	img, err := render(ch)
	if err != nil {
		return nil, nil, err
	}
	return img, legend, nil
}

// barSeries draws one bar per point, width given in x units.
type barSeries struct {
	name  string
	style gochart.Style
	width float64
	x, y  []float64
}

func (bs barSeries) GetName() string             { return bs.name }
func (bs barSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }
func (bs barSeries) GetStyle() gochart.Style     { return bs.style }
func (bs barSeries) Validate() error             { return nil }

// Render implements gochart.Series.
func (bs barSeries) Render(r gochart.Renderer, canvasBox gochart.Box, xrange, yrange gochart.Range, defaults gochart.Style) {
	style := bs.style.InheritFrom(defaults)
	base := canvasBox.Bottom - yrange.Translate(0)
	for i := range bs.x {
		left := canvasBox.Left + xrange.Translate(bs.x[i]-bs.width/2)
		right := canvasBox.Left + xrange.Translate(bs.x[i]+bs.width/2)
		if right <= left {
			right = left + 1
		}
		gochart.Draw.Box(r, gochart.Box{
			Top:    canvasBox.Bottom - yrange.Translate(bs.y[i]),
			Left:   left,
			Right:  right,
			Bottom: base,
		}, style)
	}
}
