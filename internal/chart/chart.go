// Package chart renders dashboard charts to PNG with go-chart.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/mattn/go-runewidth"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("no data to chart")

// maxLabelWidth bounds legend and tick labels, in terminal cells.
const maxLabelWidth = 28

// Size is the output image size in pixels.
type Size struct {
	Width  int
	Height int
}

// LegendEntry pairs a label with the color it is drawn in, for legends
// rendered outside the image.
type LegendEntry struct {
	Label string
	Color string // #rrggbb
}

func truncate(label string) string {
	return runewidth.Truncate(label, maxLabelWidth, "…")
}

func colorAt(i int) drawing.Color {
	return gochart.GetDefaultColor(i)
}

// Hex formats a color as #rrggbb.
func Hex(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// categoryAxis builds an x axis with one tick per category at 0..n-1.
// Explicit ticks set the x range, so blank ticks at -0.5 and n-0.5 keep
// half a slot of margin on each side and a single category drawable.
func categoryAxis(name string, categories []string, rotation float64) gochart.XAxis {
	ticks := make([]gochart.Tick, 0, len(categories)+2)
	ticks = append(ticks, gochart.Tick{Value: -0.5})
	for i, c := range categories {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: truncate(c)})
	}
	ticks = append(ticks, gochart.Tick{Value: float64(len(categories)) - 0.5})
	return gochart.XAxis{
		Name:      name,
		Ticks:     ticks,
		TickStyle: gochart.Style{TextRotationDegrees: rotation},
	}
}

// paddedRange returns a y range covering values with some headroom. A flat
// series still gets a non-zero range.
func paddedRange(values []float64, fromZero bool) *gochart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return &gochart.ContinuousRange{Min: 0, Max: 1}
	}
	if fromZero && lo > 0 {
		lo = 0
	}
	pad := (hi - lo) * 0.08
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.1, 1)
	}
	return &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

type renderable interface {
	Render(rp gochart.RendererProvider, w io.Writer) error
}

func render(r renderable) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}
