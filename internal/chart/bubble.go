package chart

import (
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	minBubble = 6.0
	maxBubble = 40.0
)

// Bubble is one point: a category with a count and a color code.
type Bubble struct {
	Category string
	Count    float64
	Code     int
}

// BubbleSpec is a scatter over categories where the dot area follows Count
// and the dot color follows Code on the viridis scale.
type BubbleSpec struct {
	Title   string
	XLabel  string
	YLabel  string
	Bubbles []Bubble
	Size    Size
}

// BubbleChart renders the spec.
func BubbleChart(spec BubbleSpec) ([]byte, error) {
	if len(spec.Bubbles) == 0 {
		return nil, ErrNoData
	}

	categories := make([]string, len(spec.Bubbles))
	xs := make([]float64, len(spec.Bubbles))
	ys := make([]float64, len(spec.Bubbles))
	maxCount, maxCode := 0.0, 0
	for i, b := range spec.Bubbles {
		categories[i] = b.Category
		xs[i] = float64(i)
		ys[i] = b.Count
		maxCount = math.Max(maxCount, b.Count)
		if b.Code > maxCode {
			maxCode = b.Code
		}
	}
	if maxCount <= 0 {
		return nil, ErrNoData
	}

	bubbles := spec.Bubbles
	series := gochart.ContinuousSeries{
		XValues: xs,
		YValues: ys,
		Style: gochart.Style{
			StrokeWidth: gochart.Disabled,
			DotWidthProvider: func(_, _ gochart.Range, i int, _, _ float64) float64 {
				return bubbleRadius(bubbles[i].Count, maxCount)
			},
			DotColorProvider: func(_, _ gochart.Range, i int, _, _ float64) drawing.Color {
				return gochart.Viridis(float64(bubbles[i].Code), 0, float64(max(maxCode, 1))).WithAlpha(200)
			},
		},
	}

	ch := gochart.Chart{
		Title:      spec.Title,
		Width:      spec.Size.Width,
		Height:     spec.Size.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 50, Left: 20, Right: 50, Bottom: 20}},
		XAxis:      categoryAxis(spec.XLabel, categories, 0),
		YAxis:      gochart.YAxis{Name: spec.YLabel, Range: paddedRange([]float64{0, maxCount * 1.15}, true)},
		Series:     []gochart.Series{series},
	}
	return render(ch)
}

// bubbleRadius scales so that area, not radius, tracks the count.
func bubbleRadius(count, maxCount float64) float64 {
	if count <= 0 {
		return minBubble
	}
	return minBubble + (maxBubble-minBubble)*math.Sqrt(count/maxCount)
}
