package chart

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

var testSize = Size{Width: 640, Height: 400}

func assertPNG(t *testing.T, img []byte) {
	t.Helper()
	require.NotEmpty(t, img)
	assert.True(t, bytes.HasPrefix(img, pngMagic), "output is not a PNG")
}

func TestLine(t *testing.T) {
	img, err := Line(LineSpec{
		Title:      "Standard Cost per Product per Month",
		XLabel:     "Month",
		YLabel:     "Standard Cost",
		Categories: []string{"January", "February", "March"},
		Series: []LineSeries{
			{Name: "Road-150", X: []float64{0, 1, 2}, Y: []float64{133.3, 150, 120}},
			{Name: "Touring-1000", X: []float64{0, 2}, Y: []float64{50, 50}},
		},
		Size: testSize,
	})
	require.NoError(t, err)
	assertPNG(t, img)
}

func TestLine_SinglePoint(t *testing.T) {
	img, err := Line(LineSpec{
		Categories: []string{"May"},
		Series:     []LineSeries{{Name: "A", X: []float64{0}, Y: []float64{7}}},
		Size:       testSize,
	})
	require.NoError(t, err)
	assertPNG(t, img)
}

func TestLine_GapSplitsRuns(t *testing.T) {
	runs := splitRuns([]float64{0, 1, 3, 5, 6, 7}, []float64{10, 11, 13, 15, 16, 17})
	require.Len(t, runs, 3)
	assert.Equal(t, []float64{0, 1}, runs[0].XValues)
	assert.Equal(t, []float64{3}, runs[1].XValues)
	assert.Equal(t, []float64{13}, runs[1].YValues)
	assert.Equal(t, []float64{5, 6, 7}, runs[2].XValues)

	assert.Len(t, splitRuns([]float64{4}, []float64{1}), 1)
	assert.Empty(t, splitRuns(nil, nil))

	img, err := Line(LineSpec{
		Categories: []string{"January", "February", "March"},
		Series:     []LineSeries{{Name: "A", X: []float64{0, 2}, Y: []float64{1, 3}}},
		Size:       testSize,
	})
	require.NoError(t, err)
	assertPNG(t, img)
}

func TestLine_NoData(t *testing.T) {
	_, err := Line(LineSpec{Categories: []string{"May"}, Series: []LineSeries{{Name: "A"}}, Size: testSize})
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestGroupedBar(t *testing.T) {
	img, legend, err := GroupedBar(GroupedBarSpec{
		Title:      "Distribution of Department Name by Geography",
		Categories: []string{"Engineering", "Sales"},
		Segments:   []string{"Canada", "France"},
		Values:     [][]float64{{2, 1}, {0, 5}},
		Size:       testSize,
	})
	require.NoError(t, err)
	assertPNG(t, img)
	require.Len(t, legend, 2)
	assert.Equal(t, "Canada", legend[0].Label)
	assert.Regexp(t, `^#[0-9a-f]{6}$`, legend[0].Color)
	assert.NotEqual(t, legend[0].Color, legend[1].Color)
}

func TestGroupedBar_AllZero(t *testing.T) {
	_, _, err := GroupedBar(GroupedBarSpec{
		Categories: []string{"Sales"},
		Segments:   []string{"Canada"},
		Values:     [][]float64{{0}},
		Size:       testSize,
	})
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestGroupedBar_SingleCategory(t *testing.T) {
	img, legend, err := GroupedBar(GroupedBarSpec{
		Categories: []string{"Sales"},
		Segments:   []string{"Canada"},
		Values:     [][]float64{{4}},
		Size:       testSize,
	})
	require.NoError(t, err)
	assertPNG(t, img)
	assert.Len(t, legend, 1)
}

func TestCategoryAxis(t *testing.T) {
	axis := categoryAxis("Month", []string{"January", "February"}, 45)
	require.Len(t, axis.Ticks, 4)
	assert.Equal(t, -0.5, axis.Ticks[0].Value)
	assert.Empty(t, axis.Ticks[0].Label)
	assert.Equal(t, "January", axis.Ticks[1].Label)
	assert.Equal(t, 1.0, axis.Ticks[2].Value)
	assert.Equal(t, 1.5, axis.Ticks[3].Value)
}

func TestDonut(t *testing.T) {
	img, err := Donut(DonutSpec{
		Title: "Customer Education Composition by Country",
		Slices: []Slice{
			{Label: "Bachelors", Value: 6},
			{Label: "High School", Value: 1},
			{Label: "Partial High School", Value: 0},
		},
		Size: testSize,
	})
	require.NoError(t, err)
	assertPNG(t, img)

	_, err = Donut(DonutSpec{Size: testSize})
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestBubbleChart(t *testing.T) {
	img, err := BubbleChart(BubbleSpec{
		Title:  "Product Category Name Count",
		XLabel: "Product Category",
		YLabel: "Count",
		Bubbles: []Bubble{
			{Category: "Bikes", Count: 3, Code: 0},
			{Category: "Clothing", Count: 2, Code: 1},
			{Category: "Accessories", Count: 1, Code: 2},
		},
		Size: testSize,
	})
	require.NoError(t, err)
	assertPNG(t, img)

	_, err = BubbleChart(BubbleSpec{Size: testSize})
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestBubbleRadius(t *testing.T) {
	assert.Equal(t, maxBubble, bubbleRadius(10, 10))
	assert.Equal(t, minBubble, bubbleRadius(0, 10))
	// Four times the count doubles the radius above the floor.
	assert.InDelta(t, 2*(bubbleRadius(1, 4)-minBubble), bubbleRadius(4, 4)-minBubble, 1e-9)
}

func TestTruncate(t *testing.T) {
	short := "Road-150"
	assert.Equal(t, short, truncate(short))

	long := strings.Repeat("x", 60)
	got := truncate(long)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Less(t, len([]rune(got)), 60)
}

func TestPaddedRange(t *testing.T) {
	r := paddedRange([]float64{5, 5}, false)
	assert.Less(t, r.Min, 5.0)
	assert.Greater(t, r.Max, 5.0)

	r = paddedRange([]float64{10, 20}, true)
	assert.Less(t, r.Min, 0.0+1e-9)

	r = paddedRange([]float64{math.NaN()}, false)
	assert.Equal(t, 0.0, r.Min)
	assert.Equal(t, 1.0, r.Max)
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#0a0bff", Hex(drawing.Color{R: 10, G: 11, B: 255, A: 255}))
}
