package report

import (
	"bytes"
	"errors"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Chart raster size in pixels, kept at the same aspect ratio the planner
// reserves on the page (body width by chart height) so the embedded image
// is never distorted.
const (
	chartWidthPx  = 1068
	chartHeightPx = 240
)

var ErrNoChartData = errors.New("not enough BGL points for a trend chart")

// TrendChartPNG draws the two-series BGL trend: pre-meal readings as a
// solid line, post-meal as a dashed one. Points carrying no measurement
// never reach this function, so a skipped reading leaves a hole in its
// series instead of a zero. At least two points overall are required.
func TrendChartPNG(title string, pre, post []TrendPoint) ([]byte, error) {
	if distinctTimes(pre, post) < 2 {
		return nil, ErrNoChartData
	}

	var series []chart.Series
	if s, ok := trendSeries("Pre-meal BGL", pre, chart.Style{
		StrokeColor: drawing.ColorBlue,
		DotColor:    drawing.ColorBlue,
		DotWidth:    3,
	}); ok {
		series = append(series, s)
	}
	if s, ok := trendSeries("Post-meal BGL", post, chart.Style{
		StrokeColor:     drawing.ColorRed,
		StrokeDashArray: []float64{4, 3},
		DotColor:        drawing.ColorRed,
		DotWidth:        3,
	}); ok {
		series = append(series, s)
	}

	graph := chart.Chart{
		Title:  title,
		Width:  chartWidthPx,
		Height: chartHeightPx,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("02-01 15:04"),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendThin(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// distinctTimes counts unique sample timestamps. The chart library needs a
// non-zero x-range, so fewer than two distinct instants means no chart.
func distinctTimes(pre, post []TrendPoint) int {
	seen := make(map[int64]bool)
	for _, p := range pre {
		seen[p.At.UnixNano()] = true
	}
	for _, p := range post {
		seen[p.At.UnixNano()] = true
	}
	return len(seen)
}

func trendSeries(name string, points []TrendPoint, style chart.Style) (chart.TimeSeries, bool) {
	if len(points) == 0 {
		return chart.TimeSeries{}, false
	}
	s := chart.TimeSeries{Name: name, Style: style}
	for _, p := range points {
		s.XValues = append(s.XValues, p.At)
		s.YValues = append(s.YValues, p.BGL)
	}
	return s, true
}
