// Package report renders training diagnostics, currently a steps-per-episode
// line chart written as a standalone HTML page.
package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// StepsChart writes a line chart of environment steps per training episode.
// window > 1 applies a trailing moving average to smooth the raw counts.
func StepsChart(w io.Writer, title string, stepCounts []int, window int) error {
	series := smooth(stepCounts, window)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)

	episodes := make([]string, len(series))
	items := make([]opts.LineData, 0, len(series))
	for i, v := range series {
		episodes[i] = fmt.Sprintf("%d", i)
		items = append(items, opts.LineData{Value: v})
	}
	line.SetXAxis(episodes)
	line.AddSeries("steps", items)

	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(w)
}

// smooth returns the trailing moving average of counts over the given window.
// A window of 1 or less returns the counts unchanged.
func smooth(counts []int, window int) []float64 {
	out := make([]float64, len(counts))
	if window <= 1 {
		for i, c := range counts {
			out[i] = float64(c)
		}
		return out
	}
	sum := 0
	for i, c := range counts {
		sum += c
		if i >= window {
			sum -= counts[i-window]
			out[i] = float64(sum) / float64(window)
			continue
		}
		out[i] = float64(sum) / float64(i+1)
	}
	return out
}
