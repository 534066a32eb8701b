package viz

import "github.com/guptarohit/asciigraph"

// Plot draws series as an ASCII line chart. A height or width of zero lets
// asciigraph pick; otherwise the series is interpolated to width columns.
func Plot(series []float64, caption string, height, width int) string {
	if len(series) == 0 {
		return ""
	}
	opts := []asciigraph.Option{asciigraph.Caption(caption), asciigraph.Precision(3)}
	if height > 0 {
		opts = append(opts, asciigraph.Height(height))
	}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	if len(series) == 1 {
		series = []float64{series[0], series[0]}
	}
	return asciigraph.Plot(series, opts...)
}
