package reporting

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Chart file names written by WriteResultsCharts.
const (
	RPSChartFile     = "rps_comparison.svg"
	LatencyChartFile = "latency_comparison.svg"
)

var (
	rpsColor     = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	latencyColor = color.RGBA{R: 250, G: 128, B: 114, A: 255}
)

// Bar is one labelled value of a bar chart.
type Bar struct {
	Label string
	Value float64
}

// WriteBarChart renders bars as a 10×6 inch SVG bar chart with horizontal
// dashed grid lines.
func WriteBarChart(w io.Writer, title, yLabel string, bars []Bar, fill color.Color) error {
	if len(bars) == 0 {
		return fmt.Errorf("rendering %q: no bars", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel
	p.Y.Min = 0

	values := make(plotter.Values, len(bars))
	labels := make([]string, len(bars))
	for i, b := range bars {
		values[i] = b.Value
		labels[i] = b.Label
	}

	chart, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return fmt.Errorf("rendering %q: %w", title, err)
	}
	chart.Color = fill
	chart.LineStyle.Width = 0

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	grid.Horizontal.Color = color.Gray{Y: 180}

	p.Add(grid, chart)
	p.NominalX(labels...)

	wt, err := p.WriterTo(10*vg.Inch, 6*vg.Inch, "svg")
	if err != nil {
		return fmt.Errorf("rendering %q: %w", title, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing %q: %w", title, err)
	}
	return nil
}

// WriteResultsCharts writes the average rps and p95 latency charts for
// results into dir and returns the paths written.
func WriteResultsCharts(dir string, results []ScenarioResults) ([]string, error) {
	rps := make([]Bar, len(results))
	latency := make([]Bar, len(results))
	for i, r := range results {
		rps[i] = Bar{Label: r.Scenario, Value: r.AvgRPS}
		latency[i] = Bar{Label: r.Scenario, Value: r.P95Latency}
	}

	charts := []struct {
		file, title, yLabel string
		bars                []Bar
		fill                color.Color
	}{
		{RPSChartFile, "Average Requests Per Second", "RPS", rps, rpsColor},
		{LatencyChartFile, "P95 Latency (ms)", "Latency (ms)", latency, latencyColor},
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		path := filepath.Join(dir, c.file)
		if err := writeChartFile(path, c.title, c.yLabel, c.bars, c.fill); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeChartFile(path, title, yLabel string, bars []Bar, fill color.Color) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart: %w", err)
	}
	if err := WriteBarChart(f, title, yLabel, bars, fill); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
