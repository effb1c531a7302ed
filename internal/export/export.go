// Package export writes utilization charts of a loaded profile as PNG.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"profview/internal/domain"
	"profview/internal/interact"
	"profview/internal/profile"
	"profview/internal/tiles"
	"profview/internal/tree"
)

var ErrNothingToPlot = errors.New("profile has no intervals to plot")

var palette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorRed,
	chart.ColorOrange,
	chart.ColorCyan,
	chart.ColorAlternateGray,
}

type Options struct {
	Width   int
	Height  int
	Samples int
}

func DefaultOptions() Options {
	return Options{Width: 1200, Height: 480, Samples: 400}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 1.5,
		StrokeColor: col,
	}
}

// UtilizationChart plots the busy percentage of every top-level node over the
// whole profile, plus the overall curve.
func UtilizationChart(p *profile.Profile, util *interact.Utilization, opts Options) (chart.Chart, error) {
	span := p.Span()
	if p.Empty() || span.Duration() <= 0 {
		return chart.Chart{}, ErrNothingToPlot
	}
	samples := max(opts.Samples, 2)
	width := tiles.BucketWidth(float64(span.Duration())/float64(samples), 1)

	series := []chart.Series{curveSeries("overall", util, tree.RootID, width, span, chart.ColorBlack)}
	for i, id := range p.Tree.Root().Children {
		node, _ := p.Tree.Node(id)
		series = append(series, curveSeries(node.Name, util, id, width, span, palette[i%len(palette)]))
	}

	graph := chart.Chart{
		Title:      fmt.Sprintf("%s utilization", p.Name),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           "time",
			ValueFormatter: timeFormatter,
		},
		YAxis: chart.YAxis{
			Name:  "busy %",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph, nil
}

func curveSeries(name string, util *interact.Utilization, id tree.NodeID, width domain.Timestamp, span domain.Interval, col drawing.Color) chart.ContinuousSeries {
	curve := util.Curve(id, width, span)
	xs := make([]float64, len(curve))
	ys := make([]float64, len(curve))
	for i, sample := range curve {
		xs[i] = float64(sample.Span.Start) + float64(sample.Span.Duration())/2
		ys[i] = sample.Fraction * 100
	}
	return chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: lineStyle(col)}
}

func timeFormatter(v interface{}) string {
	value, ok := v.(float64)
	if !ok {
		return fmt.Sprint(v)
	}
	return domain.Timestamp(math.Round(value)).String()
}

// WritePNG renders the utilization chart of p to w.
func WritePNG(w io.Writer, p *profile.Profile, opts Options) error {
	util := interact.NewUtilization(p.Tree, nil)
	graph, err := UtilizationChart(p, util, opts)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
