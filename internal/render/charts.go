// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package render turns the analyzer's summaries into gonum/plot charts and
// writes them as PNG files.
package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/ManuGH/trendscope/internal/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Chart titles.
const (
	TitleViewsLikes  = "Views vs Likes"
	TitleCorrelation = "Feature Correlation"
	TitleWordCloud   = "Common Words in Trending Titles"
	TitlePublishHour = "Publish Time Distribution by Hour"
)

var (
	seriesBlue = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	kdeOrange  = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	nanGray    = color.Gray{Y: 210}
)

// Scatter plots y against x. Points with a NaN coordinate are dropped.
func Scatter(title, xLabel, yLabel string, x, y []float64) (*plot.Plot, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("render: scatter with %d x and %d y values", len(x), len(y))
	}
	pts := make(plotter.XYs, 0, len(x))
	for i := range x {
		if isFinite(x[i]) && isFinite(y[i]) {
			pts = append(pts, plotter.XY{X: x[i], Y: y[i]})
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = siTicks{}
	p.Y.Tick.Marker = siTicks{}
	p.Add(plotter.NewGrid())

	if len(pts) == 0 {
		return p, nil
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("render: scatter: %w", err)
	}
	s.GlyphStyle.Color = seriesBlue
	s.GlyphStyle.Radius = vg.Points(2.5)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(s)
	return p, nil
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ with row 0 at the
// top, the way matrices are read.
type corrGrid struct {
	m stats.Matrix
}

func (g corrGrid) Dims() (c, r int) {
	n := len(g.m.Labels)
	return n, n
}

func (g corrGrid) Z(c, r int) float64 { return g.m.Values[len(g.m.Labels)-1-r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

func (g corrGrid) rowLabel(r int) string { return g.m.Labels[len(g.m.Labels)-1-r] }

// Heatmap draws an annotated correlation matrix on a blue-white-red
// diverging scale fixed to [-1, 1]. NaN cells are grey and annotated "nan".
func Heatmap(title string, m stats.Matrix) (*plot.Plot, error) {
	n := len(m.Labels)
	if n == 0 {
		return nil, fmt.Errorf("render: empty correlation matrix")
	}
	g := corrGrid{m: m}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	hm := plotter.NewHeatMap(g, cm.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = nanGray

	p := plot.New()
	p.Title.Text = title
	p.Add(hm)

	xys := make(plotter.XYs, 0, n*n)
	labels := make([]string, 0, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			xys = append(xys, plotter.XY{X: g.X(c), Y: g.Y(r)})
			labels = append(labels, annotate(g.Z(c, r)))
		}
	}
	ann, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("render: heatmap labels: %w", err)
	}
	for i := range ann.TextStyle {
		ann.TextStyle[i].XAlign = text.XCenter
		ann.TextStyle[i].YAlign = text.YCenter
		ann.TextStyle[i].Font.Size = vg.Points(14)
	}
	p.Add(ann)

	xTicks := make([]plot.Tick, n)
	yTicks := make([]plot.Tick, n)
	for i := 0; i < n; i++ {
		xTicks[i] = plot.Tick{Value: float64(i), Label: m.Labels[i]}
		yTicks[i] = plot.Tick{Value: float64(i), Label: g.rowLabel(i)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.X.Min, p.X.Max = -0.5, float64(n)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(n)-0.5
	return p, nil
}

func annotate(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// HourHistogram draws 24 one-hour bins over [0, 24) with a Gaussian KDE
// curve scaled to counts. An empty sample still yields an (empty) chart.
func HourHistogram(title string, hours []float64) (*plot.Plot, error) {
	counts := stats.HourCounts(hours)
	bins := make([]plotter.HistogramBin, 24)
	for h := range bins {
		bins[h] = plotter.HistogramBin{Min: float64(h), Max: float64(h + 1), Weight: float64(counts[h])}
	}
	hist := &plotter.Histogram{
		Bins:      bins,
		Width:     1,
		FillColor: color.RGBA{R: 31, G: 119, B: 180, A: 160},
		LineStyle: plotter.DefaultLineStyle,
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "hour"
	p.Y.Label.Text = "Count"
	p.Add(plotter.NewGrid(), hist)

	if bw := stats.SilvermanBandwidth(hours); bw > 0 {
		xs := stats.Linspace(0, 24, 241)
		density := stats.KDE(hours, xs, bw)
		scale := float64(len(hours)) // bin width is one hour
		pts := make(plotter.XYs, len(xs))
		for i := range xs {
			pts[i] = plotter.XY{X: xs[i], Y: density[i] * scale}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("render: kde line: %w", err)
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = kdeOrange
		p.Add(line)
	}

	p.X.Min, p.X.Max = 0, 24
	p.X.Tick.Marker = hourTicks{}
	return p, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
