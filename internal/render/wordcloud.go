// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package render

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/ManuGH/trendscope/internal/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// Word cloud canvas in data units. The chart is drawn at 8x4 inches, which
// makes one data unit 0.72pt on both axes.
const (
	cloudWidth  = 800.0
	cloudHeight = 400.0
	unitPoints  = 0.72

	minFontPt = 8.0
	maxFontPt = 56.0

	// advance of an average glyph relative to the font size.
	glyphAspect = 0.6
	spiralStep  = 0.05
	spiralSteps = 12000
)

// PlacedWord is a word positioned on the word cloud canvas. X and Y are the
// centre of its bounding box.
type PlacedWord struct {
	Word  string
	Count int
	Size  float64 // font size in points
	X, Y  float64
	W, H  float64
}

func (p PlacedWord) overlaps(o PlacedWord) bool {
	return math.Abs(p.X-o.X)*2 < p.W+o.W && math.Abs(p.Y-o.Y)*2 < p.H+o.H
}

func (p PlacedWord) inside() bool {
	return p.X-p.W/2 >= 0 && p.X+p.W/2 <= cloudWidth &&
		p.Y-p.H/2 >= 0 && p.Y+p.H/2 <= cloudHeight
}

// LayoutWords places words, most frequent first, along an Archimedean spiral
// from the canvas centre. Font size scales linearly with count relative to
// the most frequent word. Words that find no free spot are dropped. The
// layout is deterministic for a given input.
func LayoutWords(words []stats.WordCount) []PlacedWord {
	if len(words) == 0 {
		return nil
	}
	top := words[0].Count
	for _, w := range words {
		if w.Count > top {
			top = w.Count
		}
	}

	placed := make([]PlacedWord, 0, len(words))
	for _, w := range words {
		size := minFontPt + (maxFontPt-minFontPt)*float64(w.Count)/float64(top)
		for size >= minFontPt {
			cand := PlacedWord{
				Word:  w.Word,
				Count: w.Count,
				Size:  size,
				W:     glyphAspect * size * float64(utf8.RuneCountInString(w.Word)) / unitPoints,
				H:     size / unitPoints,
			}
			if pos, ok := findSpot(cand, placed); ok {
				placed = append(placed, pos)
				break
			}
			size *= 0.8
		}
	}
	return placed
}

func findSpot(w PlacedWord, placed []PlacedWord) (PlacedWord, bool) {
	cx, cy := cloudWidth/2, cloudHeight/2
	for i := 0; i < spiralSteps; i++ {
		t := float64(i) * spiralStep
		// stretched horizontally to follow the 2:1 canvas
		w.X = cx + 2*t*math.Cos(t)
		w.Y = cy + t*math.Sin(t)
		if !w.inside() {
			if 2*t > cloudWidth {
				return w, false
			}
			continue
		}
		free := true
		for _, o := range placed {
			if w.overlaps(o) {
				free = false
				break
			}
		}
		if free {
			return w, true
		}
	}
	return w, false
}

// WordCloud draws placed words on a blank canvas with hidden axes.
func WordCloud(title string, words []PlacedWord) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	p.X.Min, p.X.Max = 0, cloudWidth
	p.Y.Min, p.Y.Max = 0, cloudHeight

	if len(words) == 0 {
		return p, nil
	}

	xys := make(plotter.XYs, len(words))
	labels := make([]string, len(words))
	for i, w := range words {
		xys[i] = plotter.XY{X: w.X, Y: w.Y}
		labels[i] = w.Word
	}
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("render: word labels: %w", err)
	}
	for i, w := range words {
		l.TextStyle[i].XAlign = text.XCenter
		l.TextStyle[i].YAlign = text.YCenter
		l.TextStyle[i].Font.Size = vg.Points(w.Size)
		l.TextStyle[i].Color = plotutil.Color(i)
	}
	p.Add(l)
	return p, nil
}
