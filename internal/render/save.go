// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/ManuGH/trendscope/internal/fsutil"
	"github.com/disintegration/imaging"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Standard chart sizes.
var (
	ChartSize = Size{W: 8 * vg.Inch, H: 6 * vg.Inch}
	CloudSize = Size{W: 8 * vg.Inch, H: 4 * vg.Inch}
)

// Size is a canvas size.
type Size struct {
	W, H vg.Length
}

// SavePNG renders p and replaces path atomically.
func SavePNG(ctx context.Context, p *plot.Plot, size Size, path string) error {
	wt, err := p.WriterTo(size.W, size.H, "png")
	if err != nil {
		return fmt.Errorf("render: draw %s: %w", path, err)
	}
	return fsutil.WriteAtomic(ctx, path, func(w io.Writer) error {
		_, err := wt.WriteTo(w)
		return err
	})
}

const (
	dashboardCols  = 2
	dashboardTileW = 800
	dashboardTileH = 600
)

// Dashboard composes the given PNG files into a two-column contact sheet on a
// white background. Tiles keep their aspect ratio and are centred in their
// cell.
func Dashboard(ctx context.Context, paths []string, out string) error {
	if len(paths) == 0 {
		return fmt.Errorf("render: dashboard needs at least one image")
	}
	tiles := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := imaging.Open(p)
		if err != nil {
			return fmt.Errorf("render: dashboard tile %s: %w", p, err)
		}
		tiles = append(tiles, imaging.Fit(img, dashboardTileW, dashboardTileH, imaging.Lanczos))
	}

	cols := dashboardCols
	if len(tiles) < cols {
		cols = len(tiles)
	}
	rows := (len(tiles) + cols - 1) / cols
	sheet := imaging.New(cols*dashboardTileW, rows*dashboardTileH, color.White)
	for i, t := range tiles {
		b := t.Bounds()
		x := (i%cols)*dashboardTileW + (dashboardTileW-b.Dx())/2
		y := (i/cols)*dashboardTileH + (dashboardTileH-b.Dy())/2
		sheet = imaging.Paste(sheet, t, image.Pt(x, y))
	}

	return fsutil.WriteAtomic(ctx, out, func(w io.Writer) error {
		return imaging.Encode(w, sheet, imaging.PNG)
	})
}
