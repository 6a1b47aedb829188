// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package render

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/plot"
)

// siTicks keeps gonum's default tick placement but labels large counts with
// SI prefixes (12k, 3.4M) so view counts stay readable.
type siTicks struct{}

func (siTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label == "" {
			continue
		}
		ticks[i].Label = strings.ReplaceAll(strings.TrimSpace(humanize.SIWithDigits(ticks[i].Value, 1, "")), " ", "")
	}
	return ticks
}

// hourTicks labels every third hour of the day.
type hourTicks struct{}

func (hourTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for h := 0; h <= 24; h++ {
		if float64(h) < min || float64(h) > max {
			continue
		}
		t := plot.Tick{Value: float64(h)}
		if h%3 == 0 {
			t.Label = strconv.Itoa(h)
		}
		ticks = append(ticks, t)
	}
	return ticks
}
