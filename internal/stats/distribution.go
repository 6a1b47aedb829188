// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package stats

import (
	"database/sql"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Hours returns the UTC hour of every valid timestamp, nulls dropped.
func Hours(times []sql.NullTime) []float64 {
	out := make([]float64, 0, len(times))
	for _, t := range times {
		if t.Valid {
			out = append(out, float64(t.Time.UTC().Hour()))
		}
	}
	return out
}

// HourCounts buckets hours into 24 bins, 0 through 23.
func HourCounts(hours []float64) [24]int {
	var bins [24]int
	for _, h := range hours {
		if h >= 0 && h < 24 {
			bins[int(h)]++
		}
	}
	return bins
}

// SilvermanBandwidth is the rule-of-thumb Gaussian KDE bandwidth
// 0.9 * min(sd, IQR/1.34) * n^(-1/5). It returns 0 when it cannot be estimated.
func SilvermanBandwidth(sample []float64) float64 {
	n := len(sample)
	if n < 2 {
		return 0
	}
	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)
	sd := stat.StdDev(sorted, nil)
	iqr := stat.Quantile(0.75, stat.Empirical, sorted, nil) - stat.Quantile(0.25, stat.Empirical, sorted, nil)
	spread := sd
	if iqr > 0 && iqr/1.34 < spread {
		spread = iqr / 1.34
	}
	if spread <= 0 || math.IsNaN(spread) {
		return 0
	}
	return 0.9 * spread * math.Pow(float64(n), -0.2)
}

// KDE evaluates a Gaussian kernel density estimate of sample at each point
// in xs. The result integrates to 1; multiply by n*binWidth to overlay it on
// a count histogram. A zero bandwidth yields nil.
func KDE(sample, xs []float64, bandwidth float64) []float64 {
	if len(sample) == 0 || bandwidth <= 0 {
		return nil
	}
	norm := 1 / (float64(len(sample)) * bandwidth * math.Sqrt(2*math.Pi))
	out := make([]float64, len(xs))
	for i, x := range xs {
		var sum float64
		for _, s := range sample {
			u := (x - s) / bandwidth
			sum += math.Exp(-0.5 * u * u)
		}
		out[i] = sum * norm
	}
	return out
}

// Linspace returns n evenly spaced points over [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
