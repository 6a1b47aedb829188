// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package stats

import (
	"database/sql"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelation_DiagonalAndSymmetry(t *testing.T) {
	views := []float64{1000, 2500, 300, 42, 99000, 5100, math.NaN()}
	likes := []float64{50, 140, 3, 0, 8800, 410, 12}
	comments := []float64{7, 9, 0, 0, 1200, 33, 1}

	m, err := Correlation([]string{"views", "likes", "comments"}, [][]float64{views, likes, comments})
	require.NoError(t, err)
	require.Len(t, m.Values, 3)

	for i := range m.Values {
		assert.Equal(t, 1.0, m.At(i, i), "diagonal %d", i)
		for j := range m.Values {
			assert.Equal(t, m.At(i, j), m.At(j, i), "symmetry %d,%d", i, j)
			if !math.IsNaN(m.At(i, j)) {
				assert.LessOrEqual(t, math.Abs(m.At(i, j)), 1.0)
			}
		}
	}
	assert.Greater(t, m.At(0, 1), 0.9, "views and likes move together")
}

func TestCorrelation_PerfectAndInverse(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	m, err := Correlation([]string{"x", "2x", "-x"}, [][]float64{x, {2, 4, 6, 8}, {-1, -2, -3, -4}})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m.At(0, 1), 1e-12)
	assert.InDelta(t, -1.0, m.At(0, 2), 1e-12)
}

func TestCorrelation_DegeneratePairsAreNaN(t *testing.T) {
	m, err := Correlation([]string{"a", "const", "sparse"}, [][]float64{
		{1, 2, 3},
		{5, 5, 5},
		{math.NaN(), 1, math.NaN()},
	})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(m.At(0, 1)))
	assert.True(t, math.IsNaN(m.At(0, 2)))
	assert.Equal(t, 1.0, m.At(1, 1), "diagonal stays 1 even for a constant column")
}

func TestCorrelation_ShapeErrors(t *testing.T) {
	_, err := Correlation([]string{"a"}, [][]float64{{1}, {2}})
	assert.Error(t, err)
	_, err = Correlation([]string{"a", "b"}, [][]float64{{1, 2}, {2}})
	assert.Error(t, err)
}

func TestHoursAndCounts(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	times := []sql.NullTime{
		{Time: time.Date(2025, 1, 1, 3, 15, 0, 0, time.UTC), Valid: true},
		{Time: time.Date(2025, 1, 1, 5, 30, 0, 0, loc), Valid: true}, // 00:00 UTC
		{},
		{Time: time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC), Valid: true},
	}
	hours := Hours(times)
	assert.Equal(t, []float64{3, 0, 23}, hours)

	bins := HourCounts(append(hours, 3, -1, 24))
	assert.Equal(t, 2, bins[3])
	assert.Equal(t, 1, bins[0])
	assert.Equal(t, 1, bins[23])
	total := 0
	for _, b := range bins {
		total += b
	}
	assert.Equal(t, 4, total, "out of range hours are ignored")
}

func TestKDE_IntegratesToOne(t *testing.T) {
	sample := []float64{1, 2, 2, 3, 8, 9, 9, 10, 14, 20}
	bw := SilvermanBandwidth(sample)
	require.Greater(t, bw, 0.0)

	xs := Linspace(-30, 60, 2001)
	ys := KDE(sample, xs, bw)
	require.Len(t, ys, len(xs))

	var area float64
	for i := 1; i < len(xs); i++ {
		area += (xs[i] - xs[i-1]) * (ys[i] + ys[i-1]) / 2
	}
	assert.InDelta(t, 1.0, area, 1e-3)
}

func TestKDE_Degenerate(t *testing.T) {
	assert.Nil(t, KDE(nil, []float64{1}, 1))
	assert.Nil(t, KDE([]float64{1}, []float64{1}, 0))
	assert.Zero(t, SilvermanBandwidth([]float64{4}))
	assert.Zero(t, SilvermanBandwidth([]float64{4, 4, 4}))
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, Linspace(0, 1, 3))
	assert.Equal(t, []float64{2}, Linspace(2, 5, 1))
	assert.Nil(t, Linspace(0, 1, 0))
}

func TestTokenize(t *testing.T) {
	got := Tokenize("The BEST Songs of 2025 | Ｆｕｌｌ Album (Official Video) #shorts a")
	assert.Equal(t, []string{"best", "songs", "2025", "full", "album", "official", "video", "shorts"}, got)
}

func TestTokenize_NonLatin(t *testing.T) {
	got := Tokenize("नमस्ते दुनिया - Straße")
	assert.Contains(t, got, "नमस्ते")
	assert.Contains(t, got, "strasse")
}

func TestWordFrequencies(t *testing.T) {
	titles := []string{
		"Cricket highlights India vs Australia",
		"India cricket live",
		"Australia travel vlog",
		"Cricket!",
	}
	got := WordFrequencies(titles, 3)
	assert.Equal(t, []WordCount{
		{Word: "cricket", Count: 3},
		{Word: "australia", Count: 2},
		{Word: "india", Count: 2},
	}, got)

	all := WordFrequencies(titles, 0)
	assert.Len(t, all, 7)
	assert.Empty(t, WordFrequencies(nil, 10))
}
