// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package stats holds the numeric summaries behind the analyzer's plots.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Matrix is a square, labelled correlation matrix.
type Matrix struct {
	Labels []string
	Values [][]float64
}

// At returns the coefficient for the labelled pair.
func (m Matrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// Correlation computes the Pearson correlation matrix of the given columns
// using pairwise-complete observations: for each pair, rows where either
// value is NaN are ignored. The diagonal is exactly 1 and the matrix is
// exactly symmetric. Pairs with fewer than two complete rows or zero
// variance yield NaN.
func Correlation(labels []string, columns [][]float64) (Matrix, error) {
	if len(labels) != len(columns) {
		return Matrix{}, fmt.Errorf("stats: %d labels for %d columns", len(labels), len(columns))
	}
	for i := 1; i < len(columns); i++ {
		if len(columns[i]) != len(columns[0]) {
			return Matrix{}, fmt.Errorf("stats: column %q has %d rows, want %d", labels[i], len(columns[i]), len(columns[0]))
		}
	}

	n := len(columns)
	m := Matrix{Labels: append([]string(nil), labels...), Values: make([][]float64, n)}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pairwise(columns[i], columns[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

func pairwise(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for k := range x {
		if math.IsNaN(x[k]) || math.IsNaN(y[k]) {
			continue
		}
		xs = append(xs, x[k])
		ys = append(ys, y[k])
	}
	if len(xs) < 2 || isConstant(xs) || isConstant(ys) {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	// guard against rounding drifting just outside [-1, 1]
	return math.Max(-1, math.Min(1, r))
}

func isConstant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}
