// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package dataset loads the trending CSV into an in-memory table and offers
// the typed column views the analyzer needs.
package dataset

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Table is an immutable-by-convention column-named grid of text cells. An
// empty cell is null. Columns coerced with CoerceTimes also carry a parsed
// timestamp view.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
	times   map[string][]sql.NullTime
}

// NewTable builds a table from a header and rows. Short rows are padded with
// nulls; rows wider than the header are rejected.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	cols := normalizeColumns(columns)
	t := &Table{
		columns: cols,
		index:   make(map[string]int, len(cols)),
		rows:    make([][]string, 0, len(rows)),
		times:   map[string][]sql.NullTime{},
	}
	for i, c := range cols {
		t.index[c] = i
	}
	for i, r := range rows {
		row, err := fitRow(r, len(cols), i+2)
		if err != nil {
			return nil, err
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// fitRow pads a short record or rejects a wide one. line is the 1-based
// line number used in the error, counting the header as line 1.
func fitRow(r []string, width, line int) ([]string, error) {
	if len(r) > width {
		return nil, fmt.Errorf("%w: expected %d fields in line %d, saw %d", ErrTooManyFields, width, line, len(r))
	}
	row := make([]string, width)
	copy(row, r)
	return row, nil
}

// normalizeColumns names blank headers "Unnamed: i" and suffixes duplicates
// with ".1", ".2", ... so every column is addressable.
func normalizeColumns(in []string) []string {
	out := make([]string, len(in))
	used := make(map[string]bool, len(in))
	dups := make(map[string]int)
	for i, c := range in {
		c = strings.TrimSpace(c)
		if c == "" {
			c = "Unnamed: " + strconv.Itoa(i)
		}
		name := c
		for used[name] {
			dups[c]++
			name = c + "." + strconv.Itoa(dups[c])
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Has reports whether every named column is present.
func (t *Table) Has(cols ...string) bool {
	for _, c := range cols {
		if _, ok := t.index[c]; !ok {
			return false
		}
	}
	return true
}

// Strings returns a copy of the raw cells of col.
func (t *Table) Strings(col string) ([]string, bool) {
	idx, ok := t.index[col]
	if !ok {
		return nil, false
	}
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[idx]
	}
	return out, true
}

// Floats returns col as numbers; null and non-numeric cells are NaN.
func (t *Table) Floats(col string) ([]float64, bool) {
	idx, ok := t.index[col]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = parseFloat(r[idx])
	}
	return out, true
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// CoerceTimes parses col into timestamps. Cells that are empty or cannot be
// parsed become null instead of failing. It returns the number of nulls.
func (t *Table) CoerceTimes(col string) (int, bool) {
	idx, ok := t.index[col]
	if !ok {
		return 0, false
	}
	parsed := make([]sql.NullTime, len(t.rows))
	nulls := 0
	for i, r := range t.rows {
		if ts, ok := ParseTimestamp(r[idx]); ok {
			parsed[i] = sql.NullTime{Time: ts, Valid: true}
			continue
		}
		nulls++
	}
	t.times[col] = parsed
	return nulls, true
}

// Times returns the coerced timestamps of col. ok is false when the column is
// missing or was never coerced.
func (t *Table) Times(col string) ([]sql.NullTime, bool) {
	ts, ok := t.times[col]
	if !ok {
		return nil, false
	}
	out := make([]sql.NullTime, len(ts))
	copy(out, ts)
	return out, true
}
