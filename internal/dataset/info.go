// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package dataset

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// Column dtypes reported by Info, named after their pandas equivalents so the
// summary reads familiar next to notebook output.
const (
	DtypeInt64    = "int64"
	DtypeFloat64  = "float64"
	DtypeDatetime = "datetime64[ns, UTC]"
	DtypeObject   = "object"
)

const (
	maxCellWidth  = 50
	timeLayout    = "2006-01-02 15:04:05+00:00"
	cellOverhead  = 16
	nullCellLabel = "NaN"
	nullTimeLabel = "NaT"
)

// ColumnInfo summarises one column.
type ColumnInfo struct {
	Name    string
	NonNull int
	Dtype   string
}

// Describe returns per-column non-null counts and inferred dtypes.
func (t *Table) Describe() []ColumnInfo {
	out := make([]ColumnInfo, 0, len(t.columns))
	for i, name := range t.columns {
		ci := ColumnInfo{Name: name}
		if ts, ok := t.times[name]; ok {
			for _, v := range ts {
				if v.Valid {
					ci.NonNull++
				}
			}
			ci.Dtype = DtypeDatetime
			out = append(out, ci)
			continue
		}

		allInt, allFloat := true, true
		for _, r := range t.rows {
			cell := strings.TrimSpace(r[i])
			if cell == "" {
				continue
			}
			ci.NonNull++
			if allInt {
				if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
					allInt = false
				}
			}
			if allFloat {
				if _, err := strconv.ParseFloat(cell, 64); err != nil {
					allFloat = false
				}
			}
		}
		switch {
		case ci.NonNull == 0:
			ci.Dtype = DtypeFloat64
		case allInt && ci.NonNull == len(t.rows):
			ci.Dtype = DtypeInt64
		case allFloat:
			// integer columns with nulls widen to float, as in pandas
			ci.Dtype = DtypeFloat64
		default:
			ci.Dtype = DtypeObject
		}
		out = append(out, ci)
	}
	return out
}

// MemoryUsage is a rough estimate of the bytes held by the cells.
func (t *Table) MemoryUsage() uint64 {
	var n uint64
	for _, r := range t.rows {
		for _, c := range r {
			n += uint64(len(c)) + cellOverhead
		}
	}
	return n
}

// Info writes a concise summary of the table: index range, one line per
// column with its non-null count and dtype, dtype totals and memory estimate.
func (t *Table) Info(w io.Writer) error {
	var b strings.Builder
	if n := t.Len(); n == 0 {
		b.WriteString("RangeIndex: 0 entries\n")
	} else {
		fmt.Fprintf(&b, "RangeIndex: %s entries, 0 to %s\n", humanize.Comma(int64(n)), humanize.Comma(int64(n-1)))
	}
	fmt.Fprintf(&b, "Data columns (total %d columns):\n", len(t.columns))

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, " #\tColumn\tNon-Null Count\tDtype")
	fmt.Fprintln(tw, "---\t------\t--------------\t-----")
	infos := t.Describe()
	counts := map[string]int{}
	for i, ci := range infos {
		fmt.Fprintf(tw, " %d\t%s\t%d non-null\t%s\n", i, ci.Name, ci.NonNull, ci.Dtype)
		counts[ci.Dtype]++
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	dtypes := make([]string, 0, len(counts))
	for d := range counts {
		dtypes = append(dtypes, d)
	}
	sort.Strings(dtypes)
	parts := make([]string, 0, len(dtypes))
	for _, d := range dtypes {
		parts = append(parts, fmt.Sprintf("%s(%d)", d, counts[d]))
	}
	fmt.Fprintf(&b, "dtypes: %s\n", strings.Join(parts, ", "))
	fmt.Fprintf(&b, "memory usage: %s\n", humanize.Bytes(t.MemoryUsage()))

	_, err := io.WriteString(w, b.String())
	return err
}

// Head writes the first n rows as an aligned text table with a leading index
// column. Null cells print as NaN (NaT for timestamp columns).
func (t *Table) Head(w io.Writer, n int) error {
	if n < 0 || n > t.Len() {
		n = t.Len()
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\t"+strings.Join(t.columns, "\t"))
	for i := 0; i < n; i++ {
		cells := make([]string, len(t.columns))
		for j, name := range t.columns {
			cells[j] = t.displayCell(name, i, t.rows[i][j])
		}
		fmt.Fprintf(tw, "%d\t%s\n", i, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func (t *Table) displayCell(col string, row int, raw string) string {
	if ts, ok := t.times[col]; ok {
		if !ts[row].Valid {
			return nullTimeLabel
		}
		return ts[row].Time.Format(timeLayout)
	}
	if strings.TrimSpace(raw) == "" {
		return nullCellLabel
	}
	raw = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(raw)
	if utf8.RuneCountInString(raw) > maxCellWidth {
		r := []rune(raw)
		return string(r[:maxCellWidth-3]) + "..."
	}
	return raw
}
