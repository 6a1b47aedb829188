// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package dataset

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable_RejectsWideRows(t *testing.T) {
	_, err := NewTable([]string{"a"}, [][]string{{"1", "2"}})
	assert.ErrorIs(t, err, ErrTooManyFields)

	_, err = NewTable(nil, nil)
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestNewTable_NormalizesColumnNames(t *testing.T) {
	tbl, err := NewTable([]string{"views", "", "views", " views ", "views.1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"views", "Unnamed: 1", "views.1", "views.2", "views.1.1"}, tbl.Columns())
}

func TestTable_HasAndViews(t *testing.T) {
	tbl, err := NewTable([]string{"title", "views", "likes"}, [][]string{
		{"A", "10", "1"},
		{"B", "", "x"},
		{"C", "2.5"},
	})
	require.NoError(t, err)

	assert.True(t, tbl.Has("views", "likes"))
	assert.True(t, tbl.Has())
	assert.False(t, tbl.Has("views", "comments"))

	views, ok := tbl.Floats("views")
	require.True(t, ok)
	assert.Equal(t, 10.0, views[0])
	assert.True(t, math.IsNaN(views[1]))
	assert.Equal(t, 2.5, views[2])

	likes, _ := tbl.Floats("likes")
	assert.True(t, math.IsNaN(likes[1]), "non-numeric is NaN")
	assert.True(t, math.IsNaN(likes[2]), "padded cell is NaN")

	_, ok = tbl.Floats("nope")
	assert.False(t, ok)
	_, ok = tbl.Strings("nope")
	assert.False(t, ok)
}

func TestTable_ColumnsIsACopy(t *testing.T) {
	tbl, err := NewTable([]string{"a"}, nil)
	require.NoError(t, err)
	cols := tbl.Columns()
	cols[0] = "mutated"
	assert.True(t, tbl.Has("a"))
}

func TestTable_CoerceTimes(t *testing.T) {
	tbl, err := NewTable([]string{"publish_time"}, [][]string{
		{"2025-06-01T10:00:00Z"},
		{"invalid-date"},
		{""},
	})
	require.NoError(t, err)

	_, ok := tbl.Times("publish_time")
	assert.False(t, ok, "not coerced yet")

	nulls, ok := tbl.CoerceTimes("publish_time")
	require.True(t, ok)
	assert.Equal(t, 2, nulls)

	times, ok := tbl.Times("publish_time")
	require.True(t, ok)
	assert.Equal(t, 10, times[0].Time.Hour())

	_, ok = tbl.CoerceTimes("missing")
	assert.False(t, ok)
}

func TestTable_Describe(t *testing.T) {
	tbl, err := NewTable(
		[]string{"title", "views", "likes", "score", "empty", "publish_time"},
		[][]string{
			{"A", "10", "1", "0.5", "", "2025-01-01T00:00:00Z"},
			{"B", "20", "", "1", "", "bad"},
		},
	)
	require.NoError(t, err)
	tbl.CoerceTimes("publish_time")

	got := tbl.Describe()
	want := []ColumnInfo{
		{Name: "title", NonNull: 2, Dtype: DtypeObject},
		{Name: "views", NonNull: 2, Dtype: DtypeInt64},
		{Name: "likes", NonNull: 1, Dtype: DtypeFloat64},
		{Name: "score", NonNull: 2, Dtype: DtypeFloat64},
		{Name: "empty", NonNull: 0, Dtype: DtypeFloat64},
		{Name: "publish_time", NonNull: 1, Dtype: DtypeDatetime},
	}
	assert.Equal(t, want, got)
}

func TestTable_Info(t *testing.T) {
	tbl, err := NewTable([]string{"title", "views"}, [][]string{{"A", "1"}, {"B", "2"}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.Info(&buf))
	out := buf.String()

	assert.Contains(t, out, "RangeIndex: 2 entries, 0 to 1")
	assert.Contains(t, out, "Data columns (total 2 columns):")
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "2 non-null")
	assert.Contains(t, out, "dtypes: int64(1), object(1)")
	assert.Contains(t, out, "memory usage:")
}

func TestTable_InfoEmpty(t *testing.T) {
	tbl, err := NewTable([]string{"title"}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.Info(&buf))
	assert.Contains(t, buf.String(), "RangeIndex: 0 entries")
}

func TestTable_Head(t *testing.T) {
	rows := make([][]string, 0, 8)
	for i := 0; i < 8; i++ {
		rows = append(rows, []string{strings.Repeat("x", 60), "", "2025-01-01T12:00:00Z"})
	}
	rows[1][2] = "invalid-date"
	tbl, err := NewTable([]string{"title", "likes", "publish_time"}, rows)
	require.NoError(t, err)
	tbl.CoerceTimes("publish_time")

	var buf bytes.Buffer
	require.NoError(t, tbl.Head(&buf, 5))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6, "header + 5 rows")

	assert.Contains(t, lines[0], "title")
	assert.Contains(t, lines[1], strings.Repeat("x", 47)+"...")
	assert.NotContains(t, lines[1], strings.Repeat("x", 48))
	assert.Contains(t, lines[1], "NaN")
	assert.Contains(t, lines[1], "2025-01-01 12:00:00+00:00")
	assert.Contains(t, lines[2], "NaT")
}

func TestTable_HeadBeyondLength(t *testing.T) {
	tbl, err := NewTable([]string{"a"}, [][]string{{"1"}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.Head(&buf, 5))
	assert.Len(t, strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"), 2)
}
