// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCSV = `title,channel,category_id,publish_time,views,likes,comments,duration
Song A,Chan 1,10,2025-01-02T15:04:05Z,1000,50,7,PT3M2S
Song B,Chan 2,24,invalid-date,42,0,0,PT1H
Song C,Chan 3,24,,7,1,0,PT10S
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_NotFoundListsWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "x\n1\n")
	writeFile(t, dir, "a.txt", "hello")
	t.Chdir(dir)

	_, err := Load("missing.csv")
	require.Error(t, err)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf), "got %T: %v", err, err)
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "missing.csv"), nf.Path)
	assert.Equal(t, wd, nf.WorkDir)
	assert.Equal(t, []string{"a.txt", "b.csv"}, nf.Entries)
	assert.Contains(t, nf.Error(), "missing.csv")
}

func TestLoad_RelativePathResolvesAgainstWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "data"), 0o755))
	writeFile(t, filepath.Join(dir, "data"), "trend.csv", validCSV)
	t.Chdir(dir)

	tbl, err := Load(filepath.Join("data", "trend.csv"))
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())
}

func TestLoad_ParseFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "empty file", content: "", wantErr: ErrNoColumns},
		{name: "only blank lines", content: "\n\n", wantErr: ErrNoColumns},
		{name: "too many fields", content: "a,b\n1,2\n3,4,5\n", wantErr: ErrTooManyFields},
		{name: "invalid utf8", content: "a,b\n1,\xff\xfe\n", wantErr: ErrInvalidUTF8},
		{name: "unterminated quote", content: "a,b\n1,\"unterminated\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "bad.csv", tt.content)

			_, err := Load(path)
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "got %T: %v", err, err)
			assert.Equal(t, path, pe.Path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			var nf *NotFoundError
			assert.False(t, errors.As(err, &nf))
		})
	}
}

func TestLoad_DirectoryIsParseFailure(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)

	var pe *ParseError
	require.True(t, errors.As(err, &pe), "got %T: %v", err, err)
}

func TestLoad_InvalidDateBecomesNull(t *testing.T) {
	path := writeFile(t, t.TempDir(), "trend.csv", validCSV)

	tbl, err := Load(path)
	require.NoError(t, err)

	times, ok := tbl.Times("publish_time")
	require.True(t, ok)
	require.Len(t, times, 3)

	assert.True(t, times[0].Valid)
	assert.Equal(t, time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC), times[0].Time)
	assert.False(t, times[1].Valid, "invalid-date must be null")
	assert.False(t, times[2].Valid, "empty cell must be null")
}

func TestLoad_NoPublishTimeColumnIsFine(t *testing.T) {
	path := writeFile(t, t.TempDir(), "plain.csv", "title,views\nA,1\n")

	tbl, err := Load(path)
	require.NoError(t, err)
	_, ok := tbl.Times("publish_time")
	assert.False(t, ok)
}

func TestLoad_ShortRowsArePadded(t *testing.T) {
	path := writeFile(t, t.TempDir(), "short.csv", "a,b,c\n1,2\n4,5,6\n")

	tbl, err := Load(path)
	require.NoError(t, err)
	c, ok := tbl.Strings("c")
	require.True(t, ok)
	assert.Equal(t, []string{"", "6"}, c)
}

func TestLoad_StripsBOM(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bom.csv", "\xEF\xBB\xBFtitle,views\nA,1\n")

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.True(t, tbl.Has("title"))
}

func TestLoad_QuotedMultilineCell(t *testing.T) {
	path := writeFile(t, t.TempDir(), "quoted.csv", "title,views\n\"Hello, \"\"world\"\"\nagain\",3\n")

	tbl, err := Load(path)
	require.NoError(t, err)
	titles, _ := tbl.Strings("title")
	assert.Equal(t, []string{"Hello, \"world\"\nagain"}, titles)
}

func TestLoad_YearlessTimestampsAreNull(t *testing.T) {
	path := writeFile(t, t.TempDir(), "partial.csv",
		"title,publish_time\nA,1/\nB,Jan 1\nC,2025-01-02T15:04:05Z\n")

	tbl, err := Load(path)
	require.NoError(t, err)
	times, ok := tbl.Times("publish_time")
	require.True(t, ok)
	require.Len(t, times, 3)
	assert.False(t, times[0].Valid)
	assert.False(t, times[1].Valid)
	assert.True(t, times[2].Valid)
}

func TestLoad_StrayQuoteInUnquotedCell(t *testing.T) {
	path := writeFile(t, t.TempDir(), "stray.csv", "title,views,likes\n12\" pizza review,5,1\nPlain,7,2\n")

	tbl, err := Load(path)
	require.NoError(t, err)
	titles, _ := tbl.Strings("title")
	assert.Equal(t, []string{"12\" pizza review", "Plain"}, titles)
	views, _ := tbl.Floats("views")
	assert.Equal(t, []float64{5, 7}, views)
}

func TestRead_LineNumberInError(t *testing.T) {
	_, err := Read(strings.NewReader("a\n1\n2\n3,4\n"))
	require.ErrorIs(t, err, ErrTooManyFields)
	assert.Contains(t, err.Error(), "line 4")
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{in: "2025-01-02T15:04:05Z", ok: true, want: time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)},
		{in: "2025-01-02T17:04:05+02:00", ok: true, want: time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)},
		{in: "2025-01-02 15:04:05", ok: true, want: time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)},
		{in: "2025-01-02", ok: true, want: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{in: "invalid-date", ok: false},
		{in: "1/", ok: false},
		{in: "1:", ok: false},
		{in: "12:", ok: false},
		{in: "Jan 1", ok: false},
		{in: "1.2.3.4.5", ok: false},
		{in: "   ", ok: false},
		{in: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}
