// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/ManuGH/trendscope/internal/fsutil"
	"github.com/ManuGH/trendscope/internal/trending"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load resolves path against the working directory and reads it as a CSV
// table with a header row. A missing file yields *NotFoundError; anything
// that exists but cannot be parsed yields *ParseError. When the table has a
// publish_time column it is coerced to timestamps, with unparseable cells
// turned into nulls.
func Load(path string) (*Table, error) {
	resolved, err := fsutil.ResolvePath(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	if _, err := os.Stat(resolved); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(resolved)
		}
		return nil, &ParseError{Path: resolved, Err: err}
	}

	// #nosec G304 -- the data path is supplied by the operator on the command line
	f, err := os.Open(resolved)
	if err != nil {
		return nil, &ParseError{Path: resolved, Err: err}
	}
	defer func() { _ = f.Close() }()

	t, err := Read(f)
	if err != nil {
		return nil, &ParseError{Path: resolved, Err: err}
	}

	if t.Has(trending.ColPublishTime) {
		t.CoerceTimes(trending.ColPublishTime)
	}
	return t, nil
}

// Read parses CSV from r. It does not coerce any column.
//
// Quoting is strict first. A stray quote inside an unquoted cell, as in
// `12" pizza`, makes Read parse again with lazy quotes; an unterminated quoted
// cell is still an error.
func Read(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	t, err := parse(data, false)
	if errors.Is(err, csv.ErrBareQuote) {
		return parse(data, true)
	}
	return t, err
}

func parse(data []byte, lazyQuotes bool) (*Table, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = lazyQuotes

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, err
	}
	if err := checkUTF8(header, 1); err != nil {
		return nil, err
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if err := checkUTF8(rec, line); err != nil {
			return nil, err
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("%w: expected %d fields in line %d, saw %d", ErrTooManyFields, len(header), line, len(rec))
		}
		rows = append(rows, rec)
	}

	return NewTable(header, rows)
}

func checkUTF8(rec []string, line int) error {
	for _, cell := range rec {
		if !utf8.ValidString(cell) {
			return fmt.Errorf("%w in line %d", ErrInvalidUTF8, line)
		}
	}
	return nil
}

func notFound(path string) *NotFoundError {
	e := &NotFoundError{Path: path}
	wd, err := os.Getwd()
	if err != nil {
		return e
	}
	e.WorkDir = wd
	entries, err := os.ReadDir(wd)
	if err != nil {
		return e
	}
	names := make([]string, 0, len(entries))
	for _, ent := range entries {
		names = append(names, ent.Name())
	}
	sort.Strings(names)
	e.Entries = names
	return e
}
