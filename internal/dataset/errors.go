// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrNoColumns is returned for empty input (no header row).
	ErrNoColumns = errors.New("no columns to parse from file")
	// ErrTooManyFields is returned when a record is wider than the header.
	ErrTooManyFields = errors.New("too many fields")
	// ErrInvalidUTF8 is returned when a cell is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// NotFoundError reports a missing input file together with enough context
// for an operator to spot a wrong working directory.
type NotFoundError struct {
	Path    string   // resolved absolute path that was tried
	WorkDir string   // current working directory
	Entries []string // sorted names in WorkDir; nil when it could not be listed
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("data file not found at: %s", e.Path)
}

// ParseError reports a file that exists but could not be read as a table.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to read CSV (%s): %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
