// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package dataset

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseTimestamp accepts RFC 3339 first and falls back to the layouts
// dateparse recognises. Values without a zone are taken as UTC. The result is
// always in UTC. ok is false for empty or unrecognised input, and for
// fragments such as "1/" or "Jan 1" that carry no year.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), true
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil || t.Year() == 0 {
		return time.Time{}, false
	}
	return t.UTC(), true
}
