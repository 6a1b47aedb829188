// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package youtube

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrBadRequest       = errors.New("youtube: bad request")
	ErrForbidden        = errors.New("youtube: access forbidden (key invalid or quota exceeded)")
	ErrNotFound         = errors.New("youtube: resource not found")
	ErrUpstream         = errors.New("youtube: upstream error (5xx)")
	ErrUnexpectedStatus = errors.New("youtube: unexpected status")
	ErrUnavailable      = errors.New("youtube: host unreachable or transport failure")
	ErrBadResponse      = errors.New("youtube: invalid response format")
	ErrTimeout          = errors.New("youtube: request timed out")
)

// APIError wraps a sentinel with the operation, HTTP status and the API's own message.
type APIError struct {
	Sentinel  error
	Operation string
	Status    int
	Reason    string
	Message   string
	Err       error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Reason)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Sentinel
}

func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return ErrBadRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 500:
		return ErrUpstream
	default:
		return ErrUnexpectedStatus
	}
}
