package model

import (
	"errors"
	"fmt"
)

// Error taxonomy. Components wrap underlying failures with one of these so
// callers can classify them with errors.Is.
var (
	// ErrTransport means the marketplace request could not complete
	// (network failure, timeout, or non-success status).
	ErrTransport = errors.New("transport error")

	// ErrParse means the marketplace response did not carry a price at the expected path.
	ErrParse = errors.New("parse error")

	// ErrRegistryUnavailable means the article table could not be read or written.
	ErrRegistryUnavailable = errors.New("registry unavailable")

	// ErrSinkUnavailable means the price log could not be appended to.
	ErrSinkUnavailable = errors.New("sink unavailable")

	// ErrValidation means a caller supplied a malformed value.
	ErrValidation = errors.New("validation error")
)

// ValidationError describes a rejected input value.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Unwrap makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Kind returns a short label for the taxonomy class of err, for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrSinkUnavailable):
		return "sink"
	case errors.Is(err, ErrRegistryUnavailable):
		return "registry"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "other"
	}
}
