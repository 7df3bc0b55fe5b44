package source

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies an adapter failure for diagnostics and metrics.
type Kind string

const (
	KindTimeout Kind = "timeout" // upstream call exceeded its deadline
	KindHTTP    Kind = "http"    // non-success status or transport failure
	KindDecode  Kind = "decode"  // malformed or unexpected payload
)

// Error is the value an adapter failure is carried as. It never escapes the
// aggregation layer; callers of the aggregator only see it as diagnostics.
type Error struct {
	Kind   Kind
	Source string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a classified adapter error.
func NewError(kind Kind, sourceName string, err error) *Error {
	return &Error{Kind: kind, Source: sourceName, Err: err}
}

// Classify wraps an adapter error with its failure kind. Deadline and
// network-timeout errors become KindTimeout; already-classified errors pass
// through; everything else is treated as an upstream HTTP failure.
func Classify(sourceName string, err error) *Error {
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewError(KindTimeout, sourceName, err)
	}
	return NewError(KindHTTP, sourceName, err)
}
