package service

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input on a specific field.  It is
// always recoverable by the caller; handlers surface the offending
// field with a 400 response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// invalid is a shorthand constructor used throughout the engine.
func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ErrAlreadyConverted is returned when converting a quote that has
// already produced an order.  A quote converts to at most one order.
var ErrAlreadyConverted = errors.New("quote already converted")

// ErrIdentifierExhausted is returned when repeated identifier collisions
// exhaust the bounded retry budget.  The minted reference space is
// small (three random digits per year), so collisions are expected at
// volume; exhausting five consecutive retries is not.
var ErrIdentifierExhausted = errors.New("could not mint a unique identifier")
