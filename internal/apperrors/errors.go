// Package apperrors defines the error taxonomy shared by all services.
// Services return *Error values; handlers map the Kind to an HTTP status at
// the transport boundary and nowhere else.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping and retry semantics.
type Kind int

const (
	// Invalid marks a malformed or out-of-range field; the client must
	// correct the request before retrying.
	Invalid Kind = iota + 1
	// NotFound marks a missing aggregate, or one whose existence the caller
	// is not allowed to learn about.
	NotFound
	// Forbidden marks a visible aggregate the actor may not transition.
	Forbidden
	// Conflict marks a state-machine precondition violated by a race or a
	// stale view; retryable after re-reading current state.
	Conflict
	// Unexpected marks a store or transport failure.
	Unexpected
)

// Error carries a kind plus a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an error of the given kind with a caller-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap annotates an underlying error with a kind and message.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, defaulting to Unexpected.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Unexpected
}

// MessageOf extracts the caller-facing message from err. Unexpected errors
// collapse to a generic message so internals never leak to clients.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != Unexpected {
		return ae.Message
	}
	return "server error"
}
