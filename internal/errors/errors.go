// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvariantViolation indicates a business rule on the role model was broken.
	// Violations carry a machine-readable kind so clients can branch on it.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrConcurrentModification indicates a lost update was detected: the record
	// changed between read and write and the whole mutation was rejected.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated identity doesn't have permission.
	ErrForbidden = errors.New("forbidden")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// KindError attaches a stable, machine-readable kind string to a sentinel error.
// API responses surface the kind so clients can branch without parsing messages.
type KindError struct {
	base    error
	kind    string
	message string
}

// NewKind creates a KindError wrapping the given sentinel.
func NewKind(base error, kind, message string) *KindError {
	return &KindError{base: base, kind: kind, message: message}
}

// Error returns the human-readable message.
func (e *KindError) Error() string { return e.message }

// Unwrap returns the wrapped sentinel so Is/As keep working through the chain.
func (e *KindError) Unwrap() error { return e.base }

// Kind returns the machine-readable kind string.
func (e *KindError) Kind() string { return e.kind }

// KindOf extracts the kind string from the first kind-carrying error in the
// chain. Returns "" when no error in the chain carries a kind.
func KindOf(err error) string {
	var k interface{ Kind() string }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return ""
}
