// Package errors provides centralized error definitions and error handling
// utilities for auractl. It defines domain-specific errors, error
// constructors with context wrapping, and classification helpers.
//
// Two error shapes matter to the launcher:
//
//   - ValidationError: the launch request itself is malformed. Fatal to the
//     whole invocation; nothing external is touched.
//   - BoundaryError: a call across the multiplexer or agent boundary failed
//     for one replica. Isolated; sibling replicas proceed.
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrNameExhausted) { ... }
//
//	var verr *errors.ValidationError
//	if errors.As(err, &verr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience, so callers can
// import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Sentinel errors for the launch pipeline.
var (
	// ErrInvalidRequest indicates that launch request validation failed.
	ErrInvalidRequest = New("invalid launch request")
	// ErrNameExhausted indicates the unique-name search hit its attempt bound.
	ErrNameExhausted = New("session name attempts exhausted")
	// ErrSessionExists indicates the multiplexer already has a session by that name.
	ErrSessionExists = New("session already exists")
	// ErrMultiplexerUnavailable indicates the multiplexer could not be reached at all.
	ErrMultiplexerUnavailable = New("multiplexer unavailable")
)

// ValidationError represents a malformed launch request. It is raised before
// any external call, so a ValidationError guarantees zero side effects.
//
// Example:
//
//	err := errors.NewValidationError("replica count must be at least 1")
//	err = err.WithField("replicas").WithValue(0)
type ValidationError struct {
	message string
	cause   error
	Field   string
	Value   any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{message: message}
}

// WithField adds the offending field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the offending value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds an underlying cause.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Unwrap returns the underlying cause, if any.
func (e *ValidationError) Unwrap() error {
	return e.cause
}

// Is reports whether this error matches the target. All ValidationErrors
// match ErrInvalidRequest and each other.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidRequest) {
		return true
	}
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// BoundaryError represents a failed call across the multiplexer or agent
// boundary for a single replica.
//
// Example:
//
//	err := errors.NewBoundaryError("create-session", cause).WithSession("worker-2")
type BoundaryError struct {
	// Op is the boundary operation that failed, e.g. "create-session".
	Op      string
	Session string
	// Output is captured stderr from the external program, if any.
	Output string
	cause  error
}

// NewBoundaryError creates a new BoundaryError for the given operation.
func NewBoundaryError(op string, cause error) *BoundaryError {
	return &BoundaryError{Op: op, cause: cause}
}

// WithSession adds the session name to the error context.
func (e *BoundaryError) WithSession(name string) *BoundaryError {
	e.Session = name
	return e
}

// WithOutput adds captured external-program output to the error context.
func (e *BoundaryError) WithOutput(output string) *BoundaryError {
	e.Output = strings.TrimSpace(output)
	return e
}

// Error returns the formatted error message.
func (e *BoundaryError) Error() string {
	prefix := fmt.Sprintf("boundary error [op=%s", e.Op)
	if e.Session != "" {
		prefix += fmt.Sprintf(", session=%s", e.Session)
	}
	prefix += "]"

	msg := prefix
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	if e.Output != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Output)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *BoundaryError) Unwrap() error {
	return e.cause
}

// Is reports whether this error matches the target.
func (e *BoundaryError) Is(target error) bool {
	if _, ok := target.(*BoundaryError); ok {
		return true
	}
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// IsValidation reports whether err is fatal to the whole invocation
// (a malformed request) as opposed to a per-replica failure.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}
	var verr *ValidationError
	return As(err, &verr) || Is(err, ErrInvalidRequest)
}

// IsBoundary reports whether err came from a multiplexer or agent call.
func IsBoundary(err error) bool {
	if err == nil {
		return false
	}
	var berr *BoundaryError
	return As(err, &berr)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
