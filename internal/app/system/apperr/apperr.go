// Package apperr defines the error taxonomy shared by stores, queries and
// handlers. Stores wrap these sentinels with %w so callers can classify a
// failure with errors.Is while keeping the original message.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced assignment, link, user,
	// area, position or comment does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName is returned when an area or position name collides
	// with an existing one after case and accent folding.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrDuplicateEmail is returned when an email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrValidation is returned when a required field is missing or a value
	// is outside its allowed set.
	ErrValidation = errors.New("validation failed")
	// ErrBackend is returned when the database or identity provider rejects
	// a call.
	ErrBackend = errors.New("backend error")
	// ErrForbidden is returned when the actor's role does not allow the
	// requested operation.
	ErrForbidden = errors.New("forbidden")
	// ErrPartialCreate is returned when an assignment was written but one
	// or more of its links were not.
	ErrPartialCreate = errors.New("assignment created without all of its assignees")
)

// NotFound wraps ErrNotFound with the kind of record that was missing.
func NotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// Invalid wraps ErrValidation with a human readable reason.
func Invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

// Backend wraps a driver or identity-provider error as ErrBackend, keeping
// the cause available to errors.Is / errors.As. A nil err yields nil.
func Backend(op string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Op: op, Err: err}
}

// BackendError records the operation that failed and the underlying cause.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap exposes both the taxonomy sentinel and the original cause.
func (e *BackendError) Unwrap() []error {
	return []error{ErrBackend, e.Err}
}
