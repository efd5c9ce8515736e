package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidExercise is returned for an exercise outside the supported set.
	ErrInvalidExercise = errors.New("invalid exercise")

	// ErrInvalidCompletion is returned for an unknown session completion state.
	ErrInvalidCompletion = errors.New("invalid completion state")

	// ErrNotesTooLong is returned when user supplied session notes exceed MaxNotesLength.
	ErrNotesTooLong = fmt.Errorf("notes must be at most %d characters", MaxNotesLength)

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError ties a validation failure to the field that caused it.
// It matches ErrValidation with errors.Is, as well as the wrapped cause.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", ErrValidation, e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Message)
}

// Unwrap exposes both ErrValidation and the underlying cause.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}
