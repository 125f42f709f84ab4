package errors

import (
	"errors"
	"fmt"
)

var (
	// General validation errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrRequiredField = errors.New("required field is missing")
	ErrOutOfRange    = errors.New("value out of range")

	// Specific field validation errors
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrInvalidPlanID  = errors.New("invalid plan id")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidFeature = errors.New("invalid feature name")
)

// ValidationError wraps a field validation error
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed for field '%s': %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidInput
	}
	return e.Err
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
