package errors

import (
	"errors"
	"fmt"
)

var (
	// Account errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("account already exists")

	// Habit errors
	ErrHabitNotFound = errors.New("habit not found")

	// Catalog and purchase errors
	ErrPlanNotFound       = errors.New("plan not found")
	ErrPurchaseInProgress = errors.New("a purchase is already in progress for this account")
	ErrBillingFailed      = errors.New("billing provider failed")
	ErrReceiptInvalid     = errors.New("receipt is invalid")

	// Collaborator errors
	ErrPersistenceFailed          = errors.New("persistence write failed")
	ErrExternalServiceUnavailable = errors.New("external service unavailable")
)

// NotFoundError wraps an error with not found context
type NotFoundError struct {
	Entity string
	ID     string
	Err    error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id '%s' not found: %v", e.Entity, e.ID, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// NewAccountNotFound is returned by account repositories on a missing id
func NewAccountNotFound(id string) *NotFoundError {
	return &NotFoundError{Entity: "account", ID: id, Err: ErrAccountNotFound}
}

// NewHabitNotFound is returned by habit repositories on a missing id
func NewHabitNotFound(id string) *NotFoundError {
	return &NotFoundError{Entity: "habit", ID: id, Err: ErrHabitNotFound}
}

// ConflictError wraps an error with conflict context
type ConflictError struct {
	Entity string
	Reason string
	Err    error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s - %v", e.Entity, e.Reason, e.Err)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is any of the not-found sentinels
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrHabitNotFound) || errors.Is(err, ErrPlanNotFound)
}
