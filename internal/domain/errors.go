package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the referenced trip, booking, hold or
	// account does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientCredits is returned when a hold or debit exceeds the
	// account's spendable balance.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrInsufficientSeats is returned when a reservation would drive
	// available seats below zero.
	ErrInsufficientSeats = errors.New("insufficient seats")

	// ErrTripNotActive is returned when booking against a full, cancelled
	// or completed trip.
	ErrTripNotActive = errors.New("trip is not active")

	// ErrNotAuthorized is returned when the acting user is not the right
	// party for the operation.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInvalidStateTransition is returned when operating on a booking or
	// trip that is already in a terminal state.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrDuplicateBooking is returned when the passenger already holds a
	// non-terminal booking on the trip.
	ErrDuplicateBooking = errors.New("booking already exists for this trip")

	// ErrDuplicateRating is returned on a second rating for the same
	// (trip, rater, rated) triple.
	ErrDuplicateRating = errors.New("rating already submitted")

	// ErrTripNotCompleted is returned when rating a trip that has not
	// reached its completion checkpoint.
	ErrTripNotCompleted = errors.New("trip is not completed")
)

// ValidationError rejects malformed input before any ledger or inventory
// mutation is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ReconciliationError reports a compensating rollback that itself failed.
// The hold it names must be reconciled out-of-band; it is never swallowed.
type ReconciliationError struct {
	Op     string
	HoldID string
	Err    error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation required: %s left hold %s dangling: %v", e.Op, e.HoldID, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }
