/*
errors.go - Centralized error types for the settlement engine

PURPOSE:
  All error kinds in one place. Calculators never fail; every other
  operation surfaces one of these as a typed failure.

ERROR CATEGORIES:
  1. Period lifecycle - InvalidRange, AlreadyClosed
  2. Lookup - NotFound (period, rep, product)
  3. Lock - LockedPeriod (write dated inside a closed period)
  4. Input - InvalidInput (malformed write)

USAGE:
  if errors.Is(err, ledger.ErrLockedPeriod) {
      // tell the user to record an Adjustment instead
  }

SEE ALSO:
  - settlement.go, lock.go, recorder.go: return these errors
  - api/handlers.go: maps them to HTTP status codes
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when a settlement period's end is not after its start.
	ErrInvalidRange = errors.New("invalid range: end must be after start")

	// ErrNotFound is returned when an operation references an unknown id.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyClosed is returned when closing a period that is already closed.
	ErrAlreadyClosed = errors.New("settlement period already closed")

	// ErrLockedPeriod is returned when a write is dated inside a closed period.
	ErrLockedPeriod = errors.New("date falls within a closed settlement period")

	// ErrInvalidInput is returned for malformed writes (zero quantity, empty name, ...).
	ErrInvalidInput = errors.New("invalid input")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError names the kind and id that failed to resolve.
type NotFoundError struct {
	Kind string // "rep", "product", "settlement period"
	ID   uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AlreadyClosedError reports which period refused the transition.
type AlreadyClosedError struct {
	PeriodID PeriodID
}

func (e *AlreadyClosedError) Error() string {
	return fmt.Sprintf("settlement period %d is already closed", e.PeriodID)
}

func (e *AlreadyClosedError) Unwrap() error { return ErrAlreadyClosed }

// LockedPeriodError is returned by the Recorder when a write hits a closed period.
type LockedPeriodError struct {
	Date   Timestamp
	Period SettlementPeriod
}

func (e *LockedPeriodError) Error() string {
	return lockMessage(e.Period)
}

func (e *LockedPeriodError) Unwrap() error { return ErrLockedPeriod }

// InputError describes a rejected field.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError returns true if the error is due to invalid client input
// or a rule the client can act on.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrAlreadyClosed) ||
		errors.Is(err, ErrLockedPeriod)
}
