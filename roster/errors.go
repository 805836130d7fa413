/*
errors.go - Centralized error types for the roster engine

PURPOSE:
  All error types in one place for consistency and discoverability.

ERROR CATEGORIES:
  1. Structural - whole-input conditions (no duties found)
  2. Validation - rejected manual edits, missing fields
  3. Lookup     - unknown role keys, out-of-range duty indexes

Per-field parse failures are NOT errors: a malformed time or date skips
that duty and the roster keeps going. Nothing in this engine is fatal;
the worst outcome is an empty or partial result, reported with enough
metadata (excluded count, month detection source) to explain it.

USAGE:
  if errors.Is(err, roster.ErrNoDutiesFound) { ... }

  var verr *roster.ValidationError
  if errors.As(err, &verr) { ... verr.Field ... }
*/
package roster

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoDutiesFound is returned when segmentation succeeded but the
	// schedule produced zero duties. Distinct from a silent empty
	// result so callers can tell the user.
	ErrNoDutiesFound = errors.New("no flight duties found in roster")

	// ErrEmptyTable is returned when the input table has no rows.
	ErrEmptyTable = errors.New("no data found in roster table")

	// ErrUnknownRole is returned when a role key has no rate card.
	ErrUnknownRole = errors.New("unknown role")

	// ErrDutyNotFound is returned when a duty index is out of range.
	ErrDutyNotFound = errors.New("duty not found")

	// ErrInvalidInput is the base of every ValidationError.
	ErrInvalidInput = errors.New("invalid input")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError rejects a single manual-entry or edit operation.
// The duty collection is never mutated when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalidf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnknownRole) ||
		errors.Is(err, ErrEmptyTable)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDutyNotFound)
}
