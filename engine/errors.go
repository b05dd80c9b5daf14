/*
errors.go - Centralized error types for the calculation engine

PURPOSE:
  All engine error types in one place. The engine never retries (pure
  computation has nothing transient), never panics on bad numbers, and
  never throws for a solver that finds no solution - "no solution" is a
  typed result, not an error.

ERROR CATEGORIES:
  1. Input errors  - missing, negative-where-disallowed, non-finite
  2. Solver limits - bounded searches that find nothing return typed
                     absent results (Ratio/BreakEven), NOT errors
  3. Store errors  - declared here for consistency, used by store/

USAGE:
  Callers branch with errors.Is / errors.As:

    var inv *engine.InvalidInputError
    if errors.As(err, &inv) {
        http.Error(w, inv.Field, 400)
    }

SEE ALSO:
  - types.go: Ratio (the typed absent-result carrier)
  - dealscore.go: BreakEven typed not-found
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned when a required field is missing,
	// negative where disallowed, or non-finite. Never silently coerced.
	ErrInvalidInput = errors.New("invalid input")

	// ErrScenarioNotFound is returned when a referenced saved scenario
	// doesn't exist.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrStrategyNotSupported is returned when an unknown strategy
	// identifier reaches the analyzer dispatch.
	ErrStrategyNotSupported = errors.New("strategy not supported")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError identifies the offending field so the API layer can
// return a machine-readable 400 response.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s (%s)", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// NewInvalidInput builds a field-level input error.
func NewInvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrStrategyNotSupported)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrScenarioNotFound)
}
