// Package simplexerr defines the typed error taxonomy the core
// surfaces (§7): invalid input, numerical trouble, budget exhaustion,
// and internal invariant violations, so callers can distinguish them
// with errors.Is/errors.As instead of parsing messages.
package simplexerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	ErrInvalidInput     = errors.New("simplex: invalid input")
	ErrSingularBasis    = errors.New("simplex: singular basis")
	ErrRankDeficient    = errors.New("simplex: rank deficient after update")
	ErrBudgetExhausted   = errors.New("simplex: iteration or time budget exhausted")
	ErrInternalInvariant = errors.New("simplex: internal invariant violated")
)

// InvalidInputError wraps ErrInvalidInput with a field-specific reason.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("simplex: invalid input: %s: %s", e.Field, e.Reason)
}
func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// NewInvalidInput builds an InvalidInputError.
func NewInvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// RankDeficiencyError wraps ErrRankDeficient with the repair attempt
// count at which the solver gave up.
type RankDeficiencyError struct {
	Attempts int
}

func (e *RankDeficiencyError) Error() string {
	return fmt.Sprintf("simplex: rank deficient after %d backtracking attempts", e.Attempts)
}
func (e *RankDeficiencyError) Unwrap() error { return ErrRankDeficient }

// SingularBasisError wraps ErrSingularBasis: the initial basis itself,
// before any pivot has been taken, cannot be repaired into a
// nonsingular one by substituting logical columns.
type SingularBasisError struct{}

func (e *SingularBasisError) Error() string {
	return "simplex: initial basis is singular and cannot be repaired"
}
func (e *SingularBasisError) Unwrap() error { return ErrSingularBasis }

// BudgetExhaustedError wraps ErrBudgetExhausted with which limit
// (iteration or time) the driver hit.
type BudgetExhaustedError struct {
	Reason string
}

func (e *BudgetExhaustedError) Error() string {
	return fmt.Sprintf("simplex: %s exhausted", e.Reason)
}
func (e *BudgetExhaustedError) Unwrap() error { return ErrBudgetExhausted }

// InternalInvariantError wraps ErrInternalInvariant with what was
// found to be inconsistent.
type InternalInvariantError struct {
	What string
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("simplex: internal invariant violated: %s", e.What)
}
func (e *InternalInvariantError) Unwrap() error { return ErrInternalInvariant }
