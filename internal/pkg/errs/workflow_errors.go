package errs

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition   = errors.New("status transition is not allowed")
	ErrInvalidState        = errors.New("operation is not allowed in current state")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrExternalDependency  = errors.New("external dependency failure")
	ErrAmountMismatch      = errors.New("amount mismatch")
)

// InvalidTransitionError carries the rejected (from, to) pair of a lifecycle.
type InvalidTransitionError struct {
	Lifecycle string
	From      string
	To        string
}

func NewInvalidTransitionError(lifecycle, from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{
		Lifecycle: lifecycle,
		From:      from,
		To:        to,
	}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s %s -> %s", ErrInvalidTransition, e.Lifecycle, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// InvalidStateError reports an operation that requires the entity to be in a
// different state than the one it is in, e.g. editing a processed request.
type InvalidStateError struct {
	Entity    string
	State     string
	Operation string
}

func NewInvalidStateError(entity, state, operation string) *InvalidStateError {
	return &InvalidStateError{
		Entity:    entity,
		State:     state,
		Operation: operation,
	}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: cannot %s %s in status %s", ErrInvalidState, e.Operation, e.Entity, e.State)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// ConcurrencyConflictError reports a write made against a stale version.
// Callers are expected to re-read the aggregate and retry.
type ConcurrencyConflictError struct {
	Entity string
	ID     string
}

func NewConcurrencyConflictError(entity, id string) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{
		Entity: entity,
		ID:     id,
	}
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("%s: %s %s was modified concurrently", ErrConcurrencyConflict, e.Entity, e.ID)
}

func (e *ConcurrencyConflictError) Unwrap() error {
	return ErrConcurrencyConflict
}

// ExternalDependencyError wraps a failure of a remote collaborator such as
// the payment gateway. Both the sentinel and the cause are reachable via errors.Is.
type ExternalDependencyError struct {
	Dependency string
	Operation  string
	Cause      error
}

func NewExternalDependencyError(dependency, operation string, cause error) *ExternalDependencyError {
	return &ExternalDependencyError{
		Dependency: dependency,
		Operation:  operation,
		Cause:      cause,
	}
}

func (e *ExternalDependencyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %s (cause: %v)", ErrExternalDependency, e.Dependency, e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: %s %s", ErrExternalDependency, e.Dependency, e.Operation)
}

func (e *ExternalDependencyError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrExternalDependency}
	}
	return []error{ErrExternalDependency, e.Cause}
}

// AmountMismatchError reports that the sum of child amounts disagrees with
// the parent total.
type AmountMismatchError struct {
	Entity   string
	Expected string
	Actual   string
}

func NewAmountMismatchError(entity string, expected, actual fmt.Stringer) *AmountMismatchError {
	return &AmountMismatchError{
		Entity:   entity,
		Expected: expected.String(),
		Actual:   actual.String(),
	}
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("%s: %s total is %s, items sum to %s", ErrAmountMismatch, e.Entity, e.Expected, e.Actual)
}

func (e *AmountMismatchError) Unwrap() error {
	return ErrAmountMismatch
}
