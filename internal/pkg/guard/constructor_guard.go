// Package guard holds the construction guard embedded by commands and queries
// so that a zero-value command can never reach a handler.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether its owner was built by a constructor.
// The zero value is "not constructed".
//
//	type ApproveCancellationCommand struct {
//	    cancellationID kernel.UUID
//	    guard          guard.ConstructorGuard
//	}
//
//	func (c ApproveCancellationCommand) Validate() error {
//	    return c.guard.Validate(ErrApproveCancellationCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
