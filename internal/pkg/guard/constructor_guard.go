// Package guard provides ConstructorGuard, which lets value types detect whether they
// were built through their constructor or are a zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in commands and queries so handlers can reject zero-value
// instances that skipped constructor validation.
//
// Example usage:
//
//	var ErrGetOrderStatusQueryIsNotConstructed = errors.New("...")
//
//	type GetOrderStatusQuery struct {
//	    orderID string
//	    guard   guard.ConstructorGuard
//	}
//
//	func (q GetOrderStatusQuery) Validate() error {
//	    return q.guard.Validate(ErrGetOrderStatusQueryIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil) if the guard
// is a zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
