// Package errs defines the failure taxonomy shared by all resource
// services. Services return these sentinels (usually wrapped with
// context); the routes layer translates them into HTTP errors. Denied
// capability checks, missing resources, and bad input must stay
// distinguishable all the way to the boundary.
package errs

import "errors"

var (
	// ErrForbidden means the acting account's ability denied the
	// operation. Never raised by the ability engine itself, which only
	// returns booleans; services convert a false Can() into this.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the addressed resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBadRequest means the input is invalid independent of
	// authorization (unknown permission atom, missing referenced
	// entity, illegal state transition).
	ErrBadRequest = errors.New("bad request")

	// ErrConflict means the operation collides with existing state,
	// such as publishing a duplicate source version.
	ErrConflict = errors.New("conflict")
)
