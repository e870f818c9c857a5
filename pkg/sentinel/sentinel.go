// Package sentinel defines the error taxonomy shared by the storage and
// service layers. Errors are matched with errors.Is and wrapped with
// operation context on the way up.
package sentinel

import "errors"

var (
	// ErrNotFound signals that a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation signals malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState signals an operation that is not permitted for the
	// entity's current lifecycle status.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrUnauthorized signals a missing or invalid credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden signals a caller who lacks ownership or role.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict signals an identifier collision. Callers may retry with a
	// regenerated identifier a bounded number of times.
	ErrConflict = errors.New("conflict")
)
