package common

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the services so callers can distinguish retry
// from hard-fail from redirect. Wrap with fmt.Errorf("...: %w", Err...) and
// branch with errors.Is.
var (
	// ErrNotFound marks reads/updates/deletes against a record that does
	// not exist or is owned by someone else.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks a request whose owner scoping failed. It is
	// fatal for the session and must never be swallowed.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation marks input rejected before any storage call.
	ErrValidation = errors.New("validation failed")
)

// ValidationError wraps a field-level failure as ErrValidation.
func ValidationError(err error) error {
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is (or wraps) ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnauthorized reports whether err is (or wraps) ErrUnauthorized.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
