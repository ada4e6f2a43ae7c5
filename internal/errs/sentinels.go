// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied indicates the entity exists but belongs to another user.
	ErrAccessDenied = errors.New("access denied")

	// ErrAuthenticationFailed indicates bad credentials (user unknown or wrong password).
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidToken indicates a token that failed signature, expiry, or claim checks.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrSessionNotFound indicates no session file exists.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired indicates the stored session passed its expiry.
	ErrSessionExpired = errors.New("session expired")

	// ErrUsernameExists indicates the username is already taken.
	ErrUsernameExists = errors.New("username already exists")

	// ErrEmailExists indicates the email is already taken.
	ErrEmailExists = errors.New("email already exists")
)

// ValidationError reports which field failed validation and why.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// Validation constructs a field-level validation error.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// BulkError is raised only when every item of a bulk operation failed.
// Partial failures are logged and the successful subset is returned instead.
type BulkError struct {
	Failed int
	Total  int
}

func (e *BulkError) Error() string {
	return fmt.Sprintf("bulk operation failed: %d out of %d operations failed", e.Failed, e.Total)
}
