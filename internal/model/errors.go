package model

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAuthenticationRequired is returned when an operation needs a signed-in caller.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrInsufficientPermissions is returned when the caller's role does not allow an operation.
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	// ErrInvalidCredentials is returned when email or password do not match a registered user.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrDuplicateAccount is returned when the email already has a registered identity.
	ErrDuplicateAccount = errors.New("account already registered")
	// ErrValidation is returned on client-side required-field failures.
	ErrValidation = errors.New("validation failed")
)

var (
	ErrTokenRevoked  = errors.New("refresh token revoked")
	ErrTokenExpired  = errors.New("refresh token expired")
	ErrTokenMismatch = errors.New("refresh token mismatch")
)
