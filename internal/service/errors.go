package service

import "errors"

// Common service errors
var (
	// ErrInvalidCredentials is returned when authentication fails for any
	// reason: unknown email, missing password, password mismatch, or an
	// external-identity-only account. Callers must not be able to tell
	// these cases apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPasswordRequired is returned when a signup supplies neither a
	// password nor an external identity.
	ErrPasswordRequired = errors.New("password is required when no external identity is supplied")

	// ErrExternalIdentityUnverified is returned when the external identity
	// provider did not assert ownership of the profile's email.
	ErrExternalIdentityUnverified = errors.New("external identity email is not verified")
)
