package identity

import "errors"

var (
	// ErrInvalidCredentials is returned when the email/password pair does
	// not match a registered account. Deliberately indistinguishable from
	// an unknown email.
	ErrInvalidCredentials = errors.New("identity.invalid_credentials")

	// ErrSessionNotFound is returned when no session exists for a token.
	ErrSessionNotFound = errors.New("identity.session_not_found")

	// ErrSessionExpired is returned when the session exists but its
	// lifetime has passed.
	ErrSessionExpired = errors.New("identity.session_expired")

	// ErrAccountExists is returned when registering credentials for an
	// email that already has them.
	ErrAccountExists = errors.New("identity.account_exists")

	// ErrTokenGeneration is returned when the system entropy source fails.
	ErrTokenGeneration = errors.New("identity.token_generation_failed")
)
