package registry

import "errors"

var (
	// ErrTokenNotFound is returned when a token is absent from the registry.
	// Already-consumed and never-issued tokens are indistinguishable, so the
	// registry cannot be used as a token-existence oracle.
	ErrTokenNotFound = errors.New("verification token not found")

	// ErrTokenExpired is returned when a token is present but its validity
	// window has passed. The entry is deleted on this path.
	ErrTokenExpired = errors.New("verification token has expired")
)
