package verification

import "errors"

// Category classifies a failed confirmation for callers. Forged, malformed
// and wrong-purpose tokens all collapse into CategoryInvalid so a probing
// client learns nothing about why a token was refused.
type Category string

const (
	CategoryExpired     Category = "expired"
	CategoryInvalid     Category = "invalid"
	CategoryAlreadyUsed Category = "already-used"
)

var (
	// ErrSubjectNotFound is returned when the subject id has no account.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrAlreadyVerified is returned when the address is already verified.
	ErrAlreadyVerified = errors.New("email already verified")
)
