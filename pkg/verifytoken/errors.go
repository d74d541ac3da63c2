package verifytoken

import "errors"

var (
	// ErrTokenMalformed is returned when a token cannot be parsed or its
	// signature, issuer or audience does not verify. Forged and garbage
	// tokens are deliberately indistinguishable.
	ErrTokenMalformed = errors.New("verification token is malformed or not authentic")

	// ErrTokenExpired is returned when a token's signature verifies but its
	// validity window has passed.
	ErrTokenExpired = errors.New("verification token has expired")

	// ErrWrongPurpose is returned when a token's purpose claim is not the
	// email verification purpose.
	ErrWrongPurpose = errors.New("token was not issued for email verification")
)
