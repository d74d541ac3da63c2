// Package verifytoken issues and authenticates the signed, self-contained
// tokens that prove control of a claimed email address. The codec is
// stateless: all state lives in the token itself and in the verification
// registry that tracks outstanding tokens.
package verifytoken

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Purpose is the fixed discriminator embedded in every token. A token minted
// for any other purpose never verifies here, preventing cross-use replay.
const Purpose = "email_verification"

// DefaultTokenExpiry is the fixed validity window for verification tokens.
const DefaultTokenExpiry = 24 * time.Hour

// Claims is the signed claim set carried by a verification token.
type Claims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenInfo is the authenticated content of an opened token.
type TokenInfo struct {
	SubjectID int64
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Nonce     string
}

// Codec signs and verifies email verification tokens. The signing secret is
// process-wide configuration read once at startup; rotating it invalidates
// all outstanding tokens.
type Codec struct {
	secret   []byte
	issuer   string
	audience string
	expiry   time.Duration
}

// Option is a function that configures a Codec.
type Option func(*Codec)

// WithTokenExpiry sets the token validity window.
func WithTokenExpiry(expiry time.Duration) Option {
	return func(c *Codec) {
		c.expiry = expiry
	}
}

// New creates a Codec bound to the given secret, issuer and audience.
// An empty secret is a configuration error and should abort startup.
func New(secret, issuer, audience string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("verifytoken: signing secret is required")
	}

	c := &Codec{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		expiry:   DefaultTokenExpiry,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Issue builds the claim set for the given subject and address and returns
// the signed token together with its expiry time. The address should be
// normalized by the caller before issuance.
func (c *Codec) Issue(subjectID int64, email string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(c.expiry)

	claims := Claims{
		Email:   email,
		Purpose: Purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			Subject:   strconv.FormatInt(subjectID, 10),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(c.secret)
	if err != nil {
		slog.Error("Failed to sign verification token", "err", err)
		return "", time.Time{}, fmt.Errorf("failed to sign verification token: %w", err)
	}

	return tokenStr, expiresAt, nil
}

// Open verifies a presented token and returns its authenticated content.
// Failures are typed: ErrTokenExpired for a genuine token past its window,
// ErrWrongPurpose for a genuine token minted for another use, and
// ErrTokenMalformed for everything else.
func (c *Codec) Open(tokenStr string) (*TokenInfo, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(token *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	if claims.Purpose != Purpose {
		return nil, ErrWrongPurpose
	}

	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrTokenMalformed
	}

	info := &TokenInfo{
		SubjectID: subjectID,
		Email:     claims.Email,
		Nonce:     claims.ID,
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}

	return info, nil
}
