// Package registry tracks outstanding verification tokens and enforces
// single-use consumption and expiry. The registry is the only mutable shared
// state in the verification subsystem; it is injected into the service so the
// backing store can be swapped without touching orchestration logic.
package registry

import (
	"context"
	"fmt"
	"time"
)

// TokenMeta is the metadata held for one outstanding token.
type TokenMeta struct {
	SubjectID int64     `json:"subject_id"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the token window has passed at the given instant.
func (m TokenMeta) Expired(now time.Time) bool {
	return !now.Before(m.ExpiresAt)
}

// TokenRegistry defines the operations for the verification token store.
//
// Store and Consume must be atomic with respect to each other for a given
// token key: two concurrent Consume calls for the same token yield exactly
// one success and one ErrTokenNotFound, never two successes.
type TokenRegistry interface {
	// Store records a token. Any live token for the same (subject, email)
	// pair is replaced, so at most one token per pair is outstanding.
	Store(ctx context.Context, token string, meta TokenMeta) error

	// Consume is an atomic get-and-delete. It returns ErrTokenNotFound for
	// an absent token (already consumed or never issued, callers cannot
	// tell which) and ErrTokenExpired, deleting the entry, for an expired one.
	Consume(ctx context.Context, token string) (*TokenMeta, error)

	// DeleteBySubject removes any live token for the (subject, email) pair
	// and returns the number of entries removed.
	DeleteBySubject(ctx context.Context, subjectID int64, email string) (int, error)

	// Sweep deletes every expired entry and returns the number removed.
	// Housekeeping only: Consume rechecks expiry itself.
	Sweep(ctx context.Context) (int, error)
}

// pairKey identifies the (subject, email) pair a token was issued for.
func pairKey(subjectID int64, email string) string {
	return fmt.Sprintf("%d|%s", subjectID, email)
}
