// Package account provides subject (user account) persistence for the
// verification subsystem. The wider application owns the full user model;
// this package carries only the fields verification needs.
package account

import (
	"context"
	"time"
)

// Subject represents an account whose email address may be verified.
type Subject struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	PasswordHash    []byte     `json:"password_hash,omitempty"`
	EmailVerified   bool       `json:"email_verified"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CreateSubjectParams are the fields required to create a subject.
type CreateSubjectParams struct {
	Email        string
	Name         string
	PasswordHash []byte
}

// Repository defines subject persistence operations.
type Repository interface {
	CreateSubject(ctx context.Context, params CreateSubjectParams) (*Subject, error)
	GetSubject(ctx context.Context, id int64) (*Subject, error)
	GetSubjectByEmail(ctx context.Context, email string) (*Subject, error)

	// MarkVerified marks the subject's email as verified. Idempotent:
	// marking an already-verified subject succeeds and keeps the original
	// verification timestamp.
	MarkVerified(ctx context.Context, id int64) (*Subject, error)
}
