// Package signup registers new subjects and kicks off email verification.
package signup

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/tendant/simple-verify/pkg/account"
	"github.com/tendant/simple-verify/pkg/emailcheck"
	"github.com/tendant/simple-verify/pkg/verification"
)

// ValidationError reports a rejected registration address. Suggestion
// carries a likely intended address when a domain typo was detected.
type ValidationError struct {
	Reason     string
	Suggestion string
}

func (e ValidationError) Error() string {
	return e.Reason
}

// RegisterParams are the inputs for registering a new subject.
type RegisterParams struct {
	Email    string
	Name     string
	Password string
}

// Service registers subjects: validates the address, hashes the password,
// creates the account and requests verification.
type Service struct {
	subjects account.Repository
	verifier *verification.Service
	cost     int
}

type ServiceOption func(*Service)

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) ServiceOption {
	return func(s *Service) {
		s.cost = cost
	}
}

// NewService creates a signup service.
func NewService(subjects account.Repository, verifier *verification.Service, opts ...ServiceOption) *Service {
	service := &Service{
		subjects: subjects,
		verifier: verifier,
		cost:     bcrypt.DefaultCost,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// RegisterSubject creates a new subject and sends the verification email.
// A rejected address fails the registration with a ValidationError; a mail
// delivery failure does not, since the subject can request a resend.
func (s *Service) RegisterSubject(ctx context.Context, params RegisterParams) (*account.Subject, error) {
	check := emailcheck.Validate(params.Email)
	if !check.Accepted {
		reason := "email address failed validation"
		if len(check.Errors) > 0 {
			reason = check.Errors[0]
		} else if len(check.Warnings) > 0 {
			reason = check.Warnings[0]
		}
		slog.Info("Rejected registration", "score", check.Score, "reason", reason)
		return nil, ValidationError{Reason: reason, Suggestion: check.Suggestion}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.cost)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	subject, err := s.subjects.CreateSubject(ctx, account.CreateSubjectParams{
		Email:        check.Normalized,
		Name:         params.Name,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	result := s.verifier.RequestVerification(ctx, subject.ID, subject.Email)
	if !result.Sent {
		slog.Error("Failed to send verification email after registration",
			"subject_id", subject.ID, "reason", result.Reason)
		// Continue anyway, the subject can request a resend
	}

	slog.Info("Subject registered", "subject_id", subject.ID)
	return subject, nil
}
