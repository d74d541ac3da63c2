package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/tendant/simple-verify/pkg/account"
	"github.com/tendant/simple-verify/pkg/emailcheck"
	"github.com/tendant/simple-verify/pkg/ratelimit"
	"github.com/tendant/simple-verify/pkg/registry"
	"github.com/tendant/simple-verify/pkg/verifytoken"
)

// DefaultSendTimeout bounds a single mail delivery attempt.
const DefaultSendTimeout = 10 * time.Second

// SubjectStore is the slice of the account repository the service needs.
type SubjectStore interface {
	GetSubject(ctx context.Context, id int64) (*account.Subject, error)
	MarkVerified(ctx context.Context, id int64) (*account.Subject, error)
}

// MailSender delivers the verification email. Implementations live in
// pkg/notification; tests substitute a mock.
type MailSender interface {
	SendVerification(ctx context.Context, email, name, verificationLink string, expiresIn time.Duration) error
}

// RequestResult reports the outcome of requesting or resending a
// verification email. When Sent is false, Reason says why; Suggestion
// carries a likely intended address when a domain typo was detected.
type RequestResult struct {
	Sent       bool   `json:"sent"`
	Reason     string `json:"reason,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ConfirmResult reports the outcome of confirming a token. On success OK is
// true and SubjectID/Email identify the verified pair; on failure Category
// classifies the refusal.
type ConfirmResult struct {
	OK        bool     `json:"ok"`
	SubjectID int64    `json:"subject_id,omitempty"`
	Email     string   `json:"email,omitempty"`
	Category  Category `json:"category,omitempty"`
}

// Service orchestrates address validation, token issuance, registry
// bookkeeping and mail delivery for email verification.
type Service struct {
	codec       *verifytoken.Codec
	registry    registry.TokenRegistry
	subjects    SubjectStore
	mailer      MailSender
	limiter     *ratelimit.RateLimiter
	baseURL     string
	tokenExpiry time.Duration
	sendTimeout time.Duration
}

// ServiceOption defines configuration options
type ServiceOption func(*Service)

// WithSendTimeout bounds how long a mail delivery attempt may take.
func WithSendTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		s.sendTimeout = timeout
	}
}

// WithTokenExpiry records the token validity window for display in the
// verification email. It must match the expiry the codec was built with.
func WithTokenExpiry(expiry time.Duration) ServiceOption {
	return func(s *Service) {
		s.tokenExpiry = expiry
	}
}

// WithRateLimiter sets a per-subject limiter on verification requests.
func WithRateLimiter(limiter *ratelimit.RateLimiter) ServiceOption {
	return func(s *Service) {
		s.limiter = limiter
	}
}

// NewService creates a verification service.
func NewService(
	codec *verifytoken.Codec,
	reg registry.TokenRegistry,
	subjects SubjectStore,
	mailer MailSender,
	baseURL string,
	opts ...ServiceOption,
) *Service {
	service := &Service{
		codec:       codec,
		registry:    reg,
		subjects:    subjects,
		mailer:      mailer,
		baseURL:     baseURL,
		tokenExpiry: verifytoken.DefaultTokenExpiry,
		sendTimeout: DefaultSendTimeout,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// RequestVerification validates the address, issues a fresh token for the
// (subject, address) pair and emails the verification link. Any earlier
// token for the pair stops working. A mail delivery failure is reported in
// the result but does not roll back the issued token, so the link in a
// delayed or retried email stays usable.
func (s *Service) RequestVerification(ctx context.Context, subjectID int64, email string) RequestResult {
	check := emailcheck.Validate(email)
	if !check.Accepted {
		slog.Info("Rejected verification request", "subject_id", subjectID, "score", check.Score)
		return RequestResult{
			Sent:       false,
			Reason:     rejectionReason(check),
			Suggestion: check.Suggestion,
		}
	}

	if s.limiter != nil && !s.limiter.Allow(strconv.FormatInt(subjectID, 10)) {
		slog.Warn("Rate limit exceeded", "subject_id", subjectID)
		return RequestResult{Sent: false, Reason: "too many verification requests, try again later"}
	}

	tokenStr, expiresAt, err := s.codec.Issue(subjectID, check.Normalized)
	if err != nil {
		slog.Error("Failed to issue verification token", "subject_id", subjectID, "err", err)
		return RequestResult{Sent: false, Reason: "failed to issue verification token"}
	}

	if _, err := s.registry.DeleteBySubject(ctx, subjectID, check.Normalized); err != nil {
		slog.Error("Failed to invalidate prior token", "subject_id", subjectID, "err", err)
		// Continue anyway; Store replaces the pair entry itself.
	}

	meta := registry.TokenMeta{
		SubjectID: subjectID,
		Email:     check.Normalized,
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: expiresAt,
	}
	if err := s.registry.Store(ctx, tokenStr, meta); err != nil {
		slog.Error("Failed to store verification token", "subject_id", subjectID, "err", err)
		return RequestResult{Sent: false, Reason: "failed to record verification token"}
	}

	if err := s.sendVerificationEmail(ctx, subjectID, check.Normalized, tokenStr); err != nil {
		slog.Error("Failed to send verification email", "subject_id", subjectID, "err", err)
		return RequestResult{Sent: false, Reason: "failed to deliver verification email"}
	}

	slog.Info("Verification email sent", "subject_id", subjectID, "expires_at", expiresAt)
	return RequestResult{Sent: true}
}

// Resend invalidates any live token for the subject's stored address and
// issues a fresh one. A missing subject or an already verified address is a
// no-op reported in the result.
func (s *Service) Resend(ctx context.Context, subjectID int64) RequestResult {
	subject, err := s.subjects.GetSubject(ctx, subjectID)
	if err != nil {
		slog.Error("Failed to load subject for resend", "subject_id", subjectID, "err", err)
		return RequestResult{Sent: false, Reason: ErrSubjectNotFound.Error()}
	}

	if subject.EmailVerified {
		slog.Info("Email already verified", "subject_id", subjectID)
		return RequestResult{Sent: false, Reason: ErrAlreadyVerified.Error()}
	}

	return s.RequestVerification(ctx, subjectID, subject.Email)
}

// Confirm verifies a presented token, consumes its registry entry and marks
// the subject's address verified. Two concurrent calls with the same token
// yield exactly one success.
func (s *Service) Confirm(ctx context.Context, token string) ConfirmResult {
	info, err := s.codec.Open(token)
	if err != nil {
		if errors.Is(err, verifytoken.ErrTokenExpired) {
			slog.Info("Expired token presented")
			return ConfirmResult{Category: CategoryExpired}
		}
		slog.Info("Invalid token presented", "err", err)
		return ConfirmResult{Category: CategoryInvalid}
	}

	if _, err := s.registry.Consume(ctx, token); err != nil {
		switch {
		case errors.Is(err, registry.ErrTokenExpired):
			slog.Info("Token expired in registry", "subject_id", info.SubjectID)
			return ConfirmResult{Category: CategoryExpired}
		default:
			// Consumed earlier, superseded by a resend, or lost to a
			// restart; all look the same.
			slog.Info("Token not live in registry", "subject_id", info.SubjectID)
			return ConfirmResult{Category: CategoryAlreadyUsed}
		}
	}

	if _, err := s.subjects.MarkVerified(ctx, info.SubjectID); err != nil {
		slog.Error("Failed to mark subject verified", "subject_id", info.SubjectID, "err", err)
		return ConfirmResult{Category: CategoryInvalid}
	}

	slog.Info("Email verified", "subject_id", info.SubjectID)
	return ConfirmResult{OK: true, SubjectID: info.SubjectID, Email: info.Email}
}

// Status returns the verification state of the subject's address.
func (s *Service) Status(ctx context.Context, subjectID int64) (bool, *time.Time, error) {
	subject, err := s.subjects.GetSubject(ctx, subjectID)
	if err != nil {
		slog.Error("Failed to load subject", "subject_id", subjectID, "err", err)
		return false, nil, ErrSubjectNotFound
	}
	return subject.EmailVerified, subject.EmailVerifiedAt, nil
}

// sendVerificationEmail looks up the subject's display name and delivers the
// link under the configured timeout.
func (s *Service) sendVerificationEmail(ctx context.Context, subjectID int64, email, token string) error {
	if s.mailer == nil {
		slog.Warn("Mailer not configured, skipping email send", "subject_id", subjectID)
		return nil
	}

	name := ""
	if subject, err := s.subjects.GetSubject(ctx, subjectID); err == nil {
		name = subject.Name
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", s.baseURL, token)

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	return s.mailer.SendVerification(sendCtx, email, name, link, s.tokenExpiry)
}

// rejectionReason picks the message surfaced for a rejected address: the
// first hard error when one exists, otherwise the quality shortfall.
func rejectionReason(check emailcheck.Result) string {
	if len(check.Errors) > 0 {
		return check.Errors[0]
	}
	if len(check.Warnings) > 0 {
		return fmt.Sprintf("%s (quality score %d)", check.Warnings[0], check.Score)
	}
	return fmt.Sprintf("address quality score %d is below the acceptance threshold", check.Score)
}
