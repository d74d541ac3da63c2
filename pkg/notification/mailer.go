package notification

import (
	"context"
	"fmt"
	"time"
)

// VerificationMailer adapts the notification manager to the mail sender
// interface the verification service consumes.
type VerificationMailer struct {
	manager *NotificationManager
}

// NewVerificationMailer creates a mailer backed by the given manager. The
// manager must have an email notifier and the email verification template
// registered.
func NewVerificationMailer(manager *NotificationManager) *VerificationMailer {
	return &VerificationMailer{manager: manager}
}

// SendVerification delivers the verification email. The context deadline is
// advisory: delivery runs in a goroutine and the call returns early with the
// context error if the deadline passes first.
func (m *VerificationMailer) SendVerification(ctx context.Context, email, name, verificationLink string, expiresIn time.Duration) error {
	data := NotificationData{
		To: email,
		Data: map[string]string{
			"Name":             name,
			"VerificationLink": verificationLink,
			"ExpiryHours":      fmt.Sprintf("%.0f", expiresIn.Hours()),
		},
	}

	done := make(chan error, 1)
	go func() {
		done <- m.manager.Send(EmailVerificationNotice, EmailSystem, data)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send verification email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
