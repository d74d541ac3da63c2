package verification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-verify/pkg/account"
	"github.com/tendant/simple-verify/pkg/ratelimit"
	"github.com/tendant/simple-verify/pkg/registry"
	"github.com/tendant/simple-verify/pkg/verifytoken"
)

// mockMailer records delivered links and can be told to fail.
type mockMailer struct {
	mu       sync.Mutex
	links    []string
	failWith error
}

func (m *mockMailer) SendVerification(ctx context.Context, email, name, link string, expiresIn time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.links = append(m.links, link)
	return nil
}

func (m *mockMailer) lastToken(t *testing.T) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.links)
	link := m.links[len(m.links)-1]
	parts := strings.SplitN(link, "token=", 2)
	require.Len(t, parts, 2)
	return parts[1]
}

type fixture struct {
	service  *Service
	registry *registry.InMemTokenRegistry
	subjects *account.InMemRepository
	mailer   *mockMailer
}

func newFixture(t *testing.T, codecOpts []verifytoken.Option, svcOpts ...ServiceOption) *fixture {
	codec, err := verifytoken.New("test-secret", "simple-verify", "simple-verify-app", codecOpts...)
	require.NoError(t, err)

	f := &fixture{
		registry: registry.NewInMemTokenRegistry(),
		subjects: account.NewInMemRepository(),
		mailer:   &mockMailer{},
	}
	f.service = NewService(codec, f.registry, f.subjects, f.mailer, "https://app.example.com", svcOpts...)
	return f
}

func (f *fixture) createSubject(t *testing.T, email string) *account.Subject {
	subject, err := f.subjects.CreateSubject(context.Background(), account.CreateSubjectParams{
		Email: email,
		Name:  "Test Subject",
	})
	require.NoError(t, err)
	return subject
}

func TestService_RequestVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, nil)
		subject := f.createSubject(t, "new.user@gmail.com")

		result := f.service.RequestVerification(ctx, subject.ID, "new.user@gmail.com")
		assert.True(t, result.Sent)
		assert.Empty(t, result.Reason)
		assert.Equal(t, 1, f.registry.Len())

		link := f.mailer.links[0]
		assert.True(t, strings.HasPrefix(link, "https://app.example.com/verify-email?token="))
	})

	t.Run("DisposableRejected", func(t *testing.T) {
		f := newFixture(t, nil)
		subject := f.createSubject(t, "someone@mailinator.com")

		result := f.service.RequestVerification(ctx, subject.ID, "someone@mailinator.com")
		assert.False(t, result.Sent)
		assert.Contains(t, result.Reason, "disposable")
		assert.Equal(t, 0, f.registry.Len())
	})

	t.Run("TypoSuggestion", func(t *testing.T) {
		f := newFixture(t, nil)
		subject := f.createSubject(t, "john.doe@gamil.com")

		result := f.service.RequestVerification(ctx, subject.ID, "john.doe@gamil.com")
		assert.False(t, result.Sent)
		assert.Equal(t, "john.doe@gmail.com", result.Suggestion)
	})

	t.Run("SendFailureKeepsToken", func(t *testing.T) {
		f := newFixture(t, nil)
		subject := f.createSubject(t, "new.user@gmail.com")
		f.mailer.failWith = errors.New("smtp unreachable")

		result := f.service.RequestVerification(ctx, subject.ID, "new.user@gmail.com")
		assert.False(t, result.Sent)
		assert.Contains(t, result.Reason, "deliver")
		// The token outlives the failed delivery and can be resent later.
		assert.Equal(t, 1, f.registry.Len())
	})

	t.Run("RateLimited", func(t *testing.T) {
		limiter := ratelimit.NewRateLimiter(1, 0.0001, 0)
		f := newFixture(t, nil, WithRateLimiter(limiter))
		subject := f.createSubject(t, "new.user@gmail.com")

		first := f.service.RequestVerification(ctx, subject.ID, "new.user@gmail.com")
		assert.True(t, first.Sent)

		second := f.service.RequestVerification(ctx, subject.ID, "new.user@gmail.com")
		assert.False(t, second.Sent)
		assert.Contains(t, second.Reason, "too many")
	})
}

func TestService_Confirm(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, nil)
		subject := f.createSubject(t, "new.user@gmail.com")

		result := f.service.RequestVerification(ctx, subject.ID, "new.user@gmail.com")
		require.True(t, result.Sent)

		confirm := f.service.Confirm(ctx, f.mailer.lastToken(t))
		assert.True(t, confirm.OK)
		assert.Equal(t, subject.ID, confirm.SubjectID)
		assert.Equal(t, "new.user@gmail.com", confirm.Email)

		verified, verifiedAt, err := f.service.Status(ctx, subject.ID)
		require.NoError(t, err)
		assert.True(t, verified)
		assert.NotNil(t, verifiedAt)
	})

	t.Run("SecondUseRejected", func(t *testing.T) {
		f := newFixture(t, nil)
		subject := f.createSubject(t, "new.user@gmail.com")
		f.service.RequestVerification(ctx, subject.ID, "new.user@gmail.com")
		token := f.mailer.lastToken(t)

		first := f.service.Confirm(ctx, token)
		require.True(t, first.OK)

		second := f.service.Confirm(ctx, token)
		assert.False(t, second.OK)
		assert.Equal(t, CategoryAlreadyUsed, second.Category)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		f := newFixture(t, nil)
		confirm := f.service.Confirm(ctx, "not-a-token")
		assert.False(t, confirm.OK)
		assert.Equal(t, CategoryInvalid, confirm.Category)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		f := newFixture(t, []verifytoken.Option{verifytoken.WithTokenExpiry(-1 * time.Hour)})
		subject := f.createSubject(t, "new.user@gmail.com")
		f.service.RequestVerification(ctx, subject.ID, "new.user@gmail.com")

		confirm := f.service.Confirm(ctx, f.mailer.lastToken(t))
		assert.False(t, confirm.OK)
		assert.Equal(t, CategoryExpired, confirm.Category)
	})

	t.Run("SupersededTokenRejected", func(t *testing.T) {
		f := newFixture(t, nil)
		subject := f.createSubject(t, "new.user@gmail.com")

		f.service.RequestVerification(ctx, subject.ID, "new.user@gmail.com")
		firstToken := f.mailer.lastToken(t)

		f.service.RequestVerification(ctx, subject.ID, "new.user@gmail.com")
		secondToken := f.mailer.lastToken(t)
		require.NotEqual(t, firstToken, secondToken)

		stale := f.service.Confirm(ctx, firstToken)
		assert.False(t, stale.OK)
		assert.Equal(t, CategoryAlreadyUsed, stale.Category)

		fresh := f.service.Confirm(ctx, secondToken)
		assert.True(t, fresh.OK)
	})

	t.Run("ConcurrentConfirmExactlyOnce", func(t *testing.T) {
		f := newFixture(t, nil)
		subject := f.createSubject(t, "new.user@gmail.com")
		f.service.RequestVerification(ctx, subject.ID, "new.user@gmail.com")
		token := f.mailer.lastToken(t)

		const workers = 16
		var wg sync.WaitGroup
		results := make([]ConfirmResult, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = f.service.Confirm(ctx, token)
			}(i)
		}
		wg.Wait()

		successes := 0
		for _, r := range results {
			if r.OK {
				successes++
			} else {
				assert.Equal(t, CategoryAlreadyUsed, r.Category)
			}
		}
		assert.Equal(t, 1, successes)
	})
}

func TestService_Resend(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, nil)
		subject := f.createSubject(t, "new.user@gmail.com")
		f.service.RequestVerification(ctx, subject.ID, "new.user@gmail.com")

		result := f.service.Resend(ctx, subject.ID)
		assert.True(t, result.Sent)
		assert.Len(t, f.mailer.links, 2)
		assert.Equal(t, 1, f.registry.Len())
	})

	t.Run("UnknownSubject", func(t *testing.T) {
		f := newFixture(t, nil)
		result := f.service.Resend(ctx, 999)
		assert.False(t, result.Sent)
		assert.Equal(t, ErrSubjectNotFound.Error(), result.Reason)
	})

	t.Run("AlreadyVerified", func(t *testing.T) {
		f := newFixture(t, nil)
		subject := f.createSubject(t, "new.user@gmail.com")
		f.service.RequestVerification(ctx, subject.ID, "new.user@gmail.com")
		confirm := f.service.Confirm(ctx, f.mailer.lastToken(t))
		require.True(t, confirm.OK)

		result := f.service.Resend(ctx, subject.ID)
		assert.False(t, result.Sent)
		assert.Equal(t, ErrAlreadyVerified.Error(), result.Reason)
	})
}

func TestService_Status(t *testing.T) {
	f := newFixture(t, nil)
	subject := f.createSubject(t, "new.user@gmail.com")

	verified, verifiedAt, err := f.service.Status(context.Background(), subject.ID)
	require.NoError(t, err)
	assert.False(t, verified)
	assert.Nil(t, verifiedAt)

	_, _, err = f.service.Status(context.Background(), 999)
	assert.ErrorIs(t, err, ErrSubjectNotFound)
}
