package account

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRepo creates a temporary directory and repository for testing.
func setupTestRepo(t *testing.T) (*FileRepository, string) {
	tempDir := filepath.Join(os.TempDir(), "account-test-"+uuid.New().String())
	require.NoError(t, os.MkdirAll(tempDir, 0755))

	repo, err := NewFileRepository(tempDir)
	require.NoError(t, err)

	t.Cleanup(func() {
		os.RemoveAll(tempDir)
	})

	return repo, tempDir
}

func TestFileRepository_CreateSubject(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		subject, err := repo.CreateSubject(ctx, CreateSubjectParams{
			Email: "new.user@gmail.com",
			Name:  "New User",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), subject.ID)
		assert.Equal(t, "new.user@gmail.com", subject.Email)
		assert.False(t, subject.EmailVerified)
		assert.Nil(t, subject.EmailVerifiedAt)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := repo.CreateSubject(ctx, CreateSubjectParams{
			Email: "new.user@gmail.com",
			Name:  "Impostor",
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("IdsIncrease", func(t *testing.T) {
		subject, err := repo.CreateSubject(ctx, CreateSubjectParams{
			Email: "second@gmail.com",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), subject.ID)
	})
}

func TestFileRepository_Lookups(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateSubject(ctx, CreateSubjectParams{Email: "jane@gmail.com", Name: "Jane"})
	require.NoError(t, err)

	t.Run("GetSubject", func(t *testing.T) {
		subject, err := repo.GetSubject(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "jane@gmail.com", subject.Email)
	})

	t.Run("GetSubjectByEmail", func(t *testing.T) {
		subject, err := repo.GetSubjectByEmail(ctx, "jane@gmail.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, subject.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.GetSubject(ctx, 999)
		assert.ErrorIs(t, err, ErrSubjectNotFound)

		_, err = repo.GetSubjectByEmail(ctx, "unknown@gmail.com")
		assert.ErrorIs(t, err, ErrSubjectNotFound)
	})
}

func TestFileRepository_MarkVerified(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateSubject(ctx, CreateSubjectParams{Email: "jane@gmail.com"})
	require.NoError(t, err)

	subject, err := repo.MarkVerified(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, subject.EmailVerified)
	require.NotNil(t, subject.EmailVerifiedAt)
	firstVerifiedAt := *subject.EmailVerifiedAt

	// Idempotent: the original timestamp is preserved.
	subject, err = repo.MarkVerified(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, subject.EmailVerified)
	assert.Equal(t, firstVerifiedAt, *subject.EmailVerifiedAt)

	t.Run("UnknownSubject", func(t *testing.T) {
		_, err := repo.MarkVerified(ctx, 999)
		assert.ErrorIs(t, err, ErrSubjectNotFound)
	})
}

func TestFileRepository_PersistsAcrossReopen(t *testing.T) {
	repo, tempDir := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateSubject(ctx, CreateSubjectParams{Email: "jane@gmail.com", Name: "Jane"})
	require.NoError(t, err)
	_, err = repo.MarkVerified(ctx, created.ID)
	require.NoError(t, err)

	reopened, err := NewFileRepository(tempDir)
	require.NoError(t, err)

	subject, err := reopened.GetSubject(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, subject.EmailVerified)

	// Id sequence continues after reload.
	next, err := reopened.CreateSubject(ctx, CreateSubjectParams{Email: "other@gmail.com"})
	require.NoError(t, err)
	assert.Equal(t, created.ID+1, next.ID)
}
