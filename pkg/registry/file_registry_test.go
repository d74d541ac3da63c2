package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupFileRegistry creates a temporary directory and registry for testing.
func setupFileRegistry(t *testing.T) (*FileTokenRegistry, string) {
	tempDir := filepath.Join(os.TempDir(), "registry-test-"+uuid.New().String())
	require.NoError(t, os.MkdirAll(tempDir, 0755))

	reg, err := NewFileTokenRegistry(tempDir)
	require.NoError(t, err)

	t.Cleanup(func() {
		os.RemoveAll(tempDir)
	})

	return reg, tempDir
}

func TestFileTokenRegistry_New(t *testing.T) {
	tempDir := filepath.Join(os.TempDir(), "registry-test-new-"+uuid.New().String())
	defer os.RemoveAll(tempDir)

	reg, err := NewFileTokenRegistry(tempDir)
	assert.NoError(t, err)
	assert.NotNil(t, reg)
	assert.DirExists(t, tempDir)
}

func TestFileTokenRegistry_StoreAndConsume(t *testing.T) {
	reg, _ := setupFileRegistry(t)
	ctx := context.Background()

	require.NoError(t, reg.Store(ctx, "token-1", liveMeta(42, "new.user@gmail.com")))

	got, err := reg.Consume(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.SubjectID)

	_, err = reg.Consume(ctx, "token-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestFileTokenRegistry_PersistsAcrossReopen(t *testing.T) {
	reg, tempDir := setupFileRegistry(t)
	ctx := context.Background()

	require.NoError(t, reg.Store(ctx, "durable", liveMeta(7, "keep@gmail.com")))

	reopened, err := NewFileTokenRegistry(tempDir)
	require.NoError(t, err)

	got, err := reopened.Consume(ctx, "durable")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.SubjectID)
	assert.Equal(t, "keep@gmail.com", got.Email)
}

func TestFileTokenRegistry_ConsumeIsPersisted(t *testing.T) {
	reg, tempDir := setupFileRegistry(t)
	ctx := context.Background()

	require.NoError(t, reg.Store(ctx, "once", liveMeta(7, "keep@gmail.com")))
	_, err := reg.Consume(ctx, "once")
	require.NoError(t, err)

	reopened, err := NewFileTokenRegistry(tempDir)
	require.NoError(t, err)

	_, err = reopened.Consume(ctx, "once")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestFileTokenRegistry_Supersession(t *testing.T) {
	reg, _ := setupFileRegistry(t)
	ctx := context.Background()

	require.NoError(t, reg.Store(ctx, "first", liveMeta(42, "new.user@gmail.com")))
	require.NoError(t, reg.Store(ctx, "second", liveMeta(42, "new.user@gmail.com")))

	_, err := reg.Consume(ctx, "first")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = reg.Consume(ctx, "second")
	assert.NoError(t, err)
}

func TestFileTokenRegistry_Sweep(t *testing.T) {
	reg, _ := setupFileRegistry(t)
	ctx := context.Background()

	require.NoError(t, reg.Store(ctx, "live", liveMeta(1, "a@gmail.com")))
	require.NoError(t, reg.Store(ctx, "stale", expiredMeta(2, "b@gmail.com")))

	removed, err := reg.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = reg.Consume(ctx, "stale")
	assert.ErrorIs(t, err, ErrTokenNotFound)
	_, err = reg.Consume(ctx, "live")
	assert.NoError(t, err)
}
