package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeper_RemovesExpiredEntries(t *testing.T) {
	reg := NewInMemTokenRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, reg.Store(ctx, "live", liveMeta(1, "a@gmail.com")))
	require.NoError(t, reg.Store(ctx, "stale", expiredMeta(2, "b@gmail.com")))

	sweeper := NewSweeper(reg, 10*time.Millisecond)
	sweeper.Start(ctx)

	assert.Eventually(t, func() bool {
		return reg.Len() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSweeper_StopsOnContextCancel(t *testing.T) {
	reg := NewInMemTokenRegistry()
	ctx, cancel := context.WithCancel(context.Background())

	sweeper := NewSweeper(reg, 10*time.Millisecond)
	sweeper.Start(ctx)
	cancel()

	// After cancellation new expired entries are no longer swept.
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, reg.Store(context.Background(), "stale", expiredMeta(2, "b@gmail.com")))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, reg.Len())
}

func TestNewSweeper_DefaultInterval(t *testing.T) {
	sweeper := NewSweeper(NewInMemTokenRegistry(), 0)
	assert.Equal(t, DefaultSweepInterval, sweeper.interval)
}
