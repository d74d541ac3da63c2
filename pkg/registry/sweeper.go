package registry

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is how often the sweeper runs unless configured.
const DefaultSweepInterval = 1 * time.Hour

// Sweeper periodically removes expired tokens from a registry to bound
// memory growth from abandoned tokens. Correctness never depends on it:
// Consume rechecks expiry on every call.
type Sweeper struct {
	registry TokenRegistry
	interval time.Duration
}

// NewSweeper creates a sweeper for the given registry. A non-positive
// interval falls back to DefaultSweepInterval.
func NewSweeper(registry TokenRegistry, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{registry: registry, interval: interval}
}

// Start launches the sweep loop in a goroutine. The loop stops when ctx is
// canceled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("Token sweeper stopped")
				return
			case <-ticker.C:
				removed, err := s.registry.Sweep(ctx)
				if err != nil {
					slog.Error("Failed to sweep expired tokens", "err", err)
					continue
				}
				if removed > 0 {
					slog.Info("Swept expired verification tokens", "removed", removed)
				}
			}
		}
	}()
}
