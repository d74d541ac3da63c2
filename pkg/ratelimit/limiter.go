package ratelimit

import (
	"sync"
	"time"
)

// bucket tracks the token balance for one key. Balances are fractional so
// slow refill rates, like one resend per twenty minutes, accumulate.
type bucket struct {
	tokens float64
	last   time.Time
}

// RateLimiter applies a token-bucket policy per key. Keys are whatever the
// caller chooses: the verification service keys by decimal subject id, the
// HTTP middleware by client IP and endpoint.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	capacity   int
	refillRate float64
	ttl        time.Duration
	now        func() time.Time
}

// NewRateLimiter creates a limiter allowing a burst of capacity requests per
// key, refilled at refillRate tokens per second. A positive ttl starts a
// background goroutine that drops buckets idle for longer than ttl.
func NewRateLimiter(capacity int, refillRate float64, ttl time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets:    make(map[string]*bucket),
		capacity:   capacity,
		refillRate: refillRate,
		ttl:        ttl,
		now:        time.Now,
	}

	if ttl > 0 {
		go rl.evictLoop()
	}

	return rl
}

// Allow reports whether a request for key may proceed, spending one token
// when it does. A key seen for the first time starts with a full bucket.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, exists := rl.buckets[key]
	if !exists {
		b = &bucket{tokens: float64(rl.capacity), last: now}
		rl.buckets[key] = b
	} else {
		elapsed := now.Sub(b.last).Seconds()
		b.tokens = min(float64(rl.capacity), b.tokens+elapsed*rl.refillRate)
		b.last = now
	}

	if b.tokens < 1.0 {
		return false
	}
	b.tokens -= 1.0
	return true
}

// Reset restores the key's bucket to full capacity.
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if b, exists := rl.buckets[key]; exists {
		b.tokens = float64(rl.capacity)
		b.last = rl.now()
	}
}

// Remove forgets the key entirely. The next Allow for it starts a fresh
// full bucket.
func (rl *RateLimiter) Remove(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, key)
}

// evictLoop drops buckets not touched within the ttl.
func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(rl.ttl)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		cutoff := rl.now().Add(-rl.ttl)
		for key, b := range rl.buckets {
			if b.last.Before(cutoff) {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Stats describes the limiter's current shape.
type Stats struct {
	ActiveBuckets int
	TotalCapacity int
	RefillRate    float64
}

// GetStats returns current statistics.
func (rl *RateLimiter) GetStats() Stats {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return Stats{
		ActiveBuckets: len(rl.buckets),
		TotalCapacity: rl.capacity,
		RefillRate:    rl.refillRate,
	}
}
