package registry

import (
	"context"
	"sync"
	"time"
)

// InMemTokenRegistry implements TokenRegistry with a mutex-guarded map.
// State is process-local: a restart invalidates all outstanding tokens,
// which is acceptable since tokens are short-lived and re-issuable.
type InMemTokenRegistry struct {
	mutex   sync.Mutex
	entries map[string]TokenMeta // token -> meta
	byPair  map[string]string    // pairKey -> token
}

// NewInMemTokenRegistry creates an empty in-memory token registry.
func NewInMemTokenRegistry() *InMemTokenRegistry {
	return &InMemTokenRegistry{
		entries: make(map[string]TokenMeta),
		byPair:  make(map[string]string),
	}
}

// Store records a token, replacing any live token for the same pair.
func (r *InMemTokenRegistry) Store(ctx context.Context, token string, meta TokenMeta) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := pairKey(meta.SubjectID, meta.Email)
	if prev, ok := r.byPair[key]; ok {
		delete(r.entries, prev)
	}

	r.entries[token] = meta
	r.byPair[key] = token
	return nil
}

// Consume atomically removes and returns the metadata for a token.
func (r *InMemTokenRegistry) Consume(ctx context.Context, token string) (*TokenMeta, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	meta, ok := r.entries[token]
	if !ok {
		return nil, ErrTokenNotFound
	}

	r.deleteLocked(token, meta)

	if meta.Expired(time.Now().UTC()) {
		return nil, ErrTokenExpired
	}

	metaCopy := meta
	return &metaCopy, nil
}

// DeleteBySubject removes the live token for a (subject, email) pair.
func (r *InMemTokenRegistry) DeleteBySubject(ctx context.Context, subjectID int64, email string) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := pairKey(subjectID, email)
	token, ok := r.byPair[key]
	if !ok {
		return 0, nil
	}

	delete(r.entries, token)
	delete(r.byPair, key)
	return 1, nil
}

// Sweep deletes every expired entry.
func (r *InMemTokenRegistry) Sweep(ctx context.Context) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now().UTC()
	removed := 0
	for token, meta := range r.entries {
		if meta.Expired(now) {
			r.deleteLocked(token, meta)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of outstanding tokens.
func (r *InMemTokenRegistry) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.entries)
}

// deleteLocked removes a token and its pair index entry. Caller holds the lock.
func (r *InMemTokenRegistry) deleteLocked(token string, meta TokenMeta) {
	delete(r.entries, token)

	key := pairKey(meta.SubjectID, meta.Email)
	if current, ok := r.byPair[key]; ok && current == token {
		delete(r.byPair, key)
	}
}
