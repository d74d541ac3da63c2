package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileTokenRegistry implements TokenRegistry using file-based JSON storage.
// Useful for demos and single-node deployments where outstanding tokens
// should survive a process restart.
type FileTokenRegistry struct {
	dataDir string
	entries map[string]TokenMeta // token -> meta
	byPair  map[string]string    // pairKey -> token
	mutex   sync.Mutex
}

// fileEntry is one token record in the JSON file.
type fileEntry struct {
	Token string    `json:"token"`
	Meta  TokenMeta `json:"meta"`
}

// tokenRegistryData is the structure of the JSON file.
type tokenRegistryData struct {
	Entries []fileEntry `json:"entries"`
}

// NewFileTokenRegistry creates a file-backed token registry under dataDir.
func NewFileTokenRegistry(dataDir string) (*FileTokenRegistry, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	r := &FileTokenRegistry{
		dataDir: dataDir,
		entries: make(map[string]TokenMeta),
		byPair:  make(map[string]string),
	}

	if err := r.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return r, nil
}

// Store records a token, replacing any live token for the same pair.
func (r *FileTokenRegistry) Store(ctx context.Context, token string, meta TokenMeta) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := pairKey(meta.SubjectID, meta.Email)
	if prev, ok := r.byPair[key]; ok {
		delete(r.entries, prev)
	}

	r.entries[token] = meta
	r.byPair[key] = token

	if err := r.save(); err != nil {
		delete(r.entries, token)
		delete(r.byPair, key)
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

// Consume atomically removes and returns the metadata for a token.
func (r *FileTokenRegistry) Consume(ctx context.Context, token string) (*TokenMeta, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	meta, ok := r.entries[token]
	if !ok {
		return nil, ErrTokenNotFound
	}

	r.deleteLocked(token, meta)
	if err := r.save(); err != nil {
		return nil, fmt.Errorf("failed to save: %w", err)
	}

	if meta.Expired(time.Now().UTC()) {
		return nil, ErrTokenExpired
	}

	metaCopy := meta
	return &metaCopy, nil
}

// DeleteBySubject removes the live token for a (subject, email) pair.
func (r *FileTokenRegistry) DeleteBySubject(ctx context.Context, subjectID int64, email string) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := pairKey(subjectID, email)
	token, ok := r.byPair[key]
	if !ok {
		return 0, nil
	}

	delete(r.entries, token)
	delete(r.byPair, key)

	if err := r.save(); err != nil {
		return 0, fmt.Errorf("failed to save: %w", err)
	}
	return 1, nil
}

// Sweep deletes every expired entry.
func (r *FileTokenRegistry) Sweep(ctx context.Context) (int, error) {
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

	if removed > 0 {
		if err := r.save(); err != nil {
			return 0, fmt.Errorf("failed to save: %w", err)
		}
	}
	return removed, nil
}

// deleteLocked removes a token and its pair index entry. Caller holds the lock.
func (r *FileTokenRegistry) deleteLocked(token string, meta TokenMeta) {
	delete(r.entries, token)

	key := pairKey(meta.SubjectID, meta.Email)
	if current, ok := r.byPair[key]; ok && current == token {
		delete(r.byPair, key)
	}
}

// load reads token registry data from file.
func (r *FileTokenRegistry) load() error {
	filePath := filepath.Join(r.dataDir, "verification_tokens.json")

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var stored tokenRegistryData
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	r.entries = make(map[string]TokenMeta)
	r.byPair = make(map[string]string)
	for _, e := range stored.Entries {
		r.entries[e.Token] = e.Meta
		r.byPair[pairKey(e.Meta.SubjectID, e.Meta.Email)] = e.Token
	}

	return nil
}

// save writes token registry data to file atomically.
func (r *FileTokenRegistry) save() error {
	entries := make([]fileEntry, 0, len(r.entries))
	for token, meta := range r.entries {
		entries = append(entries, fileEntry{Token: token, Meta: meta})
	}

	jsonData, err := json.MarshalIndent(tokenRegistryData{Entries: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tempFile := filepath.Join(r.dataDir, "verification_tokens.json.tmp")
	if err := os.WriteFile(tempFile, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	finalFile := filepath.Join(r.dataDir, "verification_tokens.json")
	if err := os.Rename(tempFile, finalFile); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
