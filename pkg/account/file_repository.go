package account

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileRepository implements Repository using file-based JSON storage.
type FileRepository struct {
	dataDir  string
	subjects map[int64]*Subject
	byEmail  map[string]int64
	nextID   int64
	mutex    sync.RWMutex
}

// subjectData represents the structure of data stored in the JSON file.
type subjectData struct {
	Subjects []*Subject `json:"subjects"`
	NextID   int64      `json:"next_id"`
}

// NewFileRepository creates a file-based subject repository under dataDir.
func NewFileRepository(dataDir string) (*FileRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &FileRepository{
		dataDir:  dataDir,
		subjects: make(map[int64]*Subject),
		byEmail:  make(map[string]int64),
		nextID:   1,
	}

	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return repo, nil
}

// CreateSubject creates a new subject.
func (r *FileRepository) CreateSubject(ctx context.Context, params CreateSubjectParams) (*Subject, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.byEmail[params.Email]; exists {
		return nil, ErrEmailTaken
	}

	subject := &Subject{
		ID:           r.nextID,
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: params.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.nextID++

	r.subjects[subject.ID] = subject
	r.byEmail[subject.Email] = subject.ID

	if err := r.save(); err != nil {
		delete(r.subjects, subject.ID)
		delete(r.byEmail, subject.Email)
		return nil, fmt.Errorf("failed to save: %w", err)
	}

	subjectCopy := *subject
	return &subjectCopy, nil
}

// GetSubject retrieves a subject by id.
func (r *FileRepository) GetSubject(ctx context.Context, id int64) (*Subject, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	subject, ok := r.subjects[id]
	if !ok {
		return nil, ErrSubjectNotFound
	}
	subjectCopy := *subject
	return &subjectCopy, nil
}

// GetSubjectByEmail retrieves a subject by email address.
func (r *FileRepository) GetSubjectByEmail(ctx context.Context, email string) (*Subject, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrSubjectNotFound
	}
	subjectCopy := *r.subjects[id]
	return &subjectCopy, nil
}

// MarkVerified marks a subject's email as verified.
func (r *FileRepository) MarkVerified(ctx context.Context, id int64) (*Subject, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	subject, ok := r.subjects[id]
	if !ok {
		return nil, ErrSubjectNotFound
	}

	if !subject.EmailVerified {
		now := time.Now().UTC()
		subject.EmailVerified = true
		subject.EmailVerifiedAt = &now

		if err := r.save(); err != nil {
			subject.EmailVerified = false
			subject.EmailVerifiedAt = nil
			return nil, fmt.Errorf("failed to save: %w", err)
		}
	}

	subjectCopy := *subject
	return &subjectCopy, nil
}

// load reads subject data from file.
func (r *FileRepository) load() error {
	filePath := filepath.Join(r.dataDir, "subjects.json")

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

	var stored subjectData
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	r.subjects = make(map[int64]*Subject)
	r.byEmail = make(map[string]int64)
	for _, subject := range stored.Subjects {
		r.subjects[subject.ID] = subject
		r.byEmail[subject.Email] = subject.ID
	}
	if stored.NextID > 0 {
		r.nextID = stored.NextID
	}

	return nil
}

// save writes subject data to file atomically.
func (r *FileRepository) save() error {
	subjects := make([]*Subject, 0, len(r.subjects))
	for _, subject := range r.subjects {
		subjects = append(subjects, subject)
	}

	jsonData, err := json.MarshalIndent(subjectData{Subjects: subjects, NextID: r.nextID}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tempFile := filepath.Join(r.dataDir, "subjects.json.tmp")
	if err := os.WriteFile(tempFile, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	finalFile := filepath.Join(r.dataDir, "subjects.json")
	if err := os.Rename(tempFile, finalFile); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
