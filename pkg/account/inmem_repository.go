package account

import (
	"context"
	"sync"
	"time"
)

// InMemRepository implements Repository with a mutex-guarded map, for tests
// and single-process demos.
type InMemRepository struct {
	mutex    sync.RWMutex
	subjects map[int64]*Subject
	byEmail  map[string]int64
	nextID   int64
}

// NewInMemRepository creates an empty in-memory subject repository.
func NewInMemRepository() *InMemRepository {
	return &InMemRepository{
		subjects: make(map[int64]*Subject),
		byEmail:  make(map[string]int64),
		nextID:   1,
	}
}

// CreateSubject creates a new subject with a monotonically increasing id.
func (r *InMemRepository) CreateSubject(ctx context.Context, params CreateSubjectParams) (*Subject, error) {
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

	subjectCopy := *subject
	return &subjectCopy, nil
}

// GetSubject retrieves a subject by id.
func (r *InMemRepository) GetSubject(ctx context.Context, id int64) (*Subject, error) {
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
func (r *InMemRepository) GetSubjectByEmail(ctx context.Context, email string) (*Subject, error) {
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
func (r *InMemRepository) MarkVerified(ctx context.Context, id int64) (*Subject, error) {
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
	}

	subjectCopy := *subject
	return &subjectCopy, nil
}
