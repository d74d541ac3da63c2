package account

import "errors"

var (
	// ErrSubjectNotFound is returned when a subject does not exist.
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrEmailTaken is returned when creating a subject with an address
	// that already belongs to another subject.
	ErrEmailTaken = errors.New("email address already registered")
)
