package account

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository backed by PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE subjects (
//	    id BIGSERIAL PRIMARY KEY,
//	    email TEXT NOT NULL UNIQUE,
//	    name TEXT NOT NULL DEFAULT '',
//	    password_hash BYTEA,
//	    email_verified BOOLEAN NOT NULL DEFAULT FALSE,
//	    email_verified_at TIMESTAMPTZ,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new postgres-backed subject repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const subjectColumns = `id, email, name, password_hash, email_verified, email_verified_at, created_at`

// CreateSubject inserts a new subject row.
func (r *PostgresRepository) CreateSubject(ctx context.Context, params CreateSubjectParams) (*Subject, error) {
	query := `
		INSERT INTO subjects (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + subjectColumns

	var s Subject
	err := r.db.QueryRow(ctx, query, params.Email, params.Name, params.PasswordHash).Scan(
		&s.ID,
		&s.Email,
		&s.Name,
		&s.PasswordHash,
		&s.EmailVerified,
		&s.EmailVerifiedAt,
		&s.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return &s, nil
}

// GetSubject retrieves a subject by id.
func (r *PostgresRepository) GetSubject(ctx context.Context, id int64) (*Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE id = $1`

	var s Subject
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Email,
		&s.Name,
		&s.PasswordHash,
		&s.EmailVerified,
		&s.EmailVerifiedAt,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}

	return &s, nil
}

// GetSubjectByEmail retrieves a subject by email address.
func (r *PostgresRepository) GetSubjectByEmail(ctx context.Context, email string) (*Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE email = $1`

	var s Subject
	err := r.db.QueryRow(ctx, query, email).Scan(
		&s.ID,
		&s.Email,
		&s.Name,
		&s.PasswordHash,
		&s.EmailVerified,
		&s.EmailVerifiedAt,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}

	return &s, nil
}

// MarkVerified marks a subject's email as verified, keeping the original
// verification timestamp on repeat calls.
func (r *PostgresRepository) MarkVerified(ctx context.Context, id int64) (*Subject, error) {
	query := `
		UPDATE subjects
		SET email_verified = TRUE,
		    email_verified_at = COALESCE(email_verified_at, NOW() AT TIME ZONE 'UTC')
		WHERE id = $1
		RETURNING ` + subjectColumns

	var s Subject
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Email,
		&s.Name,
		&s.PasswordHash,
		&s.EmailVerified,
		&s.EmailVerifiedAt,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}

	return &s, nil
}
