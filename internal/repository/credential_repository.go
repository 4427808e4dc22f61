package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/token-service/internal/domain"
)

var (
	ErrNotFound  = errors.New("credential not found")
	ErrDuplicate = errors.New("credential already exists")
)

// DBTX is the subset of pgxpool.Pool used by the repositories.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CredentialRepository defines persistence access for login credentials.
// A string is never both one record's username and another record's email.
type CredentialRepository interface {
	Create(ctx context.Context, rec *domain.CredentialRecord) error
	// FindByIdentifier matches a username exactly or an email case-insensitively.
	// A username match wins.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.CredentialRecord, error)
}

type credentialRepository struct {
	db DBTX
}

// NewCredentialRepository returns a Postgres-backed implementation.
func NewCredentialRepository(db DBTX) CredentialRepository {
	return &credentialRepository{db: db}
}

// Create inserts rec unless its username or email is already used as either
// identifier. The migration trigger enforces the same rule for concurrent inserts.
func (r *credentialRepository) Create(ctx context.Context, rec *domain.CredentialRecord) error {
	const query = `
        INSERT INTO credentials (username, email, password_hash, role, status)
        SELECT $1, $2, $3, $4, $5
        WHERE NOT EXISTS (
            SELECT 1 FROM credentials
            WHERE lower(username) IN (lower($1), lower($2))
               OR lower(email) IN (lower($1), lower($2))
        )
        RETURNING id, created_at, updated_at`

	if rec.Status == "" {
		rec.Status = domain.CredentialStatusActive
	}
	err := r.db.QueryRow(ctx, query,
		rec.Username,
		rec.Email,
		rec.PasswordHash,
		rec.Role,
		rec.Status,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDuplicate
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *credentialRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.CredentialRecord, error) {
	const query = `
        SELECT id, username, email, password_hash, role, status, created_at, updated_at
        FROM credentials WHERE username=$1 OR lower(email)=lower($1)
        ORDER BY (username=$1) DESC, created_at
        LIMIT 1`

	return r.scan(r.db.QueryRow(ctx, query, strings.TrimSpace(identifier)))
}

func (r *credentialRepository) scan(row pgx.Row) (*domain.CredentialRecord, error) {
	var rec domain.CredentialRecord
	if err := row.Scan(
		&rec.ID,
		&rec.Username,
		&rec.Email,
		&rec.PasswordHash,
		&rec.Role,
		&rec.Status,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}
