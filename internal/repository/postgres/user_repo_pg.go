package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/nvallon/trainlog-api/internal/domain"
	"github.com/nvallon/trainlog-api/internal/repository/ports"
)

const pgUniqueViolation = "23505"

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, username, email, passwordDigest string) (*domain.User, error) {
	const query = `
        INSERT INTO users (username, email, password_digest)
        VALUES ($1, $2, $3)
        RETURNING id, username, email, password_digest, created_at
    `
	var user domain.User
	row := r.db.QueryRowxContext(ctx, query, username, email, passwordDigest)
	if err := row.StructScan(&user); err != nil {
		return nil, mapUniqueViolation(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `
        SELECT id, username, email, password_digest, created_at
        FROM users
        WHERE username = $1
    `
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
        SELECT id, username, email, password_digest, created_at
        FROM users
        WHERE id = $1
    `
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// mapUniqueViolation turns a Postgres duplicate-key error into a
// ConflictError naming the conflicting field. The constraint is the
// single source of truth for uniqueness; there is no pre-check to race.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "username"):
		return &domain.ConflictError{Field: "username"}
	case strings.Contains(pgErr.ConstraintName, "email"):
		return &domain.ConflictError{Field: "email"}
	default:
		return err
	}
}

var _ ports.UserRepository = (*UserRepository)(nil)
