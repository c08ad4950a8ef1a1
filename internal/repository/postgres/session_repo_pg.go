package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nvallon/trainlog-api/internal/domain"
	"github.com/nvallon/trainlog-api/internal/repository/ports"
)

type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepo(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error) {
	const query = `
        INSERT INTO sessions (user_id, token, expires_at, is_active)
        VALUES ($1, $2, $3, TRUE)
        RETURNING id, user_id, token, created_at, last_seen_at, expires_at, is_active
    `
	var session domain.Session
	row := r.db.QueryRowxContext(ctx, query, userID, token, expiresAt)
	if err := row.StructScan(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) FindActiveSession(ctx context.Context, token string) (*domain.Session, error) {
	const query = `
        SELECT id, user_id, token, created_at, last_seen_at, expires_at, is_active
        FROM sessions
        WHERE token = $1 AND is_active = TRUE AND expires_at > NOW()
    `
	var session domain.Session
	if err := r.db.GetContext(ctx, &session, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// TouchSession implements sliding expiration: each successful resolution
// records activity and pushes the expiry forward.
func (r *SessionRepository) TouchSession(ctx context.Context, token string, expiresAt time.Time) error {
	const query = `
        UPDATE sessions
        SET last_seen_at = NOW(), expires_at = $2
        WHERE token = $1 AND is_active = TRUE
    `
	_, err := r.db.ExecContext(ctx, query, token, expiresAt)
	return err
}

// DeactivateSession is idempotent: deactivating an unknown or already
// inactive token affects zero rows and reports no error.
func (r *SessionRepository) DeactivateSession(ctx context.Context, token string) error {
	const query = `
        UPDATE sessions
        SET is_active = FALSE, expires_at = NOW()
        WHERE token = $1 AND is_active = TRUE
    `
	_, err := r.db.ExecContext(ctx, query, token)
	return err
}

var _ ports.SessionRepository = (*SessionRepository)(nil)
