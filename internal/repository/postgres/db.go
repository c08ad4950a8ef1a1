package postgres

import (
	"context"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

func New(dsn string) (*sqlx.DB, error) {
	return sqlx.Connect("pgx", dsn)
}

// EnsureSchema creates the tables on startup if they are missing. The
// unique constraints on users.username, users.email and sessions.token are
// load-bearing: registration and session issue rely on them for atomic
// duplicate detection.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		username TEXT NOT NULL,
		email TEXT NOT NULL,
		password_digest TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT users_username_key UNIQUE (username),
		CONSTRAINT users_email_key UNIQUE (email)
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users (id),
		token TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_seen_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		CONSTRAINT sessions_token_key UNIQUE (token)
	);

	CREATE TABLE IF NOT EXISTS workouts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users (id),
		workout_date DATE NOT NULL,
		category TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
		distance_km DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (distance_km >= 0),
		tags TEXT[] NOT NULL DEFAULT '{}',
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS workouts_user_date_idx
		ON workouts (user_id, workout_date DESC);
	CREATE INDEX IF NOT EXISTS sessions_user_idx
		ON sessions (user_id);
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}
