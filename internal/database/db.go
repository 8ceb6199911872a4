package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a PostgreSQL connection pool using pgx and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN must not be empty")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}

	// The mock API sees little traffic; keep the pool small.
	cfg.MaxConns = 4
	cfg.MaxConnLifetime = 1 * time.Hour
	cfg.MaxConnIdleTime = 15 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Execer runs statements without returning rows.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id            BIGSERIAL PRIMARY KEY,
        username      VARCHAR(50)  NOT NULL,
        email         VARCHAR(254) NOT NULL,
        password_hash TEXT         NOT NULL,
        created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
        updated_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
        CONSTRAINT users_username_key UNIQUE (username)
    )`,
	// Emails are unique regardless of case.
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (LOWER(email))`,
	`CREATE TABLE IF NOT EXISTS bricksets (
        id                     BIGSERIAL PRIMARY KEY,
        owner_id               BIGINT      NOT NULL REFERENCES users (id) ON DELETE CASCADE,
        number                 INTEGER     NOT NULL CHECK (number BETWEEN 0 AND 9999999),
        production_status      VARCHAR(10) NOT NULL,
        completeness           VARCHAR(10) NOT NULL,
        has_instructions       BOOLEAN     NOT NULL DEFAULT FALSE,
        has_box                BOOLEAN     NOT NULL DEFAULT FALSE,
        is_factory_sealed      BOOLEAN     NOT NULL DEFAULT FALSE,
        owner_initial_estimate INTEGER CHECK (owner_initial_estimate BETWEEN 1 AND 999999),
        created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        CONSTRAINT brickset_global_identity UNIQUE
            (number, production_status, completeness, has_instructions, has_box, is_factory_sealed)
    )`,
	`CREATE TABLE IF NOT EXISTS valuations (
        id          BIGSERIAL PRIMARY KEY,
        brickset_id BIGINT      NOT NULL,
        user_id     BIGINT      NOT NULL REFERENCES users (id) ON DELETE CASCADE,
        value       INTEGER     NOT NULL CHECK (value BETWEEN 1 AND 999999),
        currency    VARCHAR(3)  NOT NULL DEFAULT 'PLN',
        comment     TEXT,
        likes_count INTEGER     NOT NULL DEFAULT 0,
        created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        CONSTRAINT valuations_brickset_id_fkey FOREIGN KEY (brickset_id) REFERENCES bricksets (id) ON DELETE CASCADE,
        CONSTRAINT valuation_unique_user_brickset UNIQUE (brickset_id, user_id)
    )`,
	`CREATE TABLE IF NOT EXISTS likes (
        valuation_id BIGINT      NOT NULL REFERENCES valuations (id) ON DELETE CASCADE,
        user_id      BIGINT      NOT NULL REFERENCES users (id) ON DELETE CASCADE,
        created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        CONSTRAINT likes_pkey PRIMARY KEY (valuation_id, user_id)
    )`,
}

// Migrate creates the tables used by the mock API if they do not exist.
func Migrate(ctx context.Context, db Execer) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
