package postgres

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/logging"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/store"
)

var _ store.Admin = (*Client)(nil)

// Client is a postgres-backed store over a pgx connection pool.
type Client struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// New connects to dsn and verifies the connection.
func New(ctx context.Context, dsn string) (*Client, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Client{pool: pool, logger: logging.For("store")}, nil
}

// Close releases the pool.
func (c *Client) Close(ctx context.Context) error {
	c.pool.Close()
	return nil
}

// EnsureSchema creates the tables if they do not exist.
func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS names (
    seq          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    id           TEXT NOT NULL UNIQUE,
    name         TEXT NOT NULL,
    description  TEXT NOT NULL DEFAULT '',
    category     TEXT NOT NULL DEFAULT '',
    score        DOUBLE PRECISION NOT NULL DEFAULT 0,
    popularity   DOUBLE PRECISION NOT NULL DEFAULT 0,
    hidden       BOOLEAN NOT NULL DEFAULT FALSE,
    submitted_by TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS selections (
    user_name TEXT NOT NULL,
    name_id   TEXT NOT NULL,
    position  INTEGER NOT NULL,
    batch_id  TEXT NOT NULL,
    saved_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (user_name, name_id)
);

CREATE INDEX IF NOT EXISTS idx_selections_user ON selections (user_name, position);
`
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("creating postgres schema: %w", err)
	}
	return nil
}
