package sqlite

import (
	"context"
	"fmt"
)

// EnsureSchema creates the tables if they do not exist.
func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS names (
		seq          INTEGER PRIMARY KEY AUTOINCREMENT,
		id           TEXT NOT NULL UNIQUE,
		name         TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		category     TEXT NOT NULL DEFAULT '',
		score        REAL NOT NULL DEFAULT 0,
		popularity   REAL NOT NULL DEFAULT 0,
		hidden       INTEGER NOT NULL DEFAULT 0,
		submitted_by TEXT NOT NULL DEFAULT '',
		created_at   TEXT
	);

	CREATE TABLE IF NOT EXISTS selections (
		user_name TEXT NOT NULL,
		name_id   TEXT NOT NULL,
		position  INTEGER NOT NULL,
		batch_id  TEXT NOT NULL,
		saved_at  TEXT NOT NULL,
		PRIMARY KEY (user_name, name_id)
	);

	CREATE INDEX IF NOT EXISTS idx_selections_user ON selections (user_name, position);
	`
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating sqlite schema: %w", err)
	}
	return nil
}
