package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/store"
)

// SaveSelection replaces the user's saved selection in one transaction.
func (c *Client) SaveSelection(ctx context.Context, user string, items []names.Item, batchID string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM selections WHERE user_name = ?`, user); err != nil {
		return fmt.Errorf("clearing selection for %s: %w", user, err)
	}

	savedAt := time.Now().UTC().Format(time.RFC3339Nano)
	for i, it := range store.Dedupe(items) {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO selections (user_name, name_id, position, batch_id, saved_at)
		VALUES (?, ?, ?, ?, ?)
		`, user, string(it.ID), i, batchID, savedAt); err != nil {
			return fmt.Errorf("saving selection %s: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	c.logger.Debug("selection saved", "user", user, "batch", batchID, "count", len(items))
	return nil
}

// LoadSelection returns the ids in the user's saved selection, in save order.
func (c *Client) LoadSelection(ctx context.Context, user string) ([]names.ID, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT name_id FROM selections WHERE user_name = ? ORDER BY position`, user)
	if err != nil {
		return nil, fmt.Errorf("loading selection for %s: %w", user, err)
	}
	defer rows.Close()

	var ids []names.ID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning selection: %w", err)
		}
		ids = append(ids, names.ID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating selection: %w", err)
	}
	return ids, nil
}
