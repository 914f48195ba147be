package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/store"
)

// SaveSelection replaces the user's saved selection in one transaction.
func (c *Client) SaveSelection(ctx context.Context, user string, items []names.Item, batchID string) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM selections WHERE user_name = $1`, user); err != nil {
		return fmt.Errorf("clearing selection for %s: %w", user, err)
	}

	rows := make([][]any, 0, len(items))
	for i, it := range store.Dedupe(items) {
		rows = append(rows, []any{user, string(it.ID), i, batchID})
	}
	if len(rows) > 0 {
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"selections"},
			[]string{"user_name", "name_id", "position", "batch_id"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("saving selection: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	c.logger.Debug("selection saved", "user", user, "batch", batchID, "count", len(rows))
	return nil
}

// LoadSelection returns the ids in the user's saved selection, in save order.
func (c *Client) LoadSelection(ctx context.Context, user string) ([]names.ID, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT name_id FROM selections WHERE user_name = $1 ORDER BY position`, user)
	if err != nil {
		return nil, fmt.Errorf("loading selection for %s: %w", user, err)
	}
	ids, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (names.ID, error) {
		var id string
		err := row.Scan(&id)
		return names.ID(id), err
	})
	if err != nil {
		return nil, fmt.Errorf("loading selection for %s: %w", user, err)
	}
	return ids, nil
}
