package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/store"
)

// FetchItems returns every name in insertion order. Profile fetches mark the
// names in the user's saved selection.
func (c *Client) FetchItems(ctx context.Context, mode names.Mode, user string) ([]names.Item, error) {
	if mode != names.ModeProfile {
		user = ""
	}

	query := `
SELECT n.id, n.name, n.description, n.category, n.score, n.popularity,
       n.hidden, n.submitted_by, n.created_at, s.name_id IS NOT NULL
FROM names n
LEFT JOIN selections s ON s.name_id = n.id AND s.user_name = $1
ORDER BY n.seq
`
	rows, err := c.pool.Query(ctx, query, user)
	if err != nil {
		return nil, fmt.Errorf("fetching names: %w", err)
	}
	defer rows.Close()

	items := []names.Item{}
	for rows.Next() {
		var (
			it       names.Item
			id       string
			created  *time.Time
			selected bool
		)
		if err := rows.Scan(&id, &it.Name, &it.Description, &it.Category, &it.Score,
			&it.PopularityScore, &it.Hidden, &it.SubmittedBy, &created, &selected); err != nil {
			return nil, fmt.Errorf("scanning name: %w", err)
		}
		it.ID = names.ID(id)
		if created != nil {
			it.CreatedAt = created.UTC()
		}
		if mode == names.ModeProfile {
			it.Extra = map[string]any{store.ExtraSelected: selected}
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating names: %w", err)
	}
	return items, nil
}

// UpsertItems inserts new names and updates existing ones by id.
func (c *Client) UpsertItems(ctx context.Context, items []names.Item) error {
	query := `
INSERT INTO names (id, name, description, category, score, popularity, hidden, submitted_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    score = EXCLUDED.score,
    popularity = EXCLUDED.popularity,
    hidden = EXCLUDED.hidden,
    submitted_by = EXCLUDED.submitted_by,
    created_at = EXCLUDED.created_at
`
	batch := &pgx.Batch{}
	for _, it := range items {
		if it.ID == "" {
			return fmt.Errorf("upserting %q: empty id", it.Name)
		}
		var created *time.Time
		if !it.CreatedAt.IsZero() {
			ts := it.CreatedAt
			created = &ts
		}
		batch.Queue(query, string(it.ID), it.Name, it.Description, it.Category,
			it.Score, it.PopularityScore, it.Hidden, it.SubmittedBy, created)
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upserting names: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}
	c.logger.Debug("names upserted", "count", len(items))
	return nil
}

// SetHidden changes a name's visibility.
func (c *Client) SetHidden(ctx context.Context, id names.ID, hidden bool) error {
	tag, err := c.pool.Exec(ctx, `UPDATE names SET hidden = $1 WHERE id = $2`, hidden, string(id))
	if err != nil {
		return fmt.Errorf("updating name %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("name %s: %w", id, store.ErrNotFound)
	}
	return nil
}
