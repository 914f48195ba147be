package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

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
	LEFT JOIN selections s ON s.name_id = n.id AND s.user_name = ?
	ORDER BY n.seq
	`
	rows, err := c.db.QueryContext(ctx, query, user)
	if err != nil {
		return nil, fmt.Errorf("fetching names: %w", err)
	}
	defer rows.Close()

	items := []names.Item{}
	for rows.Next() {
		var (
			it       names.Item
			id       string
			hidden   int
			created  sql.NullString
			selected bool
		)
		if err := rows.Scan(&id, &it.Name, &it.Description, &it.Category, &it.Score,
			&it.PopularityScore, &hidden, &it.SubmittedBy, &created, &selected); err != nil {
			return nil, fmt.Errorf("scanning name: %w", err)
		}
		it.ID = names.ID(id)
		it.Hidden = hidden != 0
		if created.Valid && created.String != "" {
			ts, err := time.Parse(time.RFC3339Nano, created.String)
			if err != nil {
				return nil, fmt.Errorf("name %s: parsing created_at: %w", id, err)
			}
			it.CreatedAt = ts
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

// UpsertItems inserts new names and updates existing ones by id. Existing
// names keep their position.
func (c *Client) UpsertItems(ctx context.Context, items []names.Item) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO names (id, name, description, category, score, popularity, hidden, submitted_by, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		description = excluded.description,
		category = excluded.category,
		score = excluded.score,
		popularity = excluded.popularity,
		hidden = excluded.hidden,
		submitted_by = excluded.submitted_by,
		created_at = excluded.created_at
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		if it.ID == "" {
			return fmt.Errorf("upserting %q: empty id", it.Name)
		}
		if _, err := stmt.ExecContext(ctx, string(it.ID), it.Name, it.Description, it.Category,
			it.Score, it.PopularityScore, boolInt(it.Hidden), it.SubmittedBy, timeText(it.CreatedAt)); err != nil {
			return fmt.Errorf("upserting name %s: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}
	c.logger.Debug("names upserted", "count", len(items))
	return nil
}

// SetHidden changes a name's visibility.
func (c *Client) SetHidden(ctx context.Context, id names.ID, hidden bool) error {
	res, err := c.db.ExecContext(ctx, `UPDATE names SET hidden = ? WHERE id = ?`, boolInt(hidden), string(id))
	if err != nil {
		return fmt.Errorf("updating name %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating name %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("name %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func timeText(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
