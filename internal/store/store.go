// Package store defines the persistence boundary for candidate names and
// saved selections. Backends live in subpackages.
package store

import (
	"context"
	"errors"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
)

var (
	// ErrInvalidShape is returned when a fetch payload is not a list of names.
	ErrInvalidShape = errors.New("payload is not a list of names")
	// ErrUnknownDriver is returned for a store driver nobody registered.
	ErrUnknownDriver = errors.New("unknown store driver")
	// ErrNotFound is returned when an administrative change targets a
	// missing name.
	ErrNotFound = errors.New("name not found")
)

// ExtraSelected is set to true in Item.Extra on profile fetches for names
// the user saved in their last selection.
const ExtraSelected = "selected"

// Store is the pair of calls a session makes.
type Store interface {
	// FetchItems returns a fresh, ordered copy of the catalogue for mode.
	FetchItems(ctx context.Context, mode names.Mode, user string) ([]names.Item, error)
	// SaveSelection replaces the user's saved selection with items. It is
	// safe to retry and tolerates duplicate ids; the last write wins.
	SaveSelection(ctx context.Context, user string, items []names.Item, batchID string) error
}

// Admin is a Store that can also be seeded and administered.
type Admin interface {
	Store
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error
	UpsertItems(ctx context.Context, items []names.Item) error
	SetHidden(ctx context.Context, id names.ID, hidden bool) error
	LoadSelection(ctx context.Context, user string) ([]names.ID, error)
}

// Dedupe returns items with repeated ids removed, first occurrence kept.
func Dedupe(items []names.Item) []names.Item {
	seen := make(map[names.ID]struct{}, len(items))
	out := make([]names.Item, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}
