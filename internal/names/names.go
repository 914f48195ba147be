package names

import (
	"maps"
	"strconv"
	"time"
)

// ID identifies a candidate name. Backends with integer keys render them in
// decimal so every layer compares ids as strings.
type ID string

// IntID converts an integer key to an ID.
func IntID(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// Item is a candidate name as fetched from the store. Items are values: the
// engine copies them and never writes through to a fetched list.
type Item struct {
	ID              ID
	Name            string
	Description     string
	Category        string
	Score           float64
	PopularityScore float64
	Hidden          bool
	SubmittedBy     string
	CreatedAt       time.Time
	Extra           map[string]any // opaque backend fields, passed through untouched
}

// Clone returns a copy of the item that shares no mutable state with it.
func (it Item) Clone() Item {
	out := it
	if it.Extra != nil {
		out.Extra = maps.Clone(it.Extra)
	}
	return out
}

// CloneAll copies a list of items.
func CloneAll(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// Index returns the position of every id in items. When an id appears more
// than once the first occurrence wins.
func Index(items []Item) map[ID]int {
	idx := make(map[ID]int, len(items))
	for i, it := range items {
		if _, ok := idx[it.ID]; !ok {
			idx[it.ID] = i
		}
	}
	return idx
}
