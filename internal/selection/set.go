package selection

import (
	"maps"
	"slices"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
)

// Set is a set of selected ids. A nil Set is empty and safe to read.
type Set map[names.ID]struct{}

// NewSet builds a Set from ids.
func NewSet(ids ...names.ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s Set) Has(id names.ID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids in the set.
func (s Set) Len() int { return len(s) }

// IDs returns the members in sorted order.
func (s Set) IDs() []names.ID {
	ids := make([]names.ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	if s == nil {
		return Set{}
	}
	return maps.Clone(s)
}

// Equal reports whether both sets hold the same ids.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}
