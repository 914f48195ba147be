// Package selection owns the set of selected name ids for one session.
//
// The id set is the only selection state. Item lists for selected names are
// derived from it on every read, so a refetch can never leave stale item
// copies behind.
package selection

import (
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
)

// ChangeKind names the operation that produced a Change.
type ChangeKind string

const (
	ChangeToggle     ChangeKind = "toggle"
	ChangeSet        ChangeKind = "set"
	ChangeBatch      ChangeKind = "batch"
	ChangeSelectAll  ChangeKind = "select_all"
	ChangeSelectNone ChangeKind = "select_none"
	ChangeClear      ChangeKind = "clear"
)

// Change is delivered to the OnChange hook once per mutating call.
type Change struct {
	Kind     ChangeKind
	Selected Set // snapshot after the mutation; safe to keep
}

// Manager holds the selection for one (mode, user) session.
//
// A Manager is not safe for concurrent use; the owning session serialises
// calls. Every mutating method runs to completion before the hook fires.
type Manager struct {
	selected Set
	items    func() []names.Item
	onChange func(Change)
}

// NewManager creates an empty selection. items supplies the current,
// unfiltered item list; onChange may be nil.
func NewManager(items func() []names.Item, onChange func(Change)) *Manager {
	if items == nil {
		items = func() []names.Item { return nil }
	}
	return &Manager{
		selected: make(Set),
		items:    items,
		onChange: onChange,
	}
}

// Toggle flips membership of id. Ids that are not in the current item list
// are accepted as-is.
func (m *Manager) Toggle(id names.ID) {
	if id == "" {
		return
	}
	if m.selected.Has(id) {
		delete(m.selected, id)
	} else {
		m.selected[id] = struct{}{}
	}
	m.notify(ChangeToggle)
}

// ToggleByID sets membership of id to selected. Nothing fires when the id is
// already in the requested state.
func (m *Manager) ToggleByID(id names.ID, selected bool) {
	if id == "" || m.selected.Has(id) == selected {
		return
	}
	if selected {
		m.selected[id] = struct{}{}
	} else {
		delete(m.selected, id)
	}
	m.notify(ChangeSet)
}

// ToggleManyByIDs sets membership of every id to selected and fires a single
// change for the whole batch, or none if nothing moved.
func (m *Manager) ToggleManyByIDs(ids []names.ID, selected bool) {
	changed := false
	for _, id := range ids {
		if id == "" || m.selected.Has(id) == selected {
			continue
		}
		if selected {
			m.selected[id] = struct{}{}
		} else {
			delete(m.selected, id)
		}
		changed = true
	}
	if changed {
		m.notify(ChangeBatch)
	}
}

// SelectAll selects every item of the full item list, or deselects
// everything when all of them are already selected. Filters play no part:
// "all" always means the unfiltered list.
func (m *Manager) SelectAll() {
	items := m.items()
	index := names.Index(items)

	covered := 0
	for id := range index {
		if m.selected.Has(id) {
			covered++
		}
	}

	if len(index) > 0 && covered < len(index) {
		next := make(Set, len(index))
		for id := range index {
			next[id] = struct{}{}
		}
		m.selected = next
		m.notify(ChangeSelectAll)
		return
	}

	if len(m.selected) == 0 {
		return
	}
	m.selected = make(Set)
	m.notify(ChangeSelectNone)
}

// Clear empties the selection. It always fires, even on an empty set, so the
// caller can persist an explicit "nothing selected".
func (m *Manager) Clear() {
	m.selected = make(Set)
	m.notify(ChangeClear)
}

// Restore replaces the selection with ids without firing the hook. It is
// meant for seeding a session from a previously saved selection.
func (m *Manager) Restore(ids []names.ID) {
	m.selected = NewSet(ids...)
}

// IsSelected reports whether id is selected.
func (m *Manager) IsSelected(id names.ID) bool {
	return m.selected.Has(id)
}

// Count returns the number of selected ids, stale ones included.
func (m *Manager) Count() int {
	return len(m.selected)
}

// Snapshot returns a copy of the selected ids.
func (m *Manager) Snapshot() Set {
	return m.selected.Clone()
}

// IDs returns the selected ids in sorted order.
func (m *Manager) IDs() []names.ID {
	return m.selected.IDs()
}

// SelectedItems returns copies of the current items whose id is selected, in
// item-list order. Ids missing from the current list are skipped.
func (m *Manager) SelectedItems() []names.Item {
	items := m.items()
	out := make([]names.Item, 0, len(m.selected))
	seen := make(map[names.ID]bool, len(m.selected))
	for _, it := range items {
		if !m.selected.Has(it.ID) || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it.Clone())
	}
	return out
}

func (m *Manager) notify(kind ChangeKind) {
	if m.onChange == nil {
		return
	}
	m.onChange(Change{Kind: kind, Selected: m.selected.Clone()})
}
