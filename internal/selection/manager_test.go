package selection_test

import (
	"testing"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects the changes a Manager fires.
type recorder struct {
	changes []selection.Change
}

func (r *recorder) hook(c selection.Change) { r.changes = append(r.changes, c) }

func newManager(items []names.Item) (*selection.Manager, *recorder, *[]names.Item) {
	rec := &recorder{}
	list := items
	m := selection.NewManager(func() []names.Item { return list }, rec.hook)
	return m, rec, &list
}

func sampleItems() []names.Item {
	return []names.Item{
		{ID: "1", Name: "Alpha"},
		{ID: "2", Name: "Beta", Hidden: true},
		{ID: "3", Name: "Gamma"},
	}
}

func TestToggle(t *testing.T) {
	m, rec, _ := newManager(sampleItems())

	m.Toggle("1")
	assert.True(t, m.IsSelected("1"))
	m.Toggle("1")
	assert.False(t, m.IsSelected("1"))

	require.Len(t, rec.changes, 2)
	assert.Equal(t, selection.ChangeToggle, rec.changes[0].Kind)
	assert.True(t, rec.changes[0].Selected.Has("1"))
	assert.Equal(t, 0, rec.changes[1].Selected.Len())
}

func TestToggleAcceptsUnknownIDs(t *testing.T) {
	m, rec, _ := newManager(sampleItems())

	m.Toggle("999")
	assert.True(t, m.IsSelected("999"))
	assert.Len(t, rec.changes, 1)

	// Stale ids never surface as items.
	assert.Empty(t, m.SelectedItems())
}

func TestToggleEmptyIDIsNoop(t *testing.T) {
	m, rec, _ := newManager(sampleItems())
	m.Toggle("")
	m.ToggleByID("", true)
	assert.Equal(t, 0, m.Count())
	assert.Empty(t, rec.changes)
}

func TestToggleByIDIdempotent(t *testing.T) {
	m, rec, _ := newManager(sampleItems())

	m.ToggleByID("1", true)
	once := m.Snapshot()
	m.ToggleByID("1", true)

	assert.True(t, once.Equal(m.Snapshot()))
	assert.Len(t, rec.changes, 1, "second set must not fire")

	m.ToggleByID("1", false)
	m.ToggleByID("1", false)
	assert.Len(t, rec.changes, 2)
	assert.False(t, m.IsSelected("1"))
}

func TestToggleManyByIDsFiresOnce(t *testing.T) {
	m, rec, _ := newManager(sampleItems())
	m.ToggleByID("3", true)
	rec.changes = nil

	m.ToggleManyByIDs([]names.ID{"1", "2", "3"}, true)

	require.Len(t, rec.changes, 1)
	assert.Equal(t, selection.ChangeBatch, rec.changes[0].Kind)
	assert.Equal(t, []names.ID{"1", "2", "3"}, rec.changes[0].Selected.IDs())
}

func TestToggleManyByIDsNoChange(t *testing.T) {
	m, rec, _ := newManager(sampleItems())
	m.ToggleManyByIDs([]names.ID{"1", "2"}, false)
	assert.Empty(t, rec.changes)

	m.ToggleManyByIDs([]names.ID{"1", "2"}, true)
	m.ToggleManyByIDs([]names.ID{"1", "2"}, false)
	assert.Len(t, rec.changes, 2)
	assert.Equal(t, 0, m.Count())
}

func TestSelectAllUsesUnfilteredList(t *testing.T) {
	m, rec, _ := newManager(sampleItems())

	m.SelectAll()
	// Hidden items count: "all" is the full list, not a filtered view.
	assert.Equal(t, []names.ID{"1", "2", "3"}, m.IDs())
	require.Len(t, rec.changes, 1)
	assert.Equal(t, selection.ChangeSelectAll, rec.changes[0].Kind)

	m.SelectAll()
	assert.Equal(t, 0, m.Count())
	require.Len(t, rec.changes, 2)
	assert.Equal(t, selection.ChangeSelectNone, rec.changes[1].Kind)
}

func TestSelectAllFromPartial(t *testing.T) {
	m, _, _ := newManager(sampleItems())
	m.ToggleByID("2", true)
	m.SelectAll()
	assert.Equal(t, 3, m.Count())
}

func TestSelectAllDropsStaleIDs(t *testing.T) {
	m, _, _ := newManager(sampleItems())
	m.ToggleByID("stale", true)
	m.SelectAll()
	assert.False(t, m.IsSelected("stale"))
	assert.Equal(t, 3, m.Count())
}

func TestSelectAllOnEmptyList(t *testing.T) {
	m, rec, _ := newManager(nil)
	m.SelectAll()
	assert.Empty(t, rec.changes)

	m.ToggleByID("x", true)
	m.SelectAll()
	assert.Equal(t, 0, m.Count())
}

func TestClearAlwaysFires(t *testing.T) {
	m, rec, _ := newManager(sampleItems())

	m.Clear()
	require.Len(t, rec.changes, 1)
	assert.Equal(t, selection.ChangeClear, rec.changes[0].Kind)

	m.ToggleManyByIDs([]names.ID{"1", "3"}, true)
	m.Clear()
	assert.Equal(t, 0, m.Count())
	assert.Len(t, rec.changes, 3)
}

func TestSelectedItemsFollowCurrentList(t *testing.T) {
	m, _, list := newManager(sampleItems())
	m.ToggleManyByIDs([]names.ID{"3", "1"}, true)

	got := m.SelectedItems()
	require.Len(t, got, 2)
	// Item-list order, not selection order.
	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, "Gamma", got[1].Name)

	// A refetch renames an item and drops another.
	*list = []names.Item{{ID: "3", Name: "Gamma II"}, {ID: "4", Name: "Delta"}}
	got = m.SelectedItems()
	require.Len(t, got, 1)
	assert.Equal(t, "Gamma II", got[0].Name)
	// The id survives in memory.
	assert.True(t, m.IsSelected("1"))
}

func TestSelectedItemsAreCopies(t *testing.T) {
	items := []names.Item{{ID: "1", Name: "Alpha", Extra: map[string]any{"k": "v"}}}
	m, _, _ := newManager(items)
	m.Toggle("1")

	got := m.SelectedItems()
	got[0].Name = "changed"
	got[0].Extra["k"] = "changed"
	assert.Equal(t, "Alpha", items[0].Name)
	assert.Equal(t, "v", items[0].Extra["k"])
}

func TestSnapshotIsIndependent(t *testing.T) {
	m, rec, _ := newManager(sampleItems())
	m.Toggle("1")
	snap := m.Snapshot()
	m.Toggle("3")
	assert.False(t, snap.Has("3"))
	assert.False(t, rec.changes[0].Selected.Has("3"))
}

func TestNilHooks(t *testing.T) {
	m := selection.NewManager(nil, nil)
	m.Toggle("1")
	m.SelectAll()
	m.Clear()
	assert.Empty(t, m.SelectedItems())
}

func TestSetHelpers(t *testing.T) {
	s := selection.NewSet("b", "a")
	assert.Equal(t, []names.ID{"a", "b"}, s.IDs())
	assert.True(t, s.Equal(selection.NewSet("a", "b")))
	assert.False(t, s.Equal(selection.NewSet("a")))
	assert.False(t, s.Equal(selection.NewSet("a", "c")))

	var empty selection.Set
	assert.False(t, empty.Has("a"))
	assert.Equal(t, 0, empty.Len())
}

func TestRestoreIsSilent(t *testing.T) {
	m, rec, _ := newManager(sampleItems())
	m.Toggle("3")

	m.Restore([]names.ID{"1", "2", "1"})
	assert.Equal(t, []names.ID{"1", "2"}, m.IDs())
	assert.Len(t, rec.changes, 1)
}

func TestSetCloneIsIndependent(t *testing.T) {
	s := selection.NewSet("a", "b")
	c := s.Clone()
	delete(c, "a")
	assert.True(t, s.Has("a"))
	assert.Equal(t, 1, c.Len())

	var empty selection.Set
	assert.NotNil(t, empty.Clone())
}
