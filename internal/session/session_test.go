package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/clock"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/filter"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/logging"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/persist"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/session"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var epoch = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

type savedCall struct {
	user  string
	ids   []names.ID
	batch string
}

// fakeStore serves a fixed list and records saves. When block is set,
// FetchItems waits for it or for the context.
type fakeStore struct {
	mu       sync.Mutex
	items    []names.Item
	fetchErr error
	saveErr  error
	block    chan struct{}
	fetches  int
	saves    []savedCall
}

func (f *fakeStore) FetchItems(ctx context.Context, mode names.Mode, user string) ([]names.Item, error) {
	f.mu.Lock()
	f.fetches++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return names.CloneAll(f.items), nil
}

func (f *fakeStore) SaveSelection(ctx context.Context, user string, items []names.Item, batchID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]names.ID, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	f.saves = append(f.saves, savedCall{user: user, ids: ids, batch: batchID})
	return f.saveErr
}

func (f *fakeStore) saveCalls() []savedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]savedCall(nil), f.saves...)
}

type reporter struct {
	mu   sync.Mutex
	errs []error
}

func (r *reporter) Report(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *reporter) reported() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

func catalogue() []names.Item {
	return []names.Item{
		{ID: "1", Name: "Alpha", SubmittedBy: "mina", CreatedAt: epoch.Add(-time.Hour)},
		{ID: "2", Name: "Beta", Hidden: true, SubmittedBy: "lucy"},
		{ID: "3", Name: "Gamma", SubmittedBy: "mina", CreatedAt: epoch.Add(-48 * time.Hour)},
	}
}

type harness struct {
	s     *session.Session
	store *fakeStore
	clock *clock.Manual
	rep   *reporter
}

func newHarness(t *testing.T, mutate func(*session.Options)) *harness {
	t.Helper()
	h := &harness{
		store: &fakeStore{items: catalogue()},
		clock: clock.NewManual(epoch),
		rep:   &reporter{},
	}
	opts := session.Options{
		Mode:     names.ModeTournament,
		User:     "mina",
		Store:    h.store,
		Fallback: []names.Item{{ID: "f1", Name: "Fallback"}},
		Clock:    h.clock,
		Logger:   logging.Discard(),
		Reporter: h.rep,
	}
	if mutate != nil {
		mutate(&opts)
	}
	s, err := session.New(opts)
	require.NoError(t, err)
	h.s = s
	t.Cleanup(func() {
		s.Close()
		s.Wait()
	})
	return h
}

func (h *harness) load(t *testing.T) {
	t.Helper()
	require.NoError(t, h.s.Refetch(context.Background()))
}

// settle runs the debounce window out and waits for dispatched saves.
func (h *harness) settle() {
	h.clock.Advance(persist.DefaultWindow)
	h.s.Wait()
}

func ids(items []names.Item) []names.ID { return filter.IDs(items) }

func TestNewRequiresStore(t *testing.T) {
	_, err := session.New(session.Options{})
	assert.Error(t, err)

	_, err = session.New(session.Options{Store: &fakeStore{}, Mode: "gallery"})
	assert.Error(t, err)
}

func TestEndToEndCloseBeforeWindow(t *testing.T) {
	fs := &fakeStore{items: []names.Item{
		{ID: "1", Name: "Alpha"},
		{ID: "2", Name: "Beta", Hidden: true},
	}}
	h := newHarness(t, func(o *session.Options) { o.Store = fs })
	st := h.s

	assert.True(t, st.IsLoading())
	require.NoError(t, st.Refetch(context.Background()))
	assert.False(t, st.IsLoading())
	assert.Equal(t, []names.ID{"1"}, ids(st.FilteredItems()))

	st.Toggle("1")
	st.Toggle("2")
	assert.Equal(t, []names.ID{"1", "2"}, st.SelectedIDs())
	assert.Equal(t, persist.Pending, st.SaveState())

	st.Close()
	h.clock.Advance(10 * persist.DefaultWindow)
	st.Wait()

	assert.Empty(t, fs.saveCalls())
	assert.Empty(t, h.rep.reported())
	assert.Equal(t, persist.Idle, st.SaveState())
}

func TestToggleByIDIdempotent(t *testing.T) {
	h := newHarness(t, nil)
	h.load(t)

	h.s.ToggleByID("1", true)
	h.s.ToggleByID("1", true)
	assert.Equal(t, []names.ID{"1"}, h.s.SelectedIDs())

	h.settle()
	calls := h.store.saveCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, []names.ID{"1"}, calls[0].ids)
	assert.Equal(t, "mina", calls[0].user)
	assert.NotEmpty(t, calls[0].batch)
}

func TestToggleManyIsOneSave(t *testing.T) {
	h := newHarness(t, nil)
	h.load(t)

	h.s.ToggleManyByIDs([]names.ID{"1", "2", "3"}, true)
	h.settle()

	calls := h.store.saveCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, []names.ID{"1", "2", "3"}, calls[0].ids)
}

func TestDebounceCoalescing(t *testing.T) {
	h := newHarness(t, nil)
	h.load(t)

	h.s.Toggle("1")
	h.clock.Advance(300 * time.Millisecond)
	h.s.Toggle("3")
	h.clock.Advance(300 * time.Millisecond)
	h.s.Toggle("1")
	h.s.Wait()
	assert.Empty(t, h.store.saveCalls())

	h.settle()
	calls := h.store.saveCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, []names.ID{"3"}, calls[0].ids)
}

func TestDedupByContent(t *testing.T) {
	h := newHarness(t, nil)
	h.load(t)

	h.s.ToggleManyByIDs([]names.ID{"1", "3"}, true)
	h.settle()
	require.Len(t, h.store.saveCalls(), 1)

	h.s.Toggle("3")
	h.s.Toggle("3")
	assert.Equal(t, persist.Idle, h.s.SaveState())
	h.settle()
	assert.Len(t, h.store.saveCalls(), 1)
}

func TestClearOnFreshSessionSavesEmpty(t *testing.T) {
	h := newHarness(t, nil)
	h.load(t)

	h.s.Clear()
	h.settle()
	calls := h.store.saveCalls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].ids)
}

func TestFetchTimeoutFallsBack(t *testing.T) {
	h := newHarness(t, func(o *session.Options) { o.FetchTimeout = 2 * time.Second })
	h.store.block = make(chan struct{})

	errc := make(chan error, 1)
	go func() { errc <- h.s.Refetch(context.Background()) }()

	require.Eventually(t, func() bool { return h.clock.Pending() == 1 }, 5*time.Second, time.Millisecond)
	assert.True(t, h.s.IsLoading())
	h.clock.Advance(2 * time.Second)

	var err error
	select {
	case err = <-errc:
	case <-time.After(5 * time.Second):
		t.Fatal("refetch did not return after timeout")
	}

	var serr *session.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, session.KindFetchTimeout, serr.Kind)
	assert.True(t, serr.Retryable)
	assert.False(t, h.s.IsLoading())
	assert.Equal(t, []names.ID{"f1"}, ids(h.s.Items()))
	assert.Equal(t, session.KindFetchTimeout, h.s.Error().Kind)
	require.Len(t, h.rep.reported(), 1)
	close(h.store.block)
}

func TestProfileFailureYieldsEmptyList(t *testing.T) {
	h := newHarness(t, func(o *session.Options) { o.Mode = names.ModeProfile })
	h.store.fetchErr = errors.New("connection refused")

	err := h.s.Refetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, session.KindFetchFailure, h.s.Error().Kind)
	assert.NotNil(t, h.s.Items())
	assert.Empty(t, h.s.Items())
	assert.False(t, h.s.IsLoading())
}

func TestInvalidShapeFallsBackWithoutCrashing(t *testing.T) {
	h := newHarness(t, nil)
	h.store.fetchErr = fmt.Errorf("names.yaml: %w", store.ErrInvalidShape)

	err := h.s.Refetch(context.Background())
	require.Error(t, err)
	e := h.s.Error()
	assert.Equal(t, session.KindInvalidShape, e.Kind)
	assert.False(t, e.Critical)
	assert.False(t, e.Retryable)
	assert.Equal(t, []names.ID{"f1"}, ids(h.s.Items()))
	assert.False(t, h.s.IsLoading())

	h.store.mu.Lock()
	h.store.fetchErr = nil
	h.store.mu.Unlock()
	h.load(t)
	assert.Nil(t, h.s.Error())
	assert.Len(t, h.s.Items(), 3)
}

func TestSuccessfulRefetchClearsFetchError(t *testing.T) {
	h := newHarness(t, nil)
	h.store.fetchErr = errors.New("flaky")
	require.Error(t, h.s.Refetch(context.Background()))

	h.store.mu.Lock()
	h.store.fetchErr = nil
	h.store.mu.Unlock()

	h.load(t)
	assert.Nil(t, h.s.Error())
	assert.Len(t, h.s.Items(), 3)
}

func TestFilterFieldsScopedByMode(t *testing.T) {
	h := newHarness(t, nil)
	h.load(t)

	assert.False(t, h.s.HandleFilterChange("userFilter", "lucy"))
	assert.False(t, h.s.HandleFilterChange("filterStatus", "hidden"))
	_, ok := h.s.FilterConfig().(filter.Tournament)
	assert.True(t, ok)

	assert.True(t, h.s.HandleFilterChange("searchTerm", "gam"))
	assert.Equal(t, []names.ID{"3"}, ids(h.s.FilteredItems()))

	a := newHarness(t, func(o *session.Options) { o.Analysis = true })
	a.load(t)
	assert.True(t, a.s.HandleFilterChange("userFilter", "mina"))
	full, ok := a.s.FilterConfig().(filter.Full)
	require.True(t, ok)
	assert.Equal(t, "mina", full.UserFilter)
	assert.Equal(t, []names.ID{"1", "3"}, ids(a.s.FilteredItems()))
}

func TestHandleFilterChangeRejectsBadValue(t *testing.T) {
	h := newHarness(t, nil)
	before := h.s.FilterConfig()

	assert.False(t, h.s.HandleFilterChange("sortBy", "random"))
	assert.False(t, h.s.HandleFilterChange("colour", "red"))
	assert.Equal(t, before, h.s.FilterConfig())
}

func TestAdminSeesHiddenOutsidePlainTournament(t *testing.T) {
	plain := newHarness(t, func(o *session.Options) { o.IsAdmin = true })
	plain.load(t)
	assert.Equal(t, []names.ID{"1", "3"}, ids(plain.s.FilteredItems()))

	profile := newHarness(t, func(o *session.Options) {
		o.IsAdmin = true
		o.Mode = names.ModeProfile
	})
	profile.load(t)
	assert.Equal(t, []names.ID{"1", "2", "3"}, ids(profile.s.FilteredItems()))
	assert.True(t, profile.s.HandleFilterChange("filterStatus", "hidden"))
	assert.Equal(t, []names.ID{"2"}, ids(profile.s.FilteredItems()))
}

func TestSelectionFilterAndDateFilter(t *testing.T) {
	h := newHarness(t, func(o *session.Options) { o.Mode = names.ModeProfile })
	h.load(t)

	h.s.Toggle("3")
	require.True(t, h.s.HandleFilterChange("selectionFilter", "selected"))
	assert.Equal(t, []names.ID{"3"}, ids(h.s.FilteredItems()))

	require.True(t, h.s.HandleFilterChange("selectionFilter", "all"))
	require.True(t, h.s.HandleFilterChange("dateFilter", "today"))
	assert.Equal(t, []names.ID{"1"}, ids(h.s.FilteredItems()))
}

func TestSaveFailureKeepsSelection(t *testing.T) {
	h := newHarness(t, nil)
	h.load(t)
	h.store.saveErr = errors.New("disk full")

	h.s.Toggle("1")
	h.settle()

	e := h.s.Error()
	require.NotNil(t, e)
	assert.Equal(t, session.KindSaveFailure, e.Kind)
	assert.True(t, e.Retryable)
	assert.False(t, e.Critical)
	assert.True(t, h.s.IsSelected("1"))
	require.Len(t, h.rep.reported(), 1)

	h.s.ClearErrors()
	assert.Nil(t, h.s.Error())
}

func TestProfileNeverSaves(t *testing.T) {
	h := newHarness(t, func(o *session.Options) { o.Mode = names.ModeProfile })
	h.load(t)

	h.s.Toggle("1")
	h.s.SelectAll()
	assert.False(t, h.s.Submit())
	h.settle()

	assert.Empty(t, h.store.saveCalls())
	assert.Equal(t, persist.Idle, h.s.SaveState())
}

func TestSubmitSavesImmediately(t *testing.T) {
	h := newHarness(t, nil)
	h.load(t)

	assert.False(t, h.s.Submit())
	h.s.Toggle("1")
	assert.True(t, h.s.Submit())
	h.s.Wait()
	require.Len(t, h.store.saveCalls(), 1)
}

func TestSubmitRightAfterWindowSave(t *testing.T) {
	h := newHarness(t, nil)
	h.load(t)

	h.s.Toggle("1")
	h.settle()
	require.Len(t, h.store.saveCalls(), 1)

	h.s.Toggle("3")
	h.clock.Advance(100 * time.Millisecond)
	assert.True(t, h.s.Submit())
	h.s.Wait()
	h.s.Close()
	h.s.Wait()

	calls := h.store.saveCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, []names.ID{"1", "3"}, calls[1].ids)
	assert.Nil(t, h.s.Error())
}

func TestRefetchDropsVanishedIDsFromPendingSave(t *testing.T) {
	h := newHarness(t, nil)
	h.load(t)

	h.s.ToggleManyByIDs([]names.ID{"1", "3"}, true)
	assert.Equal(t, persist.Pending, h.s.SaveState())

	h.store.mu.Lock()
	h.store.items = catalogue()[:2]
	h.store.mu.Unlock()
	h.load(t)
	h.settle()

	calls := h.store.saveCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, []names.ID{"1"}, calls[0].ids)
}

func TestSelectAllIncludesFilteredOut(t *testing.T) {
	h := newHarness(t, nil)
	h.load(t)
	require.True(t, h.s.HandleFilterChange("searchTerm", "alpha"))

	h.s.SelectAll()
	assert.Equal(t, []names.ID{"1", "2", "3"}, h.s.SelectedIDs())

	h.s.SelectAll()
	assert.Empty(t, h.s.SelectedIDs())
}

func TestSummary(t *testing.T) {
	h := newHarness(t, nil)
	h.load(t)

	h.s.ToggleManyByIDs([]names.ID{"2", "ghost"}, true)
	assert.Equal(t, session.Summary{Total: 3, Visible: 2, SelectedCount: 1}, h.s.Summary())
}

func TestSwipeItems(t *testing.T) {
	h := newHarness(t, func(o *session.Options) { o.SwipeMode = true })
	h.load(t)
	assert.True(t, h.s.SwipeMode())

	h.s.Toggle("3")
	assert.Equal(t, []names.ID{"1", "3"}, ids(h.s.SwipeItems()))

	h.s.SetShowSelectedOnly(true)
	assert.True(t, h.s.ShowSelectedOnly())
	assert.Equal(t, []names.ID{"3"}, ids(h.s.SwipeItems()))
}

func TestItemsAreCopies(t *testing.T) {
	h := newHarness(t, nil)
	h.load(t)

	items := h.s.Items()
	items[0].Name = "changed"
	assert.Equal(t, "Alpha", h.s.Items()[0].Name)
}

func TestRefetchAfterCloseAndStaleResult(t *testing.T) {
	h := newHarness(t, nil)
	h.store.block = make(chan struct{})

	errc := make(chan error, 1)
	go func() { errc <- h.s.Refetch(context.Background()) }()
	require.Eventually(t, func() bool { return h.clock.Pending() == 1 }, 5*time.Second, time.Millisecond)

	h.s.Close()
	close(h.store.block)
	assert.NoError(t, <-errc)
	assert.Empty(t, h.s.Items())

	assert.ErrorIs(t, h.s.Refetch(context.Background()), session.ErrClosed)
}

func TestRestoredSelectionNotResaved(t *testing.T) {
	h := newHarness(t, func(o *session.Options) { o.Initial = []names.ID{"1"} })
	h.load(t)
	assert.True(t, h.s.IsSelected("1"))

	h.s.Toggle("3")
	h.s.Toggle("3")
	h.settle()
	assert.Empty(t, h.store.saveCalls())

	h.s.Toggle("3")
	h.settle()
	calls := h.store.saveCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, []names.ID{"1", "3"}, calls[0].ids)
}

func TestSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	h := newHarness(t, func(o *session.Options) { o.Tracer = tp.Tracer("test") })
	h.load(t)
	h.s.Toggle("1")
	h.settle()

	var spanNames []string
	for _, sp := range sr.Ended() {
		spanNames = append(spanNames, sp.Name())
	}
	assert.Equal(t, []string{"session.fetch", "session.save"}, spanNames)
}

func TestClassify(t *testing.T) {
	assert.Nil(t, session.Classify(nil))
	assert.Equal(t, session.KindFetchTimeout, session.Classify(context.DeadlineExceeded).Kind)
	assert.Equal(t, session.KindFetchFailure, session.Classify(context.Canceled).Kind)
	assert.Equal(t, session.KindInvalidShape, session.Classify(store.ErrInvalidShape).Kind)

	e := session.SaveError(errors.New("x"))
	assert.Same(t, e, session.Classify(fmt.Errorf("wrapped: %w", e)))
	assert.Contains(t, e.Error(), "save_failure")
	assert.Equal(t, []any{"kind", "save_failure", "retryable", true, "critical", false}, e.Fields())
}
