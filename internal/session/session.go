// Package session is the view-state facade for one name-selection screen:
// it loads items, owns the selection and filter state, derives the visible
// list and debounces saves of the selection.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/clock"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/filter"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/logging"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/persist"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/selection"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/store"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/tracing"
)

// DefaultFetchTimeout bounds a fetch when Options.FetchTimeout is zero.
const DefaultFetchTimeout = 10 * time.Second

// Reporter receives every classified failure. *logging.Reporter satisfies it.
type Reporter interface {
	Report(err error)
}

// Options configures a Session. Store is required.
type Options struct {
	Mode     names.Mode
	Analysis bool
	IsAdmin  bool
	User     string

	SwipeMode        bool
	ShowSelectedOnly bool
	ShowPictures     bool

	Store    store.Store
	Fallback []names.Item
	// Initial seeds the selection, typically from store.Admin.LoadSelection.
	Initial []names.ID

	FetchTimeout   time.Duration
	DebounceWindow time.Duration
	Clock          clock.Clock
	Logger         *log.Logger
	Reporter       Reporter
	Tracer         trace.Tracer
}

// Summary is the header counts for the current view.
type Summary struct {
	Total         int
	Visible       int
	SelectedCount int
}

// Session is safe for concurrent use. All state lives behind one mutex, so
// every operation runs to completion before the next starts.
type Session struct {
	scope        names.Scope
	isAdmin      bool
	user         string
	swipeMode    bool
	showPictures bool
	store        store.Store
	fallback     []names.Item
	fetchTimeout time.Duration
	clock        clock.Clock
	logger       *log.Logger
	reporter     Reporter
	tracer       trace.Tracer

	mu               sync.Mutex
	items            []names.Item
	loading          bool
	err              *Error
	values           filter.Values
	showSelectedOnly bool
	selection        *selection.Manager
	scheduler        *persist.Scheduler // nil when the scope never persists
	fetchGen         uint64
	restorePending   bool
	closed           bool
}

// New builds a session in the loading state. Call Refetch to load items.
func New(opts Options) (*Session, error) {
	if opts.Store == nil {
		return nil, errors.New("session: store is required")
	}
	if opts.Mode == "" {
		opts.Mode = names.ModeTournament
	}
	if _, err := names.ParseMode(string(opts.Mode)); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = logging.For("session")
	}
	if opts.Reporter == nil {
		opts.Reporter = logging.NewReporter(opts.Logger)
	}
	if opts.Tracer == nil {
		opts.Tracer = tracing.Tracer()
	}

	s := &Session{
		scope:            names.ScopeOf(opts.Mode, opts.Analysis),
		isAdmin:          opts.IsAdmin,
		user:             opts.User,
		swipeMode:        opts.SwipeMode,
		showPictures:     opts.ShowPictures,
		store:            opts.Store,
		fallback:         names.CloneAll(opts.Fallback),
		fetchTimeout:     opts.FetchTimeout,
		clock:            opts.Clock,
		logger:           opts.Logger.With("mode", string(opts.Mode), "user", opts.User),
		reporter:         opts.Reporter,
		tracer:           opts.Tracer,
		loading:          true,
		values:           filter.DefaultValues(),
		showSelectedOnly: opts.ShowSelectedOnly,
	}
	s.selection = selection.NewManager(func() []names.Item { return s.items }, s.onSelectionChange)
	if len(opts.Initial) > 0 {
		s.selection.Restore(opts.Initial)
		s.restorePending = true
	}

	if s.scope.Rules().Persist {
		s.scheduler = persist.New(persist.Options{
			Window:  opts.DebounceWindow,
			Clock:   opts.Clock,
			Save:    s.save,
			OnError: s.onSaveError,
			Logger:  opts.Logger.WithPrefix("persist"),
		})
	}
	return s, nil
}

// Scope returns the scope the session was built for.
func (s *Session) Scope() names.Scope { return s.scope }

// User returns the user the session saves for.
func (s *Session) User() string { return s.user }

// SwipeMode reports whether the caller asked for the swipe layout.
func (s *Session) SwipeMode() bool { return s.swipeMode }

// ShowPictures reports whether the caller asked for pictures.
func (s *Session) ShowPictures() bool { return s.showPictures }

// Refetch loads items from the store. On failure the item list becomes the
// fallback list in tournament mode and empty in profile mode; the classified
// error is stored, reported and returned. A result that arrives after Close
// or after a newer Refetch started is dropped.
func (s *Session) Refetch(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.fetchGen++
	gen := s.fetchGen
	s.loading = true
	s.mu.Unlock()

	items, err := s.fetch(ctx)

	s.mu.Lock()
	if s.closed || gen != s.fetchGen {
		s.mu.Unlock()
		s.logger.Debug("dropping stale fetch result", "generation", gen)
		return nil
	}
	s.loading = false

	if err != nil {
		e := Classify(err)
		if s.scope.Mode() == names.ModeTournament {
			s.items = names.CloneAll(s.fallback)
		} else {
			s.items = []names.Item{}
		}
		s.err = e
		s.mu.Unlock()
		s.reporter.Report(e)
		return e
	}

	s.items = items
	if s.err != nil && s.err.IsFetch() {
		s.err = nil
	}
	if s.scheduler != nil {
		if s.restorePending {
			s.scheduler.MarkSaved(persist.ContentHash(s.selection.SelectedItems()))
		}
		// a pending batch was built from the old list
		s.scheduler.Refresh(persist.NewBatch(s.selection.SelectedItems()))
	}
	s.restorePending = false
	s.mu.Unlock()

	s.logger.Debug("items loaded", "count", len(items))
	return nil
}

// fetch calls the store under the fetch timeout. The timeout runs on the
// session clock so a store that never answers still releases the caller.
func (s *Session) fetch(ctx context.Context) ([]names.Item, error) {
	ctx, span := tracing.Start(ctx, s.tracer, "session.fetch",
		attribute.String("mode", string(s.scope.Mode())),
		attribute.String("user", s.user))

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	timer := s.clock.AfterFunc(s.fetchTimeout, func() { cancel(errFetchTimeout) })
	defer timer.Stop()

	type result struct {
		items []names.Item
		err   error
	}
	done := make(chan result, 1)
	go func() {
		items, err := s.store.FetchItems(ctx, s.scope.Mode(), s.user)
		done <- result{items, err}
	}()

	var r result
	select {
	case r = <-done:
		if r.err != nil && ctx.Err() != nil {
			r.err = fmt.Errorf("fetching names: %w", context.Cause(ctx))
		}
	case <-ctx.Done():
		r.err = fmt.Errorf("fetching names: %w", context.Cause(ctx))
	}
	if r.err == nil && r.items == nil {
		r.items = []names.Item{}
	}
	tracing.End(span, r.err)
	return r.items, r.err
}

func (s *Session) save(ctx context.Context, b persist.Batch) error {
	ctx, span := tracing.Start(ctx, s.tracer, "session.save",
		attribute.String("batch", b.ID),
		attribute.Int("items", len(b.Items)))
	err := s.store.SaveSelection(ctx, s.user, b.Items, b.ID)
	tracing.End(span, err)
	return err
}

func (s *Session) onSaveError(b persist.Batch, err error) {
	e := SaveError(err)
	s.mu.Lock()
	if !s.closed {
		s.err = e
	}
	s.mu.Unlock()
	s.reporter.Report(e)
}

// onSelectionChange runs under s.mu from inside a selection mutation.
func (s *Session) onSelectionChange(c selection.Change) {
	if s.scheduler == nil {
		return
	}
	s.scheduler.Schedule(persist.NewBatch(s.selection.SelectedItems()))
}

// Items returns a copy of the unfiltered item list.
func (s *Session) Items() []names.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return names.CloneAll(s.items)
}

// IsLoading reports whether a fetch is outstanding.
func (s *Session) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Error returns the most recent failure, or nil.
func (s *Session) Error() *Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ClearErrors forgets the stored failure.
func (s *Session) ClearErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
}

// FilterConfig returns the filter configuration in the shape legal for the
// session's scope.
func (s *Session) FilterConfig() filter.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.Shape(s.scope, s.values)
}

// HandleFilterChange sets one filter field. It returns false, leaving the
// configuration untouched, when key is not a field of this scope or value is
// not one the field accepts.
func (s *Session) HandleFilterChange(key, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	field := filter.Field(key)
	if !filter.Allows(s.scope, field) {
		s.logger.Debug("filter field not available in scope", "field", key, "scope", s.scope)
		return false
	}
	next := s.values
	if err := next.Set(field, value); err != nil {
		s.logger.Debug("rejected filter change", "err", err)
		return false
	}
	s.values = next
	return true
}

// FilteredItems returns the visible list for the current filters.
func (s *Session) FilteredItems() []names.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.Apply(s.filterInput())
}

// SwipeItems returns the swipe deck: the filtered list, narrowed to selected
// names when "show selected only" is on.
func (s *Session) SwipeItems() []names.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.SwipeView(s.filterInput(), s.showSelectedOnly)
}

// SetShowSelectedOnly toggles the swipe deck's selected-only view.
func (s *Session) SetShowSelectedOnly(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showSelectedOnly = on
}

// ShowSelectedOnly reports the swipe deck's selected-only flag.
func (s *Session) ShowSelectedOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showSelectedOnly
}

// Summary returns the item, visible and selected counts. Selected ids that
// are not in the current item list are not counted.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		Total:         len(s.items),
		Visible:       len(filter.Apply(s.filterInput())),
		SelectedCount: len(s.selection.SelectedItems()),
	}
}

func (s *Session) filterInput() filter.Input {
	return filter.Input{
		Items:    s.items,
		Config:   filter.Shape(s.scope, s.values),
		Scope:    s.scope,
		IsAdmin:  s.isAdmin,
		Selected: s.selection.Snapshot(),
		Now:      s.clock.Now(),
	}
}

// Toggle flips selection of id.
func (s *Session) Toggle(id names.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Toggle(id)
}

// ToggleByID sets selection of id; a no-op when already in that state.
func (s *Session) ToggleByID(id names.ID, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.ToggleByID(id, selected)
}

// ToggleManyByIDs sets selection of every id as one change.
func (s *Session) ToggleManyByIDs(ids []names.ID, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.ToggleManyByIDs(ids, selected)
}

// SelectAll selects every loaded item, or deselects all when every item is
// already selected.
func (s *Session) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.SelectAll()
}

// Clear deselects everything.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear()
}

// IsSelected reports whether id is selected.
func (s *Session) IsSelected(id names.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.IsSelected(id)
}

// SelectedIDs returns every selected id, sorted, including ids not in the
// current item list.
func (s *Session) SelectedIDs() []names.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.IDs()
}

// SelectedItems returns the selected items in item-list order.
func (s *Session) SelectedItems() []names.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.SelectedItems()
}

// Submit saves the pending selection now rather than at the end of the
// debounce window. It reports whether anything was pending.
func (s *Session) Submit() bool {
	if s.scheduler == nil {
		return false
	}
	return s.scheduler.Flush()
}

// SaveState returns the save scheduler's phase; Idle for scopes that never
// save.
func (s *Session) SaveState() persist.State {
	if s.scheduler == nil {
		return persist.Idle
	}
	return s.scheduler.State()
}

// Close cancels the pending save and any outstanding fetch result. It is
// safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.fetchGen++
	if s.scheduler != nil {
		s.scheduler.Close()
	}
}

// Wait blocks until dispatched saves have returned.
func (s *Session) Wait() {
	if s.scheduler != nil {
		s.scheduler.Wait()
	}
}
