package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/config"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/fallback"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/filter"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/logging"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/paths"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/session"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/store"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/store/postgres"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/store/sqlite"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/store/yamlfile"
)

// openStore opens the configured backend and makes sure its schema exists.
func openStore(ctx context.Context, c config.Config) (store.Admin, error) {
	var (
		st  store.Admin
		err error
	)
	switch c.Store.Driver {
	case config.DriverSQLite:
		dsn := c.Store.DSN
		if dsn == "" {
			dsn = paths.DatabaseFile()
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("creating data directory: %w", err)
			}
		}
		st, err = sqlite.New(ctx, dsn)
	case config.DriverPostgres:
		st, err = postgres.New(ctx, c.Store.DSN)
	case config.DriverYAML:
		dir := c.Store.DSN
		if dir == "" {
			dir = paths.YAMLStoreDir()
		}
		st = yamlfile.New(dir)
	default:
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownDriver, c.Store.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", c.Store.Driver, err)
	}
	if err := st.EnsureSchema(ctx); err != nil {
		_ = st.Close(ctx)
		return nil, fmt.Errorf("preparing %s store: %w", c.Store.Driver, err)
	}
	return st, nil
}

// viewOptions are the flags that shape a session and its filters.
type viewOptions struct {
	profile      bool
	analysis     bool
	swipe        bool
	selectedOnly bool

	search     string
	category   string
	sortBy     string
	order      string
	status     string
	selection  string
	userFilter string
	date       string
}

func (v viewOptions) mode() names.Mode {
	if v.profile {
		return names.ModeProfile
	}
	return names.ModeTournament
}

// filterChanges lists the filter fields the user set, in a fixed order.
func (v viewOptions) filterChanges() [][2]string {
	var out [][2]string
	add := func(f filter.Field, val string) {
		if val != "" {
			out = append(out, [2]string{string(f), val})
		}
	}
	add(filter.FieldSearchTerm, v.search)
	add(filter.FieldCategory, v.category)
	add(filter.FieldSortBy, v.sortBy)
	add(filter.FieldSortOrder, v.order)
	add(filter.FieldFilterStatus, v.status)
	add(filter.FieldUserFilter, v.userFilter)
	add(filter.FieldSelectionFilter, v.selection)
	add(filter.FieldDateFilter, v.date)
	return out
}

// applyFilters pushes every set filter flag into s. A field the scope does
// not offer, or a value the field rejects, is an error on the command line.
func applyFilters(s *session.Session, v viewOptions) error {
	for _, kv := range v.filterChanges() {
		if !s.HandleFilterChange(kv[0], kv[1]) {
			if !filter.Allows(s.Scope(), filter.Field(kv[0])) {
				return fmt.Errorf("filter %s is not available in %s view", kv[0], s.Scope())
			}
			return fmt.Errorf("invalid value %q for filter %s", kv[1], kv[0])
		}
	}
	return nil
}

// openSession opens the store, restores the user's last saved selection and
// loads items. A fetch failure is not fatal unless it is critical: the
// session already fell back and the error is shown to the user.
func openSession(ctx context.Context, c config.Config, v viewOptions) (*session.Session, func(), error) {
	st, err := openStore(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.For("session")
	if v.userFilter == "me" {
		v.userFilter = c.User
	}

	initial, err := st.LoadSelection(ctx, c.User)
	if err != nil {
		logger.Warn("could not restore saved selection", "user", c.User, "err", err)
		initial = nil
	}

	s, err := session.New(session.Options{
		Mode:             v.mode(),
		Analysis:         v.analysis,
		IsAdmin:          c.Admin,
		User:             c.User,
		SwipeMode:        v.swipe,
		ShowSelectedOnly: v.selectedOnly,
		Store:            st,
		Fallback:         fallback.Names(),
		Initial:          initial,
		FetchTimeout:     c.FetchTimeout,
		DebounceWindow:   c.Debounce,
		Logger:           logger,
	})
	if err != nil {
		_ = st.Close(ctx)
		return nil, nil, err
	}
	cleanup := func() {
		s.Close()
		s.Wait()
		if err := st.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("closing store", "err", err)
		}
	}

	if err := s.Refetch(ctx); err != nil {
		var se *session.Error
		if !errors.As(err, &se) || se.Critical {
			cleanup()
			return nil, nil, err
		}
		msg := describeError(se)
		if v.mode() == names.ModeTournament {
			msg += "; showing built-in names"
		}
		fmt.Println(warnStyle.Render("Warning: ") + msg)
	}
	if err := applyFilters(s, v); err != nil {
		cleanup()
		return nil, nil, err
	}
	return s, cleanup, nil
}

// commit flushes the pending save and waits for it. It reports whether a
// save was sent.
func commit(s *session.Session) (bool, error) {
	sent := s.Submit()
	s.Wait()
	if e := s.Error(); e != nil && e.Kind == session.KindSaveFailure {
		return sent, e
	}
	return sent, nil
}

func describeError(e *session.Error) string {
	switch e.Kind {
	case session.KindFetchTimeout:
		return "the name store did not answer in time"
	case session.KindFetchFailure:
		return fmt.Sprintf("could not load names: %v", e.Err)
	case session.KindSaveFailure:
		return fmt.Sprintf("selection not saved: %v", e.Err)
	}
	return e.Error()
}
