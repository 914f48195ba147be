package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/store"
)

// Kind classifies a failure surfaced by the session.
type Kind string

const (
	KindFetchTimeout Kind = "fetch_timeout"
	KindFetchFailure Kind = "fetch_failure"
	KindSaveFailure  Kind = "save_failure"
	KindInvalidShape Kind = "invalid_shape"
)

// ErrClosed is returned by Refetch after Close.
var ErrClosed = errors.New("session closed")

// errFetchTimeout is the cancel cause when the fetch timeout elapses.
var errFetchTimeout = fmt.Errorf("fetch timed out: %w", context.DeadlineExceeded)

// Error is a classified failure. The session never panics on store errors;
// it stores one of these and keeps running.
type Error struct {
	Kind      Kind
	Retryable bool
	Critical  bool
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Fields returns log key/value pairs describing the failure.
func (e *Error) Fields() []any {
	return []any{"kind", string(e.Kind), "retryable", e.Retryable, "critical", e.Critical}
}

// Classify maps an error from a fetch into an Error. An Error passes through
// unchanged. A malformed payload is not retryable but only fails that fetch:
// the session falls back like any other fetch failure.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	switch {
	case errors.Is(err, store.ErrInvalidShape):
		return &Error{Kind: KindInvalidShape, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindFetchTimeout, Retryable: true, Err: err}
	default:
		return &Error{Kind: KindFetchFailure, Retryable: true, Err: err}
	}
}

// SaveError wraps a failed selection save. Saves are always retryable and
// never critical: the local selection is kept and the next change resends it.
func SaveError(err error) *Error {
	return &Error{Kind: KindSaveFailure, Retryable: true, Err: err}
}

// IsFetch reports whether the error came from loading items.
func (e *Error) IsFetch() bool {
	switch e.Kind {
	case KindFetchTimeout, KindFetchFailure, KindInvalidShape:
		return true
	}
	return false
}
