// Package persist debounces selection saves: rapid changes collapse into one
// trailing-edge save of the latest selection, and a selection identical to the
// last one sent is never sent twice.
package persist

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/clock"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/logging"
)

// DefaultWindow is the quiet period after the last change before a save fires.
const DefaultWindow = 800 * time.Millisecond

// State is the scheduler's externally visible phase.
type State int

const (
	Idle State = iota
	Pending
	Saving
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Saving:
		return "saving"
	}
	return "unknown"
}

// SaveFunc writes one batch to the backing store.
type SaveFunc func(ctx context.Context, b Batch) error

// Options configures a Scheduler. Save is required.
type Options struct {
	Window  time.Duration
	Clock   clock.Clock
	Save    SaveFunc
	OnSaved func(Batch)
	OnError func(Batch, error)
	Logger  *log.Logger
	// Context is passed to every save. Defaults to context.Background.
	Context context.Context
}

// Scheduler owns the pending batch, its timer and the last acknowledged hash.
type Scheduler struct {
	window  time.Duration
	clock   clock.Clock
	save    SaveFunc
	onSaved func(Batch)
	onError func(Batch, error)
	logger  *log.Logger
	ctx     context.Context
	limiter *rate.Limiter

	mu       sync.Mutex
	pending  *Batch
	timer    clock.Timer
	gen      uint64
	seq      uint64
	ackedSeq uint64
	lastHash string // newest acknowledged save
	hasLast  bool
	sentHash string // store content once outstanding saves land
	hasSent  bool
	sentSeq  uint64 // dispatch sentHash belongs to
	inflight int
	closed   bool

	wg sync.WaitGroup
}

// New returns an idle scheduler.
func New(opts Options) *Scheduler {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = logging.For("persist")
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	return &Scheduler{
		window:  opts.Window,
		clock:   opts.Clock,
		save:    opts.Save,
		onSaved: opts.OnSaved,
		onError: opts.OnError,
		logger:  opts.Logger,
		ctx:     opts.Context,
		limiter: rate.NewLimiter(rate.Every(opts.Window), 1),
	}
}

// Window returns the debounce window.
func (s *Scheduler) Window() time.Duration { return s.window }

// Schedule makes b the pending batch and restarts the window. It returns
// false, dropping any pending batch, when b matches the newest save sent to
// the store or the scheduler is closed.
func (s *Scheduler) Schedule(b Batch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	if s.hasSent && b.Hash == s.sentHash {
		if s.pending != nil {
			s.logger.Debug("selection back to last sent state, dropping pending save", "batch", s.pending.ID)
		}
		s.cancelLocked()
		return false
	}

	s.pending = &b
	s.armLocked(s.window)
	s.logger.Debug("save scheduled", "batch", b.ID, "items", len(b.Items), "window", s.window)
	return true
}

// Refresh swaps the pending batch for b without restarting the window, for
// when the items behind the selection changed. It reports whether a batch is
// still pending afterwards.
func (s *Scheduler) Refresh(b Batch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.pending == nil {
		return false
	}
	if s.hasSent && b.Hash == s.sentHash {
		s.logger.Debug("refreshed selection matches last sent state, dropping pending save", "batch", s.pending.ID)
		s.cancelLocked()
		return false
	}
	s.pending = &b
	return true
}

// Flush dispatches the pending batch now instead of at the end of the
// window, bypassing the rate guard. It reports whether a batch was pending.
func (s *Scheduler) Flush() bool {
	s.mu.Lock()
	if s.closed || s.pending == nil {
		s.mu.Unlock()
		return false
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	g := s.gen
	s.mu.Unlock()

	s.fire(g, true)
	return true
}

// Close cancels any pending save. Saves already in flight run to completion
// but their results are discarded. Close is idempotent.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancelLocked()
}

// Wait blocks until every dispatched save has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// State reports Pending while a batch waits for its window, Saving while
// only dispatched saves are outstanding, and Idle otherwise.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.pending != nil:
		return Pending
	case s.inflight > 0:
		return Saving
	}
	return Idle
}

// LastSaved returns the hash of the newest acknowledged save.
func (s *Scheduler) LastSaved() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastHash, s.hasLast
}

// MarkSaved records hash as already persisted, for a selection restored
// from the store. A later acknowledged save still replaces it.
func (s *Scheduler) MarkSaved(hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ackedSeq == 0 {
		s.lastHash = hash
		s.hasLast = true
	}
	if s.seq == 0 {
		s.sentHash = hash
		s.hasSent = true
	}
}

func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.pending = nil
}

func (s *Scheduler) armLocked(d time.Duration) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	g := s.gen
	s.timer = s.clock.AfterFunc(d, func() { s.fire(g, false) })
}

// fire dispatches the pending batch if generation g is still current. An
// explicit flush still takes a token, so later window saves are spaced out,
// but it never waits for one.
func (s *Scheduler) fire(g uint64, explicit bool) {
	s.mu.Lock()
	if s.closed || g != s.gen || s.pending == nil {
		s.mu.Unlock()
		return
	}

	now := s.clock.Now()
	r := s.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 && !explicit {
		r.CancelAt(now)
		s.logger.Debug("save rate limited, re-arming", "delay", delay)
		s.armLocked(delay)
		s.mu.Unlock()
		return
	}

	b := *s.pending
	s.pending = nil
	s.timer = nil
	s.seq++
	seq := s.seq
	s.sentHash = b.Hash
	s.hasSent = true
	s.sentSeq = seq
	s.inflight++
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("dispatching save", "batch", b.ID, "items", len(b.Items))
	go s.dispatch(seq, b)
}

func (s *Scheduler) dispatch(seq uint64, b Batch) {
	defer s.wg.Done()

	err := s.save(s.ctx, b)

	s.mu.Lock()
	s.inflight--
	closed := s.closed
	if err == nil && !closed && seq > s.ackedSeq {
		s.ackedSeq = seq
		s.lastHash = b.Hash
		s.hasLast = true
		if seq > s.sentSeq {
			s.sentHash, s.hasSent, s.sentSeq = b.Hash, true, seq
		}
	}
	if err != nil && seq == s.sentSeq {
		s.sentHash, s.hasSent, s.sentSeq = s.lastHash, s.hasLast, s.ackedSeq
	}
	s.mu.Unlock()

	if closed {
		s.logger.Debug("ignoring save result after close", "batch", b.ID)
		return
	}
	if err != nil {
		s.logger.Warn("save failed", "batch", b.ID, "err", err)
		if s.onError != nil {
			s.onError(b, err)
		}
		return
	}
	s.logger.Debug("save acknowledged", "batch", b.ID)
	if s.onSaved != nil {
		s.onSaved(b)
	}
}
