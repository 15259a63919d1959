// Package lifecycle provides a one-shot alive/dead signal with listener broadcast.
//
// A Signal starts alive and transitions to dead at most once. Listeners registered
// while the signal is alive are notified exactly once, in registration order, when
// MarkDead is first called. Long-running work can poll IsAlive, select on Done, or
// derive a context with Context to stop cooperatively.
//
// Prefer constructing a Signal with New and passing it explicitly. Default returns a
// lazily created process-wide instance for code that cannot be threaded through.
package lifecycle

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Listener is notified once when a Signal transitions to dead.
// Implementations must be comparable so they can be removed again.
type Listener interface {
	OnDead()
}

// funcListener gives a plain func a removable identity
type funcListener struct {
	fn func()
}

func (f *funcListener) OnDead() {
	f.fn()
}

// OnDead wraps fn as a Listener. The returned handle can be passed to RemoveListener.
func OnDead(fn func()) Listener {
	return &funcListener{fn: fn}
}

// Signal is a cooperative shutdown flag with an ordered listener registry
type Signal struct {
	// alive is read lock-free by IsAlive
	alive atomic.Bool

	// mu guards listeners and the alive transition
	mu sync.Mutex

	// listeners in registration order, duplicates allowed
	listeners []Listener

	// done is closed once the signal is dead
	done chan struct{}

	logger *slog.Logger
}

// New creates a live signal with no listeners
func New() *Signal {
	return NewWithLogger(nil)
}

// NewWithLogger creates a live signal that logs transitions to logger
// A nil logger falls back to slog.Default()
func NewWithLogger(logger *slog.Logger) *Signal {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Signal{
		done:   make(chan struct{}),
		logger: logger,
	}
	s.alive.Store(true)
	return s
}

var (
	defaultOnce   sync.Once
	defaultSignal *Signal
)

// Default returns the process-wide signal, creating it on first access
func Default() *Signal {
	defaultOnce.Do(func() {
		defaultSignal = New()
	})
	return defaultSignal
}

// IsAlive reports whether MarkDead has not yet been called
func (s *Signal) IsAlive() bool {
	return s.alive.Load()
}

// Done returns a channel that is closed when the signal dies
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// MarkDead transitions the signal to dead and notifies every registered listener
// once, synchronously, in registration order. Subsequent calls have no effect.
//
// Listeners run after the registry lock is released, so a listener may call
// AddListener or RemoveListener; both are no-ops by then.
func (s *Signal) MarkDead() {
	s.mu.Lock()
	if !s.alive.Load() {
		s.mu.Unlock()
		return
	}
	s.alive.Store(false)
	listeners := s.listeners
	s.listeners = nil
	close(s.done)
	s.mu.Unlock()

	s.logger.Debug("lifecycle signal marked dead", "listeners", len(listeners))

	for _, l := range listeners {
		l.OnDead()
	}
}

// AddListener appends l to the registry.
// It is a no-op if l is nil or the signal is already dead.
func (s *Signal) AddListener(l Listener) {
	if l == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alive.Load() {
		return
	}
	s.listeners = append(s.listeners, l)
}

// RemoveListener removes the first registered occurrence of l.
// It is a no-op if l is nil, not registered, or the signal is already dead.
func (s *Signal) RemoveListener(l Listener) {
	if l == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alive.Load() {
		return
	}
	for i, existing := range s.listeners {
		if existing == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of registered listeners
func (s *Signal) ListenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// Context returns a child of parent that is cancelled when the signal dies.
// The returned cancel func releases the watcher and must be called.
func (s *Signal) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		select {
		case <-s.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
