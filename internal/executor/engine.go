package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aryankumar/forkjoin/internal/util"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNilElements indicates the engine was constructed without an element sequence
	ErrNilElements = errors.New("elements must not be nil")

	// ErrNilPerform indicates Run was called without a per-element function
	ErrNilPerform = errors.New("perform function must not be nil")

	// ErrAlreadyRunning indicates Run was called while another run is in flight
	ErrAlreadyRunning = errors.New("engine is already running")

	// ErrPanic indicates a perform function or combining rule panicked
	ErrPanic = errors.New("panic during execution")
)

// PerformFunc computes the partial result for a single element.
// It may be called concurrently for different elements, never for the same one.
type PerformFunc[E, R any] func(ctx context.Context, element E) (R, error)

// ElementError wraps a failure with the element and worker it came from
type ElementError struct {
	// Index is the position of the failing element in the engine's sequence
	Index int

	// Worker is the worker the element was assigned to
	Worker int

	Err error
}

// Error implements the error interface
func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d (worker %d): %v", e.Index, e.Worker, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *ElementError) Unwrap() error {
	return e.Err
}

// Engine statically partitions a fixed element sequence across a number of workers,
// applies a per-element function and reduces the results with a combining rule.
//
// An Engine may be reused for any number of sequential runs. SetThreadCount and
// SetCombiningRule must not be called while a run is in flight.
type Engine[E, R any] struct {
	// elements is fixed for the lifetime of the engine
	elements []E

	// threads is the number of workers spawned per run, at least 1
	threads int

	// rule merges partial results, nil means no reduction
	rule Rule[R]

	logger *slog.Logger

	// running rejects overlapping runs on one engine
	running atomic.Bool
}

// Option configures an Engine
type Option func(*options)

type options struct {
	threads int
	logger  *slog.Logger
}

// WithThreads sets the initial thread count, values below 1 are clamped to 1
func WithThreads(n int) Option {
	return func(o *options) {
		o.threads = n
	}
}

// WithLogger sets the logger used for run and worker events
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates an engine over elements.
// elements may be empty but must not be nil. The engine starts with one thread and
// no combining rule.
func New[E, R any](elements []E, opts ...Option) (*Engine[E, R], error) {
	if elements == nil {
		return nil, ErrNilElements
	}

	o := &options{threads: 1}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	e := &Engine[E, R]{
		elements: elements,
		logger:   o.logger,
	}
	e.SetThreadCount(o.threads)

	return e, nil
}

// SetThreadCount sets the number of workers used by subsequent runs
// Values below 1 are treated as 1
func (e *Engine[E, R]) SetThreadCount(n int) {
	if n < 1 {
		n = 1
	}
	e.threads = n
}

// ThreadCount returns the number of workers used per run
func (e *Engine[E, R]) ThreadCount() int {
	return e.threads
}

// SetCombiningRule sets the rule used to merge partial results.
// A nil rule disables reduction: results are computed and discarded.
//
// The final value is deterministic only if rule is associative and commutative.
// Elements are strided across workers, so even a merely associative rule does not
// see elements in sequence order.
func (e *Engine[E, R]) SetCombiningRule(rule Rule[R]) {
	e.rule = rule
}

// Len returns the number of elements
func (e *Engine[E, R]) Len() int {
	return len(e.elements)
}

// IsRunning returns true while a run is in flight
func (e *Engine[E, R]) IsRunning() bool {
	return e.running.Load()
}

// partial is the outcome of one worker
type partial[R any] struct {
	value   R
	present bool
	err     error
}

// Run applies perform to every element and reduces the results.
//
// Element i is processed by worker i mod ThreadCount, each worker walking its
// indices in ascending order and folding locally. Run returns only after every
// worker has terminated; the worker partials are then merged in worker order.
//
// If perform fails or panics, that worker stops and the failure is recorded as an
// *ElementError. Once all workers have joined, the failures are returned together
// and the outcome carries no value. ctx is passed through to perform unchanged; the
// engine never interrupts in-flight work.
func (e *Engine[E, R]) Run(ctx context.Context, perform PerformFunc[E, R]) (Outcome[R], error) {
	if perform == nil {
		return Outcome[R]{}, ErrNilPerform
	}

	if !e.running.CompareAndSwap(false, true) {
		return Outcome[R]{}, ErrAlreadyRunning
	}
	defer e.running.Store(false)

	threads := e.threads
	rule := e.rule
	runID := uuid.New()
	logger := e.logger.With("run_id", runID.String())

	logger.Info("starting run",
		"workers", threads,
		"elements", len(e.elements),
		"reduce", rule != nil)

	startTime := time.Now()

	partials := make([]partial[R], threads)

	var g errgroup.Group
	for w := 0; w < threads; w++ {
		w := w
		g.Go(func() error {
			partials[w] = e.work(ctx, logger, w, threads, rule, perform)
			return partials[w].err
		})
	}

	outcome := Outcome[R]{
		RunID:    runID,
		Threads:  threads,
		Elements: len(e.elements),
	}

	if err := g.Wait(); err != nil {
		errs := make([]error, 0, threads)
		for _, p := range partials {
			if p.err != nil {
				errs = append(errs, p.err)
			}
		}
		outcome.Duration = time.Since(startTime)

		logger.Warn("run failed",
			"failed_workers", len(errs),
			"duration", outcome.Duration)

		return outcome, util.CombineErrors(errs...)
	}

	value, present, err := merge(partials, rule)
	outcome.Duration = time.Since(startTime)
	if err != nil {
		logger.Warn("merge failed", "error", err)
		return outcome, err
	}
	outcome.value, outcome.present = value, present

	logger.Info("run completed",
		"present", present,
		"duration", outcome.Duration)

	return outcome, nil
}

// work processes the elements striding from index w
func (e *Engine[E, R]) work(
	ctx context.Context,
	logger *slog.Logger,
	w int,
	threads int,
	rule Rule[R],
	perform PerformFunc[E, R],
) (p partial[R]) {
	index := -1
	processed := 0

	defer func() {
		if r := recover(); r != nil {
			p = partial[R]{err: &ElementError{
				Index:  index,
				Worker: w,
				Err:    fmt.Errorf("%w: %v", ErrPanic, r),
			}}
			logger.Warn("worker panicked", "worker_id", w, "index", index, "panic", r)
		}
	}()

	logger.Debug("worker started", "worker_id", w)

	for index = w; index < len(e.elements); index += threads {
		v, err := perform(ctx, e.elements[index])
		if err != nil {
			logger.Warn("element failed",
				"worker_id", w,
				"index", index,
				"error", err)
			return partial[R]{err: &ElementError{Index: index, Worker: w, Err: err}}
		}
		processed++

		if rule == nil {
			continue
		}
		if !p.present {
			p.value, p.present = v, true
		} else {
			p.value = rule(p.value, v)
		}
	}

	logger.Debug("worker finished", "worker_id", w, "processed", processed)

	return p
}

// merge folds the worker partials in worker order, absent partials act as identity
func merge[R any](partials []partial[R], rule Rule[R]) (value R, present bool, err error) {
	if rule == nil {
		return value, false, nil
	}

	defer func() {
		if r := recover(); r != nil {
			var zero R
			value, present = zero, false
			err = fmt.Errorf("%w: combining partial results: %v", ErrPanic, r)
		}
	}()

	for _, p := range partials {
		if !p.present {
			continue
		}
		if !present {
			value, present = p.value, true
			continue
		}
		value = rule(value, p.value)
	}

	return value, present, nil
}
