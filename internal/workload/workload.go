// Package workload binds element sources and named reduction operations to the
// executor engine for the CLI.
package workload

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/aryankumar/forkjoin/internal/executor"
	"github.com/aryankumar/forkjoin/internal/lifecycle"
	"github.com/aryankumar/forkjoin/internal/util"
)

// Job describes one reduction over a sequence of element tokens
type Job struct {
	// Operation is a registered operation name, see Operations
	Operation string

	// Elements are the raw element tokens, converted per operation
	Elements []string

	// Threads is the worker count, values below 1 are clamped to 1
	Threads int

	// ElementDelay is slept before each element, useful for observing shutdown
	ElementDelay time.Duration

	// Signal, if set, is polled before each element to stop cooperatively
	Signal *lifecycle.Signal

	Logger *slog.Logger
}

// OperationInfo describes a registered operation
type OperationInfo struct {
	Name        string `json:"name" yaml:"name"`
	Elements    string `json:"elements" yaml:"elements"`
	Description string `json:"description" yaml:"description"`
}

type operation struct {
	info    OperationInfo
	execute func(ctx context.Context, job Job) (executor.Report, error)
}

var operations = map[string]operation{}

func register(info OperationInfo, execute func(ctx context.Context, job Job) (executor.Report, error)) {
	operations[info.Name] = operation{info: info, execute: execute}
}

func init() {
	register(OperationInfo{Name: "sum", Elements: "integer", Description: "integer sum"},
		func(ctx context.Context, job Job) (executor.Report, error) {
			return reduce(ctx, job, parseInt, identity[int64], executor.Sum[int64]())
		})
	register(OperationInfo{Name: "fsum", Elements: "number", Description: "floating-point sum"},
		func(ctx context.Context, job Job) (executor.Report, error) {
			return reduce(ctx, job, parseFloat, identity[float64], executor.FloatSum[float64]())
		})
	register(OperationInfo{Name: "sumsq", Elements: "number", Description: "floating-point sum of squares"},
		func(ctx context.Context, job Job) (executor.Report, error) {
			return reduce(ctx, job, parseFloat, square, executor.FloatSum[float64]())
		})
	register(OperationInfo{Name: "and", Elements: "boolean", Description: "logical AND"},
		func(ctx context.Context, job Job) (executor.Report, error) {
			return reduce(ctx, job, strconv.ParseBool, identity[bool], executor.And())
		})
	register(OperationInfo{Name: "or", Elements: "boolean", Description: "logical OR"},
		func(ctx context.Context, job Job) (executor.Report, error) {
			return reduce(ctx, job, strconv.ParseBool, identity[bool], executor.Or())
		})
	register(OperationInfo{Name: "min", Elements: "number", Description: "minimum value"},
		func(ctx context.Context, job Job) (executor.Report, error) {
			return reduce(ctx, job, parseFloat, identity[float64], executor.Min[float64]())
		})
	register(OperationInfo{Name: "max", Elements: "number", Description: "maximum value"},
		func(ctx context.Context, job Job) (executor.Report, error) {
			return reduce(ctx, job, parseFloat, identity[float64], executor.Max[float64]())
		})
}

// Operations returns the registered operations sorted by name
func Operations() []OperationInfo {
	out := make([]OperationInfo, 0, len(operations))
	for _, op := range operations {
		out = append(out, op.info)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// OperationNames returns the registered operation names sorted
func OperationNames() []string {
	infos := Operations()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

// Execute converts the job's elements for its operation and runs the reduction.
// The returned report is filled in even when the run fails.
func Execute(ctx context.Context, job Job) (executor.Report, error) {
	op, ok := operations[job.Operation]
	if !ok {
		err := fmt.Errorf("%w: %q (supported: %v)", util.ErrUnknownOperation, job.Operation, OperationNames())
		return executor.Report{Operation: job.Operation, Error: err}, err
	}

	if job.Elements == nil {
		job.Elements = []string{}
	}
	if job.Logger == nil {
		job.Logger = slog.Default()
	}

	return op.execute(ctx, job)
}

// reduce is the typed core shared by every operation
func reduce[E, R any](
	ctx context.Context,
	job Job,
	parse func(string) (E, error),
	apply func(E) R,
	rule executor.Rule[R],
) (executor.Report, error) {
	elements, err := convert(job.Elements, parse)
	if err != nil {
		return executor.Report{Operation: job.Operation, Elements: len(job.Elements), Error: err}, err
	}

	eng, err := executor.New[E, R](elements,
		executor.WithThreads(job.Threads),
		executor.WithLogger(job.Logger))
	if err != nil {
		return executor.Report{Operation: job.Operation, Error: err}, err
	}
	eng.SetCombiningRule(rule)

	out, err := eng.Run(ctx, func(ctx context.Context, e E) (R, error) {
		if err := job.pause(ctx); err != nil {
			var zero R
			return zero, err
		}
		return apply(e), nil
	})

	return out.Report(job.Operation, err), err
}

// pause checks the shutdown signal and sleeps for the configured element delay
func (j Job) pause(ctx context.Context) error {
	var done <-chan struct{}
	if j.Signal != nil {
		if !j.Signal.IsAlive() {
			return util.ErrShutdown
		}
		done = j.Signal.Done()
	}

	if j.ElementDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(j.ElementDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-done:
		return util.ErrShutdown
	case <-ctx.Done():
		// The signal cancels contexts derived from it, report the shutdown itself
		if j.Signal != nil && !j.Signal.IsAlive() {
			return util.ErrShutdown
		}
		return ctx.Err()
	}
}

// convert parses every token, collecting all failures
func convert[E any](tokens []string, parse func(string) (E, error)) ([]E, error) {
	out := make([]E, len(tokens))
	var errs []error

	for i, tok := range tokens {
		v, err := parse(tok)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: element %d (%q): %v", util.ErrInvalidInput, i, tok, err))
			continue
		}
		out[i] = v
	}

	if err := util.CombineErrors(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func identity[T any](x T) T {
	return x
}

func square(x float64) float64 {
	return x * x
}
