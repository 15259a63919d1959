// Package executor provides a parallel fork-join map-reduce engine.
//
// An Engine owns a fixed, ordered element sequence. Each Run spawns a fresh set of
// workers, statically assigns element i to worker i mod N, applies a per-element
// function, folds each worker's results locally and merges the partials once every
// worker has joined.
//
// # Basic Usage
//
//	eng, err := executor.New[int, int](elements, executor.WithThreads(4), executor.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	eng.SetCombiningRule(executor.Sum[int]())
//
//	out, err := eng.Run(ctx, func(ctx context.Context, x int) (int, error) {
//	    return x * x, nil
//	})
//	if err != nil {
//	    return err
//	}
//	total, ok := out.Value()
//
// # Combining Rules
//
// A Rule merges two partial results. The engine skips absent partials, so a worker
// with no elements or an engine with no elements contributes nothing, and a run over
// an empty sequence has no value. Without a rule, results are computed and discarded.
//
// Provided rules: And, Or, Sum, FloatSum, Product, Min and Max.
//
// # Determinism
//
// Merge order across workers is not part of the contract. The final value is
// deterministic only when the rule is associative and commutative. Choosing such a
// rule is the caller's obligation; the engine does not reorder results to hide a
// non-commutative rule.
//
// # Failures
//
// A perform error or panic stops the failing worker. Run waits for every worker to
// terminate, then returns the failures as one error: the *ElementError itself when a
// single worker failed, or a k8s.io/apimachinery aggregate otherwise. errors.Is and
// errors.As reach every cause in both cases.
//
// # Cancellation
//
// The engine has no timeout and never interrupts a worker. The context given to Run is
// handed to perform unchanged, so perform can stop early by watching it or by polling
// a lifecycle.Signal.
//
// # Concurrency Guarantees
//
//   - Exactly ThreadCount workers per run, no reuse across runs
//   - Within a worker, elements are processed in ascending index order
//   - Run never returns before every worker has terminated
//   - Overlapping runs on one Engine are rejected with ErrAlreadyRunning
//   - SetThreadCount and SetCombiningRule must not race with Run
package executor
