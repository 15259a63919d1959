package executor_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aryankumar/forkjoin/internal/executor"
	"github.com/aryankumar/forkjoin/internal/lifecycle"
)

// Example demonstrates a parallel sum of squares
func Example() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	elements := make([]int, 100)
	for i := range elements {
		elements[i] = i + 1
	}

	eng, err := executor.New[int, int](elements, executor.WithThreads(4), executor.WithLogger(logger))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	eng.SetCombiningRule(executor.Sum[int]())

	out, err := eng.Run(context.Background(), func(_ context.Context, x int) (int, error) {
		return x * x, nil
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	total, ok := out.Value()
	fmt.Println(total, ok)
	// Output: 338350 true
}

// ExampleEngine_Run_empty shows that an empty sequence reduces to no value
func ExampleEngine_Run_empty() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	eng, _ := executor.New[bool, bool]([]bool{}, executor.WithThreads(3), executor.WithLogger(logger))
	eng.SetCombiningRule(executor.And())

	out, _ := eng.Run(context.Background(), func(_ context.Context, b bool) (bool, error) {
		return b, nil
	})

	_, ok := out.Value()
	fmt.Println(ok)
	// Output: false
}

// ExampleEngine_Run_cooperativeShutdown shows perform polling a lifecycle signal
func ExampleEngine_Run_cooperativeShutdown() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sig := lifecycle.New()

	eng, _ := executor.New[int, int]([]int{1, 2, 3, 4}, executor.WithThreads(2), executor.WithLogger(logger))
	eng.SetCombiningRule(executor.Sum[int]())

	sig.MarkDead()

	_, err := eng.Run(context.Background(), func(_ context.Context, x int) (int, error) {
		if !sig.IsAlive() {
			return 0, fmt.Errorf("stopping at %d", x)
		}
		return x, nil
	})

	fmt.Println(err != nil)
	// Output: true
}
