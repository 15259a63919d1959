package executor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

// BenchmarkEngine_Run benchmarks a sum of squares with different worker counts
func BenchmarkEngine_Run(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	elements := make([]float64, 100000)
	for i := range elements {
		elements[i] = float64(i)
	}

	square := func(_ context.Context, x float64) (float64, error) {
		return x * x, nil
	}

	for _, workers := range []int{1, 2, 4, 8, 16} {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			eng, err := New[float64, float64](elements, WithThreads(workers), WithLogger(logger))
			if err != nil {
				b.Fatal(err)
			}
			eng.SetCombiningRule(FloatSum[float64]())

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := eng.Run(context.Background(), square); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkEngine_Run_NoReduce measures spawn and join overhead without a combining rule
func BenchmarkEngine_Run_NoReduce(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	eng, err := New[int, int](make([]int, 1000), WithThreads(8), WithLogger(logger))
	if err != nil {
		b.Fatal(err)
	}

	perform := func(_ context.Context, x int) (int, error) {
		return x, nil
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := eng.Run(context.Background(), perform); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSummarize benchmarks report summarization
func BenchmarkSummarize(b *testing.B) {
	reports := make([]Report, 1000)
	for i := range reports {
		reports[i] = Report{Threads: i%16 + 1}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Summarize(reports)
	}
}
