package run

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/aryankumar/forkjoin/internal/executor"
	"github.com/aryankumar/forkjoin/internal/lifecycle"
	"github.com/aryankumar/forkjoin/internal/output"
	"github.com/aryankumar/forkjoin/internal/util"
	"github.com/aryankumar/forkjoin/internal/workload"
	"github.com/spf13/cobra"
)

// NewBenchCmd creates the bench command
func NewBenchCmd(sig *lifecycle.Signal) *cobra.Command {
	flags := &sourceFlags{}
	var threads []int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run one workload over several worker counts",
		Long: `Run the same workload once per worker count and compare durations.

Speedup is relative to the first worker count listed. The fastest successful
run is marked with an asterisk. The sweep stops early on a shutdown signal.`,
		Example: `  # Compare 1, 2, 4 and 8 workers on a slow workload
  forkjoin bench --op sumsq --range 1:200 --element-delay 1ms

  # Custom sweep
  forkjoin bench --job squares --threads 1,3,6`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, flags, threads, sig)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntSliceVar(&threads, "threads", []int{1, 2, 4, 8}, "worker counts to compare")

	return cmd
}

func runBench(cmd *cobra.Command, flags *sourceFlags, threads []int, sig *lifecycle.Signal) error {
	logger := slog.Default()

	counts, err := normalizeThreads(threads)
	if err != nil {
		return err
	}

	s, err := resolve(cmd, flags, sig)
	if err != nil {
		return err
	}

	reports := make([]executor.Report, 0, len(counts))

	for _, n := range counts {
		job := s.job
		job.Threads = n

		report, err := workload.Execute(cmd.Context(), job)
		if report.RunID == "" {
			return err
		}
		reports = append(reports, report)

		if util.IsShutdown(err) || util.IsCancelled(err) {
			logger.Warn("benchmark interrupted", "completed", len(reports), "planned", len(counts))
			break
		}
	}

	if !executor.AllSuccessful(reports) {
		logger.Warn("some runs failed",
			"failed_threads", failedThreads(reports),
			"success_rate", executor.SuccessRate(reports))
	}

	if !consistent(reports) {
		logger.Warn("results differ across worker counts, the operation may not be associative or exact")
	}

	formatter := output.NewFormatter(s.format,
		output.WithNoColor(s.noColor),
		output.WithSpeedup(true))
	errs := executor.GetErrors(reports)
	if err := formatter.FormatReports(cmd.OutOrStdout(), reports); err != nil {
		errs = append(errs, err)
	}

	return util.CombineErrors(errs...)
}

// failedThreads lists the worker counts whose runs failed
func failedThreads(reports []executor.Report) []int {
	failed := executor.FilterFailed(reports)
	counts := make([]int, 0, len(failed))
	for _, r := range failed {
		counts = append(counts, r.Threads)
	}
	return counts
}

// normalizeThreads validates worker counts and drops duplicates, keeping order
func normalizeThreads(threads []int) ([]int, error) {
	if len(threads) == 0 {
		return nil, util.NewValidationError("threads", nil, "at least one worker count is required")
	}

	seen := make(map[int]bool, len(threads))
	out := make([]int, 0, len(threads))
	for _, n := range threads {
		if n < 1 {
			return nil, util.NewValidationError("threads", n, "worker counts must be at least 1")
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out, nil
}

// consistent reports whether all successful runs produced the same value
func consistent(reports []executor.Report) bool {
	values := make([]string, 0, len(reports))
	for _, r := range executor.FilterSuccessful(reports) {
		values = append(values, fmt.Sprint(r.Value))
	}
	sort.Strings(values)
	return len(values) == 0 || values[0] == values[len(values)-1]
}
