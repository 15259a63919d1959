package run

import (
	"log/slog"

	"github.com/aryankumar/forkjoin/internal/executor"
	"github.com/aryankumar/forkjoin/internal/lifecycle"
	"github.com/aryankumar/forkjoin/internal/output"
	"github.com/aryankumar/forkjoin/internal/util"
	"github.com/aryankumar/forkjoin/internal/workload"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command
func NewRunCmd(sig *lifecycle.Signal) *cobra.Command {
	flags := &sourceFlags{}
	var wide bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reduce a sequence of elements in parallel",
		Long: `Reduce a sequence of elements across parallel workers.

Element i is handled by worker i mod N. Each worker folds its results locally and
the partial results are combined once every worker has finished. An empty
sequence produces no value.

Operations:
  sum     integer sum
  fsum    floating-point sum
  sumsq   floating-point sum of squares
  and     logical AND
  or      logical OR
  min     minimum value
  max     maximum value`,
		Example: `  # Sum 1..100 on 4 workers
  forkjoin run --op sum --range 1:100 -p 4

  # Logical AND of literal values
  forkjoin run --op and --values true,true,false

  # Reduce the elements listed in a file, as JSON
  forkjoin run --op fsum -f elements.yaml -o json

  # Run a preset from the config file
  forkjoin run --job squares`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, flags, wide, sig)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&wide, "wide", false, "show run ID and error columns")

	return cmd
}

func runRun(cmd *cobra.Command, flags *sourceFlags, wide bool, sig *lifecycle.Signal) error {
	logger := slog.Default()

	s, err := resolve(cmd, flags, sig)
	if err != nil {
		return err
	}

	logger.Debug("running workload",
		"operation", s.job.Operation,
		"elements", len(s.job.Elements),
		"workers", s.job.Threads)

	report, err := workload.Execute(cmd.Context(), s.job)
	if report.RunID == "" {
		// Nothing ran, there is no report to show
		return err
	}

	formatter := output.NewFormatter(s.format,
		output.WithNoColor(s.noColor),
		output.WithWide(wide))
	if ferr := formatter.FormatReports(cmd.OutOrStdout(), []executor.Report{report}); ferr != nil {
		return util.CombineErrors(err, ferr)
	}

	return err
}
