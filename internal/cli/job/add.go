package job

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aryankumar/forkjoin/internal/config"
	"github.com/aryankumar/forkjoin/internal/util"
	"github.com/aryankumar/forkjoin/internal/workload"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newAddCmd creates the job add command
func newAddCmd() *cobra.Command {
	var (
		job   config.JobConfig
		force bool
	)

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a job preset to the config file",
		Long: `Add a named job preset to the forkjoin config file.

The preset needs an operation and exactly one element source. The worker
count is taken from the global --parallel flag when given.`,
		Example: `  # Sum of 1..1000
  forkjoin job add gauss --op sum --range 1:1000

  # Slow sum of squares on 4 workers, replacing an existing preset
  forkjoin job add squares --op sumsq --range 1:200 --element-delay 5ms -p 4 --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job.Parallel = viper.GetInt("parallel")
			return runAdd(cmd, args[0], job, force)
		},
	}

	cmd.Flags().StringVar(&job.Operation, "op", "", "operation to run")
	cmd.Flags().StringVar(&job.Range, "range", "", "inclusive integer range of elements, lo:hi")
	cmd.Flags().StringSliceVar(&job.Values, "values", nil, "literal element values (comma-separated)")
	cmd.Flags().StringVarP(&job.File, "file", "f", "", "YAML or JSON file holding the elements")
	cmd.Flags().DurationVar(&job.ElementDelay, "element-delay", 0, "delay before each element")
	cmd.Flags().StringVar(&job.Description, "description", "", "free text shown by job list")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing preset")

	return cmd
}

func runAdd(cmd *cobra.Command, name string, job config.JobConfig, force bool) error {
	logger := slog.Default()

	if err := validateAdd(name, job); err != nil {
		return err
	}

	mgr, err := loadManager()
	if err != nil {
		return err
	}

	if _, exists := mgr.GetJob(name); exists && !force {
		return util.NewValidationError("name", name, "job already exists (use --force to replace it)")
	}

	mgr.SetJob(name, job)
	if err := mgr.Save(); err != nil {
		return err
	}

	logger.Debug("saved job preset", "name", name, "operation", job.Operation)
	fmt.Fprintf(cmd.OutOrStdout(), "job %q saved\n", name)

	return nil
}

// validateAdd checks a preset before it is written
func validateAdd(name string, job config.JobConfig) error {
	if err := config.ValidateJob(name, job); err != nil {
		return err
	}

	if !slices.Contains(workload.OperationNames(), job.Operation) {
		return fmt.Errorf("%w: %q (supported: %v)", util.ErrUnknownOperation, job.Operation, workload.OperationNames())
	}

	if job.Range != "" {
		if _, err := workload.ParseRange(job.Range); err != nil {
			return err
		}
	}

	if job.ElementDelay > time.Minute {
		return util.NewValidationError("element-delay", job.ElementDelay, "must not exceed 1m")
	}

	return nil
}
