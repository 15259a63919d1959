package run

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aryankumar/forkjoin/internal/config"
	"github.com/aryankumar/forkjoin/internal/lifecycle"
	"github.com/aryankumar/forkjoin/internal/output"
	"github.com/aryankumar/forkjoin/internal/util"
	"github.com/aryankumar/forkjoin/internal/workload"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// sourceFlags holds the flags shared by run and bench
type sourceFlags struct {
	operation    string
	rangeSpec    string
	values       []string
	file         string
	job          string
	elementDelay time.Duration
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.operation, "op", "", "operation to run (sum, fsum, sumsq, and, or, min, max)")
	cmd.Flags().StringVar(&f.rangeSpec, "range", "", "inclusive integer range of elements, lo:hi")
	cmd.Flags().StringSliceVar(&f.values, "values", nil, "literal element values (comma-separated)")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "YAML or JSON file holding the elements")
	cmd.Flags().StringVar(&f.job, "job", "", "named job preset from the config file")
	cmd.Flags().DurationVar(&f.elementDelay, "element-delay", 0, "delay before each element")
}

// settings are the resolved run inputs
type settings struct {
	job     workload.Job
	format  output.Format
	noColor bool
}

// resolve merges flags, the named preset and the config defaults into a job.
// Flags take precedence over the preset, which takes precedence over defaults.
func resolve(cmd *cobra.Command, f *sourceFlags, sig *lifecycle.Signal) (settings, error) {
	mgr := config.NewManager(viper.GetString("config"))
	cfg, err := mgr.Load()
	if err != nil {
		return settings{}, err
	}

	preset := config.JobConfig{}
	if f.job != "" {
		p, ok := mgr.GetJob(f.job)
		if !ok {
			return settings{}, fmt.Errorf("%w: %q", util.ErrJobNotFound, f.job)
		}
		preset = *p
	}

	// Any source flag replaces the preset's source entirely
	if f.rangeSpec != "" || len(f.values) > 0 || f.file != "" {
		preset.Range, preset.Values, preset.File = f.rangeSpec, f.values, f.file
	}
	if f.operation != "" {
		preset.Operation = f.operation
	}
	if cmd.Flags().Changed("element-delay") {
		preset.ElementDelay = f.elementDelay
	}

	if preset.Operation == "" {
		return settings{}, util.NewValidationError("op", nil, "an operation is required (--op or --job)")
	}

	elements, err := loadElements(preset)
	if err != nil {
		return settings{}, err
	}

	threads := viper.GetInt("parallel")
	if threads <= 0 {
		threads = preset.Parallel
	}
	if threads <= 0 {
		threads = cfg.Defaults.Parallel
	}

	formatName := viper.GetString("output")
	if formatName == "" {
		formatName = cfg.Defaults.OutputFormat
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return settings{}, err
	}

	return settings{
		job: workload.Job{
			Operation:    preset.Operation,
			Elements:     elements,
			Threads:      threads,
			ElementDelay: preset.ElementDelay,
			Signal:       sig,
			Logger:       slog.Default(),
		},
		format:  format,
		noColor: viper.GetBool("no-color") || cfg.Defaults.NoColor,
	}, nil
}

// loadElements reads the single element source named by the job
func loadElements(job config.JobConfig) ([]string, error) {
	sources := 0
	for _, set := range []bool{job.Range != "", len(job.Values) > 0, job.File != ""} {
		if set {
			sources++
		}
	}

	switch {
	case sources == 0:
		return nil, util.NewValidationError("elements", nil, "one of --range, --values, --file or --job is required")
	case sources > 1:
		return nil, util.NewValidationError("elements", nil, "only one of --range, --values or --file may be given")
	case job.Range != "":
		return workload.ParseRange(job.Range)
	case job.File != "":
		return workload.LoadFile(job.File)
	default:
		return workload.ParseValues(job.Values), nil
	}
}
