package job

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aryankumar/forkjoin/internal/config"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// entry is a job preset with its name, for structured output
type entry struct {
	Name             string `json:"name" yaml:"name"`
	config.JobConfig `yaml:",inline"`
}

// newListCmd creates the job list command
func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List job presets",
		Long:    `List the job presets defined in the forkjoin config file, sorted by name.`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	logger := slog.Default()

	mgr, err := loadManager()
	if err != nil {
		return err
	}

	names := mgr.JobNames()
	logger.Debug("loaded job presets", "count", len(names))

	entries := make([]entry, 0, len(names))
	for _, name := range names {
		job, _ := mgr.GetJob(name)
		entries = append(entries, entry{Name: name, JobConfig: *job})
	}

	out := cmd.OutOrStdout()

	// Determine output format
	outputFormat := viper.GetString("output")
	if outputFormat == "" {
		outputFormat = mgr.GetConfig().Defaults.OutputFormat
	}

	switch outputFormat {
	case "json":
		return outputJSON(out, entries)
	case "yaml":
		return outputYAML(out, entries)
	case "table":
		if len(entries) == 0 {
			fmt.Fprintln(out, "No jobs configured")
			return nil
		}
		noColor := viper.GetBool("no-color") || mgr.GetConfig().Defaults.NoColor
		return outputTable(out, entries, noColor)
	default:
		return fmt.Errorf("unsupported output format: %s (supported: table, json, yaml)", outputFormat)
	}
}

func outputTable(w io.Writer, entries []entry, noColor bool) error {
	table := tablewriter.NewWriter(w)

	table.SetHeader([]string{"Name", "Operation", "Source", "Parallel", "Delay", "Description"})

	// Configure table style
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	var (
		cyanBold = color.New(color.FgCyan, color.Bold)
		yellow   = color.New(color.FgYellow)
	)

	for _, e := range entries {
		name := e.Name
		operation := e.Operation
		if !noColor {
			name = cyanBold.Sprint(name)
			operation = yellow.Sprint(operation)
		}

		parallel := "default"
		if e.Parallel > 0 {
			parallel = fmt.Sprintf("%d", e.Parallel)
		}

		delay := "-"
		if e.ElementDelay > 0 {
			delay = e.ElementDelay.String()
		}

		description := e.Description
		if len(description) > 40 {
			description = description[:37] + "..."
		}

		table.Append([]string{name, operation, describeSource(e.JobConfig), parallel, delay, description})
	}

	table.Render()

	// Print summary
	fmt.Fprintf(w, "\nTotal jobs: %d\n", len(entries))

	return nil
}

// describeSource renders a job's element source in one short cell
func describeSource(job config.JobConfig) string {
	switch {
	case job.Range != "":
		return "range " + job.Range
	case job.File != "":
		return "file " + job.File
	case len(job.Values) > 0:
		values := strings.Join(job.Values, ",")
		if len(values) > 30 {
			values = values[:27] + "..."
		}
		return "values " + values
	default:
		return "-"
	}
}

func outputJSON(w io.Writer, entries []entry) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

func outputYAML(w io.Writer, entries []entry) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	return encoder.Encode(entries)
}
