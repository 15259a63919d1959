// Package output provides formatters for displaying forkjoin run reports.
//
// The package supports multiple output formats (table, JSON, YAML) and provides
// a unified interface for formatting arbitrary data and batches of run reports.
//
// # Basic Usage
//
//	formatter := output.NewFormatter(output.FormatTable)
//
//	// Format single data item
//	formatter.Format(os.Stdout, map[string]interface{}{"key": "value"})
//
//	// Format run reports
//	formatter.FormatReports(os.Stdout, []executor.Report{report})
//
// # Options
//
//	formatter := output.NewFormatter(
//	    output.FormatTable,
//	    output.WithNoColor(true),
//	    output.WithWide(true),
//	    output.WithSpeedup(true),
//	)
//
// Wide mode adds the run ID and error columns. Speedup mode adds each
// report's speedup relative to the first report and marks the fastest run;
// it is what the bench command uses.
//
// # Color Support
//
// Colors are enabled only for TTY outputs and can be disabled with
// WithNoColor(true).
//
//   - Operation names: Cyan, Bold
//   - Success status: Green
//   - Error messages: Red, Bold
//   - Headers: White, Bold
//   - Durations: Blue
package output
