package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aryankumar/forkjoin/internal/executor"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter formats output as a borderless, tab-separated table
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	table := f.createTable(w)

	// Handle different data types
	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(table, v)
	case []map[string]interface{}:
		return f.formatMapSlice(table, v)
	case string:
		fmt.Fprintln(w, v)
		return nil
	default:
		// Fallback to simple string representation
		fmt.Fprintln(w, v)
		return nil
	}
}

// FormatReports outputs run reports as a table followed by a summary line
func (f *TableFormatter) FormatReports(w io.Writer, reports []executor.Report) error {
	if len(reports) == 0 {
		fmt.Fprintln(w, "No results")
		return nil
	}

	// Create color scheme
	colors := NewColorScheme(w, f.options.NoColor)

	table := f.createTable(w)

	// Set headers
	headers := []string{"OPERATION", "THREADS", "ELEMENTS", "VALUE", "STATUS", "DURATION"}
	if f.options.Speedup {
		headers = append(headers, "SPEEDUP")
	}
	if f.options.Wide {
		headers = append(headers, "RUN ID", "ERROR")
	}

	if !f.options.NoHeaders {
		if colors.Disabled {
			table.SetHeader(headers)
		} else {
			coloredHeaders := make([]string, len(headers))
			for i, h := range headers {
				coloredHeaders[i] = colors.Header(h)
			}
			table.SetHeader(coloredHeaders)
		}
	}

	fastest, _ := executor.Fastest(reports)

	// Add rows for each report
	for _, report := range reports {
		row := f.formatReportRow(report, reports[0].Duration, fastest.RunID, colors)
		table.Append(row)
	}

	table.Render()

	// Print summary
	f.printSummary(w, reports, colors)

	return nil
}

// formatReportRow formats a single report as a table row
func (f *TableFormatter) formatReportRow(report executor.Report, baseline time.Duration, fastestID string, colors *ColorScheme) []string {
	operation := report.Operation
	if !colors.Disabled {
		operation = colors.Operation(operation)
	}

	value := "<none>"
	if report.Value != nil {
		value = fmt.Sprintf("%v", report.Value)
		if len(value) > 30 {
			value = value[:27] + "..."
		}
	}

	status := "Success"
	switch {
	case report.Error != nil:
		status = "Failed"
	case report.Value == nil:
		status = "Empty"
	}
	if !colors.Disabled {
		status = colors.StatusColor(report.Error != nil)(status)
	}

	duration := report.Duration.Round(time.Microsecond).String()
	if !colors.Disabled {
		duration = colors.Duration(duration)
	}

	row := []string{
		operation,
		strconv.Itoa(report.Threads),
		strconv.Itoa(report.Elements),
		value,
		status,
		duration,
	}

	if f.options.Speedup {
		speedup := "-"
		if report.Error == nil {
			speedup = fmt.Sprintf("%.2fx", executor.Speedup(baseline, report))
			if report.RunID == fastestID {
				speedup += " *"
			}
		}
		row = append(row, speedup)
	}

	if f.options.Wide {
		errText := ""
		if report.Error != nil {
			errText = report.Error.Error()
			if len(errText) > 50 {
				errText = errText[:47] + "..."
			}
		}
		row = append(row, report.RunID, errText)
	}

	return row
}

// formatMap formats a map as a two-column table (key-value pairs)
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	for k, v := range data {
		table.Append([]string{k, fmt.Sprintf("%v", v)})
	}

	table.Render()
	return nil
}

// formatMapSlice formats a slice of maps as a table
func (f *TableFormatter) formatMapSlice(table *tablewriter.Table, data []map[string]interface{}) error {
	if len(data) == 0 {
		return nil
	}

	// Extract headers from the first map
	var headers []string
	for k := range data[0] {
		headers = append(headers, strings.ToUpper(k))
	}

	if !f.options.NoHeaders {
		table.SetHeader(headers)
	}

	// Add rows
	for _, item := range data {
		var row []string
		for _, h := range headers {
			key := strings.ToLower(h)
			row = append(row, fmt.Sprintf("%v", item[key]))
		}
		table.Append(row)
	}

	table.Render()
	return nil
}

// createTable creates a new borderless table
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

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

	return table
}

// printSummary prints a summary of the results
func (f *TableFormatter) printSummary(w io.Writer, reports []executor.Report, colors *ColorScheme) {
	summary := executor.Summarize(reports)

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Summary: ")

	successText := fmt.Sprintf("%d successful", summary.Successful)
	if !colors.Disabled {
		successText = colors.Success(successText)
	}

	failedText := fmt.Sprintf("%d failed", summary.Failed)
	if !colors.Disabled && summary.Failed > 0 {
		failedText = colors.Error(failedText)
	}

	durationText := fmt.Sprintf("avg=%s", summary.AvgDuration.Round(time.Microsecond))
	if !colors.Disabled {
		durationText = colors.Duration(durationText)
	}

	fmt.Fprintf(w, "%s, %s, %s\n", successText, failedText, durationText)
}
