package output

import (
	"io"
	"strings"

	"github.com/aryankumar/forkjoin/internal/executor"
	"github.com/aryankumar/forkjoin/internal/util"
)

// Format represents the output format type
type Format string

const (
	// FormatTable outputs data in a borderless, tab-separated table
	FormatTable Format = "table"
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	// Format outputs a single data item to the writer
	Format(w io.Writer, data interface{}) error

	// FormatReports outputs one row or record per run report
	FormatReports(w io.Writer, reports []executor.Report) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool

	// Wide enables wide output with additional columns
	Wide bool

	// Speedup adds each report's speedup relative to the first report
	Speedup bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithWide enables wide output
func WithWide(wide bool) Option {
	return func(o *Options) {
		o.Wide = wide
	}
}

// WithSpeedup enables the speedup column used by benchmark output
func WithSpeedup(speedup bool) Option {
	return func(o *Options) {
		o.Speedup = speedup
	}
}

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", util.NewValidationError("output", name, "must be one of: table, json, yaml")
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}

// record is the structured form of a report shared by the JSON and YAML formatters
type record struct {
	RunID     string      `json:"runId" yaml:"runId"`
	Operation string      `json:"operation" yaml:"operation"`
	Threads   int         `json:"threads" yaml:"threads"`
	Elements  int         `json:"elements" yaml:"elements"`
	Status    string      `json:"status" yaml:"status"`
	Value     interface{} `json:"value,omitempty" yaml:"value,omitempty"`
	Error     string      `json:"error,omitempty" yaml:"error,omitempty"`
	Duration  string      `json:"duration" yaml:"duration"`
	Speedup   *float64    `json:"speedup,omitempty" yaml:"speedup,omitempty"`
}

// toRecords converts reports into records, adding speedups when requested
func toRecords(reports []executor.Report, opts *Options) []record {
	out := make([]record, len(reports))
	for i, r := range reports {
		rec := record{
			RunID:     r.RunID,
			Operation: r.Operation,
			Threads:   r.Threads,
			Elements:  r.Elements,
			Status:    statusText(r),
			Value:     r.Value,
			Duration:  r.Duration.String(),
		}
		if r.Error != nil {
			rec.Error = r.Error.Error()
		}
		if opts.Speedup && r.Error == nil {
			s := roundSpeedup(executor.Speedup(reports[0].Duration, r))
			rec.Speedup = &s
		}
		out[i] = rec
	}
	return out
}

// statusText describes a report's outcome in one word
func statusText(r executor.Report) string {
	switch {
	case r.Error != nil:
		return "failed"
	case r.Value == nil:
		return "empty"
	default:
		return "success"
	}
}

func roundSpeedup(s float64) float64 {
	return float64(int64(s*100+0.5)) / 100
}
