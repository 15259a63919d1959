package executor

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Outcome is the result of a single Run
type Outcome[R any] struct {
	// RunID identifies the run in logs
	RunID uuid.UUID

	// Threads is the number of workers the run used
	Threads int

	// Elements is the number of elements processed
	Elements int

	// Duration is the wall time from spawning the workers to the final merge
	Duration time.Duration

	value   R
	present bool
}

// Value returns the reduced value, or false when the run produced none
func (o Outcome[R]) Value() (R, bool) {
	return o.value, o.present
}

// Present reports whether the run produced a value
func (o Outcome[R]) Present() bool {
	return o.present
}

// Report converts the outcome into a type-erased Report for display
func (o Outcome[R]) Report(operation string, err error) Report {
	r := Report{
		RunID:     o.RunID.String(),
		Operation: operation,
		Threads:   o.Threads,
		Elements:  o.Elements,
		Duration:  o.Duration,
		Error:     err,
	}
	if err == nil && o.present {
		r.Value = o.value
	}
	return r
}

// Report is a display-oriented summary of one run
type Report struct {
	// RunID identifies the run in logs
	RunID string

	// Operation names the workload that was reduced
	Operation string

	// Threads is the number of workers the run used
	Threads int

	// Elements is the number of elements processed
	Elements int

	// Value is the reduced value (nil if none or if the run failed)
	Value interface{}

	// Error is the failure of the run (nil if successful)
	Error error

	// Duration is how long the run took
	Duration time.Duration
}

// CountSuccessful returns the number of successful reports (no error)
func CountSuccessful(reports []Report) int {
	count := 0
	for _, r := range reports {
		if r.Error == nil {
			count++
		}
	}
	return count
}

// CountFailed returns the number of failed reports (has error)
func CountFailed(reports []Report) int {
	return len(reports) - CountSuccessful(reports)
}

// FilterSuccessful returns only the successful reports
func FilterSuccessful(reports []Report) []Report {
	filtered := make([]Report, 0, len(reports))
	for _, r := range reports {
		if r.Error == nil {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterFailed returns only the failed reports
func FilterFailed(reports []Report) []Report {
	filtered := make([]Report, 0, len(reports))
	for _, r := range reports {
		if r.Error != nil {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// AverageDuration calculates the average duration of all reports
func AverageDuration(reports []Report) time.Duration {
	if len(reports) == 0 {
		return 0
	}

	var total time.Duration
	for _, r := range reports {
		total += r.Duration
	}

	return total / time.Duration(len(reports))
}

// MaxDuration returns the maximum duration among all reports
func MaxDuration(reports []Report) time.Duration {
	if len(reports) == 0 {
		return 0
	}

	max := reports[0].Duration
	for _, r := range reports {
		if r.Duration > max {
			max = r.Duration
		}
	}
	return max
}

// MinDuration returns the minimum duration among all reports
func MinDuration(reports []Report) time.Duration {
	if len(reports) == 0 {
		return 0
	}

	min := reports[0].Duration
	for _, r := range reports {
		if r.Duration < min {
			min = r.Duration
		}
	}
	return min
}

// Fastest returns the successful report with the shortest duration
func Fastest(reports []Report) (Report, bool) {
	var (
		best  Report
		found bool
	)
	for _, r := range reports {
		if r.Error != nil {
			continue
		}
		if !found || r.Duration < best.Duration {
			best, found = r, true
		}
	}
	return best, found
}

// Speedup returns baseline divided by r.Duration, or 0 if either is zero
func Speedup(baseline time.Duration, r Report) float64 {
	if baseline <= 0 || r.Duration <= 0 {
		return 0
	}
	return float64(baseline) / float64(r.Duration)
}

// GetErrors extracts all errors from reports
func GetErrors(reports []Report) []error {
	errors := make([]error, 0)
	for _, r := range reports {
		if r.Error != nil {
			errors = append(errors, r.Error)
		}
	}
	return errors
}

// Summary provides a summary of a batch of runs
type Summary struct {
	Total       int
	Successful  int
	Failed      int
	AvgDuration time.Duration
	MaxDuration time.Duration
	MinDuration time.Duration
}

// Summarize creates a summary of the reports
func Summarize(reports []Report) Summary {
	return Summary{
		Total:       len(reports),
		Successful:  CountSuccessful(reports),
		Failed:      CountFailed(reports),
		AvgDuration: AverageDuration(reports),
		MaxDuration: MaxDuration(reports),
		MinDuration: MinDuration(reports),
	}
}

// String returns a human-readable string representation of the summary
func (s Summary) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total: %d, ", s.Total))
	sb.WriteString(fmt.Sprintf("Successful: %d, ", s.Successful))
	sb.WriteString(fmt.Sprintf("Failed: %d", s.Failed))

	if s.Total > 0 {
		sb.WriteString(fmt.Sprintf(", Avg: %s", s.AvgDuration.Round(time.Microsecond)))
		sb.WriteString(fmt.Sprintf(", Max: %s", s.MaxDuration.Round(time.Microsecond)))
		sb.WriteString(fmt.Sprintf(", Min: %s", s.MinDuration.Round(time.Microsecond)))
	}

	return sb.String()
}

// HasErrors returns true if any reports contain errors
func HasErrors(reports []Report) bool {
	for _, r := range reports {
		if r.Error != nil {
			return true
		}
	}
	return false
}

// AllSuccessful returns true if all reports are successful
func AllSuccessful(reports []Report) bool {
	return !HasErrors(reports)
}

// SuccessRate returns the success rate as a percentage (0.0 to 100.0)
func SuccessRate(reports []Report) float64 {
	if len(reports) == 0 {
		return 0.0
	}
	return float64(CountSuccessful(reports)) / float64(len(reports)) * 100.0
}
