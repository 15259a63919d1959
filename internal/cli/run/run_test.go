package run

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aryankumar/forkjoin/internal/executor"
	"github.com/aryankumar/forkjoin/internal/lifecycle"
	"github.com/aryankumar/forkjoin/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const testConfig = `
jobs:
  gauss:
    operation: sum
    range: "1:100"
    parallel: 3
  flags:
    operation: or
    values: ["false", "false", "true"]
defaults:
  outputFormat: json
`

// setupConfig points the commands at a temporary config file
func setupConfig(t *testing.T, content string) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "forkjoin.yaml")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
	}
	viper.Set("config", path)
}

func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func decodeRecords(t *testing.T, out string) []map[string]interface{} {
	t.Helper()
	var records []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("failed to parse output as JSON: %v\n%s", err, out)
	}
	return records
}

func TestRunCommand(t *testing.T) {
	elementsFile := filepath.Join(t.TempDir(), "elements.yaml")
	if err := os.WriteFile(elementsFile, []byte("elements: [1.5, 2.5, 4]\n"), 0644); err != nil {
		t.Fatalf("failed to write elements file: %v", err)
	}
	emptyFile := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(emptyFile, []byte("[]"), 0644); err != nil {
		t.Fatalf("failed to write elements file: %v", err)
	}

	tests := []struct {
		name        string
		args        []string
		parallel    int
		wantValue   interface{}
		wantThreads float64
		wantStatus  string
	}{
		{
			name:        "range sum",
			args:        []string{"--op", "sum", "--range", "1:100"},
			parallel:    4,
			wantValue:   float64(5050),
			wantThreads: 4,
			wantStatus:  "success",
		},
		{
			name:        "values and",
			args:        []string{"--op", "and", "--values", "true,true,false"},
			parallel:    2,
			wantValue:   false,
			wantThreads: 2,
			wantStatus:  "success",
		},
		{
			name:        "file fsum",
			args:        []string{"--op", "fsum", "--file", elementsFile},
			parallel:    2,
			wantValue:   float64(8),
			wantThreads: 2,
			wantStatus:  "success",
		},
		{
			name:        "empty file has no value",
			args:        []string{"--op", "max", "--file", emptyFile},
			parallel:    4,
			wantValue:   nil,
			wantThreads: 4,
			wantStatus:  "empty",
		},
		{
			name:        "job preset uses its parallelism",
			args:        []string{"--job", "gauss"},
			wantValue:   float64(5050),
			wantThreads: 3,
			wantStatus:  "success",
		},
		{
			name:        "flags override preset source",
			args:        []string{"--job", "gauss", "--range", "1:10"},
			wantValue:   float64(55),
			wantThreads: 3,
			wantStatus:  "success",
		},
		{
			name:        "flags override preset operation",
			args:        []string{"--job", "flags", "--op", "and"},
			parallel:    1,
			wantValue:   false,
			wantThreads: 1,
			wantStatus:  "success",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupConfig(t, testConfig)
			viper.Set("parallel", tt.parallel)

			out, err := execute(NewRunCmd(lifecycle.New()), tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			records := decodeRecords(t, out)
			if len(records) != 1 {
				t.Fatalf("got %d records, want 1", len(records))
			}
			rec := records[0]

			if rec["value"] != tt.wantValue {
				t.Errorf("got value %v, want %v", rec["value"], tt.wantValue)
			}
			if rec["threads"] != tt.wantThreads {
				t.Errorf("got threads %v, want %v", rec["threads"], tt.wantThreads)
			}
			if rec["status"] != tt.wantStatus {
				t.Errorf("got status %v, want %v", rec["status"], tt.wantStatus)
			}
			if rec["runId"] == "" {
				t.Error("expected a run ID")
			}
		})
	}
}

func TestRunCommand_Errors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(error) bool
	}{
		{
			name:  "unknown job",
			args:  []string{"--job", "missing"},
			check: func(err error) bool { return errors.Is(err, util.ErrJobNotFound) },
		},
		{
			name:  "unknown operation",
			args:  []string{"--op", "median", "--range", "1:3"},
			check: func(err error) bool { return errors.Is(err, util.ErrUnknownOperation) },
		},
		{
			name: "missing operation",
			args: []string{"--range", "1:3"},
			check: func(err error) bool {
				var v *util.ValidationError
				return errors.As(err, &v)
			},
		},
		{
			name: "missing source",
			args: []string{"--op", "sum"},
			check: func(err error) bool {
				var v *util.ValidationError
				return errors.As(err, &v)
			},
		},
		{
			name: "two sources",
			args: []string{"--op", "sum", "--range", "1:3", "--values", "1,2"},
			check: func(err error) bool {
				var v *util.ValidationError
				return errors.As(err, &v)
			},
		},
		{
			name:  "invalid elements",
			args:  []string{"--op", "sum", "--values", "1,x"},
			check: func(err error) bool { return errors.Is(err, util.ErrInvalidInput) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupConfig(t, testConfig)

			out, err := execute(NewRunCmd(lifecycle.New()), tt.args...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
			if out != "" {
				t.Errorf("expected no report output, got:\n%s", out)
			}
		})
	}
}

func TestRunCommand_ShutdownSignal(t *testing.T) {
	setupConfig(t, "")
	viper.Set("output", "json")

	sig := lifecycle.New()
	sig.MarkDead()

	out, err := execute(NewRunCmd(sig), "--op", "sum", "--range", "1:10")
	if !util.IsShutdown(err) {
		t.Fatalf("expected shutdown error, got %v", err)
	}

	records := decodeRecords(t, out)
	if len(records) != 1 || records[0]["status"] != "failed" {
		t.Errorf("expected one failed record, got %v", records)
	}
}

func TestBenchCommand(t *testing.T) {
	setupConfig(t, testConfig)

	out, err := execute(NewBenchCmd(lifecycle.New()), "--job", "gauss", "--threads", "1,2,2,4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records := decodeRecords(t, out)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (duplicates dropped)", len(records))
	}

	for i, want := range []float64{1, 2, 4} {
		if records[i]["threads"] != want {
			t.Errorf("record %d: got threads %v, want %v", i, records[i]["threads"], want)
		}
		if records[i]["value"] != float64(5050) {
			t.Errorf("record %d: got value %v, want 5050", i, records[i]["value"])
		}
		if _, ok := records[i]["speedup"]; !ok {
			t.Errorf("record %d: missing speedup", i)
		}
	}
}

func TestBenchCommand_StopsOnShutdown(t *testing.T) {
	setupConfig(t, testConfig)

	sig := lifecycle.New()
	sig.MarkDead()

	out, err := execute(NewBenchCmd(sig), "--job", "gauss")
	if !util.IsShutdown(err) {
		t.Fatalf("expected shutdown error, got %v", err)
	}

	if records := decodeRecords(t, out); len(records) != 1 {
		t.Errorf("expected the sweep to stop after one run, got %d records", len(records))
	}
}

func TestFailedThreads(t *testing.T) {
	reports := []executor.Report{
		{Threads: 1},
		{Threads: 2, Error: util.ErrShutdown},
		{Threads: 4},
		{Threads: 8, Error: errors.New("boom")},
	}

	got := failedThreads(reports)
	if len(got) != 2 || got[0] != 2 || got[1] != 8 {
		t.Errorf("failedThreads() = %v, want [2 8]", got)
	}

	if got := failedThreads(reports[:1]); len(got) != 0 {
		t.Errorf("failedThreads() = %v, want none", got)
	}
}

func TestNormalizeThreads(t *testing.T) {
	tests := []struct {
		name    string
		input   []int
		want    []int
		wantErr bool
	}{
		{name: "ordered", input: []int{1, 2, 4}, want: []int{1, 2, 4}},
		{name: "duplicates", input: []int{4, 1, 4, 2, 1}, want: []int{4, 1, 2}},
		{name: "empty", input: nil, wantErr: true},
		{name: "zero", input: []int{1, 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeThreads(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("normalizeThreads() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}
