package config

import "time"

// ForkJoinConfig represents the forkjoin configuration file structure
type ForkJoinConfig struct {
	// Jobs is a map of job names to reusable workload presets
	Jobs map[string]JobConfig `yaml:"jobs,omitempty" json:"jobs,omitempty"`

	// Defaults contains default settings for runs
	Defaults DefaultsConfig `yaml:"defaults,omitempty" json:"defaults,omitempty"`
}

// JobConfig is a named workload preset
// Exactly one of Range, Values or File selects the elements
type JobConfig struct {
	// Operation is the reduction to run (sum, fsum, sumsq, and, or, min, max)
	Operation string `yaml:"operation" json:"operation"`

	// Range is an inclusive integer range in the form lo:hi
	Range string `yaml:"range,omitempty" json:"range,omitempty"`

	// Values are literal element values
	Values []string `yaml:"values,omitempty" json:"values,omitempty"`

	// File is a YAML or JSON file holding the elements
	File string `yaml:"file,omitempty" json:"file,omitempty"`

	// Parallel overrides the default worker count for this job
	Parallel int `yaml:"parallel,omitempty" json:"parallel,omitempty"`

	// ElementDelay is slept before each element
	ElementDelay time.Duration `yaml:"elementDelay,omitempty" json:"elementDelay,omitempty"`

	// Description is free text shown by job list
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// DefaultsConfig contains default configuration values
type DefaultsConfig struct {
	// Parallel is the number of workers per run
	Parallel int `yaml:"parallel,omitempty" json:"parallel,omitempty"`

	// OutputFormat is the default output format (table, json, yaml)
	OutputFormat string `yaml:"outputFormat,omitempty" json:"outputFormat,omitempty"`

	// NoColor disables colored output
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty"`
}
