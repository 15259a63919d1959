package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/aryankumar/forkjoin/internal/util"
	"github.com/spf13/viper"
)

const (
	defaultConfigName = ".forkjoin"
	defaultConfigDir  = ".forkjoin"
)

// Manager handles forkjoin configuration
type Manager struct {
	configPath string
	config     *ForkJoinConfig
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &ForkJoinConfig{},
	}
}

// Load loads the forkjoin configuration from file
func (m *Manager) Load() (*ForkJoinConfig, error) {
	// Set up config file path
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		// Try multiple locations
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		// Check ~/.forkjoin/config.yaml
		m.viper.AddConfigPath(filepath.Join(home, defaultConfigDir))
		// Check ~/.forkjoin.yaml
		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	// Set environment variable support
	m.viper.SetEnvPrefix("FORKJOIN")
	m.viper.AutomaticEnv()

	// Initialize config to ensure defaults are set even for empty configs
	m.config = &ForkJoinConfig{}

	// Read config file
	if err := m.viper.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we'll use defaults
		// Check for both ConfigFileNotFoundError and os.IsNotExist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// File doesn't exist, apply defaults and return
		m.applyDefaults()
		return m.config, nil
	}

	// Unmarshal into config struct
	if err := m.viper.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply defaults
	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m.config, nil
}

// Save saves the current configuration to file
func (m *Manager) Save() error {
	if m.configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		configDir := filepath.Join(home, defaultConfigDir)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		m.configPath = filepath.Join(configDir, "config.yaml")
	}

	// Ensure directory exists
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write config to file
	if err := m.viper.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *ForkJoinConfig {
	return m.config
}

// GetJob returns the preset for a job name
func (m *Manager) GetJob(name string) (*JobConfig, bool) {
	if m.config.Jobs == nil {
		return nil, false
	}

	job, ok := m.config.Jobs[name]
	return &job, ok
}

// SetJob sets or updates a job preset
func (m *Manager) SetJob(name string, job JobConfig) {
	if m.config.Jobs == nil {
		m.config.Jobs = make(map[string]JobConfig)
	}

	m.config.Jobs[name] = job
	m.viper.Set("jobs", m.config.Jobs)
}

// RemoveJob removes a job preset
func (m *Manager) RemoveJob(name string) bool {
	if m.config.Jobs == nil {
		return false
	}

	if _, ok := m.config.Jobs[name]; !ok {
		return false
	}

	delete(m.config.Jobs, name)
	m.viper.Set("jobs", m.config.Jobs)
	return true
}

// JobNames returns the configured job names sorted
func (m *Manager) JobNames() []string {
	names := make([]string, 0, len(m.config.Jobs))
	for name := range m.config.Jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the loaded configuration and reports every problem found
func (m *Manager) Validate() error {
	var errs []error

	switch m.config.Defaults.OutputFormat {
	case "table", "json", "yaml":
	default:
		errs = append(errs, util.NewValidationError("defaults.outputFormat", m.config.Defaults.OutputFormat,
			"must be one of table, json, yaml"))
	}

	for _, name := range m.JobNames() {
		if err := ValidateJob(name, m.config.Jobs[name]); err != nil {
			errs = append(errs, err)
		}
	}

	if err := util.CombineErrors(errs...); err != nil {
		return fmt.Errorf("%w: %w", util.ErrInvalidConfig, err)
	}
	return nil
}

// ValidateJob checks that a job names an operation and exactly one element source
func ValidateJob(name string, job JobConfig) error {
	if job.Operation == "" {
		return util.NewValidationError("jobs."+name+".operation", nil, "operation is required")
	}

	sources := 0
	if job.Range != "" {
		sources++
	}
	if len(job.Values) > 0 {
		sources++
	}
	if job.File != "" {
		sources++
	}
	if sources != 1 {
		return util.NewValidationError("jobs."+name, nil, "exactly one of range, values or file is required")
	}

	if job.Parallel < 0 {
		return util.NewValidationError("jobs."+name+".parallel", job.Parallel, "must not be negative")
	}

	return nil
}

// applyDefaults sets default values for configuration
func (m *Manager) applyDefaults() {
	if m.config == nil {
		return
	}

	// Set default parallel workers
	if m.config.Defaults.Parallel <= 0 {
		m.config.Defaults.Parallel = runtime.NumCPU()
	}

	// Set default output format
	if m.config.Defaults.OutputFormat == "" {
		m.config.Defaults.OutputFormat = "table"
	}
}
