// Package config loads the killtree command's YAML configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/core-tools/hsu-killtree/pkg/errors"
	"github.com/core-tools/hsu-killtree/pkg/killtree"
	"github.com/core-tools/hsu-killtree/pkg/logging"

	"gopkg.in/yaml.v3"
)

// Mode selects the execution model of a kill-tree invocation.
type Mode string

const (
	ModeBlocking   Mode = "blocking"
	ModeConcurrent Mode = "concurrent"
)

// OutputFormat selects how results are printed.
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatPlain OutputFormat = "plain"
	OutputFormatJSON  OutputFormat = "json"
)

// Config represents the configuration file structure
type Config struct {
	IncludeTarget *bool         `yaml:"include_target,omitempty"` // Pointer to distinguish unset from false
	Signal        string        `yaml:"signal,omitempty"`
	Mode          Mode          `yaml:"mode,omitempty"`
	WaitTimeout   time.Duration `yaml:"wait_timeout,omitempty"`
	Log           LogConfig     `yaml:"log"`
	Output        OutputConfig  `yaml:"output"`
}

type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

type OutputConfig struct {
	Format OutputFormat `yaml:"format,omitempty"`
	Color  *bool        `yaml:"color,omitempty"` // unset: colour when stdout is a terminal
	Quiet  bool         `yaml:"quiet,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	config := &Config{}
	setConfigDefaults(config)
	return config
}

// LoadConfigFromFile loads configuration from a YAML file and applies defaults.
func LoadConfigFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.NewIOError("failed to read configuration file", err).WithContext("filename", filename)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.NewValidationError("failed to parse YAML configuration", err).WithContext("filename", filename)
	}

	setConfigDefaults(&config)
	return &config, nil
}

// ValidateConfig validates the entire configuration structure
func ValidateConfig(config *Config) error {
	if config == nil {
		return errors.NewValidationError("configuration cannot be nil", nil)
	}

	switch config.Mode {
	case ModeBlocking, ModeConcurrent:
	default:
		return errors.NewValidationError(fmt.Sprintf("unsupported mode: %s", config.Mode), nil).
			WithContext("supported_modes", "blocking, concurrent")
	}

	if config.WaitTimeout < 0 {
		return errors.NewValidationError("wait timeout cannot be negative", nil)
	}

	switch config.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.NewValidationError(fmt.Sprintf("unsupported log level: %s", config.Log.Level), nil)
	}

	switch config.Log.Format {
	case "console", "json":
	default:
		return errors.NewValidationError(fmt.Sprintf("unsupported log format: %s", config.Log.Format), nil)
	}

	switch config.Output.Format {
	case OutputFormatTable, OutputFormatPlain, OutputFormatJSON:
	default:
		return errors.NewValidationError(fmt.Sprintf("unsupported output format: %s", config.Output.Format), nil).
			WithContext("supported_formats", "table, plain, json")
	}

	return nil
}

// KillTreeConfig returns the per-invocation options for the killtree package.
func (c *Config) KillTreeConfig() killtree.Config {
	kc := killtree.DefaultConfig()
	if c.IncludeTarget != nil {
		kc.IncludeTarget = *c.IncludeTarget
	}
	kc.Signal = c.Signal
	return kc
}

// ZapConfig returns the logger backend settings. Logs go to stderr so that
// stdout carries only results.
func (c *Config) ZapConfig() logging.ZapConfig {
	zc := logging.DefaultZapConfig()
	zc.Level = c.Log.Level
	zc.Format = c.Log.Format
	return zc
}

// setConfigDefaults applies default values to configuration
func setConfigDefaults(config *Config) {
	if config.IncludeTarget == nil {
		includeTarget := true
		config.IncludeTarget = &includeTarget
	}
	if config.Mode == "" {
		config.Mode = ModeBlocking
	}
	if config.Log.Level == "" {
		config.Log.Level = "warn"
	}
	if config.Log.Format == "" {
		config.Log.Format = "console"
	}
	if config.Output.Format == "" {
		config.Output.Format = OutputFormatTable
	}
}
