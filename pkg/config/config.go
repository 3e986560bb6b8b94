// Package config holds the hadidi configuration file model.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sdejongh/hadidi/pkg/digest"
	"github.com/sdejongh/hadidi/pkg/models"
	"github.com/sdejongh/hadidi/pkg/output"
	"github.com/sdejongh/hadidi/pkg/ratelimit"
)

// Config represents the application configuration
type Config struct {
	Compare     CompareConfig     `yaml:"compare" toml:"compare"`
	Output      OutputConfig      `yaml:"output" toml:"output"`
	Performance PerformanceConfig `yaml:"performance" toml:"performance"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
}

// CompareConfig holds comparison settings
type CompareConfig struct {
	Algorithm string   `yaml:"algorithm" toml:"algorithm"`
	Filters   []string `yaml:"filters" toml:"filters"` // base name regexes
	Exclude   []string `yaml:"exclude" toml:"exclude"` // globs
	Same      bool     `yaml:"same" toml:"same"`       // list matched pairs
	Hash      bool     `yaml:"hash" toml:"hash"`       // print digests
	Verify    bool     `yaml:"verify" toml:"verify"`   // byte-compare matched pairs
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format       string `yaml:"format" toml:"format"`               // "human", "json" or "table"
	Progress     bool   `yaml:"progress" toml:"progress"`           // Show progress bars
	ReportFormat string `yaml:"report_format" toml:"report_format"` // "human" or "json"
	Width        int    `yaml:"width" toml:"width"`                 // table width, 0 = terminal
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	BufferSize int    `yaml:"buffer_size" toml:"buffer_size"`
	ReadLimit  string `yaml:"read_limit" toml:"read_limit"` // e.g. "50MB", empty = unlimited
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format string `yaml:"format" toml:"format"` // "json" or "text"
	Level  string `yaml:"level" toml:"level"`   // "debug", "info", "warn", "error"
	File   string `yaml:"file" toml:"file"`     // Log file path (empty = no file)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			Algorithm: digest.DefaultAlgorithm,
			Filters:   []string{},
			Exclude:   []string{},
		},
		Output: OutputConfig{
			Format:       "human",
			Progress:     false,
			ReportFormat: "human",
		},
		Performance: PerformanceConfig{
			BufferSize: 65536,
			ReadLimit:  "",
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
			File:   "",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := digest.Lookup(c.Compare.Algorithm); err != nil {
		return &models.ValidationError{
			Field:   "compare.algorithm",
			Message: fmt.Sprintf("unsupported algorithm %q", c.Compare.Algorithm),
		}
	}

	if !slices.Contains(output.Formats, c.Output.Format) {
		return &models.ValidationError{
			Field:   "output.format",
			Message: fmt.Sprintf("must be one of %s", strings.Join(output.Formats, ", ")),
		}
	}

	if !slices.Contains(output.ReportFormats, c.Output.ReportFormat) {
		return &models.ValidationError{
			Field:   "output.report_format",
			Message: fmt.Sprintf("must be one of %s", strings.Join(output.ReportFormats, ", ")),
		}
	}

	if c.Output.Width < 0 {
		return &models.ValidationError{
			Field:   "output.width",
			Message: "must not be negative",
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if _, err := ratelimit.ParseRate(c.Performance.ReadLimit); err != nil {
		return &models.ValidationError{
			Field:   "performance.read_limit",
			Message: err.Error(),
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
