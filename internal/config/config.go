// Package config provides configuration types and defaults for splice.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/splice/internal/log"
)

// Config holds all configuration options for splice.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Undo     UndoConfig     `mapstructure:"undo"`
	Boundary BoundaryConfig `mapstructure:"boundary"`
	Tracing  TracingConfig  `mapstructure:"tracing"`

	// Flags toggles optional behavior by name. See package flags.
	Flags map[string]bool `mapstructure:"flags"`
}

// LogConfig holds logging options.
type LogConfig struct {
	// Debug enables file logging even without --debug.
	Debug bool `mapstructure:"debug"`

	// Path is the log file. Default: debug.log in the working directory.
	Path string `mapstructure:"path"`

	// Level is the minimum level written: "debug", "info", "warn" or "error".
	Level string `mapstructure:"level"`
}

// UndoConfig holds undo stack options.
type UndoConfig struct {
	// MaxLevels caps the number of undo groups kept. 0 means unlimited.
	MaxLevels int `mapstructure:"max_levels"`
}

// BoundaryConfig holds word/line boundary search options.
type BoundaryConfig struct {
	// CacheTTL is how long segmented buffer contents stay cached.
	// 0 disables the cache.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/splice/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`

	// ServiceName is reported as the OpenTelemetry service name.
	// Default: "splice"
	ServiceName string `mapstructure:"service_name"`
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/splice/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "splice", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Log: LogConfig{
			Debug: false,
			Path:  "debug.log",
			Level: "debug",
		},
		Undo: UndoConfig{
			MaxLevels: 100,
		},
		Boundary: BoundaryConfig{
			CacheTTL: time.Minute,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from home dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
			ServiceName:  "splice",
		},
		Flags: map[string]bool{
			"step-spans":        false,
			"restore-selection": false,
		},
	}
}

// Validate checks every section of the configuration.
func Validate(cfg Config) error {
	if err := ValidateLog(cfg.Log); err != nil {
		return err
	}
	if err := ValidateUndo(cfg.Undo); err != nil {
		return err
	}
	if err := ValidateBoundary(cfg.Boundary); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateLog checks logging configuration for errors.
func ValidateLog(l LogConfig) error {
	switch l.Level {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log.level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", l.Level)
	}
}

// ValidateUndo checks undo configuration for errors.
func ValidateUndo(u UndoConfig) error {
	if u.MaxLevels < 0 {
		return fmt.Errorf("undo.max_levels must not be negative, got %d", u.MaxLevels)
	}
	return nil
}

// ValidateBoundary checks boundary configuration for errors.
func ValidateBoundary(b BoundaryConfig) error {
	if b.CacheTTL < 0 {
		return fmt.Errorf("boundary.cache_ttl must not be negative, got %s", b.CacheTTL)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	// Validate SampleRate is in range [0.0, 1.0]
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate endpoint requirements when tracing is enabled. An empty
	// file_path falls back to DefaultTracesFilePath.
	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Splice Configuration

# Logging
log:
  debug: false        # Write debug.log without passing --debug
  path: debug.log     # Log file path
  level: debug        # Minimum level: debug, info, warn, error

# Undo stack
undo:
  max_levels: 100     # Undo groups kept (0 = unlimited)

# Word and line boundary search
boundary:
  cache_ttl: 1m       # How long segmented text stays cached (0 disables)

# Distributed tracing (OpenTelemetry)
tracing:
  enabled: false      # Enable/disable tracing
  exporter: file      # none, file, stdout, otlp
  # file_path: ~/.config/splice/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0    # 0.0 to 1.0
  service_name: splice

# Optional behavior
flags:
  step-spans: false         # Trace every modification step
  restore-selection: false  # Undo restores the selection of non-atomic edits

# Example: Send traces to Jaeger via OTLP
# tracing:
#   enabled: true
#   exporter: otlp
#   otlp_endpoint: jaeger.internal:4317
#   sample_rate: 0.1  # Sample 10% of traces
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
