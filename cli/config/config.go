package config

import (
	"fmt"
	"time"

	"github.com/wardenlabs/warden/engine"
)

// Config represents a warden.yaml configuration file.
// All values are optional. EngineOptions turns the preset and engine
// keys into engine options; the warden CLI commands do not read a
// config file, so the ledger and adapter blocks do not set CLI flags.
type Config struct {
	// Preset selects an options bundle: "strict" or "performance".
	// Explicit engine keys below override preset values.
	Preset  string        `yaml:"preset"`
	Engine  EngineConfig  `yaml:"engine"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Adapter AdapterConfig `yaml:"adapter"`
}

// EngineConfig holds engine option defaults from the config file.
type EngineConfig struct {
	AlwaysValidate          *bool    `yaml:"always_validate,omitempty"`
	ExecutionTimeout        Duration `yaml:"execution_timeout,omitempty"`
	StopBatchOnFirstFailure *bool    `yaml:"stop_batch_on_first_failure,omitempty"`
}

// LedgerConfig holds archival defaults from the config file.
type LedgerConfig struct {
	// Dataset is the ledger dataset name (default: "warden").
	Dataset string `yaml:"dataset"`
	// Backend selects "fs" or "s3".
	Backend string `yaml:"backend"`
	// Path is the backend location (fs: directory, s3: bucket/prefix).
	Path string `yaml:"path"`
	// Region is the AWS region for the s3 backend.
	Region string `yaml:"region"`
	// Endpoint is a custom S3 endpoint for S3-compatible providers.
	Endpoint string `yaml:"endpoint"`
	// S3PathStyle forces path-style addressing.
	S3PathStyle bool `yaml:"s3_path_style"`
}

// AdapterConfig holds adapter defaults from the config file.
type AdapterConfig struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10ms", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10ms" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// EngineOptions resolves the configured preset and engine overrides
// into engine options.
func (c *Config) EngineOptions() (engine.Options, error) {
	var opts engine.Options
	switch c.Preset {
	case "":
		opts = engine.DefaultOptions()
	case "strict":
		opts = engine.StrictOptions()
	case "performance":
		opts = engine.PerformanceOptions()
	default:
		return engine.Options{}, fmt.Errorf("unknown preset %q (must be strict or performance)", c.Preset)
	}

	if c.Engine.AlwaysValidate != nil {
		opts.AlwaysValidate = *c.Engine.AlwaysValidate
	}
	if c.Engine.ExecutionTimeout.Duration > 0 {
		opts.ExecutionTimeout = c.Engine.ExecutionTimeout.Duration
	}
	if c.Engine.StopBatchOnFirstFailure != nil {
		opts.StopBatchOnFirstFailure = *c.Engine.StopBatchOnFirstFailure
	}
	return opts, nil
}
