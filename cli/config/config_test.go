package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "warden.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
preset: strict
engine:
  execution_timeout: 250ms
  stop_batch_on_first_failure: true
ledger:
  dataset: governance
  backend: s3
  path: audit-bucket/prod
  region: eu-west-1
adapter:
  type: redis
  url: redis://localhost:6379
  channel: governance:events
  timeout: 2s
  retries: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if !opts.AlwaysValidate {
		t.Error("strict preset should set AlwaysValidate")
	}
	if opts.ExecutionTimeout != 250*time.Millisecond {
		t.Errorf("ExecutionTimeout = %v", opts.ExecutionTimeout)
	}
	if !opts.StopBatchOnFirstFailure {
		t.Error("StopBatchOnFirstFailure not set")
	}

	if cfg.Ledger.Dataset != "governance" || cfg.Ledger.Backend != "s3" {
		t.Errorf("ledger = %+v", cfg.Ledger)
	}
	if cfg.Adapter.Type != "redis" || cfg.Adapter.Channel != "governance:events" {
		t.Errorf("adapter = %+v", cfg.Adapter)
	}
	if cfg.Adapter.Timeout.Duration != 2*time.Second {
		t.Errorf("adapter timeout = %v", cfg.Adapter.Timeout.Duration)
	}
	if cfg.Adapter.Retries == nil || *cfg.Adapter.Retries != 5 {
		t.Errorf("adapter retries = %v", cfg.Adapter.Retries)
	}
}

func TestLoad_EmptyFileDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.AlwaysValidate || opts.ExecutionTimeout != 0 || opts.StopBatchOnFirstFailure {
		t.Errorf("defaults = %+v", opts)
	}
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	_, err := Load(writeConfig(t, "polcy: oops\n"))
	if err == nil {
		t.Error("unknown key accepted")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	_, err := Load(writeConfig(t, "engine:\n  execution_timeout: soon\n"))
	if err == nil {
		t.Error("invalid duration accepted")
	}
}

func TestEngineOptions_PresetOverride(t *testing.T) {
	cfg, err := Load(writeConfig(t, "preset: strict\nengine:\n  always_validate: false\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.AlwaysValidate {
		t.Error("explicit engine key should override the preset")
	}
}

func TestEngineOptions_UnknownPreset(t *testing.T) {
	cfg := &Config{Preset: "relaxed"}
	if _, err := cfg.EngineOptions(); err == nil {
		t.Error("unknown preset accepted")
	}
}

func TestEngineOptions_PerformancePreset(t *testing.T) {
	cfg := &Config{Preset: "performance"}
	opts, err := cfg.EngineOptions()
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.AlwaysValidate || opts.ExecutionTimeout != 0 {
		t.Errorf("performance preset = %+v", opts)
	}
}
