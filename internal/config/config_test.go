package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing config file")
	}
	if cfg.Verify.Policy != "if-negative" {
		t.Errorf("default verify policy = %q, want %q", cfg.Verify.Policy, "if-negative")
	}
	if len(cfg.Sources.Priority) != 2 {
		t.Errorf("default priority length = %d, want 2", len(cfg.Sources.Priority))
	}
	if cfg.Breaker.InitialDelayMs != 100 {
		t.Errorf("default initial delay = %d, want 100", cfg.Breaker.InitialDelayMs)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[sources]
priority = ["Fantlab"]

[sources.fantlab]
enabled = true
base_url = "https://api.fantlab.ru/"

[verify]
policy = "ALWAYS"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Sources.Priority[0] != "fantlab" {
		t.Errorf("priority[0] = %q, want lowercased %q", cfg.Sources.Priority[0], "fantlab")
	}
	if strings.HasSuffix(cfg.Sources.FantLab.BaseURL, "/") {
		t.Errorf("base url %q should have trailing slash trimmed", cfg.Sources.FantLab.BaseURL)
	}
	if cfg.Verify.Policy != "always" {
		t.Errorf("policy = %q, want %q", cfg.Verify.Policy, "always")
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown policy", func(c *Config) { c.Verify.Policy = "sometimes" }},
		{"unknown source", func(c *Config) { c.Sources.Priority = []string{"libgen"} }},
		{"duplicate source", func(c *Config) { c.Sources.Priority = []string{"fantlab", "fantlab"} }},
		{"no enabled sources", func(c *Config) {
			c.Sources.FantLab.Enabled = false
			c.Sources.Knigopoisk.Enabled = false
		}},
		{"non-positive force id", func(c *Config) { c.Verify.ForceIDs = []int64{0} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				t.Fatalf("normalize() error = %v", err)
			}
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	written, err := WriteSample(path)
	if err != nil {
		t.Fatalf("WriteSample() error = %v", err)
	}
	if written != path {
		t.Errorf("written path = %q, want %q", written, path)
	}

	if _, err := WriteSample(path); err == nil {
		t.Error("second WriteSample() = nil, want error")
	}
}
