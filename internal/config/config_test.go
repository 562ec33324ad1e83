package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadReadsFileAndAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "apiBaseURL: https://api.example.com/api/v1\nlogLevel: debug\nprefsDir: /tmp/ezma\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("EZMA_LOG_LEVEL", "error")
	t.Setenv("EZMA_CACHE_TTL", "45s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://api.example.com/api/v1" {
		t.Fatalf("apiBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("env override lost, logLevel = %q", cfg.LogLevel)
	}
	if cfg.PrefsDir != "/tmp/ezma" {
		t.Fatalf("prefsDir = %q", cfg.PrefsDir)
	}
	if cfg.CacheTTL != "45s" {
		t.Fatalf("cacheTTL = %q", cfg.CacheTTL)
	}
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	t.Setenv("EZMA_API_BASE_URL", "https://api.example.com/api/v1")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://api.example.com/api/v1" {
		t.Fatalf("apiBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.PrefsDir == "" {
		t.Fatalf("prefsDir should default when unset")
	}
}

func TestLoadRequiresBaseURL(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error without apiBaseURL")
	}
}

func TestParseDurations(t *testing.T) {
	if d, err := ParseRequestTimeout(""); err != nil || d != 0 {
		t.Fatalf("empty timeout: %v %v", d, err)
	}
	if d, err := ParseRequestTimeout("15s"); err != nil || d != 15*time.Second {
		t.Fatalf("parse timeout: %v %v", d, err)
	}
	if _, err := ParseCacheTTL("bogus"); err == nil {
		t.Fatalf("expected error for bad duration")
	}
}
