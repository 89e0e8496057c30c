package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("QUIZ_API_URL", "")
	t.Setenv("PORT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != DefaultAPIURL || cfg.Server.Port != "8080" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "api:\n  base_url: http://quiz.internal:3000\n  timeout: 3s\nredis:\n  addr: localhost:6379\n  ttl: 2m\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("QUIZ_API_URL", "")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://quiz.internal:3000" {
		t.Fatalf("expected base url from file, got %q", cfg.API.BaseURL)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected env port override, got %q", cfg.Server.Port)
	}
	if got := TTLDuration(cfg.API.Timeout, 0); got != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %v", got)
	}
	if got := TTLDuration(cfg.Redis.TTL, time.Minute); got != 2*time.Minute {
		t.Fatalf("expected 2m ttl, got %v", got)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for empty, got %v", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for garbage, got %v", got)
	}
}
