package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Practice.Level != nil || cfg.AutoTest.ErrorRate != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `[practice]
level = "addition"
quiet = true
feedback-delay-ms = 1500

[autotest]
error-rate = 0.25

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Practice.Level == nil || *cfg.Practice.Level != "addition" {
		t.Fatalf("unexpected level: %v", cfg.Practice.Level)
	}
	if cfg.Practice.Quiet == nil || !*cfg.Practice.Quiet {
		t.Fatalf("expected quiet")
	}
	if cfg.Practice.FeedbackDelayMs == nil || *cfg.Practice.FeedbackDelayMs != 1500 {
		t.Fatalf("unexpected feedback delay: %v", cfg.Practice.FeedbackDelayMs)
	}
	if cfg.Practice.Narrator != nil {
		t.Fatalf("expected narrator unset")
	}
	if cfg.AutoTest.ErrorRate == nil || *cfg.AutoTest.ErrorRate != 0.25 {
		t.Fatalf("unexpected error rate: %v", cfg.AutoTest.ErrorRate)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nwords = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "practice.words") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "additiongame", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "additiongame", "additiongame.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}
