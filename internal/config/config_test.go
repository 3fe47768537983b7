package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"DATA_DIR", "DB_PATH", "LEGACY_DIR", "LOG_LEVEL", "RETENTION_DAYS", "TIMEZONE"} {
		t.Setenv(EnvPrefix+"_"+key, "")
		os.Unsetenv(EnvPrefix + "_" + key)
	}
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != filepath.Join(home, ".pomo") {
		t.Fatalf("unexpected data dir %q", cfg.DataDir)
	}
	if cfg.DBPath != filepath.Join(home, ".pomo", "pomo.db") {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}
	if cfg.LegacyDir != filepath.Join(home, ".pomo", "legacy") {
		t.Fatalf("unexpected legacy dir %q", cfg.LegacyDir)
	}
	if cfg.LogLevel != "warn" || cfg.RetentionDays != 365 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Fatalf("expected local zone, got %v, %v", loc, err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Setenv("POMO_DATA_DIR", dir)
	t.Setenv("POMO_LOG_LEVEL", "DEBUG")
	t.Setenv("POMO_RETENTION_DAYS", "30")
	t.Setenv("POMO_TIMEZONE", "UTC")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "pomo.db") {
		t.Fatalf("db path should follow data dir, got %q", cfg.DBPath)
	}
	if cfg.LogLevel != "debug" || cfg.RetentionDays != 30 {
		t.Fatalf("env not applied: %+v", cfg)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "UTC" {
		t.Fatalf("expected UTC, got %v, %v", loc, err)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(t.TempDir(), "pomo.toml")
	content := "db_path = \"~/work/pomo.db\"\nlog_level = \"info\"\nretention_days = 90\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("POMO_RETENTION_DAYS", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != filepath.Join(home, "work", "pomo.db") {
		t.Fatalf("expected expanded db path, got %q", cfg.DBPath)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected log level from file, got %q", cfg.LogLevel)
	}
	if cfg.RetentionDays != 7 {
		t.Fatalf("env should win over file, got %d", cfg.RetentionDays)
	}
}

func TestLoad_ConfigInDataDir(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Setenv("POMO_DATA_DIR", dir)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log_level: error\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("expected config.yaml to be picked up, got %q", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"POMO_LOG_LEVEL":      "loud",
		"POMO_RETENTION_DAYS": "-1",
		"POMO_TIMEZONE":       "Mars/Olympus",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			t.Setenv(key, value)
			if _, err := Load(""); err == nil {
				t.Fatalf("expected %s=%s to be rejected", key, value)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}
