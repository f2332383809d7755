package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.Backend != "sqlite" {
		t.Fatalf("backend = %s, want sqlite", cfg.General.Backend)
	}
	if cfg.General.HorizonDays != 90 || cfg.General.WindowDays != 30 {
		t.Fatalf("cfg = %+v", cfg.General)
	}
	if cfg.Daemon.Addr == "" {
		t.Fatal("daemon addr not defaulted")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.Backend = "kv"
	cfg.General.HorizonDays = 30
	cfg.Appearance.Theme = "flexoki-light"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.General.Backend != "kv" || loaded.General.HorizonDays != 30 {
		t.Fatalf("loaded = %+v", loaded.General)
	}
	if loaded.Appearance.Theme != "flexoki-light" {
		t.Fatalf("theme = %s", loaded.Appearance.Theme)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LIFELINE_BACKEND", "kv")
	t.Setenv("LIFELINE_DAEMON_ADDR", "127.0.0.1:9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.Backend != "kv" {
		t.Fatalf("backend = %s, want env override kv", cfg.General.Backend)
	}
	if cfg.Daemon.Addr != "127.0.0.1:9999" {
		t.Fatalf("addr = %s", cfg.Daemon.Addr)
	}
}

func TestDataDirPrecedence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.DataDir = "/tmp/custom"
	if got := DataDir(cfg); got != "/tmp/custom" {
		t.Fatalf("DataDir = %s, want configured path", got)
	}

	cfg.General.DataDir = ""
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	if got := DataDir(cfg); got != filepath.Join("/tmp/xdg", "lifeline") {
		t.Fatalf("DataDir = %s", got)
	}

	os.Unsetenv("XDG_DATA_HOME")
	if got := DataDir(cfg); filepath.Base(got) != "lifeline" {
		t.Fatalf("DataDir = %s, want a lifeline dir", got)
	}
}
