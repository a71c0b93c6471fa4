package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesSpecMandatedValues(t *testing.T) {
	cfg := Default()
	if !cfg.FollowPackageTypes {
		t.Error("FollowPackageTypes default = false, want true")
	}
	if !cfg.StrictMissing {
		t.Error("StrictMissing default = false, want true")
	}
	if cfg.TraceUnresolved {
		t.Error("TraceUnresolved default = true, want false")
	}
}

func TestLoadOverlaysOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("strict_missing: false\nlog_level: debug\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StrictMissing {
		t.Error("StrictMissing = true, want false (overlaid)")
	}
	if !cfg.FollowPackageTypes {
		t.Error("FollowPackageTypes = false, want true (default retained)")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestSlogLevelUnknownDefaultsToInfo(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "bogus"
	if cfg.SlogLevel().String() != "INFO" {
		t.Errorf("SlogLevel() = %v, want INFO", cfg.SlogLevel())
	}
}
