package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	def := Default()
	if cfg.Indexer != def.Indexer || cfg.TagFile != def.TagFile || cfg.HistorySize != def.HistorySize || cfg.Log != def.Log {
		t.Fatalf("expected defaults %+v, got %+v", def, cfg)
	}
	if len(cfg.Watch.Ignore) != 0 {
		t.Fatalf("expected no extra ignore rules, got %v", cfg.Watch.Ignore)
	}
	if cfg.Debounce() != 2*time.Second {
		t.Fatalf("expected 2s debounce, got %s", cfg.Debounce())
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	profile := t.TempDir()
	content := "indexer = \"uctags\"\nhistory_size = 10\n\n[log]\nlevel = \"debug\"\n\n[watch]\nignore = [\"build/\"]\n"
	if err := os.WriteFile(filepath.Join(profile, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	t.Setenv("TAGJUMP_DEBOUNCE_MS", "500")
	t.Setenv("TAGJUMP_LOG_FORMAT", "json")

	cfg, err := Load(profile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Indexer != "uctags" || cfg.HistorySize != 10 || cfg.Log.Level != "debug" {
		t.Fatalf("expected file values, got %+v", cfg)
	}
	if cfg.DebounceMS != 500 || cfg.Log.Format != "json" {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Watch.Ignore, []string{"build/"}) {
		t.Fatalf("expected watch ignore rules, got %v", cfg.Watch.Ignore)
	}
	if cfg.TagFile != "tags" {
		t.Fatalf("expected default tag file, got %q", cfg.TagFile)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	profile := t.TempDir()
	if err := os.WriteFile(filepath.Join(profile, FileName), []byte("debounce_ms = 0\n"), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	_, err := Load(profile)
	var cfgErr *Error
	if !errors.As(err, &cfgErr) || cfgErr.Field != "debounce_ms" {
		t.Fatalf("expected debounce_ms config error, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "nested")
	cfg := Default()
	cfg.Indexer = "/opt/ctags/bin/ctags"
	cfg.Watch.Ignore = []string{"*.gen.go"}
	if err := cfg.Save(profile); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(profile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Fatalf("expected %+v, got %+v", cfg, loaded)
	}
}
