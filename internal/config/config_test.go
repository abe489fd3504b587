package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "packdex.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Dialect != "dnd5e" || cfg.Listen != "127.0.0.1:7875" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.Store.Backend != "file" {
		t.Fatalf("store default: %+v", cfg.Store)
	}
	if !cfg.Index.Enhanced || !cfg.Index.AutoRebuild || cfg.Index.DefaultLimit != 500 {
		t.Fatalf("index defaults: %+v", cfg.Index)
	}
	if cfg.DebounceMS != 200 {
		t.Fatalf("debounce default: %d", cfg.DebounceMS)
	}
}

func TestLoadKeepsDefaultsForAbsentKeys(t *testing.T) {
	path := writeConfig(t, `
world: /data/worlds/w1
dialect: pf2e
store:
  backend: bolt
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.World != "/data/worlds/w1" || cfg.Dialect != "pf2e" {
		t.Fatalf("loaded: %+v", cfg)
	}
	if cfg.Store.Backend != "bolt" {
		t.Fatalf("store: %+v", cfg.Store)
	}
	// Untouched keys stay at their defaults.
	if cfg.Listen != "127.0.0.1:7875" || cfg.Index.DefaultLimit != 500 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsMissingWorld(t *testing.T) {
	path := writeConfig(t, `dialect: dnd5e`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for missing world")
	}
}

func TestLoadRejectsUnknownDialect(t *testing.T) {
	path := writeConfig(t, `
world: /data/worlds/w1
dialect: gurps
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown dialect")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateLimit(t *testing.T) {
	cfg := Default()
	cfg.World = "/w"
	cfg.Index.DefaultLimit = -1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("negative limit must be rejected")
	}
}
