package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"packdex/internal/model"
)

type StoreConfig struct {
	// Backend is one of file, sqlite, bolt.
	Backend string `yaml:"backend"`
	// Path is the backend location; empty means a .packdex dir next to
	// the world.
	Path string `yaml:"path"`
}

type IndexConfig struct {
	// Enhanced enables the structured index path; off, every query uses
	// fallback search.
	Enhanced bool `yaml:"enhanced"`
	// AutoRebuild invalidates the persisted index on change events.
	AutoRebuild bool `yaml:"auto_rebuild"`
	// DefaultLimit bounds criteria queries that set no limit.
	DefaultLimit int `yaml:"default_limit"`
}

type Config struct {
	// World is the world directory (manifest + packs).
	World   string      `yaml:"world"`
	Dialect string      `yaml:"dialect"`
	Listen  string      `yaml:"listen"`
	Store   StoreConfig `yaml:"store"`
	Index   IndexConfig `yaml:"index"`
	// DebounceMS is the watcher's event coalescing window.
	DebounceMS int `yaml:"debounce_ms"`
}

func Default() *Config {
	return &Config{
		Dialect: string(model.DialectDnd5e),
		Listen:  "127.0.0.1:7875",
		Store:   StoreConfig{Backend: "file"},
		Index: IndexConfig{
			Enhanced:     true,
			AutoRebuild:  true,
			DefaultLimit: 500,
		},
		DebounceMS: 200,
	}
}

// Load reads a YAML config file over the defaults, so absent keys keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.World) == "" {
		return fmt.Errorf("world is required")
	}
	switch model.Dialect(c.Dialect) {
	case model.DialectDnd5e, model.DialectPf2e:
	default:
		return fmt.Errorf("unknown dialect: %q", c.Dialect)
	}
	if c.Index.DefaultLimit < 0 {
		return fmt.Errorf("default_limit must be >= 0")
	}
	return nil
}
