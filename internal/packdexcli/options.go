package packdexcli

import (
	"fmt"
	"log/slog"
	"os"

	"packdex/internal/config"
	"packdex/internal/packdexd"
)

// Options collects the persistent flags. A config file, when given, is
// loaded first; explicit flags override it.
type Options struct {
	ConfigPath string
	World      string
	Dialect    string
	Store      string
	StorePath  string
	JSON       bool
	Verbose    bool
}

func (o *Options) Config() (*config.Config, error) {
	var cfg *config.Config
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if o.World != "" {
		cfg.World = o.World
	}
	if o.Dialect != "" {
		cfg.Dialect = o.Dialect
	}
	if o.Store != "" {
		cfg.Store.Backend = o.Store
	}
	if o.StorePath != "" {
		cfg.Store.Path = o.StorePath
	}

	if cfg.World == "" {
		return nil, fmt.Errorf("world is required (--world or config file)")
	}
	return cfg, nil
}

func (o *Options) Logger() *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Handlers builds the in-process world wiring the commands run against.
func (o *Options) Handlers() (*packdexd.Handlers, error) {
	cfg, err := o.Config()
	if err != nil {
		return nil, err
	}
	return packdexd.NewHandlers(cfg, o.Logger())
}
