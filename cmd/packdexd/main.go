package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"syscall"
	"time"

	"packdex/internal/config"
	"packdex/internal/core/watch"
	"packdex/internal/packdexd"
)

func main() {
	configPath := flag.String("config", "packdex.yaml", "config file (YAML)")
	listen := flag.String("listen", "", "listen address (tcp), overrides config")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	h, err := packdexd.NewHandlers(cfg, logger)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer h.Close()

	listener, err := watch.NewListener(h.Cache(), cfg.Index.AutoRebuild, logger)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	watcher, err := watch.NewWatcher(h.Provider(), listener, watch.Options{
		Debounce: time.Duration(cfg.DebounceMS) * time.Millisecond,
	}, logger)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer watcher.Close()
	go func() {
		if err := watcher.Run(context.Background()); err != nil {
			logger.Error("watcher stopped", "error", err)
		}
	}()

	s := packdexd.NewServer(h, packdexd.Options{Listen: cfg.Listen})
	logger.Info("packdexd listening", "addr", cfg.Listen, "world", cfg.World, "dialect", cfg.Dialect)
	if err := s.Run(); err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			_, _ = fmt.Fprintf(os.Stderr, "listen address in use: %s\nTry: -listen 127.0.0.1:7876\n", cfg.Listen)
		} else {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
