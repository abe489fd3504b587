package watch

import (
	"fmt"
	"log/slog"

	"packdex/internal/core/cache"
	"packdex/internal/core/source"
)

// Listener reacts to host lifecycle events. With auto-rebuild enabled,
// any event that can affect the creature index invalidates the persisted
// artifact so the next query rebuilds; with it disabled the stale index
// keeps being served until an explicit rebuild. Invalidation is always
// whole-index; there is no incremental patch path.
type Listener struct {
	cache       *cache.Cache
	autoRebuild bool
	logger      *slog.Logger
}

func NewListener(c *cache.Cache, autoRebuild bool, logger *slog.Logger) (*Listener, error) {
	if c == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{cache: c, autoRebuild: autoRebuild, logger: logger}, nil
}

func (l *Listener) Handle(ev source.Event) {
	if !ev.TouchesIndex() {
		return
	}
	if !l.autoRebuild {
		l.logger.Debug("index-relevant event ignored, auto-rebuild disabled",
			"event", ev.Kind, "pack", ev.PackID)
		return
	}
	l.logger.Info("invalidating creature index", "event", ev.Kind, "pack", ev.PackID)
	l.cache.Invalidate()
}
