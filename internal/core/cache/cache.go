package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"packdex/internal/core/source"
	"packdex/internal/index/store"
	"packdex/internal/model"
)

// ErrBuildInProgress is returned to a non-forced rebuild request while
// another build is running. Forced requests queue behind the in-flight
// build instead.
var ErrBuildInProgress = errors.New("index build already in progress")

// Cache owns the derived creature index for one world: the in-memory
// copy, the persisted artifact, and the build latch. It is the only
// writer of the artifact.
type Cache struct {
	provider source.Provider
	store    store.Store
	world    string
	dialect  model.Dialect
	logger   *slog.Logger

	// buildMu serializes builds. TryLock is the fail-fast latch for
	// non-forced requests; forced requests Lock and wait their turn.
	buildMu  sync.Mutex
	building atomic.Bool

	mu     sync.Mutex
	loaded *model.PersistedIndex
}

func New(provider source.Provider, st store.Store, world string, dialect model.Dialect, logger *slog.Logger) (*Cache, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	if world == "" {
		return nil, fmt.Errorf("world is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		provider: provider,
		store:    st,
		world:    world,
		dialect:  dialect,
		logger:   logger,
	}, nil
}

func (c *Cache) World() string { return c.world }

func (c *Cache) Dialect() model.Dialect { return c.dialect }

// Building reports whether a build is in flight right now.
func (c *Cache) Building() bool { return c.building.Load() }

// Loaded returns the current in-memory index, which may be nil.
func (c *Cache) Loaded() *model.PersistedIndex {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// GetIndex is the read-through entry point: serve the loaded index if it
// is still valid, otherwise load the persisted artifact, and rebuild if
// that too is absent or stale. A rebuild whose persistence write fails
// still serves the freshly built data; the write failure is logged, not
// surfaced, because the reader only needs the profiles.
func (c *Cache) GetIndex(ctx context.Context) ([]model.Profile, error) {
	idx := c.Loaded()
	if idx == nil {
		if idx = loadIndex(c.store, c.world); idx != nil {
			c.install(idx)
		}
	}

	packs, err := c.provider.ListPacks(ctx, source.TypeActor)
	if err != nil {
		return nil, fmt.Errorf("cannot list packs: %w", err)
	}
	if Valid(idx, packs, model.SchemaVersion, c.dialect) {
		return idx.Profiles, nil
	}

	profiles, err := c.Rebuild(ctx, false)
	if err != nil && profiles != nil {
		c.logger.Warn("index rebuilt but not persisted", "world", c.world, "error", err)
		return profiles, nil
	}
	return profiles, err
}

// Rebuild builds the index from scratch and replaces the persisted
// artifact wholesale. A non-forced call fails fast with
// ErrBuildInProgress while another build runs; a forced call waits for
// it and then rebuilds. On success the new index is installed in memory
// and written to the store; a write failure is returned together with
// the in-memory profile list, and the previously persisted artifact is
// left untouched. A build failure leaves both memory and store as they
// were.
func (c *Cache) Rebuild(ctx context.Context, force bool) ([]model.Profile, error) {
	if force {
		c.buildMu.Lock()
	} else if !c.buildMu.TryLock() {
		return nil, ErrBuildInProgress
	}
	defer c.buildMu.Unlock()

	c.building.Store(true)
	defer c.building.Store(false)

	c.logger.Info("building creature index", "world", c.world, "dialect", c.dialect, "forced", force)

	idx, stats, err := buildIndex(ctx, c.provider, c.dialect, c.logger)
	if err != nil {
		return nil, err
	}

	c.install(idx)
	c.logger.Info("creature index built",
		"world", c.world,
		"build_id", idx.Metadata.BuildID,
		"profiles", len(idx.Profiles),
		"doc_errors", stats.DocumentErrors,
		"pack_errors", stats.PackErrors)

	if err := saveIndex(c.store, c.world, idx); err != nil {
		return idx.Profiles, fmt.Errorf("index built but not persisted: %w", err)
	}
	return idx.Profiles, nil
}

// Invalidate drops the in-memory index and deletes the persisted
// artifact so the next query triggers a full rebuild. The delete is
// best-effort: a failing store is logged and ignored.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.loaded = nil
	c.mu.Unlock()

	if err := c.store.Delete(c.world, ArtifactKey); err != nil {
		c.logger.Warn("could not delete index artifact", "world", c.world, "error", err)
	}
}

func (c *Cache) install(idx *model.PersistedIndex) {
	c.mu.Lock()
	c.loaded = idx
	c.mu.Unlock()
}
