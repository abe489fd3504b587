package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"packdex/internal/core/cache"
	"packdex/internal/core/search"
	"packdex/internal/core/source"
	"packdex/internal/model"
)

// DefaultLimit bounds a criteria query when neither the criteria nor the
// configuration say otherwise.
const DefaultLimit = 500

type Config struct {
	// Enhanced enables the structured index path. Off, every query goes
	// straight to fallback search.
	Enhanced bool
	// DefaultLimit overrides DefaultLimit when positive.
	DefaultLimit int
}

// Engine is the read side of the index: criteria queries against the
// cached profiles, degrading to heuristic free-text search whenever the
// structured path is disabled or fails.
type Engine struct {
	cache    *cache.Cache
	provider source.Provider
	cfg      Config
	logger   *slog.Logger
}

func New(c *cache.Cache, provider source.Provider, cfg Config, logger *slog.Logger) (*Engine, error) {
	if c == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cache: c, provider: provider, cfg: cfg, logger: logger}, nil
}

// Query runs a criteria query. It never returns an error for well-formed
// criteria: any structured-path failure (build conflict, persistence,
// unsupported dialect) degrades to fallback search, flagged in the
// summary.
func (e *Engine) Query(ctx context.Context, crit model.Criteria) (model.QueryResult, error) {
	if !e.cfg.Enhanced {
		return e.fallback(ctx, crit), nil
	}

	profiles, err := e.cache.GetIndex(ctx)
	if err != nil {
		e.logger.Warn("structured query path failed, using fallback search", "error", err)
		return e.fallback(ctx, crit), nil
	}

	matched := make([]model.Profile, 0, 64)
	for _, p := range profiles {
		if matches(p, crit) {
			matched = append(matched, p)
		}
	}
	total := len(matched)

	sortProfiles(matched)
	if limit := e.limit(crit); len(matched) > limit {
		matched = matched[:limit]
	}

	return model.QueryResult{
		Profiles: matched,
		Summary:  summarize(matched, total, false),
	}, nil
}

// Search is the free-text entry point, validated and heuristic; see the
// search package for semantics.
func (e *Engine) Search(ctx context.Context, text string, collectionType string) ([]model.SearchHit, error) {
	return search.Search(ctx, e.provider, text, collectionType)
}

// fallback approximates the criteria on the search path. Criteria that
// cannot be approximated produce an empty, flagged result rather than an
// error.
func (e *Engine) fallback(ctx context.Context, crit model.Criteria) model.QueryResult {
	hits, err := search.Fallback(ctx, e.provider, crit)
	if err != nil {
		if !errors.Is(err, search.ErrNoSearchTerms) {
			e.logger.Warn("fallback search failed", "error", err)
		}
		return model.QueryResult{
			Profiles: []model.Profile{},
			Summary:  model.Summary{UsedFallback: true},
		}
	}

	profiles := make([]model.Profile, 0, len(hits))
	for _, h := range hits {
		profiles = append(profiles, model.Profile{
			ID:        h.ID,
			Name:      h.Name,
			PackID:    h.PackID,
			PackLabel: h.PackLabel,
			ImageRef:  h.ImageRef,
		})
	}
	return model.QueryResult{
		Profiles: profiles,
		Summary:  summarize(profiles, len(profiles), true),
	}
}

func (e *Engine) limit(crit model.Criteria) int {
	if crit.Limit > 0 {
		return crit.Limit
	}
	if e.cfg.DefaultLimit > 0 {
		return e.cfg.DefaultLimit
	}
	return DefaultLimit
}
