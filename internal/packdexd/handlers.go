package packdexd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"packdex/internal/config"
	"packdex/internal/core/cache"
	"packdex/internal/core/query"
	"packdex/internal/core/search"
	"packdex/internal/core/source"
	"packdex/internal/index/backend"
	"packdex/internal/index/store"
	"packdex/internal/model"
)

// Handlers wires one world's provider, store, cache and query engine
// behind the RPC surface.
type Handlers struct {
	cfg      *config.Config
	provider *source.FSProvider
	store    store.Store
	cache    *cache.Cache
	engine   *query.Engine
	logger   *slog.Logger
}

func NewHandlers(cfg *config.Config, logger *slog.Logger) (*Handlers, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	provider, err := source.NewFSProvider(cfg.World)
	if err != nil {
		return nil, err
	}

	storePath := cfg.Store.Path
	if storePath == "" {
		storePath = backend.DefaultPath(filepath.Dir(provider.Root()), cfg.Store.Backend)
	}
	st, err := backend.Open(cfg.Store.Backend, storePath)
	if err != nil {
		return nil, err
	}

	c, err := cache.New(provider, st, provider.WorldID(), model.Dialect(cfg.Dialect), logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	engine, err := query.New(c, provider, query.Config{
		Enhanced:     cfg.Index.Enhanced,
		DefaultLimit: cfg.Index.DefaultLimit,
	}, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &Handlers{
		cfg:      cfg,
		provider: provider,
		store:    st,
		cache:    c,
		engine:   engine,
		logger:   logger,
	}, nil
}

func (h *Handlers) Close() error {
	if h == nil || h.store == nil {
		return nil
	}
	return h.store.Close()
}

func (h *Handlers) Provider() *source.FSProvider { return h.provider }

func (h *Handlers) Cache() *cache.Cache { return h.cache }

func (h *Handlers) Query(ctx context.Context, crit model.Criteria) (model.QueryResult, error) {
	if h == nil {
		return model.QueryResult{}, fmt.Errorf("handlers is nil")
	}
	return h.engine.Query(ctx, crit)
}

func (h *Handlers) Search(ctx context.Context, p SearchParams) ([]model.SearchHit, error) {
	if h == nil {
		return nil, fmt.Errorf("handlers is nil")
	}
	return h.engine.Search(ctx, p.Text, p.CollectionType)
}

// Rebuild triggers an explicit rebuild. The RPC result carries counts,
// not the profile list; callers wanting data follow up with a query.
func (h *Handlers) Rebuild(ctx context.Context, p RebuildParams) (RebuildResult, error) {
	if h == nil {
		return RebuildResult{}, fmt.Errorf("handlers is nil")
	}
	profiles, err := h.cache.Rebuild(ctx, p.Force)
	if err != nil {
		if profiles != nil {
			// Built but not persisted: report what we have.
			h.logger.Warn("rebuild completed but not persisted", "error", err)
			return RebuildResult{Profiles: len(profiles), Persisted: false}, nil
		}
		return RebuildResult{}, err
	}
	return RebuildResult{Profiles: len(profiles), Persisted: true}, nil
}

func (h *Handlers) Status() StatusResult {
	res := StatusResult{
		World:    h.cache.World(),
		Dialect:  h.cache.Dialect(),
		Backend:  h.store.Backend(),
		Building: h.cache.Building(),
	}
	if idx := h.cache.Loaded(); idx != nil {
		res.Loaded = true
		res.Profiles = len(idx.Profiles)
		res.BuiltAt = idx.Metadata.BuiltAt
		res.BuildID = idx.Metadata.BuildID
	}
	return res
}

// errorCode maps application errors to RPC codes.
func errorCode(err error) int {
	switch {
	case err == nil:
		return 0
	case isOneOf(err, cache.ErrBuildInProgress):
		return CodeBuildInProgress
	case isOneOf(err, search.ErrQueryTooShort, search.ErrNoSearchTerms):
		return CodeInvalidQuery
	default:
		return -32000
	}
}
