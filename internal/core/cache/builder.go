package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"packdex/internal/core/extract"
	"packdex/internal/core/fingerprint"
	"packdex/internal/core/source"
	"packdex/internal/model"
)

// buildStats counts the non-fatal failures of one build.
type buildStats struct {
	DocumentErrors int
	PackErrors     int
}

// buildIndex produces a fresh index from scratch: walks every Actor
// pack, fingerprints it, and extracts one profile per recognized
// document. Per-document extraction failure records a placeholder
// profile; per-pack enumeration failure records the fingerprint but no
// profiles. Neither aborts the build. Only a failure to list packs or
// an unsupported dialect is fatal.
func buildIndex(ctx context.Context, provider source.Provider, dialect model.Dialect, logger *slog.Logger) (*model.PersistedIndex, buildStats, error) {
	var stats buildStats

	extractor, err := extract.ForDialect(dialect)
	if err != nil {
		return nil, stats, err
	}

	packs, err := provider.ListPacks(ctx, source.TypeActor)
	if err != nil {
		return nil, stats, err
	}

	fps := make(map[string]model.PackFingerprint, len(packs))
	var profiles []model.Profile

	for _, pack := range packs {
		fps[pack.ID] = fingerprint.New(pack)

		docs, err := provider.Documents(ctx, pack.ID)
		if err != nil {
			stats.PackErrors++
			logger.Warn("pack enumeration failed, skipping pack",
				"pack", pack.ID, "error", err)
			continue
		}

		for i, doc := range docs {
			if !source.RecognizedKind(doc.Kind()) {
				continue
			}
			profile, err := extractor.Extract(doc, pack)
			if err != nil {
				stats.DocumentErrors++
				logger.Warn("extraction failed, recording placeholder",
					"pack", pack.ID, "doc", doc.ID(), "error", err)
				profile = extract.Placeholder(doc, pack, i)
			}
			profiles = append(profiles, profile)
		}
	}

	idx := &model.PersistedIndex{
		Metadata: model.IndexMetadata{
			SchemaVersion: model.SchemaVersion,
			BuildID:       uuid.NewString(),
			BuiltAt:       time.Now().Unix(),
			Dialect:       dialect,
			Fingerprints:  fps,
			TotalProfiles: len(profiles),
			ErrorCount:    stats.DocumentErrors + stats.PackErrors,
		},
		Profiles: profiles,
	}
	return idx, stats, nil
}
