package cache

import (
	"testing"

	"packdex/internal/core/fingerprint"
	"packdex/internal/core/source"
	"packdex/internal/model"
)

func validIndexFor(packs []source.Pack) *model.PersistedIndex {
	fps := make(map[string]model.PackFingerprint, len(packs))
	for _, p := range packs {
		fps[p.ID] = fingerprint.New(p)
	}
	return &model.PersistedIndex{
		Metadata: model.IndexMetadata{
			SchemaVersion: model.SchemaVersion,
			Dialect:       model.DialectDnd5e,
			Fingerprints:  fps,
		},
	}
}

func TestValid(t *testing.T) {
	packs := []source.Pack{
		{ID: "a", Label: "A", LastModified: 10, DocumentCount: 3},
		{ID: "b", Label: "B", LastModified: 20, DocumentCount: 7},
	}

	cases := []struct {
		name string
		idx  func() *model.PersistedIndex
		live func() []source.Pack
		want bool
	}{
		{
			name: "intact",
			idx:  func() *model.PersistedIndex { return validIndexFor(packs) },
			live: func() []source.Pack { return packs },
			want: true,
		},
		{
			name: "nil index",
			idx:  func() *model.PersistedIndex { return nil },
			live: func() []source.Pack { return packs },
			want: false,
		},
		{
			name: "schema version mismatch",
			idx: func() *model.PersistedIndex {
				idx := validIndexFor(packs)
				idx.Metadata.SchemaVersion = model.SchemaVersion - 1
				return idx
			},
			live: func() []source.Pack { return packs },
			want: false,
		},
		{
			name: "dialect mismatch",
			idx: func() *model.PersistedIndex {
				idx := validIndexFor(packs)
				idx.Metadata.Dialect = model.DialectPf2e
				return idx
			},
			live: func() []source.Pack { return packs },
			want: false,
		},
		{
			name: "new pack without fingerprint",
			idx:  func() *model.PersistedIndex { return validIndexFor(packs[:1]) },
			live: func() []source.Pack { return packs },
			want: false,
		},
		{
			name: "orphan fingerprint",
			idx:  func() *model.PersistedIndex { return validIndexFor(packs) },
			live: func() []source.Pack { return packs[:1] },
			want: false,
		},
		{
			name: "document count drift",
			idx:  func() *model.PersistedIndex { return validIndexFor(packs) },
			live: func() []source.Pack {
				changed := []source.Pack{packs[0], packs[1]}
				changed[1].DocumentCount = 8
				return changed
			},
			want: false,
		},
		{
			name: "label change breaks checksum",
			idx:  func() *model.PersistedIndex { return validIndexFor(packs) },
			live: func() []source.Pack {
				changed := []source.Pack{packs[0], packs[1]}
				changed[0].Label = "A renamed"
				return changed
			},
			want: false,
		},
		{
			name: "mtime drift alone is tolerated",
			idx:  func() *model.PersistedIndex { return validIndexFor(packs) },
			live: func() []source.Pack {
				changed := []source.Pack{packs[0], packs[1]}
				changed[0].LastModified = 999
				return changed
			},
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Valid(tc.idx(), tc.live(), model.SchemaVersion, model.DialectDnd5e)
			if got != tc.want {
				t.Fatalf("Valid = %v, want %v", got, tc.want)
			}
		})
	}
}
