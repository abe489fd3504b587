package source

import "context"

// Collection types a world can expose. Only Actor packs are indexed;
// Scene packs are additionally excluded from fallback search.
const (
	TypeActor = "Actor"
	TypeItem  = "Item"
	TypeScene = "Scene"
)

// Document kinds recognized by the index.
const (
	KindNPC       = "npc"
	KindCharacter = "character"
)

// RecognizedKind reports whether documents of this kind are indexed.
func RecognizedKind(kind string) bool {
	return kind == KindNPC || kind == KindCharacter
}

// Pack is a handle to one external, host-owned document collection. The
// index never mutates packs.
type Pack struct {
	ID             string
	Label          string
	CollectionType string
	DocumentCount  int
	// LastModified is unix seconds; zero when the host cannot report it.
	LastModified int64
}

// Document is one raw record as the host stores it. No schema is
// guaranteed; extraction defends against missing and mistyped fields.
type Document map[string]any

// ID returns the document identifier, trying the known locations.
func (d Document) ID() string {
	for _, key := range []string{"_id", "id"} {
		if v, ok := d[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Name returns the document display name, if present.
func (d Document) Name() string {
	if v, ok := d["name"].(string); ok {
		return v
	}
	return ""
}

// Kind returns the document entity kind ("npc", "character", ...).
func (d Document) Kind() string {
	if v, ok := d["type"].(string); ok {
		return v
	}
	return ""
}

// IndexEntry is the lightweight per-document record a pack exposes
// without loading document bodies. Fallback search operates on these.
type IndexEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind,omitempty"`
	ImageRef string `json:"img,omitempty"`
}

// Provider is the pack enumeration contract the host platform supplies.
type Provider interface {
	// ListPacks returns the packs of one collection type; empty type
	// means all packs.
	ListPacks(ctx context.Context, collectionType string) ([]Pack, error)
	// Documents returns the full document listing of a pack.
	Documents(ctx context.Context, packID string) ([]Document, error)
	// Entries returns the lightweight index records of a pack.
	Entries(ctx context.Context, packID string) ([]IndexEntry, error)
}
