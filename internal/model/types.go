package model

// Dialect selects the game-system schema profiles are extracted under.
// An index never mixes dialects.
type Dialect string

const (
	DialectDnd5e Dialect = "dnd5e"
	DialectPf2e  Dialect = "pf2e"
)

// SchemaVersion is bumped whenever the Profile shape or the artifact
// encoding changes; persisted indexes built under another version are
// discarded and rebuilt.
const SchemaVersion = 2

// Profile is the normalized, indexed representation of one creature
// document. Common fields are always populated; CreatureType and
// HasLegendaryActions are dnd5e, Traits and Rarity are pf2e (pf2e derives
// CreatureType from traits). PowerMetric is the challenge rating (dnd5e)
// or the level (pf2e) and is the single ordering key.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PackID    string `json:"pack_id"`
	PackLabel string `json:"pack_label,omitempty"`

	PowerMetric float64 `json:"power"`
	Size        string  `json:"size,omitempty"`
	HitPoints   int     `json:"hp"`
	ArmorClass  int     `json:"ac"`
	HasSpells   bool    `json:"has_spells,omitempty"`
	Alignment   string  `json:"alignment,omitempty"`
	Description string  `json:"description,omitempty"`
	ImageRef    string  `json:"img,omitempty"`

	CreatureType        string `json:"creature_type,omitempty"`
	HasLegendaryActions bool   `json:"legendary,omitempty"`

	Traits []string `json:"traits,omitempty"`
	Rarity string   `json:"rarity,omitempty"`

	// ExtractionError marks a placeholder profile recorded when the
	// source document could not be extracted.
	ExtractionError bool `json:"extraction_error,omitempty"`
}

// PackFingerprint is a cheap structural signature of one pack: enough to
// detect resizing or re-import, not in-place edits that preserve count.
type PackFingerprint struct {
	PackID        string `json:"pack_id"`
	PackLabel     string `json:"pack_label,omitempty"`
	LastModified  int64  `json:"mtime"`
	DocumentCount int    `json:"count"`
	Checksum      string `json:"checksum"`
}

type IndexMetadata struct {
	SchemaVersion int                        `json:"schema_version"`
	BuildID       string                     `json:"build_id,omitempty"`
	BuiltAt       int64                      `json:"built_at"`
	Dialect       Dialect                    `json:"dialect"`
	Fingerprints  map[string]PackFingerprint `json:"-"`
	TotalProfiles int                        `json:"total_profiles"`
	ErrorCount    int                        `json:"error_count,omitempty"`
}

// PersistedIndex is the whole derived artifact. It is replaced wholesale
// on rebuild; there is no incremental mutation path.
type PersistedIndex struct {
	Metadata IndexMetadata
	Profiles []Profile
}

// Criteria is a conjunction of optional predicates. Nil / zero fields
// always pass. String equality is case-insensitive; Traits is full
// containment (the profile must carry every requested trait).
type Criteria struct {
	PowerExact *float64 `json:"power,omitempty"`
	PowerMin   *float64 `json:"power_min,omitempty"`
	PowerMax   *float64 `json:"power_max,omitempty"`

	CreatureType string `json:"creature_type,omitempty"`
	Size         string `json:"size,omitempty"`
	Rarity       string `json:"rarity,omitempty"`
	Alignment    string `json:"alignment,omitempty"`

	HasSpells    *bool `json:"has_spells,omitempty"`
	HasLegendary *bool `json:"legendary,omitempty"`

	Traits []string `json:"traits,omitempty"`

	Limit int `json:"limit,omitempty"`
}

// PackCount is one row of the per-pack result distribution.
type PackCount struct {
	PackID    string `json:"pack_id"`
	PackLabel string `json:"pack_label,omitempty"`
	Count     int    `json:"count"`
}

type Summary struct {
	Total        int         `json:"total"`
	PacksTouched int         `json:"packs_touched"`
	Packs        []PackCount `json:"packs,omitempty"`
	UsedFallback bool        `json:"used_fallback,omitempty"`
}

type QueryResult struct {
	Profiles []Profile `json:"profiles"`
	Summary  Summary   `json:"summary"`
}

// SearchHit is a profile-like fallback search result built from a pack's
// lightweight index entries; deep fields are unavailable on this path.
type SearchHit struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Kind      string  `json:"kind,omitempty"`
	PackID    string  `json:"pack_id"`
	PackLabel string  `json:"pack_label,omitempty"`
	ImageRef  string  `json:"img,omitempty"`
	Score     float64 `json:"score"`
	Exact     bool    `json:"exact,omitempty"`
}
