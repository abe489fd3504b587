package cache

import (
	"packdex/internal/core/fingerprint"
	"packdex/internal/core/source"
	"packdex/internal/model"
)

// Valid reports whether a loaded index may be served as-is. All of the
// following must hold, or the whole index is invalid (no partial reuse):
// schema version and dialect match, every live pack has a fingerprint
// matching by document count and checksum, and no fingerprint refers to
// a pack that no longer exists.
func Valid(idx *model.PersistedIndex, livePacks []source.Pack, schemaVersion int, dialect model.Dialect) bool {
	if idx == nil {
		return false
	}
	if idx.Metadata.SchemaVersion != schemaVersion {
		return false
	}
	if idx.Metadata.Dialect != dialect {
		return false
	}

	live := make(map[string]bool, len(livePacks))
	for _, pack := range livePacks {
		live[pack.ID] = true
		fp, ok := idx.Metadata.Fingerprints[pack.ID]
		if !ok {
			return false
		}
		if fp.DocumentCount != pack.DocumentCount {
			return false
		}
		if fp.Checksum != fingerprint.Checksum(pack.ID, pack.Label, pack.DocumentCount) {
			return false
		}
	}

	for id := range idx.Metadata.Fingerprints {
		if !live[id] {
			return false
		}
	}
	return true
}
