package fingerprint

import (
	"fmt"
	"hash/fnv"
	"time"

	"packdex/internal/core/source"
	"packdex/internal/model"
)

// New computes a pack's structural fingerprint from what the pack handle
// already reports; no extra I/O. A pack that cannot report a modification
// time is stamped with the current time, which biases toward invalidation
// rather than false confidence.
func New(pack source.Pack) model.PackFingerprint {
	mtime := pack.LastModified
	if mtime == 0 {
		mtime = time.Now().Unix()
	}
	return model.PackFingerprint{
		PackID:        pack.ID,
		PackLabel:     pack.Label,
		LastModified:  mtime,
		DocumentCount: pack.DocumentCount,
		Checksum:      Checksum(pack.ID, pack.Label, pack.DocumentCount),
	}
}

// Checksum is a short digest of (id, label, count). It detects resizing
// and re-imports, not in-place edits that preserve document count.
func Checksum(id, label string, count int) string {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s|%s|%d", id, label, count)
	return fmt.Sprintf("%08x", h.Sum32())
}
