package cache

import (
	"encoding/json"
	"fmt"
	"sort"

	"packdex/internal/index/store"
	"packdex/internal/model"
)

// ArtifactKey is the store key the creature index lives under, scoped by
// the world identifier.
const ArtifactKey = "creature-index"

// fingerprintPair flattens the fingerprint map for the artifact. Pairs
// are sorted by pack id so the encoded artifact is deterministic.
type fingerprintPair struct {
	PackID      string                `json:"pack_id"`
	Fingerprint model.PackFingerprint `json:"fp"`
}

type artifact struct {
	SchemaVersion int               `json:"schema_version"`
	BuildID       string            `json:"build_id,omitempty"`
	BuiltAt       int64             `json:"built_at"`
	Dialect       model.Dialect     `json:"dialect"`
	Fingerprints  []fingerprintPair `json:"fingerprints"`
	TotalProfiles int               `json:"total_profiles"`
	ErrorCount    int               `json:"error_count,omitempty"`
	Profiles      []model.Profile   `json:"profiles"`
}

func encodeIndex(idx *model.PersistedIndex) ([]byte, error) {
	if idx == nil {
		return nil, fmt.Errorf("index is nil")
	}

	pairs := make([]fingerprintPair, 0, len(idx.Metadata.Fingerprints))
	for id, fp := range idx.Metadata.Fingerprints {
		pairs = append(pairs, fingerprintPair{PackID: id, Fingerprint: fp})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].PackID < pairs[j].PackID })

	return json.Marshal(artifact{
		SchemaVersion: idx.Metadata.SchemaVersion,
		BuildID:       idx.Metadata.BuildID,
		BuiltAt:       idx.Metadata.BuiltAt,
		Dialect:       idx.Metadata.Dialect,
		Fingerprints:  pairs,
		TotalProfiles: idx.Metadata.TotalProfiles,
		ErrorCount:    idx.Metadata.ErrorCount,
		Profiles:      idx.Profiles,
	})
}

func decodeIndex(b []byte) (*model.PersistedIndex, error) {
	var a artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("invalid index artifact: %w", err)
	}

	fps := make(map[string]model.PackFingerprint, len(a.Fingerprints))
	for _, pair := range a.Fingerprints {
		fps[pair.PackID] = pair.Fingerprint
	}

	return &model.PersistedIndex{
		Metadata: model.IndexMetadata{
			SchemaVersion: a.SchemaVersion,
			BuildID:       a.BuildID,
			BuiltAt:       a.BuiltAt,
			Dialect:       a.Dialect,
			Fingerprints:  fps,
			TotalProfiles: a.TotalProfiles,
			ErrorCount:    a.ErrorCount,
		},
		Profiles: a.Profiles,
	}, nil
}

// loadIndex reads the persisted artifact. Every failure mode (missing
// key, read error, parse error) means the same thing to the caller:
// no index is present and a lazy rebuild is due.
func loadIndex(st store.Store, world string) *model.PersistedIndex {
	ok, err := st.Exists(world, ArtifactKey)
	if err != nil || !ok {
		return nil
	}
	b, err := st.Read(world, ArtifactKey)
	if err != nil {
		return nil
	}
	idx, err := decodeIndex(b)
	if err != nil {
		return nil
	}
	return idx
}

func saveIndex(st store.Store, world string, idx *model.PersistedIndex) error {
	b, err := encodeIndex(idx)
	if err != nil {
		return err
	}
	return st.Write(world, ArtifactKey, b)
}
