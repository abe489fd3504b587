package source

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const manifestName = "world.json"

// manifest is the world.json shape: the world identity plus one entry
// per pack. Pack paths are relative to the world root and default to
// packs/<name>.db.
type manifest struct {
	ID    string         `json:"id"`
	Title string         `json:"title,omitempty"`
	Packs []manifestPack `json:"packs"`
}

type manifestPack struct {
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
	Type  string `json:"type"`
	Path  string `json:"path,omitempty"`
}

// FSProvider serves packs from a world directory: a world.json manifest
// and one JSONL file per pack (one JSON document per line). It stands in
// for the host platform's pack enumeration API.
type FSProvider struct {
	root    string
	worldID string
}

func NewFSProvider(root string) (*FSProvider, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("world root is required")
	}
	root = filepath.Clean(root)
	m, err := readManifest(root)
	if err != nil {
		return nil, err
	}
	worldID := strings.TrimSpace(m.ID)
	if worldID == "" {
		worldID = filepath.Base(root)
	}
	return &FSProvider{root: root, worldID: worldID}, nil
}

func (p *FSProvider) WorldID() string { return p.worldID }

func (p *FSProvider) Root() string { return p.root }

// PacksDir is the directory the invalidation watcher observes.
func (p *FSProvider) PacksDir() string { return filepath.Join(p.root, "packs") }

func (p *FSProvider) ListPacks(ctx context.Context, collectionType string) ([]Pack, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := readManifest(p.root)
	if err != nil {
		return nil, err
	}

	var out []Pack
	for _, mp := range m.Packs {
		if collectionType != "" && mp.Type != collectionType {
			continue
		}
		pk := Pack{
			ID:             mp.Name,
			Label:          mp.Label,
			CollectionType: mp.Type,
		}
		if pk.Label == "" {
			pk.Label = mp.Name
		}
		path := p.packPath(mp)
		if st, err := os.Stat(path); err == nil {
			pk.LastModified = st.ModTime().Unix()
			pk.DocumentCount = countLines(path)
		}
		out = append(out, pk)
	}
	return out, nil
}

func (p *FSProvider) Documents(ctx context.Context, packID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := p.resolvePack(packID)
	if err != nil {
		return nil, err
	}

	var out []Document
	err = scanJSONL(path, func(line []byte) error {
		var doc Document
		if err := json.Unmarshal(line, &doc); err != nil {
			return fmt.Errorf("pack %s: invalid document JSON: %w", packID, err)
		}
		out = append(out, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (p *FSProvider) Entries(ctx context.Context, packID string) ([]IndexEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := p.resolvePack(packID)
	if err != nil {
		return nil, err
	}

	var out []IndexEntry
	err = scanJSONL(path, func(line []byte) error {
		var row struct {
			ID   string `json:"_id"`
			Name string `json:"name"`
			Type string `json:"type"`
			Img  string `json:"img"`
		}
		if err := json.Unmarshal(line, &row); err != nil {
			return fmt.Errorf("pack %s: invalid document JSON: %w", packID, err)
		}
		out = append(out, IndexEntry{ID: row.ID, Name: row.Name, Kind: row.Type, ImageRef: row.Img})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (p *FSProvider) resolvePack(packID string) (string, error) {
	packID = strings.TrimSpace(packID)
	if packID == "" {
		return "", fmt.Errorf("packID is required")
	}
	m, err := readManifest(p.root)
	if err != nil {
		return "", err
	}
	for _, mp := range m.Packs {
		if mp.Name == packID {
			return p.packPath(mp), nil
		}
	}
	return "", fmt.Errorf("pack not found: %s", packID)
}

func (p *FSProvider) packPath(mp manifestPack) string {
	rel := strings.TrimSpace(mp.Path)
	if rel == "" {
		rel = filepath.Join("packs", mp.Name+".db")
	}
	return filepath.Join(p.root, filepath.FromSlash(rel))
}

func readManifest(root string) (manifest, error) {
	b, err := os.ReadFile(filepath.Join(root, manifestName))
	if err != nil {
		return manifest{}, fmt.Errorf("cannot read world manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return manifest{}, fmt.Errorf("invalid world manifest: %w", err)
	}
	return m, nil
}

func scanJSONL(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open pack %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return sc.Err()
}

func countLines(path string) int {
	n := 0
	_ = scanJSONL(path, func([]byte) error {
		n++
		return nil
	})
	return n
}
