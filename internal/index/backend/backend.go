package backend

import (
	"fmt"
	"path/filepath"
	"strings"

	"packdex/internal/index/bolt"
	"packdex/internal/index/file"
	"packdex/internal/index/sqlite"
	"packdex/internal/index/store"
)

func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "file"
	}
	switch name {
	case "file", "fs", "flat":
		return "file"
	case "sqlite", "sqlite3":
		return "sqlite"
	case "bolt", "bbolt":
		return "bolt"
	default:
		return name
	}
}

func DefaultPath(base string, backend string) string {
	backend = NormalizeName(backend)
	switch backend {
	case "sqlite":
		return filepath.Join(base, ".packdex", "index.db")
	case "bolt":
		return filepath.Join(base, ".packdex", "index.bolt")
	default:
		return filepath.Join(base, ".packdex", "artifacts")
	}
}

func Open(backend string, path string) (store.Store, error) {
	backend = NormalizeName(backend)
	switch backend {
	case "file":
		return file.Open(path)
	case "sqlite":
		return sqlite.Open(path)
	case "bolt":
		return bolt.Open(path)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}
