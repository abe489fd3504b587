package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// Store keeps one file per (world, key) under root/<world>/<key>.json.
// Writes go to a temp file in the target directory and are renamed into
// place after fsync, so a concurrent reader sees either the old artifact
// or the new one, never a partial write. A per-world flock guards the
// critical section against other processes.
type Store struct {
	root string
}

func Open(root string) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: filepath.Clean(root)}, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) Backend() string { return "file" }

func (s *Store) Exists(world, key string) (bool, error) {
	path, err := s.path(world, key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) Read(world, key string) ([]byte, error) {
	path, err := s.path(world, key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (s *Store) Write(world, key string, data []byte) error {
	path, err := s.path(world, key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	lock := flock.New(filepath.Join(dir, ".lock"))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("cannot lock artifact dir: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func (s *Store) Delete(world, key string) error {
	path, err := s.path(world, key)
	if err != nil {
		return err
	}

	if _, err := os.Stat(filepath.Dir(path)); os.IsNotExist(err) {
		return nil
	}

	lock := flock.New(filepath.Join(filepath.Dir(path), ".lock"))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("cannot lock artifact dir: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) path(world, key string) (string, error) {
	world = strings.TrimSpace(world)
	key = strings.TrimSpace(key)
	if world == "" {
		return "", fmt.Errorf("world is required")
	}
	if key == "" {
		return "", fmt.Errorf("key is required")
	}
	// Keys are caller-controlled identifiers, not paths.
	if strings.ContainsAny(world, `/\`) || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("world and key must not contain path separators")
	}
	return filepath.Join(s.root, world, key+".json"), nil
}
