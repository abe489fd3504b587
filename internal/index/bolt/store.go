package bolt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.etcd.io/bbolt"
)

// Store keeps artifacts in a bbolt database, one bucket per world.
// bbolt transactions give Write the required atomicity.
type Store struct {
	db *bbolt.DB
}

func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("dbPath is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Backend() string { return "bolt" }

func (s *Store) Exists(world, key string) (bool, error) {
	if err := s.check(world, key); err != nil {
		return false, err
	}
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(world))
		if b == nil {
			return nil
		}
		found = b.Get([]byte(key)) != nil
		return nil
	})
	return found, err
}

func (s *Store) Read(world, key string) ([]byte, error) {
	if err := s.check(world, key); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(world))
		if b == nil {
			return fmt.Errorf("artifact not found: %s/%s", world, key)
		}
		v := b.Get([]byte(key))
		if v == nil {
			return fmt.Errorf("artifact not found: %s/%s", world, key)
		}
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) Write(world, key string, data []byte) error {
	if err := s.check(world, key); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(world))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

func (s *Store) Delete(world, key string) error {
	if err := s.check(world, key); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(world))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

func (s *Store) check(world, key string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store is not open")
	}
	if strings.TrimSpace(world) == "" {
		return fmt.Errorf("world is required")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key is required")
	}
	return nil
}
