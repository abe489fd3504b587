package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Store keeps artifacts in a single sqlite database, one row per
// (world, key). Replacement happens inside a transaction, which gives
// the all-or-nothing write the store contract requires.
type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("dbPath is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Backend() string { return "sqlite" }

func (s *Store) Exists(world, key string) (bool, error) {
	if err := s.check(world, key); err != nil {
		return false, err
	}
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(1) FROM artifacts WHERE world = ? AND key = ?`,
		world, key,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) Read(world, key string) ([]byte, error) {
	if err := s.check(world, key); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.QueryRow(
		`SELECT data FROM artifacts WHERE world = ? AND key = ?`,
		world, key,
	).Scan(&data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) Write(world, key string, data []byte) error {
	if err := s.check(world, key); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`INSERT INTO artifacts (world, key, data, updated_at)
		 VALUES (?, ?, ?, unixepoch())
		 ON CONFLICT(world, key) DO UPDATE SET
		   data=excluded.data,
		   updated_at=excluded.updated_at`,
		world, key, data,
	)
	return err
}

func (s *Store) Delete(world, key string) error {
	if err := s.check(world, key); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`DELETE FROM artifacts WHERE world = ? AND key = ?`,
		world, key,
	)
	return err
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

func (s *Store) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return err
	}
	_, _ = s.db.Exec("PRAGMA journal_mode = WAL")

	_, err := s.db.Exec(
		`CREATE TABLE IF NOT EXISTS artifacts (
		   world      TEXT NOT NULL,
		   key        TEXT NOT NULL,
		   data       BLOB NOT NULL,
		   updated_at INTEGER NOT NULL,
		   PRIMARY KEY (world, key)
		 )`)
	return err
}
