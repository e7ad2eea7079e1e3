package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var (
	ErrEmptyPath = errors.New("db path is empty")
	ErrClosed    = errors.New("store is closed")
)

// Entry is one row of the key/value table.
type Entry struct {
	Key       string `db:"key" json:"key" yaml:"key"`
	Value     string `db:"value" json:"value" yaml:"value"`
	UpdatedAt string `db:"updated_at" json:"updatedAt" yaml:"updatedAt"`
}

// Store is a string key/value table in a local SQLite file. Writes replace
// the whole value; the last writer wins.
type Store struct {
	db *sqlx.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, ErrEmptyPath
	}
	if dbPath != ":memory:" && !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// Get returns the value stored under key; ok is false when the key is absent.
func (s *Store) Get(key string) (string, bool, error) {
	if s.db == nil {
		return "", false, ErrClosed
	}
	var value string
	err := s.db.Get(&value, `SELECT value FROM kv WHERE key = ?;`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Set(key, value string) error {
	if s.db == nil {
		return ErrClosed
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`, key, value, now)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	if s.db == nil {
		return ErrClosed
	}
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?;`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Entries lists every stored key in key order.
func (s *Store) Entries() ([]Entry, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	var entries []Entry
	if err := s.db.Select(&entries, `SELECT key, value, updated_at FROM kv ORDER BY key;`); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

func sqliteDSN(path string) string {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
