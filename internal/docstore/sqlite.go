package docstore

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

// SQLiteStore is the transactional alternative to FileStore: every
// collection is one row in a single table, and WriteRaw is an atomic upsert.
// Unlike the flat-file backend, a crash mid-write can never leave a
// half-written document, and a reader never observes a torn read.
//
// This is an explicit behaviour change relative to the original flat-file
// convention (which has neither atomicity nor isolation), which is why it is
// opt-in via STORE_BACKEND=sqlite rather than the default.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS collections (
	key        TEXT PRIMARY KEY,
	doc        TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);`

// OpenSQLite opens (creating if necessary) the database file and ensures the
// collections table exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("docstore: open sqlite %q: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("docstore: create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// ReadRaw returns the stored document, or ok=false if the collection has
// never been written. Query errors degrade to "absent" — same fail-soft
// posture as the file backend.
func (s *SQLiteStore) ReadRaw(collection string) ([]byte, bool) {
	var doc string
	err := s.db.QueryRow(`SELECT doc FROM collections WHERE key = ?`, collection).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) || err != nil {
		return nil, false
	}
	return []byte(doc), true
}

// WriteRaw atomically replaces the collection's document.
func (s *SQLiteStore) WriteRaw(collection string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO collections (key, doc, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		collection, string(data))
	if err != nil {
		return fmt.Errorf("docstore: upsert %q: %w", collection, err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
