// Package docstore implements the flat-file JSON persistence convention that
// every SafePaws collection is stored under: one pretty-printed JSON document
// per collection key, read and rewritten wholesale on every access.
//
// The contract is deliberately fail-soft. Read never returns an error — a
// missing file, malformed JSON, or a document whose shape does not match the
// caller's expected type all degrade to the caller-supplied default. A
// corrupted or legacy file must never crash a caller; it just looks empty.
//
// Write is a whole-document overwrite with no atomic rename, no lock, and no
// backup. Two concurrent writers on the same key race and the later write
// wins in full. This is a documented limitation of the flat-file backend,
// not a bug — the transactional sqlite backend exists for deployments that
// want atomicity (see sqlite.go, opt-in via STORE_BACKEND=sqlite).
package docstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Backend is the raw document-per-key persistence contract. Two
// implementations exist: FileStore (default, one <key>.json file per
// collection) and SQLiteStore (transactional, opt-in).
type Backend interface {
	// ReadRaw returns the stored document bytes for a collection, or
	// ok=false when the collection has never been written.
	ReadRaw(collection string) (data []byte, ok bool)

	// WriteRaw overwrites the collection's document completely.
	WriteRaw(collection string, data []byte) error

	// Close releases any underlying resources.
	Close() error
}

// ─── TYPED ACCESS ─────────────────────────────────────────────────────────────

// Read loads a collection and unmarshals it into T. It never fails:
//
//   - collection absent           → def
//   - file contains invalid JSON  → def
//   - JSON shape does not fit T   → def (type-guard: an object stored where
//     a list is expected falls back silently, it is not an error)
//
// A stored JSON null also falls back to def rather than producing a zero T,
// so callers can rely on the default's contents (e.g. a pre-seeded map).
func Read[T any](b Backend, collection string, def T) T {
	raw, ok := b.ReadRaw(collection)
	if !ok {
		return def
	}
	if isJSONNull(raw) {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

// Write serialises v as indented JSON and overwrites the collection's
// document. time.Time fields round-trip as RFC3339 strings only — reading
// them back yields strings, not time values. Downstream code expects string
// timestamps, so this lossy round-trip is part of the contract.
//
// OS-level failures (disk full, permission denied) propagate to the caller;
// there is no retry and no partial-write recovery.
func Write(b Backend, collection string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("docstore: marshal %q: %w", collection, err)
	}
	return b.WriteRaw(collection, data)
}

func isJSONNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// ─── FLAT-FILE BACKEND ────────────────────────────────────────────────────────

// FileStore persists each collection as <dir>/<collection>.json.
type FileStore struct {
	dir string
}

// Open creates the data directory if absent and returns a FileStore rooted
// there. Collection files themselves are created lazily on first write.
func Open(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("docstore: create data dir %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory the store is rooted at.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// ReadRaw returns the file contents, or ok=false if the file does not exist.
// Read errors other than non-existence are treated the same as a missing
// file — the fail-soft contract means the caller sees its default either way.
func (s *FileStore) ReadRaw(collection string) ([]byte, bool) {
	data, err := os.ReadFile(s.path(collection))
	if err != nil {
		return nil, false
	}
	return data, true
}

// WriteRaw overwrites the collection file in place. Deliberately not an
// atomic rename: a crash mid-write can corrupt the file, and a reader racing
// this write can observe a half-written document. Deployments that need
// atomicity run the sqlite backend instead.
func (s *FileStore) WriteRaw(collection string, data []byte) error {
	if err := os.WriteFile(s.path(collection), data, 0o644); err != nil {
		return fmt.Errorf("docstore: write %q: %w", collection, err)
	}
	return nil
}

// Close is a no-op for the flat-file backend.
func (s *FileStore) Close() error { return nil }
