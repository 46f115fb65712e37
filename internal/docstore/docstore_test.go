package docstore_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safepaws-ai/safepaws-backend/internal/docstore"
)

func openFileStore(t *testing.T) *docstore.FileStore {
	t.Helper()
	s, err := docstore.Open(t.TempDir())
	require.NoError(t, err)
	return s
}

func openSQLiteStore(t *testing.T) *docstore.SQLiteStore {
	t.Helper()
	s, err := docstore.OpenSQLite(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// backends runs a subtest against both Backend implementations so the
// contract tests cover flat files and sqlite identically.
func backends(t *testing.T, fn func(t *testing.T, b docstore.Backend)) {
	t.Run("file", func(t *testing.T) { fn(t, openFileStore(t)) })
	t.Run("sqlite", func(t *testing.T) { fn(t, openSQLiteStore(t)) })
}

// ─── ROUND TRIP ───────────────────────────────────────────────────────────────

func TestReadWrite_RoundTrip(t *testing.T) {
	backends(t, func(t *testing.T, b docstore.Backend) {
		rows := []map[string]any{
			{"id": "CASE-1", "status": "pending", "severity": float64(3)},
			{"id": "CASE-2", "status": "resolved", "severity": float64(1)},
		}
		require.NoError(t, docstore.Write(b, "cases", rows))

		got := docstore.Read(b, "cases", []map[string]any{})
		assert.Equal(t, rows, got)
	})
}

func TestReadWrite_TypedRecords(t *testing.T) {
	type hotspot struct {
		ID   string  `json:"id"`
		Lat  float64 `json:"lat"`
		Lon  float64 `json:"lon"`
		Risk int     `json:"risk"`
	}
	backends(t, func(t *testing.T, b docstore.Backend) {
		in := []hotspot{{ID: "HS-1", Lat: 13.0418, Lon: 80.2341, Risk: 85}}
		require.NoError(t, docstore.Write(b, "hotspots", in))
		assert.Equal(t, in, docstore.Read(b, "hotspots", []hotspot{}))
	})
}

// ─── DEFAULT FALLBACK ─────────────────────────────────────────────────────────

func TestRead_MissingCollectionReturnsDefault(t *testing.T) {
	backends(t, func(t *testing.T, b docstore.Backend) {
		assert.Equal(t, []string{}, docstore.Read(b, "nonexistent_key_xyz", []string{}))
		assert.Equal(t, map[string]int{}, docstore.Read(b, "nonexistent_key_xyz", map[string]int{}))
		assert.Equal(t, map[string]int{"seed": 1},
			docstore.Read(b, "nonexistent_key_xyz", map[string]int{"seed": 1}),
			"caller-supplied default must be returned unchanged")
	})
}

func TestRead_MissingCollectionCreatesNoFile(t *testing.T) {
	s := openFileStore(t)
	_ = docstore.Read(s, "lazy", []string{})

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "read of a missing collection must not create a file")
}

// ─── TYPE GUARD ───────────────────────────────────────────────────────────────

func TestRead_TypeMismatchReturnsDefault(t *testing.T) {
	backends(t, func(t *testing.T, b docstore.Backend) {
		// Store an object, read expecting a list.
		require.NoError(t, docstore.Write(b, "settings", map[string]string{"theme": "dark"}))
		assert.Equal(t, []map[string]any{}, docstore.Read(b, "settings", []map[string]any{}))

		// Store a list, read expecting an object.
		require.NoError(t, docstore.Write(b, "rows", []int{1, 2, 3}))
		assert.Equal(t, map[string]any{}, docstore.Read(b, "rows", map[string]any{}))
	})
}

func TestRead_StoredNullReturnsDefault(t *testing.T) {
	backends(t, func(t *testing.T, b docstore.Backend) {
		require.NoError(t, b.WriteRaw("empty", []byte("null")))
		assert.Equal(t, []string{"default"}, docstore.Read(b, "empty", []string{"default"}))
	})
}

// ─── CORRUPT FILE ─────────────────────────────────────────────────────────────

func TestRead_CorruptJSONReturnsDefault(t *testing.T) {
	s := openFileStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "sos.json"), []byte("{not json"), 0o644))

	got := docstore.Read(s, "sos", []map[string]any{})
	assert.Equal(t, []map[string]any{}, got, "corrupt file must degrade to default, not error")
}

// ─── FILE LAYOUT ──────────────────────────────────────────────────────────────

func TestWrite_PrettyPrintedOneFilePerKey(t *testing.T) {
	s := openFileStore(t)
	require.NoError(t, docstore.Write(s, "users", []map[string]string{{"email": "a@b.c"}}))

	raw, err := os.ReadFile(filepath.Join(s.Dir(), "users.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  ", "document should be indented for human readability")
	assert.True(t, json.Valid(raw))
}

func TestWrite_LastWriteWins(t *testing.T) {
	backends(t, func(t *testing.T, b docstore.Backend) {
		require.NoError(t, docstore.Write(b, "tasks", []string{"first"}))
		require.NoError(t, docstore.Write(b, "tasks", []string{"second"}))
		assert.Equal(t, []string{"second"}, docstore.Read(b, "tasks", []string{}),
			"whole-document overwrite: later write wins in full")
	})
}

func TestOpen_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := docstore.Open(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
