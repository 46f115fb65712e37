package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/safepaws-ai/safepaws-backend/internal/docstore"
)

// newTestStore returns a Store over a throwaway file backend with a fixed
// clock, so timestamps in assertions are predictable.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	b, err := docstore.Open(t.TempDir())
	require.NoError(t, err)
	s := New(b)
	s.now = func() time.Time {
		return time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	}
	return s
}

func TestNewID_Format(t *testing.T) {
	s := newTestStore(t)

	id := s.newID("BR")
	parts := strings.SplitN(id, "-", 3)
	require.Len(t, parts, 3)
	require.Equal(t, "BR", parts[0])
	require.Equal(t, "1787997600", parts[1]) // fixed clock, unix seconds
	require.Len(t, parts[2], 4)

	// The random suffix makes two IDs from the same second distinct.
	require.NotEqual(t, id, s.newID("BR"))
}

func TestTimestamp_IsRFC3339String(t *testing.T) {
	s := newTestStore(t)
	require.Equal(t, "2026-08-27T10:00:00Z", s.timestamp())
}
