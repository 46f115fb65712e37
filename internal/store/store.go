// Package store holds the typed domain collections and groups every
// multi-item mutation behind a method, so handlers never touch raw documents.
//
// Each collection file (users.go, sos.go, campaigns.go, …) attaches methods
// to *Store. Every read materialises the whole collection into memory and
// every mutation rewrites it wholesale — that is the docstore contract, kept
// deliberately: there is no row-level update and no locking, and two near
// simultaneous writers on the same collection race with last-write-wins.
//
// Dependency rule: store imports docstore only. It never imports api, worker,
// geo, notify, or payments.
package store

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/safepaws-ai/safepaws-backend/internal/docstore"
)

// Collection keys. One JSON document per key.
const (
	colUsers         = "users"
	colAssessments   = "bite_assessments"
	colHotspots      = "hotspots"
	colSOS           = "sos"
	colCampaigns     = "campaigns"
	colTasks         = "volunteer_tasks"
	colCases         = "cases"
	colPosts         = "posts"
	colConversations = "conversations"
	colMessages      = "messages"
	colDonations     = "donations"
	colNotifications = "notifications"
)

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrNotFound is returned by any lookup or update whose target record does
// not exist in its collection.
var ErrNotFound = errors.New("store: record not found")

// ─── STORE ────────────────────────────────────────────────────────────────────

// Store wraps a docstore.Backend with the typed collection methods.
type Store struct {
	b docstore.Backend

	// now is swapped in tests for deterministic IDs and timestamps.
	now func() time.Time
}

// New creates a Store over an open backend.
func New(b docstore.Backend) *Store {
	return &Store{b: b, now: time.Now}
}

// newID builds the record-ID format used throughout the collections:
// <prefix>-<unix seconds>-<4 hex chars>, e.g. "BR-1756300000-a3f9".
func (s *Store) newID(prefix string) string {
	u := uuid.New()
	return fmt.Sprintf("%s-%d-%s", prefix, s.now().Unix(), hex.EncodeToString(u[:2]))
}

// timestamp renders the record-timestamp convention. Timestamps persist as
// strings — a value written through a record struct and read back is a
// string, never a time.Time. Downstream consumers rely on this.
func (s *Store) timestamp() string {
	return s.now().Format(time.RFC3339)
}
