package store

import "github.com/safepaws-ai/safepaws-backend/internal/docstore"

// SOS lifecycle statuses. A new report is "open"; the dispatch worker moves
// it to "alerted" (or "alert_failed" after exhausting retries); a responder
// claiming it moves it to "dispatched"; closing it moves it to "resolved".
const (
	SOSOpen        = "open"
	SOSAlerted     = "alerted"
	SOSAlertFailed = "alert_failed"
	SOSDispatched  = "dispatched"
	SOSResolved    = "resolved"
)

// SOS severities.
const (
	SeverityCritical = "Critical"
	SeverityHigh     = "High"
	SeverityMedium   = "Medium"
)

// SOS is one emergency report.
type SOS struct {
	ID       string    `json:"id"`
	Desc     string    `json:"desc"`
	Severity string    `json:"severity"`
	Coords   []float64 `json:"coords"` // [lat, lon]
	Address  string    `json:"address"`
	Reporter string    `json:"reporter"`
	Status   string    `json:"status"`
	Assigned string    `json:"assigned,omitempty"`

	// Route details from the nearest responder, filled by the dispatch
	// worker when available.
	DistanceKm  float64 `json:"distance_km,omitempty"`
	DurationMin float64 `json:"duration_min,omitempty"`

	CreatedAt  string `json:"created_at"`
	ResolvedAt string `json:"resolved_at,omitempty"`
}

// NewSOSParams carries the caller-supplied fields for a new report.
type NewSOSParams struct {
	Desc     string
	Severity string
	Coords   []float64
	Address  string
	Reporter string
}

// ─── METHODS ──────────────────────────────────────────────────────────────────

// CreateSOS persists a new emergency in "open" status.
func (s *Store) CreateSOS(p NewSOSParams) (SOS, error) {
	rec := SOS{
		ID:        s.newID("SOS"),
		Desc:      p.Desc,
		Severity:  p.Severity,
		Coords:    p.Coords,
		Address:   p.Address,
		Reporter:  p.Reporter,
		Status:    SOSOpen,
		CreatedAt: s.timestamp(),
	}
	list := s.ListSOS()
	list = append(list, rec)
	if err := docstore.Write(s.b, colSOS, list); err != nil {
		return SOS{}, err
	}
	return rec, nil
}

// ListSOS returns every report.
func (s *Store) ListSOS() []SOS {
	return docstore.Read(s.b, colSOS, []SOS{})
}

// GetSOS looks up one report.
func (s *Store) GetSOS(id string) (SOS, error) {
	for _, rec := range s.ListSOS() {
		if rec.ID == id {
			return rec, nil
		}
	}
	return SOS{}, ErrNotFound
}

// PendingSOS returns reports still waiting for the dispatch worker. Used by
// the worker's fallback poller to recover reports enqueued before a restart.
func (s *Store) PendingSOS() []SOS {
	out := []SOS{}
	for _, rec := range s.ListSOS() {
		if rec.Status == SOSOpen {
			out = append(out, rec)
		}
	}
	return out
}

// update applies fn to the report with the given id and rewrites the
// collection. fn mutates the record in place.
func (s *Store) updateSOS(id string, fn func(*SOS)) (SOS, error) {
	list := s.ListSOS()
	for i := range list {
		if list[i].ID == id {
			fn(&list[i])
			if err := docstore.Write(s.b, colSOS, list); err != nil {
				return SOS{}, err
			}
			return list[i], nil
		}
	}
	return SOS{}, ErrNotFound
}

// AssignSOS records a responder claiming the emergency.
func (s *Store) AssignSOS(id, responder string) (SOS, error) {
	return s.updateSOS(id, func(rec *SOS) {
		rec.Assigned = responder
		rec.Status = SOSDispatched
	})
}

// AlertResult carries what the dispatch worker learned while alerting:
// the reverse-geocoded address (when the report came in with bare
// coordinates) and the route from the shelter.
type AlertResult struct {
	Address     string
	DistanceKm  float64
	DurationMin float64
}

// MarkSOSAlerted is called by the dispatch worker once notifications have
// gone out. Zero-value fields leave the record's existing values in place.
func (s *Store) MarkSOSAlerted(id string, res AlertResult) (SOS, error) {
	return s.updateSOS(id, func(rec *SOS) {
		rec.Status = SOSAlerted
		if res.Address != "" {
			rec.Address = res.Address
		}
		if res.DistanceKm > 0 {
			rec.DistanceKm = res.DistanceKm
		}
		if res.DurationMin > 0 {
			rec.DurationMin = res.DurationMin
		}
	})
}

// MarkSOSAlertFailed is called by the dispatch worker after exhausting
// retries so the report is not picked up again by the poller.
func (s *Store) MarkSOSAlertFailed(id string) (SOS, error) {
	return s.updateSOS(id, func(rec *SOS) {
		rec.Status = SOSAlertFailed
	})
}

// ResolveSOS closes the emergency.
func (s *Store) ResolveSOS(id string) (SOS, error) {
	resolvedAt := s.timestamp()
	return s.updateSOS(id, func(rec *SOS) {
		rec.Status = SOSResolved
		rec.ResolvedAt = resolvedAt
	})
}
