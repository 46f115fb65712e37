package store

import (
	"fmt"

	"github.com/safepaws-ai/safepaws-backend/internal/docstore"
)

// Case statuses.
const (
	CasePending     = "pending"
	CaseInTreatment = "in_treatment"
	CaseResolved    = "resolved"
	CaseClosed      = "closed"
)

// Medication is one prescription entry on a case.
type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	PrescribedBy string `json:"prescribed_by"`
	AddedAt      string `json:"added_at"`
}

// Case is one disease/treatment record, usually opened from a detection
// result or a field report.
type Case struct {
	ID          string       `json:"id"`
	Disease     string       `json:"disease"`
	Severity    string       `json:"severity"`
	Confidence  float64      `json:"confidence,omitempty"` // classifier confidence, 0–1
	Location    string       `json:"location"`
	Coords      []float64    `json:"coords,omitempty"`
	Photo       string       `json:"photo,omitempty"` // base64, as uploaded
	Reporter    string       `json:"reporter"`
	Status      string       `json:"status"`
	Medications []Medication `json:"medications"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}

// NewCaseParams carries the caller-supplied fields for a new case.
type NewCaseParams struct {
	Disease    string
	Severity   string
	Confidence float64
	Location   string
	Coords     []float64
	Photo      string
	Reporter   string
}

func validCaseStatus(status string) bool {
	switch status {
	case CasePending, CaseInTreatment, CaseResolved, CaseClosed:
		return true
	}
	return false
}

// ─── METHODS ──────────────────────────────────────────────────────────────────

// CreateCase opens a new treatment case in "pending" status.
func (s *Store) CreateCase(p NewCaseParams) (Case, error) {
	c := Case{
		ID:          s.newID("CASE"),
		Disease:     p.Disease,
		Severity:    p.Severity,
		Confidence:  p.Confidence,
		Location:    p.Location,
		Coords:      p.Coords,
		Photo:       p.Photo,
		Reporter:    p.Reporter,
		Status:      CasePending,
		Medications: []Medication{},
		CreatedAt:   s.timestamp(),
		UpdatedAt:   s.timestamp(),
	}
	list := s.ListCases()
	list = append(list, c)
	if err := docstore.Write(s.b, colCases, list); err != nil {
		return Case{}, err
	}
	return c, nil
}

// ListCases returns every case.
func (s *Store) ListCases() []Case {
	return docstore.Read(s.b, colCases, []Case{})
}

// GetCase looks up one case.
func (s *Store) GetCase(id string) (Case, error) {
	for _, c := range s.ListCases() {
		if c.ID == id {
			return c, nil
		}
	}
	return Case{}, ErrNotFound
}

// UpdateCaseStatus moves a case through its lifecycle.
func (s *Store) UpdateCaseStatus(id, status string) (Case, error) {
	if !validCaseStatus(status) {
		return Case{}, fmt.Errorf("store: invalid case status %q", status)
	}
	list := s.ListCases()
	for i := range list {
		if list[i].ID != id {
			continue
		}
		list[i].Status = status
		list[i].UpdatedAt = s.timestamp()
		if err := docstore.Write(s.b, colCases, list); err != nil {
			return Case{}, err
		}
		return list[i], nil
	}
	return Case{}, ErrNotFound
}

// AddMedication appends a prescription entry to a case.
func (s *Store) AddMedication(id string, m Medication) (Case, error) {
	m.AddedAt = s.timestamp()
	list := s.ListCases()
	for i := range list {
		if list[i].ID != id {
			continue
		}
		list[i].Medications = append(list[i].Medications, m)
		list[i].UpdatedAt = s.timestamp()
		if err := docstore.Write(s.b, colCases, list); err != nil {
			return Case{}, err
		}
		return list[i], nil
	}
	return Case{}, ErrNotFound
}
