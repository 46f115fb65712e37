package store

import "github.com/safepaws-ai/safepaws-backend/internal/docstore"

// Assessment is one immutable bite-risk assessment record. Created once at
// submission time; there is no edit or delete path.
type Assessment struct {
	ID              string            `json:"id"`
	Location        string            `json:"location"`
	Coords          []float64         `json:"coords"` // [lat, lon]
	RiskScore       int               `json:"risk_score"`
	RiskLevel       string            `json:"risk_level"`
	Responses       map[string]string `json:"responses"`
	Recommendations []string          `json:"recommendations"`
	Notes           string            `json:"notes"`
	AssessedBy      string            `json:"assessed_by"`
	Timestamp       string            `json:"timestamp"`
}

// NewAssessmentParams carries the caller-supplied fields; identity and
// timestamp are generated here.
type NewAssessmentParams struct {
	Location        string
	Coords          []float64
	RiskScore       int
	RiskLevel       string
	Responses       map[string]string
	Recommendations []string
	Notes           string
	AssessedBy      string
}

// AppendAssessment persists a new assessment and returns the stored record.
func (s *Store) AppendAssessment(p NewAssessmentParams) (Assessment, error) {
	a := Assessment{
		ID:              s.newID("BR"),
		Location:        p.Location,
		Coords:          p.Coords,
		RiskScore:       p.RiskScore,
		RiskLevel:       p.RiskLevel,
		Responses:       p.Responses,
		Recommendations: p.Recommendations,
		Notes:           p.Notes,
		AssessedBy:      p.AssessedBy,
		Timestamp:       s.timestamp(),
	}
	list := s.ListAssessments()
	list = append(list, a)
	if err := docstore.Write(s.b, colAssessments, list); err != nil {
		return Assessment{}, err
	}
	return a, nil
}

// ListAssessments returns the full assessment history, oldest first.
func (s *Store) ListAssessments() []Assessment {
	return docstore.Read(s.b, colAssessments, []Assessment{})
}
