package api

import (
	"net/http"
	"strings"

	"github.com/safepaws-ai/safepaws-backend/internal/biterisk"
	"github.com/safepaws-ai/safepaws-backend/internal/store"
)

// ─────────────────────────────────────────────
// TYPES
// ─────────────────────────────────────────────

type assessmentRequest struct {
	Location  string            `json:"location"`
	Lat       *float64          `json:"lat"`
	Lon       *float64          `json:"lon"`
	Responses map[string]string `json:"responses"`
	Notes     string            `json:"notes"`
}

type assessmentResponse struct {
	Assessment store.Assessment `json:"assessment"`
	Hotspot    *store.Hotspot   `json:"hotspot,omitempty"`
}

// ─────────────────────────────────────────────
// HANDLERS
// ─────────────────────────────────────────────

func (s *Server) handleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, biterisk.Questionnaire())
}

// handleSubmitAssessment scores the questionnaire, persists the assessment,
// and drops a bite-risk hotspot at the assessed location when coordinates
// are known.
func (s *Server) handleSubmitAssessment(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)

	var req assessmentRequest
	if err := decode(r, &req); err != nil {
		s.respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Responses) == 0 {
		s.respondErr(w, http.StatusBadRequest, "responses are required")
		return
	}

	score, level := biterisk.Score(req.Responses)
	recs := biterisk.Recommendations(req.Responses)

	coords := []float64{}
	if req.Lat != nil && req.Lon != nil {
		coords = []float64{*req.Lat, *req.Lon}
	} else if place := strings.TrimSpace(req.Location); place != "" && s.geo != nil {
		if pt, err := s.geo.Geocode(r.Context(), place); err == nil {
			coords = []float64{pt.Lat, pt.Lon}
		}
	}

	assessment, err := s.store.AppendAssessment(store.NewAssessmentParams{
		Location:        req.Location,
		Coords:          coords,
		RiskScore:       score,
		RiskLevel:       string(level),
		Responses:       req.Responses,
		Recommendations: recs,
		Notes:           req.Notes,
		AssessedBy:      user.Email,
	})
	if err != nil {
		s.respondErr(w, http.StatusInternalServerError, "could not save assessment")
		return
	}

	resp := assessmentResponse{Assessment: assessment}
	if len(coords) == 2 {
		hotspot, err := s.store.AppendHotspot(store.NewHotspotParams{
			Lat:        coords[0],
			Lon:        coords[1],
			Risk:       score,
			Color:      store.HotspotColorFor(string(level)),
			Place:      req.Location,
			Category:   store.HotspotBiteRisk,
			Label:      string(level),
			ReportedBy: user.Email,
		})
		if err != nil {
			// The assessment itself is saved; the map marker is best-effort.
			s.logger.Error("append hotspot", "assessment", assessment.ID, "error", err)
		} else {
			resp.Hotspot = &hotspot
		}
	}

	s.respond(w, http.StatusCreated, resp)
}

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.store.ListAssessments())
}
