package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/safepaws-ai/safepaws-backend/internal/classifier"
	"github.com/safepaws-ai/safepaws-backend/internal/store"
)

// ─────────────────────────────────────────────
// CONSTANTS
// ─────────────────────────────────────────────

// Base64 inflates the image ~4/3; this caps the decoded photo around 6 MB.
const maxDetectBody = 8 << 20

// ─────────────────────────────────────────────
// TYPES
// ─────────────────────────────────────────────

type detectRequest struct {
	Photo      string   `json:"photo"` // base64
	Location   string   `json:"location"`
	Lat        *float64 `json:"lat"`
	Lon        *float64 `json:"lon"`
	CreateCase bool     `json:"create_case"`
}

type detectResponse struct {
	Prediction classifier.Prediction `json:"prediction"`
	Case       *store.Case           `json:"case,omitempty"`
}

// ─────────────────────────────────────────────
// HANDLERS
// ─────────────────────────────────────────────

// handleDetect runs the uploaded photo through the disease classifier and,
// when asked, opens a case pre-filled from the prediction.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if s.classifier == nil {
		s.respondErr(w, http.StatusServiceUnavailable, "detection is not configured")
		return
	}
	user, _ := userFrom(r)

	var req detectRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDetectBody))
	if err := dec.Decode(&req); err != nil {
		s.respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	image, err := base64.StdEncoding.DecodeString(req.Photo)
	if err != nil || len(image) == 0 {
		s.respondErr(w, http.StatusBadRequest, "photo must be base64-encoded image data")
		return
	}

	pred, err := s.classifier.Classify(r.Context(), image)
	if err != nil {
		s.logger.Error("classify image", "error", err)
		s.respondErr(w, http.StatusBadGateway, "classification failed")
		return
	}

	resp := detectResponse{Prediction: pred}

	if req.CreateCase && pred.Label != "" {
		coords := []float64{}
		if req.Lat != nil && req.Lon != nil {
			coords = []float64{*req.Lat, *req.Lon}
		}
		c, err := s.store.CreateCase(store.NewCaseParams{
			Disease:    pred.Label,
			Severity:   severityFromConfidence(pred.Confidence),
			Confidence: pred.Confidence,
			Location:   req.Location,
			Coords:     coords,
			Photo:      req.Photo,
			Reporter:   user.Email,
		})
		if err != nil {
			s.respondErr(w, http.StatusInternalServerError, "could not open case")
			return
		}
		resp.Case = &c
	}

	s.respond(w, http.StatusOK, resp)
}

// ─────────────────────────────────────────────
// HELPERS
// ─────────────────────────────────────────────

// severityFromConfidence grades a draft case by how sure the model is. Vets
// adjust it during triage.
func severityFromConfidence(confidence float64) string {
	switch {
	case confidence >= 0.85:
		return "High"
	case confidence >= 0.6:
		return "Medium"
	default:
		return "Low"
	}
}
