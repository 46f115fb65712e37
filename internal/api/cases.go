package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/safepaws-ai/safepaws-backend/internal/store"
)

// ─────────────────────────────────────────────
// TYPES
// ─────────────────────────────────────────────

type caseRequest struct {
	Disease    string   `json:"disease"`
	Severity   string   `json:"severity"`
	Confidence float64  `json:"confidence"`
	Location   string   `json:"location"`
	Lat        *float64 `json:"lat"`
	Lon        *float64 `json:"lon"`
	Photo      string   `json:"photo"` // base64
}

type caseStatusRequest struct {
	Status string `json:"status"`
}

type medicationRequest struct {
	Name   string `json:"name"`
	Dosage string `json:"dosage"`
}

// ─────────────────────────────────────────────
// HANDLERS
// ─────────────────────────────────────────────

func (s *Server) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)

	var req caseRequest
	if err := decode(r, &req); err != nil {
		s.respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Disease) == "" {
		s.respondErr(w, http.StatusBadRequest, "disease is required")
		return
	}

	coords := []float64{}
	if req.Lat != nil && req.Lon != nil {
		coords = []float64{*req.Lat, *req.Lon}
	}

	c, err := s.store.CreateCase(store.NewCaseParams{
		Disease:    req.Disease,
		Severity:   req.Severity,
		Confidence: req.Confidence,
		Location:   req.Location,
		Coords:     coords,
		Photo:      req.Photo,
		Reporter:   user.Email,
	})
	if err != nil {
		s.respondErr(w, http.StatusInternalServerError, "could not save case")
		return
	}

	// Disease cases show up on the map like bite assessments do.
	if len(coords) == 2 {
		if _, err := s.store.AppendHotspot(store.NewHotspotParams{
			Lat:        coords[0],
			Lon:        coords[1],
			Color:      store.HotspotColorFor(""),
			Place:      req.Location,
			Category:   store.HotspotDisease,
			Label:      req.Disease,
			ReportedBy: user.Email,
		}); err != nil {
			s.logger.Error("append hotspot", "case", c.ID, "error", err)
		}
	}

	s.respond(w, http.StatusCreated, c)
}

func (s *Server) handleListCases(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.store.ListCases())
}

func (s *Server) handleGetCase(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetCase(chi.URLParam(r, "id"))
	if err != nil {
		s.respondErr(w, storeErrStatus(err), err.Error())
		return
	}
	s.respond(w, http.StatusOK, c)
}

func (s *Server) handleUpdateCaseStatus(w http.ResponseWriter, r *http.Request) {
	var req caseStatusRequest
	if err := decode(r, &req); err != nil {
		s.respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c, err := s.store.UpdateCaseStatus(chi.URLParam(r, "id"), req.Status)
	if err != nil {
		s.respondErr(w, storeErrStatus(err), err.Error())
		return
	}
	s.respond(w, http.StatusOK, c)
}

func (s *Server) handleAddMedication(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)

	var req medicationRequest
	if err := decode(r, &req); err != nil {
		s.respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.respondErr(w, http.StatusBadRequest, "medication name is required")
		return
	}

	c, err := s.store.AddMedication(chi.URLParam(r, "id"), store.Medication{
		Name:         req.Name,
		Dosage:       req.Dosage,
		PrescribedBy: user.Email,
	})
	if err != nil {
		s.respondErr(w, storeErrStatus(err), err.Error())
		return
	}
	s.respond(w, http.StatusOK, c)
}
