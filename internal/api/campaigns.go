package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/safepaws-ai/safepaws-backend/internal/store"
)

// ─────────────────────────────────────────────
// TYPES
// ─────────────────────────────────────────────

type campaignRequest struct {
	Zone   string   `json:"zone"`
	Date   string   `json:"date"` // YYYY-MM-DD
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
	Target int      `json:"target"`
}

type campaignProgressRequest struct {
	Count int `json:"count"`
}

// ─────────────────────────────────────────────
// HANDLERS
// ─────────────────────────────────────────────

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)

	var req campaignRequest
	if err := decode(r, &req); err != nil {
		s.respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Zone) == "" {
		s.respondErr(w, http.StatusBadRequest, "zone is required")
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		s.respondErr(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if req.Target <= 0 {
		s.respondErr(w, http.StatusBadRequest, "target must be positive")
		return
	}

	coords := []float64{}
	if req.Lat != nil && req.Lon != nil {
		coords = []float64{*req.Lat, *req.Lon}
	} else if s.geo != nil {
		if pt, err := s.geo.Geocode(r.Context(), req.Zone); err == nil {
			coords = []float64{pt.Lat, pt.Lon}
		}
	}

	c, err := s.store.CreateCampaign(store.NewCampaignParams{
		Zone:      req.Zone,
		Date:      req.Date,
		Coords:    coords,
		Target:    req.Target,
		CreatedBy: user.Email,
	})
	if err != nil {
		s.respondErr(w, http.StatusInternalServerError, "could not save campaign")
		return
	}
	s.respond(w, http.StatusCreated, c)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.store.ListCampaigns()
	if err != nil {
		s.respondErr(w, http.StatusInternalServerError, "could not load campaigns")
		return
	}
	s.respond(w, http.StatusOK, campaigns)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetCampaign(chi.URLParam(r, "id"))
	if err != nil {
		s.respondErr(w, storeErrStatus(err), err.Error())
		return
	}
	s.respond(w, http.StatusOK, c)
}

// handleCampaignProgress records completed vaccinations against the target.
func (s *Server) handleCampaignProgress(w http.ResponseWriter, r *http.Request) {
	var req campaignProgressRequest
	if err := decode(r, &req); err != nil {
		s.respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Count <= 0 {
		s.respondErr(w, http.StatusBadRequest, "count must be positive")
		return
	}
	c, err := s.store.RecordVaccinations(chi.URLParam(r, "id"), req.Count)
	if err != nil {
		s.respondErr(w, storeErrStatus(err), err.Error())
		return
	}
	s.respond(w, http.StatusOK, c)
}
