package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/safepaws-ai/safepaws-backend/internal/store"
)

// ─────────────────────────────────────────────
// TYPES
// ─────────────────────────────────────────────

type sosRequest struct {
	Desc     string   `json:"desc"`
	Severity string   `json:"severity"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
	Address  string   `json:"address"`
}

// ─────────────────────────────────────────────
// HANDLERS
// ─────────────────────────────────────────────

// handleCreateSOS records the emergency and hands it to the dispatch worker.
// The report is saved even when enqueueing fails — the worker's poller picks
// up open reports it never saw.
func (s *Server) handleCreateSOS(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)

	var req sosRequest
	if err := decode(r, &req); err != nil {
		s.respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Lat == nil || req.Lon == nil {
		s.respondErr(w, http.StatusBadRequest, "lat and lon are required")
		return
	}
	if !validSeverity(req.Severity) {
		s.respondErr(w, http.StatusBadRequest, "severity must be Critical, High or Medium")
		return
	}

	rec, err := s.store.CreateSOS(store.NewSOSParams{
		Desc:     req.Desc,
		Severity: req.Severity,
		Coords:   []float64{*req.Lat, *req.Lon},
		Address:  req.Address,
		Reporter: user.Email,
	})
	if err != nil {
		s.respondErr(w, http.StatusInternalServerError, "could not save report")
		return
	}

	if s.dispatch != nil {
		if err := s.dispatch.Enqueue(r.Context(), rec.ID); err != nil {
			s.logger.Error("enqueue sos dispatch", "sos", rec.ID, "error", err)
		}
	}

	s.respond(w, http.StatusCreated, rec)
}

func (s *Server) handleListSOS(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.store.ListSOS())
}

func (s *Server) handleGetSOS(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetSOS(chi.URLParam(r, "id"))
	if err != nil {
		s.respondErr(w, storeErrStatus(err), err.Error())
		return
	}
	s.respond(w, http.StatusOK, rec)
}

// handleAssignSOS lets a responder claim an emergency.
func (s *Server) handleAssignSOS(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)
	rec, err := s.store.AssignSOS(chi.URLParam(r, "id"), user.Email)
	if err != nil {
		s.respondErr(w, storeErrStatus(err), err.Error())
		return
	}
	s.respond(w, http.StatusOK, rec)
}

func (s *Server) handleResolveSOS(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.ResolveSOS(chi.URLParam(r, "id"))
	if err != nil {
		s.respondErr(w, storeErrStatus(err), err.Error())
		return
	}
	s.respond(w, http.StatusOK, rec)
}

// ─────────────────────────────────────────────
// HELPERS
// ─────────────────────────────────────────────

func validSeverity(sev string) bool {
	switch sev {
	case store.SeverityCritical, store.SeverityHigh, store.SeverityMedium:
		return true
	}
	return false
}
