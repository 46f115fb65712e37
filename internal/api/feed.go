package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ─────────────────────────────────────────────
// TYPES
// ─────────────────────────────────────────────

type postRequest struct {
	Text  string `json:"text"`
	Photo string `json:"photo"` // base64
}

type commentRequest struct {
	Text string `json:"text"`
}

// ─────────────────────────────────────────────
// HANDLERS
// ─────────────────────────────────────────────

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)

	var req postRequest
	if err := decode(r, &req); err != nil {
		s.respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" && req.Photo == "" {
		s.respondErr(w, http.StatusBadRequest, "post needs text or a photo")
		return
	}

	post, err := s.store.CreatePost(user.Email, req.Text, req.Photo)
	if err != nil {
		s.respondErr(w, http.StatusInternalServerError, "could not save post")
		return
	}
	s.respond(w, http.StatusCreated, post)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.store.ListPosts())
}

// handleLikePost toggles the caller's like on a post.
func (s *Server) handleLikePost(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)
	post, err := s.store.LikePost(chi.URLParam(r, "id"), user.Email)
	if err != nil {
		s.respondErr(w, storeErrStatus(err), err.Error())
		return
	}
	s.respond(w, http.StatusOK, post)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)

	var req commentRequest
	if err := decode(r, &req); err != nil {
		s.respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.respondErr(w, http.StatusBadRequest, "comment text is required")
		return
	}

	post, err := s.store.AddComment(chi.URLParam(r, "id"), user.Email, req.Text)
	if err != nil {
		s.respondErr(w, storeErrStatus(err), err.Error())
		return
	}
	s.respond(w, http.StatusOK, post)
}
