package api

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/safepaws-ai/safepaws-backend/internal/store"
)

// ─────────────────────────────────────────────
// TYPES
// ─────────────────────────────────────────────

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userView is the account shape returned to clients. The stored record also
// carries the password and token; neither belongs in list responses.
type userView struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Phone     string `json:"phone"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

// ─────────────────────────────────────────────
// HANDLERS
// ─────────────────────────────────────────────

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		s.respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		s.respondErr(w, http.StatusBadRequest, "email and password are required")
		return
	}
	// Self-service registration never grants admin.
	if strings.EqualFold(req.Role, "admin") {
		s.respondErr(w, http.StatusForbidden, "cannot self-register as admin")
		return
	}
	user, err := s.store.Register(req.Email, req.Name, req.Password, req.Role, req.Phone)
	if err != nil {
		s.respondErr(w, storeErrStatus(err), err.Error())
		return
	}
	s.respond(w, http.StatusCreated, toUserView(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		s.respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := newSessionToken()
	if err != nil {
		s.respondErr(w, http.StatusInternalServerError, "could not issue session token")
		return
	}
	user, err := s.store.Login(strings.TrimSpace(strings.ToLower(req.Email)), req.Password, token)
	if err != nil {
		s.respondErr(w, storeErrStatus(err), "invalid credentials")
		return
	}
	s.respond(w, http.StatusOK, loginResponse{Token: token, User: toUserView(user)})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	views := []userView{}
	for _, u := range s.store.ListUsers() {
		views = append(views, toUserView(u))
	}
	s.respond(w, http.StatusOK, views)
}

func (s *Server) handleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if err := s.store.Deactivate(email); err != nil {
		s.respondErr(w, storeErrStatus(err), err.Error())
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

// ─────────────────────────────────────────────
// HELPERS
// ─────────────────────────────────────────────

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func toUserView(u store.User) userView {
	return userView{
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Phone:     u.Phone,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
