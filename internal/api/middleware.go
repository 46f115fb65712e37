package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/safepaws-ai/safepaws-backend/internal/store"
)

// ─────────────────────────────────────────────
// CONSTANTS
// ─────────────────────────────────────────────

const authHeader = "X-Auth-Token"

type contextKey string

const ctxKeyUser contextKey = "user"

// ─────────────────────────────────────────────
// MIDDLEWARE
// ─────────────────────────────────────────────

// requestLogger logs one line per request after it completes.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// requireUser resolves the session token into a user and stores it on the
// request context. Missing or stale tokens get 401.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get(authHeader))
		if token == "" {
			s.respondErr(w, http.StatusUnauthorized, "missing auth token")
			return
		}
		user, err := s.store.UserByToken(token)
		if err != nil {
			s.respondErr(w, http.StatusUnauthorized, "invalid auth token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole gates a route to the listed roles. It must run after
// requireUser.
func (s *Server) requireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := userFrom(r)
			if !ok {
				s.respondErr(w, http.StatusUnauthorized, "missing auth token")
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			s.respondErr(w, http.StatusForbidden, "insufficient role")
		})
	}
}

func userFrom(r *http.Request) (store.User, bool) {
	user, ok := r.Context().Value(ctxKeyUser).(store.User)
	return user, ok
}

// ─────────────────────────────────────────────
// HELPERS
// ─────────────────────────────────────────────

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) respondErr(w http.ResponseWriter, status int, msg string) {
	s.respond(w, status, map[string]string{"error": msg})
}

// decode reads a JSON body into v, capping the body at 1 MiB. Image payloads
// go through handleDetect, which sets its own limit.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

// storeErrStatus maps the store's sentinel errors onto HTTP statuses.
func storeErrStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}
