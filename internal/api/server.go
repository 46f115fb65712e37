package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/safepaws-ai/safepaws-backend/internal/classifier"
	"github.com/safepaws-ai/safepaws-backend/internal/geo"
	"github.com/safepaws-ai/safepaws-backend/internal/payments"
	"github.com/safepaws-ai/safepaws-backend/internal/store"
)

// ─────────────────────────────────────────────
// TYPES
// ─────────────────────────────────────────────

// Enqueuer hands SOS reports to the dispatch worker.
type Enqueuer interface {
	Enqueue(ctx context.Context, sosID string) error
}

// Server wires the HTTP handlers to the store and the external services.
type Server struct {
	store      *store.Store
	geo        *geo.Client
	classifier classifier.Classifier
	payments   payments.Client
	dispatch   Enqueuer
	webhookKey string
	logger     *slog.Logger
}

// NewServer builds a Server. Any of geo, classifier, payments and dispatch
// may be nil; the corresponding endpoints then reply 503.
func NewServer(
	st *store.Store,
	geoClient *geo.Client,
	cls classifier.Classifier,
	pay payments.Client,
	dispatch Enqueuer,
	webhookKey string,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:      st,
		geo:        geoClient,
		classifier: cls,
		payments:   pay,
		dispatch:   dispatch,
		webhookKey: webhookKey,
		logger:     logger,
	}
}

// ─────────────────────────────────────────────
// ROUTES
// ─────────────────────────────────────────────

// Routes assembles the chi router for the whole API surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Auth-Token"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)

	// Stripe calls this; it authenticates with its signature header.
	r.Post("/api/webhooks/stripe", s.handleStripeWebhook)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		r.Get("/assessments/questions", s.handleQuestionnaire)
		r.Get("/hotspots", s.handleListHotspots)

		// Everything below requires a session token.
		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)

			r.Post("/assessments", s.handleSubmitAssessment)
			r.Get("/assessments", s.handleListAssessments)

			r.Post("/sos", s.handleCreateSOS)
			r.Get("/sos", s.handleListSOS)
			r.Get("/sos/{id}", s.handleGetSOS)
			r.With(s.requireRole(store.RoleVolunteer, store.RoleVet, store.RoleNGO, store.RoleAdmin)).
				Post("/sos/{id}/assign", s.handleAssignSOS)
			r.With(s.requireRole(store.RoleVolunteer, store.RoleVet, store.RoleNGO, store.RoleAdmin)).
				Post("/sos/{id}/resolve", s.handleResolveSOS)

			r.With(s.requireRole(store.RoleNGO, store.RoleAdmin)).
				Post("/campaigns", s.handleCreateCampaign)
			r.Get("/campaigns", s.handleListCampaigns)
			r.Get("/campaigns/{id}", s.handleGetCampaign)
			r.With(s.requireRole(store.RoleNGO, store.RoleVet, store.RoleAdmin)).
				Post("/campaigns/{id}/progress", s.handleCampaignProgress)

			r.With(s.requireRole(store.RoleNGO, store.RoleAdmin)).
				Post("/tasks", s.handleCreateTask)
			r.Get("/tasks", s.handleListTasks)
			r.Patch("/tasks/{id}/status", s.handleUpdateTaskStatus)

			r.Post("/cases", s.handleCreateCase)
			r.Get("/cases", s.handleListCases)
			r.Get("/cases/{id}", s.handleGetCase)
			r.With(s.requireRole(store.RoleVet, store.RoleNGO, store.RoleAdmin)).
				Patch("/cases/{id}/status", s.handleUpdateCaseStatus)
			r.With(s.requireRole(store.RoleVet)).
				Post("/cases/{id}/medications", s.handleAddMedication)

			r.Post("/posts", s.handleCreatePost)
			r.Get("/posts", s.handleListPosts)
			r.Post("/posts/{id}/like", s.handleLikePost)
			r.Post("/posts/{id}/comments", s.handleAddComment)

			r.Get("/conversations", s.handleListConversations)
			r.Get("/conversations/{id}/messages", s.handleListMessages)
			r.Post("/conversations/{id}/read", s.handleMarkRead)
			r.Post("/messages", s.handleSendMessage)

			r.Post("/donations", s.handleCreateDonation)
			r.With(s.requireRole(store.RoleNGO, store.RoleAdmin)).
				Get("/donations", s.handleListDonations)

			r.Get("/notifications", s.handleListNotifications)
			r.Post("/notifications/seen", s.handleMarkNotificationsSeen)

			r.Get("/geo/geocode", s.handleGeocode)
			r.Get("/geo/reverse", s.handleReverseGeocode)
			r.Get("/geo/route", s.handleRoute)

			r.Post("/detect", s.handleDetect)

			r.With(s.requireRole(store.RoleAdmin)).
				Get("/users", s.handleListUsers)
			r.With(s.requireRole(store.RoleAdmin)).
				Post("/users/{email}/deactivate", s.handleDeactivateUser)
		})
	})

	return r
}

// ─────────────────────────────────────────────
// HANDLERS
// ─────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
