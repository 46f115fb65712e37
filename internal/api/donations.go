package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/safepaws-ai/safepaws-backend/internal/payments"
	"github.com/safepaws-ai/safepaws-backend/internal/store"
)

// ─────────────────────────────────────────────
// CONSTANTS
// ─────────────────────────────────────────────

// Stripe caps webhook payloads at 64KB; this leaves headroom.
const maxWebhookBody = 1 << 16

// ─────────────────────────────────────────────
// TYPES
// ─────────────────────────────────────────────

type donationRequest struct {
	Amount     int64  `json:"amount"` // paise
	CampaignID string `json:"campaign_id"`
}

type donationResponse struct {
	Donation     store.Donation `json:"donation"`
	ClientSecret string         `json:"client_secret"`
}

// ─────────────────────────────────────────────
// HANDLERS
// ─────────────────────────────────────────────

// handleCreateDonation creates a Stripe PaymentIntent and records the pledge
// as pending. The webhook flips it to paid once Stripe confirms.
func (s *Server) handleCreateDonation(w http.ResponseWriter, r *http.Request) {
	if s.payments == nil {
		s.respondErr(w, http.StatusServiceUnavailable, "payments are not configured")
		return
	}
	user, _ := userFrom(r)

	var req donationRequest
	if err := decode(r, &req); err != nil {
		s.respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount < 100 {
		s.respondErr(w, http.StatusBadRequest, "minimum donation is 100 paise")
		return
	}
	if req.CampaignID != "" {
		if _, err := s.store.GetCampaign(req.CampaignID); err != nil {
			s.respondErr(w, http.StatusBadRequest, "campaign not found")
			return
		}
	}

	pi, err := s.payments.CreatePaymentIntent(r.Context(), payments.CreatePaymentIntentParams{
		Amount:   req.Amount,
		Currency: "inr",
		Email:    user.Email,
		Metadata: map[string]string{
			"campaign_id": req.CampaignID,
			"donor":       user.Email,
		},
	})
	if err != nil {
		s.logger.Error("create payment intent", "error", err)
		s.respondErr(w, http.StatusBadGateway, "payment provider error")
		return
	}

	d, err := s.store.CreateDonation(store.NewDonationParams{
		Donor:         user.Name,
		Email:         user.Email,
		Amount:        req.Amount,
		CampaignID:    req.CampaignID,
		PaymentIntent: pi.ID,
	})
	if err != nil {
		s.respondErr(w, http.StatusInternalServerError, "could not save donation")
		return
	}

	s.respond(w, http.StatusCreated, donationResponse{
		Donation:     d,
		ClientSecret: pi.ClientSecret,
	})
}

func (s *Server) handleListDonations(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]any{
		"donations":    s.store.ListDonations(),
		"total_raised": s.store.TotalRaised(),
	})
}

// handleStripeWebhook verifies the event signature and marks the matching
// donation paid. Duplicate deliveries are acknowledged without re-crediting.
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	if s.payments == nil {
		s.respondErr(w, http.StatusServiceUnavailable, "payments are not configured")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		s.respondErr(w, http.StatusBadRequest, "could not read payload")
		return
	}

	event, err := s.payments.VerifyWebhook(payload, r.Header.Get("Stripe-Signature"), s.webhookKey)
	if err != nil {
		s.logger.Warn("webhook signature rejected", "error", err)
		s.respondErr(w, http.StatusBadRequest, "invalid signature")
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		piID, err := payments.ExtractPaymentIntentID(event)
		if err != nil {
			s.respondErr(w, http.StatusBadRequest, "malformed event")
			return
		}
		d, err := s.store.MarkDonationPaid(piID)
		switch {
		case err == nil:
			s.logger.Info("donation paid", "donation", d.ID, "payment_intent", piID)
		case errors.Is(err, store.ErrDonationAlreadyPaid):
			// Stripe retries deliveries; a duplicate is fine.
		case errors.Is(err, store.ErrNotFound):
			s.logger.Warn("webhook for unknown payment intent", "payment_intent", piID)
		default:
			s.respondErr(w, http.StatusInternalServerError, "could not update donation")
			return
		}
	default:
		s.logger.Info("ignoring webhook event", "type", event.Type)
	}

	s.respond(w, http.StatusOK, map[string]string{"received": "true"})
}
