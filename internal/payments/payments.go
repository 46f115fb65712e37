// Package payments defines the interface for Stripe API calls and webhook
// verification used by the donations flow.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
)

// ─── TYPES ────────────────────────────────────────────────────────────────────

// CreatePaymentIntentParams holds the inputs for one donation payment.
// Amount is in minor currency units (paise for INR).
type CreatePaymentIntentParams struct {
	Amount   int64
	Currency string
	Email    string
	Metadata map[string]string
}

// PaymentIntent is the subset of a Stripe PaymentIntent the donations flow
// needs.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// Event is a parsed Stripe webhook event. DataRaw contains the raw JSON of
// the event's data.object so handlers unmarshal only what they need.
type Event struct {
	ID      string
	Type    string
	DataRaw json.RawMessage
}

// ─── CLIENT INTERFACE ─────────────────────────────────────────────────────────

// Client is the interface the api package uses for all Stripe calls. The
// concrete implementation wraps the official stripe-go SDK; tests inject a
// stub.
type Client interface {
	// CreatePaymentIntent creates a new PI and returns its client_secret
	// for the browser to confirm.
	CreatePaymentIntent(ctx context.Context, p CreatePaymentIntentParams) (PaymentIntent, error)

	// VerifyWebhook validates the Stripe-Signature header and returns the
	// parsed event. Errors on an invalid or expired signature.
	VerifyWebhook(payload []byte, sigHeader string, secret string) (Event, error)
}

// ExtractPaymentIntentID pulls the PaymentIntent id from the event's
// data.object. Works for payment_intent.* events.
func ExtractPaymentIntentID(event Event) (string, error) {
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(event.DataRaw, &obj); err != nil {
		return "", fmt.Errorf("payments: unmarshal payment intent id: %w", err)
	}
	if obj.ID == "" {
		return "", fmt.Errorf("payments: payment intent id is empty in event %s", event.ID)
	}
	return obj.ID, nil
}
