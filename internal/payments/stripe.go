package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"
)

// stripeClient is the concrete Client backed by the official stripe-go SDK.
type stripeClient struct {
	secretKey string
}

// NewStripeClient returns a Client backed by the Stripe SDK. secretKey is
// the STRIPE_SECRET_KEY env var.
func NewStripeClient(secretKey string) Client {
	return &stripeClient{secretKey: secretKey}
}

// CreatePaymentIntent creates a Stripe PaymentIntent for one donation. The
// donor's email rides along as receipt_email so Stripe sends its own receipt.
func (c *stripeClient) CreatePaymentIntent(ctx context.Context, p CreatePaymentIntentParams) (PaymentIntent, error) {
	stripe.Key = c.secretKey

	meta := make(map[string]string, len(p.Metadata))
	for k, v := range p.Metadata {
		meta[k] = v
	}

	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(p.Amount),
		Currency:     stripe.String(p.Currency),
		ReceiptEmail: stripe.String(p.Email),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: meta,
	}
	// Propagate the context deadline to the Stripe HTTP call.
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return PaymentIntent{}, fmt.Errorf("payments: create payment intent: %w", err)
	}

	return PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// VerifyWebhook validates the Stripe-Signature header and returns the parsed
// event. The SDK enforces its default 300-second tolerance window.
func (c *stripeClient) VerifyWebhook(payload []byte, sigHeader string, secret string) (Event, error) {
	stripeEvent, err := webhook.ConstructEvent(payload, sigHeader, secret)
	if err != nil {
		return Event{}, fmt.Errorf("payments: webhook verification failed: %w", err)
	}
	return Event{
		ID:      stripeEvent.ID,
		Type:    string(stripeEvent.Type),
		DataRaw: stripeEvent.Data.Raw,
	}, nil
}
