// Package notify defines the outbound notification channels (transactional
// email and SMS) and their provider-backed implementations.
//
// Delivery is fire-and-forget by contract: callers log a failed send and
// move on — a notification failure must never fail the operation that
// triggered it.
package notify

import "context"

// EmailSender delivers transactional email. Tests inject a stub that records
// calls without hitting the network.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers a short text message.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// ─── NO-OP SENDERS ────────────────────────────────────────────────────────────

// Noop satisfies both interfaces and delivers nothing. Used in development
// when no provider credentials are configured, so the rest of the pipeline
// behaves exactly as in production.
type Noop struct{}

func (Noop) SendEmail(ctx context.Context, to, subject, body string) error { return nil }
func (Noop) SendSMS(ctx context.Context, to, message string) error         { return nil }
