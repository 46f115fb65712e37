package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// sendgridClient is the concrete EmailSender backed by the SendGrid v3 API.
type sendgridClient struct {
	apiKey     string
	fromAddr   string
	fromName   string
	httpClient *http.Client
}

// NewSendGridClient returns an EmailSender that delivers via SendGrid.
func NewSendGridClient(apiKey, fromAddr, fromName string) EmailSender {
	return &sendgridClient{
		apiKey:   apiKey,
		fromAddr: fromAddr,
		fromName: fromName,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ─── SENDGRID API SHAPES ──────────────────────────────────────────────────────

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgRequest struct {
	Personalizations []struct {
		To []sgAddress `json:"to"`
	} `json:"personalizations"`
	From    sgAddress `json:"from"`
	Subject string    `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

// SendEmail posts one message to the SendGrid mail/send endpoint. The body is
// wrapped in the platform's branded HTML shell; the subject is prefixed with
// the platform name so recipients can filter on it.
func (c *sendgridClient) SendEmail(ctx context.Context, to, subject, body string) error {
	req := sgRequest{
		From:    sgAddress{Email: c.fromAddr, Name: c.fromName},
		Subject: "SafePaws AI - " + subject,
	}
	req.Personalizations = []struct {
		To []sgAddress `json:"to"`
	}{{To: []sgAddress{{Email: to}}}}
	req.Content = []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{{Type: "text/html", Value: emailHTML(subject, body)}}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("notify: marshal email: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.sendgrid.com/v3/mail/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("notify: email request: %w", err)
	}
	defer resp.Body.Close()

	// SendGrid returns 202 Accepted on success with an empty body.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return fmt.Errorf("notify: sendgrid status %d: %.200s", resp.StatusCode, string(detail))
	}
	return nil
}

// emailHTML wraps body content in the platform's branded shell.
func emailHTML(subject, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background: #f8f9fa;">
  <div style="background: linear-gradient(135deg, #6366f1 0%%, #8b5cf6 100%%); padding: 30px; border-radius: 12px 12px 0 0; text-align: center;">
    <h1 style="color: white; margin: 0; font-size: 28px;">🐾 SafePaws AI</h1>
    <p style="color: rgba(255,255,255,0.9); margin: 8px 0 0 0;">Street Dog Welfare Platform</p>
  </div>
  <div style="background: white; padding: 30px; border-radius: 0 0 12px 12px;">
    <h2 style="color: #1e293b; margin-top: 0;">%s</h2>
    <div style="color: #475569; line-height: 1.6;">%s</div>
    <hr style="border: none; border-top: 1px solid #e2e8f0; margin: 24px 0;">
    <p style="color: #94a3b8; font-size: 13px; margin: 0;">
      This is an automated message from SafePaws AI. Please do not reply to this email.
    </p>
  </div>
</body>
</html>`, subject, body)
}
