package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// twilioClient is the concrete SMSSender backed by the Twilio Messages API.
type twilioClient struct {
	accountSID string
	authToken  string
	fromPhone  string
	httpClient *http.Client
}

// NewTwilioClient returns an SMSSender that delivers via Twilio.
func NewTwilioClient(accountSID, authToken, fromPhone string) SMSSender {
	return &twilioClient{
		accountSID: accountSID,
		authToken:  authToken,
		fromPhone:  fromPhone,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type twilioResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"` // error detail on failure
	Code    int    `json:"code"`
}

// SendSMS posts one message. The body is prefixed with the platform name,
// matching the email channel's branding.
func (c *twilioClient) SendSMS(ctx context.Context, to, message string) error {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", c.accountSID)

	form := url.Values{}
	form.Set("From", c.fromPhone)
	form.Set("To", to)
	form.Set("Body", "🐾 SafePaws AI: "+message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("notify: build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: sms request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("notify: read sms response: %w", err)
	}

	var parsed twilioResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("notify: unmarshal sms response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify: twilio error %d: %s", parsed.Code, parsed.Message)
	}
	return nil
}
