// Package classifier defines the contract for the disease-detection image
// classifier and provides an HTTP inference-endpoint implementation. The
// model itself is an opaque pretrained artifact served elsewhere; this
// package knows only predict(image) → (label, confidence).
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Prediction is the classifier's answer for one image.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"` // in [0, 1]
}

// Classifier is the black-box contract. Tests inject a stub; production uses
// the HTTP client below.
type Classifier interface {
	Classify(ctx context.Context, image []byte) (Prediction, error)
}

// ─── HTTP CLIENT ──────────────────────────────────────────────────────────────

// httpClassifier posts the raw image to an inference endpoint and reads back
// the top prediction.
type httpClassifier struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPClassifier returns a Classifier backed by a remote inference
// service. Model loading and input preprocessing happen server-side.
func NewHTTPClassifier(endpoint string) Classifier {
	return &httpClassifier{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second, // inference on cold models can be slow
		},
	}
}

type inferenceResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

func (c *httpClassifier) Classify(ctx context.Context, image []byte) (Prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(image))
	if err != nil {
		return Prediction{}, fmt.Errorf("classifier: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("classifier: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Prediction{}, fmt.Errorf("classifier: read response: %w", err)
	}

	var parsed inferenceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Prediction{}, fmt.Errorf("classifier: unmarshal response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != "" {
		return Prediction{}, fmt.Errorf("classifier: inference error: %s", parsed.Error)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Prediction{}, fmt.Errorf("classifier: unexpected status %d", resp.StatusCode)
	}
	if parsed.Confidence < 0 || parsed.Confidence > 1 {
		return Prediction{}, fmt.Errorf("classifier: confidence %f out of range [0,1]", parsed.Confidence)
	}

	return Prediction{Label: parsed.Label, Confidence: parsed.Confidence}, nil
}
