package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/safepaws-ai/safepaws-backend/internal/classifier"
	"github.com/safepaws-ai/safepaws-backend/internal/docstore"
	"github.com/safepaws-ai/safepaws-backend/internal/payments"
	"github.com/safepaws-ai/safepaws-backend/internal/store"
)

// ─────────────────────────────────────────────
// STUBS
// ─────────────────────────────────────────────

type stubEnqueuer struct {
	ids []string
}

func (s *stubEnqueuer) Enqueue(_ context.Context, sosID string) error {
	s.ids = append(s.ids, sosID)
	return nil
}

type stubClassifier struct {
	pred classifier.Prediction
	err  error
}

func (s *stubClassifier) Classify(_ context.Context, _ []byte) (classifier.Prediction, error) {
	return s.pred, s.err
}

// stubPayments issues sequential PaymentIntent ids and accepts any webhook
// whose signature header matches "valid".
type stubPayments struct {
	n int
}

func (s *stubPayments) CreatePaymentIntent(_ context.Context, p payments.CreatePaymentIntentParams) (payments.PaymentIntent, error) {
	s.n++
	id := fmt.Sprintf("pi_test_%d", s.n)
	return payments.PaymentIntent{ID: id, ClientSecret: id + "_secret"}, nil
}

func (s *stubPayments) VerifyWebhook(payload []byte, sigHeader string, _ string) (payments.Event, error) {
	if sigHeader != "valid" {
		return payments.Event{}, fmt.Errorf("bad signature")
	}
	var event payments.Event
	var raw struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object json.RawMessage `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return payments.Event{}, err
	}
	event.ID = raw.ID
	event.Type = raw.Type
	event.DataRaw = raw.Data.Object
	return event, nil
}

// ─────────────────────────────────────────────
// HELPERS
// ─────────────────────────────────────────────

type testEnv struct {
	srv      *Server
	router   http.Handler
	store    *store.Store
	enqueuer *stubEnqueuer
	cls      *stubClassifier
	pay      *stubPayments
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	b, err := docstore.Open(t.TempDir())
	require.NoError(t, err)

	st := store.New(b)
	require.NoError(t, st.EnsureAdmin())

	enq := &stubEnqueuer{}
	cls := &stubClassifier{pred: classifier.Prediction{Label: "Mange", Confidence: 0.92}}
	pay := &stubPayments{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := NewServer(st, nil, cls, pay, enq, "whsec_test", logger)
	return &testEnv{
		srv:      srv,
		router:   srv.Routes(),
		store:    st,
		enqueuer: enq,
		cls:      cls,
		pay:      pay,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Auth-Token", token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// signup registers a user (role applied directly for non-user roles) and
// returns a live session token.
func (e *testEnv) signup(t *testing.T, email, role string) string {
	t.Helper()
	_, err := e.store.Register(email, "Test User", "pw", role, "")
	require.NoError(t, err)

	rec := e.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": email, "password": "pw",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// ─────────────────────────────────────────────
// AUTH
// ─────────────────────────────────────────────

func TestRegisterAndLogin(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"email": "priya@example.com", "name": "Priya", "password": "pw", "role": "volunteer",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	view := decodeBody[userView](t, rec)
	require.Equal(t, "priya@example.com", view.Email)
	require.Equal(t, "volunteer", view.Role)
	// The stored password never leaves the server.
	require.NotContains(t, rec.Body.String(), "pw")

	rec = e.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "priya@example.com", "password": "pw",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[loginResponse](t, rec)
	require.Len(t, resp.Token, 64) // 32 random bytes, hex

	rec = e.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "priya@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_AdminRoleBlocked(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"email": "evil@example.com", "password": "pw", "role": "admin",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireUser(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/assessments", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/assessments", "bogus-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token := e.signup(t, "priya@example.com", "user")
	rec = e.do(t, http.MethodGet, "/api/assessments", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := newTestEnv(t)
	userToken := e.signup(t, "user@example.com", "user")
	ngoToken := e.signup(t, "ngo@example.com", "ngo")

	campaign := map[string]any{"zone": "Adyar", "date": "2026-09-15", "target": 50}

	rec := e.do(t, http.MethodPost, "/api/campaigns", userToken, campaign)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/campaigns", ngoToken, campaign)
	require.Equal(t, http.StatusCreated, rec.Code)
}

// ─────────────────────────────────────────────
// ASSESSMENTS
// ─────────────────────────────────────────────

func TestSubmitAssessment_ScoresAndDropsHotspot(t *testing.T) {
	e := newTestEnv(t)
	token := e.signup(t, "priya@example.com", "user")

	rec := e.do(t, http.MethodPost, "/api/assessments", token, map[string]any{
		"location": "T. Nagar",
		"lat":      13.0418,
		"lon":      80.2341,
		"responses": map[string]string{
			"aggression":    "Attacking/Lunging",
			"body_language": "Showing teeth/Snarling",
			"eye_contact":   "Fixed stare with tension",
			"territorial":   "Highly territorial (charging)",
			"past_behavior": "Frequent attacks",
			"approach":      "Charging/Lunging",
			"food_guarding": "Severe (snaps/bites near food)",
			"space":         "Actively defends space",
			"health":        "Appears healthy",
			"pack":          "Alone",
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeBody[assessmentResponse](t, rec)
	require.Equal(t, 193, resp.Assessment.RiskScore)
	require.Equal(t, "Critical Risk", resp.Assessment.RiskLevel)
	require.Len(t, resp.Assessment.Recommendations, 4)
	require.Equal(t, "priya@example.com", resp.Assessment.AssessedBy)

	require.NotNil(t, resp.Hotspot)
	require.Equal(t, "#ef4444", resp.Hotspot.Color)
	require.Equal(t, store.HotspotBiteRisk, resp.Hotspot.Category)

	// The hotspot shows up on the public map without auth.
	rec = e.do(t, http.MethodGet, "/api/hotspots?category=Bite+Risk", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hotspots := decodeBody[[]store.Hotspot](t, rec)
	require.Len(t, hotspots, 1)
}

func TestSubmitAssessment_NoCoordsNoHotspot(t *testing.T) {
	e := newTestEnv(t) // geo client is nil in tests
	token := e.signup(t, "priya@example.com", "user")

	rec := e.do(t, http.MethodPost, "/api/assessments", token, map[string]any{
		"responses": map[string]string{"aggression": "Friendly/Calm"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeBody[assessmentResponse](t, rec)
	require.Nil(t, resp.Hotspot)
	require.Equal(t, "Low Risk", resp.Assessment.RiskLevel)
}

func TestQuestionnaire_IsPublic(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/assessments/questions", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	questions := decodeBody[[]map[string]any](t, rec)
	require.Len(t, questions, 10)
}

// ─────────────────────────────────────────────
// SOS
// ─────────────────────────────────────────────

func TestCreateSOS_Enqueues(t *testing.T) {
	e := newTestEnv(t)
	token := e.signup(t, "priya@example.com", "user")

	rec := e.do(t, http.MethodPost, "/api/sos", token, map[string]any{
		"desc": "Injured dog", "severity": "High", "lat": 13.04, "lon": 80.23,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeBody[store.SOS](t, rec)
	require.Equal(t, store.SOSOpen, created.Status)
	require.Equal(t, []string{created.ID}, e.enqueuer.ids)
}

func TestCreateSOS_Validation(t *testing.T) {
	e := newTestEnv(t)
	token := e.signup(t, "priya@example.com", "user")

	rec := e.do(t, http.MethodPost, "/api/sos", token, map[string]any{
		"desc": "no coords", "severity": "High",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/sos", token, map[string]any{
		"desc": "bad severity", "severity": "Catastrophic", "lat": 13.0, "lon": 80.2,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, e.enqueuer.ids)
}

func TestAssignAndResolveSOS(t *testing.T) {
	e := newTestEnv(t)
	reporter := e.signup(t, "priya@example.com", "user")
	responder := e.signup(t, "vol@example.com", "volunteer")

	rec := e.do(t, http.MethodPost, "/api/sos", reporter, map[string]any{
		"desc": "Injured dog", "severity": "High", "lat": 13.04, "lon": 80.23,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[store.SOS](t, rec)

	// Plain users cannot claim emergencies.
	rec = e.do(t, http.MethodPost, "/api/sos/"+created.ID+"/assign", reporter, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/sos/"+created.ID+"/assign", responder, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	claimed := decodeBody[store.SOS](t, rec)
	require.Equal(t, "vol@example.com", claimed.Assigned)

	rec = e.do(t, http.MethodPost, "/api/sos/"+created.ID+"/resolve", responder, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resolved := decodeBody[store.SOS](t, rec)
	require.Equal(t, store.SOSResolved, resolved.Status)
}

// ─────────────────────────────────────────────
// DONATIONS
// ─────────────────────────────────────────────

func TestDonationFlow_WebhookMarksPaid(t *testing.T) {
	e := newTestEnv(t)
	token := e.signup(t, "priya@example.com", "user")

	rec := e.do(t, http.MethodPost, "/api/donations", token, map[string]any{"amount": 50000})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeBody[donationResponse](t, rec)
	require.Equal(t, store.DonationPending, resp.Donation.Status)
	require.Equal(t, "pi_test_1_secret", resp.ClientSecret)

	event := map[string]any{
		"id":   "evt_1",
		"type": "payment_intent.succeeded",
		"data": map[string]any{"object": map[string]any{"id": "pi_test_1"}},
	}

	// Bad signature is rejected.
	req := webhookRequest(t, event, "nope")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	req = webhookRequest(t, event, "valid")
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, int64(50000), e.store.TotalRaised())

	// Duplicate delivery acks 200 and credits nothing extra.
	req = webhookRequest(t, event, "valid")
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, int64(50000), e.store.TotalRaised())
}

func TestCreateDonation_MinimumAmount(t *testing.T) {
	e := newTestEnv(t)
	token := e.signup(t, "priya@example.com", "user")

	rec := e.do(t, http.MethodPost, "/api/donations", token, map[string]any{"amount": 50})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func webhookRequest(t *testing.T, event map[string]any, signature string) *http.Request {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signature)
	return req
}

// ─────────────────────────────────────────────
// DETECTION
// ─────────────────────────────────────────────

func TestDetect_CreatesCaseFromPrediction(t *testing.T) {
	e := newTestEnv(t)
	token := e.signup(t, "priya@example.com", "user")

	photo := base64.StdEncoding.EncodeToString([]byte("fake-image-bytes"))
	rec := e.do(t, http.MethodPost, "/api/detect", token, map[string]any{
		"photo": photo, "location": "Adyar", "lat": 13.0, "lon": 80.25, "create_case": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[detectResponse](t, rec)
	require.Equal(t, "Mange", resp.Prediction.Label)
	require.NotNil(t, resp.Case)
	require.Equal(t, "Mange", resp.Case.Disease)
	require.Equal(t, "High", resp.Case.Severity) // confidence 0.92
	require.Equal(t, store.CasePending, resp.Case.Status)
}

func TestDetect_RejectsBadPhoto(t *testing.T) {
	e := newTestEnv(t)
	token := e.signup(t, "priya@example.com", "user")

	rec := e.do(t, http.MethodPost, "/api/detect", token, map[string]any{"photo": "not base64!!"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// TASKS
// ─────────────────────────────────────────────

func TestTaskAssignmentNotifiesAndGates(t *testing.T) {
	e := newTestEnv(t)
	ngo := e.signup(t, "ngo@example.com", "ngo")
	vol := e.signup(t, "vol@example.com", "volunteer")
	other := e.signup(t, "other@example.com", "volunteer")

	rec := e.do(t, http.MethodPost, "/api/tasks", ngo, map[string]any{
		"title": "Feed the pack", "assigned_to": "vol@example.com", "priority": "high",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	task := decodeBody[store.Task](t, rec)

	// The assignee got an in-app notification.
	rec = e.do(t, http.MethodGet, "/api/notifications", vol, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	alerts := decodeBody[[]store.Notification](t, rec)
	require.Len(t, alerts, 1)
	require.Equal(t, "New task assigned", alerts[0].Title)

	// Only the assignee (or ngo/admin) can move the task.
	rec = e.do(t, http.MethodPatch, "/api/tasks/"+task.ID+"/status", other, map[string]string{"status": "in_progress"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPatch, "/api/tasks/"+task.ID+"/status", vol, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code)
	done := decodeBody[store.Task](t, rec)
	require.Equal(t, store.TaskCompleted, done.Status)
	require.NotEmpty(t, done.CompletedAt)

	// ?mine=true filters to the caller's tasks.
	rec = e.do(t, http.MethodGet, "/api/tasks?mine=true", other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeBody[[]store.Task](t, rec))
}

// ─────────────────────────────────────────────
// MESSAGES
// ─────────────────────────────────────────────

func TestMessaging_MembershipEnforced(t *testing.T) {
	e := newTestEnv(t)
	priya := e.signup(t, "priya@example.com", "user")
	arun := e.signup(t, "arun@example.com", "user")
	outsider := e.signup(t, "outsider@example.com", "user")

	rec := e.do(t, http.MethodPost, "/api/messages", priya, map[string]string{
		"to": "arun@example.com", "text": "hello",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	msg := decodeBody[store.Message](t, rec)

	rec = e.do(t, http.MethodGet, "/api/conversations/"+msg.ConvoID+"/messages", outsider, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/conversations/"+msg.ConvoID+"/messages", arun, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	msgs := decodeBody[[]store.Message](t, rec)
	require.Len(t, msgs, 1)

	rec = e.do(t, http.MethodPost, "/api/conversations/"+msg.ConvoID+"/read", arun, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, e.store.UnreadCount("arun@example.com"))
}

func TestSendMessage_UnknownRecipient(t *testing.T) {
	e := newTestEnv(t)
	token := e.signup(t, "priya@example.com", "user")

	rec := e.do(t, http.MethodPost, "/api/messages", token, map[string]string{
		"to": "ghost@example.com", "text": "hello?",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
