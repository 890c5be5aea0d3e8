package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/coachflow/internal/assistant"
	"github.com/wolfman30/coachflow/internal/coach"
	"github.com/wolfman30/coachflow/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/coachflow/internal/http/middleware"
	"github.com/wolfman30/coachflow/internal/leads"
	"github.com/wolfman30/coachflow/internal/observability/metrics"
	"github.com/wolfman30/coachflow/internal/webchat"
	"github.com/wolfman30/coachflow/pkg/logging"
)

const testSecret = "router-secret"

func newTestRouter(t *testing.T, mutate func(*Config)) http.Handler {
	t.Helper()
	logger := logging.Discard()
	reg := prometheus.NewRegistry()

	store := coach.NewMemoryStore()
	svc := coach.NewService(store, store, nil, coach.ServiceConfig{}, logger)
	a := assistant.New(svc, assistant.Options{
		Timeout: time.Second,
		Logger:  logger,
		Metrics: metrics.NewAssistantMetrics(reg),
	})
	manager := assistant.NewManager(a, assistant.NewMemorySessionStore(), logger)
	chat := webchat.NewHandler(manager, logger)

	cfg := &Config{
		Logger:          logger,
		Assistant:       handlers.NewAssistantHandler(manager, chat, logger),
		Coach:           handlers.NewCoachHandler(svc, logger),
		Webchat:         chat,
		Leads:           leads.NewHandler(leads.NewInMemoryRepository(), svc, logger),
		MetricsHandler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		AdminAuthSecret: testSecret,
	}
	if mutate != nil {
		mutate(cfg)
	}
	return New(cfg)
}

func authed(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	token, err := httpmiddleware.IssueAdminToken(testSecret, "coach-1", "", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp healthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouterHealthReportsFailingDependency(t *testing.T) {
	router := newTestRouter(t, func(cfg *Config) {
		cfg.HealthChecks = map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		}
	})

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp healthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, map[string]string{"postgres": "ok", "redis": "down"}, resp.Checks)
}

func TestRouterRequiresTokenForAssistant(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{"/assistant/sessions", "/api/clients"} {
		method := http.MethodGet
		if path == "/assistant/sessions" {
			method = http.MethodPost
		}
		rec := serve(router, httptest.NewRequest(method, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRouterAssistantConversationAndMetrics(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := serve(router, authed(t, http.MethodPost, "/assistant/sessions", ""))
	require.Equal(t, http.StatusCreated, rec.Code)
	var sess handlers.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))

	rec = serve(router, authed(t, http.MethodPost, "/assistant/sessions/"+sess.ID+"/messages", `{"text":"add client Rahul 9876543210"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var msg assistant.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Contains(t, msg.Text, "Added **Rahul**")
	assert.NotEmpty(t, msg.Actions)

	rec = serve(router, authed(t, http.MethodGet, "/api/clients", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "9876543210")

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "coachflow_assistant_turns_total")
	assert.Contains(t, rec.Body.String(), "coachflow_assistant_flows_total")
}

func TestRouterRateLimitsMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	router := newTestRouter(t, func(cfg *Config) {
		cfg.RateLimiter = httpmiddleware.NewRateLimiter(ctx, 0.001, 2)
	})

	rec := serve(router, authed(t, http.MethodPost, "/assistant/sessions", ""))
	var sess handlers.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))

	path := "/assistant/sessions/" + sess.ID + "/messages"
	assert.Equal(t, http.StatusOK, serve(router, authed(t, http.MethodPost, path, `{"text":"help"}`)).Code)
	assert.Equal(t, http.StatusOK, serve(router, authed(t, http.MethodPost, path, `{"text":"help"}`)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, authed(t, http.MethodPost, path, `{"text":"help"}`)).Code)

	rec = serve(router, authed(t, http.MethodGet, "/assistant/sessions/"+sess.ID, ""))
	assert.Equal(t, http.StatusOK, rec.Code, "reads are not limited")
}

func TestRouterOpenWithoutSecret(t *testing.T) {
	router := newTestRouter(t, func(cfg *Config) { cfg.AdminAuthSecret = "" })

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t, func(cfg *Config) {
		cfg.CORSAllowedOrigins = []string{"https://app.coachflow.test"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/assistant/sessions", nil)
	req.Header.Set("Origin", "https://app.coachflow.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := serve(router, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.coachflow.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterLeadCaptureIsPublicAndTriageIsNot(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := serve(router, httptest.NewRequest(http.MethodPost, "/leads/interest",
		strings.NewReader(`{"lead_type":"callback","name":"Asha","phone":"+919800002222"}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Lead leads.Lead `json:"lead"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	assert.Equal(t, http.StatusUnauthorized, serve(router, httptest.NewRequest(http.MethodGet, "/leads", nil)).Code)

	rec = serve(router, authed(t, http.MethodGet, "/leads", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Asha")

	rec = serve(router, authed(t, http.MethodPost, "/leads/"+created.Lead.ID+"/convert", ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(router, authed(t, http.MethodGet, "/api/clients", ""))
	assert.Contains(t, rec.Body.String(), "Asha")
}
