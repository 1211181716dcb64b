package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/handlers"
	"alfredoptarigan/ai-interviewer/internal/metrics"
	"alfredoptarigan/ai-interviewer/internal/middleware"
)

func newTestApp(t *testing.T, limiter *middleware.LimiterManager) *fiber.App {
	t.Helper()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	m.InterviewEvent("started")

	return New(Options{
		Version:     "test",
		BodyLimit:   1 << 20,
		RateLimiter: limiter,
		Gatherer:    registry,
		Metrics:     m,
		Log:         zap.NewNop(),
	}, Handlers{
		Resume:    handlers.NewResumeHandler(nil, nil, nil, 1<<20, zap.NewNop()),
		Interview: handlers.NewInterviewHandler(nil, zap.NewNop()),
		User:      handlers.NewUserHandler(nil, zap.NewNop()),
		Health:    handlers.NewHealthHandler(nil, "test", zap.NewNop()),
	})
}

func TestServer_Banner(t *testing.T) {
	app := newTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "AI Interviewer API", body["message"])
	assert.Contains(t, body["endpoints"], "POST /start-interview")
}

func TestServer_NotFoundUsesJSONErrors(t *testing.T) {
	app := newTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(fiber.StatusNotFound), body["code"])
	assert.NotEmpty(t, body["error"])
}

func TestServer_Metrics(t *testing.T) {
	app := newTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), `interviewer_interviews_total{event="started"} 1`)
}

func TestServer_CORS(t *testing.T) {
	app := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_RateLimitSkipsHealth(t *testing.T) {
	limiter := middleware.NewLimiterManager(1, 1, zap.NewNop())
	defer limiter.Close()
	app := newTestApp(t, limiter)

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestErrorHandler_OversizedBodyIsBadRequest(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler(zap.NewNop(), 1024)})
	app.Post("/parse-resume", func(c *fiber.Ctx) error {
		return fiber.ErrRequestEntityTooLarge
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/parse-resume", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Resume file too large. Max size: 1024 bytes", body["error"])
	assert.EqualValues(t, fiber.StatusBadRequest, body["code"])
}
