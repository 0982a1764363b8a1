package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outlinerhq/termbridge/internal/infrastructure/config"
	"github.com/outlinerhq/termbridge/internal/infrastructure/logging"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Default()
	srv := New(cfg, logging.NewNop())
	return srv.router
}

func TestRoutes(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/", "/health", "/sessions", "/metrics"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, "GET %s", path)
	}
}

func TestCORSHeadersPresent(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://widget.example")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsExposed(t *testing.T) {
	router := newTestRouter(t)

	// Generate one request so counters exist.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "termbridge_http_requests_total")
}
