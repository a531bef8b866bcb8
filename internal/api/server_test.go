package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	return &Server{
		jwtSecret:      []byte("test-secret"),
		logger:         zerolog.Nop(),
		allowedOrigins: map[string]struct{}{"https://dairy.example.com": {}},
		now:            time.Now,
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()

	s.Mux().ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer()

	r := httptest.NewRequest("OPTIONS", "/data/sales/save", nil)
	r.Header.Set("Origin", "https://dairy.example.com")
	rec := httptest.NewRecorder()
	s.Mux().ServeHTTP(rec, r)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://dairy.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORSUnknownOriginGetsNoAllowHeader(t *testing.T) {
	s := newTestServer()

	r := httptest.NewRequest("OPTIONS", "/data/sales/save", nil)
	r.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	s.Mux().ServeHTTP(rec, r)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestProtectedRouteRejectsMissingToken(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.Mux().ServeHTTP(rec, httptest.NewRequest("GET", "/data/daily-reports/2025-08-15", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestRandomOTPShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := randomOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}
