package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactmail/internal"
	"github.com/dmitrymomot/contactmail/middlewares"
)

func runCORS(t *testing.T, req *http.Request, opts ...middlewares.CORSOption) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	rec := httptest.NewRecorder()
	called := false
	handler := middlewares.CORS(opts...)(func(c internal.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(newTestContext(rec, req)))
	return rec, called
}

func TestCORS(t *testing.T) {
	t.Parallel()

	siteOpts := []middlewares.CORSOption{
		middlewares.WithAllowOrigins("http://localhost:3000", "https://portfolio.example"),
		middlewares.WithAllowCredentials(),
	}

	t.Run("default configuration allows all origins", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://example.com")

		rec, called := runCORS(t, req)
		require.True(t, called)
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("request without Origin passes without headers", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/api/send-email", nil)

		rec, called := runCORS(t, req, siteOpts...)
		require.True(t, called)
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allowed origin is echoed with credentials", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/api/send-email", nil)
		req.Header.Set("Origin", "https://portfolio.example")

		rec, called := runCORS(t, req, siteOpts...)
		require.True(t, called)
		require.Equal(t, "https://portfolio.example", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		require.Contains(t, rec.Header().Values("Vary"), "Origin")
	})

	t.Run("unlisted origin gets no CORS headers", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/api/send-email", nil)
		req.Header.Set("Origin", "https://evil.example")

		rec, called := runCORS(t, req, siteOpts...)
		require.True(t, called)
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight short-circuits with 204", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodOptions, "/api/send-email", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		rec, called := runCORS(t, req, append(siteOpts, middlewares.WithMaxAge(time.Hour))...)
		require.False(t, called)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
		require.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
		require.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
		require.Contains(t, rec.Header().Values("Vary"), "Access-Control-Request-Method")
	})

	t.Run("plain OPTIONS without request method reaches handler", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")

		_, called := runCORS(t, req, siteOpts...)
		require.True(t, called)
	})

	t.Run("empty origins are dropped", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")

		rec, _ := runCORS(t, req, middlewares.WithAllowOrigins("", " ", "http://localhost:3000"))
		require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
