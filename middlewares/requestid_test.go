package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactmail/internal"
	"github.com/dmitrymomot/contactmail/middlewares"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates UUID when not present", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		var captured string
		handler := middlewares.RequestID()(func(c internal.Context) error {
			captured = middlewares.GetRequestID(c)
			return nil
		})

		require.NoError(t, handler(newTestContext(rec, req)))
		require.NotEmpty(t, captured)
		require.Equal(t, captured, rec.Header().Get("X-Request-ID"))
		_, err := uuid.Parse(captured)
		require.NoError(t, err)
	})

	t.Run("uses existing request ID from header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "upstream-123")
		rec := httptest.NewRecorder()

		handler := middlewares.RequestID()(func(c internal.Context) error { return nil })

		require.NoError(t, handler(newTestContext(rec, req)))
		require.Equal(t, "upstream-123", rec.Header().Get("X-Request-ID"))
	})

	t.Run("ignores oversized upstream IDs", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("a", 500))
		rec := httptest.NewRecorder()

		handler := middlewares.RequestID(middlewares.WithRequestIDGenerator(func() string { return "fixed" }))(
			func(c internal.Context) error { return nil },
		)

		require.NoError(t, handler(newTestContext(rec, req)))
		require.Equal(t, "fixed", rec.Header().Get("X-Request-ID"))
	})

	t.Run("custom header list", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Trace", "trace-1")
		rec := httptest.NewRecorder()

		handler := middlewares.RequestID(middlewares.WithRequestIDHeaders("X-Trace"))(
			func(c internal.Context) error { return nil },
		)

		require.NoError(t, handler(newTestContext(rec, req)))
		require.Equal(t, "trace-1", rec.Header().Get("X-Request-ID"))
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	extract := middlewares.RequestIDExtractor()

	t.Run("returns attribute when request ID present", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc")
		tc := newTestContext(httptest.NewRecorder(), req)

		handler := middlewares.RequestID()(func(c internal.Context) error {
			attr, ok := extract(c)
			require.True(t, ok)
			require.Equal(t, "request_id", attr.Key)
			require.Equal(t, "abc", attr.Value.String())
			return nil
		})
		require.NoError(t, handler(tc))
	})

	t.Run("returns false when absent", func(t *testing.T) {
		t.Parallel()

		_, ok := extract(context.Background())
		require.False(t, ok)
	})
}
