package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/contactmail/internal"
)

// HTTPMetrics holds the Prometheus collectors fed by the Metrics middleware.
type HTTPMetrics struct {
	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP collectors with reg.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	f := promauto.With(reg)
	return &HTTPMetrics{
		RequestCounter: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "contactmail",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "contactmail",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "contactmail",
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
	}
}

// Metrics returns middleware that records request count, latency and
// in-flight requests. Routes are labelled by their chi pattern, so path
// parameters never blow up label cardinality.
func Metrics(m *HTTPMetrics) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			m.RequestsInFlight.Inc()
			defer m.RequestsInFlight.Dec()

			start := time.Now()
			err := next(c)

			route := routePattern(c.Request())
			method := c.Request().Method
			m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			m.RequestCounter.WithLabelValues(method, route, strconv.Itoa(statusOf(c, err))).Inc()

			return err
		}
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// statusOf reports the status that was or will be sent. An error still in
// flight is rendered later by the error handler.
func statusOf(c internal.Context, err error) int {
	if rw := c.ResponseWriter(); rw != nil && (err == nil || rw.Written()) {
		return rw.Status()
	}
	if err == nil {
		return http.StatusOK
	}
	if he, ok := internal.AsHTTPError(err); ok {
		return he.Code
	}
	return http.StatusInternalServerError
}
