// Package middlewares provides the HTTP middleware used by the relay.
//
// # Request ID
//
// RequestID tags every request with an ID taken from X-Request-ID (or
// X-Correlation-ID) or a fresh UUID. Pair it with RequestIDExtractor so the
// ID shows up in every log line:
//
//	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
//	app := internal.New(
//	    internal.WithLogger(log),
//	    internal.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover turns panics into *PanicError values handed to the global
// ErrorHandler, which renders them like any other 500.
//
// # CORS
//
// CORS answers preflights and adds Access-Control headers for allowed
// origins. Requests without Origin are left alone.
//
//	middlewares.CORS(
//	    middlewares.WithAllowOrigins(cfg.AllowedOrigins...),
//	    middlewares.WithAllowCredentials(),
//	)
//
// # Metrics
//
// Metrics feeds request counters and latency histograms registered with
// NewHTTPMetrics.
//
// # BodyLimit
//
// BodyLimit caps request bodies. It is meant for individual routes:
//
//	r.POST("/send-email", h.send, middlewares.BodyLimit(middlewares.DefaultBodyLimit))
package middlewares
