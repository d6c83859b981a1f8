// Package logger builds the service's structured JSON logger.
//
// Loggers created with [New] write JSON to stdout, add request-scoped
// attributes through [ContextExtractor] functions, and redact values of
// well-known secret keys (password, api_key, token, ...):
//
//	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "email sent", slog.String("message_id", id))
//	// {"level":"INFO","msg":"email sent","message_id":"<...>","request_id":"..."}
//
// # Sentry
//
// When SENTRY_DSN is set, records are also sent to Sentry: errors become
// issues, warnings and errors are kept as logs. If Sentry fails to
// initialize, the error is logged and stdout logging continues alone.
// Register [SentryFlusher] as a shutdown hook so buffered events are sent
// before the process exits.
//
// # Testing
//
// [NewNope] returns a logger that discards everything.
package logger
