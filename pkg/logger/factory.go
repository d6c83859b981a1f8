package logger

import (
	"io"
	"log/slog"
	"os"
)

// Config configures the application logger.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Sentry SentryConfig
	Level  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

// New creates a JSON logger writing to stdout.
// If cfg.Sentry.DSN is set, warnings and errors are also sent to Sentry.
// Attributes whose key looks like a secret are redacted.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewLogHandlerDecorator(newHandler(os.Stdout, cfg), extractors...))
}

func newHandler(w io.Writer, cfg Config) slog.Handler {
	var h slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       cfg.Level,
		ReplaceAttr: redactSecrets,
	})

	if sh := newSentryHandler(cfg.Sentry, h); sh != nil {
		h = newMultiHandler(h, sh)
	}
	return h
}
