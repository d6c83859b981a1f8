package logger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

const sentryFlushTimeout = 2 * time.Second

// SentryConfig holds Sentry error tracking configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
}

// newSentryHandler initializes the Sentry client and returns a handler that
// turns errors into issues and keeps warnings as breadcrumb logs.
// Returns nil if Sentry is not configured or fails to initialize;
// the failure is reported through fallback.
func newSentryHandler(cfg SentryConfig, fallback slog.Handler) slog.Handler {
	if cfg.DSN == "" {
		return nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(fallback).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return nil
	}

	return sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())
}

// SentryFlusher returns a shutdown hook that drains buffered Sentry events.
// It is a no-op when Sentry is not configured.
func SentryFlusher(cfg SentryConfig) func(context.Context) error {
	return func(context.Context) error {
		if cfg.DSN == "" {
			return nil
		}
		if !sentry.Flush(sentryFlushTimeout) {
			return errors.New("logger: sentry flush timed out")
		}
		return nil
	}
}
