package main

import (
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/contactmail/internal"
	"github.com/dmitrymomot/contactmail/internal/config"
	"github.com/dmitrymomot/contactmail/internal/contact"
	"github.com/dmitrymomot/contactmail/internal/handlers"
	"github.com/dmitrymomot/contactmail/middlewares"
	"github.com/dmitrymomot/contactmail/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mailMetrics := contact.NewMetrics(reg)

	settings := cfg.Settings()
	if !settings.Configured() {
		log.Warn("mail provider credentials are missing, sends will fail",
			slog.String("provider", cfg.MailProvider))
	}

	dispatcher := contact.NewDispatcher(cfg.Provider(), settings,
		contact.WithLogger(log),
		contact.WithMetrics(mailMetrics),
	)

	app := internal.New(
		internal.WithLogger(log),

		internal.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Metrics(middlewares.NewHTTPMetrics(reg)),
			middlewares.Recover(),
			middlewares.CORS(
				middlewares.WithAllowOrigins(cfg.AllowedOrigins...),
				middlewares.WithAllowCredentials(),
			),
		),

		internal.WithHandlers(
			handlers.NewStatusHandler(),
			handlers.NewEmailHandler(cfg.APIPrefix, dispatcher, contact.NewValidator(log),
				handlers.WithRejectMetrics(mailMetrics),
			),
		),

		internal.WithErrorHandler(handlers.ErrorHandler),
		internal.WithNotFoundHandler(handlers.NotFound),
		internal.WithMethodNotAllowedHandler(handlers.MethodNotAllowed),

		internal.WithMount("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
		internal.WithHealthChecks(
			internal.WithReadinessCheck("mail", dispatcher.Check),
		),
	)

	err = app.Run(cfg.Addr(),
		internal.Logger(log),
		internal.ShutdownTimeout(cfg.ShutdownTimeout),
		internal.ShutdownHook(logger.SentryFlusher(cfg.Log.Sentry)),
	)
	if err != nil {
		log.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
