package contact

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/contactmail/pkg/logger"
	"github.com/dmitrymomot/contactmail/pkg/mailer"
)

// Settings is the fixed mail identity of the deployment.
type Settings struct {
	SenderEmail    string // authenticated sender address
	SenderName     string // display name on contact mail
	TestSenderName string // display name on test mail
	Recipient      string // operator inbox; defaults to SenderEmail

	// ProviderConfigured reports whether the provider has its credentials.
	ProviderConfigured bool
}

// Configured reports whether a send could be attempted at all.
func (s Settings) Configured() bool {
	return s.ProviderConfigured && s.SenderEmail != "" && s.Recipient != ""
}

// Result describes an accepted message.
type Result struct {
	MessageID  string
	Response   string
	StatusCode int
}

// Dispatcher relays messages through a single provider. Each call runs
// configuration check, verify, compose, send and classify in that order
// and stops at the first failure. Nothing is retried.
type Dispatcher struct {
	provider mailer.Provider
	mailer   *mailer.Mailer
	logger   *slog.Logger
	metrics  *Metrics
	now      func() time.Time
	settings Settings
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics records dispatch outcomes.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithClock overrides the time source used for the test mail timestamp.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDispatcher creates a Dispatcher. An empty Recipient falls back to the
// sender address.
func NewDispatcher(p mailer.Provider, s Settings, opts ...Option) *Dispatcher {
	if s.Recipient == "" {
		s.Recipient = s.SenderEmail
	}

	d := &Dispatcher{
		provider: p,
		mailer:   mailer.New(p, newRenderer()),
		logger:   logger.NewNope(),
		now:      time.Now,
		settings: s,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Relay sends a validated submission to the configured recipient.
func (d *Dispatcher) Relay(ctx context.Context, sub *Submission) (*Result, error) {
	return d.dispatch(ctx, kindContact, func(ctx context.Context) (*mailer.Receipt, error) {
		email, err := compose(sub, d.settings)
		if err != nil {
			return nil, err
		}
		return d.mailer.SendRaw(ctx, email)
	})
}

// SendTest sends the fixed test message to the configured recipient.
func (d *Dispatcher) SendTest(ctx context.Context) (*Result, error) {
	return d.dispatch(ctx, kindTest, func(ctx context.Context) (*mailer.Receipt, error) {
		return d.mailer.Send(ctx, mailer.SendParams{
			To:       d.settings.Recipient,
			From:     mailer.Address(d.settings.TestSenderName, d.settings.SenderEmail),
			Template: testTemplate,
			Data:     map[string]any{"SentAt": d.now().UTC().Format(time.RFC3339Nano)},
		})
	})
}

// Check runs the configuration check and provider verification only.
// It backs the readiness probe.
func (d *Dispatcher) Check(ctx context.Context) error {
	if !d.settings.Configured() {
		return configurationError()
	}
	if err := d.mailer.Verify(ctx); err != nil {
		return classify(KindProviderConnection, err)
	}
	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, kind string, send func(context.Context) (*mailer.Receipt, error)) (res *Result, err error) {
	start := d.now()
	defer func() {
		d.metrics.observe(kind, err, d.now().Sub(start))
	}()

	if !d.settings.Configured() {
		d.logger.ErrorContext(ctx, "mail provider is not configured", slog.String("mail", kind))
		return nil, configurationError()
	}

	attrs := []any{slog.String("mail", kind)}
	if desc, ok := d.provider.(mailer.Describer); ok {
		for _, a := range desc.Describe() {
			attrs = append(attrs, a)
		}
	}
	d.logger.InfoContext(ctx, "verifying mail provider", attrs...)

	if err := d.mailer.Verify(ctx); err != nil {
		ce := classify(KindProviderConnection, err)
		d.logFailure(ctx, kind, ce)
		return nil, ce
	}

	receipt, err := send(ctx)
	if err != nil {
		ce := classify(KindProviderSend, err)
		d.logFailure(ctx, kind, ce)
		return nil, ce
	}

	d.logger.InfoContext(ctx, "email sent",
		slog.String("mail", kind),
		slog.String("message_id", receipt.ID),
		slog.String("response", receipt.Response),
	)
	return &Result{
		MessageID:  receipt.ID,
		Response:   receipt.Response,
		StatusCode: receipt.StatusCode,
	}, nil
}

func (d *Dispatcher) logFailure(ctx context.Context, kind string, ce *Error) {
	d.logger.ErrorContext(ctx, "email dispatch failed",
		slog.String("mail", kind),
		slog.String("kind", ce.Kind.String()),
		slog.String("code", ce.Code),
		slog.Any("error", ce.Err),
	)

	switch ce.Code {
	case mailer.CodeAuth:
		d.logger.WarnContext(ctx, "authentication failed, check the mail provider credentials")
	case mailer.CodeSocket, mailer.CodeConnection, mailer.CodeTimeout, mailer.CodeTLS:
		d.logger.WarnContext(ctx, "network error, check the mail provider host and port settings")
	}
}
