package resend

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/contactmail/pkg/mailer"
)

const providerName = "resend"

// Provider implements mailer.Provider using the Resend API.
type Provider struct {
	client *resend.Client
	config Config
}

// Option configures the Provider.
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		if hc != nil {
			o.httpClient = hc
		}
	}
}

// New creates a new Resend provider.
func New(cfg Config, opts ...Option) *Provider {
	o := &options{httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(o)
	}

	hc := *o.httpClient
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	hc.Transport = &statusTransport{next: next}

	return &Provider{
		client: resend.NewCustomClient(&hc, cfg.APIKey),
		config: cfg,
	}
}

// Describe implements mailer.Describer.
func (p *Provider) Describe() []slog.Attr {
	return []slog.Attr{
		slog.String("provider", providerName),
		slog.String("sender", p.config.SenderEmail),
		slog.Int("api_key_length", len(p.config.APIKey)),
	}
}

// Verify is a no-op: the API is checked on every send.
func (p *Provider) Verify(context.Context) error {
	return nil
}

// Send implements mailer.Provider.
func (p *Provider) Send(ctx context.Context, email *mailer.Email) (*mailer.Receipt, error) {
	from := email.From
	if from == "" {
		from = mailer.Address(p.config.SenderName, p.config.SenderEmail)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Headers: email.Headers,
	}

	rec := &statusRecorder{}
	resp, err := p.client.Emails.SendWithContext(withRecorder(ctx, rec), req)
	if err != nil {
		return nil, classify(ctx, rec.status(), err)
	}

	status := rec.status()
	if status == 0 {
		status = http.StatusOK
	}

	return &mailer.Receipt{
		ID:         resp.Id,
		StatusCode: status,
		Response:   fmt.Sprintf("%d %s", status, http.StatusText(status)),
	}, nil
}

// classify maps a failed API call onto a provider error using the HTTP status.
func classify(ctx context.Context, status int, err error) *mailer.ProviderError {
	var code string
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		code = mailer.CodeAuth
	case status == http.StatusTooManyRequests:
		code = mailer.CodeRateLimit
	case status >= 400 && status < 500:
		code = mailer.CodeMessage
	case status >= 500:
		code = mailer.CodeConnection
	default:
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", ctx.Err(), err)
		}
		if pe, ok := mailer.Classify(err); ok {
			pe.Provider = providerName
			return pe
		}
		code = mailer.CodeUnknown
	}

	pe := mailer.NewProviderError(providerName, code, err)
	pe.StatusCode = status
	return pe
}
