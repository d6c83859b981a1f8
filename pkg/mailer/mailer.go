package mailer

import (
	"context"
	"errors"
)

// DefaultLayout is the layout used when SendParams.Layout is empty.
const DefaultLayout = "base.html"

// Mailer checks and drives a Provider, optionally rendering templates first.
type Mailer struct {
	provider Provider
	renderer *Renderer
}

// New creates a Mailer. renderer may be nil if only SendRaw is used.
func New(provider Provider, renderer *Renderer) *Mailer {
	return &Mailer{provider: provider, renderer: renderer}
}

// SendParams contains parameters for sending a templated email.
type SendParams struct {
	Data     any    // Template data
	To       string // Single recipient
	From     string // Sender address
	ReplyTo  string
	Template string // Template filename, e.g. "test.md"
	Layout   string // Defaults to DefaultLayout
	Subject  string // Overrides the template subject
}

// Verify runs the provider's connectivity check.
func (m *Mailer) Verify(ctx context.Context) error {
	if err := m.provider.Verify(ctx); err != nil {
		return errors.Join(ErrVerifyFailed, err)
	}
	return nil
}

// Send renders params.Template and delivers the result.
// Subject resolution: params.Subject, then the template's Subject frontmatter.
func (m *Mailer) Send(ctx context.Context, params SendParams) (*Receipt, error) {
	if params.To == "" {
		return nil, ErrNoRecipient
	}
	if m.renderer == nil {
		return nil, errors.Join(ErrRenderFailed, errors.New("no renderer configured"))
	}

	layout := params.Layout
	if layout == "" {
		layout = DefaultLayout
	}

	result, err := m.renderer.Render(layout, params.Template, params.Data)
	if err != nil {
		return nil, err
	}

	subject := params.Subject
	if subject == "" {
		subject = result.Subject
	}

	return m.SendRaw(ctx, &Email{
		To:      []string{params.To},
		From:    params.From,
		ReplyTo: params.ReplyTo,
		Subject: subject,
		HTML:    result.HTML,
		Text:    result.Text,
	})
}

// SendRaw delivers a pre-built email.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) (*Receipt, error) {
	if len(email.To) == 0 {
		return nil, ErrNoRecipient
	}
	if email.Subject == "" {
		return nil, ErrNoSubject
	}
	if email.HTML == "" {
		return nil, ErrNoContent
	}

	receipt, err := m.provider.Send(ctx, email)
	if err != nil {
		return nil, errors.Join(ErrSendFailed, err)
	}
	return receipt, nil
}
