package mailer

import (
	"context"
	"log/slog"
)

// Provider delivers prepared emails to an outbound mail service.
type Provider interface {
	// Verify checks connectivity and credentials without sending anything.
	// API-based providers may treat it as a no-op.
	Verify(ctx context.Context) error

	// Send delivers an email message.
	// The Email must have To, Subject, and HTML already set.
	// Failures are reported as *ProviderError.
	Send(ctx context.Context, email *Email) (*Receipt, error)
}

// Describer is implemented by providers that can report their
// configuration for diagnostics. Secrets must never be returned verbatim.
type Describer interface {
	Describe() []slog.Attr
}

// Mask keeps the first n characters of s and replaces the rest with "***".
func Mask(s string, n int) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return "***"
	}
	return string(r[:n]) + "***"
}
