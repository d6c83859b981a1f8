// Package mailer defines the outbound mail provider contract and the pieces
// shared by every provider.
//
// # Providers
//
// A Provider verifies connectivity and delivers fully-prepared Email values:
//
//	type Provider interface {
//		Verify(ctx context.Context) error
//		Send(ctx context.Context, email *Email) (*Receipt, error)
//	}
//
// Implementations live in sub-packages (smtp, resend). Every failure a
// provider returns is a *ProviderError carrying a stable Code
// (EAUTH, ESOCKET, ETIMEDOUT, ...). Classify maps arbitrary errors onto that
// shape where possible.
//
// # Mailer
//
// Mailer wraps a Provider with input checks and optional template rendering:
//
//	m := mailer.New(provider, mailer.NewRenderer(templates.FS, "layouts"))
//	if err := m.Verify(ctx); err != nil {
//		return err
//	}
//	receipt, err := m.Send(ctx, mailer.SendParams{
//		To:       "owner@example.com",
//		From:     mailer.Address("Test Email", "owner@example.com"),
//		Template: "test.md",
//		Data:     map[string]any{"SentAt": time.Now()},
//	})
//
// Verify failures are joined with ErrVerifyFailed, send failures with
// ErrSendFailed, so callers can tell the stages apart with errors.Is.
//
// # Templates
//
// Templates are markdown files with optional YAML frontmatter:
//
//	---
//	Subject: Hello {{.Name}}
//	---
//	Hi **{{.Name}}**,
//
// The frontmatter subject and the body are executed with text/template.
// The body is converted to HTML by goldmark and wrapped in an html/template
// layout that receives .Content, .Subject and .Metadata. The processed
// markdown doubles as the plain-text part.
package mailer
