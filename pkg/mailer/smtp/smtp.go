package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	netsmtp "net/smtp"
	"time"

	"github.com/dmitrymomot/contactmail/pkg/mailer"
)

const providerName = "smtp"

// Provider implements mailer.Provider over SMTP.
// Every call opens its own connection; nothing is pooled.
type Provider struct {
	dialer *net.Dialer
	now    func() time.Time
	config Config
}

// New creates an SMTP provider.
func New(cfg Config) *Provider {
	return &Provider{
		config: cfg,
		dialer: &net.Dialer{},
		now:    time.Now,
	}
}

// Describe implements mailer.Describer. The password is reported by length only.
func (p *Provider) Describe() []slog.Attr {
	return []slog.Attr{
		slog.String("provider", providerName),
		slog.String("host", p.config.Host),
		slog.Int("port", p.config.Port),
		slog.Bool("implicit_tls", p.config.ImplicitTLS),
		slog.String("user", mailer.Mask(p.config.Username, 3)),
		slog.Int("password_length", len(p.config.Password)),
	}
}

// Verify opens a connection, authenticates and quits.
func (p *Provider) Verify(ctx context.Context) error {
	c, release, err := p.connect(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := c.Quit(); err != nil {
		return classify(ctx, stageConnect, err)
	}
	return nil
}

// Send implements mailer.Provider.
// The sender defaults to the configured username when email.From is empty.
func (p *Provider) Send(ctx context.Context, email *mailer.Email) (*mailer.Receipt, error) {
	msg := *email
	if msg.From == "" {
		msg.From = p.config.Username
	}
	from := mailer.AddressOnly(msg.From)
	if from == "" {
		return nil, mailer.NewProviderError(providerName, mailer.CodeEnvelope, mailer.ErrNoSender)
	}

	messageID := newMessageID(from)
	raw, err := buildMessage(&msg, messageID, p.now())
	if err != nil {
		return nil, mailer.NewProviderError(providerName, mailer.CodeMessage, err)
	}

	c, release, err := p.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := c.Mail(from); err != nil {
		return nil, classify(ctx, stageEnvelope, err)
	}
	for _, rcpt := range msg.To {
		if err := c.Rcpt(mailer.AddressOnly(rcpt)); err != nil {
			return nil, classify(ctx, stageEnvelope, err)
		}
	}

	code, reply, err := writeData(c, raw)
	if err != nil {
		return nil, classify(ctx, stageData, err)
	}

	// The message is already accepted; a failed QUIT changes nothing.
	_ = c.Quit()

	return &mailer.Receipt{
		ID:         messageID,
		StatusCode: code,
		Response:   fmt.Sprintf("%d %s", code, reply),
	}, nil
}

// connect dials, upgrades to TLS if needed and authenticates.
// The returned release func must be called once the client is done.
func (p *Provider) connect(ctx context.Context) (*netsmtp.Client, func(), error) {
	conn, err := p.dial(ctx)
	if err != nil {
		return nil, nil, classify(ctx, stageConnect, err)
	}

	// Unblock any pending read or write once ctx is done.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Unix(1, 0))
	})
	release := func() {
		stop()
		_ = conn.Close()
	}

	c, err := netsmtp.NewClient(conn, p.config.Host)
	if err != nil {
		release()
		return nil, nil, classify(ctx, stageConnect, err)
	}

	if !p.config.ImplicitTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(p.tlsConfig()); err != nil {
				release()
				return nil, nil, classify(ctx, stageConnect, err)
			}
		}
	}

	if p.config.Username != "" {
		auth := netsmtp.PlainAuth("", p.config.Username, p.config.Password, p.config.Host)
		if err := c.Auth(auth); err != nil {
			release()
			return nil, nil, classify(ctx, stageAuth, err)
		}
	}

	return c, release, nil
}

func (p *Provider) dial(ctx context.Context) (net.Conn, error) {
	if p.config.ImplicitTLS {
		d := &tls.Dialer{NetDialer: p.dialer, Config: p.tlsConfig()}
		return d.DialContext(ctx, "tcp", p.config.addr())
	}
	return p.dialer.DialContext(ctx, "tcp", p.config.addr())
}

func (p *Provider) tlsConfig() *tls.Config {
	return &tls.Config{
		ServerName:         p.config.Host,
		InsecureSkipVerify: p.config.InsecureSkipVerify, //nolint:gosec // explicit opt-in
		MinVersion:         tls.VersionTLS12,
	}
}

// writeData runs the DATA command and returns the server's final reply,
// which net/smtp's Data writer discards.
func writeData(c *netsmtp.Client, raw []byte) (int, string, error) {
	id, err := c.Text.Cmd("DATA")
	if err != nil {
		return 0, "", err
	}
	c.Text.StartResponse(id)
	_, _, err = c.Text.ReadResponse(354)
	c.Text.EndResponse(id)
	if err != nil {
		return 0, "", err
	}

	w := c.Text.DotWriter()
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return 0, "", err
	}
	if err := w.Close(); err != nil {
		return 0, "", err
	}

	return c.Text.ReadResponse(250)
}
