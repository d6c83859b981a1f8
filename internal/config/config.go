// Package config loads the relay configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/contactmail/internal/contact"
	"github.com/dmitrymomot/contactmail/pkg/logger"
	"github.com/dmitrymomot/contactmail/pkg/mailer"
	"github.com/dmitrymomot/contactmail/pkg/mailer/resend"
	"github.com/dmitrymomot/contactmail/pkg/mailer/smtp"
)

// Supported MAIL_PROVIDER values.
const (
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"
)

// ErrUnknownProvider is returned for an unsupported MAIL_PROVIDER.
var ErrUnknownProvider = errors.New("config: unknown mail provider")

// Config is built once at startup and never changed afterwards.
type Config struct {
	APIPrefix       string        `env:"API_PREFIX" envDefault:"/api"`
	MailProvider    string        `env:"MAIL_PROVIDER" envDefault:"smtp"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	Port            int           `env:"PORT" envDefault:"4000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	Contact ContactConfig
	SMTP    smtp.Config
	Resend  resend.Config
	Log     logger.Config
}

// ContactConfig holds the identity used on relayed mail.
type ContactConfig struct {
	Recipient      string `env:"CONTACT_RECIPIENT"`
	SenderName     string `env:"CONTACT_SENDER_NAME" envDefault:"Portfolio Contact"`
	TestSenderName string `env:"CONTACT_TEST_SENDER_NAME" envDefault:"Test Email"`
}

// Load reads an optional .env file (or the given files) into the process
// environment and parses it. Variables already set win over file values.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load env file: %w", err)
	}
	return Parse(env.ToMap(os.Environ()))
}

// Parse builds a Config from the given variables.
func Parse(environ map[string]string) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.MailProvider = strings.ToLower(strings.TrimSpace(cfg.MailProvider))
	if cfg.MailProvider != ProviderSMTP && cfg.MailProvider != ProviderResend {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.MailProvider)
	}

	cfg.APIPrefix = "/" + strings.Trim(cfg.APIPrefix, "/")
	for i, o := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(o)
	}
	return &cfg, nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort("", strconv.Itoa(c.Port))
}

// Provider builds the configured mail provider.
func (c *Config) Provider() mailer.Provider {
	if c.MailProvider == ProviderResend {
		return resend.New(c.Resend)
	}
	return smtp.New(c.SMTP)
}

// Settings derives the dispatcher identity from the selected provider.
// Missing credentials are not an error here; the dispatcher reports them
// per request so the process keeps serving.
func (c *Config) Settings() contact.Settings {
	s := contact.Settings{
		SenderName:     c.Contact.SenderName,
		TestSenderName: c.Contact.TestSenderName,
		Recipient:      c.Contact.Recipient,
	}

	switch c.MailProvider {
	case ProviderResend:
		s.SenderEmail = c.Resend.SenderEmail
		s.ProviderConfigured = c.Resend.Configured()
		if c.Resend.SenderName != "" {
			s.SenderName = c.Resend.SenderName
		}
	default:
		s.SenderEmail = c.SMTP.Username
		s.ProviderConfigured = c.SMTP.Configured()
	}

	if s.Recipient == "" {
		s.Recipient = s.SenderEmail
	}
	return s
}
