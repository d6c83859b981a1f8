package smtp

import (
	"net"
	"strconv"
)

// Config holds SMTP provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Host     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Username string `env:"EMAIL_USER"`
	Password string `env:"EMAIL_PASSWORD"`
	Port     int    `env:"SMTP_PORT" envDefault:"465"`

	// ImplicitTLS dials TLS directly (port 465). When false the connection
	// starts in plain text and upgrades with STARTTLS if the server offers it.
	ImplicitTLS bool `env:"SMTP_IMPLICIT_TLS" envDefault:"true"`

	// InsecureSkipVerify disables certificate verification. Opt-in only.
	InsecureSkipVerify bool `env:"SMTP_TLS_SKIP_VERIFY" envDefault:"false"`
}

// Configured reports whether credentials and a host are present.
func (c Config) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

func (c Config) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
