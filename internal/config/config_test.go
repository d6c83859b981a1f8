package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactmail/internal/config"
	"github.com/dmitrymomot/contactmail/pkg/mailer/resend"
	"github.com/dmitrymomot/contactmail/pkg/mailer/smtp"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse(map[string]string{})
	require.NoError(t, err)

	require.Equal(t, 4000, cfg.Port)
	require.Equal(t, ":4000", cfg.Addr())
	require.Equal(t, "/api", cfg.APIPrefix)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	require.Equal(t, config.ProviderSMTP, cfg.MailProvider)
	require.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	require.Equal(t, 465, cfg.SMTP.Port)
	require.True(t, cfg.SMTP.ImplicitTLS)
	require.False(t, cfg.SMTP.InsecureSkipVerify)
	require.Equal(t, slog.LevelInfo, cfg.Log.Level)
	require.Equal(t, "production", cfg.Log.Sentry.Environment)

	s := cfg.Settings()
	require.False(t, s.ProviderConfigured)
	require.False(t, s.Configured())
	require.Equal(t, "Portfolio Contact", s.SenderName)
	require.Equal(t, "Test Email", s.TestSenderName)
}

func TestParse_SMTP(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse(map[string]string{
		"PORT":              "8081",
		"API_PREFIX":        "v1/",
		"ALLOWED_ORIGINS":   "https://a.example, https://b.example",
		"EMAIL_USER":        "owner@example.com",
		"EMAIL_PASSWORD":    "app-password",
		"SMTP_PORT":         "587",
		"SMTP_IMPLICIT_TLS": "false",
		"LOG_LEVEL":         "DEBUG",
	})
	require.NoError(t, err)

	require.Equal(t, ":8081", cfg.Addr())
	require.Equal(t, "/v1", cfg.APIPrefix)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	require.False(t, cfg.SMTP.ImplicitTLS)
	require.Equal(t, slog.LevelDebug, cfg.Log.Level)
	require.IsType(t, &smtp.Provider{}, cfg.Provider())

	s := cfg.Settings()
	require.True(t, s.Configured())
	require.Equal(t, "owner@example.com", s.SenderEmail)
	require.Equal(t, "owner@example.com", s.Recipient)
}

func TestParse_Resend(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse(map[string]string{
		"MAIL_PROVIDER":     "Resend",
		"RESEND_API_KEY":    "re_123",
		"RESEND_FROM_EMAIL": "noreply@example.com",
		"RESEND_FROM_NAME":  "Site",
		"CONTACT_RECIPIENT": "me@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, config.ProviderResend, cfg.MailProvider)
	require.IsType(t, &resend.Provider{}, cfg.Provider())

	s := cfg.Settings()
	require.True(t, s.Configured())
	require.Equal(t, "noreply@example.com", s.SenderEmail)
	require.Equal(t, "Site", s.SenderName)
	require.Equal(t, "me@example.com", s.Recipient)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	_, err := config.Parse(map[string]string{"MAIL_PROVIDER": "carrier-pigeon"})
	require.ErrorIs(t, err, config.ErrUnknownProvider)

	_, err = config.Parse(map[string]string{"PORT": "not-a-number"})
	require.Error(t, err)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CONTACTMAIL_TEST_ONLY=1\nCONTACT_SENDER_NAME=From File\n"), 0o600))

	t.Setenv("CONTACT_SENDER_NAME", "From Env")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "From Env", cfg.Contact.SenderName)
	require.Equal(t, "1", os.Getenv("CONTACTMAIL_TEST_ONLY"))
	require.NoError(t, os.Unsetenv("CONTACTMAIL_TEST_ONLY"))
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	t.Setenv("PORT", "4100")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	require.Equal(t, 4100, cfg.Port)
}
