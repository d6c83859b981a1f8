package logger

import (
	"log/slog"
	"strings"
)

// RedactedValue replaces the value of secret attributes.
const RedactedValue = "[REDACTED]"

var secretKeys = map[string]struct{}{
	"password":       {},
	"email_password": {},
	"secret":         {},
	"api_key":        {},
	"apikey":         {},
	"token":          {},
	"authorization":  {},
	"dsn":            {},
}

// redactSecrets is a slog ReplaceAttr func hiding values of well-known
// secret keys. Derived keys such as "password_length" are left alone.
func redactSecrets(_ []string, a slog.Attr) slog.Attr {
	if _, ok := secretKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, RedactedValue)
	}
	return a
}
