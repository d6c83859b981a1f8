package mailer

import (
	"net/mail"
	"strings"
)

// Address formats a display name and email into an RFC 5322 address.
// Names containing non-ASCII or special characters are encoded.
// Returns the bare email if name is empty.
func Address(name, email string) string {
	if name == "" {
		return email
	}
	return (&mail.Address{Name: name, Address: email}).String()
}

// AddressOnly extracts the bare email from an RFC 5322 address.
// Falls back to the trimmed input when it cannot be parsed.
func AddressOnly(addr string) string {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return strings.TrimSpace(addr)
	}
	return parsed.Address
}

// Email represents a fully-prepared message ready for a Provider.
type Email struct {
	Headers map[string]string // Extra headers
	Subject string
	HTML    string   // HTML body content
	Text    string   // Plain text alternative
	From    string   // Sender address, may include a display name
	ReplyTo string   // Reply-to address
	To      []string // Recipients (at least one required)
}

// Receipt describes an accepted message.
type Receipt struct {
	ID         string // Provider message identifier
	Response   string // Raw provider response line
	StatusCode int    // SMTP reply code or HTTP status
}
