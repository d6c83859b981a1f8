package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoSender indicates no sender address was available.
	ErrNoSender = errors.New("email must have a sender")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("email must have a subject")

	// ErrNoContent indicates no HTML content was provided.
	ErrNoContent = errors.New("email must have HTML content")

	// ErrTemplateNotFound indicates the template file was not found.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrLayoutNotFound indicates the layout file was not found.
	ErrLayoutNotFound = errors.New("layout not found")

	// ErrRenderFailed indicates template rendering failed.
	ErrRenderFailed = errors.New("failed to render template")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")

	// ErrVerifyFailed indicates the provider rejected the connection check.
	ErrVerifyFailed = errors.New("failed to verify mail provider")

	// ErrSendFailed indicates email sending failed.
	ErrSendFailed = errors.New("failed to send email")
)

// Provider error codes, as reported to API clients.
const (
	CodeAuth       = "EAUTH"
	CodeSocket     = "ESOCKET"
	CodeTimeout    = "ETIMEDOUT"
	CodeConnection = "ECONNECTION"
	CodeTLS        = "ETLS"
	CodeEnvelope   = "EENVELOPE"
	CodeMessage    = "EMESSAGE"
	CodeRateLimit  = "ERATELIMIT"
	CodeUnknown    = "UNKNOWN"
)

// ProviderError is the single error shape returned by providers.
type ProviderError struct {
	Err        error  // Underlying transport or protocol error
	Provider   string // Provider name, e.g. "smtp"
	Code       string // One of the Code* constants
	Message    string // Human-readable description from the provider
	Body       string // Raw provider response, if any
	StatusCode int    // SMTP reply code or HTTP status, if any
}

// NewProviderError wraps err with a provider name and code.
// The message defaults to err's text.
func NewProviderError(provider, code string, err error) *ProviderError {
	pe := &ProviderError{Provider: provider, Code: code, Err: err}
	if err != nil {
		pe.Message = err.Error()
	}
	return pe
}

func (e *ProviderError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// AsProviderError extracts the ProviderError from an error chain if present.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// Classify maps err onto a ProviderError.
// A ProviderError already in the chain is returned as is. Network and
// context errors are mapped to socket/timeout codes. Anything else is
// reported as not classifiable.
func Classify(err error) (*ProviderError, bool) {
	if err == nil {
		return nil, false
	}
	if pe, ok := AsProviderError(err); ok {
		return pe, true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewProviderError("", CodeTimeout, err), true
	}
	if errors.Is(err, context.Canceled) {
		return NewProviderError("", CodeConnection, err), true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewProviderError("", CodeTimeout, err), true
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &dnsErr):
		return NewProviderError("", CodeSocket, err), true
	case errors.As(err, &opErr):
		return NewProviderError("", CodeSocket, err), true
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET):
		return NewProviderError("", CodeSocket, err), true
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return NewProviderError("", CodeConnection, err), true
	}

	return nil, false
}
