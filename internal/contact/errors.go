package contact

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/contactmail/pkg/mailer"
)

// Kind classifies why a submission could not be relayed.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindValidation
	KindConfiguration
	KindProviderConnection
	KindProviderSend
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindProviderConnection:
		return "provider_connection"
	case KindProviderSend:
		return "provider_send"
	default:
		return "unknown"
	}
}

// Codes that do not come from a provider.
const (
	CodeValidation    = "VALIDATION"
	CodeConfiguration = "ECONFIG"
	CodeUnknown       = mailer.CodeUnknown
)

// Error is the only error type Validator and Dispatcher return.
type Error struct {
	Err     error
	Code    string
	Message string
	Fields  []string // per-field problems, validation only
	Kind    Kind
}

func (e *Error) Error() string {
	return fmt.Sprintf("contact: %s: %s", e.Kind, e.Details())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Details is the client-safe description of the failure.
func (e *Error) Details() string {
	if len(e.Fields) > 0 {
		return strings.Join(e.Fields, ", ")
	}
	return e.Message
}

// AsError extracts the *Error from an error chain if present.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func validationError(fields []string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeValidation,
		Message: "missing required fields",
		Fields:  fields,
	}
}

func configurationError() *Error {
	return &Error{
		Kind:    KindConfiguration,
		Code:    CodeConfiguration,
		Message: "mail provider credentials are not configured",
	}
}

// classify maps a provider-side failure onto the closed Kind set. Errors the
// provider layer cannot explain become KindUnknown with a generic message.
func classify(kind Kind, err error) *Error {
	if ce, ok := AsError(err); ok {
		return ce
	}
	if pe, ok := mailer.Classify(err); ok {
		return &Error{Kind: kind, Code: pe.Code, Message: pe.Message, Err: err}
	}
	return &Error{Kind: KindUnknown, Code: CodeUnknown, Message: "Unknown error", Err: err}
}
