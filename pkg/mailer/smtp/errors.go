package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/textproto"

	"github.com/dmitrymomot/contactmail/pkg/mailer"
)

// stage is the part of the SMTP conversation an error happened in.
type stage int

const (
	stageConnect stage = iota
	stageAuth
	stageEnvelope
	stageData
)

// fallbackCode is used when the error carries no better signal.
func (s stage) fallbackCode() string {
	switch s {
	case stageAuth:
		return mailer.CodeAuth
	case stageEnvelope:
		return mailer.CodeEnvelope
	case stageData:
		return mailer.CodeMessage
	default:
		return mailer.CodeConnection
	}
}

// replyCode maps an SMTP reply code to a provider error code.
func (s stage) replyCode(reply int) string {
	switch reply {
	case 530, 534, 535, 538:
		return mailer.CodeAuth
	}
	return s.fallbackCode()
}

// classify turns any SMTP-side failure into a *mailer.ProviderError.
// Errors observed after ctx is done are reported as the context error.
func classify(ctx context.Context, s stage, err error) *mailer.ProviderError {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}

	var reply *textproto.Error
	if errors.As(err, &reply) {
		pe := mailer.NewProviderError(providerName, s.replyCode(reply.Code), err)
		pe.StatusCode = reply.Code
		pe.Message = reply.Msg
		pe.Body = fmt.Sprintf("%d %s", reply.Code, reply.Msg)
		return pe
	}

	var certErr *tls.CertificateVerificationError
	var recordErr tls.RecordHeaderError
	if errors.As(err, &certErr) || errors.As(err, &recordErr) {
		return mailer.NewProviderError(providerName, mailer.CodeTLS, err)
	}

	if pe, ok := mailer.Classify(err); ok {
		pe.Provider = providerName
		return pe
	}

	return mailer.NewProviderError(providerName, s.fallbackCode(), err)
}
