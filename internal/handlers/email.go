package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrymomot/contactmail/internal"
	"github.com/dmitrymomot/contactmail/internal/contact"
	"github.com/dmitrymomot/contactmail/middlewares"
)

// Dispatcher relays mail on behalf of the email endpoints.
type Dispatcher interface {
	Relay(ctx context.Context, sub *contact.Submission) (*contact.Result, error)
	SendTest(ctx context.Context) (*contact.Result, error)
}

// Public error summaries.
const (
	msgMissingFields       = "Missing required fields"
	msgNotConfigured       = "Email service is not configured"
	msgNotConfiguredDetail = "The mail provider is missing its credentials"
	msgConnectFailed       = "Failed to connect to email server"
	msgSendFailed          = "Failed to send email"
	msgTestSendFailed      = "Failed to send test email"
	msgAPIRunning          = "La API de correos está funcionando correctamente"
)

// SendResponse is the success body of POST /send-email and GET /test-email.
type SendResponse struct {
	MessageID string `json:"messageId"`
	Response  string `json:"response,omitempty"`
	Success   bool   `json:"success"`
}

// EmailHandler serves the contact and test-mail endpoints under a prefix.
type EmailHandler struct {
	dispatcher Dispatcher
	validator  *contact.Validator
	metrics    *contact.Metrics
	prefix     string
	bodyLimit  int64
}

// EmailOption configures an EmailHandler.
type EmailOption func(*EmailHandler)

// WithBodyLimit overrides the maximum accepted request body size.
func WithBodyLimit(n int64) EmailOption {
	return func(h *EmailHandler) {
		if n > 0 {
			h.bodyLimit = n
		}
	}
}

// WithRejectMetrics counts validation rejections.
func WithRejectMetrics(m *contact.Metrics) EmailOption {
	return func(h *EmailHandler) {
		h.metrics = m
	}
}

// NewEmailHandler creates the email endpoints mounted at prefix (e.g. "/api").
func NewEmailHandler(prefix string, d Dispatcher, v *contact.Validator, opts ...EmailOption) *EmailHandler {
	if prefix == "" {
		prefix = "/"
	}
	h := &EmailHandler{
		dispatcher: d,
		validator:  v,
		prefix:     prefix,
		bodyLimit:  middlewares.DefaultBodyLimit,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes implements internal.Handler.
func (h *EmailHandler) Routes(r internal.Router) {
	if h.prefix == "/" {
		h.routes(r)
		return
	}
	r.Route(h.prefix, h.routes)
}

func (h *EmailHandler) routes(r internal.Router) {
	r.POST("/send-email", h.sendEmail, middlewares.BodyLimit(h.bodyLimit))
	r.GET("/test-email", h.sendTestEmail)
	r.GET("/test", h.ping)
}

func (h *EmailHandler) sendEmail(c internal.Context) error {
	payload, err := decodePayload(c.Request().Body)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return internal.ErrRequestTooLarge("Request body too large", internal.WithErrorCode("EBODYLIMIT"))
		}
		h.metrics.ObserveRejected(err)
		return toHTTPError(err, msgSendFailed)
	}

	sub, err := h.validator.Validate(c, payload)
	if err != nil {
		c.LogWarn("contact submission rejected", "error", err)
		h.metrics.ObserveRejected(err)
		return toHTTPError(err, msgSendFailed)
	}

	res, err := h.dispatcher.Relay(c, sub)
	if err != nil {
		return toHTTPError(err, msgSendFailed)
	}

	return c.JSON(http.StatusOK, SendResponse{Success: true, MessageID: res.MessageID})
}

func (h *EmailHandler) sendTestEmail(c internal.Context) error {
	res, err := h.dispatcher.SendTest(c)
	if err != nil {
		return toHTTPError(err, msgTestSendFailed)
	}

	return c.JSON(http.StatusOK, SendResponse{
		Success:   true,
		MessageID: res.MessageID,
		Response:  res.Response,
	})
}

func (h *EmailHandler) ping(c internal.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": msgAPIRunning})
}

// decodePayload reads a JSON object. An empty body decodes to a nil map so
// the validator reports every required field.
func decodePayload(body io.Reader) (map[string]any, error) {
	var payload map[string]any
	err := json.NewDecoder(body).Decode(&payload)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return payload, nil
	case errors.As(err, new(*http.MaxBytesError)):
		return nil, err
	default:
		return nil, contact.Reject("body must be a JSON object")
	}
}

// toHTTPError maps a dispatch failure onto the public error body.
// sendFailed is the summary used for provider-side failures.
func toHTTPError(err error, sendFailed string) *internal.HTTPError {
	ce, ok := contact.AsError(err)
	if !ok {
		return internal.ErrInternal(sendFailed,
			internal.WithDetail("Unknown error"),
			internal.WithErrorCode(contact.CodeUnknown),
			internal.WithError(err),
		)
	}

	switch ce.Kind {
	case contact.KindValidation:
		return internal.ErrBadRequest(msgMissingFields,
			internal.WithDetail(ce.Details()),
			internal.WithErrorCode(ce.Code),
			internal.WithError(err),
		)
	case contact.KindConfiguration:
		return internal.ErrInternal(msgNotConfigured,
			internal.WithDetail(msgNotConfiguredDetail),
			internal.WithErrorCode(ce.Code),
			internal.WithError(err),
		)
	case contact.KindProviderConnection:
		if sendFailed == msgSendFailed {
			sendFailed = msgConnectFailed
		}
	}

	return internal.ErrInternal(sendFailed,
		internal.WithDetail(ce.Details()),
		internal.WithErrorCode(ce.Code),
		internal.WithError(err),
	)
}
