package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/contactmail/internal"
	"github.com/dmitrymomot/contactmail/middlewares"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ErrorHandler renders any error escaping a handler as ErrorResponse.
// Errors that are not *internal.HTTPError, recovered panics included,
// become a generic 500 so nothing internal leaks to the client.
func ErrorHandler(c internal.Context, err error) error {
	he, ok := internal.AsHTTPError(err)
	if !ok {
		he = internal.ErrInternal("Internal server error",
			internal.WithDetail("Unknown error"),
			internal.WithErrorCode("UNKNOWN"),
			internal.WithError(err),
		)
		if middlewares.IsPanicError(err) {
			he.ErrorCode = "EPANIC"
		}
	}

	attrs := []any{
		slog.Int("status", he.Code),
		slog.String("code", he.ErrorCode),
		slog.String("path", c.Request().URL.Path),
	}
	if he.Err != nil {
		attrs = append(attrs, slog.Any("error", he.Err))
	}
	if he.Code >= http.StatusInternalServerError {
		c.LogError("request failed", attrs...)
	} else {
		c.LogInfo("request rejected", attrs...)
	}

	return c.JSON(he.Code, ErrorResponse{
		Error:   he.Message,
		Details: he.Detail,
		Code:    he.ErrorCode,
	})
}

// NotFound renders unknown routes in the error body format.
func NotFound(c internal.Context) error {
	return internal.ErrNotFound("Not found", internal.WithErrorCode("ENOTFOUND"))
}

// MethodNotAllowed renders known routes hit with the wrong method.
func MethodNotAllowed(c internal.Context) error {
	return internal.ErrMethodNotAllowed("Method not allowed", internal.WithErrorCode("EMETHOD"))
}
