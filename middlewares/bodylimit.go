package middlewares

import (
	"net/http"

	"github.com/dmitrymomot/contactmail/internal"
)

// DefaultBodyLimit is the largest request body accepted by BodyLimit.
const DefaultBodyLimit int64 = 100 << 10 // 100KB

// BodyLimit returns middleware that caps the request body size.
// Requests announcing a larger Content-Length are refused with 413 up front;
// bodies that grow past the limit while being read make the read fail with
// *http.MaxBytesError.
func BodyLimit(limit int64) internal.Middleware {
	if limit <= 0 {
		limit = DefaultBodyLimit
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			r := c.Request()
			if r.ContentLength > limit {
				return internal.ErrRequestTooLarge("Request body too large",
					internal.WithErrorCode("EBODYLIMIT"))
			}
			r.Body = http.MaxBytesReader(c.Response(), r.Body, limit)
			return next(c)
		}
	}
}
