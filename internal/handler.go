package internal

// Handler declares routes on a router.
//
// Example:
//
//	type StatusHandler struct{}
//
//	func (h *StatusHandler) Routes(r internal.Router) {
//	    r.GET("/", h.index)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// Returning a non-nil error hands the error to the app's ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect the request, short-circuit processing,
// or observe the response after next returns.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers.
type ErrorHandler func(Context, error) error
