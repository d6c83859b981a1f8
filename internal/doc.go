// Package internal provides the HTTP core of the contact relay: the App,
// the request Context, routing and graceful shutdown.
//
// # Core Types
//
//   - App: Orchestrates HTTP routing, middleware, health endpoints and shutdown
//   - Context: Request/response access plus JSON and logging helpers
//   - Router: Interface handlers use to declare routes
//   - Handler: Interface implemented by types that declare routes on a router
//   - HandlerFunc: Signature for route handlers that return errors
//   - Middleware: Wraps handlers to add cross-cutting concerns
//   - ErrorHandler: Renders errors returned from handlers
//   - HTTPError: Error carrying the status code and the public error body
//
// # Context as context.Context
//
// Context embeds context.Context. Deadline, Done, Err and Value delegate to the
// request context, so a client disconnect reaches whatever the handler passes
// c to:
//
//	func (h *EmailHandler) send(c internal.Context) error {
//	    res, err := h.dispatcher.Relay(c, sub)
//	    ...
//	}
//
// # Application Structure
//
//	app := internal.New(
//	    internal.WithLogger(log),
//	    internal.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	    ),
//	    internal.WithHandlers(handlers.NewStatusHandler()),
//	    internal.WithHealthChecks(internal.WithReadinessCheck("mail", d.Check)),
//	)
//	err := app.Run(":4000", internal.Logger(log))
//
// # Graceful Shutdown
//
// Run listens for SIGINT and SIGTERM. On signal it stops accepting connections,
// waits for in-flight requests and then runs shutdown hooks in registration
// order, all bounded by ShutdownTimeout.
package internal
