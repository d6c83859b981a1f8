package middlewares

import (
	"runtime"

	"github.com/dmitrymomot/contactmail/internal"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	StackSize         int  // Max stack trace size (default: 4096)
	DisablePrintStack bool // Disable stack trace in logs
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		if size > 0 {
			cfg.StackSize = size
		}
	}
}

// WithRecoverDisablePrintStack disables capturing the stack trace.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// Recover returns middleware that turns a panic into a *PanicError.
// The error reaches the global ErrorHandler like any other handler error,
// so clients still get the regular JSON 500 body.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &RecoverConfig{StackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				pe := &PanicError{Value: r}
				if cfg.DisablePrintStack {
					c.LogError("panic recovered", "panic", r)
				} else {
					pe.Stack = make([]byte, cfg.StackSize)
					pe.Stack = pe.Stack[:runtime.Stack(pe.Stack, false)]
					c.LogError("panic recovered", "panic", r, "stack", string(pe.Stack))
				}
				err = pe
			}()

			return next(c)
		}
	}
}
