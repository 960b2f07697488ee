package middlewares

import (
	"errors"
	"net/http"
	"runtime"

	"github.com/dmitrymomot/saasgate/internal"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	StackSize    int  // Max stack trace size (default: 4096)
	DisableStack bool // Skip stack capture
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

// WithoutRecoverStack disables stack capture.
func WithoutRecoverStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisableStack = true
	}
}

// Recover returns middleware that turns a panic in the downstream chain into
// a *PanicError for the application's error handler, which renders a 500.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &RecoverConfig{StackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if e, ok := rec.(error); ok && errors.Is(e, http.ErrAbortHandler) {
					panic(rec)
				}

				pe := &PanicError{Value: rec}
				if !cfg.DisableStack {
					buf := make([]byte, cfg.StackSize)
					pe.Stack = buf[:runtime.Stack(buf, false)]
				}

				c.LogError("panic recovered",
					"panic", rec,
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"stack", string(pe.Stack),
				)

				err = pe
			}()

			return next(c)
		}
	}
}
