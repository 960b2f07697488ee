package internal

import (
	"context"
	"log/slog"
	"time"
)

// RunOption configures the server runtime.
type RunOption func(*runConfig)

type runConfig struct {
	baseCtx         context.Context
	logger          *slog.Logger
	startupHooks    []shutdownFunc
	shutdownHooks   []shutdownFunc
	shutdownTimeout time.Duration
}

func buildRunConfig(opts ...RunOption) *runConfig {
	cfg := &runConfig{shutdownTimeout: defaultShutdownTimeout}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Logger overrides the logger used for server lifecycle messages.
func Logger(l *slog.Logger) RunOption {
	return func(c *runConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// ShutdownTimeout bounds server shutdown and hooks together. Default 30s.
func ShutdownTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// StartupHook runs fn before the listener accepts connections.
// A failing hook aborts startup.
func StartupHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.startupHooks = append(c.startupHooks, fn)
		}
	}
}

// ShutdownHook runs fn after the server stops, in registration order.
//
//	saasgate.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.shutdownHooks = append(c.shutdownHooks, fn)
		}
	}
}

// WithContext sets the parent of the signal context. Cancelling it stops
// the server.
func WithContext(ctx context.Context) RunOption {
	return func(c *runConfig) {
		if ctx != nil {
			c.baseCtx = ctx
		}
	}
}
