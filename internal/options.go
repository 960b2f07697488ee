package internal

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/saasgate/pkg/cookie"
	"github.com/dmitrymomot/saasgate/pkg/health"
)

// Option configures the application.
type Option func(*App)

// WithMiddleware appends global middleware. It runs before routing, in order.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHTTPMiddleware appends net/http middleware such as chi's. It runs
// before any WithMiddleware middleware.
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(a *App) {
		a.httpMiddlewares = append(a.httpMiddlewares, mw...)
	}
}

// WithHandlers registers route handlers.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandler = h
		}
	}
}

// WithNotFoundHandler sets the 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieOptions configures the cookie manager used by Context.
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) {
		a.cookies = cookie.New(opts...)
	}
}

// WithHealthChecks serves /health/live and /health/ready. Checks are
// merged across calls.
//
//	saasgate.WithHealthChecks(health.Checks{"postgres": db.Healthcheck(pool)})
func WithHealthChecks(checks health.Checks) Option {
	return func(a *App) {
		a.healthEnabled = true
		if a.checks == nil {
			a.checks = make(health.Checks, len(checks))
		}
		for name, fn := range checks {
			a.checks[name] = fn
		}
	}
}

// WithMetricsHandler serves h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(a *App) {
		a.metricsHandler = h
	}
}
