package saasgate

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/saasgate/internal"
	"github.com/dmitrymomot/saasgate/pkg/cookie"
	"github.com/dmitrymomot/saasgate/pkg/health"
	"github.com/dmitrymomot/saasgate/pkg/logger"
)

// Type aliases - public API
type (
	// App wires middleware and handlers onto a router and runs the server.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler renders errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HTTPError is an error with an HTTP status.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// ResponseWriter tracks the status and size of a response.
	ResponseWriter = internal.ResponseWriter

	// Extractor reads a value from the first source that has one.
	Extractor = internal.Extractor

	// ExtractorSource reads a value from a request.
	ExtractorSource = internal.ExtractorSource

	// ContextExtractor extracts a slog attribute from context.
	// Used with logger.New to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option

	// HealthChecks maps readiness check names to check functions.
	HealthChecks = health.Checks
)

// Default health check paths.
const (
	LivenessPath  = internal.LivenessPath
	ReadinessPath = internal.ReadinessPath
	MetricsPath   = internal.MetricsPath
)

// New creates an application with the given options.
// The App is immutable after creation.
//
//	app := saasgate.New(
//	    saasgate.WithMiddleware(middlewares.RequestID(), middlewares.Gate(resolver, classifier, matcher, guard)),
//	    saasgate.WithHandlers(handlers.NewPages(set, store), handlers.NewAuth(store, signer, set)),
//	)
//
//	err := app.Run(":8080", saasgate.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// App options

// WithMiddleware appends global middleware. It runs before routing, in order,
// so path rewrites made by Gate are visible to the router.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHTTPMiddleware appends net/http middleware such as chi's. It runs
// before any WithMiddleware middleware.
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return internal.WithHTTPMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithErrorHandler replaces the default JSON error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets the 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithLogger sets the application logger. Defaults to a noop logger.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithCookieOptions configures the cookie manager used by Context.
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// WithHealthChecks serves the liveness and readiness checks.
func WithHealthChecks(checks HealthChecks) Option {
	return internal.WithHealthChecks(checks)
}

// WithMetricsHandler serves h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return internal.WithMetricsHandler(h)
}

// Run options

// Logger sets the runtime logger. Defaults to the app logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs fn before the server accepts connections. An error
// aborts startup.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs fn after the server stops, in registration order.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context; cancelling it stops the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Errors

// NewHTTPError creates an error rendered with the given status.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// AsHTTPError returns the HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// WithErrorCode sets a machine-readable error code.
func WithErrorCode(code string) HTTPErrorOption {
	return internal.WithErrorCode(code)
}

// WithError attaches the underlying error. It is logged, not rendered.
func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnauthorized(message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrConflict(message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

// Helpers

// ContextValue returns the value stored under key if it has type T.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// QueryInt returns the query parameter name as an int clamped to [lo, hi].
// Missing or malformed values yield def.
func QueryInt(c Context, name string, def, lo, hi int) int {
	return internal.QueryInt(c, name, def, lo, hi)
}

// Extractors

// NewExtractor creates an extractor trying sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

func FromHeader(name string) ExtractorSource { return internal.FromHeader(name) }
func FromQuery(name string) ExtractorSource  { return internal.FromQuery(name) }
func FromCookie(name string) ExtractorSource { return internal.FromCookie(name) }
func FromForm(name string) ExtractorSource   { return internal.FromForm(name) }
func FromBearerToken() ExtractorSource       { return internal.FromBearerToken() }
