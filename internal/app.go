package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/saasgate/pkg/cookie"
	"github.com/dmitrymomot/saasgate/pkg/health"
	"github.com/dmitrymomot/saasgate/pkg/logger"
)

// Server timeouts.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
	defaultShutdownTimeout   = 30 * time.Second
)

// Default health check paths.
const (
	LivenessPath  = "/health/live"
	ReadinessPath = "/health/ready"
	MetricsPath   = "/metrics"
)

// App wires middleware and handlers onto a chi router and runs the server.
// It is immutable after New.
type App struct {
	router          chi.Router
	errorHandler    ErrorHandler
	notFoundHandler HandlerFunc
	logger          *slog.Logger
	cookies         *cookie.Manager
	metricsHandler  http.Handler
	checks          health.Checks
	httpMiddlewares []func(http.Handler) http.Handler
	middlewares     []Middleware
	handlers        []Handler
	healthEnabled   bool
}

// New creates an application from options.
func New(opts ...Option) *App {
	a := &App{
		router:       chi.NewRouter(),
		logger:       logger.NewNope(),
		cookies:      cookie.New(),
		errorHandler: DefaultErrorHandler,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.setupRoutes()
	return a
}

// ServeHTTP makes App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Router returns the underlying chi router.
func (a *App) Router() chi.Router {
	return a.router
}

// Run serves on addr until SIGINT/SIGTERM, then shuts down gracefully.
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}
	return runServer(runtimeConfig{
		handler:         a,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

func (a *App) setupRoutes() {
	for _, mw := range a.httpMiddlewares {
		a.router.Use(mw)
	}
	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	if a.notFoundHandler != nil {
		a.router.NotFound(a.wrapHandler(a.notFoundHandler))
	}

	if a.healthEnabled {
		a.router.Get(LivenessPath, health.LivenessHandler())
		a.router.Get(ReadinessPath, health.ReadinessHandler(a.checks, health.WithLogger(a.logger)))
	}
	if a.metricsHandler != nil {
		a.router.Method(http.MethodGet, MetricsPath, a.metricsHandler)
	}

	r := &routerAdapter{router: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a.logger, a.cookies)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

// adaptMiddleware converts a Middleware to chi's form. The request passed
// on is whatever the middleware left in c, so URL rewrites and context
// values set through SetRequest or Set reach the router.
func (a *App) adaptMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := mw(func(c Context) error {
				next.ServeHTTP(c.Response(), c.Request())
				return nil
			})
			c := newContext(w, r, a.logger, a.cookies)
			if err := wrapped(c); err != nil {
				a.handleError(c, err)
			}
		})
	}
}

func (a *App) handleError(c Context, err error) {
	if c.Written() {
		c.LogDebug("error after response was written", "error", err)
		return
	}
	if herr := a.errorHandler(c, err); herr != nil {
		c.LogError("error handler failed", "error", herr)
	}
}

// shutdownFunc is the signature of startup and shutdown hooks.
type shutdownFunc = func(context.Context) error
