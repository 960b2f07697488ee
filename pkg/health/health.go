package health

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultTimeout = 3 * time.Second

	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc reports whether a dependency is usable.
type CheckFunc func(ctx context.Context) error

// Checks maps dependency names to their checks.
type Checks map[string]CheckFunc

// Report is the aggregated result of a readiness run.
type Report struct {
	Checks map[string]Result `json:"checks,omitempty"`
	Status string            `json:"status"`
}

// Healthy reports whether every check passed.
func (r *Report) Healthy() bool {
	return r.Status == StatusHealthy
}

// Result is the outcome of a single check.
type Result struct {
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

type config struct {
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures the readiness handler.
type Option func(*config)

// WithTimeout bounds the whole run. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger logs failed checks at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Run executes all checks concurrently under a shared timeout.
func Run(ctx context.Context, checks Checks, opts ...Option) *Report {
	cfg := config{timeout: defaultTimeout, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}
	return run(ctx, checks, &cfg)
}

func run(ctx context.Context, checks Checks, cfg *config) *Report {
	report := &Report{Status: StatusHealthy}
	if len(checks) == 0 {
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var mu sync.Mutex
	report.Checks = make(map[string]Result, len(checks))

	// A plain Group: one failing check must not cancel the others.
	var g errgroup.Group
	for name, check := range checks {
		g.Go(func() error {
			start := time.Now()
			err := check(ctx)
			if err == nil && ctx.Err() != nil {
				err = errors.Join(ErrCheckTimeout, ctx.Err())
			}

			res := Result{Status: StatusHealthy, Duration: time.Since(start).String()}
			if err != nil {
				res.Status = StatusUnhealthy
				res.Error = err.Error()
				cfg.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}

			mu.Lock()
			defer mu.Unlock()
			report.Checks[name] = res
			if err != nil {
				report.Status = StatusUnhealthy
			}
			return nil
		})
	}
	_ = g.Wait()

	return report
}
