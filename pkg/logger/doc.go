// Package logger provides structured logging with context extraction and
// optional Sentry integration, built on log/slog.
//
// # Basic Usage
//
// Create a logger from configuration and context extractors:
//
//	log := logger.New(cfg.Log,
//		logger.ContextValue(requestIDKey{}, "request_id"),
//	)
//
//	// request_id is added automatically when present in ctx
//	log.InfoContext(ctx, "request processed", slog.Int("status", 200))
//
// Extractors run per log call, so request-scoped values are always fresh.
// Any func(context.Context) (slog.Attr, bool) is a [ContextExtractor].
//
// # Configuration
//
// [Config] is populated from the environment:
//
//   - LOG_LEVEL: debug, info, warn or error (default: info)
//   - LOG_FORMAT: json or text (default: json)
//   - SENTRY_DSN: enables Sentry when set
//   - SENTRY_ENVIRONMENT: Sentry environment (default: production)
//   - SENTRY_MIN_LEVEL: warn or error (default: warn)
//
// # Sentry
//
// With a DSN, records go to both the base handler and Sentry. Errors create
// Sentry issues; warnings are stored as logs unless SENTRY_MIN_LEVEL is
// "error". If Sentry fails to initialize, the logger falls back to stdout.
//
// # No-op Logger
//
// [NewNope] returns a logger that discards everything. Components default to
// it when no logger is configured.
package logger
