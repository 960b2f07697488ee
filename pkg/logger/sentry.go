package logger

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// MinLevel is "warn" (warnings and errors) or "error" (errors only).
	MinLevel string `env:"SENTRY_MIN_LEVEL" envDefault:"warn"`
}

// newWithSentry fans records out to base and Sentry.
// If Sentry cannot be initialized, it falls back to base only.
func newWithSentry(base slog.Handler, cfg SentryConfig, extractors ...ContextExtractor) *slog.Logger {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(base).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return slog.New(NewLogHandlerDecorator(base, extractors...))
	}

	eventLevel := []slog.Level{slog.LevelError}
	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if ParseLevel(cfg.MinLevel) == slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: eventLevel, // Errors create Issues in Sentry
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	return slog.New(NewLogHandlerDecorator(newMultiHandler(base, sentryHandler), extractors...))
}
