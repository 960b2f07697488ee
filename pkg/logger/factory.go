package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds logger configuration.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // json or text
	Sentry SentryConfig
}

// New creates a logger writing to stdout with optional context extractors.
// When cfg.Sentry.DSN is set, warnings and errors are also sent to Sentry.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return NewWithWriter(os.Stdout, cfg, extractors...)
}

// NewWithWriter is like New but writes to w.
func NewWithWriter(w io.Writer, cfg Config, extractors ...ContextExtractor) *slog.Logger {
	base := newBaseHandler(w, cfg)
	if cfg.Sentry.DSN == "" {
		return slog.New(NewLogHandlerDecorator(base, extractors...))
	}
	return newWithSentry(base, cfg.Sentry, extractors...)
}

// ParseLevel maps a level name to slog.Level. Unknown names yield Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newBaseHandler(w io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
