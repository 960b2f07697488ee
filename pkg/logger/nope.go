package logger

import "log/slog"

// NewNope creates a logger that discards all output.
// It is the default wherever logging is optional.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
