package mailer

import (
	"context"
	"log/slog"
)

// Sender delivers a fully rendered Email.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// LogSender writes emails to a logger instead of delivering them.
// It stands in for a provider in development.
type LogSender struct {
	Logger *slog.Logger
}

// Send implements Sender.
func (s LogSender) Send(ctx context.Context, email *Email) error {
	if s.Logger == nil {
		return nil
	}
	s.Logger.InfoContext(ctx, "email not delivered, no provider configured",
		slog.Any("to", email.To),
		slog.String("subject", email.Subject),
		slog.String("text", email.Text),
	)
	return nil
}
