// Package resend delivers mailer emails through the Resend API.
package resend

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/saasgate/pkg/mailer"
)

// Config holds the Resend credentials.
type Config struct {
	APIKey string `env:"RESEND_API_KEY"`
}

// Enabled reports whether an API key is configured.
func (c Config) Enabled() bool {
	return c.APIKey != ""
}

// Sender implements mailer.Sender with Resend.
type Sender struct {
	client *resend.Client
}

// New creates a Resend sender.
func New(cfg Config) *Sender {
	return &Sender{client: resend.NewClient(cfg.APIKey)}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	req := &resend.SendEmailRequest{
		From:    email.From,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Tags:    tags(email.Tags),
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

func tags(m map[string]string) []resend.Tag {
	if len(m) == 0 {
		return nil
	}
	out := make([]resend.Tag, 0, len(m))
	for name, value := range m {
		out = append(out, resend.Tag{Name: name, Value: value})
	}
	return out
}
