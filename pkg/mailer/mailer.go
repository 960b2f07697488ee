package mailer

import (
	"context"
	"errors"
)

// Config holds mailer settings.
type Config struct {
	From    string `env:"MAILER_FROM" envDefault:"SaaS Gate <no-reply@localhost>"`
	ReplyTo string `env:"MAILER_REPLY_TO"`
}

// Message addresses a template to one recipient in one locale.
type Message struct {
	Data     any
	To       string
	Locale   string
	Template string // Template name without locale or extension, e.g. "welcome"
}

// Mailer renders templates and hands them to a Sender.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	config   Config
}

// New creates a mailer.
func New(sender Sender, renderer *Renderer, cfg Config) *Mailer {
	if sender == nil || renderer == nil {
		panic("mailer: sender and renderer are required")
	}
	return &Mailer{sender: sender, renderer: renderer, config: cfg}
}

// Send renders msg and delivers it.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	content, err := m.renderer.Render(msg.Locale, msg.Template, msg.Data)
	if err != nil {
		return err
	}

	return m.deliver(ctx, &Email{
		To:      []string{msg.To},
		From:    m.config.From,
		ReplyTo: m.config.ReplyTo,
		Subject: content.Subject,
		HTML:    content.HTML,
		Text:    content.Text,
		Tags:    content.Tags,
	})
}

func (m *Mailer) deliver(ctx context.Context, email *Email) error {
	switch {
	case len(email.To) == 0:
		return ErrNoRecipient
	case email.Subject == "":
		return ErrNoSubject
	case email.HTML == "":
		return ErrNoContent
	}
	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}
