package mailer_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saasgate/pkg/mailer"
)

var templates = fstest.MapFS{
	"layout.html": {Data: []byte(`<html lang="{{.Locale}}"><title>{{.Subject}}</title><body>{{.Content}}</body></html>`)},
	"en/welcome.md": {Data: []byte(`---
subject: Welcome, {{.Name}}
tags:
  category: onboarding
---
Hi **{{.Name}}**,

[Open dashboard]({{.URL}} "button")
`)},
	"es/welcome.md": {Data: []byte("---\nsubject: Bienvenido, {{.Name}}\n---\nHola {{.Name}}\n")},
	"en/plain.md":   {Data: []byte("no frontmatter")},
	"en/broken.md":  {Data: []byte("---\nsubject: x\nno closing fence")},
	"en/empty.md":   {Data: []byte("---\n---\nbody only")},
}

type data struct {
	Name string
	URL  string
}

type captureSender struct {
	err  error
	sent []*mailer.Email
}

func (s *captureSender) Send(_ context.Context, e *mailer.Email) error {
	s.sent = append(s.sent, e)
	return s.err
}

func newRenderer(t *testing.T) *mailer.Renderer {
	t.Helper()
	r, err := mailer.NewRenderer(templates, "en")
	require.NoError(t, err)
	return r
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)

	t.Run("markdown with button", func(t *testing.T) {
		t.Parallel()

		c, err := r.Render("en", "welcome", data{Name: "Ana", URL: "https://app.test/dashboard"})
		require.NoError(t, err)
		require.Equal(t, "en", c.Locale)
		require.Equal(t, "Welcome, Ana", c.Subject)
		require.Equal(t, map[string]string{"category": "onboarding"}, c.Tags)
		require.Contains(t, c.HTML, `<html lang="en">`)
		require.Contains(t, c.HTML, "<strong>Ana</strong>")
		require.Contains(t, c.HTML, `<a href="https://app.test/dashboard" class="button">Open dashboard</a>`)
		require.Contains(t, c.Text, "Hi **Ana**")
	})

	t.Run("localized copy", func(t *testing.T) {
		t.Parallel()

		c, err := r.Render("es", "welcome", data{Name: "Ana"})
		require.NoError(t, err)
		require.Equal(t, "es", c.Locale)
		require.Equal(t, "Bienvenido, Ana", c.Subject)
	})

	t.Run("falls back to default locale", func(t *testing.T) {
		t.Parallel()

		c, err := r.Render("de", "welcome", data{Name: "Ana", URL: "https://x.test"})
		require.NoError(t, err)
		require.Equal(t, "en", c.Locale)
		require.Contains(t, c.HTML, `<html lang="en">`)
	})

	t.Run("user input cannot inject html", func(t *testing.T) {
		t.Parallel()

		c, err := r.Render("es", "welcome", data{Name: "<script>alert(1)</script>"})
		require.NoError(t, err)
		require.NotContains(t, c.HTML, "<script>")
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()

		_, err := r.Render("en", "missing", nil)
		require.ErrorIs(t, err, mailer.ErrTemplateNotFound)

		_, err = r.Render("en", "plain", nil)
		require.ErrorIs(t, err, mailer.ErrNoSubject)

		_, err = r.Render("en", "broken", nil)
		require.ErrorIs(t, err, mailer.ErrInvalidFrontmatter)

		_, err = r.Render("en", "empty", nil)
		require.ErrorIs(t, err, mailer.ErrNoSubject)

		_, err = r.Render("en", "welcome", map[string]any{})
		require.ErrorIs(t, err, mailer.ErrRenderFailed)
	})
}

func TestNewRenderer_MissingLayout(t *testing.T) {
	t.Parallel()

	_, err := mailer.NewRenderer(fstest.MapFS{}, "en")
	require.ErrorIs(t, err, mailer.ErrLayoutNotFound)
}

func TestMailer_Send(t *testing.T) {
	t.Parallel()

	cfg := mailer.Config{From: "Team <team@app.test>", ReplyTo: "help@app.test"}

	t.Run("delivers rendered email", func(t *testing.T) {
		t.Parallel()

		sender := &captureSender{}
		m := mailer.New(sender, newRenderer(t), cfg)

		err := m.Send(context.Background(), mailer.Message{
			To:       mailer.Recipient("Ana", "ana@app.test"),
			Locale:   "es",
			Template: "welcome",
			Data:     data{Name: "Ana"},
		})
		require.NoError(t, err)
		require.Len(t, sender.sent, 1)

		e := sender.sent[0]
		require.Equal(t, []string{`"Ana" <ana@app.test>`}, e.To)
		require.Equal(t, cfg.From, e.From)
		require.Equal(t, cfg.ReplyTo, e.ReplyTo)
		require.Equal(t, "Bienvenido, Ana", e.Subject)
		require.NotEmpty(t, e.HTML)
	})

	t.Run("no recipient", func(t *testing.T) {
		t.Parallel()

		m := mailer.New(&captureSender{}, newRenderer(t), cfg)
		require.ErrorIs(t, m.Send(context.Background(), mailer.Message{Template: "welcome"}), mailer.ErrNoRecipient)
	})

	t.Run("sender failure", func(t *testing.T) {
		t.Parallel()

		m := mailer.New(&captureSender{err: errors.New("rate limited")}, newRenderer(t), cfg)
		err := m.Send(context.Background(), mailer.Message{To: "a@app.test", Template: "welcome", Data: data{Name: "A"}})
		require.ErrorIs(t, err, mailer.ErrSendFailed)
	})
}

func TestRecipient(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ana@app.test", mailer.Recipient("", "ana@app.test"))
	require.Equal(t, `"Ana Ruiz" <ana@app.test>`, mailer.Recipient("Ana Ruiz", "ana@app.test"))
}

func TestLogSender(t *testing.T) {
	t.Parallel()

	require.NoError(t, mailer.LogSender{}.Send(context.Background(), &mailer.Email{}))
}
