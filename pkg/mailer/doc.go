// Package mailer renders localized markdown email templates and delivers
// them through a pluggable Sender.
//
// Templates are markdown files with a YAML frontmatter block, stored per
// locale next to a shared HTML layout:
//
//	layout.html
//	en/welcome.md
//	es/welcome.md
//
//	---
//	subject: Welcome to {{.Product}}, {{.Name}}
//	tags:
//	  category: onboarding
//	---
//	Hi {{.Name}},
//
//	[Open your dashboard]({{.DashboardURL}} "button")
//
// Subject and body are text/template; the body is converted with goldmark.
// A link titled "button" is rendered with class="button". A locale without
// its own copy of a template falls back to the default locale.
//
//	renderer, err := mailer.NewRenderer(emails.FS, "en")
//	m := mailer.New(resend.New(cfg.Resend), renderer, cfg.Mailer)
//	err = m.Send(ctx, mailer.Message{To: "ana@example.com", Locale: "es", Template: "welcome", Data: data})
package mailer
