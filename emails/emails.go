// Package emails embeds the transactional email templates rendered by
// mailer.Renderer: a shared layout.html plus one markdown file per locale
// and template.
package emails

import "embed"

//go:embed layout.html */*.md
var FS embed.FS
