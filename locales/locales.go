// Package locales embeds the message catalog: one directory per locale
// with a YAML file per namespace, loaded by i18n.WithFS.
package locales

import "embed"

//go:embed en es
var FS embed.FS
