// Package i18n provides the message catalog for the supported locales.
//
// A [Catalog] is built once at startup from the application's locale.Set and
// is immutable afterwards. Messages are grouped by namespace and flattened
// for O(1) lookups under "namespace.key.path".
//
// # Loading
//
// Messages are usually embedded and loaded from an fs.FS:
//
//	//go:embed locales
//	var localesFS embed.FS
//
//	sub, _ := fs.Sub(localesFS, "locales")
//	catalog, err := i18n.New(set, i18n.WithFS(sub))
//
// File convention: {locale}/{namespace}.json (or .yaml/.yml).
//
// # Fallback
//
// [Catalog.Bundle] returns the messages of a locale, or the default locale's
// bundle when the locale has none. Single lookups fall back per key:
// requested locale, then default locale, then the key itself.
//
//	msg := catalog.T("es", "dashboard", "title")
//	msg = catalog.T("es", "common", "greeting", i18n.M{"name": "Ana"})
//
// # Plurals
//
// [Catalog.Tn] selects a message variant with the CLDR cardinal rules from
// golang.org/x/text/feature/plural:
//
//	// en/activity.json: {"minutes": {"one": "{{count}} minute ago", "other": "{{count}} minutes ago"}}
//	catalog.Tn("en", "activity", "minutes", 5) // "5 minutes ago"
//
// # Translator
//
// A [Translator] fixes the locale and namespace; the I18n middleware stores
// one per request.
package i18n
