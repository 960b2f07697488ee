// Package locale resolves the active locale of a request and maintains the
// locale prefix of its URL path.
//
// A [Set] holds the supported locale codes and the single default locale.
// It is the only source of truth for which codes are recognized, and every
// component that inspects a locale prefix goes through [Set.StripPrefix].
//
//	set, err := locale.NewSet("en", "en", "es")
//	if err != nil {
//	    return err
//	}
//
//	loc, rest, ok := set.StripPrefix("/es/pricing") // "es", "/pricing", true
//	set.Localize("/pricing", "es")                   // "/es/pricing"
//	set.Localize("/es/pricing", "en")                // "/pricing"
//
// # Resolution
//
// [Resolver.Resolve] picks the locale using this precedence, first match wins:
//
//  1. A supported locale prefix in the path.
//  2. The locale preference cookie, if it names a supported locale.
//  3. The first Accept-Language tag, region stripped and lowercased.
//  4. The default locale.
//
// Prefixes follow the "as needed" policy: the default locale is served
// without a prefix and every other locale must appear in the path. When the
// path does not match the resolved locale, [Resolution.RedirectPath] carries
// the corrected path. Re-resolving a redirect target never yields another
// redirect.
//
// Unsupported codes never produce an error; they degrade to the default.
package locale
