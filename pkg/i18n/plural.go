package i18n

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// Plural category names used as message key suffixes ("items.one").
const (
	PluralZero  = "zero"
	PluralOne   = "one"
	PluralTwo   = "two"
	PluralFew   = "few"
	PluralMany  = "many"
	PluralOther = "other"
)

// pluralCategory returns the CLDR cardinal category of n in lang.
func pluralCategory(lang string, n int) string {
	if n < 0 {
		n = -n
	}
	switch plural.Cardinal.MatchPlural(language.Make(lang), n, 0, 0, 0, 0) {
	case plural.Zero:
		return PluralZero
	case plural.One:
		return PluralOne
	case plural.Two:
		return PluralTwo
	case plural.Few:
		return PluralFew
	case plural.Many:
		return PluralMany
	default:
		return PluralOther
	}
}

// pluralCandidates lists the key suffixes to try for n, most specific first.
// An explicit "zero" message is honored even where CLDR has no zero category.
func pluralCandidates(lang string, n int) []string {
	category := pluralCategory(lang, n)
	out := make([]string, 0, 3)
	if n == 0 && category != PluralZero {
		out = append(out, PluralZero)
	}
	out = append(out, category)
	if category != PluralOther {
		out = append(out, PluralOther)
	}
	return out
}
