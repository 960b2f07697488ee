// Package sanitizer normalizes user-supplied text before it is stored.
package sanitizer

import (
	"html"
	"net/mail"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text strips all markup from s, decodes entities and collapses runs of
// whitespace and control characters to single spaces.
func Text(s string) string {
	s = html.UnescapeString(strict.Sanitize(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}), " ")
}

// Name is Text truncated to max runes. A non-positive max disables
// truncation.
func Name(s string, max int) string {
	s = Text(s)
	if max <= 0 {
		return s
	}
	if r := []rune(s); len(r) > max {
		return strings.TrimSpace(string(r[:max]))
	}
	return s
}

// Email trims and lowercases an address and reports whether it parses as a
// bare RFC 5322 address.
func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return s, false
	}
	return s, true
}
