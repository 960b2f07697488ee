package locale

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Set is the immutable collection of supported locales with one default.
// It is safe for concurrent use.
type Set struct {
	index     map[string]struct{}
	def       string
	supported []string
}

// NewSet builds a locale set. The default locale is always a member of the
// set and is listed first; the remaining codes keep their given order.
// Codes are lowercased and must be bare ISO 639 language subtags ("en", "es").
func NewSet(def string, supported ...string) (*Set, error) {
	def = normalize(def)
	if def == "" {
		return nil, ErrNoLocales
	}

	s := &Set{
		index: make(map[string]struct{}, len(supported)+1),
		def:   def,
	}

	for _, code := range append([]string{def}, supported...) {
		code = normalize(code)
		if code == "" {
			continue
		}
		if err := validate(code); err != nil {
			return nil, err
		}
		if _, ok := s.index[code]; ok {
			continue
		}
		s.index[code] = struct{}{}
		s.supported = append(s.supported, code)
	}

	return s, nil
}

// MustNewSet is like NewSet but panics on error.
func MustNewSet(def string, supported ...string) *Set {
	s, err := NewSet(def, supported...)
	if err != nil {
		panic(err)
	}
	return s
}

// Default returns the default locale.
func (s *Set) Default() string {
	return s.def
}

// Supported returns a copy of the supported locales, default first.
func (s *Set) Supported() []string {
	return slices.Clone(s.supported)
}

// Contains reports whether code is a supported locale.
// The comparison is exact: callers normalize untrusted input first.
func (s *Set) Contains(code string) bool {
	_, ok := s.index[code]
	return ok
}

// Match normalizes code and returns it if supported.
func (s *Set) Match(code string) (string, bool) {
	code = normalize(code)
	if code == "" || !s.Contains(code) {
		return "", false
	}
	return code, true
}

// IsDefault reports whether code is the default locale.
func (s *Set) IsDefault(code string) bool {
	return code == s.def
}

// StripPrefix splits a recognized locale prefix off path.
// The prefix must be a whole path segment: "/es" and "/es/x" match,
// "/espanol" does not. An empty remainder becomes "/". A run of leading
// slashes or backslashes in the remainder collapses to one slash, so
// "/en//host" yields "/host" and never a scheme-relative URL.
// If the first segment is not a supported locale, it returns ("", path, false).
func (s *Set) StripPrefix(path string) (string, string, bool) {
	if !strings.HasPrefix(path, "/") {
		return "", path, false
	}

	seg, rest := path[1:], "/"
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg, rest = seg[:i], seg[i:]
	}

	if seg == "" || !s.Contains(seg) {
		return "", path, false
	}
	return seg, localRoot(rest), true
}

// Localize returns path expressed for loc under the "as needed" policy.
// Any existing locale prefix is replaced. The default locale is unprefixed.
// Unsupported locales are treated as the default.
func (s *Set) Localize(path, loc string) string {
	if path == "" {
		path = "/"
	}
	_, rest, _ := s.StripPrefix(path)
	rest = localRoot(rest)

	if !s.Contains(loc) || s.IsDefault(loc) {
		return rest
	}
	if rest == "/" {
		return "/" + loc
	}
	return "/" + loc + rest
}

// localRoot collapses leading slashes and backslashes of p to a single "/".
func localRoot(p string) string {
	trimmed := strings.TrimLeft(p, "/\\")
	if len(trimmed) == len(p)-1 && p[0] == '/' {
		return p
	}
	return "/" + trimmed
}

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func validate(code string) error {
	tag, err := language.Parse(code)
	if err != nil {
		return fmt.Errorf("%w: %q: %s", ErrInvalidLocale, code, err)
	}
	base, _ := tag.Base()
	if base.String() != code {
		return fmt.Errorf("%w: %q is not a bare language subtag", ErrInvalidLocale, code)
	}
	return nil
}
