package route

import "strings"

// DefaultExcluded lists the path prefixes the gate never runs on.
var DefaultExcluded = []string{
	"/api",
	"/_next/static",
	"/_next/image",
	"/favicon.ico",
	"/static",
	"/health",
	"/metrics",
}

// Matcher holds a static list of excluded path prefixes.
type Matcher struct {
	prefixes []string
}

// NewMatcher builds a matcher from the given prefixes.
// Empty entries are ignored and trailing slashes are trimmed.
func NewMatcher(prefixes ...string) *Matcher {
	m := &Matcher{prefixes: make([]string, 0, len(prefixes))}
	for _, p := range prefixes {
		if p = normalizePrefix(p); p != "" {
			m.prefixes = append(m.prefixes, p)
		}
	}
	return m
}

// Excluded reports whether the gate must skip path.
func (m *Matcher) Excluded(path string) bool {
	for _, p := range m.prefixes {
		if hasSegmentPrefix(path, p) {
			return true
		}
	}
	return false
}

// Prefixes returns a copy of the excluded prefixes.
func (m *Matcher) Prefixes() []string {
	out := make([]string, len(m.prefixes))
	copy(out, m.prefixes)
	return out
}

func normalizePrefix(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}

// hasSegmentPrefix reports whether path equals prefix or continues it with
// a new segment.
func hasSegmentPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
