package route

import (
	"github.com/dmitrymomot/saasgate/pkg/locale"
)

// DefaultProtectedPrefix is the path prefix that requires a session.
const DefaultProtectedPrefix = "/dashboard"

// Classifier decides whether a path requires authentication.
// It is immutable after creation and safe for concurrent use.
type Classifier struct {
	set       *locale.Set
	protected []string
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithProtectedPrefix adds protected path prefixes. Prefixes from every call
// accumulate. DefaultProtectedPrefix applies only when no prefix was added
// at all, so callers that still want it must list it explicitly.
func WithProtectedPrefix(prefixes ...string) ClassifierOption {
	return func(c *Classifier) {
		for _, p := range prefixes {
			if p = normalizePrefix(p); p != "" {
				c.protected = append(c.protected, p)
			}
		}
	}
}

// NewClassifier creates a classifier. Without options the only protected
// prefix is DefaultProtectedPrefix.
func NewClassifier(set *locale.Set, opts ...ClassifierOption) *Classifier {
	if set == nil {
		panic("route: locale set is not provided")
	}

	c := &Classifier{set: set}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.protected) == 0 {
		c.protected = []string{DefaultProtectedPrefix}
	}
	return c
}

// IsProtected reports whether path, after stripping a recognized locale
// prefix, lies under a protected prefix.
func (c *Classifier) IsProtected(path string) bool {
	_, rest, _ := c.set.StripPrefix(path)
	for _, p := range c.protected {
		if hasSegmentPrefix(rest, p) {
			return true
		}
	}
	return false
}
