package i18n

import (
	"fmt"
	"maps"
	"strings"

	"github.com/dmitrymomot/saasgate/pkg/locale"
)

// Bundle is the flattened message set of one locale, keyed by
// "namespace.key.path".
type Bundle map[string]string

// Catalog holds the translated messages of every supported locale.
// It is immutable after creation and safe for concurrent use.
type Catalog struct {
	set *locale.Set

	// Flattened messages keyed by locale, then "namespace.key.path".
	bundles map[string]Bundle

	// Optional handler called when a key is missing in every candidate locale.
	missingKeyHandler func(loc, namespace, key string)
}

// Option configures the Catalog during construction.
type Option func(*Catalog) error

// New creates a Catalog for the locales of set.
// Messages for locales outside the set are rejected.
func New(set *locale.Set, opts ...Option) (*Catalog, error) {
	if set == nil {
		return nil, ErrNoLocaleSet
	}

	c := &Catalog{
		set:     set,
		bundles: make(map[string]Bundle, len(set.Supported())),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("i18n: failed to apply option: %w", err)
		}
	}

	return c, nil
}

// WithMessages adds messages for a locale and namespace.
// Nested maps are flattened with dot-separated keys.
func WithMessages(loc, namespace string, messages map[string]any) Option {
	return func(c *Catalog) error {
		return c.add(loc, namespace, messages)
	}
}

// WithMissingKeyHandler sets a handler called when a key has no message in
// the requested locale nor in the default locale.
func WithMissingKeyHandler(handler func(loc, namespace, key string)) Option {
	return func(c *Catalog) error {
		c.missingKeyHandler = handler
		return nil
	}
}

// Locales returns the supported locales, default first.
func (c *Catalog) Locales() []string {
	return c.set.Supported()
}

// DefaultLocale returns the fallback locale.
func (c *Catalog) DefaultLocale() string {
	return c.set.Default()
}

// Bundle returns a copy of the messages for loc.
// If loc has no messages, the default locale's bundle is returned and ok is
// false. The result is never nil.
func (c *Catalog) Bundle(loc string) (Bundle, bool) {
	if b, found := c.bundles[loc]; found && len(b) > 0 {
		return maps.Clone(b), true
	}
	if b, found := c.bundles[c.set.Default()]; found {
		return maps.Clone(b), false
	}
	return Bundle{}, false
}

// Has reports whether loc has any messages.
func (c *Catalog) Has(loc string) bool {
	return len(c.bundles[loc]) > 0
}

// T returns the message for key in namespace, falling back to the default
// locale and finally to the key itself. Placeholders are substituted.
func (c *Catalog) T(loc, namespace, key string, placeholders ...M) string {
	msg, ok := c.lookup(loc, namespace, key)
	if !ok {
		c.missing(loc, namespace, key)
		return key
	}
	return ReplacePlaceholders(msg, mergePlaceholders(nil, placeholders...))
}

// Tn returns the plural form of key for n, chosen by the CLDR cardinal rules
// of loc. Messages are stored as "key.one", "key.other" and so on. The count
// is available as the {{count}} placeholder.
func (c *Catalog) Tn(loc, namespace, key string, n int, placeholders ...M) string {
	for _, candidate := range []string{loc, c.set.Default()} {
		for _, form := range pluralCandidates(candidate, n) {
			if msg, ok := c.bundles[candidate][namespace+"."+key+"."+form]; ok {
				return ReplacePlaceholders(msg, mergePlaceholders(M{"count": n}, placeholders...))
			}
		}
	}
	c.missing(loc, namespace, key)
	return key
}

func (c *Catalog) lookup(loc, namespace, key string) (string, bool) {
	full := namespace + "." + key
	if msg, ok := c.bundles[loc][full]; ok {
		return msg, true
	}
	if loc != c.set.Default() {
		if msg, ok := c.bundles[c.set.Default()][full]; ok {
			return msg, true
		}
	}
	return "", false
}

func (c *Catalog) missing(loc, namespace, key string) {
	if c.missingKeyHandler != nil {
		c.missingKeyHandler(loc, namespace, key)
	}
}

func (c *Catalog) add(loc, namespace string, messages map[string]any) error {
	if loc == "" {
		return ErrEmptyLocale
	}
	if namespace == "" {
		return ErrEmptyNamespace
	}
	if !c.set.Contains(loc) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLocale, loc)
	}

	b, ok := c.bundles[loc]
	if !ok {
		b = make(Bundle)
		c.bundles[loc] = b
	}
	for key, value := range flatten(messages, namespace) {
		b[key] = value
	}
	return nil
}

func flatten(data map[string]any, prefix string) map[string]string {
	result := make(map[string]string)

	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]any:
			maps.Copy(result, flatten(v, fullKey))
		case map[string]string:
			for subKey, subVal := range v {
				result[fullKey+"."+subKey] = subVal
			}
		case nil:
			continue
		default:
			result[fullKey] = strings.TrimSpace(fmt.Sprint(v))
		}
	}

	return result
}
