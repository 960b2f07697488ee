package i18n

// Translator binds a Catalog to one locale and namespace.
type Translator struct {
	catalog   *Catalog
	locale    string
	namespace string
}

// NewTranslator creates a Translator for loc and namespace.
// If loc is empty or unsupported, the catalog's default locale is used.
func NewTranslator(catalog *Catalog, loc, namespace string) *Translator {
	if catalog == nil {
		panic("i18n: catalog is not provided")
	}
	if !catalog.set.Contains(loc) {
		loc = catalog.DefaultLocale()
	}
	return &Translator{
		catalog:   catalog,
		locale:    loc,
		namespace: namespace,
	}
}

// T translates a key in the translator's locale and namespace.
func (t *Translator) T(key string, placeholders ...M) string {
	return t.catalog.T(t.locale, t.namespace, key, placeholders...)
}

// Tn translates a key with pluralization.
func (t *Translator) Tn(key string, n int, placeholders ...M) string {
	return t.catalog.Tn(t.locale, t.namespace, key, n, placeholders...)
}

// Namespace returns a Translator for another namespace in the same locale.
func (t *Translator) Namespace(namespace string) *Translator {
	return &Translator{catalog: t.catalog, locale: t.locale, namespace: namespace}
}

// Locale returns the translator's locale.
func (t *Translator) Locale() string {
	return t.locale
}

// Fallback reports whether the translator's locale has no messages of its
// own, so every lookup is served from the default locale.
func (t *Translator) Fallback() bool {
	return !t.catalog.Has(t.locale)
}
