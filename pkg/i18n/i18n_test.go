package i18n_test

import (
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saasgate/pkg/i18n"
	"github.com/dmitrymomot/saasgate/pkg/locale"
)

func newCatalog(t *testing.T, opts ...i18n.Option) *i18n.Catalog {
	t.Helper()
	c, err := i18n.New(locale.MustNewSet("en", "es", "de"), opts...)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires locale set", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(nil)
		require.ErrorIs(t, err, i18n.ErrNoLocaleSet)
	})

	t.Run("exposes locales", func(t *testing.T) {
		t.Parallel()
		c := newCatalog(t)
		require.Equal(t, "en", c.DefaultLocale())
		require.Equal(t, []string{"en", "es", "de"}, c.Locales())
	})

	t.Run("rejects unsupported locale", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(locale.MustNewSet("en"), i18n.WithMessages("fr", "common", map[string]any{"a": "b"}))
		require.ErrorIs(t, err, i18n.ErrUnsupportedLocale)
	})

	t.Run("rejects empty namespace", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(locale.MustNewSet("en"), i18n.WithMessages("en", "", map[string]any{"a": "b"}))
		require.ErrorIs(t, err, i18n.ErrEmptyNamespace)
	})

	t.Run("rejects empty locale", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(locale.MustNewSet("en"), i18n.WithMessages("", "common", map[string]any{"a": "b"}))
		require.ErrorIs(t, err, i18n.ErrEmptyLocale)
	})
}

func TestCatalog_T(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		missing []string
	)
	c := newCatalog(t,
		i18n.WithMessages("en", "common", map[string]any{
			"greeting": "Hello, {{name}}!",
			"only_en":  "English only",
			"nav": map[string]any{
				"pricing": "Pricing",
			},
		}),
		i18n.WithMessages("es", "common", map[string]any{
			"greeting": "¡Hola, {{name}}!",
			"nav": map[string]string{
				"pricing": "Precios",
			},
		}),
		i18n.WithMissingKeyHandler(func(loc, ns, key string) {
			mu.Lock()
			defer mu.Unlock()
			missing = append(missing, loc+":"+ns+":"+key)
		}),
	)

	require.Equal(t, "¡Hola, Ana!", c.T("es", "common", "greeting", i18n.M{"name": "Ana"}))
	require.Equal(t, "Hello, Ana!", c.T("en", "common", "greeting", i18n.M{"name": "Ana"}))
	require.Equal(t, "Precios", c.T("es", "common", "nav.pricing"))
	require.Equal(t, "English only", c.T("es", "common", "only_en"))
	require.Equal(t, "English only", c.T("de", "common", "only_en"))
	require.Equal(t, "Hello, {{name}}!", c.T("en", "common", "greeting"))
	require.Equal(t, "nope", c.T("es", "common", "nope"))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"es:common:nope"}, missing)
}

func TestCatalog_Bundle(t *testing.T) {
	t.Parallel()

	c := newCatalog(t,
		i18n.WithMessages("en", "common", map[string]any{"title": "Dashboard"}),
		i18n.WithMessages("es", "common", map[string]any{"title": "Panel"}),
	)

	t.Run("locale with messages", func(t *testing.T) {
		t.Parallel()
		b, ok := c.Bundle("es")
		require.True(t, ok)
		require.Equal(t, "Panel", b["common.title"])
	})

	t.Run("locale without messages falls back to default", func(t *testing.T) {
		t.Parallel()
		b, ok := c.Bundle("de")
		require.False(t, ok)
		require.Equal(t, "Dashboard", b["common.title"])
	})

	t.Run("unknown locale falls back to default", func(t *testing.T) {
		t.Parallel()
		b, ok := c.Bundle("fr")
		require.False(t, ok)
		require.Equal(t, "Dashboard", b["common.title"])
	})

	t.Run("returned bundle is a copy", func(t *testing.T) {
		t.Parallel()
		b, _ := c.Bundle("en")
		b["common.title"] = "changed"
		require.Equal(t, "Dashboard", c.T("en", "common", "title"))
	})

	t.Run("empty catalog yields empty bundle", func(t *testing.T) {
		t.Parallel()
		empty := newCatalog(t)
		b, ok := empty.Bundle("en")
		require.False(t, ok)
		require.NotNil(t, b)
		require.Empty(t, b)
	})
}

func TestCatalog_Tn(t *testing.T) {
	t.Parallel()

	c := newCatalog(t,
		i18n.WithMessages("en", "activity", map[string]any{
			"minutes": map[string]any{
				"zero":  "just now",
				"one":   "{{count}} minute ago",
				"other": "{{count}} minutes ago",
			},
			"hours": map[string]any{
				"other": "{{count}} hours ago",
			},
		}),
		i18n.WithMessages("es", "activity", map[string]any{
			"minutes": map[string]any{
				"one":   "hace {{count}} minuto",
				"other": "hace {{count}} minutos",
			},
		}),
	)

	require.Equal(t, "just now", c.Tn("en", "activity", "minutes", 0))
	require.Equal(t, "1 minute ago", c.Tn("en", "activity", "minutes", 1))
	require.Equal(t, "5 minutes ago", c.Tn("en", "activity", "minutes", 5))
	require.Equal(t, "hace 1 minuto", c.Tn("es", "activity", "minutes", 1))
	require.Equal(t, "hace 3 minutos", c.Tn("es", "activity", "minutes", 3))
	require.Equal(t, "hace 0 minutos", c.Tn("es", "activity", "minutes", 0))
	require.Equal(t, "1 hours ago", c.Tn("en", "activity", "hours", 1))
	require.Equal(t, "2 hours ago", c.Tn("es", "activity", "hours", 2))
	require.Equal(t, "days", c.Tn("en", "activity", "days", 2))
}

func TestWithFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"en/common.json":   {Data: []byte(`{"title": "Dashboard", "nav": {"team": "Team"}}`)},
		"es/common.yaml":   {Data: []byte("title: Panel\nnav:\n  team: Equipo\n")},
		"es/dashboard.yml": {Data: []byte("heading: Configuración\n")},
		"fr/common.json":   {Data: []byte(`{"title": "Tableau"}`)},
		"en/README.md":     {Data: []byte("ignored")},
	}

	c := newCatalog(t, i18n.WithFS(fsys))

	require.Equal(t, "Dashboard", c.T("en", "common", "title"))
	require.Equal(t, "Team", c.T("en", "common", "nav.team"))
	require.Equal(t, "Panel", c.T("es", "common", "title"))
	require.Equal(t, "Equipo", c.T("es", "common", "nav.team"))
	require.Equal(t, "Configuración", c.T("es", "dashboard", "heading"))
	require.False(t, c.Has("fr"))

	t.Run("root level file rejected", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(locale.MustNewSet("en"), i18n.WithFS(fstest.MapFS{
			"common.json": {Data: []byte(`{}`)},
		}))
		require.ErrorIs(t, err, i18n.ErrInvalidFile)
	})

	t.Run("malformed file rejected", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(locale.MustNewSet("en"), i18n.WithFS(fstest.MapFS{
			"en/common.json": {Data: []byte(`{not json`)},
		}))
		require.ErrorIs(t, err, i18n.ErrInvalidFile)
	})
}

func TestTranslator(t *testing.T) {
	t.Parallel()

	c := newCatalog(t,
		i18n.WithMessages("en", "common", map[string]any{"title": "Dashboard"}),
		i18n.WithMessages("en", "auth", map[string]any{"sign_in": "Sign in"}),
		i18n.WithMessages("es", "common", map[string]any{"title": "Panel"}),
	)

	t.Run("binds locale and namespace", func(t *testing.T) {
		t.Parallel()
		tr := i18n.NewTranslator(c, "es", "common")
		require.Equal(t, "es", tr.Locale())
		require.Equal(t, "Panel", tr.T("title"))
		require.Equal(t, "Sign in", tr.Namespace("auth").T("sign_in"))
		require.False(t, tr.Fallback())
	})

	t.Run("unsupported locale uses default", func(t *testing.T) {
		t.Parallel()
		tr := i18n.NewTranslator(c, "fr", "common")
		require.Equal(t, "en", tr.Locale())
		require.Equal(t, "Dashboard", tr.T("title"))
	})

	t.Run("reports fallback for locale without messages", func(t *testing.T) {
		t.Parallel()
		tr := i18n.NewTranslator(c, "de", "common")
		require.True(t, tr.Fallback())
		require.Equal(t, "Dashboard", tr.T("title"))
	})

	t.Run("panics without catalog", func(t *testing.T) {
		t.Parallel()
		require.Panics(t, func() { i18n.NewTranslator(nil, "en", "common") })
	})
}

func TestReplacePlaceholders(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Hi Ana, 3 new", i18n.ReplacePlaceholders("Hi {{name}}, {{count}} new", i18n.M{"name": "Ana", "count": 3}))
	require.Equal(t, "Hi {{name}}", i18n.ReplacePlaceholders("Hi {{name}}", i18n.M{"other": 1}))
	require.Equal(t, "plain", i18n.ReplacePlaceholders("plain", nil))
}
