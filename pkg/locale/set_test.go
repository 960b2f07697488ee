package locale_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saasgate/pkg/locale"
)

func TestNewSet(t *testing.T) {
	t.Parallel()

	t.Run("default is listed first", func(t *testing.T) {
		t.Parallel()
		set, err := locale.NewSet("es", "en", "es")
		require.NoError(t, err)
		require.Equal(t, "es", set.Default())
		require.Equal(t, []string{"es", "en"}, set.Supported())
	})

	t.Run("default is added when missing from supported", func(t *testing.T) {
		t.Parallel()
		set, err := locale.NewSet("en", "es")
		require.NoError(t, err)
		require.True(t, set.Contains("en"))
		require.True(t, set.Contains("es"))
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		t.Parallel()
		set, err := locale.NewSet(" EN ", "Es")
		require.NoError(t, err)
		require.Equal(t, []string{"en", "es"}, set.Supported())
	})

	t.Run("rejects empty default", func(t *testing.T) {
		t.Parallel()
		_, err := locale.NewSet("")
		require.ErrorIs(t, err, locale.ErrNoLocales)
	})

	t.Run("rejects region tags", func(t *testing.T) {
		t.Parallel()
		_, err := locale.NewSet("en", "es-MX")
		require.ErrorIs(t, err, locale.ErrInvalidLocale)
	})

	t.Run("rejects malformed codes", func(t *testing.T) {
		t.Parallel()
		_, err := locale.NewSet("en", "not a locale")
		require.ErrorIs(t, err, locale.ErrInvalidLocale)
	})

	t.Run("supported returns a copy", func(t *testing.T) {
		t.Parallel()
		set := locale.MustNewSet("en", "es")
		list := set.Supported()
		list[0] = "xx"
		require.Equal(t, "en", set.Supported()[0])
	})
}

func TestSet_StripPrefix(t *testing.T) {
	t.Parallel()

	set := locale.MustNewSet("en", "es")

	tests := []struct {
		name     string
		path     string
		wantLoc  string
		wantRest string
		wantOK   bool
	}{
		{"bare prefix", "/es", "es", "/", true},
		{"bare prefix with slash", "/es/", "es", "/", true},
		{"nested path", "/es/dashboard/general", "es", "/dashboard/general", true},
		{"default prefix", "/en/pricing", "en", "/pricing", true},
		{"root", "/", "", "/", false},
		{"unprefixed", "/dashboard", "", "/dashboard", false},
		{"segment lookalike", "/espanol", "", "/espanol", false},
		{"unsupported code", "/fr/pricing", "", "/fr/pricing", false},
		{"case sensitive", "/ES/pricing", "", "/ES/pricing", false},
		{"relative path", "es/pricing", "", "es/pricing", false},
		{"doubled slash after prefix", "/en//evil.com", "en", "/evil.com", true},
		{"backslash after prefix", "/en/\\evil.com", "en", "/evil.com", true},
		{"mixed separators after prefix", "/es/\\//evil.com/x", "es", "/evil.com/x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			loc, rest, ok := set.StripPrefix(tt.path)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.wantLoc, loc)
			require.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestSet_Localize(t *testing.T) {
	t.Parallel()

	set := locale.MustNewSet("en", "es")

	tests := []struct {
		name string
		path string
		loc  string
		want string
	}{
		{"root to non-default", "/", "es", "/es"},
		{"path to non-default", "/pricing", "es", "/es/pricing"},
		{"root to default", "/", "en", "/"},
		{"path to default", "/pricing", "en", "/pricing"},
		{"replaces existing prefix", "/es/pricing", "en", "/pricing"},
		{"re-prefixes default prefix", "/en/pricing", "es", "/es/pricing"},
		{"idempotent", "/es/pricing", "es", "/es/pricing"},
		{"unsupported falls back to default", "/es/pricing", "fr", "/pricing"},
		{"empty path", "", "es", "/es"},
		{"doubled slash to default", "/es//evil.example/x", "en", "/evil.example/x"},
		{"backslash to default", "/es/\\evil.example", "en", "/evil.example"},
		{"doubled slash to non-default", "//evil.example", "es", "/es/evil.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, set.Localize(tt.path, tt.loc))
		})
	}
}

func TestSet_Match(t *testing.T) {
	t.Parallel()

	set := locale.MustNewSet("en", "es")

	loc, ok := set.Match(" ES ")
	require.True(t, ok)
	require.Equal(t, "es", loc)

	_, ok = set.Match("fr")
	require.False(t, ok)

	_, ok = set.Match("")
	require.False(t, ok)
}
