package locale_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saasgate/pkg/locale"
)

func TestPrimaryLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"single tag", "es", "es"},
		{"region stripped", "fr-FR", "fr"},
		{"lowercased", "EN-us", "en"},
		{"first of many", "fr-FR,en;q=0.8", "fr"},
		{"quality ignored on first", "es;q=0.1,en;q=0.9", "es"},
		{"surrounding whitespace", "  de-AT , en", "de"},
		{"wildcard", "*", ""},
		{"underscore separator", "pt_BR", "pt"},
		{"oversized header", strings.Repeat("e", 5000), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, locale.PrimaryLanguage(tt.header))
		})
	}
}
