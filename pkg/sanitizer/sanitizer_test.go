package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saasgate/pkg/sanitizer"
)

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Ana Ruiz", want: "Ana Ruiz"},
		{name: "markup stripped", in: "<b>Ana</b> <script>alert(1)</script>Ruiz", want: "Ana Ruiz"},
		{name: "entities decoded", in: "Tom &amp; Jerry", want: "Tom & Jerry"},
		{name: "whitespace collapsed", in: "  Ana\t\n  Ruiz  ", want: "Ana Ruiz"},
		{name: "empty", in: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, sanitizer.Text(tt.in))
		})
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "José", sanitizer.Name("José García", 4))
	require.Equal(t, "Ana", sanitizer.Name("Ana B", 4))
	require.Equal(t, "Ana Ruiz", sanitizer.Name(" Ana  Ruiz ", 0))
}

func TestEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{in: " Ana@Example.COM ", want: "ana@example.com", valid: true},
		{in: "test@test.com", want: "test@test.com", valid: true},
		{in: "not-an-email", want: "not-an-email", valid: false},
		{in: "Ana <ana@example.com>", want: "ana <ana@example.com>", valid: false},
		{in: "", want: "", valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := sanitizer.Email(tt.in)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.valid, ok)
		})
	}
}
