package i18n

import (
	"fmt"
	"maps"
	"strings"
)

// M holds placeholder values for a message.
type M map[string]any

// ReplacePlaceholders replaces {{name}} placeholders in template with values
// from the map. Unknown placeholders are left as they are.
//
//	ReplacePlaceholders("Hello, {{name}}!", M{"name": "Ana"}) // "Hello, Ana!"
func ReplacePlaceholders(template string, placeholders M) string {
	if len(placeholders) == 0 || !strings.Contains(template, "{{") {
		return template
	}

	pairs := make([]string, 0, len(placeholders)*2)
	for key, value := range placeholders {
		pairs = append(pairs, "{{"+key+"}}", fmt.Sprint(value))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func mergePlaceholders(base M, placeholders ...M) M {
	if len(placeholders) == 0 {
		return base
	}
	merged := make(M, len(base))
	maps.Copy(merged, base)
	for _, p := range placeholders {
		maps.Copy(merged, p)
	}
	return merged
}
