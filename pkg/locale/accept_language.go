package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// maxAcceptLanguageLength bounds the header size we are willing to inspect.
const maxAcceptLanguageLength = 4096

// PrimaryLanguage returns the base language of the first tag in an
// Accept-Language header, lowercased and without region or quality.
// Quality values of later entries are ignored: only the first tag counts.
//
//	PrimaryLanguage("fr-FR,en;q=0.8") // "fr"
//	PrimaryLanguage("")               // ""
func PrimaryLanguage(header string) string {
	if header == "" || len(header) > maxAcceptLanguageLength {
		return ""
	}

	first, _, _ := strings.Cut(header, ",")
	first, _, _ = strings.Cut(first, ";")
	first = strings.TrimSpace(first)
	if first == "" || first == "*" {
		return ""
	}

	tag, err := language.Parse(first)
	if err == nil {
		if base, conf := tag.Base(); conf != language.No {
			return base.String()
		}
	}

	// Unknown but well-formed subtags still carry a usable primary code.
	code, _, _ := strings.Cut(first, "-")
	code, _, _ = strings.Cut(code, "_")
	return strings.ToLower(code)
}
