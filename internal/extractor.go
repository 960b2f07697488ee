package internal

import "strings"

// ExtractorSource reads a value from the request.
type ExtractorSource = func(Context) (string, bool)

// Extractor tries sources in order and returns the first non-empty value.
type Extractor struct {
	sources []ExtractorSource
}

// NewExtractor creates an Extractor over sources.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

// Extract returns the first non-empty value, or ("", false).
func (e Extractor) Extract(c Context) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(c); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := c.Header(name)
		return v, v != ""
	}
}

// FromQuery reads a query parameter.
func FromQuery(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := c.Query(name)
		return v, v != ""
	}
}

// FromCookie reads a cookie.
func FromCookie(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v, err := c.Cookie(name)
		if err != nil {
			return "", false
		}
		return v, v != ""
	}
}

// FromForm reads a form field.
func FromForm(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := c.Form(name)
		return v, v != ""
	}
}

// FromBearerToken reads the token of an "Authorization: Bearer" header.
// The scheme is matched case-insensitively.
func FromBearerToken() ExtractorSource {
	return func(c Context) (string, bool) {
		auth := c.Header("Authorization")
		if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
			return "", false
		}
		token := strings.TrimSpace(auth[7:])
		return token, token != ""
	}
}
