package locale

import "errors"

var (
	// ErrNoLocales is returned when a set is built without any locale.
	ErrNoLocales = errors.New("locale: no locales configured")

	// ErrInvalidLocale is returned for codes that are not a bare language subtag.
	ErrInvalidLocale = errors.New("locale: invalid locale code")
)
