package i18n

import "errors"

var (
	ErrNoLocaleSet       = errors.New("i18n: locale set is not provided")
	ErrEmptyLocale       = errors.New("i18n: locale cannot be empty")
	ErrEmptyNamespace    = errors.New("i18n: namespace cannot be empty")
	ErrUnsupportedLocale = errors.New("i18n: unsupported locale")
	ErrInvalidFile       = errors.New("i18n: invalid translation file")
)
