package config

import "errors"

var (
	ErrParse         = errors.New("config: failed to parse environment")
	ErrWeakSecret    = errors.New("config: session secret is too short")
	ErrInvalidLocale = errors.New("config: invalid locale settings")
	ErrInvalidValue  = errors.New("config: invalid value")
)
