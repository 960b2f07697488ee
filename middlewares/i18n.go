package middlewares

import (
	"github.com/dmitrymomot/saasgate/internal"
	"github.com/dmitrymomot/saasgate/pkg/i18n"
	"github.com/dmitrymomot/saasgate/pkg/locale"
)

// DefaultI18nNamespace is the namespace of the context translator unless
// WithI18nNamespace overrides it.
const DefaultI18nNamespace = "common"

// I18nConfig configures the I18n middleware.
type I18nConfig struct {
	Detector     *locale.Resolver // Locale detection for requests Gate skipped
	Namespace    string
	LocaleCookie string
	Header       bool // Set Content-Language on responses
}

// I18nOption configures I18nConfig.
type I18nOption func(*I18nConfig)

// WithI18nNamespace sets the default namespace for the context translator.
func WithI18nNamespace(ns string) I18nOption {
	return func(cfg *I18nConfig) {
		if ns != "" {
			cfg.Namespace = ns
		}
	}
}

// WithI18nDetector detects the locale of requests that bypassed Gate from
// the locale cookie and Accept-Language header.
func WithI18nDetector(r *locale.Resolver) I18nOption {
	return func(cfg *I18nConfig) {
		cfg.Detector = r
	}
}

// WithoutContentLanguage disables the Content-Language response header.
func WithoutContentLanguage() I18nOption {
	return func(cfg *I18nConfig) {
		cfg.Header = false
	}
}

// I18n returns middleware that binds a Translator for the request locale
// and stores it in the context, where Context.T and Context.Tn find it.
//
// The locale is the one Gate resolved. Requests that bypass Gate, such as
// the JSON API, are detected with the configured detector or fall back to
// the catalog's default locale.
func I18n(catalog *i18n.Catalog, opts ...I18nOption) internal.Middleware {
	if catalog == nil {
		panic("middlewares: catalog is not provided")
	}

	cfg := &I18nConfig{Header: true, LocaleCookie: DefaultLocaleCookie, Namespace: DefaultI18nNamespace}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			loc := GetLocale(c)
			if loc == "" && cfg.Detector != nil {
				pref, _ := c.Cookies().Lookup(c.Request(), cfg.LocaleCookie)
				loc = cfg.Detector.Detect(pref, c.Header("Accept-Language"))
			}

			tr := i18n.NewTranslator(catalog, loc, cfg.Namespace)
			if tr.Fallback() {
				c.LogWarn("no messages for locale, using default bundle",
					"locale", tr.Locale(),
					"default", catalog.DefaultLocale(),
				)
			}

			c.Set(internal.TranslatorKey{}, tr)
			if cfg.Header {
				c.SetHeader("Content-Language", tr.Locale())
			}

			return next(c)
		}
	}
}

// GetTranslator extracts the Translator from the context.
// Returns nil if the I18n middleware is not used.
func GetTranslator(c internal.Context) *i18n.Translator {
	if v, ok := c.Get(internal.TranslatorKey{}).(*i18n.Translator); ok {
		return v
	}
	return nil
}
