package middlewares

import (
	"net/http"

	"github.com/dmitrymomot/saasgate/internal"
	"github.com/dmitrymomot/saasgate/pkg/locale"
	"github.com/dmitrymomot/saasgate/pkg/route"
	"github.com/dmitrymomot/saasgate/pkg/session"
)

// Gate defaults.
const (
	DefaultSessionCookie = "session"
	DefaultLocaleCookie  = "NEXT_LOCALE"
	DefaultSignInPath    = "/sign-in"
)

// Redirect reasons reported to a GateObserver.
const (
	RedirectReasonLocale = "locale"
	RedirectReasonSignIn = "sign_in"
)

type (
	localeKey  struct{}
	sessionKey struct{}
)

// GateObserver receives the outcome of every gated request.
// *metrics.Metrics satisfies it.
type GateObserver interface {
	GateDecision(decision, cookie string)
	GateRedirect(reason string)
}

type nopObserver struct{}

func (nopObserver) GateDecision(string, string) {}
func (nopObserver) GateRedirect(string)         {}

// GateConfig configures the Gate middleware.
type GateConfig struct {
	Observer      GateObserver
	SessionCookie string // Session token cookie (default: "session")
	LocaleCookie  string // Locale preference cookie (default: "NEXT_LOCALE")
	SignInPath    string // Unprefixed sign-in page (default: "/sign-in")
}

// GateOption configures GateConfig.
type GateOption func(*GateConfig)

// WithGateObserver reports gate outcomes to o.
func WithGateObserver(o GateObserver) GateOption {
	return func(cfg *GateConfig) {
		if o != nil {
			cfg.Observer = o
		}
	}
}

// WithSessionCookie sets the session cookie name.
func WithSessionCookie(name string) GateOption {
	return func(cfg *GateConfig) {
		if name != "" {
			cfg.SessionCookie = name
		}
	}
}

// WithLocaleCookie sets the locale preference cookie name.
func WithLocaleCookie(name string) GateOption {
	return func(cfg *GateConfig) {
		if name != "" {
			cfg.LocaleCookie = name
		}
	}
}

// WithSignInPath sets the unprefixed path unauthenticated visitors of
// protected routes are sent to.
func WithSignInPath(path string) GateOption {
	return func(cfg *GateConfig) {
		if path != "" {
			cfg.SignInPath = path
		}
	}
}

// Gate returns middleware that resolves the request locale and enforces the
// session policy in front of every non-excluded route.
//
// Locale-prefixed paths are rewritten to their unprefixed remainder before
// reaching the router, so handlers register each route once. The resolved
// locale and the verified session payload are available to handlers through
// GetLocale and GetSession.
//
// Gate never fails a request: rejected or unsignable sessions are logged at
// Warn level and turned into a cookie deletion, plus a sign-in redirect on
// protected routes.
func Gate(
	resolver *locale.Resolver,
	classifier *route.Classifier,
	matcher *route.Matcher,
	guard *session.Guard,
	opts ...GateOption,
) internal.Middleware {
	if resolver == nil || classifier == nil || matcher == nil || guard == nil {
		panic("middlewares: gate dependencies are not provided")
	}

	cfg := &GateConfig{
		Observer:      nopObserver{},
		SessionCookie: DefaultSessionCookie,
		LocaleCookie:  DefaultLocaleCookie,
		SignInPath:    DefaultSignInPath,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	set := resolver.Set()

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			r := c.Request()
			path := r.URL.Path
			if path == "" {
				path = "/"
			}

			if matcher.Excluded(path) {
				return next(c)
			}

			pref, _ := c.Cookies().Lookup(r, cfg.LocaleCookie)
			res := resolver.Resolve(path, pref, c.Header("Accept-Language"))
			if res.NeedsRedirect() {
				cfg.Observer.GateRedirect(RedirectReasonLocale)
				return c.Redirect(http.StatusTemporaryRedirect, withQuery(res.RedirectPath, r.URL.RawQuery))
			}

			if _, rest, ok := set.StripPrefix(path); ok {
				c.SetRequest(rewritePath(r, rest))
			}

			protected := classifier.IsProtected(path)
			token, present := c.Cookies().Lookup(r, cfg.SessionCookie)
			action := guard.Evaluate(c.Context(), token, present, protected, r.Method)
			if action.Err != nil {
				c.LogWarn("session rejected",
					"error", action.Err,
					"path", path,
					"protected", protected,
				)
			}

			switch action.Cookie {
			case session.CookieRotate:
				if err := c.SetCookieUntil(cfg.SessionCookie, action.Token, action.ExpiresAt); err != nil {
					c.LogWarn("failed to rotate session cookie", "error", err)
				}
			case session.CookieDelete:
				c.DeleteCookie(cfg.SessionCookie)
			}

			cfg.Observer.GateDecision(action.Decision.String(), action.Cookie.String())

			if action.Decision == session.RedirectToSignIn {
				cfg.Observer.GateRedirect(RedirectReasonSignIn)
				return c.Redirect(http.StatusTemporaryRedirect, set.Localize(cfg.SignInPath, res.Locale))
			}

			c.Set(localeKey{}, res.Locale)
			if action.Payload != nil {
				c.Set(sessionKey{}, action.Payload)
			}

			return next(c)
		}
	}
}

// GetLocale returns the locale resolved by Gate.
// Returns an empty string if the request did not pass through Gate.
func GetLocale(c internal.Context) string {
	if v, ok := c.Get(localeKey{}).(string); ok {
		return v
	}
	return ""
}

// GetSession returns the session payload verified for this request.
// Returns nil for anonymous requests and for mutating requests, whose tokens
// Gate does not verify.
func GetSession(c internal.Context) *session.Payload {
	if v, ok := c.Get(sessionKey{}).(*session.Payload); ok {
		return v
	}
	return nil
}

// rewritePath returns a copy of r addressed to path.
// RawPath is cleared so the router matches on the rewritten Path.
func rewritePath(r *http.Request, path string) *http.Request {
	r2 := r.Clone(r.Context())
	r2.URL.Path = path
	r2.URL.RawPath = ""
	return r2
}

func withQuery(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}
