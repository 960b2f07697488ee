package handlers

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/saasgate"
	"github.com/dmitrymomot/saasgate/middlewares"
	"github.com/dmitrymomot/saasgate/pkg/cookie"
	"github.com/dmitrymomot/saasgate/pkg/locale"
)

// localeCookieMaxAge keeps the preference for a year.
const localeCookieMaxAge = 365 * 24 * 60 * 60

// Locale switches the preferred language.
type Locale struct {
	set        *locale.Set
	cookieName string
}

func NewLocale(set *locale.Set) *Locale {
	return &Locale{set: set, cookieName: middlewares.DefaultLocaleCookie}
}

func (h *Locale) Routes(r saasgate.Router) {
	r.POST("/api/locale", h.switchLocale)
}

// switchLocale stores the chosen locale in a cookie readable by the
// frontend and redirects to path re-prefixed for it. Unsupported locales
// select the default.
func (h *Locale) switchLocale(c saasgate.Context) error {
	loc, ok := h.set.Match(c.Form("locale"))
	if !ok {
		loc = h.set.Default()
	}

	c.Cookies().
		With(cookie.WithHTTPOnly(false), cookie.WithSameSite(http.SameSiteLaxMode)).
		Set(c.Response(), h.cookieName, loc, localeCookieMaxAge)

	path, query, _ := strings.Cut(localPath(c.Form("path")), "?")
	target := h.set.Localize(path, loc)
	if query != "" {
		target += "?" + query
	}
	return c.Redirect(http.StatusSeeOther, target)
}

// localPath returns p if it is a local absolute path, else "/".
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.ContainsAny(p, "\\\r\n") {
		return "/"
	}
	return p
}
