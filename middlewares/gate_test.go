package middlewares_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saasgate/internal"
	"github.com/dmitrymomot/saasgate/middlewares"
	"github.com/dmitrymomot/saasgate/pkg/locale"
	"github.com/dmitrymomot/saasgate/pkg/logger"
	"github.com/dmitrymomot/saasgate/pkg/route"
	"github.com/dmitrymomot/saasgate/pkg/session"
	"github.com/dmitrymomot/saasgate/pkg/token"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type observer struct {
	mu        sync.Mutex
	decisions []string
	redirects []string
}

func (o *observer) GateDecision(decision, cookie string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.decisions = append(o.decisions, decision+"/"+cookie)
}

func (o *observer) GateRedirect(reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.redirects = append(o.redirects, reason)
}

func echo(c internal.Context) error {
	sub := "-"
	if p := middlewares.GetSession(c); p != nil {
		sub = p.Subject
	}
	loc := middlewares.GetLocale(c)
	if loc == "" {
		loc = "-"
	}
	return c.String(http.StatusOK, c.Request().URL.Path+"|"+loc+"|"+sub)
}

func newGateApp(t *testing.T, signer session.Signer, opts ...middlewares.GateOption) *internal.App {
	t.Helper()

	set := locale.MustNewSet("en", "es")
	gate := middlewares.Gate(
		locale.NewResolver(set),
		route.NewClassifier(set),
		route.NewMatcher(route.DefaultExcluded...),
		session.NewGuard(signer),
		opts...,
	)

	return internal.New(
		internal.WithMiddleware(gate),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/", echo)
			r.GET("/pricing", echo)
			r.GET("/sign-in", echo)
			r.GET("/dashboard", echo)
			r.GET("/dashboard/settings", echo)
			r.POST("/dashboard/settings", echo)
			r.GET("/api/user", echo)
		})),
	)
}

func newRequest(method, target string, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestGate_Scenarios(t *testing.T) {
	t.Parallel()

	signer, err := token.NewSigner([]byte(testSecret))
	require.NoError(t, err)
	app := newGateApp(t, signer)

	t.Run("protected route without session redirects to sign-in", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, app, newRequest(http.MethodGet, "/dashboard"))
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		require.Equal(t, "/sign-in", rec.Header().Get("Location"))
		requireNoCookie(t, rec, middlewares.DefaultSessionCookie)
	})

	t.Run("sign-in redirect keeps the resolved locale", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, app, newRequest(http.MethodGet, "/es/dashboard"))
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		require.Equal(t, "/es/sign-in", rec.Header().Get("Location"))
	})

	t.Run("locale cookie redirects root to prefixed path", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, app, newRequest(http.MethodGet, "/", &http.Cookie{Name: "NEXT_LOCALE", Value: "es"}))
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		require.Equal(t, "/es", rec.Header().Get("Location"))
	})

	t.Run("path prefix wins over accept-language", func(t *testing.T) {
		t.Parallel()

		req := newRequest(http.MethodGet, "/es/pricing")
		req.Header.Set("Accept-Language", "fr-FR,en;q=0.8")

		rec := serve(t, app, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "/pricing|es|-", rec.Body.String())
	})

	t.Run("valid session is rotated for 24 hours", func(t *testing.T) {
		t.Parallel()

		tok, err := signer.Sign(context.Background(), session.NewPayload("user-1", time.Now().Add(time.Hour)))
		require.NoError(t, err)

		start := time.Now()
		rec := serve(t, app, newRequest(http.MethodGet, "/dashboard/settings",
			&http.Cookie{Name: "session", Value: tok}))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "/dashboard/settings|en|user-1", rec.Body.String())

		c := findCookie(t, rec, "session")
		require.NotNil(t, c)
		require.NotEmpty(t, c.Value)
		require.True(t, c.HttpOnly)
		require.Equal(t, "/", c.Path)
		require.WithinDuration(t, start.Add(session.DefaultExtension), c.Expires, 2*time.Second)

		rotated, err := signer.Verify(context.Background(), c.Value)
		require.NoError(t, err)
		require.Equal(t, "user-1", rotated.Subject)
	})

	t.Run("tampered session redirects and deletes cookie", func(t *testing.T) {
		t.Parallel()

		forger, err := token.NewSigner([]byte(strings.Repeat("x", 32)))
		require.NoError(t, err)
		forged, err := forger.Sign(context.Background(), session.NewPayload("user-1", time.Now().Add(time.Hour)))
		require.NoError(t, err)

		rec := serve(t, app, newRequest(http.MethodGet, "/dashboard", &http.Cookie{Name: "session", Value: forged}))
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		require.Equal(t, "/sign-in", rec.Header().Get("Location"))

		c := findCookie(t, rec, "session")
		require.NotNil(t, c)
		require.Empty(t, c.Value)
		require.Less(t, c.MaxAge, 0)
	})

	t.Run("excluded path bypasses the gate", func(t *testing.T) {
		t.Parallel()

		req := newRequest(http.MethodGet, "/api/user",
			&http.Cookie{Name: "session", Value: "garbage"},
			&http.Cookie{Name: "NEXT_LOCALE", Value: "es"})

		rec := serve(t, app, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "/api/user|-|-", rec.Body.String())
		requireNoCookie(t, rec, "session")
	})
}

func TestGate_Locale(t *testing.T) {
	t.Parallel()

	app := newGateApp(t, fakeSigner{})

	tests := []struct {
		name     string
		target   string
		cookie   string
		accept   string
		code     int
		location string
		body     string
	}{
		{name: "default locale unprefixed", target: "/pricing", code: http.StatusOK, body: "/pricing|en|-"},
		{name: "accept-language redirect", target: "/pricing", accept: "es-ES,es;q=0.9", code: http.StatusTemporaryRedirect, location: "/es/pricing"},
		{name: "query is preserved", target: "/pricing?plan=pro", cookie: "es", code: http.StatusTemporaryRedirect, location: "/es/pricing?plan=pro"},
		{name: "default prefix dropped", target: "/en/pricing", code: http.StatusTemporaryRedirect, location: "/pricing"},
		{name: "default prefix kept against es cookie", target: "/en/pricing", cookie: "es", code: http.StatusOK, body: "/pricing|en|-"},
		{name: "bare prefix rewrites to root", target: "/es", code: http.StatusOK, body: "/|es|-"},
		{name: "unsupported cookie ignored", target: "/pricing", cookie: "de", code: http.StatusOK, body: "/pricing|en|-"},
		{name: "unsupported prefix is a plain path", target: "/fr/pricing", code: http.StatusNotFound},
		{name: "doubled slash after default prefix stays local", target: "/en//evil.com", code: http.StatusTemporaryRedirect, location: "/evil.com"},
		{name: "doubled slash with nested path stays local", target: "/en//evil.com/x", code: http.StatusTemporaryRedirect, location: "/evil.com/x"},
		{name: "backslash after default prefix stays local", target: "/en/%5Cevil.com", code: http.StatusTemporaryRedirect, location: "/evil.com"},
		{name: "doubled slash after non-default prefix is rewritten", target: "/es//pricing", code: http.StatusOK, body: "/pricing|es|-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := newRequest(http.MethodGet, tt.target)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "NEXT_LOCALE", Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}

			rec := serve(t, app, req)
			require.Equal(t, tt.code, rec.Code)
			if tt.location != "" {
				require.Equal(t, tt.location, rec.Header().Get("Location"))
			}
			if tt.body != "" {
				require.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestGate_Session(t *testing.T) {
	t.Parallel()

	t.Run("public route with invalid token passes and deletes cookie", func(t *testing.T) {
		t.Parallel()

		app := newGateApp(t, fakeSigner{})
		rec := serve(t, app, newRequest(http.MethodGet, "/pricing", &http.Cookie{Name: "session", Value: "bogus"}))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "/pricing|en|-", rec.Body.String())

		c := findCookie(t, rec, "session")
		require.NotNil(t, c)
		require.Less(t, c.MaxAge, 0)
	})

	t.Run("expired payload is rejected", func(t *testing.T) {
		t.Parallel()

		app := newGateApp(t, fakeSigner{expired: true})
		rec := serve(t, app, newRequest(http.MethodGet, "/dashboard", &http.Cookie{Name: "session", Value: "valid:u1"}))
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		require.NotNil(t, findCookie(t, rec, "session"))
	})

	t.Run("signing failure is treated as invalid", func(t *testing.T) {
		t.Parallel()

		app := newGateApp(t, fakeSigner{failSign: true})
		rec := serve(t, app, newRequest(http.MethodGet, "/dashboard", &http.Cookie{Name: "session", Value: "valid:u1"}))
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		require.Equal(t, "/sign-in", rec.Header().Get("Location"))

		c := findCookie(t, rec, "session")
		require.NotNil(t, c)
		require.Empty(t, c.Value)
	})

	t.Run("mutating request passes without verification", func(t *testing.T) {
		t.Parallel()

		app := newGateApp(t, fakeSigner{})
		rec := serve(t, app, newRequest(http.MethodPost, "/dashboard/settings", &http.Cookie{Name: "session", Value: "bogus"}))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "/dashboard/settings|en|-", rec.Body.String())
		requireNoCookie(t, rec, "session")
	})

	t.Run("mutating request without cookie on protected route redirects", func(t *testing.T) {
		t.Parallel()

		app := newGateApp(t, fakeSigner{})
		rec := serve(t, app, newRequest(http.MethodPost, "/dashboard/settings"))
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	})

	t.Run("empty cookie value is rejected", func(t *testing.T) {
		t.Parallel()

		app := newGateApp(t, fakeSigner{})
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set("Cookie", "session=")

		rec := serve(t, app, req)
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		require.NotNil(t, findCookie(t, rec, "session"))
	})

	t.Run("custom cookie and sign-in path", func(t *testing.T) {
		t.Parallel()

		app := newGateApp(t, fakeSigner{},
			middlewares.WithSessionCookie("sid"),
			middlewares.WithSignInPath("/login"),
		)

		rec := serve(t, app, newRequest(http.MethodGet, "/es/dashboard", &http.Cookie{Name: "session", Value: "valid:u1"}))
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		require.Equal(t, "/es/login", rec.Header().Get("Location"))

		rec = serve(t, app, newRequest(http.MethodGet, "/dashboard", &http.Cookie{Name: "sid", Value: "valid:u1"}))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "signed:u1", findCookie(t, rec, "sid").Value)
	})
}

func TestGate_Observer(t *testing.T) {
	t.Parallel()

	obs := &observer{}
	app := newGateApp(t, fakeSigner{}, middlewares.WithGateObserver(obs))

	serve(t, app, newRequest(http.MethodGet, "/dashboard"))
	serve(t, app, newRequest(http.MethodGet, "/dashboard", &http.Cookie{Name: "session", Value: "valid:u1"}))
	serve(t, app, newRequest(http.MethodGet, "/", &http.Cookie{Name: "NEXT_LOCALE", Value: "es"}))
	serve(t, app, newRequest(http.MethodGet, "/api/user"))

	obs.mu.Lock()
	defer obs.mu.Unlock()
	require.Equal(t, []string{"redirect_to_sign_in/keep", "pass_through/rotate"}, obs.decisions)
	require.Equal(t, []string{middlewares.RedirectReasonSignIn, middlewares.RedirectReasonLocale}, obs.redirects)
}

func TestGate_Logging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	set := locale.MustNewSet("en", "es")
	app := internal.New(
		internal.WithLogger(logger.NewWithWriter(&buf, logger.Config{Level: "debug", Format: "json"})),
		internal.WithMiddleware(middlewares.Gate(
			locale.NewResolver(set),
			route.NewClassifier(set),
			route.NewMatcher(route.DefaultExcluded...),
			session.NewGuard(fakeSigner{}),
		)),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/dashboard", echo)
		})),
	)

	rec := serve(t, app, newRequest(http.MethodGet, "/dashboard"))
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	require.NotContains(t, buf.String(), "session rejected")

	rec = serve(t, app, newRequest(http.MethodGet, "/dashboard", &http.Cookie{Name: "session", Value: "tampered"}))
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	require.Contains(t, buf.String(), `"msg":"session rejected"`)
	require.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestGate_PanicsOnMissingDependencies(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		middlewares.Gate(nil, nil, nil, nil)
	})
}
