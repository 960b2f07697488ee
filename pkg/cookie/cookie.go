package cookie

import (
	"errors"
	"net/http"
	"time"
)

// Errors.
var (
	ErrNotFound = errors.New("cookie: not found")
	ErrEmpty    = errors.New("cookie: empty value")
)

// Manager writes cookies with a fixed set of attributes.
// It is immutable after creation and safe for concurrent use.
type Manager struct {
	domain   string
	path     string
	secure   bool
	httpOnly bool
	sameSite http.SameSite
}

// Option configures the Manager.
type Option func(*Manager)

// New creates a cookie Manager with the given options.
// Defaults: Path "/", HttpOnly, SameSite=Lax, Secure. Plain-HTTP development
// setups opt out with WithSecure(false).
func New(opts ...Option) *Manager {
	m := &Manager{
		path:     "/",
		secure:   true,
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// With returns a copy of m with opts applied on top of its settings.
func (m *Manager) With(opts ...Option) *Manager {
	cp := *m
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(m *Manager) {
		m.domain = domain
	}
}

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// WithSecure sets the Secure flag. Defaults to true.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithHTTPOnly sets the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) {
		m.httpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) {
		m.sameSite = ss
	}
}

// Get returns a cookie value.
// Returns ErrNotFound if the cookie is absent.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Lookup returns the cookie value and whether the cookie was sent at all.
// A present cookie may carry an empty value.
func (m *Manager) Lookup(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// Set writes a cookie that lives for maxAge seconds.
// A zero maxAge produces a browser-session cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	c := m.cookie(name, value)
	c.MaxAge = maxAge
	http.SetCookie(w, c)
}

// SetUntil writes a cookie that expires at the given instant.
// Returns ErrEmpty for an empty value.
func (m *Manager) SetUntil(w http.ResponseWriter, name, value string, expires time.Time) error {
	if value == "" {
		return ErrEmpty
	}
	c := m.cookie(name, value)
	c.Expires = expires.UTC()
	http.SetCookie(w, c)
	return nil
}

// Delete expires a cookie immediately.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	c := m.cookie(name, "")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0).UTC()
	http.SetCookie(w, c)
}

// Secure reports whether cookies are written with the Secure flag.
func (m *Manager) Secure() bool {
	return m.secure
}

// cookie creates a cookie with the manager's defaults.
func (m *Manager) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}
