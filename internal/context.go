package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/saasgate/pkg/cookie"
	"github.com/dmitrymomot/saasgate/pkg/i18n"
)

// maxJSONBody caps request bodies decoded by BindJSON.
const maxJSONBody = 1 << 20

// TranslatorKey is the context key for the request's *i18n.Translator.
type TranslatorKey struct{}

// Context gives handlers and middleware access to the request and response.
// It implements context.Context by delegating to the request context, so it
// can be passed straight to repositories and clients.
type Context interface {
	context.Context

	Request() *http.Request

	// SetRequest replaces the request seen by the rest of the chain.
	// Middleware uses it to rewrite the URL or attach context values.
	SetRequest(r *http.Request)

	Response() http.ResponseWriter
	ResponseWriter() *ResponseWriter
	Context() context.Context

	// Param returns a chi URL parameter.
	Param(name string) string
	Query(name string) string
	Form(name string) string
	Header(name string) string
	SetHeader(name, value string)

	// ClientIP returns the host part of the request's remote address.
	ClientIP() string

	// BindJSON decodes a JSON body into v. Bodies over 1 MiB and unknown
	// fields are rejected with a 400 HTTPError.
	BindJSON(v any) error

	JSON(code int, v any) error
	String(code int, s string) error
	NoContent(code int) error
	Redirect(code int, url string) error
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError
	Written() bool

	Logger() *slog.Logger
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key, value any)
	Get(key any) any

	Cookie(name string) (string, error)
	SetCookie(name, value string, maxAge int)
	SetCookieUntil(name, value string, expires time.Time) error
	DeleteCookie(name string)
	Cookies() *cookie.Manager

	// T translates key with the translator installed by the I18n middleware.
	// Without one it returns key.
	T(key string, placeholders ...i18n.M) string
	Tn(key string, n int, placeholders ...i18n.M) string
	// Locale returns the translator's locale, or "" without one.
	Locale() string
}

type requestContext struct {
	request  *http.Request
	response *ResponseWriter
	logger   *slog.Logger
	cookies  *cookie.Manager
}

func newContext(w http.ResponseWriter, r *http.Request, log *slog.Logger, cookies *cookie.Manager) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}
	return &requestContext{
		request:  r,
		response: rw,
		logger:   log,
		cookies:  cookies,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) SetRequest(r *http.Request) {
	if r != nil {
		c.request = r
	}
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.response
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) ClientIP() string {
	host, _, err := net.SplitHostPort(c.request.RemoteAddr)
	if err != nil {
		return c.request.RemoteAddr
	}
	return host
}

func (c *requestContext) BindJSON(v any) error {
	if ct := c.request.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return ErrBadRequest("expected application/json body")
	}

	dec := json.NewDecoder(http.MaxBytesReader(c.response, c.request.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrBadRequest("empty request body", WithError(err))
		}
		return ErrBadRequest("malformed request body", WithError(err))
	}
	return nil
}

func (c *requestContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := io.WriteString(c.response, s)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Written() bool {
	return c.response.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Cookie(name string) (string, error) {
	return c.cookies.Get(c.request, name)
}

func (c *requestContext) SetCookie(name, value string, maxAge int) {
	c.cookies.Set(c.response, name, value, maxAge)
}

func (c *requestContext) SetCookieUntil(name, value string, expires time.Time) error {
	return c.cookies.SetUntil(c.response, name, value, expires)
}

func (c *requestContext) DeleteCookie(name string) {
	c.cookies.Delete(c.response, name)
}

func (c *requestContext) Cookies() *cookie.Manager {
	return c.cookies
}

func (c *requestContext) translator() *i18n.Translator {
	tr, _ := c.Get(TranslatorKey{}).(*i18n.Translator)
	return tr
}

func (c *requestContext) T(key string, placeholders ...i18n.M) string {
	if tr := c.translator(); tr != nil {
		return tr.T(key, placeholders...)
	}
	return key
}

func (c *requestContext) Tn(key string, n int, placeholders ...i18n.M) string {
	if tr := c.translator(); tr != nil {
		return tr.Tn(key, n, placeholders...)
	}
	return key
}

func (c *requestContext) Locale() string {
	if tr := c.translator(); tr != nil {
		return tr.Locale()
	}
	return ""
}
