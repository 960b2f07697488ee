package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saasgate/internal"
	"github.com/dmitrymomot/saasgate/pkg/session"
)

var errFakeSign = errors.New("fake: sign failed")

// fakeSigner accepts tokens of the form "valid:<subject>" and signs
// payloads as "signed:<subject>".
type fakeSigner struct {
	failSign bool
	expired  bool
}

func (s fakeSigner) Sign(_ context.Context, p session.Payload) (string, error) {
	if s.failSign {
		return "", errFakeSign
	}
	return "signed:" + p.Subject, nil
}

func (s fakeSigner) Verify(_ context.Context, token string) (session.Payload, error) {
	subject, ok := strings.CutPrefix(token, "valid:")
	if !ok || subject == "" {
		return session.Payload{}, session.ErrInvalidToken
	}
	exp := time.Now().Add(time.Hour)
	if s.expired {
		exp = time.Now().Add(-time.Hour)
	}
	return session.NewPayload(subject, exp), nil
}

type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func requireNoCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) {
	t.Helper()
	require.Nil(t, findCookie(t, rec, name), "unexpected Set-Cookie for %q", name)
}
