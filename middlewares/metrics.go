package middlewares

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/saasgate/internal"
	"github.com/dmitrymomot/saasgate/pkg/metrics"
)

// unmatchedRoute labels requests no route pattern matched, so raw paths
// never become label values.
const unmatchedRoute = "unmatched"

// Metrics returns middleware that records request count and latency per
// method, route pattern and status code.
//
// The route label is read after the handler returns, once chi has matched
// a pattern. Errors not yet rendered are counted with the status the error
// handler will give them.
func Metrics(m *metrics.Metrics) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			start := time.Now()
			err := next(c)

			status := c.ResponseWriter().Status()
			if err != nil && !c.Written() {
				status = http.StatusInternalServerError
				if he := internal.AsHTTPError(err); he != nil {
					status = he.Code
				}
			}
			if status == 0 {
				status = http.StatusOK
			}

			m.ObserveRequest(c.Request().Method, routePattern(c.Request()), status, time.Since(start))
			return err
		}
	}
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return unmatchedRoute
}
