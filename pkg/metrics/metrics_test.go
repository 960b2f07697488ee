package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saasgate/pkg/metrics"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	m := metrics.New("test")
	m.ObserveRequest(http.MethodGet, "/dashboard/*", http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/dashboard/*", http.StatusOK, 20*time.Millisecond)
	m.GateDecision("redirect_to_sign_in", "delete")
	m.GateRedirect("locale")
	m.SignIn("success")
	m.JobDone("welcome_email", "success", time.Second)

	count, err := testutil.GatherAndCount(m.Registry(), "test_http_requests_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `test_http_requests_total{method="GET",route="/dashboard/*",status="200"} 2`)
	require.Contains(t, body, `test_gate_session_decisions_total{cookie="delete",decision="redirect_to_sign_in"} 1`)
	require.Contains(t, body, `test_gate_redirects_total{reason="locale"} 1`)
	require.Contains(t, body, `test_auth_sign_in_total{result="success"} 1`)
	require.Contains(t, body, `test_jobs_processed_total{result="success",task="welcome_email"} 1`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		m.GateDecision("pass_through", "keep")
		m.GateRedirect("sign_in")
		m.SignIn("error")
		m.JobDone("prune_activity", "error", time.Millisecond)
	})
}
