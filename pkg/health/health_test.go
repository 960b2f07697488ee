package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saasgate/pkg/health"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("no checks is healthy", func(t *testing.T) {
		t.Parallel()
		require.True(t, health.Run(context.Background(), nil).Healthy())
	})

	t.Run("one failure marks report unhealthy", func(t *testing.T) {
		t.Parallel()
		report := health.Run(context.Background(), health.Checks{
			"ok":   func(context.Context) error { return nil },
			"down": func(context.Context) error { return errors.New("connection refused") },
		})
		require.False(t, report.Healthy())
		require.Equal(t, health.StatusHealthy, report.Checks["ok"].Status)
		require.Equal(t, health.StatusUnhealthy, report.Checks["down"].Status)
		require.Equal(t, "connection refused", report.Checks["down"].Error)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()
		report := health.Run(context.Background(), health.Checks{
			"slow": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}, health.WithTimeout(20*time.Millisecond))
		require.False(t, report.Healthy())
	})
}

func TestHandlers(t *testing.T) {
	t.Parallel()

	t.Run("liveness plain text", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "OK", rec.Body.String())
	})

	t.Run("readiness json", func(t *testing.T) {
		t.Parallel()
		h := health.ReadinessHandler(health.Checks{
			"db": func(context.Context) error { return errors.New("down") },
		})
		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var report health.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		require.Equal(t, health.StatusUnhealthy, report.Status)
		require.Equal(t, "down", report.Checks["db"].Error)
	})

	t.Run("readiness plain text failure", func(t *testing.T) {
		t.Parallel()
		h := health.ReadinessHandler(health.Checks{
			"db": func(context.Context) error { return errors.New("down") },
		})
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Equal(t, "Service Unavailable", rec.Body.String())
	})
}
