package health

import (
	"encoding/json"
	"net/http"
	"strings"
)

// LivenessHandler always responds 200 while the process is serving.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, &Report{Status: StatusHealthy})
	}
}

// ReadinessHandler runs checks per request and responds 503 if any fails.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := Run(r.Context(), checks, opts...)
		status := http.StatusOK
		if !report.Healthy() {
			status = http.StatusServiceUnavailable
		}
		respond(w, r, status, report)
	}
}

func respond(w http.ResponseWriter, r *http.Request, status int, report *Report) {
	w.Header().Set("Cache-Control", "no-store")
	if r.URL.Query().Get("format") == "json" || strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(report)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if status == http.StatusOK {
		_, _ = w.Write([]byte("OK"))
		return
	}
	_, _ = w.Write([]byte("Service Unavailable"))
}
