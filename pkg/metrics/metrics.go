package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "saasgate"

// Metrics owns a private registry with the HTTP and gate collectors.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	gateDecisions   *prometheus.CounterVec
	gateRedirects   *prometheus.CounterVec
	signIns         *prometheus.CounterVec
	jobsTotal       *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
}

// New registers all collectors under namespace, plus the Go runtime and
// process collectors.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_session_decisions_total",
			Help:      "Session guard outcomes by decision and cookie operation.",
		}, []string{"decision", "cookie"}),
		gateRedirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_redirects_total",
			Help:      "Redirects issued by the request gate, by reason.",
		}, []string{"reason"}),
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_sign_in_total",
			Help:      "Sign-in attempts by result.",
		}, []string{"result"}),
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_processed_total",
			Help:      "Background tasks executed, by task and result.",
		}, []string{"task", "result"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Background task run time by task.",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 15, 60},
		}, []string{"task"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.gateDecisions,
		m.gateRedirects,
		m.signIns,
		m.jobsTotal,
		m.jobDuration,
	)
	return m
}

// ObserveRequest records one finished HTTP request.
// route must be a pattern, not a raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// GateDecision counts a session guard outcome.
func (m *Metrics) GateDecision(decision, cookie string) {
	if m == nil {
		return
	}
	m.gateDecisions.WithLabelValues(decision, cookie).Inc()
}

// GateRedirect counts a gate redirect ("locale" or "sign_in").
func (m *Metrics) GateRedirect(reason string) {
	if m == nil {
		return
	}
	m.gateRedirects.WithLabelValues(reason).Inc()
}

// SignIn counts a sign-in attempt ("success", "invalid_credentials" or "error").
func (m *Metrics) SignIn(result string) {
	if m == nil {
		return
	}
	m.signIns.WithLabelValues(result).Inc()
}

// JobDone records one executed background task.
func (m *Metrics) JobDone(task, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.jobsTotal.WithLabelValues(task, result).Inc()
	m.jobDuration.WithLabelValues(task).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
