package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Authorization metrics
	AuthVerdictsTotal *prometheus.CounterVec

	// Session metrics
	SessionsCreatedTotal   prometheus.Counter
	SessionsDestroyedTotal prometheus.Counter
	SessionsActive         prometheus.Gauge

	// Upstream collaborator metrics
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec

	// Settings store metrics
	SettingsOperationsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guilddash_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "guilddash_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		AuthVerdictsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guilddash_auth_verdicts_total",
				Help: "Per-guild authorization verdicts",
			},
			[]string{"verdict"},
		),
		SessionsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "guilddash_sessions_created_total",
				Help: "Total number of sessions created",
			},
		),
		SessionsDestroyedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "guilddash_sessions_destroyed_total",
				Help: "Total number of sessions destroyed by logout or expiry",
			},
		),
		SessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "guilddash_sessions_active",
				Help: "Sessions created minus explicit logouts; expiry is not tracked",
			},
		),
		UpstreamRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guilddash_upstream_requests_total",
				Help: "Requests to the membership cache and identity provider",
			},
			[]string{"collaborator", "operation", "status"},
		),
		UpstreamRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "guilddash_upstream_request_duration_seconds",
				Help:    "Upstream request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"collaborator", "operation"},
		),
		SettingsOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guilddash_settings_operations_total",
				Help: "Settings store operations",
			},
			[]string{"operation", "status"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthVerdictsTotal,
		m.SessionsCreatedTotal,
		m.SessionsDestroyedTotal,
		m.SessionsActive,
		m.UpstreamRequestsTotal,
		m.UpstreamRequestDuration,
		m.SettingsOperationsTotal,
	)

	return m
}

// ObserveHTTPRequest records a completed HTTP request
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveUpstream records a call to an external collaborator
func (m *Metrics) ObserveUpstream(collaborator, operation, status string, duration time.Duration) {
	m.UpstreamRequestsTotal.WithLabelValues(collaborator, operation, status).Inc()
	m.UpstreamRequestDuration.WithLabelValues(collaborator, operation).Observe(duration.Seconds())
}

// RecordVerdict records an authorization verdict ("authorized" or "denied")
func (m *Metrics) RecordVerdict(verdict string) {
	m.AuthVerdictsTotal.WithLabelValues(verdict).Inc()
}

// SessionCreated records a successful login.
func (m *Metrics) SessionCreated() {
	m.SessionsCreatedTotal.Inc()
	m.SessionsActive.Inc()
}

// SessionDestroyed records a logout.
func (m *Metrics) SessionDestroyed() {
	m.SessionsDestroyedTotal.Inc()
	m.SessionsActive.Dec()
}

// RecordSettingsOp records one settings store operation
func (m *Metrics) RecordSettingsOp(operation, status string) {
	m.SettingsOperationsTotal.WithLabelValues(operation, status).Inc()
}

// Handler returns the Prometheus metrics HTTP handler for a registry
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// MetricsMiddleware instruments HTTP handlers with request metrics
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		m.ObserveHTTPRequest(r.Method, r.URL.Path, rw.status, time.Since(start))
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
