package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline stage labels for metrics and audit events.
const (
	StageIdentity   = "identity"
	StageTenant     = "tenant"
	StageCapability = "capability"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tenantgate_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	authzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenantgate_authz_decisions_total",
			Help: "Pipeline decisions by stage and outcome",
		},
		[]string{"stage", "outcome"},
	)
)

// PrometheusMiddleware records request duration.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(ww.Status())
		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

// RecordDecision records a pipeline stage outcome for Prometheus.
func RecordDecision(stage, outcome string) {
	authzDecisions.WithLabelValues(stage, outcome).Inc()
}
