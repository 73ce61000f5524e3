package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	reportsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "incident_reports_submitted_total",
			Help: "Total number of incident reports stored, by category",
		},
		[]string{"incident_choice"},
	)

	validationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "incident_validation_failures_total",
			Help: "Total number of rejected submissions, by failing field",
		},
		[]string{"field"},
	)

	reportsUpdatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "incident_reports_updated_total",
			Help: "Total number of report updates, by resulting status",
		},
		[]string{"status"},
	)

	storeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "incident_store_errors_total",
			Help: "Total number of store failures, by operation",
		},
		[]string{"op"},
	)

	rateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"action"},
	)
)

// MetricsMiddleware collects request counts, durations and in-flight requests.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		httpRequestsInFlight.Inc()

		endpoint := normalizeEndpoint(c.FullPath())
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		httpRequestsInFlight.Dec()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// normalizeEndpoint keeps route patterns such as /api/reports/:id so ids
// never become label values.
func normalizeEndpoint(path string) string {
	if path == "" {
		return ""
	}
	return path
}

func RecordSubmission(incidentChoice string) {
	if incidentChoice == "" {
		incidentChoice = "other"
	}
	reportsSubmittedTotal.WithLabelValues(incidentChoice).Inc()
}

func RecordValidationFailure(fields []string) {
	for _, f := range fields {
		validationFailuresTotal.WithLabelValues(f).Inc()
	}
}

func RecordUpdate(status string) {
	reportsUpdatedTotal.WithLabelValues(status).Inc()
}

func RecordStoreError(op string) {
	storeErrorsTotal.WithLabelValues(op).Inc()
}

func RecordRateLimited(action string) {
	rateLimitedTotal.WithLabelValues(action).Inc()
}
