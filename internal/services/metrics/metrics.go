package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const divisor = 100

// Metrics holds Prometheus metric vectors for the weather app.
type Metrics struct {
	// HTTP server metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Domain metrics
	ResolutionsTotal    *prometheus.CounterVec
	FavoriteWritesTotal *prometheus.CounterVec
}

// NewMetrics constructs all metrics and registers them on reg.
func NewMetrics(serviceName string, reg prometheus.Registerer) *Metrics {
	ns := namespace(serviceName)
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests received",
			},
			[]string{"method", "endpoint", "status_class"},
		),

		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "http_request_duration_seconds",
				Help:      "Histogram of HTTP request latencies",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "resolutions_total",
				Help:      "City resolutions by outcome",
			},
			[]string{"outcome"},
		),

		FavoriteWritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "favorite_writes_total",
				Help:      "Favorites mutations by operation and result",
			},
			[]string{"operation", "result"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ResolutionsTotal,
		m.FavoriteWritesTotal,
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(
				collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/sched/latencies:seconds")},
			),
		),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// HTTPMiddleware returns a Gin middleware to instrument HTTP endpoints.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		d := time.Since(start)

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.HTTPRequestsTotal.With(prometheus.Labels{
			"method":       c.Request.Method,
			"endpoint":     endpoint,
			"status_class": getStatusClass(c.Writer.Status()),
		}).Inc()
		m.HTTPRequestDuration.With(prometheus.Labels{
			"method":   c.Request.Method,
			"endpoint": endpoint,
		}).Observe(d.Seconds())
	}
}

// ObserveResolution counts one resolution attempt; outcome is "ok",
// "not_found", "invalid" or "lookup_failed_<step>".
func (m *Metrics) ObserveResolution(outcome string) {
	m.ResolutionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveFavoriteWrite counts one favorites mutation.
func (m *Metrics) ObserveFavoriteWrite(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.FavoriteWritesTotal.WithLabelValues(operation, result).Inc()
}

// namespace turns a service name such as "city-weather" into a valid
// metric prefix.
func namespace(serviceName string) string {
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(serviceName)
}

func getStatusClass(code int) string {
	return fmt.Sprintf("%dxx", code/divisor)
}
