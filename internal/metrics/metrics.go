// Package metrics provides Prometheus instrumentation for the formatting service.
package metrics

import (
	"context"
	"database/sql"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mbd888/numerics/pkg/field"
)

const namespace = "numerics"

var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// FormatOperationsTotal counts format requests by field kind and trigger.
	FormatOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "format_operations_total",
			Help:      "Total format operations by field kind and trigger.",
		},
		[]string{"kind", "trigger"},
	)

	// FormatDuration observes formatting latency by field kind.
	FormatDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "format_duration_seconds",
			Help:      "Format operation duration in seconds.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		},
		[]string{"kind"},
	)

	// FieldEventsTotal counts live field edits by change type.
	FieldEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_events_total",
			Help:      "Total live field events by event and change type.",
		},
		[]string{"event", "change_type"},
	)

	// KeystrokesSuppressedTotal counts keys rejected by a field filter.
	KeystrokesSuppressedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "keystrokes_suppressed_total",
		Help:      "Total keystrokes suppressed by field filters.",
	})

	// NumericNotificationsTotal counts canonical value changes reported to owners.
	NumericNotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "numeric_notifications_total",
			Help:      "Total canonical value change notifications by field kind.",
		},
		[]string{"kind"},
	)

	// ActiveSessions tracks connected websocket sessions.
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_sessions_active",
			Help:      "Number of currently connected websocket sessions.",
		},
	)

	// ActiveFields tracks fields mounted across all sessions.
	ActiveFields = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fields_active",
			Help:      "Number of currently mounted live fields.",
		},
	)

	// DBOpenConnections tracks open database connections.
	DBOpenConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "db_open_connections",
		Help: "Number of open database connections.",
	})
	// DBInUseConnections tracks in-use database connections.
	DBInUseConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "db_in_use_connections",
		Help: "Number of in-use database connections.",
	})
	// GoroutineCount tracks the current number of goroutines.
	GoroutineCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "goroutines",
		Help: "Current number of goroutines.",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		FormatOperationsTotal,
		FormatDuration,
		FieldEventsTotal,
		KeystrokesSuppressedTotal,
		NumericNotificationsTotal,
		ActiveSessions,
		ActiveFields,
		DBOpenConnections,
		DBInUseConnections,
		GoroutineCount,
	)
}

// ObserveFormat counts a format operation and returns a func that records
// its duration when called.
func ObserveFormat(kind, trigger string) func() {
	FormatOperationsTotal.WithLabelValues(kind, trigger).Inc()
	timer := prometheus.NewTimer(FormatDuration.WithLabelValues(kind))
	return func() { timer.ObserveDuration() }
}

// FieldObserver reports live field events for one field kind.
type FieldObserver struct {
	Kind string
}

var _ field.Observer = FieldObserver{}

func (o FieldObserver) Edited(change field.ChangeType) {
	FieldEventsTotal.WithLabelValues("change", string(change)).Inc()
}

func (o FieldObserver) Suppressed(string) {
	KeystrokesSuppressedTotal.Inc()
}

func (o FieldObserver) Notified(string) {
	NumericNotificationsTotal.WithLabelValues(o.Kind).Inc()
}

// StartDBStatsCollector periodically samples sql.DBStats and runtime goroutine
// count into Prometheus gauges. Call in a goroutine; exits when ctx is done.
func StartDBStatsCollector(ctx context.Context, db *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := db.Stats()
			DBOpenConnections.Set(float64(stats.OpenConnections))
			DBInUseConnections.Set(float64(stats.InUse))
			GoroutineCount.Set(float64(runtime.NumGoroutine()))
		}
	}
}

// Middleware returns a gin middleware that records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(), // route pattern keeps label cardinality bounded
		))

		c.Next()

		timer.ObserveDuration()
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusBucket(c.Writer.Status()),
		).Inc()
	}
}

// Handler returns the Prometheus metrics HTTP handler for /metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// statusBucket groups HTTP status codes into buckets (2xx, 3xx, 4xx, 5xx).
func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
