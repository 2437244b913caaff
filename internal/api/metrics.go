package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation results used as metric labels.
const (
	resultOK       = "ok"
	resultInvalid  = "invalid"
	resultNotFound = "not_found"
	resultError    = "error"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of active HTTP requests",
		},
	)

	ReminderOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_operations_total",
			Help: "Total number of reminder operations by result",
		},
		[]string{"operation", "result"},
	)

	RemindersStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reminders_stored",
			Help: "Number of reminders in the database",
		},
	)

	RemindersDone = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reminders_done",
			Help: "Number of stored reminders marked done",
		},
	)
)

// MetricsMiddleware records request counts and latency per route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ActiveRequests.Inc()
		defer ActiveRequests.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
		).Observe(time.Since(start).Seconds())
	}
}

func TrackOperation(operation, result string) {
	ReminderOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateStoredCounts sets the stored reminder gauges.
func UpdateStoredCounts(total, done int) {
	RemindersStored.Set(float64(total))
	RemindersDone.Set(float64(done))
}
