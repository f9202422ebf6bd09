// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Orchestration metrics
	PassesTotal    *prometheus.CounterVec
	PassDuration   *prometheus.HistogramVec
	PassErrors     *prometheus.CounterVec
	PassesInFlight prometheus.Gauge
	LockWait       prometheus.Histogram

	// Achievement metrics
	AchievementsUnlocked *prometheus.CounterVec
	AchievementsRevoked  prometheus.Counter
	LevelUps             *prometheus.CounterVec

	// Notification metrics
	NotificationsQueued    *prometheus.CounterVec
	NotificationsDismissed prometheus.Counter
	ConsumersConnected     prometheus.Gauge

	// Projection cache metrics
	CacheRequests *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulPass prometheus.Gauge
	UptimeSeconds      prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "trade_journal"
	}

	return &Metrics{
		// Orchestration metrics
		PassesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "passes_total",
			Help:      "Total number of orchestration passes by trigger and status",
		}, []string{"trigger", "status"}),
		PassDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "pass_duration_seconds",
			Help:      "Orchestration pass duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"trigger"}),
		PassErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "pass_errors_total",
			Help:      "Total number of failed passes by stage",
		}, []string{"stage"}),
		PassesInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "passes_in_flight",
			Help:      "Number of asynchronous passes currently running or waiting for their user lock",
		}),
		LockWait: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "user_lock_wait_seconds",
			Help:      "Time spent waiting for the per-user lock",
			Buckets:   prometheus.DefBuckets,
		}),

		// Achievement metrics
		AchievementsUnlocked: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "achievements",
			Name:      "unlocked_total",
			Help:      "Total number of achievements unlocked by category and rank",
		}, []string{"category", "rank"}),
		AchievementsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "achievements",
			Name:      "revoked_total",
			Help:      "Total number of achievements revoked",
		}),
		LevelUps: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "achievements",
			Name:      "level_ups_total",
			Help:      "Total number of level-ups by reached level",
		}, []string{"level"}),

		// Notification metrics
		NotificationsQueued: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "queued_total",
			Help:      "Total number of notifications queued by kind",
		}, []string{"kind"}),
		NotificationsDismissed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "dismissed_total",
			Help:      "Total number of notification slots dismissed",
		}),
		ConsumersConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "consumers_connected",
			Help:      "Number of connected websocket consumers",
		}),

		// Projection cache metrics
		CacheRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Projection cache lookups by result",
		}, []string{"result"}),

		// HTTP metrics
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		}, []string{"route", "code"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Storage operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"store", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of storage operation errors",
		}, []string{"store", "operation"}),

		// Health metrics
		LastSuccessfulPass: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_pass_timestamp",
			Help:      "Unix timestamp of last successful orchestration pass",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordPass records a finished orchestration pass.
func RecordPass(trigger string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	} else {
		DefaultMetrics.LastSuccessfulPass.Set(float64(time.Now().Unix()))
	}
	DefaultMetrics.PassesTotal.WithLabelValues(trigger, status).Inc()
	DefaultMetrics.PassDuration.WithLabelValues(trigger).Observe(d.Seconds())
}

// RecordPassError records the stage a pass failed in.
func RecordPassError(stage string) {
	DefaultMetrics.PassErrors.WithLabelValues(stage).Inc()
}

// RecordLockWait records how long a pass waited for its user lock.
func RecordLockWait(d time.Duration) {
	DefaultMetrics.LockWait.Observe(d.Seconds())
}

// RecordUnlock increments the unlocked counter.
func RecordUnlock(category, rank string) {
	DefaultMetrics.AchievementsUnlocked.WithLabelValues(category, rank).Inc()
}

// RecordRevoke increments the revoked counter.
func RecordRevoke() {
	DefaultMetrics.AchievementsRevoked.Inc()
}

// RecordLevelUp increments the level-up counter.
func RecordLevelUp(level string) {
	DefaultMetrics.LevelUps.WithLabelValues(level).Inc()
}

// RecordNotificationQueued increments the queued counter.
func RecordNotificationQueued(kind string) {
	DefaultMetrics.NotificationsQueued.WithLabelValues(kind).Inc()
}

// RecordNotificationDismissed increments the dismissed counter.
func RecordNotificationDismissed() {
	DefaultMetrics.NotificationsDismissed.Inc()
}

// RecordCacheLookup records a projection cache hit, miss or error.
func RecordCacheLookup(result string) {
	DefaultMetrics.CacheRequests.WithLabelValues(result).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(route, code string, d time.Duration) {
	DefaultMetrics.HTTPRequests.WithLabelValues(route, code).Inc()
	DefaultMetrics.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}

// RecordDBQuery records storage operation metrics.
func RecordDBQuery(store, operation string, d time.Duration, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(store, operation).Observe(d.Seconds())
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(store, operation).Inc()
	}
}
