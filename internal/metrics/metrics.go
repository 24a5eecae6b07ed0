// Package metrics exposes Prometheus instruments for parkour sessions. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "parkour"

type Metrics struct {
	registry        *prometheus.Registry
	sessionsStarted prometheus.Counter
	sessionsEnded   *prometheus.CounterVec
	activeSessions  prometheus.Gauge
	levelsCompleted *prometheus.CounterVec
	levelDuration   *prometheus.HistogramVec
	resets          prometheus.Counter
	expired         prometheus.Counter
	storeErrors     prometheus.Counter
	rejectedJoins   prometheus.Counter
}

// New registers every instrument on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Parkour runs started.",
		}),
		sessionsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_ended_total",
			Help:      "Parkour runs ended, by outcome.",
		}, []string{"outcome"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Parkour runs in progress.",
		}),
		levelsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "levels_completed_total",
			Help:      "Levels completed, by course and whether the target time was met.",
		}, []string{"course", "within_target"}),
		levelDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "level_duration_seconds",
			Help:      "Time taken to complete a level.",
			Buckets:   []float64{2, 5, 10, 15, 20, 30, 45, 60, 90, 120, 300},
		}, []string{"course", "level"}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Failed landings that sent a participant back to a checkpoint.",
		}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "countdowns_expired_total",
			Help:      "Level countdowns that ran out before the level was completed.",
		}),
		storeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Best time or completion writes that failed.",
		}),
		rejectedJoins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "joins_rejected_total",
			Help:      "Join requests refused by auth, rate limiting or an active run.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.sessionsStarted,
		m.sessionsEnded,
		m.activeSessions,
		m.levelsCompleted,
		m.levelDuration,
		m.resets,
		m.expired,
		m.storeErrors,
		m.rejectedJoins,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}

	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}

	m.sessionsStarted.Inc()
	m.activeSessions.Inc()
}

func (m *Metrics) SessionEnded(outcome string) {
	if m == nil {
		return
	}

	m.sessionsEnded.WithLabelValues(outcome).Inc()
	m.activeSessions.Dec()
}

func (m *Metrics) LevelCompleted(courseName, levelID string, d time.Duration, within bool) {
	if m == nil {
		return
	}

	w := "false"
	if within {
		w = "true"
	}

	m.levelsCompleted.WithLabelValues(courseName, w).Inc()
	m.levelDuration.WithLabelValues(courseName, levelID).Observe(d.Seconds())
}

func (m *Metrics) Reset() {
	if m == nil {
		return
	}

	m.resets.Inc()
}

func (m *Metrics) CountdownExpired() {
	if m == nil {
		return
	}

	m.expired.Inc()
}

func (m *Metrics) StoreError() {
	if m == nil {
		return
	}

	m.storeErrors.Inc()
}

func (m *Metrics) JoinRejected() {
	if m == nil {
		return
	}

	m.rejectedJoins.Inc()
}
