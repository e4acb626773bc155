// Package metrics provides observability for the game server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clicker"

// Metrics collects Prometheus counters, gauges and histograms for the server.
// Every method is safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	ticksTotal        prometheus.Counter
	tickSeconds       prometheus.Histogram
	actionsTotal      *prometheus.CounterVec
	savesTotal        *prometheus.CounterVec
	saveSeconds       prometheus.Histogram
	eventWritesTotal  *prometheus.CounterVec
	wsConnections     prometheus.Gauge
	wsMessagesTotal   *prometheus.CounterVec
	wsRateLimited     prometheus.Counter
	productionRate    prometheus.Gauge
	commits           prometheus.Gauge
	activeBugs        prometheus.Gauge
	lifetimeResources *prometheus.GaugeVec
}

// NewMetrics constructs a registry and registers all collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "ticks_total",
			Help:      "Total number of engine ticks.",
		}),
		tickSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "tick_duration_seconds",
			Help:      "Time spent inside one tick, lock included.",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		actionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "actions_total",
			Help:      "Player actions by type and whether they changed the game.",
		}, []string{"action", "result"}),
		savesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "saves_total",
			Help:      "Save attempts by result.",
		}, []string{"result"}),
		saveSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "save_duration_seconds",
			Help:      "Time spent writing the save slot.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		eventWritesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "event_writes_total",
			Help:      "Durable event writes by result.",
		}, []string{"result"}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "connections",
			Help:      "Open WebSocket connections.",
		}),
		wsMessagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "messages_total",
			Help:      "WebSocket messages by direction.",
		}, []string{"direction"}),
		wsRateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "rate_limited_total",
			Help:      "Client actions dropped by the per-connection limiter.",
		}),
		productionRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "production_rate",
			Help:      "Effective per-second production of the active mode.",
		}),
		commits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "commits",
			Help:      "Commits owned.",
		}),
		activeBugs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "active_bugs",
			Help:      "Bugs currently alive.",
		}),
		lifetimeResources: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "lifetime_resource",
			Help:      "Lifetime resource earned, by resource.",
		}, []string{"resource"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ticksTotal,
		m.tickSeconds,
		m.actionsTotal,
		m.savesTotal,
		m.saveSeconds,
		m.eventWritesTotal,
		m.wsConnections,
		m.wsMessagesTotal,
		m.wsRateLimited,
		m.productionRate,
		m.commits,
		m.activeBugs,
		m.lifetimeResources,
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

// ObserveTick records one tick and how long it took.
func (m *Metrics) ObserveTick(duration time.Duration) {
	if m == nil {
		return
	}
	m.ticksTotal.Inc()
	if s := duration.Seconds(); s >= 0 {
		m.tickSeconds.Observe(s)
	}
}

// IncAction counts a player action.
func (m *Metrics) IncAction(action string, applied bool) {
	if m == nil {
		return
	}
	if action == "" {
		action = "unknown"
	}
	m.actionsTotal.WithLabelValues(action, resultLabel(applied)).Inc()
}

// ObserveSave records a save attempt.
func (m *Metrics) ObserveSave(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.savesTotal.WithLabelValues(errLabel(err)).Inc()
	if s := duration.Seconds(); s >= 0 {
		m.saveSeconds.Observe(s)
	}
}

// IncEventWrite counts a durable event write.
func (m *Metrics) IncEventWrite(err error) {
	if m == nil {
		return
	}
	m.eventWritesTotal.WithLabelValues(errLabel(err)).Inc()
}

// AddConnection moves the open connection gauge by delta.
func (m *Metrics) AddConnection(delta int) {
	if m == nil {
		return
	}
	m.wsConnections.Add(float64(delta))
}

// IncMessage counts a WebSocket message; incoming is client to server.
func (m *Metrics) IncMessage(incoming bool) {
	if m == nil {
		return
	}
	direction := "out"
	if incoming {
		direction = "in"
	}
	m.wsMessagesTotal.WithLabelValues(direction).Inc()
}

// IncRateLimited counts an action dropped by a client's limiter.
func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.wsRateLimited.Inc()
}

// GameStats is the slice of game state exported as gauges.
type GameStats struct {
	ProductionRate  float64
	Commits         int
	ActiveBugs      int
	LifetimeLines   float64
	LifetimeEntropy float64
}

// SetGame updates the game gauges.
func (m *Metrics) SetGame(s GameStats) {
	if m == nil {
		return
	}
	m.productionRate.Set(s.ProductionRate)
	m.commits.Set(float64(s.Commits))
	m.activeBugs.Set(float64(s.ActiveBugs))
	m.lifetimeResources.WithLabelValues("lines").Set(s.LifetimeLines)
	m.lifetimeResources.WithLabelValues("entropy").Set(s.LifetimeEntropy)
}

func resultLabel(applied bool) string {
	if applied {
		return "applied"
	}
	return "ignored"
}

func errLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
