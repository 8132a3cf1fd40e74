// monitor/monitor.go
package monitor

import (
	"expvar"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	OnlinePlayers    prometheus.Gauge
	ActiveRooms      prometheus.Gauge
	ActionsProcessed prometheus.Counter
	BatchFlushes     prometheus.Counter
	GamesFinished    prometheus.Counter
	ProbeLatency     prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		OnlinePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_players",
			Help:      "Number of connected players",
		}),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of live rooms",
		}),
		ActionsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_processed_total",
			Help:      "Total game actions accepted at the boundary",
		}),
		BatchFlushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_flushes_total",
			Help:      "Total sync batches flushed to rooms",
		}),
		GamesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Total games reaching a terminal outcome",
		}),
		ProbeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probe_latency_seconds",
			Help:      "Half round-trip latency measured by the heartbeat probe",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
	}

	prometheus.MustRegister(
		m.OnlinePlayers,
		m.ActiveRooms,
		m.ActionsProcessed,
		m.BatchFlushes,
		m.GamesFinished,
		m.ProbeLatency,
	)

	return m
}

type Monitor struct {
	metrics     *Metrics
	startTime   time.Time
	actionCount int64
	mutex       sync.Mutex
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

func (m *Monitor) StartServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())

	expvar.Publish("uptime", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))

	expvar.Publish("actions", expvar.Func(func() interface{} {
		m.mutex.Lock()
		defer m.mutex.Unlock()
		return m.actionCount
	}))

	go http.ListenAndServe(addr, nil)
}

func (m *Monitor) IncOnlinePlayers() {
	m.metrics.OnlinePlayers.Inc()
}

func (m *Monitor) DecOnlinePlayers() {
	m.metrics.OnlinePlayers.Dec()
}

func (m *Monitor) SetActiveRooms(count int) {
	m.metrics.ActiveRooms.Set(float64(count))
}

func (m *Monitor) IncActionsProcessed() {
	m.metrics.ActionsProcessed.Inc()
	m.mutex.Lock()
	m.actionCount++
	m.mutex.Unlock()
}

func (m *Monitor) IncBatchFlushes() {
	m.metrics.BatchFlushes.Inc()
}

func (m *Monitor) IncGamesFinished() {
	m.metrics.GamesFinished.Inc()
}

func (m *Monitor) ObserveProbeLatency(d time.Duration) {
	m.metrics.ProbeLatency.Observe(d.Seconds())
}

// ActionCount is the raw counter behind the expvar mirror.
func (m *Monitor) ActionCount() int64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.actionCount
}
