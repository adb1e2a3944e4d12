// Package monitoring exposes prometheus metrics for smoke test runs and the
// domain-event queue.
package monitoring

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/justice-digital/dps-smoketest/engine/core"
)

// Metrics owns its registry so tests never trip over duplicate registration.
type Metrics struct {
	registry      *prometheus.Registry
	runsTotal     *prometheus.CounterVec
	outcomesTotal *prometheus.CounterVec
	queueVisible  prometheus.Gauge
	queueInFlight prometheus.Gauge
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smoketest_runs_total",
			Help: "Smoke test runs started, by test family.",
		}, []string{"test"}),
		outcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smoketest_outcomes_total",
			Help: "Terminal smoke test outcomes, by test family and progress.",
		}, []string{"test", "progress"}),
		queueVisible: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "smoketest_queue_visible_messages",
			Help: "Approximate visible messages on the domain-event queue.",
		}),
		queueInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "smoketest_queue_in_flight_messages",
			Help: "Approximate in-flight messages on the domain-event queue.",
		}),
	}
	registry.MustRegister(
		m.runsTotal,
		m.outcomesTotal,
		m.queueVisible,
		m.queueInFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RunStarted counts one run of the given test family.
func (m *Metrics) RunStarted(test string) {
	m.runsTotal.WithLabelValues(test).Inc()
}

// RunFinished counts the terminal progress of a run. Runs that end without a
// result are counted under their last observed progress.
func (m *Metrics) RunFinished(test string, progress core.Progress) {
	m.outcomesTotal.WithLabelValues(test, string(progress)).Inc()
}

// SetQueueDepth records the latest queue attribute read.
func (m *Metrics) SetQueueDepth(visible, inFlight int) {
	m.queueVisible.Set(float64(visible))
	m.queueInFlight.Set(float64(inFlight))
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
