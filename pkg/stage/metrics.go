package stage

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector exposes every registered stage's Counters as Prometheus
// metrics labelled by stage name (and, for drops, by reason), grounded on
// the describe/collect-over-a-registered-set pattern used for exposing
// per-connection TCP stats elsewhere in this codebase's lineage.
type MetricsCollector struct {
	mu     sync.Mutex
	stages map[string]*Counters

	countDesc *prometheus.Desc
	dropsDesc *prometheus.Desc
}

// NewMetricsCollector returns an empty collector ready to have stages
// registered with Register.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		stages: make(map[string]*Counters),
		countDesc: prometheus.NewDesc(
			"pktcore_stage_packets_total",
			"Packets accepted by a header-check stage.",
			[]string{"stage"}, nil,
		),
		dropsDesc: prometheus.NewDesc(
			"pktcore_stage_drops_total",
			"Packets dropped by a header-check stage, by reason.",
			[]string{"stage", "reason"}, nil,
		),
	}
}

// Register associates name with counters so its metrics are included in
// subsequent Collect calls. Registering the same name again replaces the
// prior association.
func (m *MetricsCollector) Register(name string, counters *Counters) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages[name] = counters
}

// Describe implements prometheus.Collector.
func (m *MetricsCollector) Describe(descs chan<- *prometheus.Desc) {
	descs <- m.countDesc
	descs <- m.dropsDesc
}

// Collect implements prometheus.Collector.
func (m *MetricsCollector) Collect(metrics chan<- prometheus.Metric) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, c := range m.stages {
		metrics <- prometheus.MustNewConstMetric(m.countDesc, prometheus.CounterValue, float64(c.Count()), name)

		if c.HasDetails() {
			for r := Reason(0); r < numReasons; r++ {
				metrics <- prometheus.MustNewConstMetric(m.dropsDesc, prometheus.CounterValue, float64(c.ReasonCount(r)), name, r.String())
			}
			continue
		}
		metrics <- prometheus.MustNewConstMetric(m.dropsDesc, prometheus.CounterValue, float64(c.Drops()), name, "")
	}
}
