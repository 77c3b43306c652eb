package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/danielpatrickdp/scriptloop/internal/metrics"
)

// Metrics exposes the improvement loop's state to Prometheus.
type Metrics struct {
	RepetitionRate           prometheus.Gauge
	NegotiationEffectiveness prometheus.Gauge
	AverageTurnCount         prometheus.Gauge
	ResolutionRate           prometheus.Gauge
	ComplianceScore          prometheus.Gauge
	IterationsTotal          prometheus.Counter
	ImprovementsTotal        *prometheus.CounterVec
	IterationDuration        prometheus.Histogram
}

// New registers the loop collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		RepetitionRate: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "scriptloop_repetition_rate",
			Help: "Repetition rate of the latest evaluation batch",
		}),
		NegotiationEffectiveness: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "scriptloop_negotiation_effectiveness",
			Help: "Negotiation effectiveness of the latest evaluation batch",
		}),
		AverageTurnCount: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "scriptloop_average_turn_count",
			Help: "Average turn count of the latest evaluation batch",
		}),
		ResolutionRate: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "scriptloop_resolution_rate",
			Help: "Resolution rate of the latest evaluation batch",
		}),
		ComplianceScore: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "scriptloop_compliance_score",
			Help: "Compliance score of the latest evaluation batch",
		}),
		IterationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "scriptloop_iterations_total",
			Help: "Total improvement loop iterations run",
		}),
		ImprovementsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "scriptloop_improvements_total",
			Help: "Total script improvements by strategy",
		}, []string{"strategy"}),
		IterationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "scriptloop_iteration_duration_seconds",
			Help:    "Wall time of one simulate-evaluate-improve iteration",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveStrategy counts one improvement by the strategy that produced it.
func (m *Metrics) ObserveStrategy(strategy string) {
	if m == nil {
		return
	}
	m.ImprovementsTotal.WithLabelValues(strategy).Inc()
}

// ObserveReport publishes a batch report onto the score gauges.
func (m *Metrics) ObserveReport(r metrics.Report) {
	if m == nil {
		return
	}
	m.RepetitionRate.Set(r.RepetitionRate)
	m.NegotiationEffectiveness.Set(r.NegotiationEffectiveness)
	m.AverageTurnCount.Set(r.AverageTurnCount)
	m.ResolutionRate.Set(r.ResolutionRate)
	m.ComplianceScore.Set(r.ComplianceScore)
}
