package bow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors a Model reports to.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Documents       prometheus.Gauge
	Entries         prometheus.Gauge
	Terms           prometheus.Gauge
	PairsTotal      prometheus.Counter
	ComputeDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which is handy in tests.
//
// Example:
//
//	m := NewMetrics(prometheus.DefaultRegisterer)
//	model := NewModel(WithMetrics(m))
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Documents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bow_documents",
			Help: "Number of documents currently stored.",
		}),
		Entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bow_entries",
			Help: "Number of (document, term) entries currently stored.",
		}),
		Terms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bow_terms",
			Help: "Number of distinct terms ever added.",
		}),
		PairsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bow_similarity_pairs_total",
			Help: "Total number of document pairs scored.",
		}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bow_compute_duration_seconds",
			Help:    "Time spent scoring all document pairs.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Documents,
			m.Entries,
			m.Terms,
			m.PairsTotal,
			m.ComputeDuration,
		)
	}
	return m
}

func (m *Metrics) observeSize(store *VectorStore, vocab *Vocabulary) {
	if m == nil {
		return
	}
	m.Documents.Set(float64(store.Branches()))
	m.Entries.Set(float64(store.Leaves()))
	m.Terms.Set(float64(vocab.Len()))
}

func (m *Metrics) observeCompute(pairs int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PairsTotal.Add(float64(pairs))
	m.ComputeDuration.Observe(elapsed.Seconds())
}
