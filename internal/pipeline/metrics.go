package pipeline

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/ironsheep/quadtree-tools/internal/quadtree"
	"github.com/prometheus/client_golang/prometheus"
)

const passLabel = "pass"

// Pass names used as the "pass" label.
const (
	PassCompress = "compress"
	PassEdges    = "edges"
)

// Metrics collects per-pass counters on a private registry so a one-shot
// run can dump them to a node_exporter textfile.
type Metrics struct {
	registry *prometheus.Registry
	passes   *prometheus.CounterVec
	leaves   *prometheus.HistogramVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the pass collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quadtree_passes_total",
			Help: "The number of completed passes.",
		}, []string{
			passLabel,
		}),
		leaves: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quadtree_leaves",
			Help:    "The number of leaves produced by a pass.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}, []string{
			passLabel,
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "quadtree_pass_duration_seconds",
			Help: "The time taken by a pass.",
		}, []string{
			passLabel,
		}),
	}
	m.registry.MustRegister(m.passes, m.leaves, m.duration)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) instrumentPass(pass string, stats quadtree.Stats, start time.Time) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{passLabel: pass}
	m.passes.With(labels).Inc()
	m.leaves.With(labels).Observe(float64(stats.Leaves))
	m.duration.With(labels).Observe(time.Since(start).Seconds())
}

// WriteFile writes the collected metrics in the text exposition format.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.New("failed to write metrics").
			WithTag("path", path).
			Wrap(err)
	}
	return nil
}
