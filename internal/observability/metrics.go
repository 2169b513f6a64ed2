// Package observability provides Prometheus comparison metrics and
// OpenTelemetry tracing setup for apdiff.
package observability

import (
	"fmt"
	"time"

	"github.com/kilupskalvis/apdiff/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

// CompareCollector bundles Prometheus metrics about comparisons. It satisfies
// core.Recorder so an engine can report into it directly.
type CompareCollector struct {
	gatherer prometheus.Gatherer

	Comparisons  prometheus.Counter
	APChanges    *prometheus.CounterVec
	APsUnchanged prometheus.Counter
	Durations    prometheus.Histogram
	PairFailures prometheus.Counter
}

// NewCompareCollector registers comparison metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewCompareCollector(reg prometheus.Registerer) (*CompareCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	comparisons, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "apdiff_comparisons_total",
		Help: "Total number of completed snapshot comparisons.",
	}), "apdiff_comparisons_total")
	if err != nil {
		return nil, err
	}

	changes, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "apdiff_ap_changes_total",
		Help: "Access point changes found, labeled by change status.",
	}, []string{"status"}), "apdiff_ap_changes_total")
	if err != nil {
		return nil, err
	}

	unchanged, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "apdiff_aps_unchanged_total",
		Help: "Access points found unchanged across comparisons.",
	}), "apdiff_aps_unchanged_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "apdiff_compare_duration_seconds",
		Help:    "Snapshot comparison latency in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}), "apdiff_compare_duration_seconds")
	if err != nil {
		return nil, err
	}

	failures, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "apdiff_pair_failures_total",
		Help: "Access point pairings skipped because classification failed.",
	}), "apdiff_pair_failures_total")
	if err != nil {
		return nil, err
	}

	return &CompareCollector{
		gatherer:     gatherer,
		Comparisons:  comparisons,
		APChanges:    changes,
		APsUnchanged: unchanged,
		Durations:    durations,
		PairFailures: failures,
	}, nil
}

// ObserveComparison records the outcome of one comparison.
func (c *CompareCollector) ObserveComparison(inv models.InventoryChange, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Comparisons.Inc()
	for _, status := range models.StatusOrder {
		c.APChanges.WithLabelValues(string(status)).Add(float64(inv.Count(status)))
	}
	if inv.APsUnchanged > 0 {
		c.APsUnchanged.Add(float64(inv.APsUnchanged))
	}
	c.Durations.Observe(elapsed.Seconds())
}

// IncPairFailures counts one skipped pairing.
func (c *CompareCollector) IncPairFailures() {
	if c == nil {
		return
	}
	c.PairFailures.Inc()
}

// WriteTextfile writes the gathered metrics in the Prometheus text format,
// suitable for the node exporter textfile collector.
func (c *CompareCollector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.gatherer); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}
