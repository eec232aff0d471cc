// Package metrics exposes Prometheus instrumentation for the verification
// pipeline: how often each proof check succeeds or fails, how long it takes,
// and how many blocks are currently trusted.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the verifying proxy's Prometheus instruments. A nil
// *Collector is safe to call every method on — it just does nothing — so a
// caller that doesn't care about metrics can pass nil instead of threading
// an interface or a feature flag through the client.
type Collector struct {
	attemptsTotal    *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	trustedStateSize prometheus.Gauge
}

// New registers a fresh set of instruments on reg and returns a Collector
// backed by them. Pass prometheus.DefaultRegisterer for the global registry.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		attemptsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "verification_attempts_total",
			Help: "Count of proof verification attempts by operation and outcome.",
		}, []string{"operation", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verification_duration_seconds",
			Help:    "Time spent verifying a proof, by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		trustedStateSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "trusted_state_size",
			Help: "Number of blocks currently held in the trusted block table.",
		}),
	}
}

// OrNop returns c unchanged; every method on Collector already tolerates a
// nil receiver, so this only exists to make a call site's intent explicit
// when it's handed an optional collector it hasn't checked itself.
func (c *Collector) OrNop() *Collector {
	return c
}

// ObserveVerification records the outcome of a single verification
// operation (e.g. "account", "storage", "code", "receipts").
func (c *Collector) ObserveVerification(operation string, success bool) {
	if c == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	c.attemptsTotal.WithLabelValues(operation, result).Inc()
}

// ObserveDuration records how long a verification operation took.
func (c *Collector) ObserveDuration(operation string, seconds float64) {
	if c == nil {
		return
	}
	c.duration.WithLabelValues(operation).Observe(seconds)
}

// SetTrustedStateSize reports the current size of the trusted block table.
func (c *Collector) SetTrustedStateSize(n int) {
	if c == nil {
		return
	}
	c.trustedStateSize.Set(float64(n))
}
