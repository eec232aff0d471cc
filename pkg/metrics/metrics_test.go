package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c *Collector, operation, result string) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.attemptsTotal.WithLabelValues(operation, result).Write(m); err != nil {
		t.Fatalf("reading counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestObserveVerificationIncrementsCorrectLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveVerification("account", true)
	c.ObserveVerification("account", false)
	c.ObserveVerification("account", true)

	if got := counterValue(t, c, "account", "success"); got != 2 {
		t.Errorf("expected 2 successes, got %v", got)
	}
	if got := counterValue(t, c, "account", "failure"); got != 1 {
		t.Errorf("expected 1 failure, got %v", got)
	}
}

func TestSetTrustedStateSize(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.SetTrustedStateSize(7)

	m := &dto.Metric{}
	if err := c.trustedStateSize.Write(m); err != nil {
		t.Fatalf("reading gauge: %v", err)
	}
	if got := m.GetGauge().GetValue(); got != 7 {
		t.Errorf("expected gauge 7, got %v", got)
	}
}

func TestNilCollectorIsANoop(t *testing.T) {
	var c *Collector
	c.ObserveVerification("account", true)
	c.ObserveDuration("account", 0.5)
	c.SetTrustedStateSize(3)
	if c.OrNop() != nil {
		t.Error("expected OrNop on a nil collector to remain nil")
	}
}
