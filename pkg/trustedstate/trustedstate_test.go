package trustedstate

import (
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/chaintypes"
	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/metrics"
)

func block(n uint64, stateRoot byte) chaintypes.TrustedBlock {
	return chaintypes.TrustedBlock{
		Number:    n,
		Hash:      common.BytesToHash([]byte{byte(n)}),
		StateRoot: common.BytesToHash([]byte{stateRoot}),
	}
}

func TestAddAndGet(t *testing.T) {
	s := New()
	b := block(10, 0xAA)
	s.Add(b)

	got, ok := s.Get(10)
	if !ok {
		t.Fatal("expected block 10 to be present")
	}
	if got != b {
		t.Errorf("got %+v, want %+v", got, b)
	}

	if _, ok := s.Get(11); ok {
		t.Error("expected block 11 to be absent")
	}
}

func TestLatestTracksHighestNumber(t *testing.T) {
	s := New()
	s.Add(block(5, 1), block(20, 2), block(15, 3))

	latest, ok := s.Latest()
	if !ok {
		t.Fatal("expected a latest block")
	}
	if latest.Number != 20 {
		t.Errorf("expected latest number 20, got %d", latest.Number)
	}
}

func TestLatestEmptyStore(t *testing.T) {
	s := New()
	if _, ok := s.Latest(); ok {
		t.Error("expected no latest block in an empty store")
	}
}

func TestAddOverwritesLastWriteWins(t *testing.T) {
	s := New()
	s.Add(block(10, 0xAA))
	s.Add(block(10, 0xBB))

	got, ok := s.Get(10)
	if !ok {
		t.Fatal("expected block 10 to be present")
	}
	if got.StateRoot != common.BytesToHash([]byte{0xBB}) {
		t.Errorf("expected the second write to win, got state root %s", got.StateRoot.Hex())
	}
}

func TestLenReflectsDistinctBlockNumbers(t *testing.T) {
	s := New()
	s.Add(block(1, 1), block(2, 2))
	s.Add(block(1, 3))
	if got := s.Len(); got != 2 {
		t.Errorf("expected 2 distinct block numbers, got %d", got)
	}
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gathering metrics: %v", err)
	}
	for _, f := range families {
		if f.GetName() == name {
			samples := f.GetMetric()
			if len(samples) != 1 {
				t.Fatalf("expected exactly one %s sample, got %d", name, len(samples))
			}
			return samples[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestAddReportsTrustedStateSize(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.New(reg)

	s := New()
	s.SetMetrics(collector)

	s.Add(block(1, 1), block(2, 2))
	if got := gaugeValue(t, reg, "trusted_state_size"); got != 2 {
		t.Errorf("expected trusted_state_size 2, got %v", got)
	}

	s.Add(block(1, 3))
	if got := gaugeValue(t, reg, "trusted_state_size"); got != 2 {
		t.Errorf("expected trusted_state_size to stay 2 after an overwrite, got %v", got)
	}
}

func TestAddWithoutMetricsIsANoop(t *testing.T) {
	s := New()
	s.Add(block(1, 1))
	if got := s.Len(); got != 1 {
		t.Errorf("expected 1 block, got %d", got)
	}
}

func TestConcurrentAddAndGet(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := uint64(0); i < 100; i++ {
		wg.Add(1)
		go func(n uint64) {
			defer wg.Done()
			s.Add(block(n, byte(n)))
			s.Get(n)
		}(i)
	}
	wg.Wait()
	if got := s.Len(); got != 100 {
		t.Errorf("expected 100 distinct block numbers, got %d", got)
	}
}
