// Package trustedstate holds the table of trusted blocks a verifying proxy
// checks proofs against. Blocks are added by a caller that has already
// established trust in them (a light client, a checkpoint service); the
// store itself does no verification.
package trustedstate

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/chaintypes"
	"github.com/eshaan7/verified-eth-rpc-proxy/pkg/metrics"
)

// Store is a concurrency-safe table of trusted blocks keyed by block
// number. It never evicts: a caller owns the lifetime of what it trusts.
type Store struct {
	mu      sync.RWMutex
	blocks  map[uint64]chaintypes.TrustedBlock
	latest  uint64
	logger  zerolog.Logger
	metrics *metrics.Collector
}

// New returns an empty trusted block store.
func New() *Store {
	return &Store{
		blocks: make(map[uint64]chaintypes.TrustedBlock),
		logger: log.With().Str("component", "trustedstate").Logger(),
	}
}

// SetMetrics attaches a collector the store reports its size to on every
// change. Passing nil (the default) leaves the store reporting nothing.
func (s *Store) SetMetrics(collector *metrics.Collector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = collector.OrNop()
}

// Add inserts one or more trusted blocks. Re-adding a block number that is
// already present overwrites it; if the replacement disagrees with what was
// already there, a warning is logged but the new value wins.
func (s *Store) Add(blocks ...chaintypes.TrustedBlock) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range blocks {
		if existing, ok := s.blocks[b.Number]; ok && existing != b {
			s.logger.Warn().
				Uint64("block", b.Number).
				Str("existing_state_root", existing.StateRoot.Hex()).
				Str("new_state_root", b.StateRoot.Hex()).
				Msg("overwriting trusted block with a conflicting entry")
		}
		s.blocks[b.Number] = b
		if b.Number > s.latest || len(s.blocks) == 1 {
			s.latest = b.Number
		}
	}
	s.metrics.SetTrustedStateSize(len(s.blocks))
}

// Get returns the trusted block at number, if present.
func (s *Store) Get(number uint64) (chaintypes.TrustedBlock, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blocks[number]
	return b, ok
}

// Latest returns the highest-numbered trusted block, if the store is
// non-empty.
func (s *Store) Latest() (chaintypes.TrustedBlock, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.blocks) == 0 {
		return chaintypes.TrustedBlock{}, false
	}
	return s.blocks[s.latest], true
}

// Len returns the number of trusted blocks currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blocks)
}
