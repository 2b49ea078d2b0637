package ledger

import (
	"context"
	"sync"

	"github.com/crease/crease/pkg/cricket"
)

// MemoryStore is a Store held in process memory. It backs the CLI and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	matches map[string][]cricket.Delivery
	seq     map[string]int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		matches: make(map[string][]cricket.Delivery),
		seq:     make(map[string]int64),
	}
}

func (s *MemoryStore) Insert(_ context.Context, d cricket.Delivery) (cricket.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq[d.MatchID]++
	d.Seq = s.seq[d.MatchID]
	s.matches[d.MatchID] = append(s.matches[d.MatchID], d)
	return d, nil
}

func (s *MemoryStore) List(_ context.Context, matchID string) ([]cricket.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds := s.matches[matchID]
	out := make([]cricket.Delivery, len(ds))
	copy(out, ds)
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, matchID, deliveryID string, renumber map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds := s.matches[matchID]
	idx := -1
	for i := range ds {
		if ds[i].ID == deliveryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return cricket.NotFound("delivery", deliveryID)
	}

	kept := make([]cricket.Delivery, 0, len(ds)-1)
	for i, d := range ds {
		if i == idx {
			continue
		}
		if n, ok := renumber[d.ID]; ok {
			d.LegalBall = n
		}
		kept = append(kept, d)
	}
	s.matches[matchID] = kept
	return nil
}

// Load seeds the store with deliveries already in append order, such as a
// ledger file. Deliveries keep their Seq when set.
func (s *MemoryStore) Load(deliveries []cricket.Delivery) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range deliveries {
		if d.Seq == 0 {
			d.Seq = s.seq[d.MatchID] + 1
		}
		if d.Seq > s.seq[d.MatchID] {
			s.seq[d.MatchID] = d.Seq
		}
		s.matches[d.MatchID] = append(s.matches[d.MatchID], d)
	}
}
