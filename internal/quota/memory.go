package quota

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps counters in process. Suitable for a single instance.
type MemoryStore struct {
	mu     sync.Mutex
	counts map[Key]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: map[Key]int{}}
}

func (s *MemoryStore) Get(_ context.Context, k Key) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[k], nil
}

func (s *MemoryStore) IncrementBelow(_ context.Context, k Key, limit int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.counts[k]
	if n >= limit {
		return n, false, nil
	}
	n++
	s.counts[k] = n
	return n, true, nil
}

// Purge compares day strings lexically; the layout sorts chronologically.
func (s *MemoryStore) Purge(_ context.Context, before time.Time) (int, error) {
	cutoff := before.Format(dayLayout)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.counts {
		if k.Day < cutoff {
			delete(s.counts, k)
			n++
		}
	}
	return n, nil
}
