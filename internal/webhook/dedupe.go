package webhook

import (
	"sync"
)

// DefaultDedupeCapacity bounds the dedupe store when no capacity is given.
const DefaultDedupeCapacity = 10000

// DedupeStore is a bounded in-memory set of webhook delivery identifiers
// used to suppress Jira's redeliveries. When full, the oldest identifier is
// evicted first. State lives for the process lifetime only; dedupe is best
// effort, not a correctness guarantee across restarts.
type DedupeStore struct {
	mu       sync.Mutex
	capacity int
	seen     map[string]struct{}
	order    []string
}

// NewDedupeStore creates a dedupe store holding at most capacity
// identifiers. A non-positive capacity falls back to DefaultDedupeCapacity.
func NewDedupeStore(capacity int) *DedupeStore {
	if capacity <= 0 {
		capacity = DefaultDedupeCapacity
	}
	return &DedupeStore{
		capacity: capacity,
		seen:     make(map[string]struct{}),
	}
}

// Has reports whether the identifier has been recorded.
func (s *DedupeStore) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[id]
	return ok
}

// Add records an identifier, evicting the oldest entry when at capacity.
// Empty and already-recorded identifiers are ignored.
func (s *DedupeStore) Add(id string) {
	if id == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[id]; ok {
		return
	}
	if len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.seen, oldest)
	}
	s.order = append(s.order, id)
	s.seen[id] = struct{}{}
}

// Len returns the number of recorded identifiers.
func (s *DedupeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
