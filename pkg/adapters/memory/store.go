package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/funchain/pkg/domain"
)

// DefaultCapacity is how many results a Store keeps when none is configured.
const DefaultCapacity = 128

// Store implements ports.ResultStore in memory, keeping the most recent results.
// Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	data     map[string]*domain.Result
	order    []string
	capacity int
}

// NewStore creates a new in-memory store holding at most capacity results.
// A non-positive capacity uses DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		data:     make(map[string]*domain.Result),
		capacity: capacity,
	}
}

// Save stores a copy of the result, evicting the oldest one when full.
func (s *Store) Save(_ context.Context, result *domain.Result) error {
	copied := copyResult(result)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[copied.RunID]; !exists {
		s.order = append(s.order, copied.RunID)
	}
	s.data[copied.RunID] = copied

	for len(s.order) > s.capacity {
		delete(s.data, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

// Load retrieves a copy of a stored result.
func (s *Store) Load(_ context.Context, runID string) (*domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.data[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return copyResult(result), nil
}

// List returns stored run ids, oldest first.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order), nil
}

func copyResult(r *domain.Result) *domain.Result {
	c := *r
	c.Trace = slices.Clone(r.Trace)
	return &c
}
