package scheduler

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a non-durable Store for tests and single-node
// development runs without Redis.
type MemoryStore struct {
	mu        sync.Mutex
	deadlines map[uuid.UUID]Deadline
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{deadlines: make(map[uuid.UUID]Deadline)}
}

func (s *MemoryStore) Put(_ context.Context, d Deadline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deadlines[d.ID] = d
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.deadlines[id]
	delete(s.deadlines, id)
	return ok, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Deadline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Deadline, 0, len(s.deadlines))
	for _, d := range s.deadlines {
		out = append(out, d)
	}
	return out, nil
}
