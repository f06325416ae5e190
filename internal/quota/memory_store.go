package quota

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process memory. State is lost on restart and
// is not shared between instances.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	return record, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, id string, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[id] = record
	return nil
}

// Len returns the number of tracked callers.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}
