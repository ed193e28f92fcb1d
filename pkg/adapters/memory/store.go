package memory

import (
	"context"
	"sync"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/schema"
)

// Store implements ports.ScheduleCache in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

var _ ports.ScheduleCache = (*Store)(nil)

// NewStore creates a new in-memory schedule cache.
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Put persists the nested schedule under key. Entries are stored in their
// serialized form so callers can never mutate cached state through a
// retained pointer.
func (s *Store) Put(ctx context.Context, key string, n *domain.Nested) error {
	payload, err := schema.EncodeNested(n)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = payload
	return nil
}

// Get retrieves the nested schedule stored under key.
func (s *Store) Get(ctx context.Context, key string) (*domain.Nested, error) {
	s.mu.RLock()
	payload, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrScheduleNotFound
	}
	return schema.DecodeNested(payload)
}

// Delete removes the entry for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
