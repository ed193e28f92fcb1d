package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/schema"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.ScheduleCache on Redis. Schedules are stored as
// JSON under prefix+key with an optional TTL, so a fleet of evaluators can
// share one nesting step per diagram.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ ports.ScheduleCache = (*Store)(nil)

// NewStore creates a Redis-backed schedule cache. ttl <= 0 means entries
// never expire.
func NewStore(client *backend.Client, prefix string, ttl time.Duration) *Store {
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (s *Store) key(key string) string {
	return s.prefix + "schedule:" + key
}

// Put persists the nested schedule under key.
func (s *Store) Put(ctx context.Context, key string, n *domain.Nested) error {
	payload, err := schema.EncodeNested(n)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(key), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis error storing schedule: %w", err)
	}
	return nil
}

// Get retrieves the nested schedule stored under key.
func (s *Store) Get(ctx context.Context, key string) (*domain.Nested, error) {
	payload, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, domain.ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis error loading schedule: %w", err)
	}
	return schema.DecodeNested(payload)
}

// Delete removes the entry for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis error deleting schedule: %w", err)
	}
	return nil
}
