package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// ScheduleCache stores nested diagrams keyed by a caller-chosen fingerprint,
// so the nesting step can be skipped when the same diagram is evaluated
// repeatedly. Keys are opaque to the cache.
type ScheduleCache interface {
	// Put persists a nested schedule under key, replacing any previous entry.
	Put(ctx context.Context, key string, n *domain.Nested) error

	// Get retrieves the nested schedule stored under key.
	// Returns domain.ErrScheduleNotFound if the key is absent.
	Get(ctx context.Context, key string) (*domain.Nested, error)

	// Delete removes the entry for key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
