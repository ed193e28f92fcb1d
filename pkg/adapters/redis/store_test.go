package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/espalier/pkg/adapters/redis"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Contract(t *testing.T) {
	// Setup miniredis
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redis.NewStore(client, "espalier:", 0)
	ports.RunScheduleCacheContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redis.NewStore(client, "espalier:", 1*time.Second)
	ctx := context.Background()

	nested := sampleNested(t)
	require.NoError(t, store.Put(ctx, "ttl-key", nested))

	// Present before expiry.
	_, err = store.Get(ctx, "ttl-key")
	assert.NoError(t, err)

	// miniredis requires manual clock advancement.
	mr.FastForward(2 * time.Second)

	_, err = store.Get(ctx, "ttl-key")
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
}

func sampleNested(t *testing.T) *domain.Nested {
	t.Helper()

	d := domain.NewDiagram(2)
	_, err := d.AddNamedBox("a", 0, 1)
	require.NoError(t, err)
	require.NoError(t, d.SetOuterPorts(0))

	s, err := domain.NewScheduled(d, []domain.CompositeID{0}, []domain.CompositeID{0})
	require.NoError(t, err)

	n, err := domain.NewNested(s, [][]domain.JunctionID{{0}})
	require.NoError(t, err)
	return n
}
