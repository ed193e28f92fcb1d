package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunScheduleCacheContract runs a suite of tests to verify that a
// ScheduleCache implementation adheres to the defined interface contract.
func RunScheduleCacheContract(t *testing.T, cache ScheduleCache) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Put and Get", func(t *testing.T) {
		nested := contractNested(t)

		err := cache.Put(ctx, key, nested)
		require.NoError(t, err, "Put should not return error")

		loaded, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		requireEqualNested(t, nested, loaded)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := cache.Get(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		nested := contractNested(t)
		require.NoError(t, cache.Put(ctx, key, nested))
		require.NoError(t, cache.Put(ctx, key, nested))

		loaded, err := cache.Get(ctx, key)
		require.NoError(t, err)
		requireEqualNested(t, nested, loaded)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, key, contractNested(t)))

		err := cache.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrScheduleNotFound, "Get after Delete should return ErrScheduleNotFound")

		assert.NoError(t, cache.Delete(ctx, key), "Delete of absent key should be a no-op")
	})
}

// contractNested builds a small two-composite nested schedule by hand:
// boxes a(0,1) and b(1,2) wired through junction 1, outer port on junction 2.
func contractNested(t *testing.T) *domain.Nested {
	t.Helper()

	d := domain.NewDiagram(3)
	_, err := d.AddNamedBox("a", 0, 1)
	require.NoError(t, err)
	_, err = d.AddNamedBox("b", 1, 2)
	require.NoError(t, err)
	require.NoError(t, d.SetOuterPorts(2))

	s, err := domain.NewScheduled(d,
		[]domain.CompositeID{1, 1},
		[]domain.CompositeID{0, 1},
	)
	require.NoError(t, err)

	n, err := domain.NewNested(s, [][]domain.JunctionID{{1}, {2}})
	require.NoError(t, err)
	return n
}

func requireEqualNested(t *testing.T, want, got *domain.Nested) {
	t.Helper()

	require.Equal(t, want.NumBoxes(), got.NumBoxes())
	require.Equal(t, want.NumJunctions(), got.NumJunctions())
	require.Equal(t, want.NumComposites(), got.NumComposites())
	assert.Equal(t, want.OuterPorts(), got.OuterPorts())

	for b := 0; b < want.NumBoxes(); b++ {
		id := domain.BoxID(b)
		assert.Equal(t, want.BoxPorts(id), got.BoxPorts(id), "ports of box %d", b)
		assert.Equal(t, want.BoxName(id), got.BoxName(id), "name of box %d", b)
		assert.Equal(t, want.BoxParent(id), got.BoxParent(id), "owner of box %d", b)
	}
	for c := 0; c < want.NumComposites(); c++ {
		id := domain.CompositeID(c)
		assert.Equal(t, want.Parent(id), got.Parent(id), "parent of composite %d", c)
		assert.Equal(t, want.CompositePorts(id), got.CompositePorts(id), "ports of composite %d", c)
	}
}
