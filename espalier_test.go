package espalier_test

import (
	"bytes"
	"log/slog"
	"testing"

	espalier "github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/algebra/relation"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridDiagram wires one box per edge of a 2x3 grid of junctions, exposing
// two opposite corners.
//
//	0 - 1 - 2
//	|   |   |
//	3 - 4 - 5
func gridDiagram(t *testing.T) *domain.Diagram {
	t.Helper()
	d := domain.NewDiagram(6)
	edges := [][2]domain.JunctionID{{0, 1}, {1, 2}, {3, 4}, {4, 5}, {0, 3}, {1, 4}, {2, 5}}
	for _, e := range edges {
		_, err := d.AddBox(e[0], e[1])
		require.NoError(t, err)
	}
	require.NoError(t, d.SetOuterPorts(0, 5))
	return d
}

func gridGenerators(n int) []relation.Relation {
	// Each edge box relates values differing by at most one.
	edge := relation.MustNew(2,
		[]int{0, 0}, []int{0, 1}, []int{1, 0}, []int{1, 1}, []int{1, 2}, []int{2, 1}, []int{2, 2},
	)
	out := make([]relation.Relation, n)
	for i := range out {
		out[i] = edge
	}
	return out
}

func TestSchedule_StrategiesAgree(t *testing.T) {
	d := gridDiagram(t)
	alg := relation.Algebra{Size: 3}
	gens := gridGenerators(d.NumBoxes())

	want, err := alg.Combine(d, gens)
	require.NoError(t, err)

	for _, strategy := range []espalier.Strategy{espalier.StrategySequential, espalier.StrategyTreeDecomposition} {
		t.Run(string(strategy), func(t *testing.T) {
			s, err := espalier.Schedule(d, strategy)
			require.NoError(t, err)

			root, err := s.Root()
			require.NoError(t, err)
			assert.True(t, s.IsRoot(root))

			got, err := espalier.EvalScheduled(alg.Combine, s, gens)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "want %v got %v", want, got)
		})
	}
}

func TestSchedule_TreeDecompositionNarrower(t *testing.T) {
	// On the grid the sequential chain drags junctions along, while the
	// decomposition-based schedule keeps steps narrow.
	d := gridDiagram(t)

	seq, err := espalier.Schedule(d, espalier.StrategySequential)
	require.NoError(t, err)
	nSeq, err := espalier.Nest(seq)
	require.NoError(t, err)

	td, err := espalier.Schedule(d, espalier.StrategyTreeDecomposition)
	require.NoError(t, err)
	nTD, err := espalier.Nest(td)
	require.NoError(t, err)

	assert.LessOrEqual(t, espalier.Width(nTD), espalier.Width(nSeq))
}

func TestSchedule_Options(t *testing.T) {
	d := gridDiagram(t)

	t.Run("Explicit Box Order", func(t *testing.T) {
		s, err := espalier.Schedule(d, espalier.StrategySequential,
			espalier.WithOrder(6, 5, 4, 3, 2, 1, 0))
		require.NoError(t, err)
		assert.ElementsMatch(t, []domain.BoxID{6, 5}, s.BoxChildren(0))
	})

	t.Run("Order Rejected For Wrong Length", func(t *testing.T) {
		_, err := espalier.Schedule(d, espalier.StrategySequential, espalier.WithOrder(0))
		assert.ErrorIs(t, err, domain.ErrOrderMismatch)
	})

	t.Run("Policies Forwarded", func(t *testing.T) {
		s, err := espalier.Schedule(d, espalier.StrategyTreeDecomposition,
			espalier.WithElimination(ports.EliminationMinDegree),
			espalier.WithSupernodes(ports.SupernodeSingleton))
		require.NoError(t, err)
		// Singleton bags: one composite per junction.
		assert.Equal(t, d.NumJunctions(), s.NumComposites())
	})

	t.Run("Explicit Elimination Order", func(t *testing.T) {
		_, err := espalier.Schedule(d, espalier.StrategyTreeDecomposition,
			espalier.WithElimination(ports.EliminationOrder),
			espalier.WithEliminationOrder(5, 4, 3, 2, 1, 0))
		require.NoError(t, err)
	})

	t.Run("Logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		_, err := espalier.Schedule(d, espalier.StrategySequential, espalier.WithLogger(logger))
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "schedule computed")
	})
}

func TestSchedule_UnknownStrategy(t *testing.T) {
	_, err := espalier.Schedule(domain.NewDiagram(0), espalier.Strategy("bogus"))
	assert.Error(t, err)
}

func TestSchedule_CustomDecomposer(t *testing.T) {
	// A trivial oracle putting everything in one bag must be honored verbatim.
	d := gridDiagram(t)

	s, err := espalier.Schedule(d, espalier.StrategyTreeDecomposition,
		espalier.WithDecomposer(oneBagDecomposer{}))
	require.NoError(t, err)

	require.Equal(t, 1, s.NumComposites())
	assert.Len(t, s.BoxChildren(0), d.NumBoxes())
}

type oneBagDecomposer struct{}

func (oneBagDecomposer) Decompose(g *ports.Graph, _ ports.DecomposeOptions) (ports.Decomposition, error) {
	bag := make([]int, g.N())
	for i := range bag {
		bag[i] = i
	}
	return ports.Decomposition{Bags: [][]int{bag}, Parent: []int{0}}, nil
}
