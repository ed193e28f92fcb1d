package runtime_test

import (
	"testing"

	"github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/pkg/adapters/elimtree"
	"github.com/aretw0/espalier/pkg/algebra/relation"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleDiagram is the shared-junction scenario: three boxes
// R1(w,y,x), R2(x,v,y), R3(w,v,z) with outer interface (w, y).
// Junction ids: w=0 x=1 y=2 v=3 z=4.
func triangleDiagram(t *testing.T) *domain.Diagram {
	t.Helper()
	d := domain.NewDiagram(5)
	_, err := d.AddNamedBox("R1", 0, 2, 1)
	require.NoError(t, err)
	_, err = d.AddNamedBox("R2", 1, 3, 2)
	require.NoError(t, err)
	_, err = d.AddNamedBox("R3", 0, 3, 4)
	require.NoError(t, err)
	require.NoError(t, d.SetOuterPorts(0, 2))
	return d
}

func triangleGenerators() []relation.Relation {
	return []relation.Relation{
		relation.MustNew(3, []int{0, 0, 1}, []int{1, 0, 0}, []int{1, 1, 1}),
		relation.MustNew(3, []int{0, 1, 0}, []int{1, 0, 0}, []int{1, 1, 1}, []int{0, 0, 1}),
		relation.MustNew(3, []int{0, 0, 0}, []int{0, 1, 1}, []int{1, 1, 0}),
	}
}

// flatReference evaluates the whole diagram in a single combination step,
// the ground truth every schedule must reproduce.
func flatReference(t *testing.T, d *domain.Diagram, alg relation.Algebra, gens []relation.Relation) relation.Relation {
	t.Helper()
	want, err := alg.Combine(d, gens)
	require.NoError(t, err)
	return want
}

func TestEval_MatrixComposition(t *testing.T) {
	// R(a,b) ; S(b,c) with outer (a,c) is relation composition.
	d := domain.NewDiagram(3)
	_, err := d.AddNamedBox("R", 0, 1)
	require.NoError(t, err)
	_, err = d.AddNamedBox("S", 1, 2)
	require.NoError(t, err)
	require.NoError(t, d.SetOuterPorts(0, 2))

	s, err := runtime.Sequential(d, nil)
	require.NoError(t, err)

	alg := relation.Algebra{Size: 2}
	gens := []relation.Relation{
		relation.MustNew(2, []int{0, 1}),
		relation.MustNew(2, []int{1, 1}),
	}

	got, err := runtime.EvalScheduled(alg.Combine, s, gens)
	require.NoError(t, err)
	assert.True(t, got.Equal(relation.MustNew(2, []int{0, 1})), "got %v", got)
}

func TestEval_ScheduleInvariance(t *testing.T) {
	// Sequential and tree-decomposition schedules must agree with each
	// other and with evaluating the whole diagram in one step.
	d := triangleDiagram(t)
	alg := relation.Algebra{Size: 2}
	gens := triangleGenerators()
	want := flatReference(t, d, alg, gens)
	require.Equal(t, 2, want.Arity())

	seq, err := runtime.Sequential(d, nil)
	require.NoError(t, err)
	gotSeq, err := runtime.EvalScheduled(alg.Combine, seq, gens)
	require.NoError(t, err)
	assert.True(t, want.Equal(gotSeq), "sequential: want %v got %v", want, gotSeq)

	td, err := runtime.TreeDecomposition(d, elimtree.New(), runtime.TreeDecompositionOptions{})
	require.NoError(t, err)
	gotTD, err := runtime.EvalScheduled(alg.Combine, td, gens)
	require.NoError(t, err)
	assert.True(t, want.Equal(gotTD), "tree decomposition: want %v got %v", want, gotTD)
}

func TestEval_NestingTransparent(t *testing.T) {
	// Explicit nesting must not change the result.
	d := triangleDiagram(t)
	alg := relation.Algebra{Size: 2}
	gens := triangleGenerators()

	s, err := runtime.Sequential(d, nil)
	require.NoError(t, err)

	direct, err := runtime.EvalScheduled(alg.Combine, s, gens)
	require.NoError(t, err)

	n, err := runtime.Nest(s)
	require.NoError(t, err)
	nested, err := runtime.Eval(alg.Combine, n, gens)
	require.NoError(t, err)

	assert.True(t, direct.Equal(nested), "direct %v nested %v", direct, nested)
}

func TestEval_EmptyDiagram(t *testing.T) {
	// Zero boxes, zero outer ports: the result is the algebra's unit.
	d := domain.NewDiagram(0)
	s, err := runtime.Sequential(d, nil)
	require.NoError(t, err)

	alg := relation.Algebra{Size: 2}
	got, err := runtime.EvalScheduled(alg.Combine, s, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, got.Arity())
	assert.Equal(t, 1, got.Len(), "unit relation holds exactly the empty tuple")
}

func TestEval_OuterOnlyJunction(t *testing.T) {
	// Junction 1 touches no box; its outer column ranges freely.
	d := domain.NewDiagram(2)
	_, err := d.AddNamedBox("A", 0)
	require.NoError(t, err)
	require.NoError(t, d.SetOuterPorts(0, 1))

	s, err := runtime.Sequential(d, nil)
	require.NoError(t, err)

	alg := relation.Algebra{Size: 2}
	gens := []relation.Relation{relation.MustNew(1, []int{1})}

	got, err := runtime.EvalScheduled(alg.Combine, s, gens)
	require.NoError(t, err)
	assert.True(t, got.Equal(relation.MustNew(2, []int{1, 0}, []int{1, 1})), "got %v", got)
}

func TestEval_GeneratorCountMismatch(t *testing.T) {
	d := triangleDiagram(t)
	s, err := runtime.Sequential(d, nil)
	require.NoError(t, err)
	n, err := runtime.Nest(s)
	require.NoError(t, err)

	alg := relation.Algebra{Size: 2}
	_, err = runtime.Eval(alg.Combine, n, triangleGenerators()[:2])
	assert.ErrorIs(t, err, domain.ErrGeneratorCount)
}

func TestEval_MultipleRootsFatal(t *testing.T) {
	d := domain.NewDiagram(1)
	_, err := d.AddBox(0)
	require.NoError(t, err)
	_, err = d.AddBox(0)
	require.NoError(t, err)

	s, err := domain.NewScheduled(d,
		[]domain.CompositeID{0, 1},
		[]domain.CompositeID{0, 1},
	)
	require.NoError(t, err)

	alg := relation.Algebra{Size: 2}
	_, err = runtime.EvalScheduled(alg.Combine, s, []relation.Relation{
		relation.MustNew(1, []int{0}),
		relation.MustNew(1, []int{0}),
	})
	assert.ErrorIs(t, err, domain.ErrMultipleRoots)
}

func TestEval_AlgebraErrorsPropagate(t *testing.T) {
	// An arity mismatch raised inside the combination function must surface
	// unchanged to the caller.
	d := domain.NewDiagram(1)
	_, err := d.AddNamedBox("A", 0)
	require.NoError(t, err)
	require.NoError(t, d.SetOuterPorts(0))

	s, err := runtime.Sequential(d, nil)
	require.NoError(t, err)

	alg := relation.Algebra{Size: 2}
	_, err = runtime.EvalScheduled(alg.Combine, s, []relation.Relation{relation.MustNew(2)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arity")
}

func TestWidth(t *testing.T) {
	d := triangleDiagram(t)

	s, err := runtime.Sequential(d, nil)
	require.NoError(t, err)
	n, err := runtime.Nest(s)
	require.NoError(t, err)

	// The first step combines R1(w,y,x) and R2(x,v,y) whose junctions plus
	// the step's own outgoing ports span w,x,y,v.
	assert.Equal(t, 4, runtime.StepWidth(n, 0))
	assert.Equal(t, 4, runtime.Width(n))
}
