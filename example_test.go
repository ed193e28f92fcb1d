package espalier_test

import (
	"fmt"

	espalier "github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/algebra/relation"
	"github.com/aretw0/espalier/pkg/domain"
)

// Composing two relations along a shared junction: R(a,b) ; S(b,c),
// exposing (a, c).
func Example() {
	d := domain.NewDiagram(3)
	d.AddNamedBox("R", 0, 1)
	d.AddNamedBox("S", 1, 2)
	d.SetOuterPorts(0, 2)

	s, err := espalier.Schedule(d, espalier.StrategyTreeDecomposition)
	if err != nil {
		panic(err)
	}

	alg := relation.Algebra{Size: 2}
	result, err := espalier.EvalScheduled(alg.Combine, s, []relation.Relation{
		relation.MustNew(2, []int{0, 1}),
		relation.MustNew(2, []int{1, 1}),
	})
	if err != nil {
		panic(err)
	}

	for _, tuple := range result.Tuples() {
		fmt.Println(tuple)
	}
	// Output:
	// [0 1]
}
