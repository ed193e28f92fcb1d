/*
Package espalier schedules and evaluates compositions of undirected wiring
diagrams (UWDs).

A wiring diagram describes how opaque "box" values (tensors, relations,
anything the caller can combine) are connected through shared junctions.
Espalier computes an order in which to contract the boxes into a single
result, then executes that order generically for any value type. Choosing the
order well (via tree decomposition of the diagram's junction graph) keeps
intermediate results small; the engine itself never looks inside a value.

# Pipeline

	Diagram -> Schedule -> Nest -> Eval

Schedule assigns every box to a composite node of a rooted contraction tree.
Nest computes, per composite, the junctions visible outside that composite's
subtree. Eval recurses over the tree, handing each composite's flat local
diagram and child values to a caller-supplied combination function. The
nested schedule is reusable: evaluate it repeatedly with different generator
vectors, or persist it through a ScheduleCache adapter.

# Usage

	d := domain.NewDiagram(3)
	d.AddNamedBox("R1", 0, 1)
	d.AddNamedBox("R2", 1, 2)
	d.SetOuterPorts(0, 2)

	s, err := espalier.Schedule(d, espalier.StrategyTreeDecomposition)
	if err != nil {
		log.Fatal(err)
	}
	n, err := espalier.Nest(s)
	if err != nil {
		log.Fatal(err)
	}

	alg := relation.Algebra{Size: 2}
	out, err := espalier.Eval(alg.Combine, n, []relation.Relation{g1, g2})

The combination function is an explicit parameter on every call; there is no
global registry of value algebras.
*/
package espalier
