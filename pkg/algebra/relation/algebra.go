package relation

import (
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
)

// Algebra is the relational value algebra over a fixed finite domain of
// Size elements. Its Combine method is an espalier combination function:
// it evaluates one flat wiring diagram whose box values are relations,
// joining along shared junctions and projecting onto the outer ports.
//
// The implementation enumerates every assignment of the local junctions, so
// it is exponential in step width. That is the point: schedules with smaller
// width evaluate faster, and tests can observe it.
type Algebra struct {
	// Size is the cardinality of the shared domain every column ranges over.
	Size int
}

// Combine joins the given relations along the diagram's junctions and
// projects the result onto the outer ports.
//
// With zero boxes and zero outer ports the result is the unit relation
// holding one empty tuple.
func (a Algebra) Combine(local *domain.Diagram, values []Relation) (Relation, error) {
	if len(values) != local.NumBoxes() {
		return Relation{}, fmt.Errorf("got %d relations for %d boxes", len(values), local.NumBoxes())
	}
	for b, v := range values {
		if want := len(local.BoxPorts(domain.BoxID(b))); v.Arity() != want {
			name := local.BoxName(domain.BoxID(b))
			if name == "" {
				name = fmt.Sprintf("box %d", b)
			}
			return Relation{}, fmt.Errorf("%s: relation arity %d does not match %d ports", name, v.Arity(), want)
		}
	}

	outer := local.OuterPorts()
	result := Relation{arity: len(outer), rows: make(map[string]struct{})}

	assignment := make([]int, local.NumJunctions())
	var enumerate func(j int)
	enumerate = func(j int) {
		if j == len(assignment) {
			for b, v := range values {
				if !v.Has(project(assignment, local.BoxPorts(domain.BoxID(b)))...) {
					return
				}
			}
			result.rows[encode(project(assignment, outer))] = struct{}{}
			return
		}
		for x := 0; x < a.Size; x++ {
			assignment[j] = x
			enumerate(j + 1)
		}
	}
	enumerate(0)

	return result, nil
}

// project reads the assignment at each of the listed junctions.
func project(assignment []int, junctions []domain.JunctionID) []int {
	out := make([]int, len(junctions))
	for i, j := range junctions {
		out[i] = assignment[j]
	}
	return out
}
