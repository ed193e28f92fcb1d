package runtime

import (
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
)

// Combine evaluates one flat (non-nested) wiring diagram given one value per
// box, values ordered like the diagram's boxes. The value algebra behind it
// is opaque to the engine; its errors propagate unchanged.
type Combine[V any] func(local *domain.Diagram, values []V) (V, error)

// Eval runs the schedule bottom-up: every composite gathers the generator
// values of its own boxes and the results of its child composites, builds a
// flat local diagram over them, and hands both to f. The root composite is
// evaluated against the diagram's true outer interface and its value is the
// result.
//
// generators is indexed by box id and must cover every box.
func Eval[V any](f Combine[V], n *domain.Nested, generators []V) (V, error) {
	var zero V
	if len(generators) != n.NumBoxes() {
		return zero, fmt.Errorf("%w: got %d generators for %d boxes",
			domain.ErrGeneratorCount, len(generators), n.NumBoxes())
	}
	root, err := n.Root()
	if err != nil {
		return zero, err
	}
	return evalComposite(f, n, generators, root, n.OuterPorts())
}

// EvalScheduled nests s first, then evaluates. Nesting is observationally
// transparent: the result equals Eval over Nest(s).
func EvalScheduled[V any](f Combine[V], s *domain.Scheduled, generators []V) (V, error) {
	n, err := Nest(s)
	if err != nil {
		var zero V
		return zero, err
	}
	return Eval(f, n, generators)
}

// evalComposite evaluates composite c against the given outer pattern: the
// composite's own ports, or the diagram's outer ports at the root.
func evalComposite[V any](f Combine[V], n *domain.Nested, generators []V, c domain.CompositeID, outer []domain.JunctionID) (V, error) {
	var zero V

	boxes := n.BoxChildren(c)
	kids := n.Children(c)

	values := make([]V, 0, len(boxes)+len(kids))
	patterns := make([][]domain.JunctionID, 0, len(boxes)+len(kids))
	names := make([]string, 0, len(boxes)+len(kids))

	for _, b := range boxes {
		values = append(values, generators[b])
		patterns = append(patterns, n.BoxPorts(b))
		names = append(names, n.BoxName(b))
	}
	for _, child := range kids {
		v, err := evalComposite(f, n, generators, child, n.CompositePorts(child))
		if err != nil {
			return zero, err
		}
		values = append(values, v)
		patterns = append(patterns, n.CompositePorts(child))
		names = append(names, fmt.Sprintf("composite/%d", child))
	}

	local, err := localDiagram(patterns, names, outer)
	if err != nil {
		return zero, err
	}
	return f(local, values)
}

// localDiagram builds the flat diagram seen by one combination step. Global
// junction ids may be sparse, so they are remapped to a dense local
// numbering in first-seen order across box patterns, then the outer pattern.
func localDiagram(patterns [][]domain.JunctionID, names []string, outer []domain.JunctionID) (*domain.Diagram, error) {
	remap := make(map[domain.JunctionID]domain.JunctionID)
	local := func(j domain.JunctionID) domain.JunctionID {
		if m, ok := remap[j]; ok {
			return m
		}
		m := domain.JunctionID(len(remap))
		remap[j] = m
		return m
	}

	mapped := make([][]domain.JunctionID, len(patterns))
	for i, pattern := range patterns {
		mapped[i] = make([]domain.JunctionID, len(pattern))
		for k, j := range pattern {
			mapped[i][k] = local(j)
		}
	}
	mappedOuter := make([]domain.JunctionID, len(outer))
	for k, j := range outer {
		mappedOuter[k] = local(j)
	}

	d := domain.NewDiagram(len(remap))
	for i, ports := range mapped {
		if _, err := d.AddNamedBox(names[i], ports...); err != nil {
			return nil, err
		}
	}
	if err := d.SetOuterPorts(mappedOuter...); err != nil {
		return nil, err
	}
	return d, nil
}
