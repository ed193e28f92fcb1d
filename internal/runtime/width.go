package runtime

import "github.com/aretw0/espalier/pkg/domain"

// Width returns the largest number of distinct junctions appearing in any
// single combination step of the schedule. For most value algebras this is
// the quantity that drives intermediate cost, so it is what the
// tree-decomposition strategy tries to keep small.
func Width(n *domain.Nested) int {
	width := 0
	for c := 0; c < n.NumComposites(); c++ {
		if w := StepWidth(n, domain.CompositeID(c)); w > width {
			width = w
		}
	}
	return width
}

// StepWidth returns the number of distinct junctions in the local diagram
// evaluated at composite c.
func StepWidth(n *domain.Nested, c domain.CompositeID) int {
	seen := make(map[domain.JunctionID]struct{})
	for _, b := range n.BoxChildren(c) {
		for _, j := range n.BoxPorts(b) {
			seen[j] = struct{}{}
		}
	}
	for _, child := range n.Children(c) {
		for _, j := range n.CompositePorts(child) {
			seen[j] = struct{}{}
		}
	}
	if n.IsRoot(c) {
		for _, j := range n.OuterPorts() {
			seen[j] = struct{}{}
		}
	} else {
		for _, j := range n.CompositePorts(c) {
			seen[j] = struct{}{}
		}
	}
	return len(seen)
}
