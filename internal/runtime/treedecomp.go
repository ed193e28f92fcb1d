package runtime

import (
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// TreeDecompositionOptions configures the width-aware scheduling strategy.
// Both policies are forwarded opaquely to the decomposer.
type TreeDecompositionOptions struct {
	Elimination ports.EliminationPolicy
	Supernodes  ports.SupernodePolicy

	// Order is the explicit elimination order over junctions, used only
	// with ports.EliminationOrder.
	Order []int
}

// TreeDecomposition schedules d by tree-decomposing its dual graph with the
// given oracle: one composite per bag, parent edges from the bag tree
// re-rooted at the bag holding the outer junctions.
//
// Box assignment walks bags from the leaves toward the root; a box whose
// junctions span several bags keeps the assignment of the last-processed
// (most root-ward) bag. Bags are processed in post-order with children
// visited in ascending bag index, which makes the tie-break deterministic.
// Boxes with no ports are assigned to the root.
func TreeDecomposition(d *domain.Diagram, dec ports.Decomposer, opts TreeDecompositionOptions) (*domain.Scheduled, error) {
	if d.NumJunctions() == 0 {
		return singleRoot(d)
	}

	dc, err := dec.Decompose(DualGraph(d), ports.DecomposeOptions{
		Elimination: opts.Elimination,
		Supernodes:  opts.Supernodes,
		Order:       opts.Order,
	})
	if err != nil {
		return nil, fmt.Errorf("tree decomposition failed: %w", err)
	}
	if len(dc.Bags) == 0 {
		return singleRoot(d)
	}
	if len(dc.Parent) != len(dc.Bags) {
		return nil, fmt.Errorf("decomposer returned %d bags but %d parent entries", len(dc.Bags), len(dc.Parent))
	}

	// Every junction must land in exactly one bag.
	vertexBag := make([]int, d.NumJunctions())
	for i := range vertexBag {
		vertexBag[i] = -1
	}
	for bag, vs := range dc.Bags {
		for _, v := range vs {
			if v < 0 || v >= d.NumJunctions() {
				return nil, fmt.Errorf("decomposer bag %d contains unknown vertex %d", bag, v)
			}
			if vertexBag[v] >= 0 {
				return nil, fmt.Errorf("decomposer placed vertex %d in bags %d and %d", v, vertexBag[v], bag)
			}
			vertexBag[v] = bag
		}
	}
	for v, bag := range vertexBag {
		if bag < 0 {
			return nil, fmt.Errorf("decomposer left vertex %d unassigned", v)
		}
	}

	children := make([][]int, len(dc.Bags))
	bagRoot := -1
	for bag, p := range dc.Parent {
		if p < 0 || p >= len(dc.Bags) {
			return nil, fmt.Errorf("bag %d: parent %d out of range", bag, p)
		}
		if p == bag {
			if bagRoot >= 0 {
				return nil, fmt.Errorf("decomposer returned multiple bag-tree roots (%d and %d)", bagRoot, bag)
			}
			bagRoot = bag
		} else {
			children[p] = append(children[p], bag)
		}
	}
	if bagRoot < 0 {
		return nil, fmt.Errorf("decomposer returned no bag-tree root")
	}

	// Leaf-to-root sweep: assign each box to the bag of its junctions,
	// root-ward bags overwriting leaf-ward ones, and track which bag holds
	// the outer interface.
	boxParent := make([]domain.CompositeID, d.NumBoxes())
	assigned := make([]bool, d.NumBoxes())
	outerBag := -1
	var sweep func(bag int)
	sweep = func(bag int) {
		for _, child := range children[bag] {
			sweep(child)
		}
		for _, v := range dc.Bags[bag] {
			j := domain.JunctionID(v)
			for _, p := range d.PortsOf(j) {
				boxParent[p.Box] = domain.CompositeID(bag)
				assigned[p.Box] = true
			}
			if d.HasOuterPort(j) {
				outerBag = bag
			}
		}
	}
	sweep(bagRoot)

	root := bagRoot
	if outerBag >= 0 {
		root = outerBag
	}
	for b, ok := range assigned {
		if !ok {
			boxParent[b] = domain.CompositeID(root)
		}
	}

	return domain.NewScheduled(d, reroot(dc.Parent, root), boxParent)
}

// reroot reorients the bag tree so that newRoot is self-parented.
func reroot(parent []int, newRoot int) []domain.CompositeID {
	adj := make([][]int, len(parent))
	for c, p := range parent {
		if p != c {
			adj[c] = append(adj[c], p)
			adj[p] = append(adj[p], c)
		}
	}

	out := make([]domain.CompositeID, len(parent))
	seen := make([]bool, len(parent))
	queue := []int{newRoot}
	out[newRoot] = domain.CompositeID(newRoot)
	seen[newRoot] = true
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, next := range adj[c] {
			if !seen[next] {
				seen[next] = true
				out[next] = domain.CompositeID(c)
				queue = append(queue, next)
			}
		}
	}
	return out
}

// singleRoot degenerates to one composite owning every box, used when the
// diagram has no junctions to decompose.
func singleRoot(d *domain.Diagram) (*domain.Scheduled, error) {
	boxParent := make([]domain.CompositeID, d.NumBoxes())
	return domain.NewScheduled(d, []domain.CompositeID{0}, boxParent)
}
