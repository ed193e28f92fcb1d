package domain

import "fmt"

// Scheduled is a Diagram augmented with composite nodes forming a rooted
// forest. Every box is assigned to exactly one composite; a composite's
// parent is another composite, or itself when it is a root.
//
// A Scheduled is immutable once constructed. Child adjacency is derived at
// construction time so the forest invariant stays mechanically checkable.
type Scheduled struct {
	*Diagram

	parent    []CompositeID // parent[c] == c at a root
	boxParent []CompositeID // owning composite of each box

	children    [][]CompositeID // composite -> child composites, excluding self
	boxChildren [][]BoxID       // composite -> directly owned boxes
}

// NewScheduled builds a schedule over d from explicit parent assignments.
// parent[c] is the parent of composite c (self at roots); boxParent[b] is
// the composite owning box b. The parent relation must be a rooted forest.
func NewScheduled(d *Diagram, parent []CompositeID, boxParent []CompositeID) (*Scheduled, error) {
	n := len(parent)
	if len(boxParent) != d.NumBoxes() {
		return nil, fmt.Errorf("box assignment covers %d boxes, diagram has %d", len(boxParent), d.NumBoxes())
	}
	for c, p := range parent {
		if p < 0 || int(p) >= n {
			return nil, fmt.Errorf("composite %d: parent %d out of range", c, p)
		}
	}
	for b, c := range boxParent {
		if c < 0 || int(c) >= n {
			return nil, fmt.Errorf("box %d: composite %d out of range", b, c)
		}
	}
	if err := checkForest(parent); err != nil {
		return nil, err
	}

	s := &Scheduled{
		Diagram:     d,
		parent:      append([]CompositeID(nil), parent...),
		boxParent:   append([]CompositeID(nil), boxParent...),
		children:    make([][]CompositeID, n),
		boxChildren: make([][]BoxID, n),
	}
	for c, p := range s.parent {
		if CompositeID(c) != p {
			s.children[p] = append(s.children[p], CompositeID(c))
		}
	}
	for b, c := range s.boxParent {
		s.boxChildren[c] = append(s.boxChildren[c], BoxID(b))
	}
	return s, nil
}

// checkForest verifies that following parent links from any composite
// terminates at a self-loop without revisiting a node in the same walk.
func checkForest(parent []CompositeID) error {
	const (
		unseen = 0
		onPath = 1
		done   = 2
	)
	state := make([]byte, len(parent))
	for start := range parent {
		c := CompositeID(start)
		var path []CompositeID
		for state[c] == unseen {
			state[c] = onPath
			path = append(path, c)
			if parent[c] == c {
				break
			}
			c = parent[c]
		}
		if state[c] == onPath && parent[c] != c {
			return fmt.Errorf("%w: cycle through composite %d", ErrNotForest, c)
		}
		for _, p := range path {
			state[p] = done
		}
		state[c] = done
	}
	return nil
}

// NumComposites returns the number of composite nodes.
func (s *Scheduled) NumComposites() int { return len(s.parent) }

// Parent returns the parent of composite c; roots return themselves.
func (s *Scheduled) Parent(c CompositeID) CompositeID { return s.parent[c] }

// IsRoot reports whether composite c is self-parented.
func (s *Scheduled) IsRoot(c CompositeID) bool { return s.parent[c] == c }

// BoxParent returns the composite directly owning box b.
func (s *Scheduled) BoxParent(b BoxID) CompositeID { return s.boxParent[b] }

// Children returns the composites whose parent is c, never including c itself.
func (s *Scheduled) Children(c CompositeID) []CompositeID { return s.children[c] }

// BoxChildren returns the boxes directly assigned to composite c.
func (s *Scheduled) BoxChildren(c CompositeID) []BoxID { return s.boxChildren[c] }

// Root returns the unique self-parented composite. Evaluation and nesting
// require exactly one; anything else is a structural precondition violation.
func (s *Scheduled) Root() (CompositeID, error) {
	root := CompositeID(-1)
	for c, p := range s.parent {
		if CompositeID(c) == p {
			if root >= 0 {
				return 0, ErrMultipleRoots
			}
			root = CompositeID(c)
		}
	}
	if root < 0 {
		return 0, ErrNoRoot
	}
	return root, nil
}

// Nested is a Scheduled augmented with, per composite, the ordered list of
// junctions outgoing from that composite's subtree. These are the
// composite's connection points to the rest of the diagram.
type Nested struct {
	*Scheduled

	compositePorts [][]JunctionID
}

// NewNested wraps a schedule with explicit composite ports. Most callers
// obtain a Nested from the nesting step rather than building one directly;
// this constructor exists for deserialization.
func NewNested(s *Scheduled, compositePorts [][]JunctionID) (*Nested, error) {
	if len(compositePorts) != s.NumComposites() {
		return nil, fmt.Errorf("composite ports cover %d composites, schedule has %d",
			len(compositePorts), s.NumComposites())
	}
	ports := make([][]JunctionID, len(compositePorts))
	for c, js := range compositePorts {
		for _, j := range js {
			if j < 0 || int(j) >= s.NumJunctions() {
				return nil, fmt.Errorf("composite %d: %w: junction %d", c, ErrJunctionRange, j)
			}
		}
		ports[c] = append([]JunctionID(nil), js...)
	}
	return &Nested{Scheduled: s, compositePorts: ports}, nil
}

// CompositePorts returns the outgoing junctions of composite c, in port order.
func (n *Nested) CompositePorts(c CompositeID) []JunctionID { return n.compositePorts[c] }
