package runtime

import (
	"sort"

	"github.com/aretw0/espalier/pkg/domain"
)

// Nest computes, for every composite of s, the junctions outgoing from that
// composite's subtree, producing a Nested diagram ready for evaluation.
//
// A junction is outgoing from a subtree if it touches a box outside the
// subtree or carries an outer port; a junction touched only inside the
// subtree is internal and is contracted away at that composite. Subtree
// membership is tracked with a disjoint-set union over boxes and composites,
// merged bottom-up in a post-order traversal.
func Nest(s *domain.Scheduled) (*domain.Nested, error) {
	nb := s.NumBoxes()
	nc := s.NumComposites()

	// Element layout: boxes 0..nb-1, composite c at nb+c.
	u := newUnionFind(nb + nc)

	ports := make([][]domain.JunctionID, nc)
	for _, c := range postOrder(s) {
		rep := nb + int(c)
		for _, b := range s.BoxChildren(c) {
			u.union(rep, int(b))
		}
		for _, child := range s.Children(c) {
			u.union(rep, nb+int(child))
		}

		// Candidate junctions: everything touched by a direct box or by a
		// child composite's own ports.
		seen := make(map[domain.JunctionID]struct{})
		var candidates []domain.JunctionID
		consider := func(j domain.JunctionID) {
			if _, ok := seen[j]; ok {
				return
			}
			seen[j] = struct{}{}
			candidates = append(candidates, j)
		}
		for _, b := range s.BoxChildren(c) {
			for _, j := range s.BoxPorts(b) {
				consider(j)
			}
		}
		for _, child := range s.Children(c) {
			for _, j := range ports[child] {
				consider(j)
			}
		}

		for _, j := range candidates {
			if outgoing(s, u, rep, j) {
				ports[c] = append(ports[c], j)
			}
		}
		sort.Slice(ports[c], func(i, k int) bool { return ports[c][i] < ports[c][k] })
	}

	return domain.NewNested(s, ports)
}

// outgoing reports whether junction j escapes the subtree represented by rep.
func outgoing(s *domain.Scheduled, u *unionFind, rep int, j domain.JunctionID) bool {
	if s.HasOuterPort(j) {
		return true
	}
	for _, p := range s.PortsOf(j) {
		if !u.same(rep, int(p.Box)) {
			return true
		}
	}
	return false
}

// postOrder returns all composites of the forest, children strictly before
// parents, roots last.
func postOrder(s *domain.Scheduled) []domain.CompositeID {
	out := make([]domain.CompositeID, 0, s.NumComposites())
	var visit func(c domain.CompositeID)
	visit = func(c domain.CompositeID) {
		for _, child := range s.Children(c) {
			visit(child)
		}
		out = append(out, c)
	}
	for c := 0; c < s.NumComposites(); c++ {
		if s.IsRoot(domain.CompositeID(c)) {
			visit(domain.CompositeID(c))
		}
	}
	return out
}
