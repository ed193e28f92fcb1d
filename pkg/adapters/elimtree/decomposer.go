package elimtree

import (
	"fmt"
	"sort"

	"github.com/aretw0/espalier/pkg/ports"
)

// Decomposer implements ports.Decomposer with greedy elimination: it picks
// an elimination order (min-degree, min-fill, or caller-supplied), simulates
// the fill-in, and returns the elimination tree of the filled graph with
// vertices grouped into supernode bags.
//
// Every vertex lands in exactly one bag, and adjacency in the input graph
// implies ancestor-relatedness of bags, which is all the scheduling side
// relies on. The width is heuristic, not optimal. Empty policies default to
// min-degree elimination and fundamental supernodes; unknown policies are
// rejected.
type Decomposer struct{}

// New creates a greedy elimination decomposer.
func New() *Decomposer { return &Decomposer{} }

// Decompose implements ports.Decomposer.
func (dec *Decomposer) Decompose(g *ports.Graph, opts ports.DecomposeOptions) (ports.Decomposition, error) {
	n := g.N()
	if n == 0 {
		return ports.Decomposition{}, nil
	}

	supernodes := opts.Supernodes
	switch supernodes {
	case "":
		supernodes = ports.SupernodeFundamental
	case ports.SupernodeSingleton, ports.SupernodeFundamental:
	default:
		return ports.Decomposition{}, fmt.Errorf("unknown supernode policy %q", supernodes)
	}

	order, madj, err := eliminate(g, opts)
	if err != nil {
		return ports.Decomposition{}, err
	}

	pos := make([]int, n)
	for i, v := range order {
		pos[v] = i
	}

	// Elimination tree: the parent of v is the earliest-eliminated vertex of
	// v's filled neighborhood. A vertex with no remaining neighbors is a
	// component root.
	parent := make([]int, n)
	for v := 0; v < n; v++ {
		parent[v] = v
		for u := range madj[v] {
			if parent[v] == v || pos[u] < pos[parent[v]] {
				parent[v] = u
			}
		}
	}

	// A disconnected graph yields one elimination tree per component; hang
	// the extra roots under the last-eliminated vertex so the bag tree has a
	// single root. No input edge crosses components, so the
	// ancestor-relatedness contract is unaffected.
	last := order[n-1]
	for v := 0; v < n; v++ {
		if parent[v] == v && v != last {
			parent[v] = last
		}
	}

	mergedInto := mergeSupernodes(supernodes, parent, madj)

	return buildBags(parent, mergedInto, order)
}

// eliminate simulates greedy elimination on a working copy of g, returning
// the elimination order and each vertex's filled neighborhood at the moment
// it was eliminated.
func eliminate(g *ports.Graph, opts ports.DecomposeOptions) ([]int, []map[int]struct{}, error) {
	n := g.N()

	adj := make([]map[int]struct{}, n)
	for v := 0; v < n; v++ {
		adj[v] = make(map[int]struct{}, g.Degree(v))
		for _, u := range g.Neighbors(v) {
			adj[v][u] = struct{}{}
		}
	}

	explicit := false
	switch opts.Elimination {
	case ports.EliminationOrder:
		if err := checkOrder(opts.Order, n); err != nil {
			return nil, nil, err
		}
		explicit = true
	case "", ports.EliminationMinDegree, ports.EliminationMinFill:
	default:
		return nil, nil, fmt.Errorf("unknown elimination policy %q", opts.Elimination)
	}

	order := make([]int, 0, n)
	madj := make([]map[int]struct{}, n)
	eliminated := make([]bool, n)

	for step := 0; step < n; step++ {
		var v int
		if explicit {
			v = opts.Order[step]
		} else {
			v = pickGreedy(adj, eliminated, opts.Elimination)
		}

		madj[v] = make(map[int]struct{}, len(adj[v]))
		for u := range adj[v] {
			madj[v][u] = struct{}{}
		}

		// Fill: the remaining neighborhood becomes a clique.
		for u := range adj[v] {
			for w := range adj[v] {
				if u != w {
					adj[u][w] = struct{}{}
				}
			}
		}
		for u := range adj[v] {
			delete(adj[u], v)
		}
		adj[v] = nil
		eliminated[v] = true
		order = append(order, v)
	}

	return order, madj, nil
}

// pickGreedy returns the next vertex to eliminate; ties break toward the
// smallest vertex id so results are deterministic.
func pickGreedy(adj []map[int]struct{}, eliminated []bool, policy ports.EliminationPolicy) int {
	best, bestScore := -1, 0
	for v := range adj {
		if eliminated[v] {
			continue
		}
		var score int
		if policy == ports.EliminationMinFill {
			score = fillCount(adj, v)
		} else {
			score = len(adj[v])
		}
		if best < 0 || score < bestScore {
			best, bestScore = v, score
		}
	}
	return best
}

// fillCount counts the edges that eliminating v would add.
func fillCount(adj []map[int]struct{}, v int) int {
	neighbors := make([]int, 0, len(adj[v]))
	for u := range adj[v] {
		neighbors = append(neighbors, u)
	}
	fill := 0
	for i := 0; i < len(neighbors); i++ {
		for k := i + 1; k < len(neighbors); k++ {
			if _, ok := adj[neighbors[i]][neighbors[k]]; !ok {
				fill++
			}
		}
	}
	return fill
}

// mergeSupernodes decides, per vertex, whether it folds into its elimination
// tree parent's bag. Under the fundamental policy v merges into parent p
// exactly when madj(v) == {p} ∪ madj(p); merging only ever contracts tree
// edges, so bag ancestry is preserved.
func mergeSupernodes(policy ports.SupernodePolicy, parent []int, madj []map[int]struct{}) []int {
	mergedInto := make([]int, len(parent))
	for v := range mergedInto {
		mergedInto[v] = -1
	}
	if policy != ports.SupernodeFundamental {
		return mergedInto
	}

	for v, p := range parent {
		if p == v {
			continue
		}
		if len(madj[v]) != len(madj[p])+1 {
			continue
		}
		if _, ok := madj[v][p]; !ok {
			continue
		}
		subset := true
		for u := range madj[p] {
			if _, ok := madj[v][u]; !ok {
				subset = false
				break
			}
		}
		if subset {
			mergedInto[v] = p
		}
	}
	return mergedInto
}

// buildBags materializes the bag list and bag tree from the elimination tree
// and the merge assignment.
func buildBags(parent, mergedInto, order []int) (ports.Decomposition, error) {
	n := len(parent)

	// top resolves the representative vertex of a vertex's bag: the end of
	// its merge chain.
	memo := make([]int, n)
	for v := range memo {
		memo[v] = -1
	}
	var top func(v int) int
	top = func(v int) int {
		if memo[v] >= 0 {
			return memo[v]
		}
		t := v
		if mergedInto[v] >= 0 {
			t = top(mergedInto[v])
		}
		memo[v] = t
		return t
	}

	bagIndex := make(map[int]int)
	var bags [][]int
	for v := 0; v < n; v++ {
		t := top(v)
		idx, ok := bagIndex[t]
		if !ok {
			idx = len(bags)
			bagIndex[t] = idx
			bags = append(bags, nil)
		}
		bags[idx] = append(bags[idx], v)
	}
	for _, bag := range bags {
		sort.Ints(bag)
	}

	bagParent := make([]int, len(bags))
	for t, idx := range bagIndex {
		p := parent[t]
		if p == t {
			bagParent[idx] = idx
		} else {
			bagParent[idx] = bagIndex[top(p)]
		}
	}

	return ports.Decomposition{Bags: bags, Parent: bagParent, Order: order}, nil
}

func checkOrder(order []int, n int) error {
	if len(order) != n {
		return fmt.Errorf("elimination order has %d entries for %d vertices", len(order), n)
	}
	seen := make([]bool, n)
	for _, v := range order {
		if v < 0 || v >= n {
			return fmt.Errorf("elimination order contains unknown vertex %d", v)
		}
		if seen[v] {
			return fmt.Errorf("elimination order lists vertex %d twice", v)
		}
		seen[v] = true
	}
	return nil
}
