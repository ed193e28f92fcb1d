package ports

import "sort"

// Graph is a simple undirected graph over vertices 0..N-1, used as the dual
// graph handed to a tree-decomposition oracle. Self-loops and duplicate
// edges are ignored on insertion.
type Graph struct {
	adj []map[int]struct{}
}

// NewGraph creates an empty graph with n vertices.
func NewGraph(n int) *Graph {
	g := &Graph{adj: make([]map[int]struct{}, n)}
	for i := range g.adj {
		g.adj[i] = make(map[int]struct{})
	}
	return g
}

// N returns the number of vertices.
func (g *Graph) N() int { return len(g.adj) }

// AddEdge inserts the undirected edge {u, v}.
func (g *Graph) AddEdge(u, v int) {
	if u == v {
		return
	}
	g.adj[u][v] = struct{}{}
	g.adj[v][u] = struct{}{}
}

// HasEdge reports whether {u, v} is an edge.
func (g *Graph) HasEdge(u, v int) bool {
	_, ok := g.adj[u][v]
	return ok
}

// Degree returns the number of neighbors of u.
func (g *Graph) Degree(u int) int { return len(g.adj[u]) }

// Neighbors returns the neighbors of u in ascending order.
func (g *Graph) Neighbors(u int) []int {
	out := make([]int, 0, len(g.adj[u]))
	for v := range g.adj[u] {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// EliminationPolicy selects how a decomposer orders vertices for elimination.
type EliminationPolicy string

const (
	// EliminationMinDegree greedily eliminates a vertex of minimum current degree.
	EliminationMinDegree EliminationPolicy = "min-degree"
	// EliminationMinFill greedily eliminates the vertex adding the fewest fill edges.
	EliminationMinFill EliminationPolicy = "min-fill"
	// EliminationOrder uses the explicit order supplied in DecomposeOptions.
	EliminationOrder EliminationPolicy = "order"
)

// SupernodePolicy selects how a decomposer groups vertices into bags.
type SupernodePolicy string

const (
	// SupernodeSingleton puts every vertex in its own bag (plain elimination tree).
	SupernodeSingleton SupernodePolicy = "singleton"
	// SupernodeFundamental merges a vertex into its parent bag when its filled
	// neighborhood is the parent's plus the parent itself.
	SupernodeFundamental SupernodePolicy = "fundamental"
)

// DecomposeOptions carries the policies forwarded opaquely to a decomposer.
type DecomposeOptions struct {
	Elimination EliminationPolicy
	Supernodes  SupernodePolicy

	// Order is the explicit elimination order, required when
	// Elimination == EliminationOrder and ignored otherwise.
	Order []int
}

// Decomposition is a rooted tree of bags covering all graph vertices.
// Every vertex belongs to exactly one bag, and adjacent graph vertices'
// bags are ancestor-related in the tree.
type Decomposition struct {
	// Bags lists the vertices of each bag.
	Bags [][]int
	// Parent is the rooted bag tree; Parent[root] == root.
	Parent []int
	// Order is the elimination order (vertex labeling) the tree was built from.
	Order []int
}

// Decomposer is the tree-decomposition oracle consumed by the
// tree-decomposition scheduling strategy. Implementations must honor the
// Decomposition contract above; espalier never re-validates the width or
// optimality of the result.
type Decomposer interface {
	Decompose(g *Graph, opts DecomposeOptions) (Decomposition, error)
}
