package runtime

import (
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// DualGraph builds the junction-adjacency graph of d: one vertex per
// junction, an edge whenever two distinct junctions are touched by ports of
// the same box, plus a full clique among the outer junctions. The clique
// forces a decomposer to place all outer junctions in one bag, anchoring
// the schedule's root at the diagram's interface.
func DualGraph(d *domain.Diagram) *ports.Graph {
	g := ports.NewGraph(d.NumJunctions())

	for b := 0; b < d.NumBoxes(); b++ {
		js := d.BoxPorts(domain.BoxID(b))
		for i := 0; i < len(js); i++ {
			for k := i + 1; k < len(js); k++ {
				g.AddEdge(int(js[i]), int(js[k]))
			}
		}
	}

	outer := d.OuterPorts()
	for i := 0; i < len(outer); i++ {
		for k := i + 1; k < len(outer); k++ {
			g.AddEdge(int(outer[i]), int(outer[k]))
		}
	}

	return g
}
