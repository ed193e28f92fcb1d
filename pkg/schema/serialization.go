package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
)

// nestedJSON is the wire form of a nested schedule, used by the schedule
// caches and the HTTP API. Ids are dense, so flat integer arrays round-trip
// the whole structure.
type nestedJSON struct {
	Junctions      int      `json:"junctions"`
	BoxPorts       [][]int  `json:"box_ports"`
	BoxNames       []string `json:"box_names,omitempty"`
	Outer          []int    `json:"outer"`
	Parent         []int    `json:"parent"`
	BoxParent      []int    `json:"box_parent"`
	CompositePorts [][]int  `json:"composite_ports"`
}

// EncodeNested serializes a nested schedule to JSON.
func EncodeNested(n *domain.Nested) ([]byte, error) {
	w := nestedJSON{
		Junctions:      n.NumJunctions(),
		BoxPorts:       make([][]int, n.NumBoxes()),
		BoxNames:       make([]string, n.NumBoxes()),
		Outer:          junctionsToInts(n.OuterPorts()),
		Parent:         make([]int, n.NumComposites()),
		BoxParent:      make([]int, n.NumBoxes()),
		CompositePorts: make([][]int, n.NumComposites()),
	}
	for b := 0; b < n.NumBoxes(); b++ {
		id := domain.BoxID(b)
		w.BoxPorts[b] = junctionsToInts(n.BoxPorts(id))
		w.BoxNames[b] = n.BoxName(id)
		w.BoxParent[b] = int(n.BoxParent(id))
	}
	for c := 0; c < n.NumComposites(); c++ {
		id := domain.CompositeID(c)
		w.Parent[c] = int(n.Parent(id))
		w.CompositePorts[c] = junctionsToInts(n.CompositePorts(id))
	}
	return json.Marshal(w)
}

// DecodeNested reconstructs a nested schedule from its JSON form, running
// the same structural validation as direct construction.
func DecodeNested(data []byte) (*domain.Nested, error) {
	var w nestedJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode schedule: %w", err)
	}

	d := domain.NewDiagram(w.Junctions)
	for b, ports := range w.BoxPorts {
		name := ""
		if b < len(w.BoxNames) {
			name = w.BoxNames[b]
		}
		if _, err := d.AddNamedBox(name, intsToJunctions(ports)...); err != nil {
			return nil, fmt.Errorf("failed to decode schedule: %w", err)
		}
	}
	if err := d.SetOuterPorts(intsToJunctions(w.Outer)...); err != nil {
		return nil, fmt.Errorf("failed to decode schedule: %w", err)
	}

	parent := make([]domain.CompositeID, len(w.Parent))
	for c, p := range w.Parent {
		parent[c] = domain.CompositeID(p)
	}
	boxParent := make([]domain.CompositeID, len(w.BoxParent))
	for b, c := range w.BoxParent {
		boxParent[b] = domain.CompositeID(c)
	}
	s, err := domain.NewScheduled(d, parent, boxParent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode schedule: %w", err)
	}

	ports := make([][]domain.JunctionID, len(w.CompositePorts))
	for c, js := range w.CompositePorts {
		ports[c] = intsToJunctions(js)
	}
	n, err := domain.NewNested(s, ports)
	if err != nil {
		return nil, fmt.Errorf("failed to decode schedule: %w", err)
	}
	return n, nil
}

// Fingerprint derives a deterministic cache key from a diagram's structure
// plus any discriminating extras (strategy name, policy names). Two calls
// with structurally identical inputs produce the same key.
func Fingerprint(d *domain.Diagram, extras ...string) string {
	h := sha256.New()
	fmt.Fprintf(h, "junctions:%d;", d.NumJunctions())
	for b := 0; b < d.NumBoxes(); b++ {
		id := domain.BoxID(b)
		fmt.Fprintf(h, "box:%s:%v;", d.BoxName(id), d.BoxPorts(id))
	}
	fmt.Fprintf(h, "outer:%v;", d.OuterPorts())
	for _, extra := range extras {
		fmt.Fprintf(h, "extra:%s;", extra)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func junctionsToInts(js []domain.JunctionID) []int {
	out := make([]int, len(js))
	for i, j := range js {
		out[i] = int(j)
	}
	return out
}

func intsToJunctions(vs []int) []domain.JunctionID {
	out := make([]domain.JunctionID, len(vs))
	for i, v := range vs {
		out[i] = domain.JunctionID(v)
	}
	return out
}
