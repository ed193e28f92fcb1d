package domain

import "fmt"

// BoxID identifies a box within a diagram (dense, zero-based).
type BoxID int

// JunctionID identifies a junction within a diagram (dense, zero-based).
type JunctionID int

// CompositeID identifies a composite node of a schedule (dense, zero-based).
type CompositeID int

// PortRef locates one box port: the owning box and the port's position
// within that box's ordered port list.
type PortRef struct {
	Box  BoxID
	Slot int
}

// Diagram is an undirected wiring diagram: boxes with ordered ports, each
// port mapped to a junction, plus an outer interface of ports mapped to
// junctions the same way. Junctions are the wires; two ports sharing a
// junction are connected.
//
// Storage is flat arrays addressed by dense ids. Adjacency (junction to
// incident box ports, junction to outer slots) is maintained on every
// mutation so reads never scan.
type Diagram struct {
	boxPorts   [][]JunctionID // box -> junction of each port, in port order
	boxNames   []string       // optional labels, "" when unnamed
	outerPorts []JunctionID   // outer interface, in port order

	junctionPorts [][]PortRef // junction -> incident box ports
	junctionOuter [][]int     // junction -> indices into outerPorts
}

// NewDiagram creates an empty diagram with the given number of junctions.
func NewDiagram(junctions int) *Diagram {
	return &Diagram{
		junctionPorts: make([][]PortRef, junctions),
		junctionOuter: make([][]int, junctions),
	}
}

// AddBox appends a box whose ports map, in order, to the given junctions.
// A box may have zero ports.
func (d *Diagram) AddBox(ports ...JunctionID) (BoxID, error) {
	return d.AddNamedBox("", ports...)
}

// AddNamedBox is AddBox with a display label attached to the box.
func (d *Diagram) AddNamedBox(name string, ports ...JunctionID) (BoxID, error) {
	for _, j := range ports {
		if err := d.checkJunction(j); err != nil {
			return 0, err
		}
	}
	b := BoxID(len(d.boxPorts))
	d.boxPorts = append(d.boxPorts, append([]JunctionID(nil), ports...))
	d.boxNames = append(d.boxNames, name)
	for slot, j := range ports {
		d.junctionPorts[j] = append(d.junctionPorts[j], PortRef{Box: b, Slot: slot})
	}
	return b, nil
}

// SetOuterPorts replaces the diagram's outer interface.
func (d *Diagram) SetOuterPorts(ports ...JunctionID) error {
	for _, j := range ports {
		if err := d.checkJunction(j); err != nil {
			return err
		}
	}
	d.junctionOuter = make([][]int, len(d.junctionPorts))
	d.outerPorts = append(d.outerPorts[:0], ports...)
	for slot, j := range ports {
		d.junctionOuter[j] = append(d.junctionOuter[j], slot)
	}
	return nil
}

func (d *Diagram) checkJunction(j JunctionID) error {
	if j < 0 || int(j) >= len(d.junctionPorts) {
		return fmt.Errorf("%w: junction %d of %d", ErrJunctionRange, j, len(d.junctionPorts))
	}
	return nil
}

// NumBoxes returns the number of boxes.
func (d *Diagram) NumBoxes() int { return len(d.boxPorts) }

// NumJunctions returns the number of junctions.
func (d *Diagram) NumJunctions() int { return len(d.junctionPorts) }

// BoxPorts returns the junction of each port of box b, in port order.
// The returned slice is owned by the diagram and must not be mutated.
func (d *Diagram) BoxPorts(b BoxID) []JunctionID { return d.boxPorts[b] }

// BoxName returns the label of box b, or "" if it has none.
func (d *Diagram) BoxName(b BoxID) string { return d.boxNames[b] }

// OuterPorts returns the junction of each outer port, in port order.
func (d *Diagram) OuterPorts() []JunctionID { return d.outerPorts }

// PortsOf returns the box ports incident to junction j.
func (d *Diagram) PortsOf(j JunctionID) []PortRef { return d.junctionPorts[j] }

// HasOuterPort reports whether junction j carries at least one outer port.
func (d *Diagram) HasOuterPort(j JunctionID) bool { return len(d.junctionOuter[j]) > 0 }

// OuterSlotsOf returns the indices of the outer ports mapped to junction j.
func (d *Diagram) OuterSlotsOf(j JunctionID) []int { return d.junctionOuter[j] }
