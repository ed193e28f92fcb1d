package schema

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk YAML representation of a wiring diagram. Junctions
// are named; boxes and the outer interface reference them by name. An
// optional generators section carries relation values for evaluation.
//
// Example:
//
//	name: triangle
//	junctions: [w, x, y, v, z]
//	boxes:
//	  - name: R1
//	    ports: [w, y, x]
//	  - name: R2
//	    ports: [x, v, y]
//	  - name: R3
//	    ports: [w, v, z]
//	outer: [w, y]
type Document struct {
	Name       string      `yaml:"name,omitempty" json:"name,omitempty"`
	Junctions  []string    `yaml:"junctions" json:"junctions"`
	Boxes      []Box       `yaml:"boxes" json:"boxes"`
	Outer      []string    `yaml:"outer,omitempty" json:"outer,omitempty"`
	Generators *Generators `yaml:"generators,omitempty" json:"generators,omitempty"`
}

// Box is one box entry of a Document.
type Box struct {
	Name  string   `yaml:"name,omitempty" json:"name,omitempty"`
	Ports []string `yaml:"ports" json:"ports"`
}

// Generators carries one relation per box over a shared finite domain,
// keyed by box name.
type Generators struct {
	Size      int                `yaml:"size" json:"size"`
	Relations map[string][][]int `yaml:"relations" json:"relations"`
}

// Parse unmarshals and validates a YAML diagram document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse diagram document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses a YAML diagram document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// JunctionIndex maps junction names to their dense ids, in document order.
func (doc *Document) JunctionIndex() map[string]domain.JunctionID {
	idx := make(map[string]domain.JunctionID, len(doc.Junctions))
	for i, name := range doc.Junctions {
		idx[name] = domain.JunctionID(i)
	}
	return idx
}

// Diagram converts a validated document into the domain representation.
func (doc *Document) Diagram() (*domain.Diagram, error) {
	idx := doc.JunctionIndex()
	d := domain.NewDiagram(len(doc.Junctions))
	for _, box := range doc.Boxes {
		ports := make([]domain.JunctionID, len(box.Ports))
		for i, name := range box.Ports {
			ports[i] = idx[name]
		}
		if _, err := d.AddNamedBox(box.Name, ports...); err != nil {
			return nil, err
		}
	}
	outer := make([]domain.JunctionID, len(doc.Outer))
	for i, name := range doc.Outer {
		outer[i] = idx[name]
	}
	if err := d.SetOuterPorts(outer...); err != nil {
		return nil, err
	}
	return d, nil
}

// GeneratorVector returns the relation tuples of each box, in box order.
// Returns nil when the document has no generators section.
func (doc *Document) GeneratorVector() [][][]int {
	if doc.Generators == nil {
		return nil
	}
	out := make([][][]int, len(doc.Boxes))
	for i, box := range doc.Boxes {
		out[i] = doc.Generators.Relations[box.Name]
	}
	return out
}
