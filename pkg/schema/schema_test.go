package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleYAML = `
name: triangle
junctions: [w, x, y, v, z]
boxes:
  - name: R1
    ports: [w, y, x]
  - name: R2
    ports: [x, v, y]
  - name: R3
    ports: [w, v, z]
outer: [w, y]
generators:
  size: 2
  relations:
    R1: [[0, 0, 1], [1, 1, 1]]
    R2: [[0, 1, 0]]
    R3: [[1, 1, 0]]
`

func TestParse_Valid(t *testing.T) {
	doc, err := schema.Parse([]byte(triangleYAML))
	require.NoError(t, err)

	assert.Equal(t, "triangle", doc.Name)
	require.Len(t, doc.Boxes, 3)
	assert.Equal(t, []string{"w", "y", "x"}, doc.Boxes[0].Ports)
	require.NotNil(t, doc.Generators)
	assert.Equal(t, 2, doc.Generators.Size)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := schema.Parse([]byte("junctions: [a, b\nboxes"))
	assert.Error(t, err)
}

func TestDocument_Diagram(t *testing.T) {
	doc, err := schema.Parse([]byte(triangleYAML))
	require.NoError(t, err)

	d, err := doc.Diagram()
	require.NoError(t, err)

	assert.Equal(t, 5, d.NumJunctions())
	assert.Equal(t, 3, d.NumBoxes())
	assert.Equal(t, "R2", d.BoxName(1))
	// Port order preserves document order: R1 ports [w, y, x] -> [0, 2, 1].
	assert.Equal(t, []domain.JunctionID{0, 2, 1}, d.BoxPorts(0))
	assert.Equal(t, []domain.JunctionID{0, 2}, d.OuterPorts())
}

func TestDocument_GeneratorVector(t *testing.T) {
	doc, err := schema.Parse([]byte(triangleYAML))
	require.NoError(t, err)

	gens := doc.GeneratorVector()
	require.Len(t, gens, 3)
	assert.Equal(t, [][]int{{0, 1, 0}}, gens[1])

	plain := &schema.Document{Junctions: []string{"a"}}
	assert.Nil(t, plain.GeneratorVector())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagram.yaml")
	require.NoError(t, os.WriteFile(path, []byte(triangleYAML), 0o644))

	doc, err := schema.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "triangle", doc.Name)

	_, err = schema.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{
			"Empty Junction Name",
			"junctions: [a, '']\nboxes: []",
			"junctions[1]",
		},
		{
			"Duplicate Junction",
			"junctions: [a, a]\nboxes: []",
			"junctions[1]",
		},
		{
			"Unknown Port",
			"junctions: [a]\nboxes:\n  - ports: [b]",
			"boxes[0].ports[0]",
		},
		{
			"Unknown Outer",
			"junctions: [a]\nboxes: []\nouter: [b]",
			"outer[0]",
		},
		{
			"Duplicate Box Name",
			"junctions: [a]\nboxes:\n  - name: f\n    ports: [a]\n  - name: f\n    ports: [a]",
			"boxes[1].name",
		},
		{
			"Bad Domain Size",
			"junctions: [a]\nboxes: []\ngenerators:\n  size: 0\n  relations: {}",
			"generators.size",
		},
		{
			"Relation For Unknown Box",
			"junctions: [a]\nboxes: []\ngenerators:\n  size: 2\n  relations:\n    ghost: [[0]]",
			"generators.relations[ghost]",
		},
		{
			"Tuple Arity",
			"junctions: [a]\nboxes:\n  - name: f\n    ports: [a]\ngenerators:\n  size: 2\n  relations:\n    f: [[0, 1]]",
			"generators.relations[f][0]",
		},
		{
			"Tuple Out Of Domain",
			"junctions: [a]\nboxes:\n  - name: f\n    ports: [a]\ngenerators:\n  size: 2\n  relations:\n    f: [[5]]",
			"generators.relations[f][0]",
		},
		{
			"Missing Relation",
			"junctions: [a]\nboxes:\n  - name: f\n    ports: [a]\ngenerators:\n  size: 2\n  relations: {}",
			"generators.relations",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Parse([]byte(tt.yaml))
			require.Error(t, err)

			found := false
			for _, e := range schema.ValidationErrors(err) {
				if ve, ok := e.(*schema.ValidationError); ok && ve.Field == tt.field {
					found = true
				}
			}
			assert.True(t, found, "no validation error for field %q in: %v", tt.field, err)
		})
	}
}

func TestValidate_AggregatesAllFailures(t *testing.T) {
	_, err := schema.Parse([]byte("junctions: [a, a]\nboxes:\n  - ports: [nope]\nouter: [also-nope]"))
	require.Error(t, err)
	assert.Len(t, schema.ValidationErrors(err), 3)
}

func TestNested_RoundTrip(t *testing.T) {
	d := domain.NewDiagram(4)
	_, err := d.AddNamedBox("A", 0, 1)
	require.NoError(t, err)
	_, err = d.AddNamedBox("B", 1, 2)
	require.NoError(t, err)
	_, err = d.AddNamedBox("C", 2, 3)
	require.NoError(t, err)
	require.NoError(t, d.SetOuterPorts(3))

	s, err := domain.NewScheduled(d,
		[]domain.CompositeID{1, 1},
		[]domain.CompositeID{0, 0, 1},
	)
	require.NoError(t, err)
	n, err := domain.NewNested(s, [][]domain.JunctionID{{2}, {3}})
	require.NoError(t, err)

	payload, err := schema.EncodeNested(n)
	require.NoError(t, err)

	got, err := schema.DecodeNested(payload)
	require.NoError(t, err)

	assert.Equal(t, n.NumJunctions(), got.NumJunctions())
	assert.Equal(t, n.NumComposites(), got.NumComposites())
	assert.Equal(t, "B", got.BoxName(1))
	assert.Equal(t, n.BoxPorts(0), got.BoxPorts(0))
	assert.Equal(t, n.OuterPorts(), got.OuterPorts())
	for c := 0; c < n.NumComposites(); c++ {
		id := domain.CompositeID(c)
		assert.Equal(t, n.Parent(id), got.Parent(id))
		assert.Equal(t, n.CompositePorts(id), got.CompositePorts(id))
	}
	for b := 0; b < n.NumBoxes(); b++ {
		assert.Equal(t, n.BoxParent(domain.BoxID(b)), got.BoxParent(domain.BoxID(b)))
	}
}

func TestDecodeNested_Invalid(t *testing.T) {
	t.Run("Garbage", func(t *testing.T) {
		_, err := schema.DecodeNested([]byte("not json"))
		assert.Error(t, err)
	})

	t.Run("Cyclic Parents", func(t *testing.T) {
		_, err := schema.DecodeNested([]byte(
			`{"junctions":1,"box_ports":[[0]],"outer":[],"parent":[1,0],"box_parent":[0],"composite_ports":[[],[]]}`))
		assert.ErrorIs(t, err, domain.ErrNotForest)
	})

	t.Run("Port Out Of Range", func(t *testing.T) {
		_, err := schema.DecodeNested([]byte(
			`{"junctions":1,"box_ports":[[7]],"outer":[],"parent":[0],"box_parent":[0],"composite_ports":[[]]}`))
		assert.ErrorIs(t, err, domain.ErrJunctionRange)
	})
}

func TestFingerprint(t *testing.T) {
	build := func() *domain.Diagram {
		d := domain.NewDiagram(2)
		_, err := d.AddNamedBox("A", 0, 1)
		require.NoError(t, err)
		require.NoError(t, d.SetOuterPorts(0))
		return d
	}

	a, b := build(), build()
	assert.Equal(t, schema.Fingerprint(a), schema.Fingerprint(b))
	assert.NotEqual(t, schema.Fingerprint(a), schema.Fingerprint(a, "sequential"))
	assert.NotEqual(t, schema.Fingerprint(a, "sequential"), schema.Fingerprint(a, "tree-decomposition"))

	other := domain.NewDiagram(2)
	_, err := other.AddNamedBox("A", 1, 0)
	require.NoError(t, err)
	require.NoError(t, other.SetOuterPorts(0))
	assert.NotEqual(t, schema.Fingerprint(a), schema.Fingerprint(other))
}
