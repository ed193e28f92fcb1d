package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// GenerateMermaid renders a nested schedule as a Mermaid flowchart.
// It applies semantic styling:
// - Box: [Rectangle], labeled with its name (or id) and junction pattern
// - Composite: [[Subroutine]], labeled with its outgoing junctions
// - Solid arrows follow the contraction order toward the root
// - Dotted arrows attach outer ports to the root
func GenerateMermaid(n *domain.Nested) string {
	var sb strings.Builder
	sb.WriteString("graph BT\n")

	for b := 0; b < n.NumBoxes(); b++ {
		id := domain.BoxID(b)
		label := n.BoxName(id)
		if label == "" {
			label = fmt.Sprintf("box %d", b)
		}
		sb.WriteString(fmt.Sprintf("    b%d[\"%s %s\"]\n", b, escapeMermaid(label), junctionList(n.BoxPorts(id))))
	}

	for c := 0; c < n.NumComposites(); c++ {
		id := domain.CompositeID(c)
		sb.WriteString(fmt.Sprintf("    c%d[[\"step %d %s\"]]\n", c, c, junctionList(n.CompositePorts(id))))
	}

	for b := 0; b < n.NumBoxes(); b++ {
		sb.WriteString(fmt.Sprintf("    b%d --> c%d\n", b, n.BoxParent(domain.BoxID(b))))
	}
	for c := 0; c < n.NumComposites(); c++ {
		id := domain.CompositeID(c)
		if !n.IsRoot(id) {
			sb.WriteString(fmt.Sprintf("    c%d --> c%d\n", c, n.Parent(id)))
		}
	}

	if root, err := n.Root(); err == nil && len(n.OuterPorts()) > 0 {
		sb.WriteString(fmt.Sprintf("    outer((\"outer %s\")) -.-> c%d\n", junctionList(n.OuterPorts()), root))
	}

	sb.WriteString("\n    classDef step fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	for c := 0; c < n.NumComposites(); c++ {
		sb.WriteString(fmt.Sprintf("    class c%d step;\n", c))
	}

	return sb.String()
}

// junctionList renders a junction pattern as "(1, 4)".
func junctionList(js []domain.JunctionID) string {
	parts := make([]string, len(js))
	for i, j := range js {
		parts[i] = fmt.Sprintf("%d", j)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func escapeMermaid(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
