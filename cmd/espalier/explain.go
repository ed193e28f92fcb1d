package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	espalier "github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/presentation/graph"
	"github.com/aretw0/espalier/internal/presentation/tui"
	"github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/pkg/domain"
)

var explainCmd = &cobra.Command{
	Use:   "explain <diagram.yaml>",
	Short: "Show how a diagram will be contracted",
	Long: `Schedules the diagram and renders a step-by-step report: which boxes each
combination step consumes, the junctions it touches, and where the width
peaks. Rendered with styling when stdout is a terminal.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runExplain(cmd, args[0]); err != nil {
			fmt.Printf("Explain failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
	addScheduleFlags(explainCmd)
}

func runExplain(cmd *cobra.Command, path string) error {
	doc, n, err := scheduleFromFlags(cmd, path)
	if err != nil {
		return err
	}

	var md strings.Builder
	name := doc.Name
	if name == "" {
		name = path
	}
	fmt.Fprintf(&md, "# %s\n\n", name)
	fmt.Fprintf(&md, "%d boxes, %d junctions, %d combination steps, width %d.\n\n",
		n.NumBoxes(), n.NumJunctions(), n.NumComposites(), espalier.Width(n))

	md.WriteString("| step | boxes | children | ports | width |\n")
	md.WriteString("|------|-------|----------|-------|-------|\n")
	for c := 0; c < n.NumComposites(); c++ {
		id := domain.CompositeID(c)
		fmt.Fprintf(&md, "| %d | %s | %s | %v | %d |\n",
			c,
			boxLabels(n, n.BoxChildren(id)),
			compositeLabels(n.Children(id)),
			n.CompositePorts(id),
			runtime.StepWidth(n, id),
		)
	}

	md.WriteString("\n```mermaid\n")
	md.WriteString(graph.GenerateMermaid(n))
	md.WriteString("```\n")

	if term.IsTerminal(int(os.Stdout.Fd())) {
		tui.PrintBanner()
		render := tui.NewRenderer()
		out, err := render(md.String())
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}

	fmt.Print(md.String())
	return nil
}

func boxLabels(n *domain.Nested, boxes []domain.BoxID) string {
	if len(boxes) == 0 {
		return "-"
	}
	parts := make([]string, len(boxes))
	for i, b := range boxes {
		if name := n.BoxName(b); name != "" {
			parts[i] = name
		} else {
			parts[i] = fmt.Sprintf("box %d", b)
		}
	}
	return strings.Join(parts, ", ")
}

func compositeLabels(cs []domain.CompositeID) string {
	if len(cs) == 0 {
		return "-"
	}
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = fmt.Sprintf("step %d", c)
	}
	return strings.Join(parts, ", ")
}
