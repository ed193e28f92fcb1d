package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <diagram.yaml>",
	Short: "Export the schedule visualization",
	Long:  `Schedules the diagram and outputs a Mermaid flowchart (graph BT) of boxes feeding into combination steps.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, n, err := scheduleFromFlags(cmd, args[0])
		if err != nil {
			fmt.Printf("Error scheduling diagram: %v\n", err)
			os.Exit(1)
		}

		// Generate and print Mermaid graph
		fmt.Print(graph.GenerateMermaid(n))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	addScheduleFlags(graphCmd)
}
