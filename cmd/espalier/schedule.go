package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	espalier "github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/schema"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <diagram.yaml>",
	Short: "Compute a contraction schedule for a diagram",
	Long: `Reads a YAML diagram document, computes a schedule with the selected
strategy, and prints a summary. Use --json to emit the nested schedule for
later evaluation.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSchedule(cmd, args[0]); err != nil {
			fmt.Printf("Scheduling failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	addScheduleFlags(scheduleCmd)
	scheduleCmd.Flags().Bool("json", false, "Emit the nested schedule as JSON")
}

func runSchedule(cmd *cobra.Command, path string) error {
	doc, n, err := scheduleFromFlags(cmd, path)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		payload, err := schema.EncodeNested(n)
		if err != nil {
			return err
		}
		fmt.Println(string(payload))
		return nil
	}

	name := doc.Name
	if name == "" {
		name = path
	}
	strategy, _ := cmd.Flags().GetString("strategy")
	fmt.Printf("%s: %d boxes, %d junctions\n", name, n.NumBoxes(), n.NumJunctions())
	fmt.Printf("strategy:   %s\n", strategy)
	fmt.Printf("composites: %d\n", n.NumComposites())
	fmt.Printf("width:      %d\n", espalier.Width(n))
	return nil
}
