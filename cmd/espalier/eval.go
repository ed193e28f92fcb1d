package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	espalier "github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/algebra/relation"
)

var evalCmd = &cobra.Command{
	Use:   "eval <diagram.yaml>",
	Short: "Evaluate a diagram's generator relations",
	Long: `Reads a YAML diagram document with a generators section, schedules it,
and evaluates the generators bottom-up. The resulting relation on the outer
interface is printed one tuple per line.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runEval(cmd, args[0]); err != nil {
			fmt.Printf("Evaluation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	addScheduleFlags(evalCmd)
	evalCmd.Flags().Bool("json", false, "Emit the result relation as JSON")
}

func runEval(cmd *cobra.Command, path string) error {
	doc, n, err := scheduleFromFlags(cmd, path)
	if err != nil {
		return err
	}
	if doc.Generators == nil {
		return fmt.Errorf("document has no generators section")
	}

	alg := relation.Algebra{Size: doc.Generators.Size}
	generators := make([]relation.Relation, 0, len(doc.Boxes))
	for i, tuples := range doc.GeneratorVector() {
		rel, err := relation.New(len(doc.Boxes[i].Ports), tuples...)
		if err != nil {
			return err
		}
		generators = append(generators, rel)
	}

	result, err := espalier.Eval(alg.Combine, n, generators)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		out := struct {
			Arity  int     `json:"arity"`
			Tuples [][]int `json:"tuples"`
		}{Arity: result.Arity(), Tuples: result.Tuples()}
		payload, err := json.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Println(string(payload))
		return nil
	}

	for _, tuple := range result.Tuples() {
		fmt.Println(tuple)
	}
	return nil
}
