package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate <diagram.yaml>",
	Short: "Check a diagram document for consistency",
	Long:  `Parses the document and reports every dangling junction reference, duplicate name, and malformed generator tuple at once.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args[0]); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Diagram is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(path string) error {
	_, err := schema.Load(path)
	return err
}
