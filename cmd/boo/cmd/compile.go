package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsgo/boo/internal/pipeline"
)

var compileCmd = &cobra.Command{
	Use:   "compile [file.boo]",
	Short: "Compile a boo program and print the resolved instruction vector",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	source, label, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(source, pipeline.Options{StopAfter: pipeline.StageCompile})
	if err != nil {
		printStageError(label, err)
		os.Exit(1)
	}

	for i, ix := range result.Bytecode {
		fmt.Printf("%4d: %s\n", i, ix)
	}
	return nil
}
