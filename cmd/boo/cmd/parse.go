package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsgo/boo/ast"
	"github.com/tsgo/boo/internal/pipeline"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file.boo]",
	Short: "Parse a boo program and print the resulting AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	source, label, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(source, pipeline.Options{StopAfter: pipeline.StageParse})
	if err != nil {
		printStageError(label, err)
		os.Exit(1)
	}

	fmt.Print(ast.Dump(result.Program))
	return nil
}
