package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsgo/boo/internal/pipeline"
)

var lexCmd = &cobra.Command{
	Use:   "lex [file.boo]",
	Short: "Tokenize a boo program and print the resulting tokens",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func runLex(cmd *cobra.Command, args []string) error {
	source, label, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(source, pipeline.Options{StopAfter: pipeline.StageLex})
	if err != nil {
		printStageError(label, err)
		os.Exit(1)
	}

	for i, tok := range result.Tokens {
		fmt.Printf("%4d: %-24s @%s\n", i, tok.String(), tok.Pos)
	}
	return nil
}
