package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tsgo/boo/internal/pipeline"
)

var checkCmd = &cobra.Command{
	Use:   "check [file.boo]",
	Short: "Run the lexer, parser, and type checker without executing",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	source, label, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	_, err = pipeline.Run(source, pipeline.Options{StopAfter: pipeline.StageCheck})
	if err != nil {
		printStageError(label, err)
		os.Exit(1)
	}

	color.New(color.FgGreen).Printf("check passed: %s\n", label)
	return nil
}
