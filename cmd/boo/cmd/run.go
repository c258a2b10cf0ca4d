package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"

	"github.com/tsgo/boo/internal/pipeline"
)

var traceFlag bool

var runCmd = &cobra.Command{
	Use:   "run [file.boo]",
	Short: "Run a boo program end to end",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&traceFlag, "trace", env.Bool("BOO_TRACE", false), "print per-stage timings (same as --verbose)")
}

func runRun(cmd *cobra.Command, args []string) error {
	source, label, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	verbose = verbose || traceFlag

	result, err := pipeline.Run(source, pipeline.Options{})
	if verbose {
		printTimings(os.Stderr, result)
	}
	if err != nil {
		printStageError(label, err)
		os.Exit(1)
	}

	fmt.Println(result.Value.String())
	return nil
}

func printTimings(w *os.File, result *pipeline.Result) {
	if result == nil {
		return
	}
	for _, t := range result.Timings {
		color.New(color.FgCyan).Fprintf(w, "%-8s %s\n", t.Stage, t.Duration)
	}
}

func printStageError(label string, err error) {
	var stageErr *pipeline.Error
	if errors.As(err, &stageErr) {
		color.New(color.FgRed).Fprintf(os.Stderr, "%s: %s error: %s\n", label, stageErr.Stage, stageErr.Err)
		return
	}
	color.New(color.FgRed).Fprintf(os.Stderr, "%s: %s\n", label, err)
}
