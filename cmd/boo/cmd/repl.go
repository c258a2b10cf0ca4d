package cmd

import (
	"errors"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/tsgo/boo/internal/pipeline"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

var (
	replPrompt = "boo> "
	replBanner = strings.Join([]string{
		"boo — type a statement and press enter",
		"type '.exit' to quit",
	}, "\n")
)

func runRepl(cmd *cobra.Command, args []string) error {
	out := colorable.NewColorableStdout()
	color.New(color.FgCyan).Fprintln(out, replBanner)

	rl, err := readline.New(replPrompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	// Re-running the whole accepted transcript on every line keeps the
	// REPL's state in the same place a file run keeps it (the pipeline has
	// no notion of incremental compilation), at the cost of redoing work
	// proportional to session length rather than line length.
	var history []string

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				color.New(color.FgCyan).Fprintln(out, "bye")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" {
			color.New(color.FgCyan).Fprintln(out, "bye")
			return nil
		}

		rl.SaveHistory(line)

		source := strings.Join(append(append([]string{}, history...), line), "\n")
		result, err := pipeline.Run(source, pipeline.Options{})
		if err != nil {
			printStageError("<repl>", err)
			continue
		}

		history = append(history, line)
		color.New(color.FgYellow).Fprintln(out, result.Value.String())
	}
}
