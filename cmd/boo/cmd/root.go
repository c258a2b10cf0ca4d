package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var evalExpr string

var rootCmd = &cobra.Command{
	Use:   "boo",
	Short: "boo language compiler and VM",
	Long: `boo is a small statically-typed scripting language: a lexer, a
recursive-descent parser, a type checker, a label/fixup bytecode compiler,
and a stack-based VM, chained end to end.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print per-stage timings")
	rootCmd.PersistentFlags().StringVarP(&evalExpr, "eval", "e", "", "run inline source instead of reading from a file")

	color.NoColor = env.Bool("NO_COLOR", false) || !isatty.IsTerminal(os.Stdout.Fd())
}

// readSource resolves input either from the --eval flag or from the single
// positional file argument, matching every subcommand's Args: MaximumNArgs(1).
func readSource(evalExpr string, args []string) (source, label string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e/--eval for inline source")
}
