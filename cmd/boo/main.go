// Command boo runs the lexer/parser/type-checker/compiler/VM pipeline over
// .boo source files from the command line.
package main

import (
	"os"

	"github.com/tsgo/boo/cmd/boo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
