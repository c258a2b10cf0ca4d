// Package pipeline wires the four compilation stages (lexer, parser, type
// checker, bytecode compiler) and the VM into the single synchronous
// sequence the core prescribes: each stage halts the pipeline at its
// first error, and no stage is retried or re-entered.
package pipeline

import (
	"fmt"
	"time"

	"github.com/tsgo/boo/ast"
	"github.com/tsgo/boo/bytecode"
	"github.com/tsgo/boo/compiler"
	"github.com/tsgo/boo/lexer"
	"github.com/tsgo/boo/parser"
	"github.com/tsgo/boo/stdlib"
	"github.com/tsgo/boo/types"
	"github.com/tsgo/boo/vm"
)

// Stage names a pipeline phase, used for both error tagging and
// --trace/timing reporting in the CLI.
type Stage string

const (
	StageLex     Stage = "lex"
	StageParse   Stage = "parse"
	StageCheck   Stage = "check"
	StageCompile Stage = "compile"
	StageExecute Stage = "execute"
)

// Error wraps a stage failure with the stage it occurred in; it renders as
// "<stage> error: ...", e.g. "lex error: ...".
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %s", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// StageTiming records how long a single stage took, reported when the
// caller asks for timings (mirrors the reference driver's single
// end-to-end timer, generalized to per-stage granularity).
type StageTiming struct {
	Stage    Stage
	Duration time.Duration
}

// Result carries every intermediate artifact produced along the way, so
// callers (CLI subcommands, tests) can dump tokens/AST/bytecode without
// re-running earlier stages.
type Result struct {
	Tokens   []lexer.Token
	Program  *ast.Program
	Bytecode []bytecode.Instruction
	Value    vm.Value
	Timings  []StageTiming
}

// Options controls how far the pipeline runs. The standard library is
// always registered into the checker and the VM.
type Options struct {
	// StopAfter halts the pipeline after the named stage (empty means
	// run to completion, executing the program).
	StopAfter Stage
}

// Run executes source through every stage up to and including Execute
// (unless Options.StopAfter says otherwise), returning every artifact
// produced along the way.
func Run(source string, opts Options) (*Result, error) {
	result := &Result{}

	tokens, dur, err := timed(func() ([]lexer.Token, error) {
		return lexer.New(source).Tokenize()
	})
	result.Timings = append(result.Timings, StageTiming{StageLex, dur})
	if err != nil {
		return result, &Error{StageLex, err}
	}
	result.Tokens = tokens
	if opts.StopAfter == StageLex {
		return result, nil
	}

	program, dur, err := timed(func() (*ast.Program, error) {
		return parser.Parse(tokens)
	})
	result.Timings = append(result.Timings, StageTiming{StageParse, dur})
	if err != nil {
		return result, &Error{StageParse, err}
	}
	result.Program = program
	if opts.StopAfter == StageParse {
		return result, nil
	}

	checker := types.New()
	stdlib.RegisterTypes(checker)
	_, dur, err = timed(func() (struct{}, error) {
		return struct{}{}, checker.CheckProgram(program)
	})
	result.Timings = append(result.Timings, StageTiming{StageCheck, dur})
	if err != nil {
		return result, &Error{StageCheck, err}
	}
	if opts.StopAfter == StageCheck {
		return result, nil
	}

	instructions, dur, err := timed(func() ([]bytecode.Instruction, error) {
		return compiler.Compile(program)
	})
	result.Timings = append(result.Timings, StageTiming{StageCompile, dur})
	if err != nil {
		return result, &Error{StageCompile, err}
	}
	result.Bytecode = instructions
	if opts.StopAfter == StageCompile {
		return result, nil
	}

	machine := vm.New(instructions)
	stdlib.Register(machine)
	value, dur, err := timed(func() (vm.Value, error) {
		return machine.Run()
	})
	result.Timings = append(result.Timings, StageTiming{StageExecute, dur})
	if err != nil {
		return result, &Error{StageExecute, err}
	}
	result.Value = value

	return result, nil
}

func timed[T any](fn func() (T, error)) (T, time.Duration, error) {
	start := time.Now()
	v, err := fn()
	return v, time.Since(start), err
}
