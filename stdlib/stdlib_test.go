package stdlib_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsgo/boo/ast"
	"github.com/tsgo/boo/bytecode"
	"github.com/tsgo/boo/stdlib"
	"github.com/tsgo/boo/types"
	"github.com/tsgo/boo/vm"
)

func run(t *testing.T, instructions []bytecode.Instruction) vm.Value {
	t.Helper()
	machine := vm.New(instructions)
	stdlib.Register(machine)
	result, err := machine.Run()
	require.NoError(t, err)
	return result
}

func TestStringLenMethod(t *testing.T) {
	result := run(t, []bytecode.Instruction{
		{Op: bytecode.PushString, Str: "hello"},
		{Op: bytecode.CallMethod, Str: "len", ArgCount: 0},
		{Op: bytecode.End},
	})
	require.Equal(t, vm.Number(5), result)
}

func TestNumberToStringMethod(t *testing.T) {
	result := run(t, []bytecode.Instruction{
		{Op: bytecode.PushNumber, Num: 42},
		{Op: bytecode.CallMethod, Str: "to_string", ArgCount: 0},
		{Op: bytecode.End},
	})
	require.Equal(t, vm.String("42"), result)
}

func TestBooleanToStringMethod(t *testing.T) {
	result := run(t, []bytecode.Instruction{
		{Op: bytecode.PushBoolean, Bool: true},
		{Op: bytecode.CallMethod, Str: "to_string", ArgCount: 0},
		{Op: bytecode.End},
	})
	require.Equal(t, vm.String("true"), result)
}

func TestPrintNativeFunctionReturnsVoid(t *testing.T) {
	result := run(t, []bytecode.Instruction{
		{Op: bytecode.PushString, Str: "hi"},
		{Op: bytecode.Call, Str: "print", ArgCount: 1},
		{Op: bytecode.End},
	})
	require.Equal(t, vm.VoidValue, result)
}

func TestRegisterTypesMatchesRuntimeReturnKinds(t *testing.T) {
	checker := types.New()
	stdlib.RegisterTypes(checker)

	require.NoError(t, checker.CheckProgram(&ast.Program{}))

	// The runtime results above are Number for len() and String for every
	// to_string(); declarations of exactly those types must type-check.
	require.NoError(t, checker.CheckProgram(&ast.Program{Statements: []ast.Statement{
		&ast.VariableDeclaration{VarType: ast.Num, Name: "n",
			Value: &ast.MethodCall{Object: &ast.StringLiteral{Value: "hello"}, Method: "len"}},
		&ast.VariableDeclaration{VarType: ast.Str, Name: "a",
			Value: &ast.MethodCall{Object: &ast.NumberLiteral{Value: 42}, Method: "to_string"}},
		&ast.VariableDeclaration{VarType: ast.Str, Name: "b",
			Value: &ast.MethodCall{Object: &ast.BooleanLiteral{Value: true}, Method: "to_string"}},
		&ast.VariableDeclaration{VarType: ast.Str, Name: "c",
			Value: &ast.MethodCall{Object: &ast.StringLiteral{Value: "x"}, Method: "to_string"}},
	}}))
}
