package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsgo/boo/ast"
	"github.com/tsgo/boo/lexer"
	"github.com/tsgo/boo/parser"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	tokens, err := lexer.New(src).Tokenize()
	require.NoError(t, err)
	prog, err := parser.Parse(tokens)
	require.NoError(t, err)
	return prog
}

func TestParseVariableDeclaration(t *testing.T) {
	prog := parse(t, "num x = 2 + 3")
	require.Len(t, prog.Statements, 1)

	decl, ok := prog.Statements[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	require.Equal(t, ast.Num, decl.VarType)
	require.Equal(t, "x", decl.Name)

	bin, ok := decl.Value.(*ast.BinaryOperation)
	require.True(t, ok)
	require.Equal(t, ast.Add, bin.Op)
}

func TestParseFunctionDeclarationWithOptionalParameter(t *testing.T) {
	prog := parse(t, "fun f(num a, num b*) -> num { return a }")
	require.Len(t, prog.Statements, 1)

	fn, ok := prog.Statements[0].(*ast.FunctionDeclaration)
	require.True(t, ok)
	require.Equal(t, "f", fn.Name)
	require.Len(t, fn.Parameters, 2)
	require.False(t, fn.Parameters[0].Optional)
	require.True(t, fn.Parameters[1].Optional)
	require.NotNil(t, fn.ReturnType)
	require.Equal(t, ast.Num, *fn.ReturnType)
}

func TestParseIfElseStatement(t *testing.T) {
	prog := parse(t, `
if (1 > 2) {
	num a = 1
} else {
	num a = 2
}
`)
	require.Len(t, prog.Statements, 1)

	ifStmt, ok := prog.Statements[0].(*ast.IfStatement)
	require.True(t, ok)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)
}

func TestParseFunctionCallAndMethodCallChaining(t *testing.T) {
	prog := parse(t, `s.len().to_string()`)
	require.Len(t, prog.Statements, 1)

	stmt, ok := prog.Statements[0].(*ast.ExprStatement)
	require.True(t, ok)

	outer, ok := stmt.Expr.(*ast.MethodCall)
	require.True(t, ok)
	require.Equal(t, "to_string", outer.Method)

	inner, ok := outer.Object.(*ast.MethodCall)
	require.True(t, ok)
	require.Equal(t, "len", inner.Method)
}

func TestParseBareExpressionStatement(t *testing.T) {
	prog := parse(t, "fib(10)")
	require.Len(t, prog.Statements, 1)

	stmt, ok := prog.Statements[0].(*ast.ExprStatement)
	require.True(t, ok)

	call, ok := stmt.Expr.(*ast.FunctionCall)
	require.True(t, ok)
	require.Equal(t, "fib", call.Name)
	require.Len(t, call.Arguments, 1)
}

func TestParseErrorOnDanglingOperator(t *testing.T) {
	tokens, err := lexer.New("1 +").Tokenize()
	require.NoError(t, err)

	_, err = parser.Parse(tokens)
	require.Error(t, err)

	var parseErr *parser.Error
	require.ErrorAs(t, err, &parseErr)
}

func TestParseErrorOnMissingClosingBrace(t *testing.T) {
	tokens, err := lexer.New("fun f() { return 1").Tokenize()
	require.NoError(t, err)

	_, err = parser.Parse(tokens)
	require.Error(t, err)
}
