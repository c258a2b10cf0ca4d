package ast_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsgo/boo/ast"
)

func TestPrimTypeStringNamesTheFourKinds(t *testing.T) {
	require.Equal(t, "num", ast.Num.String())
	require.Equal(t, "str", ast.Str.String())
	require.Equal(t, "bool", ast.Bool.String())
	require.Equal(t, "void", ast.Void.String())
	require.Equal(t, "unknown", ast.PrimType(99).String())
}

func TestOperatorStringCoversArithmeticAssignmentAndLogical(t *testing.T) {
	require.Equal(t, "+", ast.Add.String())
	require.Equal(t, "+=", ast.AddAssign.String())
	require.Equal(t, "&&", ast.LogicalAnd.String())
	require.Equal(t, "..", ast.Concat.String())
	require.Equal(t, "?", ast.Operator(-1).String())
}

func TestOperatorIsAssignmentDistinguishesCompoundFromPlain(t *testing.T) {
	require.True(t, ast.AssignEquals.IsAssignment())
	require.True(t, ast.AddAssign.IsAssignment())
	require.False(t, ast.Add.IsAssignment())
	require.False(t, ast.Equals.IsAssignment())
}

func TestBinaryOperationStringNestsOperandStrings(t *testing.T) {
	expr := &ast.BinaryOperation{
		Left:  &ast.NumberLiteral{Value: 1},
		Op:    ast.Add,
		Right: &ast.NumberLiteral{Value: 2},
	}
	require.Equal(t, "(1 + 2)", expr.String())
}

func TestDumpRendersNestedIfElseWithIndentedBranches(t *testing.T) {
	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.IfStatement{
				Condition: &ast.BooleanLiteral{Value: true},
				Then: []ast.Statement{
					&ast.VariableDeclaration{VarType: ast.Num, Name: "a", Value: &ast.NumberLiteral{Value: 1}},
				},
				Else: []ast.Statement{
					&ast.VariableDeclaration{VarType: ast.Num, Name: "a", Value: &ast.NumberLiteral{Value: 2}},
				},
			},
		},
	}

	out := ast.Dump(prog)
	require.Contains(t, out, "Program")
	require.Contains(t, out, "IfStatement condition=true")
	require.Contains(t, out, "then:")
	require.Contains(t, out, "else:")
	require.Contains(t, out, "VariableDeclaration num a = 1")
	require.Contains(t, out, "VariableDeclaration num a = 2")
}

func TestDumpRendersFunctionDeclarationWithParametersAndBody(t *testing.T) {
	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.FunctionDeclaration{
				Name: "add",
				Parameters: []ast.Parameter{
					{Name: "a", Type: ast.Num},
					{Name: "b", Type: ast.Num, Optional: true},
				},
				Body: []ast.Statement{
					&ast.ReturnStatement{Expr: &ast.Identifier{Name: "a"}},
				},
			},
		},
	}

	out := ast.Dump(prog)
	require.Contains(t, out, "FunctionDeclaration add(num a, num b*) -> void")
	require.Contains(t, out, "ReturnStatement: a")
}
