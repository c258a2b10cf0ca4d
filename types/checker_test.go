package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsgo/boo/ast"
	"github.com/tsgo/boo/lexer"
	"github.com/tsgo/boo/parser"
	"github.com/tsgo/boo/types"
)

func check(t *testing.T, src string) error {
	t.Helper()
	tokens, err := lexer.New(src).Tokenize()
	require.NoError(t, err)
	prog, err := parser.Parse(tokens)
	require.NoError(t, err)
	return types.New().CheckProgram(prog)
}

func TestArithmeticRequiresNumOperands(t *testing.T) {
	require.NoError(t, check(t, "num x = 1 + 2"))
	require.Error(t, check(t, `num x = 1 + "a"`))
}

func TestCompoundAssignmentTypesAsBool(t *testing.T) {
	err := check(t, `
num n = 1
bool b = (n += 1)
`)
	require.NoError(t, err)
}

func TestConcatRejectsVoidOperand(t *testing.T) {
	err := check(t, `
fun f() { num n = 1 }
str s = "x" .. f()
`)
	require.Error(t, err)
}

func TestIfConditionMustBeBool(t *testing.T) {
	err := check(t, `if (1) { num a = 1 }`)
	require.Error(t, err)
}

func TestVariableScopedToItsBlock(t *testing.T) {
	err := check(t, `
if (true) {
	num a = 1
} else {
	num a = 2
}
a
`)
	require.Error(t, err)

	var typeErr *types.Error
	require.ErrorAs(t, err, &typeErr)
}

func TestRedeclarationInSameScopeIsAnError(t *testing.T) {
	err := check(t, `
num a = 1
num a = 2
`)
	require.Error(t, err)
}

func TestFunctionCallArgumentCountAndTypesAreValidated(t *testing.T) {
	require.NoError(t, check(t, `
fun f(num a, num b*) -> num { return a }
f(1)
`))
	require.Error(t, check(t, `
fun f(num a, num b*) -> num { return a }
f()
`))
	require.Error(t, check(t, `
fun f(num a) -> num { return a }
f("x")
`))
}

func TestFunctionReturnTypeMustMatchLastStatement(t *testing.T) {
	require.NoError(t, check(t, `fun f() -> num { 42 }`))
	require.Error(t, check(t, `fun f() -> num { "x" }`))
}

func TestOptionalParameterUsageGuardIsGlobalNotScopeLocal(t *testing.T) {
	err := check(t, `
fun f(num a, num b*) -> num { return a }
num x = 1 + b
`)
	require.Error(t, err)
}

func TestMethodCallOnUnknownMethodIsAnError(t *testing.T) {
	err := check(t, `"x".nope()`)
	require.Error(t, err)
}

func TestNativeFunctionAndMethodTypesRoundTrip(t *testing.T) {
	checker := types.New()
	checker.RegisterNativeFunctionType("print", ast.Void)
	checker.RegisterStringMethodType("len", ast.Num)

	tokens, err := lexer.New(`print("x".len())`).Tokenize()
	require.NoError(t, err)
	prog, err := parser.Parse(tokens)
	require.NoError(t, err)

	require.NoError(t, checker.CheckProgram(prog))
}
