// Package types implements the scoped pre-execution analyzer: it validates
// the AST produced by the parser in a single walk and reports type errors
// without transforming it. A function's signature is registered when its
// declaration is reached, so calls that precede the declaration are
// rejected as unknown functions.
package types

import (
	"fmt"

	"github.com/tsgo/boo/ast"
)

// Error is returned by CheckProgram on the first type error encountered.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// FunctionSignature records a user-declared function's shape for call-site
// validation.
type FunctionSignature struct {
	Parameters []ast.Parameter
	ReturnType *ast.PrimType
}

// Checker walks an ast.Program with a stack of name->type scopes and a
// global table of function signatures, mirroring the reference
// TypeChecker's `variables: Vec<HashMap<...>>` design.
type Checker struct {
	scopes    []map[string]ast.PrimType
	functions map[string]FunctionSignature

	nativeFns      map[string]ast.PrimType
	stringMethods  map[string]ast.PrimType
	numberMethods  map[string]ast.PrimType
	booleanMethods map[string]ast.PrimType
}

// New creates an empty Checker with no registered natives; use the
// Register* methods (typically via the stdlib package) before
// CheckProgram.
func New() *Checker {
	return &Checker{
		functions:      make(map[string]FunctionSignature),
		nativeFns:      make(map[string]ast.PrimType),
		stringMethods:  make(map[string]ast.PrimType),
		numberMethods:  make(map[string]ast.PrimType),
		booleanMethods: make(map[string]ast.PrimType),
	}
}

// RegisterNativeFunctionType records the return type of a native function
// for call-site validation; it must equal the type of any value the
// corresponding VM-registered callable returns.
func (c *Checker) RegisterNativeFunctionType(name string, ret ast.PrimType) {
	c.nativeFns[name] = ret
}

// RegisterStringMethodType records the return type of a string method.
func (c *Checker) RegisterStringMethodType(name string, ret ast.PrimType) {
	c.stringMethods[name] = ret
}

// RegisterNumberMethodType records the return type of a number method.
func (c *Checker) RegisterNumberMethodType(name string, ret ast.PrimType) {
	c.numberMethods[name] = ret
}

// RegisterBooleanMethodType records the return type of a boolean method.
func (c *Checker) RegisterBooleanMethodType(name string, ret ast.PrimType) {
	c.booleanMethods[name] = ret
}

func (c *Checker) enterScope() {
	if len(c.scopes) == 0 {
		c.scopes = append(c.scopes, map[string]ast.PrimType{})
	}
	c.scopes = append(c.scopes, map[string]ast.PrimType{})
}

func (c *Checker) exitScope() {
	if len(c.scopes) > 0 {
		c.scopes = c.scopes[:len(c.scopes)-1]
	}
}

func (c *Checker) currentScope() map[string]ast.PrimType {
	if len(c.scopes) == 0 {
		c.scopes = append(c.scopes, map[string]ast.PrimType{})
	}
	return c.scopes[len(c.scopes)-1]
}

// CheckProgram type-checks every top-level statement in order, stopping at
// the first error.
func (c *Checker) CheckProgram(prog *ast.Program) error {
	for _, stmt := range prog.Statements {
		if _, err := c.checkNode(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkNode(node ast.Node) (ast.PrimType, error) {
	switch n := node.(type) {
	case *ast.ExprStatement:
		return c.checkNode(n.Expr)
	case *ast.ReturnStatement:
		return c.checkNode(n.Expr)
	case *ast.BinaryOperation:
		return c.checkBinaryOperation(n)
	case *ast.UnaryOperation:
		return c.checkUnaryOperation(n)
	case *ast.FunctionDeclaration:
		return c.checkFunctionDeclaration(n)
	case *ast.FunctionCall:
		return c.checkFunctionCall(n)
	case *ast.MethodCall:
		return c.checkMethodCall(n)
	case *ast.IfStatement:
		return c.checkIfStatement(n)
	case *ast.VariableDeclaration:
		return c.checkVariableDeclaration(n)
	case *ast.Identifier:
		return c.checkIdentifier(n.Name)
	case *ast.NumberLiteral:
		return ast.Num, nil
	case *ast.StringLiteral:
		return ast.Str, nil
	case *ast.BooleanLiteral:
		return ast.Bool, nil
	default:
		return ast.Void, newError("unsupported node type %T", node)
	}
}

func (c *Checker) checkIfStatement(n *ast.IfStatement) (ast.PrimType, error) {
	condType, err := c.checkNode(n.Condition)
	if err != nil {
		return ast.Void, err
	}
	if condType != ast.Bool {
		return ast.Void, newError("type mismatch: expected 'bool' condition, found '%s'", condType)
	}

	// A branch's type is that of its last non-expression statement (an
	// expression statement's value is discarded at runtime). An if/else
	// whose two branches agree on that type has it, so a function body
	// ending in an if/else that returns on both paths checks against the
	// declared return type; any other if statement is void.
	thenType, elseType := ast.Void, ast.Void

	c.enterScope()
	for _, stmt := range n.Then {
		t, err := c.checkNode(stmt)
		if err != nil {
			c.exitScope()
			return ast.Void, err
		}
		if _, isExpr := stmt.(*ast.ExprStatement); !isExpr {
			thenType = t
		}
	}
	c.exitScope()

	c.enterScope()
	for _, stmt := range n.Else {
		t, err := c.checkNode(stmt)
		if err != nil {
			c.exitScope()
			return ast.Void, err
		}
		if _, isExpr := stmt.(*ast.ExprStatement); !isExpr {
			elseType = t
		}
	}
	c.exitScope()

	if n.Else != nil && thenType == elseType {
		return thenType, nil
	}
	return ast.Void, nil
}

// checkBinaryOperation applies the guard for optional-parameter usage to
// both operand positions before typing either side, then types the
// operation per the matrix in spec.md §4.3.
func (c *Checker) checkBinaryOperation(n *ast.BinaryOperation) (ast.PrimType, error) {
	if ident, ok := n.Left.(*ast.Identifier); ok {
		if err := c.verifyOptionalParameterUsage(ident.Name); err != nil {
			return ast.Void, err
		}
	}
	if ident, ok := n.Right.(*ast.Identifier); ok {
		if err := c.verifyOptionalParameterUsage(ident.Name); err != nil {
			return ast.Void, err
		}
	}

	leftType, err := c.checkNode(n.Left)
	if err != nil {
		return ast.Void, err
	}
	rightType, err := c.checkNode(n.Right)
	if err != nil {
		return ast.Void, err
	}

	op := n.Op
	switch {
	case op == ast.Add || op == ast.Sub || op == ast.Mul || op == ast.Div || op == ast.Pow || op == ast.Mod:
		if leftType != ast.Num {
			return ast.Void, newError("type mismatch: expected 'num', found '%s'", leftType)
		}
		if rightType != ast.Num {
			return ast.Void, newError("type mismatch: expected 'num', found '%s'", rightType)
		}
		return ast.Num, nil

	case op.IsCompoundAssignment():
		if leftType != ast.Num {
			return ast.Void, newError("type mismatch: expected 'num', found '%s'", leftType)
		}
		if rightType != ast.Num {
			return ast.Void, newError("type mismatch: expected 'num', found '%s'", rightType)
		}
		// Preserved verbatim from the reference implementation: compound
		// arithmetic assignment expressions type as 'bool'. See spec.md §9.
		return ast.Bool, nil

	case op == ast.Concat:
		if leftType == ast.Void || rightType == ast.Void {
			return ast.Void, newError("type mismatch: '..' operands must not be void")
		}
		return ast.Str, nil

	case op == ast.Equals || op == ast.NotEquals:
		if leftType != rightType {
			return ast.Void, newError("type mismatch: expected '%s', found '%s'", leftType, rightType)
		}
		return ast.Bool, nil

	case op == ast.GreaterThan || op == ast.LessThan || op == ast.GreaterThanOrEqual || op == ast.LessThanOrEqual:
		if leftType != ast.Num || rightType != ast.Num {
			return ast.Void, newError("type mismatch: expected 'num' and 'num', found '%s' and '%s'", leftType, rightType)
		}
		return ast.Bool, nil

	case op == ast.LogicalAnd || op == ast.LogicalOr:
		if leftType != ast.Bool {
			return ast.Void, newError("type mismatch: expected 'bool', found '%s'", leftType)
		}
		if rightType != ast.Bool {
			return ast.Void, newError("type mismatch: expected 'bool', found '%s'", rightType)
		}
		return ast.Bool, nil

	case op == ast.AssignEquals:
		if leftType != rightType {
			return ast.Void, newError("type mismatch: expected '%s', found '%s'", leftType, rightType)
		}
		return ast.Void, nil

	default:
		return ast.Void, newError("unsupported binary operator %s", op)
	}
}

func (c *Checker) checkUnaryOperation(n *ast.UnaryOperation) (ast.PrimType, error) {
	operandType, err := c.checkNode(n.Operand)
	if err != nil {
		return ast.Void, err
	}

	switch n.Op {
	case ast.UnaryMinus:
		if operandType != ast.Num {
			return ast.Void, newError("type mismatch: unary '-' expects 'num', found '%s'", operandType)
		}
		return ast.Num, nil
	case ast.LogicalNot:
		if operandType != ast.Bool {
			return ast.Void, newError("type mismatch: unary '!' expects 'bool', found '%s'", operandType)
		}
		return ast.Bool, nil
	default:
		return ast.Void, newError("unsupported unary operator %s", n.Op)
	}
}

// verifyOptionalParameterUsage is a global (not scope-local) prohibition:
// it fires for any function's optional parameter whose name matches the
// identifier in a binary operation, regardless of whether that function is
// currently in scope. Preserved verbatim from the reference implementation
// (see spec.md §9).
func (c *Checker) verifyOptionalParameterUsage(name string) error {
	for _, sig := range c.functions {
		for _, param := range sig.Parameters {
			if param.Name == name && param.Optional {
				return newError("operation uses optional parameter '%s' without null check", param.Name)
			}
		}
	}
	return nil
}

func (c *Checker) checkVariableDeclaration(n *ast.VariableDeclaration) (ast.PrimType, error) {
	valueType, err := c.checkNode(n.Value)
	if err != nil {
		return ast.Void, err
	}
	if valueType != n.VarType {
		return ast.Void, newError("type mismatch: expected '%s', found '%s'", n.VarType, valueType)
	}

	scope := c.currentScope()
	if _, exists := scope[n.Name]; exists {
		return ast.Void, newError("variable '%s' already declared in this scope", n.Name)
	}
	scope[n.Name] = n.VarType

	return ast.Void, nil
}

func (c *Checker) checkIdentifier(name string) (ast.PrimType, error) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if t, ok := c.scopes[i][name]; ok {
			return t, nil
		}
	}
	return ast.Void, newError("unknown identifier '%s'", name)
}

func (c *Checker) checkFunctionDeclaration(n *ast.FunctionDeclaration) (ast.PrimType, error) {
	c.functions[n.Name] = FunctionSignature{Parameters: n.Parameters, ReturnType: n.ReturnType}

	c.enterScope()
	for _, param := range n.Parameters {
		c.currentScope()[param.Name] = param.Type
	}

	lastType := ast.Void
	for _, stmt := range n.Body {
		t, err := c.checkNode(stmt)
		if err != nil {
			c.exitScope()
			return ast.Void, err
		}
		lastType = t
	}

	if n.ReturnType != nil && lastType != *n.ReturnType {
		c.exitScope()
		return ast.Void, newError("function '%s' return type mismatch, expected '%s', got '%s'", n.Name, *n.ReturnType, lastType)
	}

	c.exitScope()
	return ast.Void, nil
}

func (c *Checker) checkFunctionCall(n *ast.FunctionCall) (ast.PrimType, error) {
	if ret, ok := c.nativeFns[n.Name]; ok {
		for _, arg := range n.Arguments {
			argType, err := c.checkNode(arg)
			if err != nil {
				return ast.Void, err
			}
			if argType == ast.Void {
				return ast.Void, newError("void argument to native function '%s'", n.Name)
			}
		}
		return ret, nil
	}

	sig, ok := c.functions[n.Name]
	if !ok {
		return ast.Void, newError("unknown function '%s'", n.Name)
	}

	required := 0
	for _, p := range sig.Parameters {
		if !p.Optional {
			required++
		}
	}
	if len(n.Arguments) < required {
		return ast.Void, newError("function '%s' expects at least %d arguments, got %d", n.Name, required, len(n.Arguments))
	}

	for i, arg := range n.Arguments {
		argType, err := c.checkNode(arg)
		if err != nil {
			return ast.Void, err
		}
		paramType := sig.Parameters[i].Type
		if argType != paramType {
			return ast.Void, newError("argument '%s' of function '%s' has type mismatch: expected '%s', got '%s'",
				sig.Parameters[i].Name, n.Name, paramType, argType)
		}
	}

	if sig.ReturnType != nil {
		return *sig.ReturnType, nil
	}
	return ast.Void, nil
}

func (c *Checker) checkMethodCall(n *ast.MethodCall) (ast.PrimType, error) {
	receiverType, err := c.checkNode(n.Object)
	if err != nil {
		return ast.Void, err
	}

	var table map[string]ast.PrimType
	switch receiverType {
	case ast.Str:
		table = c.stringMethods
	case ast.Num:
		table = c.numberMethods
	case ast.Bool:
		table = c.booleanMethods
	default:
		return ast.Void, newError("type '%s' has no methods", receiverType)
	}

	ret, ok := table[n.Method]
	if !ok {
		return ast.Void, newError("unknown method '%s' for type '%s'", n.Method, receiverType)
	}

	for _, arg := range n.Arguments {
		argType, err := c.checkNode(arg)
		if err != nil {
			return ast.Void, err
		}
		if argType == ast.Void {
			return ast.Void, newError("void argument to method '%s'", n.Method)
		}
	}

	return ret, nil
}
