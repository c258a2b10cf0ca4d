// Package compiler lowers a type-checked AST to a flat instruction vector.
// It maintains the growing instruction vector, a map from label name to
// resolved index, and an ordered list of (instruction index, label name)
// fixups for unresolved jumps, resolving every fixup after the whole
// program has been emitted.
package compiler

import (
	"fmt"

	"github.com/tsgo/boo/ast"
	"github.com/tsgo/boo/bytecode"
)

// Error is returned by Compile when the AST violates a compiler-level
// invariant (e.g. assigning into a non-lvalue).
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

type jumpFixup struct {
	index int
	label string
}

// Compiler lowers a single ast.Program into a bytecode.Instruction vector.
type Compiler struct {
	instructions []bytecode.Instruction
	labels       map[string]int
	fixups       []jumpFixup
	labelCounter int
}

// New creates a Compiler ready to lower a program.
func New() *Compiler {
	return &Compiler{labels: make(map[string]int)}
}

// Compile lowers prog to a resolved instruction vector, or returns the
// first compile error encountered.
func Compile(prog *ast.Program) ([]bytecode.Instruction, error) {
	return New().Compile(prog)
}

// Compile lowers prog using c, appending a trailing End instruction and
// resolving every jump fixup. An unresolved label after emission is a
// compiler-internal invariant violation, not a user-facing error.
func (c *Compiler) Compile(prog *ast.Program) ([]bytecode.Instruction, error) {
	if err := c.compileStatementsKeepingLastValue(prog.Statements); err != nil {
		return nil, err
	}

	c.emit(bytecode.Instruction{Op: bytecode.End})

	c.resolveFixups()

	return c.instructions, nil
}

// compileStatementsKeepingLastValue compiles every statement in order, but
// leaves the final expression statement's value on the operand stack
// instead of discarding it with the usual trailing Pop — this is what lets
// a bare trailing expression (a function call, an identifier, …) become
// the program's or function body's observable result.
func (c *Compiler) compileStatementsKeepingLastValue(stmts []ast.Statement) error {
	for i, stmt := range stmts {
		if i == len(stmts)-1 {
			if exprStmt, ok := stmt.(*ast.ExprStatement); ok {
				return c.compileNode(exprStmt.Expr)
			}
		}
		if err := c.compileNode(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) emit(ix bytecode.Instruction) int {
	c.instructions = append(c.instructions, ix)
	return len(c.instructions) - 1
}

func (c *Compiler) generateLabel(prefix string) string {
	label := fmt.Sprintf("%s_%d", prefix, c.labelCounter)
	c.labelCounter++
	return label
}

func (c *Compiler) createLabel(name string) {
	c.labels[name] = len(c.instructions)
}

// addJump emits a jump-family instruction with a placeholder offset and
// records a fixup to patch it once name's target index is known.
func (c *Compiler) addJump(ix bytecode.Instruction, label string) {
	idx := c.emit(ix)
	c.fixups = append(c.fixups, jumpFixup{index: idx, label: label})
}

func (c *Compiler) resolveFixups() {
	for _, fx := range c.fixups {
		target, ok := c.labels[fx.label]
		if !ok {
			panic(fmt.Sprintf("unresolved label: %s", fx.label))
		}
		c.instructions[fx.index].Offset = target
	}
}

// isAlwaysReturning reports whether node is a ReturnStatement, or an
// IfStatement whose then-body always returns AND whose else-body is
// present and always returns.
func isAlwaysReturning(node ast.Statement) bool {
	switch n := node.(type) {
	case *ast.ReturnStatement:
		return true
	case *ast.IfStatement:
		thenReturns := len(n.Then) > 0 && isAlwaysReturning(n.Then[len(n.Then)-1])
		if n.Else == nil {
			return false
		}
		elseReturns := len(n.Else) > 0 && isAlwaysReturning(n.Else[len(n.Else)-1])
		return thenReturns && elseReturns
	default:
		return false
	}
}

func (c *Compiler) compileNode(node ast.Node) error {
	switch n := node.(type) {
	case *ast.ExprStatement:
		if err := c.compileNode(n.Expr); err != nil {
			return err
		}
		c.emit(bytecode.Instruction{Op: bytecode.Pop})
		return nil

	case *ast.UnaryOperation:
		if err := c.compileNode(n.Operand); err != nil {
			return err
		}
		switch n.Op {
		case ast.UnaryMinus:
			c.emit(bytecode.Instruction{Op: bytecode.Negate})
		case ast.LogicalNot:
			c.emit(bytecode.Instruction{Op: bytecode.LogicalNot})
		default:
			return newError("unsupported unary operator: %s", n.Op)
		}
		return nil

	case *ast.ReturnStatement:
		if err := c.compileNode(n.Expr); err != nil {
			return err
		}
		c.emit(bytecode.Instruction{Op: bytecode.Return})
		return nil

	case *ast.BinaryOperation:
		return c.compileBinaryOperation(n)

	case *ast.FunctionDeclaration:
		return c.compileFunctionDeclaration(n)

	case *ast.FunctionCall:
		for _, arg := range n.Arguments {
			if err := c.compileNode(arg); err != nil {
				return err
			}
		}
		c.emit(bytecode.Instruction{Op: bytecode.Call, Str: n.Name, ArgCount: len(n.Arguments)})
		return nil

	case *ast.MethodCall:
		if err := c.compileNode(n.Object); err != nil {
			return err
		}
		for _, arg := range n.Arguments {
			if err := c.compileNode(arg); err != nil {
				return err
			}
		}
		c.emit(bytecode.Instruction{Op: bytecode.CallMethod, Str: n.Method, ArgCount: len(n.Arguments)})
		return nil

	case *ast.IfStatement:
		return c.compileIfStatement(n)

	case *ast.VariableDeclaration:
		c.emit(bytecode.Instruction{Op: bytecode.DeclareVariable, Str: n.Name, Type: n.VarType})
		if err := c.compileNode(n.Value); err != nil {
			return err
		}
		c.emit(bytecode.Instruction{Op: bytecode.StoreVariable, Str: n.Name})
		// StoreVariable re-pushes the stored value so assignment can be used
		// as an expression; a declaration statement has no one to consume
		// it, so drop it here rather than letting it accumulate.
		c.emit(bytecode.Instruction{Op: bytecode.Pop})
		return nil

	case *ast.Identifier:
		c.emit(bytecode.Instruction{Op: bytecode.LoadVariable, Str: n.Name})
		return nil

	case *ast.NumberLiteral:
		c.emit(bytecode.Instruction{Op: bytecode.PushNumber, Num: n.Value})
		return nil

	case *ast.StringLiteral:
		c.emit(bytecode.Instruction{Op: bytecode.PushString, Str: n.Value})
		return nil

	case *ast.BooleanLiteral:
		c.emit(bytecode.Instruction{Op: bytecode.PushBoolean, Bool: n.Value})
		return nil

	default:
		return newError("unexpected node type, expected statement: %T", node)
	}
}

var arithmeticOpcodes = map[ast.Operator]bytecode.Op{
	ast.Add: bytecode.Add, ast.Sub: bytecode.Subtract, ast.Mul: bytecode.Multiply,
	ast.Div: bytecode.Divide, ast.Pow: bytecode.Power, ast.Mod: bytecode.Modulo,
}

var simpleOpcodes = map[ast.Operator]bytecode.Op{
	ast.Add: bytecode.Add, ast.Sub: bytecode.Subtract, ast.Mul: bytecode.Multiply,
	ast.Div: bytecode.Divide, ast.Pow: bytecode.Power, ast.Mod: bytecode.Modulo,
	ast.Equals: bytecode.Equals, ast.NotEquals: bytecode.NotEquals,
	ast.GreaterThan: bytecode.GreaterThan, ast.LessThan: bytecode.LessThan,
	ast.GreaterThanOrEqual: bytecode.GreaterThanOrEqual, ast.LessThanOrEqual: bytecode.LessThanOrEqual,
	ast.Concat: bytecode.Concat,
}

func (c *Compiler) compileBinaryOperation(n *ast.BinaryOperation) error {
	switch n.Op {
	case ast.AssignEquals:
		ident, ok := n.Left.(*ast.Identifier)
		if !ok {
			return newError("left side of assignment must be an identifier")
		}
		if err := c.compileNode(n.Right); err != nil {
			return err
		}
		c.emit(bytecode.Instruction{Op: bytecode.StoreVariable, Str: ident.Name})
		c.emit(bytecode.Instruction{Op: bytecode.LoadVariable, Str: ident.Name})
		return nil

	case ast.AddAssign, ast.SubAssign, ast.MulAssign, ast.DivAssign, ast.PowAssign, ast.ModAssign:
		ident, ok := n.Left.(*ast.Identifier)
		if !ok {
			return newError("left side of assignment must be an identifier")
		}
		c.emit(bytecode.Instruction{Op: bytecode.LoadVariable, Str: ident.Name})
		if err := c.compileNode(n.Right); err != nil {
			return err
		}
		c.emit(bytecode.Instruction{Op: arithmeticOpcodes[n.Op.CompoundArithmeticOp()]})
		c.emit(bytecode.Instruction{Op: bytecode.StoreVariable, Str: ident.Name})
		c.emit(bytecode.Instruction{Op: bytecode.LoadVariable, Str: ident.Name})
		return nil

	case ast.LogicalAnd:
		if err := c.compileNode(n.Left); err != nil {
			return err
		}
		skip := c.generateLabel("and_skip")
		end := c.generateLabel("and_end")
		c.addJump(bytecode.Instruction{Op: bytecode.JumpIfFalse}, skip)
		if err := c.compileNode(n.Right); err != nil {
			return err
		}
		c.addJump(bytecode.Instruction{Op: bytecode.Jump}, end)
		c.createLabel(skip)
		c.emit(bytecode.Instruction{Op: bytecode.PushBoolean, Bool: false})
		c.createLabel(end)
		return nil

	case ast.LogicalOr:
		if err := c.compileNode(n.Left); err != nil {
			return err
		}
		skip := c.generateLabel("or_skip")
		end := c.generateLabel("or_end")
		c.addJump(bytecode.Instruction{Op: bytecode.JumpIfTrue}, skip)
		if err := c.compileNode(n.Right); err != nil {
			return err
		}
		c.addJump(bytecode.Instruction{Op: bytecode.Jump}, end)
		c.createLabel(skip)
		c.emit(bytecode.Instruction{Op: bytecode.PushBoolean, Bool: true})
		c.createLabel(end)
		return nil

	default:
		op, ok := simpleOpcodes[n.Op]
		if !ok {
			return newError("unexpected binary operator: %s", n.Op)
		}
		if err := c.compileNode(n.Left); err != nil {
			return err
		}
		if err := c.compileNode(n.Right); err != nil {
			return err
		}
		c.emit(bytecode.Instruction{Op: op})
		return nil
	}
}

func (c *Compiler) compileFunctionDeclaration(n *ast.FunctionDeclaration) error {
	functionLabel := "function_" + n.Name
	endLabel := functionLabel + "_end"

	c.emit(bytecode.Instruction{
		Op: bytecode.DeclareFunction, Str: n.Name,
		Parameters: n.Parameters, ReturnType: n.ReturnType,
	})

	// jump over the body during normal (non-call) execution; the VM's
	// body-address computation trusts this Jump being emitted right here.
	c.addJump(bytecode.Instruction{Op: bytecode.Jump}, endLabel)

	c.createLabel(functionLabel)
	c.emit(bytecode.Instruction{Op: bytecode.EnterScope})

	hasExplicitReturn := len(n.Body) > 0 && isAlwaysReturning(n.Body[len(n.Body)-1])

	implicitReturnEmitted := false
	for i, stmt := range n.Body {
		if !hasExplicitReturn && i == len(n.Body)-1 {
			// no explicit return anywhere on this path: the last body
			// statement's value (if it produces one) becomes the return
			// value, the same way the type checker compares that
			// statement's type against the declared return type.
			if exprStmt, ok := stmt.(*ast.ExprStatement); ok {
				if err := c.compileNode(exprStmt.Expr); err != nil {
					return err
				}
				c.emit(bytecode.Instruction{Op: bytecode.Return})
				implicitReturnEmitted = true
				continue
			}
		}
		if err := c.compileNode(stmt); err != nil {
			return err
		}
	}

	if !hasExplicitReturn && !implicitReturnEmitted {
		c.emit(bytecode.Instruction{Op: bytecode.PushVoid})
		c.emit(bytecode.Instruction{Op: bytecode.Return})
	}

	c.emit(bytecode.Instruction{Op: bytecode.ExitScope})
	c.createLabel(endLabel)

	return nil
}

func (c *Compiler) compileIfStatement(n *ast.IfStatement) error {
	elseLabel := c.generateLabel("else")
	endLabel := c.generateLabel("endif")

	if err := c.compileNode(n.Condition); err != nil {
		return err
	}
	c.addJump(bytecode.Instruction{Op: bytecode.JumpIfFalse}, elseLabel)

	c.emit(bytecode.Instruction{Op: bytecode.EnterScope})
	for _, stmt := range n.Then {
		if err := c.compileNode(stmt); err != nil {
			return err
		}
	}
	c.emit(bytecode.Instruction{Op: bytecode.ExitScope})
	c.addJump(bytecode.Instruction{Op: bytecode.Jump}, endLabel)

	c.createLabel(elseLabel)
	if n.Else != nil {
		c.emit(bytecode.Instruction{Op: bytecode.EnterScope})
		for _, stmt := range n.Else {
			if err := c.compileNode(stmt); err != nil {
				return err
			}
		}
		c.emit(bytecode.Instruction{Op: bytecode.ExitScope})
	}

	c.createLabel(endLabel)
	return nil
}
