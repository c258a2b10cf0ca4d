package parser

import (
	"github.com/tsgo/boo/ast"
	"github.com/tsgo/boo/lexer"
)

// Operator precedence, lowest to highest (spec.md §4.2). Level 0
// (assignment) and level 6 (power) are right-associative; everything else
// is left-associative.
var assignmentOps = map[ast.Operator]bool{
	ast.AssignEquals: true,
	ast.AddAssign:    true,
	ast.SubAssign:    true,
	ast.MulAssign:    true,
	ast.DivAssign:    true,
	ast.PowAssign:    true,
	ast.ModAssign:    true,
}

var comparisonOps = map[ast.Operator]bool{
	ast.Equals:             true,
	ast.NotEquals:          true,
	ast.GreaterThan:        true,
	ast.LessThan:           true,
	ast.GreaterThanOrEqual: true,
	ast.LessThanOrEqual:    true,
}

var additiveOps = map[ast.Operator]bool{
	ast.Add:    true,
	ast.Sub:    true,
	ast.Concat: true,
}

var multiplicativeOps = map[ast.Operator]bool{
	ast.Mul: true,
	ast.Div: true,
	ast.Mod: true,
}

// parseAssignment is level 0: right-associative, lowest precedence.
func (p *Parser) parseAssignment() (ast.Expression, error) {
	left, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}

	tok, ok := p.peek()
	if !ok || tok.Kind != lexer.Operator || !assignmentOps[tok.Op] {
		return left, nil
	}
	p.next()

	right, err := p.parseAssignment() // right-associative
	if err != nil {
		return nil, err
	}

	return &ast.BinaryOperation{Left: left, Op: tok.Op, Right: right}, nil
}

// parseLogicalOr is level 1: `||`, left-associative.
func (p *Parser) parseLogicalOr() (ast.Expression, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}

	for p.peekIsOp(ast.LogicalOr) {
		p.next()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOperation{Left: left, Op: ast.LogicalOr, Right: right}
	}

	return left, nil
}

// parseLogicalAnd is level 2: `&&`, left-associative.
func (p *Parser) parseLogicalAnd() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	for p.peekIsOp(ast.LogicalAnd) {
		p.next()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOperation{Left: left, Op: ast.LogicalAnd, Right: right}
	}

	return left, nil
}

// parseComparison is level 3: equality/relational, left-associative.
func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.peek()
		if !ok || tok.Kind != lexer.Operator || !comparisonOps[tok.Op] {
			break
		}
		p.next()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOperation{Left: left, Op: tok.Op, Right: right}
	}

	return left, nil
}

// parseAdditive is level 4: `+ - ..`, left-associative.
func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.peek()
		if !ok || tok.Kind != lexer.Operator || !additiveOps[tok.Op] {
			break
		}
		p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOperation{Left: left, Op: tok.Op, Right: right}
	}

	return left, nil
}

// parseMultiplicative is level 5: `* / %`, left-associative.
func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.peek()
		if !ok || tok.Kind != lexer.Operator || !multiplicativeOps[tok.Op] {
			break
		}
		p.next()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOperation{Left: left, Op: tok.Op, Right: right}
	}

	return left, nil
}

// parsePower is level 6: `**`, right-associative.
func (p *Parser) parsePower() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	if p.peekIsOp(ast.Pow) {
		p.next()
		right, err := p.parsePower() // right-associative
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOperation{Left: left, Op: ast.Pow, Right: right}, nil
	}

	return left, nil
}

// parseUnary is level 7: prefix `-` and `!`.
func (p *Parser) parseUnary() (ast.Expression, error) {
	tok, ok := p.peek()
	if ok && tok.Kind == lexer.Operator && (tok.Op == ast.Sub || tok.Op == ast.LogicalNot) {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		op := tok.Op
		if op == ast.Sub {
			op = ast.UnaryMinus
		}
		return &ast.UnaryOperation{Op: op, Operand: operand}, nil
	}

	return p.parsePostfix()
}

// parsePostfix handles method-call chaining: x.a().b() parses as a
// MethodCall on the result of another MethodCall.
func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.peekIsKind(lexer.Period) {
		p.next()
		methodTok, err := p.expectKind(lexer.Identifier, "method name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKind(lexer.LeftParen, "'(' after method name"); err != nil {
			return nil, err
		}
		args, err := p.parseArgumentList()
		if err != nil {
			return nil, err
		}
		expr = &ast.MethodCall{Object: expr, Method: methodTok.Text, Arguments: args}
	}

	return expr, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok, ok := p.next()
	if !ok {
		return nil, p.errUnexpectedEOF()
	}

	switch tok.Kind {
	case lexer.LeftParen:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKind(lexer.RightParen, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.Identifier:
		if p.peekIsKind(lexer.LeftParen) {
			p.next()
			args, err := p.parseArgumentList()
			if err != nil {
				return nil, err
			}
			return &ast.FunctionCall{Name: tok.Text, Arguments: args}, nil
		}
		return &ast.Identifier{Name: tok.Text}, nil
	case lexer.Number:
		return &ast.NumberLiteral{Value: tok.Num}, nil
	case lexer.String:
		return &ast.StringLiteral{Value: tok.Text}, nil
	case lexer.Boolean:
		return &ast.BooleanLiteral{Value: tok.Bool}, nil
	default:
		return nil, newError(tok.Pos, "unexpected token: %s", tok)
	}
}
