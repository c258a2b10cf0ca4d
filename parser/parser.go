// Package parser implements a recursive-descent parser with explicit
// operator-precedence climbing, producing a typed AST with optional
// parameter markers.
package parser

import (
	"fmt"

	"github.com/tsgo/boo/ast"
	"github.com/tsgo/boo/lexer"
)

// Error is returned by Parse on the first syntax error encountered.
type Error struct {
	Message string
	Pos     lexer.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Message)
}

func newError(pos lexer.Position, format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Pos: pos}
}

// Parser consumes a peekable token stream and produces an ast.Program.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New creates a Parser over tokens (as produced by lexer.Lexer.Tokenize).
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse tokenizes nothing further and parses tokens into a Program; it is
// the single entry point for this package.
func Parse(tokens []lexer.Token) (*ast.Program, error) {
	return New(tokens).ParseProgram()
}

func (p *Parser) peek() (lexer.Token, bool) {
	if p.pos >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *Parser) next() (lexer.Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

func (p *Parser) lastPos() lexer.Position {
	if p.pos > 0 && p.pos-1 < len(p.tokens) {
		return p.tokens[p.pos-1].Pos
	}
	return lexer.Position{Line: 1, Column: 1}
}

func (p *Parser) errUnexpectedEOF() error {
	return newError(p.lastPos(), "unexpected end of input")
}

// expectKind consumes the next token if it has the given kind, else
// reports an expected-vs-found error.
func (p *Parser) expectKind(kind lexer.Kind, what string) (lexer.Token, error) {
	tok, ok := p.next()
	if !ok {
		return lexer.Token{}, p.errUnexpectedEOF()
	}
	if tok.Kind != kind {
		return lexer.Token{}, newError(tok.Pos, "expected %s, found %s", what, tok)
	}
	return tok, nil
}

func (p *Parser) peekIsKind(kind lexer.Kind) bool {
	tok, ok := p.peek()
	return ok && tok.Kind == kind
}

func (p *Parser) peekIsOp(op ast.Operator) bool {
	tok, ok := p.peek()
	return ok && tok.Kind == lexer.Operator && tok.Op == op
}

func (p *Parser) peekIsKeyword(kw ast.Keyword) bool {
	tok, ok := p.peek()
	return ok && tok.Kind == lexer.Keyword && tok.Kw == kw
}

// ParseProgram parses the full token stream into a Program, one statement
// at a time until input is exhausted.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}

	for {
		if _, ok := p.peek(); !ok {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}

	return prog, nil
}

// parseStatement dispatches on the next token's leading keyword/type to
// choose among func_decl | if_stmt | var_decl | return_stmt | expr_stmt.
func (p *Parser) parseStatement() (ast.Statement, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, p.errUnexpectedEOF()
	}

	switch {
	case tok.Kind == lexer.Keyword && tok.Kw == ast.KwFun:
		p.next()
		return p.parseFunctionDeclaration()
	case tok.Kind == lexer.Keyword && tok.Kw == ast.KwIf:
		p.next()
		return p.parseIfStatement()
	case tok.Kind == lexer.Keyword && tok.Kw == ast.KwReturn:
		p.next()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStatement{Expr: expr}, nil
	case tok.Kind == lexer.Type:
		p.next()
		return p.parseVariableDeclaration(tok.Type)
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.ExprStatement{Expr: expr}, nil
	}
}

func (p *Parser) parseStatementList() ([]ast.Statement, error) {
	var stmts []ast.Statement
	for !p.peekIsKind(lexer.RightBrace) {
		if _, ok := p.peek(); !ok {
			return nil, p.errUnexpectedEOF()
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) parseBlock() ([]ast.Statement, error) {
	if _, err := p.expectKind(lexer.LeftBrace, "'{'"); err != nil {
		return nil, err
	}
	stmts, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKind(lexer.RightBrace, "'}'"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) parseVariableDeclaration(varType ast.PrimType) (ast.Statement, error) {
	nameTok, err := p.expectKind(lexer.Identifier, "identifier")
	if err != nil {
		return nil, err
	}

	tok, ok := p.next()
	if !ok {
		return nil, p.errUnexpectedEOF()
	}
	if tok.Kind != lexer.Operator || tok.Op != ast.AssignEquals {
		return nil, newError(tok.Pos, "expected '=', found %s", tok)
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &ast.VariableDeclaration{VarType: varType, Name: nameTok.Text, Value: value}, nil
}

func (p *Parser) parseIfStatement() (ast.Statement, error) {
	if _, err := p.expectKind(lexer.LeftParen, "'(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKind(lexer.RightParen, "')'"); err != nil {
		return nil, err
	}

	thenBody, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseBody []ast.Statement
	if p.peekIsKeyword(ast.KwElse) {
		p.next()
		elseBody, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return &ast.IfStatement{Condition: cond, Then: thenBody, Else: elseBody}, nil
}

func (p *Parser) parseFunctionDeclaration() (ast.Statement, error) {
	nameTok, err := p.expectKind(lexer.Identifier, "function name")
	if err != nil {
		return nil, err
	}

	if _, err := p.expectKind(lexer.LeftParen, "'('"); err != nil {
		return nil, err
	}
	params, err := p.parseParameterList()
	if err != nil {
		return nil, err
	}

	var returnType *ast.PrimType
	if p.peekIsKind(lexer.Arrow) {
		p.next()
		tok, err := p.expectKind(lexer.Type, "return type")
		if err != nil {
			return nil, err
		}
		rt := tok.Type
		returnType = &rt
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDeclaration{
		Name:       nameTok.Text,
		Parameters: params,
		ReturnType: returnType,
		Body:       body,
	}, nil
}

func (p *Parser) parseParameter() (ast.Parameter, error) {
	typeTok, err := p.expectKind(lexer.Type, "type")
	if err != nil {
		return ast.Parameter{}, err
	}
	nameTok, err := p.expectKind(lexer.Identifier, "identifier")
	if err != nil {
		return ast.Parameter{}, err
	}

	optional := false
	if p.peekIsOp(ast.Mul) {
		p.next()
		optional = true
	}

	return ast.Parameter{Name: nameTok.Text, Type: typeTok.Type, Optional: optional}, nil
}

func (p *Parser) parseParameterList() ([]ast.Parameter, error) {
	var params []ast.Parameter

	if p.peekIsKind(lexer.RightParen) {
		p.next()
		return params, nil
	}

	param, err := p.parseParameter()
	if err != nil {
		return nil, err
	}
	params = append(params, param)

	for p.peekIsKind(lexer.Comma) {
		p.next()
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}

	if _, err := p.expectKind(lexer.RightParen, "')'"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseArgumentList() ([]ast.Expression, error) {
	var args []ast.Expression

	if p.peekIsKind(lexer.RightParen) {
		p.next()
		return args, nil
	}

	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	args = append(args, arg)

	for p.peekIsKind(lexer.Comma) {
		p.next()
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	if _, err := p.expectKind(lexer.RightParen, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseAssignment()
}
