package lexer

import (
	"fmt"

	"github.com/tsgo/boo/ast"
)

// Position identifies a location within a source file.
type Position struct {
	Line   int // line number (1-based)
	Column int // column number (1-based)
	Offset int // byte offset (0-based)
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Kind identifies the category of a Token.
type Kind int

const (
	EOF Kind = iota
	Identifier
	Number
	String
	Boolean
	Operator
	Keyword
	Type
	Period
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Arrow
	Comma
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Identifier:
		return "Identifier"
	case Number:
		return "Number"
	case String:
		return "String"
	case Boolean:
		return "Boolean"
	case Operator:
		return "Operator"
	case Keyword:
		return "Keyword"
	case Type:
		return "Type"
	case Period:
		return "Period"
	case LeftParen:
		return "LeftParen"
	case RightParen:
		return "RightParen"
	case LeftBrace:
		return "LeftBrace"
	case RightBrace:
		return "RightBrace"
	case Arrow:
		return "Arrow"
	case Comma:
		return "Comma"
	default:
		return "Unknown"
	}
}

// Token is an immutable, value-typed lexeme produced by the Lexer.
//
// Only the fields relevant to Kind are populated; the rest hold the zero
// value. Equality between two tokens is structural (comparable with ==
// whenever Op/Kw/PrimType are comparable, which they are).
type Token struct {
	Kind Kind
	Pos  Position

	Text string // Identifier, String
	Num  float64
	Bool bool
	Op   ast.Operator
	Kw   ast.Keyword
	Type ast.PrimType
}

func (t Token) String() string {
	switch t.Kind {
	case Identifier:
		return fmt.Sprintf("Identifier(%s)", t.Text)
	case Number:
		return fmt.Sprintf("Number(%g)", t.Num)
	case String:
		return fmt.Sprintf("String(%q)", t.Text)
	case Boolean:
		return fmt.Sprintf("Boolean(%t)", t.Bool)
	case Operator:
		return fmt.Sprintf("Operator(%s)", t.Op)
	case Keyword:
		return fmt.Sprintf("Keyword(%s)", t.Kw)
	case Type:
		return fmt.Sprintf("Type(%s)", t.Type)
	default:
		return t.Kind.String()
	}
}

var keywords = map[string]ast.Keyword{
	"fun":    ast.KwFun,
	"return": ast.KwReturn,
	"if":     ast.KwIf,
	"else":   ast.KwElse,
}

var types = map[string]ast.PrimType{
	"str":  ast.Str,
	"num":  ast.Num,
	"bool": ast.Bool,
}

var booleans = map[string]bool{
	"true":  true,
	"false": false,
}
