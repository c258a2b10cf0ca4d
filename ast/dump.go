package ast

import (
	"fmt"
	"strings"
)

// Dump renders prog as an indented tree, one node per line. It exists for
// the CLI's --dump-ast / `boo parse` output, not for round-tripping.
func Dump(prog *Program) string {
	var b strings.Builder
	b.WriteString("Program\n")
	dumpStatements(&b, prog.Statements, "  ")
	return b.String()
}

func dumpStatements(b *strings.Builder, stmts []Statement, indent string) {
	for _, s := range stmts {
		dumpNode(b, s, indent)
	}
}

func dumpNode(b *strings.Builder, n Node, indent string) {
	switch v := n.(type) {
	case *ExprStatement:
		fmt.Fprintf(b, "%sExprStatement: %s\n", indent, v.Expr.String())

	case *ReturnStatement:
		fmt.Fprintf(b, "%sReturnStatement: %s\n", indent, v.Expr.String())

	case *VariableDeclaration:
		fmt.Fprintf(b, "%sVariableDeclaration %s %s = %s\n", indent, v.VarType, v.Name, v.Value.String())

	case *FunctionDeclaration:
		ret := "void"
		if v.ReturnType != nil {
			ret = v.ReturnType.String()
		}
		fmt.Fprintf(b, "%sFunctionDeclaration %s(%s) -> %s\n", indent, v.Name, formatParameters(v.Parameters), ret)
		dumpStatements(b, v.Body, indent+"  ")

	case *IfStatement:
		fmt.Fprintf(b, "%sIfStatement condition=%s\n", indent, v.Condition.String())
		fmt.Fprintf(b, "%s  then:\n", indent)
		dumpStatements(b, v.Then, indent+"    ")
		if v.Else != nil {
			fmt.Fprintf(b, "%s  else:\n", indent)
			dumpStatements(b, v.Else, indent+"    ")
		}

	default:
		fmt.Fprintf(b, "%s%s\n", indent, n.String())
	}
}

func formatParameters(params []Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		suffix := ""
		if p.Optional {
			suffix = "*"
		}
		parts[i] = fmt.Sprintf("%s %s%s", p.Type, p.Name, suffix)
	}
	return strings.Join(parts, ", ")
}
