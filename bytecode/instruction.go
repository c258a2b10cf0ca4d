// Package bytecode defines the flat, linearly-indexed instruction format
// shared by the compiler (which produces it) and the VM (which executes
// it), mirroring the separate "instructions" package skx-math-compiler
// uses to decouple its compiler and its stack machine.
package bytecode

import (
	"fmt"

	"github.com/tsgo/boo/ast"
)

// Op identifies the operation an Instruction performs.
type Op int

const (
	// stack
	PushNumber Op = iota
	PushString
	PushBoolean
	PushVoid
	Pop
	Negate
	LogicalNot

	// variables
	LoadVariable
	StoreVariable
	DeclareVariable

	// arithmetic
	Add
	Subtract
	Multiply
	Divide
	Power
	Modulo

	// string
	Concat

	// comparison
	Equals
	NotEquals
	GreaterThan
	LessThan
	GreaterThanOrEqual
	LessThanOrEqual

	// control flow; Offset is an absolute instruction index
	Jump
	JumpIfFalse
	JumpIfTrue

	// functions
	DeclareFunction
	Call
	CallMethod
	Return

	// environment
	EnterScope
	ExitScope
	End
)

var opNames = map[Op]string{
	PushNumber: "PushNumber", PushString: "PushString", PushBoolean: "PushBoolean",
	PushVoid: "PushVoid", Pop: "Pop", Negate: "Negate", LogicalNot: "LogicalNot",
	LoadVariable: "LoadVariable", StoreVariable: "StoreVariable", DeclareVariable: "DeclareVariable",
	Add: "Add", Subtract: "Subtract", Multiply: "Multiply", Divide: "Divide", Power: "Power", Modulo: "Modulo",
	Concat: "Concat",
	Equals: "Equals", NotEquals: "NotEquals", GreaterThan: "GreaterThan", LessThan: "LessThan",
	GreaterThanOrEqual: "GreaterThanOrEqual", LessThanOrEqual: "LessThanOrEqual",
	Jump: "Jump", JumpIfFalse: "JumpIfFalse", JumpIfTrue: "JumpIfTrue",
	DeclareFunction: "DeclareFunction", Call: "Call", CallMethod: "CallMethod", Return: "Return",
	EnterScope: "EnterScope", ExitScope: "ExitScope", End: "End",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "Unknown"
}

// Instruction is a single tagged-variant bytecode instruction. Only the
// fields relevant to Op are populated.
type Instruction struct {
	Op Op

	Num  float64      // PushNumber
	Str  string       // PushString; LoadVariable/StoreVariable/DeclareVariable name; Call/CallMethod name
	Bool bool         // PushBoolean
	Type ast.PrimType // DeclareVariable

	Offset int // Jump/JumpIfFalse/JumpIfTrue: absolute target index

	ArgCount int // Call/CallMethod

	Parameters []ast.Parameter // DeclareFunction
	ReturnType *ast.PrimType   // DeclareFunction
}

func (ix Instruction) String() string {
	switch ix.Op {
	case PushNumber:
		return fmt.Sprintf("PushNumber(%g)", ix.Num)
	case PushString:
		return fmt.Sprintf("PushString(%q)", ix.Str)
	case PushBoolean:
		return fmt.Sprintf("PushBoolean(%t)", ix.Bool)
	case LoadVariable, StoreVariable:
		return fmt.Sprintf("%s(%s)", ix.Op, ix.Str)
	case DeclareVariable:
		return fmt.Sprintf("DeclareVariable(%s, %s)", ix.Str, ix.Type)
	case Jump, JumpIfFalse, JumpIfTrue:
		return fmt.Sprintf("%s(%d)", ix.Op, ix.Offset)
	case Call, CallMethod:
		return fmt.Sprintf("%s(%s, %d)", ix.Op, ix.Str, ix.ArgCount)
	case DeclareFunction:
		return fmt.Sprintf("DeclareFunction(%s, %d params)", ix.Str, len(ix.Parameters))
	default:
		return ix.Op.String()
	}
}
