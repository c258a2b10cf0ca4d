package vm

import "github.com/tsgo/boo/ast"

// Function records a user-declared function's call shape and entry point,
// as recorded by the DeclareFunction instruction.
type Function struct {
	Parameters []ast.Parameter
	ReturnType *ast.PrimType
	Address    int // pc of the first instruction inside the body
}

// CallFrame is pushed on the call stack at each user-function entry,
// recording the return program-counter and the scope-stack height to
// restore on return.
type CallFrame struct {
	ReturnAddress int
	ScopeIndex    int
}

// NativeFn is the shape of every host callable registered into the VM's
// native-function or method registries.
type NativeFn func(vm *VM, args []Value) (Value, error)
