// Package vm implements the single-threaded stack machine that executes a
// resolved bytecode.Instruction vector: scope-stack–plus–call-stack
// interpretation, short-circuit jumps, method dispatch on primitives, and
// host-function integration via four extensible registries.
package vm

import (
	"github.com/tsgo/boo/bytecode"
)

// VM holds all state for one program execution. Multiple VM instances may
// run in parallel host goroutines with no interference, provided each has
// its own instruction vector and registries (spec.md §5).
type VM struct {
	instructions []bytecode.Instruction
	pc           int

	stack     []Value
	scopes    []map[string]Value
	callStack []CallFrame
	functions map[string]*Function

	nativeFunctions map[string]NativeFn
	stringMethods   map[string]NativeFn
	numberMethods   map[string]NativeFn
	booleanMethods  map[string]NativeFn
}

// New creates a VM over a resolved instruction vector, seeded with an
// empty global scope (index 0, never popped).
func New(instructions []bytecode.Instruction) *VM {
	return &VM{
		instructions:    instructions,
		scopes:          []map[string]Value{{}},
		functions:       make(map[string]*Function),
		nativeFunctions: make(map[string]NativeFn),
		stringMethods:   make(map[string]NativeFn),
		numberMethods:   make(map[string]NativeFn),
		booleanMethods:  make(map[string]NativeFn),
	}
}

// RegisterNativeFunction registers a top-level callable reachable via
// Call(name, ...).
func (vm *VM) RegisterNativeFunction(name string, fn NativeFn) {
	vm.nativeFunctions[name] = fn
}

// RegisterStringMethod registers a callable reachable via
// CallMethod(name, ...) on a string receiver.
func (vm *VM) RegisterStringMethod(name string, fn NativeFn) {
	vm.stringMethods[name] = fn
}

// RegisterNumberMethod registers a callable reachable via
// CallMethod(name, ...) on a number receiver.
func (vm *VM) RegisterNumberMethod(name string, fn NativeFn) {
	vm.numberMethods[name] = fn
}

// RegisterBooleanMethod registers a callable reachable via
// CallMethod(name, ...) on a boolean receiver.
func (vm *VM) RegisterBooleanMethod(name string, fn NativeFn) {
	vm.booleanMethods[name] = fn
}

func (vm *VM) push(v Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() (Value, error) {
	if len(vm.stack) == 0 {
		return Value{}, newRuntimeError(vm.pc, "stack underflow")
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v, nil
}

func (vm *VM) loadVariable(name string) (Value, error) {
	for i := len(vm.scopes) - 1; i >= 0; i-- {
		if v, ok := vm.scopes[i][name]; ok {
			return v, nil
		}
	}
	return Value{}, newRuntimeError(vm.pc, "variable '%s' not found", name)
}

func (vm *VM) storeVariable(name string, value Value) error {
	for i := len(vm.scopes) - 1; i >= 0; i-- {
		if _, ok := vm.scopes[i][name]; ok {
			vm.scopes[i][name] = value
			return nil
		}
	}
	return newRuntimeError(vm.pc, "assignment to undeclared variable '%s'", name)
}

func (vm *VM) currentScope() map[string]Value {
	return vm.scopes[len(vm.scopes)-1]
}

// Run executes the instruction vector from pc 0 until an End or unmatched
// Return instruction produces the program's result, or a runtime error
// occurs.
func (vm *VM) Run() (Value, error) {
	vm.pc = 0

	for vm.pc < len(vm.instructions) {
		ix := vm.instructions[vm.pc]

		jumped, result, done, err := vm.step(ix)
		if err != nil {
			return Value{}, err
		}
		if done {
			return result, nil
		}
		if !jumped {
			vm.pc++
		}
	}

	if len(vm.stack) > 0 {
		return vm.pop()
	}
	return VoidValue, nil
}

// step executes a single instruction. jumped reports whether pc was set
// directly by the handler (Jump family, Call, Return) and the main loop
// should not advance it; done reports whether execution has produced the
// program's final result.
func (vm *VM) step(ix bytecode.Instruction) (jumped bool, result Value, done bool, err error) {
	switch ix.Op {
	case bytecode.PushNumber:
		vm.push(Number(ix.Num))
	case bytecode.PushString:
		vm.push(String(ix.Str))
	case bytecode.PushBoolean:
		vm.push(Boolean(ix.Bool))
	case bytecode.PushVoid:
		vm.push(VoidValue)
	case bytecode.Pop:
		if _, err := vm.pop(); err != nil {
			return false, Value{}, false, err
		}

	case bytecode.Negate:
		v, err := vm.pop()
		if err != nil {
			return false, Value{}, false, err
		}
		if v.Kind != KindNumber {
			return false, Value{}, false, newRuntimeError(vm.pc, "cannot negate non-number value")
		}
		vm.push(Number(-v.Num))

	case bytecode.LogicalNot:
		v, err := vm.pop()
		if err != nil {
			return false, Value{}, false, err
		}
		if v.Kind != KindBoolean {
			return false, Value{}, false, newRuntimeError(vm.pc, "cannot negate non-boolean value")
		}
		vm.push(Boolean(!v.Bool))

	case bytecode.LoadVariable:
		v, err := vm.loadVariable(ix.Str)
		if err != nil {
			return false, Value{}, false, err
		}
		vm.push(v)

	case bytecode.StoreVariable:
		v, err := vm.pop()
		if err != nil {
			return false, Value{}, false, err
		}
		if err := vm.storeVariable(ix.Str, v); err != nil {
			return false, Value{}, false, err
		}
		vm.push(v)

	case bytecode.DeclareVariable:
		scope := vm.currentScope()
		if _, exists := scope[ix.Str]; exists {
			return false, Value{}, false, newRuntimeError(vm.pc, "variable '%s' already declared in this scope", ix.Str)
		}
		scope[ix.Str] = VoidValue

	case bytecode.Add, bytecode.Subtract, bytecode.Multiply, bytecode.Divide, bytecode.Power, bytecode.Modulo:
		if err := vm.execArithmetic(ix.Op); err != nil {
			return false, Value{}, false, err
		}

	case bytecode.Concat:
		if err := vm.execConcat(); err != nil {
			return false, Value{}, false, err
		}

	case bytecode.Equals, bytecode.NotEquals, bytecode.GreaterThan, bytecode.LessThan,
		bytecode.GreaterThanOrEqual, bytecode.LessThanOrEqual:
		if err := vm.execComparison(ix.Op); err != nil {
			return false, Value{}, false, err
		}

	case bytecode.Jump:
		vm.pc = ix.Offset
		return true, Value{}, false, nil

	case bytecode.JumpIfFalse:
		v, err := vm.pop()
		if err != nil {
			return false, Value{}, false, err
		}
		if v.Kind != KindBoolean {
			return false, Value{}, false, newRuntimeError(vm.pc, "non-boolean condition")
		}
		if !v.Bool {
			vm.pc = ix.Offset
			return true, Value{}, false, nil
		}

	case bytecode.JumpIfTrue:
		v, err := vm.pop()
		if err != nil {
			return false, Value{}, false, err
		}
		if v.Kind != KindBoolean {
			return false, Value{}, false, newRuntimeError(vm.pc, "non-boolean condition")
		}
		if v.Bool {
			vm.pc = ix.Offset
			return true, Value{}, false, nil
		}

	case bytecode.DeclareFunction:
		// The compiler always emits a Jump right after DeclareFunction, so
		// the body starts two instructions after this one.
		bodyAddress := vm.pc + 2
		vm.functions[ix.Str] = &Function{
			Parameters: ix.Parameters,
			ReturnType: ix.ReturnType,
			Address:    bodyAddress,
		}

	case bytecode.Call:
		j, err := vm.execCall(ix)
		if err != nil {
			return false, Value{}, false, err
		}
		return j, Value{}, false, nil

	case bytecode.CallMethod:
		if err := vm.execCallMethod(ix); err != nil {
			return false, Value{}, false, err
		}

	case bytecode.Return:
		j, result, done, err := vm.execReturn()
		if err != nil {
			return false, Value{}, false, err
		}
		return j, result, done, nil

	case bytecode.EnterScope:
		vm.scopes = append(vm.scopes, map[string]Value{})

	case bytecode.ExitScope:
		vm.scopes = vm.scopes[:len(vm.scopes)-1]
		if len(vm.scopes) == 0 {
			vm.scopes = append(vm.scopes, map[string]Value{})
		}

	case bytecode.End:
		if len(vm.stack) > 0 {
			v, err := vm.pop()
			return false, v, true, err
		}
		return false, VoidValue, true, nil

	default:
		return false, Value{}, false, newRuntimeError(vm.pc, "unhandled opcode %s", ix.Op)
	}

	return false, Value{}, false, nil
}
