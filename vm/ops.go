package vm

import (
	"math"

	"github.com/tsgo/boo/bytecode"
)

func (vm *VM) execArithmetic(op bytecode.Op) error {
	right, err := vm.pop()
	if err != nil {
		return err
	}
	left, err := vm.pop()
	if err != nil {
		return err
	}
	if left.Kind != KindNumber || right.Kind != KindNumber {
		return newRuntimeError(vm.pc, "arithmetic operator requires two numbers")
	}

	switch op {
	case bytecode.Add:
		vm.push(Number(left.Num + right.Num))
	case bytecode.Subtract:
		vm.push(Number(left.Num - right.Num))
	case bytecode.Multiply:
		vm.push(Number(left.Num * right.Num))
	case bytecode.Divide:
		if right.Num == 0 {
			return newRuntimeError(vm.pc, "division by zero")
		}
		vm.push(Number(left.Num / right.Num))
	case bytecode.Modulo:
		if right.Num == 0 {
			return newRuntimeError(vm.pc, "modulo by zero")
		}
		vm.push(Number(math.Mod(left.Num, right.Num)))
	case bytecode.Power:
		vm.push(Number(math.Pow(left.Num, right.Num)))
	}
	return nil
}

func (vm *VM) execConcat() error {
	right, err := vm.pop()
	if err != nil {
		return err
	}
	left, err := vm.pop()
	if err != nil {
		return err
	}
	vm.push(String(left.String() + right.String()))
	return nil
}

func (vm *VM) execComparison(op bytecode.Op) error {
	right, err := vm.pop()
	if err != nil {
		return err
	}
	left, err := vm.pop()
	if err != nil {
		return err
	}

	switch op {
	case bytecode.Equals:
		vm.push(Boolean(valuesEqual(left, right)))
		return nil
	case bytecode.NotEquals:
		vm.push(Boolean(!valuesEqual(left, right)))
		return nil
	}

	if left.Kind != KindNumber || right.Kind != KindNumber {
		return newRuntimeError(vm.pc, "ordering comparison requires two numbers")
	}
	switch op {
	case bytecode.GreaterThan:
		vm.push(Boolean(left.Num > right.Num))
	case bytecode.LessThan:
		vm.push(Boolean(left.Num < right.Num))
	case bytecode.GreaterThanOrEqual:
		vm.push(Boolean(left.Num >= right.Num))
	case bytecode.LessThanOrEqual:
		vm.push(Boolean(left.Num <= right.Num))
	}
	return nil
}

func valuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNumber:
		return a.Num == b.Num
	case KindString:
		return a.Str == b.Str
	case KindBoolean:
		return a.Bool == b.Bool
	default:
		return true // Void == Void
	}
}

// execCall handles a Call instruction: native-function dispatch, or
// user-function invocation via a new scope and call frame.
func (vm *VM) execCall(ix bytecode.Instruction) (jumped bool, err error) {
	if fn, ok := vm.nativeFunctions[ix.Str]; ok {
		args, err := vm.popArgs(ix.ArgCount)
		if err != nil {
			return false, err
		}
		result, err := fn(vm, args)
		if err != nil {
			return false, err
		}
		vm.push(result)
		return false, nil
	}

	function, ok := vm.functions[ix.Str]
	if !ok {
		return false, newRuntimeError(vm.pc, "function '%s' not found", ix.Str)
	}

	// Preserved verbatim: counts optional parameters where the required
	// count belongs, rather than non-optional ones.
	required := 0
	for _, p := range function.Parameters {
		if p.Optional {
			required++
		}
	}
	if ix.ArgCount < required || ix.ArgCount > len(function.Parameters) {
		return false, newRuntimeError(vm.pc, "function '%s' called with %d arguments, expected between %d and %d",
			ix.Str, ix.ArgCount, required, len(function.Parameters))
	}

	args, err := vm.popArgs(ix.ArgCount)
	if err != nil {
		return false, err
	}

	vm.scopes = append(vm.scopes, map[string]Value{})
	newScopeIndex := len(vm.scopes) - 1

	vm.callStack = append(vm.callStack, CallFrame{
		ReturnAddress: vm.pc + 1,
		ScopeIndex:    newScopeIndex,
	})

	frame := vm.scopes[newScopeIndex]
	for i, param := range function.Parameters {
		if i < len(args) {
			frame[param.Name] = args[i]
		} else {
			frame[param.Name] = VoidValue
		}
	}

	vm.pc = function.Address
	return true, nil
}

// execCallMethod handles a CallMethod instruction: pop n args, pop the
// receiver, dispatch by receiver kind to the matching method registry.
func (vm *VM) execCallMethod(ix bytecode.Instruction) error {
	args, err := vm.popArgs(ix.ArgCount)
	if err != nil {
		return err
	}
	receiver, err := vm.pop()
	if err != nil {
		return err
	}

	var registry map[string]NativeFn
	switch receiver.Kind {
	case KindString:
		registry = vm.stringMethods
	case KindNumber:
		registry = vm.numberMethods
	case KindBoolean:
		registry = vm.booleanMethods
	default:
		return newRuntimeError(vm.pc, "type %s has no methods", receiver.Kind)
	}

	fn, ok := registry[ix.Str]
	if !ok {
		return newRuntimeError(vm.pc, "method '%s' not found for %s", ix.Str, receiver.Kind)
	}

	callArgs := make([]Value, 0, len(args)+1)
	callArgs = append(callArgs, receiver)
	callArgs = append(callArgs, args...)

	result, err := fn(vm, callArgs)
	if err != nil {
		return err
	}
	vm.push(result)
	return nil
}

// execReturn handles a Return instruction: unwind to the caller's frame,
// or surface the value as the program result if no frame remains.
func (vm *VM) execReturn() (jumped bool, result Value, done bool, err error) {
	value := VoidValue
	if len(vm.stack) > 0 {
		value, _ = vm.pop()
	}

	if len(vm.callStack) == 0 {
		return false, value, true, nil
	}

	frame := vm.callStack[len(vm.callStack)-1]
	vm.callStack = vm.callStack[:len(vm.callStack)-1]

	vm.scopes = vm.scopes[:frame.ScopeIndex]
	if len(vm.scopes) == 0 {
		vm.scopes = append(vm.scopes, map[string]Value{})
	}

	vm.pc = frame.ReturnAddress
	vm.push(value)
	return true, Value{}, false, nil
}

// popArgs pops n values off the stack, restoring call order (the first
// argument ends up at index 0).
func (vm *VM) popArgs(n int) ([]Value, error) {
	args := make([]Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := vm.pop()
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}
