// Package stdlib registers the minimum standard library into both a VM
// instance and a type checker instance, keeping the two registries in
// sync as required by the host-function integration contract.
package stdlib

import (
	"fmt"

	"github.com/tsgo/boo/ast"
	"github.com/tsgo/boo/types"
	"github.com/tsgo/boo/vm"
)

// Register installs every native function and primitive method into vm.
func Register(machine *vm.VM) {
	machine.RegisterNativeFunction("print", print_)

	machine.RegisterStringMethod("len", stringLen)
	machine.RegisterStringMethod("to_string", toString)

	machine.RegisterNumberMethod("to_string", toString)

	machine.RegisterBooleanMethod("to_string", toString)
}

// RegisterTypes installs the matching type signatures into the checker,
// used during the check stage before any bytecode is compiled.
func RegisterTypes(checker *types.Checker) {
	checker.RegisterNativeFunctionType("print", ast.Void)

	checker.RegisterStringMethodType("len", ast.Num)
	checker.RegisterStringMethodType("to_string", ast.Str)

	checker.RegisterNumberMethodType("to_string", ast.Str)

	checker.RegisterBooleanMethodType("to_string", ast.Str)
}

func print_(_ *vm.VM, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 {
		fmt.Println()
		return vm.VoidValue, nil
	}
	for _, arg := range args {
		fmt.Println(arg.String())
	}
	return vm.VoidValue, nil
}

func stringLen(_ *vm.VM, args []vm.Value) (vm.Value, error) {
	if len(args) != 1 {
		return vm.Value{}, fmt.Errorf("method: len() requires exactly one argument")
	}
	if args[0].Kind != vm.KindString {
		return vm.Value{}, fmt.Errorf("method: len() argument must be a string")
	}
	return vm.Number(float64(len(args[0].Str))), nil
}

func toString(_ *vm.VM, args []vm.Value) (vm.Value, error) {
	if len(args) != 1 {
		return vm.Value{}, fmt.Errorf("method: to_string() requires exactly one argument")
	}
	switch args[0].Kind {
	case vm.KindString:
		return vm.String(args[0].Str), nil
	case vm.KindNumber, vm.KindBoolean:
		return vm.String(args[0].String()), nil
	default:
		return vm.Value{}, fmt.Errorf("cannot convert to string")
	}
}
