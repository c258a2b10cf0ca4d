package vm

import "fmt"

// RuntimeError represents a VM dispatch-loop error: stack underflow,
// unknown variable/function, type mismatch in an operator, divide/modulo
// by zero, and similar conditions enumerated in spec.md §7.
type RuntimeError struct {
	Message string
	PC      int
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at pc=%d: %s", e.PC, e.Message)
}

func newRuntimeError(pc int, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...), PC: pc}
}
