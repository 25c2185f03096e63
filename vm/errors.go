package vm

import "fmt"

// RuntimeError is the fault type of the VM. Faults are never recovered
// internally: the VM reports the fault through its hook, keyed by the
// source line of the instruction that raised it, and halts the run.
type RuntimeError struct {
	Line    int32
	Message string
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("💥 RuntimeError: line:%d - %s", e.Line, e.Message)
}
