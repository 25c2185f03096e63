// Package stdlib supplies the host natives shipped with the yim CLI.
// Natives are plain host callables registered into the VM before a run
// begins; the VM copies them into globals and treats each invocation as
// atomic, even when it performs host I/O.
package stdlib

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"yim/bytecode"
	"yim/vm"
)

// Register installs the standard natives into the provided VM.
// Input for `aan` is read from standard input.
func Register(machine *vm.VM) {
	RegisterWithInput(machine, os.Stdin)
}

// RegisterWithInput installs the standard natives, reading `aan` lines
// from the given reader. Tests use this to script stdin.
func RegisterWithInput(machine *vm.VM, input io.Reader) {
	reader := bufio.NewReader(input)

	machine.RegisterNative(&bytecode.Native{
		Name:  "yaw",
		Arity: 1,
		Invoke: func(args []bytecode.Value) (bytecode.Value, error) {
			if len(args) != 1 {
				return bytecode.NilValue(), fmt.Errorf("yaw expects 1 argument but got %d", len(args))
			}
			switch args[0].Kind {
			case bytecode.KIND_STRING:
				return bytecode.NumberValue(float64(len([]rune(args[0].Str)))), nil
			case bytecode.KIND_ARRAY:
				return bytecode.NumberValue(float64(len(args[0].AsArray().Elements))), nil
			case bytecode.KIND_OBJECT:
				return bytecode.NumberValue(float64(args[0].AsObject().Len())), nil
			default:
				return bytecode.NilValue(), fmt.Errorf("yaw expects a string, array or object")
			}
		},
	})

	machine.RegisterNative(&bytecode.Native{
		Name:  "akson",
		Arity: 1,
		Invoke: func(args []bytecode.Value) (bytecode.Value, error) {
			if len(args) != 1 {
				return bytecode.NilValue(), fmt.Errorf("akson expects 1 argument but got %d", len(args))
			}
			return bytecode.StringValue(bytecode.Stringify(args[0])), nil
		},
	})

	machine.RegisterNative(&bytecode.Native{
		Name:  "welaa",
		Arity: 0,
		Invoke: func(args []bytecode.Value) (bytecode.Value, error) {
			return bytecode.NumberValue(float64(time.Now().UnixMilli()) / 1000), nil
		},
	})

	machine.RegisterNative(&bytecode.Native{
		Name:  "sai",
		Arity: 2,
		Invoke: func(args []bytecode.Value) (bytecode.Value, error) {
			if len(args) != 2 {
				return bytecode.NilValue(), fmt.Errorf("sai expects 2 arguments but got %d", len(args))
			}
			if args[0].Kind != bytecode.KIND_ARRAY {
				return bytecode.NilValue(), fmt.Errorf("sai expects an array")
			}
			array := args[0].AsArray()
			array.Elements = append(array.Elements, args[1])
			return args[0], nil
		},
	})

	machine.RegisterNative(&bytecode.Native{
		Name:  "aan",
		Arity: 0,
		Invoke: func(args []bytecode.Value) (bytecode.Value, error) {
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return bytecode.NilValue(), nil
			}
			return bytecode.StringValue(strings.TrimRight(line, "\r\n")), nil
		},
	})
}
