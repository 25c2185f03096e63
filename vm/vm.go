// Package vm implements the stack based virtual machine that executes
// compiled Yim bytecode. It is the runtime half of the pipeline: a value
// stack for computation, a frame stack for calls, a globals table, and an
// open-upvalue table that gives nested closures their shared view of
// enclosing locals.
package vm

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"yim/bytecode"
)

const (
	// STACK_MAX bounds the value stack; overflowing it is a fatal fault.
	STACK_MAX = 4096

	// FRAMES_MAX bounds call depth. Recursion depth is limited by this
	// capacity, not by a separate counter.
	FRAMES_MAX = 256
)

// CallFrame is the activation record of one in-flight call.
//
// Fields:
//   - closure: The closure being executed.
//   - ip: Instruction pointer into the closure's chunk.
//   - slotBase: Index in the value stack where this frame's slots begin.
//     Slot 0 holds the callee itself or, for methods, the receiver.
type CallFrame struct {
	closure  *bytecode.Closure
	ip       int
	slotBase int
}

// OutputSink receives the stringification of every printed value.
type OutputSink func(text string)

// FaultHook receives the formatted runtime fault before the run halts.
type FaultHook func(fault RuntimeError)

// VM is the runtime environment where Yim bytecode gets executed.
// A VM may run several programs in sequence; globals persist between
// runs, which is what the REPL relies on.
type VM struct {
	stack    []bytecode.Value
	stackTop int

	frames     []CallFrame
	frameCount int

	globals map[string]bytecode.Value

	// At most one open upvalue exists per live stack slot; closures that
	// capture the same slot share the handle stored here.
	openUpvalues map[int]*bytecode.Upvalue

	// natives are copied into globals when a run begins.
	natives map[string]*bytecode.Native

	output OutputSink
	fault  FaultHook
}

// New creates a VM with an empty globals table. Output defaults to
// standard output and the fault hook to standard error.
func New() *VM {
	vm := &VM{
		stack:        make([]bytecode.Value, STACK_MAX),
		frames:       make([]CallFrame, FRAMES_MAX),
		globals:      make(map[string]bytecode.Value),
		openUpvalues: make(map[int]*bytecode.Upvalue),
		natives:      make(map[string]*bytecode.Native),
	}
	vm.output = func(text string) { fmt.Println(text) }
	vm.fault = func(fault RuntimeError) { fmt.Fprintln(os.Stderr, fault.Error()) }
	return vm
}

// SetOutput replaces the sink that `da` writes to.
func (vm *VM) SetOutput(sink OutputSink) {
	vm.output = sink
}

// SetFaultHook replaces the hook invoked when a runtime fault halts a run.
func (vm *VM) SetFaultHook(hook FaultHook) {
	vm.fault = hook
}

// RegisterNative registers a host callable. Registered natives are loaded
// into globals at the start of every run.
func (vm *VM) RegisterNative(native *bytecode.Native) {
	vm.natives[native.Name] = native
}

// Run executes a compiled top-level function to completion or to the
// first runtime fault. It returns the program's result value; on a fault
// the fault hook has already been invoked and the error is returned.
func (vm *VM) Run(function *bytecode.Function) (bytecode.Value, error) {
	for name, native := range vm.natives {
		vm.globals[name] = bytecode.NativeValue(native)
	}

	closure := &bytecode.Closure{Function: function}
	vm.push(bytecode.ClosureValue(closure))
	if err := vm.callClosure(closure, 0); err != nil {
		return bytecode.NilValue(), vm.reportFault(err)
	}

	result, err := vm.dispatch()
	if err != nil {
		// Abandon whatever the faulted run left behind so the VM can be
		// reused for a fresh run.
		vm.stackTop = 0
		vm.frameCount = 0
		vm.openUpvalues = make(map[int]*bytecode.Upvalue)
		return bytecode.NilValue(), vm.reportFault(err)
	}
	return result, nil
}

func (vm *VM) reportFault(err error) error {
	if fault, ok := err.(RuntimeError); ok {
		vm.fault(fault)
	}
	return err
}

// ---- stack primitives ----

func (vm *VM) push(value bytecode.Value) {
	vm.stack[vm.stackTop] = value
	vm.stackTop++
}

func (vm *VM) pop() bytecode.Value {
	if vm.stackTop == 0 {
		// Only reachable through malformed bytecode; recovered at the
		// dispatch boundary and reported as a fault.
		panic(RuntimeError{Message: "stack underflow"})
	}
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) bytecode.Value {
	return vm.stack[vm.stackTop-1-distance]
}

// currentFrame returns the frame whose chunk is being executed.
func (vm *VM) currentFrame() *CallFrame {
	return &vm.frames[vm.frameCount-1]
}

// runtimeError builds the fault for the instruction the current frame
// just executed.
func (vm *VM) runtimeError(format string, args ...any) error {
	frame := vm.currentFrame()
	line := frame.closure.Function.Chunk.Line(frame.ip - 1)
	return RuntimeError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// ---- dispatch loop ----

// dispatch fetches, decodes and executes instructions until the top-level
// frame returns or a fault occurs.
func (vm *VM) dispatch() (result bytecode.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			fault, ok := r.(RuntimeError)
			if !ok {
				panic(r)
			}
			result = bytecode.NilValue()
			err = fault
		}
	}()

	frame := vm.currentFrame()

	readByte := func() byte {
		b := frame.closure.Function.Chunk.Code[frame.ip]
		frame.ip++
		return b
	}
	readShort := func() uint16 {
		s := binary.BigEndian.Uint16(frame.closure.Function.Chunk.Code[frame.ip : frame.ip+2])
		frame.ip += 2
		return s
	}
	readConstant := func() bytecode.Value {
		return frame.closure.Function.Chunk.Constants[readByte()]
	}
	readName := func() string {
		return readConstant().Str
	}

	for {
		op := bytecode.Opcode(readByte())

		switch op {

		case bytecode.OP_POP:
			vm.pop()

		case bytecode.OP_DUP:
			if err := vm.checkOverflow(1); err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(vm.peek(0))

		case bytecode.OP_SWAP:
			vm.stack[vm.stackTop-1], vm.stack[vm.stackTop-2] = vm.stack[vm.stackTop-2], vm.stack[vm.stackTop-1]

		case bytecode.OP_TRUE:
			if err := vm.checkOverflow(1); err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.BoolValue(true))

		case bytecode.OP_FALSE:
			if err := vm.checkOverflow(1); err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.BoolValue(false))

		case bytecode.OP_NULL:
			if err := vm.checkOverflow(1); err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.NilValue())

		case bytecode.OP_LOAD_ZERO:
			if err := vm.checkOverflow(1); err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.NumberValue(0))

		case bytecode.OP_LOAD_ONE:
			if err := vm.checkOverflow(1); err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.NumberValue(1))

		case bytecode.OP_CONSTANT:
			if err := vm.checkOverflow(1); err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(readConstant())

		case bytecode.OP_ADD:
			b := vm.pop()
			a := vm.pop()
			if a.Kind == bytecode.KIND_STRING || b.Kind == bytecode.KIND_STRING {
				vm.push(bytecode.StringValue(bytecode.Stringify(a) + bytecode.Stringify(b)))
			} else if a.Kind == bytecode.KIND_NUMBER && b.Kind == bytecode.KIND_NUMBER {
				vm.push(bytecode.NumberValue(a.Number + b.Number))
			} else {
				return bytecode.NilValue(), vm.runtimeError("operands of '+' must be numbers or strings")
			}

		case bytecode.OP_SUBTRACT:
			a, b, err := vm.popNumericOperands("-")
			if err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.NumberValue(a - b))

		case bytecode.OP_MULTIPLY:
			a, b, err := vm.popNumericOperands("*")
			if err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.NumberValue(a * b))

		case bytecode.OP_DIVIDE:
			a, b, err := vm.popNumericOperands("/")
			if err != nil {
				return bytecode.NilValue(), err
			}
			if b == 0 {
				return bytecode.NilValue(), vm.runtimeError("division by zero")
			}
			vm.push(bytecode.NumberValue(a / b))

		case bytecode.OP_MODULO:
			a, b, err := vm.popNumericOperands("%")
			if err != nil {
				return bytecode.NilValue(), err
			}
			if b == 0 {
				return bytecode.NilValue(), vm.runtimeError("division by zero")
			}
			vm.push(bytecode.NumberValue(math.Mod(a, b)))

		case bytecode.OP_POWER:
			a, b, err := vm.popNumericOperands("**")
			if err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.NumberValue(math.Pow(a, b)))

		case bytecode.OP_NEGATE:
			operand := vm.pop()
			if operand.Kind != bytecode.KIND_NUMBER {
				return bytecode.NilValue(), vm.runtimeError("operand of '-' must be a number")
			}
			vm.push(bytecode.NumberValue(-operand.Number))

		case bytecode.OP_EQUAL:
			b := vm.pop()
			a := vm.pop()
			vm.push(bytecode.BoolValue(bytecode.Equals(a, b)))

		case bytecode.OP_NOT_EQUAL:
			b := vm.pop()
			a := vm.pop()
			vm.push(bytecode.BoolValue(!bytecode.Equals(a, b)))

		case bytecode.OP_GREATER:
			a, b, err := vm.popNumericOperands(">")
			if err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.BoolValue(a > b))

		case bytecode.OP_GREATER_EQUAL:
			a, b, err := vm.popNumericOperands(">=")
			if err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.BoolValue(a >= b))

		case bytecode.OP_LESS:
			a, b, err := vm.popNumericOperands("<")
			if err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.BoolValue(a < b))

		case bytecode.OP_LESS_EQUAL:
			a, b, err := vm.popNumericOperands("<=")
			if err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.BoolValue(a <= b))

		case bytecode.OP_NOT:
			vm.push(bytecode.BoolValue(!bytecode.Truthy(vm.pop())))

		case bytecode.OP_BIT_AND:
			a, b, err := vm.popIntegerOperands("&")
			if err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.NumberValue(float64(a & b)))

		case bytecode.OP_BIT_OR:
			a, b, err := vm.popIntegerOperands("|")
			if err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.NumberValue(float64(a | b)))

		case bytecode.OP_BIT_XOR:
			a, b, err := vm.popIntegerOperands("^")
			if err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.NumberValue(float64(a ^ b)))

		case bytecode.OP_BIT_NOT:
			operand := vm.pop()
			if operand.Kind != bytecode.KIND_NUMBER {
				return bytecode.NilValue(), vm.runtimeError("operand of '~' must be a number")
			}
			vm.push(bytecode.NumberValue(float64(^int32(operand.Number))))

		case bytecode.OP_LSHIFT:
			a, b, err := vm.popIntegerOperands("<<")
			if err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.NumberValue(float64(a << (uint32(b) & 31))))

		case bytecode.OP_RSHIFT:
			a, b, err := vm.popIntegerOperands(">>")
			if err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.NumberValue(float64(a >> (uint32(b) & 31))))

		case bytecode.OP_DEFINE_GLOBAL:
			name := readName()
			vm.globals[name] = vm.peek(0)
			vm.pop()

		case bytecode.OP_GET_GLOBAL:
			name := readName()
			value, ok := vm.globals[name]
			if !ok {
				return bytecode.NilValue(), vm.runtimeError("name '%s' is not defined", name)
			}
			if err := vm.checkOverflow(1); err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(value)

		case bytecode.OP_SET_GLOBAL:
			name := readName()
			if _, ok := vm.globals[name]; !ok {
				return bytecode.NilValue(), vm.runtimeError("name '%s' is not defined", name)
			}
			vm.globals[name] = vm.peek(0)

		case bytecode.OP_GET_LOCAL:
			slot := int(readByte())
			if err := vm.checkOverflow(1); err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(vm.stack[frame.slotBase+slot])

		case bytecode.OP_SET_LOCAL:
			slot := int(readByte())
			vm.stack[frame.slotBase+slot] = vm.peek(0)

		case bytecode.OP_INC_LOCAL:
			slot := int(readByte())
			value := vm.stack[frame.slotBase+slot]
			if value.Kind != bytecode.KIND_NUMBER {
				return bytecode.NilValue(), vm.runtimeError("loop variable must be a number")
			}
			vm.stack[frame.slotBase+slot] = bytecode.NumberValue(value.Number + 1)

		case bytecode.OP_GET_UPVALUE:
			index := int(readByte())
			upvalue := frame.closure.Upvalues[index]
			if err := vm.checkOverflow(1); err != nil {
				return bytecode.NilValue(), err
			}
			if upvalue.IsClosed {
				vm.push(upvalue.Closed)
			} else {
				vm.push(vm.stack[upvalue.Location])
			}

		case bytecode.OP_SET_UPVALUE:
			index := int(readByte())
			upvalue := frame.closure.Upvalues[index]
			if upvalue.IsClosed {
				upvalue.Closed = vm.peek(0)
			} else {
				vm.stack[upvalue.Location] = vm.peek(0)
			}

		case bytecode.OP_CLOSE_UPVALUE:
			vm.closeUpvalues(vm.stackTop - 1)
			vm.pop()

		case bytecode.OP_JUMP:
			delta := int(readShort())
			frame.ip += delta

		case bytecode.OP_JUMP_IF_FALSE:
			delta := int(readShort())
			if !bytecode.Truthy(vm.peek(0)) {
				frame.ip += delta
			}

		case bytecode.OP_JUMP_IF_TRUE:
			delta := int(readShort())
			if bytecode.Truthy(vm.peek(0)) {
				frame.ip += delta
			}

		case bytecode.OP_LOOP:
			delta := int(readShort())
			frame.ip -= delta

		case bytecode.OP_CALL:
			argCount := int(readByte())
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return bytecode.NilValue(), err
			}
			frame = vm.currentFrame()

		case bytecode.OP_CLOSURE:
			function := readConstant().AsFunction()
			closure := &bytecode.Closure{
				Function: function,
				Upvalues: make([]*bytecode.Upvalue, function.UpvalueCount),
			}
			for i := 0; i < function.UpvalueCount; i++ {
				isLocal := readByte()
				index := int(readByte())
				if isLocal == 1 {
					closure.Upvalues[i] = vm.captureUpvalue(frame.slotBase + index)
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}
			if err := vm.checkOverflow(1); err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.ClosureValue(closure))

		case bytecode.OP_RETURN:
			result := vm.pop()
			vm.closeUpvalues(frame.slotBase)
			vm.frameCount--
			if vm.frameCount == 0 {
				// Discard the top-level callee slot.
				vm.stackTop = frame.slotBase
				return result, nil
			}
			vm.stackTop = frame.slotBase
			vm.push(result)
			frame = vm.currentFrame()

		case bytecode.OP_CLASS:
			name := readName()
			if err := vm.checkOverflow(1); err != nil {
				return bytecode.NilValue(), err
			}
			vm.push(bytecode.ClassValue(bytecode.NewClass(name)))

		case bytecode.OP_METHOD:
			name := readName()
			method := vm.pop().AsClosure()
			class := vm.peek(0).AsClass()
			class.Methods[name] = method

		case bytecode.OP_GET_PROPERTY:
			name := readName()
			if err := vm.getProperty(name); err != nil {
				return bytecode.NilValue(), err
			}

		case bytecode.OP_SET_PROPERTY:
			name := readName()
			value := vm.pop()
			target := vm.pop()
			switch target.Kind {
			case bytecode.KIND_INSTANCE:
				target.AsInstance().Fields[name] = value
			case bytecode.KIND_OBJECT:
				target.AsObject().Set(name, value)
			default:
				return bytecode.NilValue(), vm.runtimeError("cant set property '%s' on %s", name, kindName(target))
			}
			vm.push(value)

		case bytecode.OP_ARRAY:
			count := int(readByte())
			elements := make([]bytecode.Value, count)
			copy(elements, vm.stack[vm.stackTop-count:vm.stackTop])
			vm.stackTop -= count
			vm.push(bytecode.ArrayValue(&bytecode.Array{Elements: elements}))

		case bytecode.OP_OBJECT:
			count := int(readByte())
			object := bytecode.NewObject()
			base := vm.stackTop - count*2
			for i := 0; i < count; i++ {
				key := vm.stack[base+i*2]
				value := vm.stack[base+i*2+1]
				object.Set(bytecode.Stringify(key), value)
			}
			vm.stackTop = base
			vm.push(bytecode.ObjectValue(object))

		case bytecode.OP_GET_INDEX:
			if err := vm.getIndex(); err != nil {
				return bytecode.NilValue(), err
			}

		case bytecode.OP_SET_INDEX:
			if err := vm.setIndex(); err != nil {
				return bytecode.NilValue(), err
			}

		case bytecode.OP_PRINT:
			vm.output(bytecode.Stringify(vm.pop()))

		default:
			return bytecode.NilValue(), vm.runtimeError("unknown opcode %d", op)
		}
	}
}

// ---- operand helpers ----

func (vm *VM) checkOverflow(needed int) error {
	if vm.stackTop+needed > STACK_MAX {
		return vm.runtimeError("stack overflow")
	}
	return nil
}

// popNumericOperands pops b then a and verifies both are numbers.
func (vm *VM) popNumericOperands(operator string) (float64, float64, error) {
	b := vm.pop()
	a := vm.pop()
	if a.Kind != bytecode.KIND_NUMBER || b.Kind != bytecode.KIND_NUMBER {
		return 0, 0, vm.runtimeError("operands of '%s' must be numbers", operator)
	}
	return a.Number, b.Number, nil
}

// popIntegerOperands pops two numbers and truncates them to int32 for the
// bitwise operators, matching 32-bit two's-complement semantics.
func (vm *VM) popIntegerOperands(operator string) (int32, int32, error) {
	a, b, err := vm.popNumericOperands(operator)
	if err != nil {
		return 0, 0, err
	}
	return int32(a), int32(b), nil
}

func kindName(value bytecode.Value) string {
	switch value.Kind {
	case bytecode.KIND_NIL:
		return "wang"
	case bytecode.KIND_BOOL:
		return "a boolean"
	case bytecode.KIND_NUMBER:
		return "a number"
	case bytecode.KIND_STRING:
		return "a string"
	case bytecode.KIND_ARRAY:
		return "an array"
	case bytecode.KIND_OBJECT:
		return "an object"
	case bytecode.KIND_CLASS:
		return "a class"
	case bytecode.KIND_INSTANCE:
		return "an instance"
	case bytecode.KIND_NATIVE:
		return "a native function"
	default:
		return "a function"
	}
}

// ---- calls ----

// callValue dispatches OP_CALL for the callee at stack[stackTop-argCount-1].
func (vm *VM) callValue(callee bytecode.Value, argCount int) error {
	base := vm.stackTop - argCount - 1

	switch callee.Kind {
	case bytecode.KIND_CLOSURE:
		return vm.callClosure(callee.AsClosure(), argCount)

	case bytecode.KIND_CLASS:
		class := callee.AsClass()
		instance := bytecode.NewInstance(class)
		// Slot 0 of the initializer frame must hold the receiver.
		vm.stack[base] = bytecode.InstanceValue(instance)
		if initializer, ok := class.Methods[bytecode.InitializerName]; ok {
			return vm.callClosure(initializer, argCount)
		}
		if argCount != 0 {
			return vm.runtimeError("class '%s' has no 'sang' but got %d arguments", class.Name, argCount)
		}
		return nil

	case bytecode.KIND_BOUND_METHOD:
		bound := callee.AsBoundMethod()
		vm.stack[base] = bound.Receiver
		return vm.callClosure(bound.Method, argCount)

	case bytecode.KIND_NATIVE:
		native := callee.AsNative()
		args := make([]bytecode.Value, argCount)
		copy(args, vm.stack[vm.stackTop-argCount:vm.stackTop])
		vm.stackTop = base
		result, err := native.Invoke(args)
		if err != nil {
			return vm.runtimeError("%s", err.Error())
		}
		vm.push(result)
		return nil

	default:
		return vm.runtimeError("only functions and classes are callable, not %s", kindName(callee))
	}
}

// callClosure pushes a frame for a closure call after checking arity and
// frame capacity. No frame is pushed when the check fails.
func (vm *VM) callClosure(closure *bytecode.Closure, argCount int) error {
	if argCount != closure.Function.Arity {
		return vm.runtimeError("'%s' expects %d arguments but got %d",
			closure.Function.Name, closure.Function.Arity, argCount)
	}
	if vm.frameCount == FRAMES_MAX {
		return vm.runtimeError("stack overflow: call depth exceeds %d frames", FRAMES_MAX)
	}
	vm.frames[vm.frameCount] = CallFrame{
		closure:  closure,
		ip:       0,
		slotBase: vm.stackTop - argCount - 1,
	}
	vm.frameCount++
	return nil
}

// ---- upvalues ----

// captureUpvalue returns the open upvalue for a stack slot, creating it
// on first capture. Sharing the handle is what makes writes through one
// closure visible to every closure capturing the same variable.
func (vm *VM) captureUpvalue(slot int) *bytecode.Upvalue {
	if upvalue, ok := vm.openUpvalues[slot]; ok {
		return upvalue
	}
	upvalue := &bytecode.Upvalue{Location: slot}
	vm.openUpvalues[slot] = upvalue
	return upvalue
}

// closeUpvalues hoists every open upvalue at or above the boundary into
// its own storage. A closed upvalue never reopens; no path observes the
// abandoned stack slot afterwards.
func (vm *VM) closeUpvalues(boundary int) {
	for slot, upvalue := range vm.openUpvalues {
		if slot >= boundary {
			upvalue.Closed = vm.stack[slot]
			upvalue.IsClosed = true
			delete(vm.openUpvalues, slot)
		}
	}
}

// ---- properties and indexing ----

// getProperty implements OP_GET_PROPERTY. On instances a field wins over
// a method of the same name; a method alone binds to the receiver. On
// plain objects the name is a key lookup. An undefined property faults.
func (vm *VM) getProperty(name string) error {
	target := vm.pop()
	switch target.Kind {
	case bytecode.KIND_INSTANCE:
		instance := target.AsInstance()
		if value, ok := instance.Fields[name]; ok {
			vm.push(value)
			return nil
		}
		if method, ok := lookupMethod(instance.Class, name); ok {
			vm.push(bytecode.BoundMethodValue(&bytecode.BoundMethod{
				Receiver: target,
				Method:   method,
			}))
			return nil
		}
		return vm.runtimeError("undefined property '%s' on %s", name, instance.Class.Name)

	case bytecode.KIND_OBJECT:
		if value, ok := target.AsObject().Get(name); ok {
			vm.push(value)
			return nil
		}
		return vm.runtimeError("undefined property '%s'", name)

	default:
		return vm.runtimeError("cant read property '%s' of %s", name, kindName(target))
	}
}

// lookupMethod resolves a method name against a class and its superclass
// chain.
func lookupMethod(class *bytecode.Class, name string) (*bytecode.Closure, bool) {
	for ; class != nil; class = class.Super {
		if method, ok := class.Methods[name]; ok {
			return method, true
		}
	}
	return nil, false
}

// getIndex implements OP_GET_INDEX. Array reads are lenient: a missing
// index yields wang. Object reads stringify the key. String reads return
// a single-code-point string.
func (vm *VM) getIndex() error {
	index := vm.pop()
	target := vm.pop()

	switch target.Kind {
	case bytecode.KIND_ARRAY:
		if index.Kind != bytecode.KIND_NUMBER {
			return vm.runtimeError("array index must be a number")
		}
		elements := target.AsArray().Elements
		i := int(index.Number)
		if i < 0 || i >= len(elements) {
			vm.push(bytecode.NilValue())
			return nil
		}
		vm.push(elements[i])
		return nil

	case bytecode.KIND_OBJECT:
		key := bytecode.Stringify(index)
		if value, ok := target.AsObject().Get(key); ok {
			vm.push(value)
			return nil
		}
		vm.push(bytecode.NilValue())
		return nil

	case bytecode.KIND_STRING:
		if index.Kind != bytecode.KIND_NUMBER {
			return vm.runtimeError("string index must be a number")
		}
		runes := []rune(target.Str)
		i := int(index.Number)
		if i < 0 || i >= len(runes) {
			vm.push(bytecode.NilValue())
			return nil
		}
		vm.push(bytecode.StringValue(string(runes[i])))
		return nil

	default:
		return vm.runtimeError("cant index %s", kindName(target))
	}
}

// setIndex implements OP_SET_INDEX. Writing past the end of an array
// extends it with wang up to the written index. Strings are immutable;
// an indexed write to one is a fault. The assigned value is pushed back
// because assignment is an expression.
func (vm *VM) setIndex() error {
	value := vm.pop()
	index := vm.pop()
	target := vm.pop()

	switch target.Kind {
	case bytecode.KIND_ARRAY:
		if index.Kind != bytecode.KIND_NUMBER {
			return vm.runtimeError("array index must be a number")
		}
		array := target.AsArray()
		i := int(index.Number)
		if i < 0 {
			return vm.runtimeError("array index out of range: %d", i)
		}
		for len(array.Elements) <= i {
			array.Elements = append(array.Elements, bytecode.NilValue())
		}
		array.Elements[i] = value
		vm.push(value)
		return nil

	case bytecode.KIND_OBJECT:
		target.AsObject().Set(bytecode.Stringify(index), value)
		vm.push(value)
		return nil

	case bytecode.KIND_STRING:
		return vm.runtimeError("strings are immutable")

	default:
		return vm.runtimeError("cant index %s", kindName(target))
	}
}
