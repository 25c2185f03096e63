// value.go defines the tagged value representation shared by the compiler
// and the virtual machine. Truthiness, equality and stringification are
// free functions over the variant rather than methods behind an interface,
// so the VM dispatch loop can match on kinds directly.

package bytecode

import (
	"strconv"
	"strings"
)

type Kind uint8

// The value variants of Yim. Nil, Bool, Number and String carry their
// payload inline; every other variant is a reference held in Value.Ref.
const (
	KIND_NIL Kind = iota
	KIND_BOOL
	KIND_NUMBER
	KIND_STRING
	KIND_ARRAY
	KIND_OBJECT
	KIND_FUNCTION
	KIND_CLOSURE
	KIND_CLASS
	KIND_INSTANCE
	KIND_BOUND_METHOD
	KIND_NATIVE
)

// Value is the single runtime value type. Exactly one payload field is
// meaningful, selected by Kind.
//
// Fields:
//   - Kind: The variant tag.
//   - Bool: Payload for KIND_BOOL.
//   - Number: Payload for KIND_NUMBER (IEEE-754 double).
//   - Str: Payload for KIND_STRING.
//   - Ref: Payload for all heap variants (*Array, *Object, *Function,
//     *Closure, *Class, *Instance, *BoundMethod, *Native).
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	Str    string
	Ref    any
}

func NilValue() Value               { return Value{Kind: KIND_NIL} }
func BoolValue(b bool) Value        { return Value{Kind: KIND_BOOL, Bool: b} }
func NumberValue(n float64) Value   { return Value{Kind: KIND_NUMBER, Number: n} }
func StringValue(s string) Value    { return Value{Kind: KIND_STRING, Str: s} }
func ArrayValue(a *Array) Value     { return Value{Kind: KIND_ARRAY, Ref: a} }
func ObjectValue(o *Object) Value   { return Value{Kind: KIND_OBJECT, Ref: o} }
func FunctionValue(f *Function) Value {
	return Value{Kind: KIND_FUNCTION, Ref: f}
}
func ClosureValue(c *Closure) Value { return Value{Kind: KIND_CLOSURE, Ref: c} }
func ClassValue(c *Class) Value     { return Value{Kind: KIND_CLASS, Ref: c} }
func InstanceValue(i *Instance) Value {
	return Value{Kind: KIND_INSTANCE, Ref: i}
}
func BoundMethodValue(b *BoundMethod) Value {
	return Value{Kind: KIND_BOUND_METHOD, Ref: b}
}
func NativeValue(n *Native) Value { return Value{Kind: KIND_NATIVE, Ref: n} }

func (v Value) AsArray() *Array             { return v.Ref.(*Array) }
func (v Value) AsObject() *Object           { return v.Ref.(*Object) }
func (v Value) AsFunction() *Function       { return v.Ref.(*Function) }
func (v Value) AsClosure() *Closure         { return v.Ref.(*Closure) }
func (v Value) AsClass() *Class             { return v.Ref.(*Class) }
func (v Value) AsInstance() *Instance       { return v.Ref.(*Instance) }
func (v Value) AsBoundMethod() *BoundMethod { return v.Ref.(*BoundMethod) }
func (v Value) AsNative() *Native           { return v.Ref.(*Native) }

// Array is a mutable ordered sequence of values. Arrays are aliased by
// reference: every holder of the same *Array observes mutations.
type Array struct {
	Elements []Value
}

// Object is a mutable mapping from string keys to values with stable
// iteration order of first insertion. Overwriting a key keeps its
// original position.
type Object struct {
	keys   []string
	fields map[string]Value
}

func NewObject() *Object {
	return &Object{fields: make(map[string]Value)}
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.fields[key]
	return v, ok
}

func (o *Object) Set(key string, value Value) {
	if _, exists := o.fields[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = value
}

// Keys returns the object's keys in first-insertion order.
func (o *Object) Keys() []string {
	return o.keys
}

func (o *Object) Len() int {
	return len(o.keys)
}

// Function is the immutable compiled prototype of one function body.
// User code never holds a bare Function; it holds Closures over it.
type Function struct {
	Name         string
	Arity        int
	UpvalueCount int
	Chunk        *Chunk
}

// Upvalue lets a nested closure refer to a variable of an enclosing call
// frame. While open it addresses a live value-stack slot; once that slot
// is about to leave the stack the upvalue is closed and owns a copy.
// The transition happens exactly once and is never reversed.
type Upvalue struct {
	Location int   // absolute value-stack slot while open
	Closed   Value // owned storage once closed
	IsClosed bool
}

// Closure pairs a Function with the upvalues captured at creation.
// Closures created at the same static site share their Function; closures
// capturing the same enclosing slot share the same *Upvalue, so writes
// through one are visible through the other.
type Closure struct {
	Function *Function
	Upvalues []*Upvalue
}

// Class holds a method table populated by OP_METHOD instructions after
// class creation. The initializer method is stored under InitializerName.
type Class struct {
	Name    string
	Methods map[string]*Closure
	Super   *Class
}

// InitializerName is the conventional method name the VM invokes when a
// class is called.
const InitializerName = "sang"

func NewClass(name string) *Class {
	return &Class{Name: name, Methods: make(map[string]*Closure)}
}

// Instance is a value produced by calling a Class. Fields are created on
// first assignment and shadow class methods on property access.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Value)}
}

// BoundMethod pairs a receiver with a method closure. It is created on
// property access when the property resolves to a class method rather
// than a field.
type BoundMethod struct {
	Receiver Value
	Method   *Closure
}

// Native is a host-supplied callable. The declared arity is advisory; the
// VM does not enforce it for natives. Invoke may perform host I/O; the VM
// treats the call as atomic.
type Native struct {
	Name   string
	Arity  int
	Invoke func(args []Value) (Value, error)
}

// Truthy reports whether a value selects the true branch of a condition.
// Nil and false are falsy, as are the number 0 and the empty string;
// every other value is truthy.
func Truthy(v Value) bool {
	switch v.Kind {
	case KIND_NIL:
		return false
	case KIND_BOOL:
		return v.Bool
	case KIND_NUMBER:
		return v.Number != 0
	case KIND_STRING:
		return v.Str != ""
	default:
		return true
	}
}

// Equals implements Yim equality: two values are equal iff they share the
// same variant and either carry the same primitive payload or the same
// identity (heap variants compare by reference).
func Equals(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KIND_NIL:
		return true
	case KIND_BOOL:
		return a.Bool == b.Bool
	case KIND_NUMBER:
		return a.Number == b.Number
	case KIND_STRING:
		return a.Str == b.Str
	default:
		return a.Ref == b.Ref
	}
}

// Stringify renders a value the way `da` prints it. Nil prints as the
// literal `wang`, booleans as `jing`/`tej`, and integral numbers without
// trailing zeros. Arrays and objects render their contents recursively,
// objects in first-insertion key order.
func Stringify(v Value) string {
	switch v.Kind {
	case KIND_NIL:
		return "wang"
	case KIND_BOOL:
		if v.Bool {
			return "jing"
		}
		return "tej"
	case KIND_NUMBER:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KIND_STRING:
		return v.Str
	case KIND_ARRAY:
		array := v.AsArray()
		parts := make([]string, len(array.Elements))
		for i, element := range array.Elements {
			parts[i] = Stringify(element)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KIND_OBJECT:
		object := v.AsObject()
		parts := make([]string, 0, object.Len())
		for _, key := range object.Keys() {
			value, _ := object.Get(key)
			parts = append(parts, key+": "+Stringify(value))
		}
		return "{" + strings.Join(parts, ",") + "}"
	case KIND_FUNCTION:
		return "<kian " + v.AsFunction().Name + ">"
	case KIND_CLOSURE:
		return "<kian " + v.AsClosure().Function.Name + ">"
	case KIND_CLASS:
		return "<klum " + v.AsClass().Name + ">"
	case KIND_INSTANCE:
		return "<" + v.AsInstance().Class.Name + " instance>"
	case KIND_BOUND_METHOD:
		return "<kian " + v.AsBoundMethod().Method.Function.Name + ">"
	case KIND_NATIVE:
		return "<native " + v.AsNative().Name + ">"
	}
	return "wang"
}
