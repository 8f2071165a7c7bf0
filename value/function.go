package value

import (
	"fmt"
	"reflect"
)

// CompilerFunction is an opaque reference to a function defined inside
// the compiler (e.g. a first-class reference to a builtin or
// user-Sass-defined function), identified by an id the compiler issued.
// Host code can pass it back into the compiler (e.g. via `call()`) but
// cannot invoke it directly.
type CompilerFunction struct {
	ID uint32
}

func (f *CompilerFunction) sassValue()     {}
func (f *CompilerFunction) Len() int       { return 1 }
func (f *CompilerFunction) String() string { return fmt.Sprintf("<compiler-function %d>", f.ID) }
func (f *CompilerFunction) Equal(o Value) bool {
	of, ok := o.(*CompilerFunction)
	return ok && of.ID == f.ID
}

// AsCompilerFunction downcasts v to *CompilerFunction.
func AsCompilerFunction(v Value) (*CompilerFunction, error) {
	f, ok := v.(*CompilerFunction)
	if !ok {
		return nil, &DowncastError{Want: "compiler function", Got: v}
	}
	return f, nil
}

// Callable is a host-defined Sass function body: it receives its
// positional arguments already decoded into Values and returns a Value or
// an error (which becomes a SassFunctionError visible to the stylesheet).
// Keyword arguments of the call are not passed to it.
type Callable func(args []Value) (Value, error)

// HostFunction is a first-class reference to a host-defined function,
// identified by its signature (e.g. `"double($x)"`). Equality is by
// identity of the underlying Callable, per §4.1.
type HostFunction struct {
	Signature string
	Fn        Callable
}

// NewHostFunction wraps fn as a first-class HostFunction value.
func NewHostFunction(signature string, fn Callable) *HostFunction {
	return &HostFunction{Signature: signature, Fn: fn}
}

func (f *HostFunction) sassValue()     {}
func (f *HostFunction) Len() int       { return 1 }
func (f *HostFunction) String() string { return fmt.Sprintf("<host-function %s>", f.Signature) }

func (f *HostFunction) Equal(o Value) bool {
	of, ok := o.(*HostFunction)
	if !ok {
		return false
	}
	return reflect.ValueOf(f.Fn).Pointer() == reflect.ValueOf(of.Fn).Pointer()
}

// AsHostFunction downcasts v to *HostFunction.
func AsHostFunction(v Value) (*HostFunction, error) {
	f, ok := v.(*HostFunction)
	if !ok {
		return nil, &DowncastError{Want: "host function", Got: v}
	}
	return f, nil
}

// Mixin is an opaque reference to a compiler-defined Sass mixin,
// identified by an id the compiler issued; like CompilerFunction it can be
// passed back into the compiler but never invoked directly by the host.
type Mixin struct {
	ID uint32
}

func (m *Mixin) sassValue()     {}
func (m *Mixin) Len() int       { return 1 }
func (m *Mixin) String() string { return fmt.Sprintf("<mixin %d>", m.ID) }
func (m *Mixin) Equal(o Value) bool {
	om, ok := o.(*Mixin)
	return ok && om.ID == m.ID
}

// AsMixin downcasts v to *Mixin.
func AsMixin(v Value) (*Mixin, error) {
	m, ok := v.(*Mixin)
	if !ok {
		return nil, &DowncastError{Want: "mixin", Got: v}
	}
	return m, nil
}
