// Package value implements the in-memory Sass value model shared by every
// host-defined function and importer callback: a small tagged-variant type
// with the equality, indexing, and visitor rules the Sass language defines
// over it.
//
// Values are produced by decoding a compiler message, by host code inside a
// function callback, or by one of the package-level constants (Null,
// True, False). They are immutable once constructed and never outlive the
// compilation that created them.
package value

import "fmt"

// Separator is the list/argument-list element separator.
type Separator int

const (
	SeparatorUndecided Separator = iota
	SeparatorComma
	SeparatorSpace
	SeparatorSlash
)

func (s Separator) String() string {
	switch s {
	case SeparatorComma:
		return ","
	case SeparatorSpace:
		return " "
	case SeparatorSlash:
		return "/"
	default:
		return ""
	}
}

// Value is implemented by every Sass value variant. It is a closed set:
// host code should switch on the concrete type (or use Visit) rather than
// implementing Value itself.
type Value interface {
	fmt.Stringer

	// sassValue is unexported so Value stays a closed set of variants
	// defined by this package.
	sassValue()

	// Len reports the value's length when treated as a single-element
	// list, per Sass's "every value is a length-1 list for indexing"
	// rule; List and ArgumentList override it with their real length.
	Len() int

	// Equal reports structural equality against another Value, per the
	// per-variant rules in §4.1: identity for singletons, reduced-unit
	// equality for Numbers, canonical-RGBA equality for Colors,
	// element-wise equality plus separator/bracket flags for Lists,
	// unordered-pair-set equality for Maps, and id/identity equality for
	// CompilerFunction/HostFunction.
	Equal(other Value) bool
}

// singleton is the shared implementation backing Null and the two
// Boolean constants; all three are canonical and compared by identity.
type singleton struct {
	name string
}

func (s *singleton) sassValue()      {}
func (s *singleton) Len() int        { return 1 }
func (s *singleton) String() string  { return s.name }
func (s *singleton) Equal(o Value) bool {
	os, ok := o.(*singleton)
	return ok && os == s
}

var (
	// Null is the canonical Sass null value. Equality is identity.
	Null Value = &singleton{name: "null"}
	// True is the canonical Sass boolean true. Equality is identity.
	True Value = &singleton{name: "true"}
	// False is the canonical Sass boolean false. Equality is identity.
	False Value = &singleton{name: "false"}
)

// Bool returns True or False for b.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// IsTruthy implements Sass truthiness: everything except null and false is
// truthy.
func IsTruthy(v Value) bool {
	return v != Null && v != False
}

// DowncastError is returned by the As* helpers when a Value is not of the
// requested variant.
type DowncastError struct {
	Want string
	Got  Value
}

func (e *DowncastError) Error() string {
	return fmt.Sprintf("value: expected %s, got %s (%T)", e.Want, e.Got, e.Got)
}

// sassIndex resolves a 1-based, possibly-negative Sass index against a list
// length, wrapping from the end. It does not bounds-check: callers compare
// the result against [1, length].
func sassIndex(i int, length int) int {
	if i < 0 {
		return length + i + 1
	}
	return i
}

// Visitor is implemented by host code that wants to handle every Value
// variant exhaustively; Visit dispatches v to the matching method.
type Visitor interface {
	VisitNull()
	VisitBoolean(b bool)
	VisitString(s *String)
	VisitNumber(n *Number)
	VisitColor(c *Color)
	VisitList(l *List)
	VisitArgumentList(l *ArgumentList)
	VisitMap(m *Map)
	VisitCompilerFunction(f *CompilerFunction)
	VisitHostFunction(f *HostFunction)
	VisitCalculation(c *Calculation)
	VisitMixin(m *Mixin)
}

// Visit dispatches v to the matching Visitor method.
func Visit(v Value, visitor Visitor) error {
	switch t := v.(type) {
	case *singleton:
		switch t {
		case Null:
			visitor.VisitNull()
		case True:
			visitor.VisitBoolean(true)
		case False:
			visitor.VisitBoolean(false)
		default:
			return fmt.Errorf("value: unknown singleton %q", t.name)
		}
	case *String:
		visitor.VisitString(t)
	case *Number:
		visitor.VisitNumber(t)
	case *Color:
		visitor.VisitColor(t)
	case *List:
		visitor.VisitList(t)
	case *ArgumentList:
		visitor.VisitArgumentList(t)
	case *Map:
		visitor.VisitMap(t)
	case *CompilerFunction:
		visitor.VisitCompilerFunction(t)
	case *HostFunction:
		visitor.VisitHostFunction(t)
	case *Calculation:
		visitor.VisitCalculation(t)
	case *Mixin:
		visitor.VisitMixin(t)
	default:
		return fmt.Errorf("value: unhandled value type %T", v)
	}
	return nil
}
