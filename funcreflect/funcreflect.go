// Package funcreflect adapts ordinary Go functions into value.Callables by
// reflection, generalizing the teacher's functions.FunctionRegistry (which
// did the same against the older embeddedsassv1 wire type) to marshal and
// unmarshal against the public value.Value model instead, so host code can
// register "func(x int) (int, error)" directly rather than hand-writing a
// value.Callable.
package funcreflect

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/sassdriver/dartsass/value"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Register reflects over fn (which must have the shape func(args...) (T,
// error)) and returns a value.Callable that unmarshals each wire-decoded
// value.Value argument into fn's matching parameter type, calls fn, and
// marshals its result back into a value.Value.
func Register(fn any) (value.Callable, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, fmt.Errorf("funcreflect: fn must be a function, got %T", fn)
	}
	t := v.Type()
	if t.NumOut() != 2 || !t.Out(1).Implements(errorType) {
		return nil, fmt.Errorf("funcreflect: fn must return (T, error), got %s", t)
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("funcreflect: variadic functions are not supported")
	}

	return func(args []value.Value) (value.Value, error) {
		if len(args) != t.NumIn() {
			return nil, fmt.Errorf("funcreflect: expected %d arguments, got %d", t.NumIn(), len(args))
		}
		in := make([]reflect.Value, t.NumIn())
		for i := range args {
			rv, err := Unmarshal(args[i], t.In(i))
			if err != nil {
				return nil, fmt.Errorf("funcreflect: argument %d: %w", i, err)
			}
			in[i] = rv
		}
		out := v.Call(in)
		if errv := out[1]; !errv.IsNil() {
			return nil, errv.Interface().(error)
		}
		return Marshal(out[0])
	}, nil
}

// SignatureName extracts the callable name from a Sass function signature
// such as "double($x)" -> "double", matching the teacher's convention of
// indexing the map by bare name while keeping the full signature string
// for CompileRequest.GlobalFunctions.
func SignatureName(signature string) (string, error) {
	openParen := strings.IndexRune(signature, '(')
	if openParen == -1 {
		return "", fmt.Errorf("funcreflect: %q is missing %q", signature, "(")
	}
	return signature[:openParen], nil
}

// Marshal converts a reflected Go value into its value.Value
// representation: string, bool, nil, numeric kinds, *value.Number,
// *value.Color, slices (-> value.List), and maps (-> value.Map) with
// string or Value-valued keys.
func Marshal(rv reflect.Value) (value.Value, error) {
	if !rv.IsValid() {
		return value.Null, nil
	}

	switch c := rv.Interface().(type) {
	case value.Value:
		return c, nil
	case string:
		return value.NewString(c), nil
	case bool:
		return value.Bool(c), nil
	case nil:
		return value.Null, nil
	case *value.Number:
		return c, nil
	case *value.Color:
		return c, nil
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.NewNumber(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.NewNumber(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return value.NewNumber(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		elems := make([]value.Value, rv.Len())
		for i := range elems {
			ev, err := Marshal(rv.Index(i))
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return value.NewList(elems, value.SeparatorComma, false)
	case reflect.Map:
		var entries []value.MapEntry
		iter := rv.MapRange()
		for iter.Next() {
			k, err := Marshal(iter.Key())
			if err != nil {
				return nil, err
			}
			v, err := Marshal(iter.Value())
			if err != nil {
				return nil, err
			}
			entries = append(entries, value.MapEntry{Key: k, Value: v})
		}
		return value.NewMap(entries)
	case reflect.Ptr:
		if rv.IsNil() {
			return value.Null, nil
		}
		return Marshal(rv.Elem())
	}

	return nil, fmt.Errorf("funcreflect: cannot marshal %s into a Sass value", rv.Type())
}

// Unmarshal converts a decoded value.Value into a reflect.Value assignable
// to a parameter of type want.
func Unmarshal(v value.Value, want reflect.Type) (reflect.Value, error) {
	if want.Implements(reflect.TypeOf((*value.Value)(nil)).Elem()) {
		return reflect.ValueOf(v), nil
	}

	switch want.Kind() {
	case reflect.String:
		s, err := value.AsString(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(s.Text).Convert(want), nil
	case reflect.Bool:
		return reflect.ValueOf(value.IsTruthy(v)).Convert(want), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := value.AsNumber(v)
		if err != nil {
			return reflect.Value{}, err
		}
		i, err := n.Int()
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(i).Convert(want), nil
	case reflect.Float32, reflect.Float64:
		n, err := value.AsNumber(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n.Value()).Convert(want), nil
	case reflect.Slice:
		l, err := value.AsList(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.MakeSlice(want, 0, l.Len())
		for _, e := range l.Elements() {
			ev, err := Unmarshal(e, want.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out = reflect.Append(out, ev)
		}
		return out, nil
	case reflect.Map:
		m, err := value.AsMap(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.MakeMapWithSize(want, len(m.Entries()))
		for _, e := range m.Entries() {
			var kv reflect.Value
			if want.Key().Kind() == reflect.String {
				ks, err := value.AsString(e.Key)
				if err != nil {
					return reflect.Value{}, err
				}
				kv = reflect.ValueOf(ks.Text).Convert(want.Key())
			} else {
				kv, err = Unmarshal(e.Key, want.Key())
				if err != nil {
					return reflect.Value{}, err
				}
			}
			vv, err := Unmarshal(e.Value, want.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out.SetMapIndex(kv, vv)
		}
		return out, nil
	}

	return reflect.Value{}, fmt.Errorf("funcreflect: cannot unmarshal a Sass value into %s", want)
}
