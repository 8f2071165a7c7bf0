// Package wire converts between the public value.Value model (C1) and the
// wire-level embeddedsass.Value message (C2), the way the teacher's
// functions.MarshalValue/UnmarshalValue pair does for its reflection-based
// value model, generalized to this module's richer in-memory variants
// (colors in three representations, argument lists, calculations, mixins).
package wire

import (
	"fmt"

	"github.com/sassdriver/dartsass/internal/embeddedsass"
	"github.com/sassdriver/dartsass/value"
)

// maxEncodeDepth bounds List/Map recursion during ToWire so that a host
// function returning a self-referential List or Map fails cleanly with a
// CycleError instead of overflowing the stack, per §9 "Cycle detection in
// user values".
const maxEncodeDepth = 1000

// ToWire encodes a value.Value into its wire representation.
func ToWire(v value.Value) (*embeddedsass.Value, error) {
	return toWire(v, 0)
}

func toWire(v value.Value, depth int) (*embeddedsass.Value, error) {
	if depth > maxEncodeDepth {
		return nil, &value.CycleError{}
	}

	switch t := v.(type) {
	case nil:
		return nullWire(), nil
	case *value.String:
		return &embeddedsass.Value{String_: &embeddedsass.ValueString{Text: t.Text, Quoted: t.Quoted}}, nil
	case *value.Number:
		return &embeddedsass.Value{Number: &embeddedsass.ValueNumber{
			Value:        t.Value(),
			Numerators:   t.Numerators(),
			Denominators: t.Denominators(),
		}}, nil
	case *value.Color:
		return colorToWire(t), nil
	case *value.ArgumentList:
		return argumentListToWire(t, depth)
	case *value.List:
		return listToWire(t, depth)
	case *value.Map:
		return mapToWire(t, depth)
	case *value.CompilerFunction:
		return &embeddedsass.Value{CompilerFunction: &embeddedsass.ValueCompilerFunction{Id: t.ID}}, nil
	case *value.HostFunction:
		return &embeddedsass.Value{HostFunction: &embeddedsass.ValueHostFunction{Signature: t.Signature}}, nil
	case *value.Calculation:
		return calculationToWire(t)
	case *value.Mixin:
		return &embeddedsass.Value{Mixin: &embeddedsass.ValueMixin{Id: t.ID}}, nil
	}

	if v == value.Null {
		return nullWire(), nil
	}
	if v == value.True {
		return boolWire(true), nil
	}
	if v == value.False {
		return boolWire(false), nil
	}

	return nil, fmt.Errorf("wire: cannot encode value of type %T", v)
}

func nullWire() *embeddedsass.Value {
	s := embeddedsass.SingletonNull
	return &embeddedsass.Value{Singleton: &s}
}

func boolWire(b bool) *embeddedsass.Value {
	s := embeddedsass.SingletonFalse
	if b {
		s = embeddedsass.SingletonTrue
	}
	return &embeddedsass.Value{Singleton: &s}
}

func colorToWire(c *value.Color) *embeddedsass.Value {
	r, g, b := c.RGB()
	return &embeddedsass.Value{RgbColor: &embeddedsass.ValueRGBColor{
		Red: uint32(r), Green: uint32(g), Blue: uint32(b), Alpha: c.Alpha(),
	}}
}

func sepToWire(s value.Separator) embeddedsass.ListSeparator {
	switch s {
	case value.SeparatorComma:
		return embeddedsass.ListSeparatorComma
	case value.SeparatorSpace:
		return embeddedsass.ListSeparatorSpace
	case value.SeparatorSlash:
		return embeddedsass.ListSeparatorSlash
	default:
		return embeddedsass.ListSeparatorUndecided
	}
}

func sepFromWire(s embeddedsass.ListSeparator) value.Separator {
	switch s {
	case embeddedsass.ListSeparatorComma:
		return value.SeparatorComma
	case embeddedsass.ListSeparatorSpace:
		return value.SeparatorSpace
	case embeddedsass.ListSeparatorSlash:
		return value.SeparatorSlash
	default:
		return value.SeparatorUndecided
	}
}

func listToWire(l *value.List, depth int) (*embeddedsass.Value, error) {
	contents := make([]*embeddedsass.Value, 0, l.Len())
	for _, e := range l.Elements() {
		w, err := toWire(e, depth+1)
		if err != nil {
			return nil, err
		}
		contents = append(contents, w)
	}
	return &embeddedsass.Value{List: &embeddedsass.ValueList{
		Separator:   sepToWire(l.Separator()),
		HasBrackets: l.HasBrackets(),
		Contents:    contents,
	}}, nil
}

func argumentListToWire(a *value.ArgumentList, depth int) (*embeddedsass.Value, error) {
	contents := make([]*embeddedsass.Value, 0, a.Len())
	for _, e := range a.Elements() {
		w, err := toWire(e, depth+1)
		if err != nil {
			return nil, err
		}
		contents = append(contents, w)
	}
	var keywords []*embeddedsass.ValueArgumentListKeyword
	for _, name := range a.KeywordNames() {
		v, _ := a.Keyword(name)
		w, err := toWire(v, depth+1)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, &embeddedsass.ValueArgumentListKeyword{Name: name, Value: w})
	}
	return &embeddedsass.Value{ArgumentList: &embeddedsass.ValueArgumentList{
		Separator: sepToWire(a.Separator()),
		Contents:  contents,
		Keywords:  keywords,
	}}, nil
}

func mapToWire(m *value.Map, depth int) (*embeddedsass.Value, error) {
	var entries []*embeddedsass.ValueMapEntry
	for _, e := range m.Entries() {
		k, err := toWire(e.Key, depth+1)
		if err != nil {
			return nil, err
		}
		v, err := toWire(e.Value, depth+1)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &embeddedsass.ValueMapEntry{Key: k, Value: v})
	}
	return &embeddedsass.Value{Map: &embeddedsass.ValueMap{Entries: entries}}, nil
}

func calcOperatorToWire(op value.CalcOperator) embeddedsass.CalculationOperator {
	switch op {
	case value.CalcMinus:
		return embeddedsass.CalcOpMinus
	case value.CalcTimes:
		return embeddedsass.CalcOpTimes
	case value.CalcDividedBy:
		return embeddedsass.CalcOpDividedBy
	default:
		return embeddedsass.CalcOpPlus
	}
}

func calcOperatorFromWire(op embeddedsass.CalculationOperator) value.CalcOperator {
	switch op {
	case embeddedsass.CalcOpMinus:
		return value.CalcMinus
	case embeddedsass.CalcOpTimes:
		return value.CalcTimes
	case embeddedsass.CalcOpDividedBy:
		return value.CalcDividedBy
	default:
		return value.CalcPlus
	}
}

func calcOperandToWire(o *value.CalcOperand) *embeddedsass.ValueCalculationValue {
	switch {
	case o.Number != nil:
		return &embeddedsass.ValueCalculationValue{Number: &embeddedsass.ValueNumber{
			Value: o.Number.Value(), Numerators: o.Number.Numerators(), Denominators: o.Number.Denominators(),
		}}
	case o.Operation != nil:
		return &embeddedsass.ValueCalculationValue{Operation: &embeddedsass.ValueCalculationOperation{
			Operator: calcOperatorToWire(o.Operation.Operator),
			Left:     calcOperandToWire(o.Operation.Left),
			Right:    calcOperandToWire(o.Operation.Right),
		}}
	case o.Interpolation != "":
		return &embeddedsass.ValueCalculationValue{Interpolation: o.Interpolation}
	default:
		return &embeddedsass.ValueCalculationValue{String_: o.Str}
	}
}

func calcOperandFromWire(w *embeddedsass.ValueCalculationValue) *value.CalcOperand {
	switch {
	case w.Number != nil:
		return &value.CalcOperand{Number: value.NewNumberWithUnits(w.Number.Value, w.Number.Numerators, w.Number.Denominators)}
	case w.Operation != nil:
		return &value.CalcOperand{Operation: &value.CalcOperation{
			Operator: calcOperatorFromWire(w.Operation.Operator),
			Left:     calcOperandFromWire(w.Operation.Left),
			Right:    calcOperandFromWire(w.Operation.Right),
		}}
	case w.Interpolation != "":
		return &value.CalcOperand{Interpolation: w.Interpolation}
	default:
		return &value.CalcOperand{Str: w.String_}
	}
}

func calculationToWire(c *value.Calculation) (*embeddedsass.Value, error) {
	args := make([]*embeddedsass.ValueCalculationValue, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = calcOperandToWire(a)
	}
	return &embeddedsass.Value{Calculation: &embeddedsass.ValueCalculation{Name: c.Name, Arguments: args}}, nil
}

// FromWire decodes a wire Value into a value.Value.
func FromWire(w *embeddedsass.Value) (value.Value, error) {
	switch {
	case w.Singleton != nil:
		switch *w.Singleton {
		case embeddedsass.SingletonTrue:
			return value.True, nil
		case embeddedsass.SingletonFalse:
			return value.False, nil
		default:
			return value.Null, nil
		}
	case w.String_ != nil:
		return &value.String{Text: w.String_.Text, Quoted: w.String_.Quoted}, nil
	case w.Number != nil:
		return value.NewNumberWithUnits(w.Number.Value, w.Number.Numerators, w.Number.Denominators), nil
	case w.RgbColor != nil:
		c, _ := value.NewRGBColor(float64(w.RgbColor.Red), float64(w.RgbColor.Green), float64(w.RgbColor.Blue), w.RgbColor.Alpha)
		return c, nil
	case w.HslColor != nil:
		c, _ := value.NewHSLColor(w.HslColor.Hue, w.HslColor.Saturation, w.HslColor.Lightness, w.HslColor.Alpha)
		return c, nil
	case w.HwbColor != nil:
		c, _ := value.NewHWBColor(w.HwbColor.Hue, w.HwbColor.Whiteness, w.HwbColor.Blackness, w.HwbColor.Alpha)
		return c, nil
	case w.List != nil:
		elems := make([]value.Value, len(w.List.Contents))
		for i, e := range w.List.Contents {
			v, err := FromWire(e)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return value.NewList(elems, sepFromWire(w.List.Separator), w.List.HasBrackets)
	case w.Map != nil:
		entries := make([]value.MapEntry, len(w.Map.Entries))
		for i, e := range w.Map.Entries {
			k, err := FromWire(e.Key)
			if err != nil {
				return nil, err
			}
			v, err := FromWire(e.Value)
			if err != nil {
				return nil, err
			}
			entries[i] = value.MapEntry{Key: k, Value: v}
		}
		return value.NewMap(entries)
	case w.ArgumentList != nil:
		elems := make([]value.Value, len(w.ArgumentList.Contents))
		for i, e := range w.ArgumentList.Contents {
			v, err := FromWire(e)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		names := make([]string, len(w.ArgumentList.Keywords))
		kw := make(map[string]value.Value, len(w.ArgumentList.Keywords))
		for i, k := range w.ArgumentList.Keywords {
			v, err := FromWire(k.Value)
			if err != nil {
				return nil, err
			}
			names[i] = k.Name
			kw[k.Name] = v
		}
		return value.NewArgumentList(elems, sepFromWire(w.ArgumentList.Separator), names, kw)
	case w.CompilerFunction != nil:
		return &value.CompilerFunction{ID: w.CompilerFunction.Id}, nil
	case w.HostFunction != nil:
		return &value.HostFunction{Signature: w.HostFunction.Signature}, nil
	case w.Calculation != nil:
		args := make([]*value.CalcOperand, len(w.Calculation.Arguments))
		for i, a := range w.Calculation.Arguments {
			args[i] = calcOperandFromWire(a)
		}
		return &value.Calculation{Name: w.Calculation.Name, Arguments: args}, nil
	case w.Mixin != nil:
		return &value.Mixin{ID: w.Mixin.Id}, nil
	default:
		return value.Null, nil
	}
}
