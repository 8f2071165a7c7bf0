package wire_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/sassdriver/dartsass/internal/wire"
	"github.com/sassdriver/dartsass/value"
)

// roundTrip asserts the §8 invariant 1 property: decode(encode(v)) == v
// (structural equality) for every value.Value variant.
func roundTrip(c *qt.C, v value.Value) {
	w, err := wire.ToWire(v)
	c.Assert(err, qt.IsNil)
	got, err := wire.FromWire(w)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Equal(v), qt.Equals, true)
}

func TestRoundTripSingletonsAndScalars(t *testing.T) {
	c := qt.New(t)

	roundTrip(c, value.Null)
	roundTrip(c, value.True)
	roundTrip(c, value.False)
	roundTrip(c, value.NewString("hello"))
	roundTrip(c, value.NewUnquotedString("bold"))
}

func TestRoundTripNumbersWithUnits(t *testing.T) {
	c := qt.New(t)

	roundTrip(c, value.NewNumber(42))
	roundTrip(c, value.NewNumberWithUnits(10, []string{"px"}, nil))
	roundTrip(c, value.NewNumberWithUnits(10, []string{"px"}, []string{"s"}))
	roundTrip(c, value.NewNumberWithUnits(10, []string{"px", "em"}, nil))
}

func TestRoundTripColor(t *testing.T) {
	c := qt.New(t)

	col, err := value.NewRGBColor(10, 20, 30, 0.75)
	c.Assert(err, qt.IsNil)
	roundTrip(c, col)
}

func TestRoundTripListEverySeparatorAndBrackets(t *testing.T) {
	c := qt.New(t)

	for _, sep := range []value.Separator{value.SeparatorComma, value.SeparatorSpace, value.SeparatorSlash} {
		for _, brackets := range []bool{true, false} {
			l, err := value.NewList([]value.Value{value.NewNumber(1), value.NewNumber(2)}, sep, brackets)
			c.Assert(err, qt.IsNil)
			roundTrip(c, l)
		}
	}

	// Length <= 1 list can carry SeparatorUndecided.
	one, err := value.NewList([]value.Value{value.NewNumber(1)}, value.SeparatorUndecided, false)
	c.Assert(err, qt.IsNil)
	roundTrip(c, one)
}

func TestRoundTripArgumentListWithKeywords(t *testing.T) {
	c := qt.New(t)

	al, err := value.NewArgumentList(
		[]value.Value{value.NewNumber(1), value.NewNumber(2)},
		value.SeparatorComma,
		[]string{"color", "width"},
		map[string]value.Value{
			"color": value.NewString("red"),
			"width": value.NewNumberWithUnits(2, []string{"px"}, nil),
		},
	)
	c.Assert(err, qt.IsNil)
	roundTrip(c, al)
}

func TestRoundTripMapWithValueKeys(t *testing.T) {
	c := qt.New(t)

	m, err := value.NewMap([]value.MapEntry{
		{Key: value.NewString("a"), Value: value.NewNumber(1)},
		{Key: value.NewNumber(2), Value: value.NewString("two")},
	})
	c.Assert(err, qt.IsNil)
	roundTrip(c, m)
}

func TestRoundTripCompilerFunctionAndMixin(t *testing.T) {
	c := qt.New(t)

	roundTrip(c, &value.CompilerFunction{ID: 7})
	roundTrip(c, &value.Mixin{ID: 3})
}

func TestRoundTripHostFunctionBySignature(t *testing.T) {
	c := qt.New(t)

	hf := value.NewHostFunction("double($x)", func(args []value.Value) (value.Value, error) {
		return args[0], nil
	})
	w, err := wire.ToWire(hf)
	c.Assert(err, qt.IsNil)
	got, err := wire.FromWire(w)
	c.Assert(err, qt.IsNil)
	back, ok := got.(*value.HostFunction)
	c.Assert(ok, qt.Equals, true)
	c.Assert(back.Signature, qt.Equals, hf.Signature)
}

func TestRoundTripCalculation(t *testing.T) {
	c := qt.New(t)

	calc := &value.Calculation{
		Name: "calc",
		Arguments: []*value.CalcOperand{
			{
				Operation: &value.CalcOperation{
					Operator: value.CalcPlus,
					Left:     &value.CalcOperand{Number: value.NewNumberWithUnits(1, []string{"px"}, nil)},
					Right:    &value.CalcOperand{Number: value.NewNumber(2)},
				},
			},
		},
	}
	roundTrip(c, calc)
}

func TestToWireRejectsDeeplyCyclicLists(t *testing.T) {
	c := qt.New(t)

	// Build a list that nests well past maxEncodeDepth via a long chain
	// of singleton lists, simulating the self-referential structure a
	// host function could otherwise construct.
	var v value.Value = value.NewNumber(0)
	for i := 0; i < 2000; i++ {
		l, err := value.NewList([]value.Value{v}, value.SeparatorUndecided, false)
		c.Assert(err, qt.IsNil)
		v = l
	}

	_, err := wire.ToWire(v)
	c.Assert(err, qt.Not(qt.IsNil))
	var cycleErr *value.CycleError
	c.Assert(errors.As(err, &cycleErr), qt.Equals, true)
}
