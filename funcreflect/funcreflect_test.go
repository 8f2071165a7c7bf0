package funcreflect_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/sassdriver/dartsass/funcreflect"
	"github.com/sassdriver/dartsass/value"
)

func TestRegisterScalarFunction(t *testing.T) {
	c := qt.New(t)

	double := func(x float64) (float64, error) { return x * 2, nil }
	callable, err := funcreflect.Register(double)
	c.Assert(err, qt.IsNil)

	result, err := callable([]value.Value{value.NewNumber(21)})
	c.Assert(err, qt.IsNil)
	n, err := value.AsNumber(result)
	c.Assert(err, qt.IsNil)
	c.Assert(n.Value(), qt.Equals, float64(42))
}

func TestRegisterStringAndBool(t *testing.T) {
	c := qt.New(t)

	shout := func(s string, upper bool) (string, error) {
		if upper {
			return s + "!", nil
		}
		return s, nil
	}
	callable, err := funcreflect.Register(shout)
	c.Assert(err, qt.IsNil)

	result, err := callable([]value.Value{value.NewString("hi"), value.True})
	c.Assert(err, qt.IsNil)
	s, err := value.AsString(result)
	c.Assert(err, qt.IsNil)
	c.Assert(s.Text, qt.Equals, "hi!")
}

func TestRegisterPropagatesFunctionError(t *testing.T) {
	c := qt.New(t)

	fail := func(x float64) (float64, error) { return 0, errors.New("boom") }
	callable, err := funcreflect.Register(fail)
	c.Assert(err, qt.IsNil)

	_, err = callable([]value.Value{value.NewNumber(1)})
	c.Assert(err, qt.ErrorMatches, "boom")
}

func TestRegisterRejectsNonFunction(t *testing.T) {
	c := qt.New(t)

	_, err := funcreflect.Register(42)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestRegisterRejectsWrongShape(t *testing.T) {
	c := qt.New(t)

	_, err := funcreflect.Register(func(x float64) float64 { return x })
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestRegisterSliceArgument(t *testing.T) {
	c := qt.New(t)

	sum := func(xs []float64) (float64, error) {
		var total float64
		for _, x := range xs {
			total += x
		}
		return total, nil
	}
	callable, err := funcreflect.Register(sum)
	c.Assert(err, qt.IsNil)

	list, err := value.NewList([]value.Value{value.NewNumber(1), value.NewNumber(2), value.NewNumber(3)}, value.SeparatorComma, false)
	c.Assert(err, qt.IsNil)

	result, err := callable([]value.Value{list})
	c.Assert(err, qt.IsNil)
	n, err := value.AsNumber(result)
	c.Assert(err, qt.IsNil)
	c.Assert(n.Value(), qt.Equals, float64(6))
}

func TestSignatureName(t *testing.T) {
	c := qt.New(t)

	name, err := funcreflect.SignatureName("double($x)")
	c.Assert(err, qt.IsNil)
	c.Assert(name, qt.Equals, "double")

	_, err = funcreflect.SignatureName("no-parens")
	c.Assert(err, qt.Not(qt.IsNil))
}
