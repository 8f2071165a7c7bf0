package value_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/sassdriver/dartsass/value"
)

func TestNumberUnitsReduceOnConstruction(t *testing.T) {
	c := qt.New(t)

	// "px" appears in both numerator and denominator, so it must cancel.
	n := value.NewNumberWithUnits(5, []string{"px", "em"}, []string{"px"})
	c.Assert(n.Numerators(), qt.DeepEquals, []string{"em"})
	c.Assert(len(n.Denominators()), qt.Equals, 0)
}

func TestNumberEqualityRequiresExactUnitsAndValue(t *testing.T) {
	c := qt.New(t)

	a := value.NewNumberWithUnits(1, []string{"px"}, nil)
	b := value.NewNumberWithUnits(1, []string{"px"}, nil)
	d := value.NewNumberWithUnits(1, []string{"in"}, nil)
	e := value.NewNumberWithUnits(1.0000000001, []string{"px"}, nil)

	c.Assert(a.Equal(b), qt.Equals, true)
	c.Assert(a.Equal(d), qt.Equals, false)
	c.Assert(a.Equal(e), qt.Equals, false)
}

func TestNumberApproxEqualCoercesCompatibleUnits(t *testing.T) {
	c := qt.New(t)

	onePxIn := value.NewNumberWithUnits(96, []string{"px"}, nil)
	oneIn := value.NewNumberWithUnits(1, []string{"in"}, nil)
	c.Assert(onePxIn.ApproxEqual(oneIn), qt.Equals, true)

	oneCustom := value.NewNumberWithUnits(1, []string{"banana"}, nil)
	c.Assert(onePxIn.ApproxEqual(oneCustom), qt.Equals, false)
}

func TestNumberIntRequiresNearIntegerValue(t *testing.T) {
	c := qt.New(t)

	i, err := value.NewNumber(4).Int()
	c.Assert(err, qt.IsNil)
	c.Assert(i, qt.Equals, 4)

	i, err = value.NewNumber(4.0000000000001).Int()
	c.Assert(err, qt.IsNil)
	c.Assert(i, qt.Equals, 4)

	_, err = value.NewNumber(4.5).Int()
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestNumberCoerceRejectsIncompatibleDimensions(t *testing.T) {
	c := qt.New(t)

	n := value.NewNumberWithUnits(1, []string{"px"}, nil)
	_, err := n.Coerce([]string{"s"}, nil)
	c.Assert(err, qt.Not(qt.IsNil))

	converted, err := n.Coerce([]string{"in"}, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(converted.Value(), qt.Equals, 1.0/96.0)
}

func TestNumberUnitFallsBackToEmptyForCompoundUnits(t *testing.T) {
	c := qt.New(t)

	n := value.NewNumberWithUnits(1, []string{"px", "em"}, nil)
	c.Assert(n.Unit(), qt.Equals, "")
	c.Assert(n.HasUnits(), qt.Equals, true)

	single := value.NewNumberWithUnits(1, []string{"px"}, nil)
	c.Assert(single.Unit(), qt.Equals, "px")
}
