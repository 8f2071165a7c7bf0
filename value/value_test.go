package value_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/sassdriver/dartsass/value"
)

func TestSingletonsAreIdentity(t *testing.T) {
	c := qt.New(t)

	c.Assert(value.Null.Equal(value.Null), qt.Equals, true)
	c.Assert(value.True.Equal(value.True), qt.Equals, true)
	c.Assert(value.True.Equal(value.False), qt.Equals, false)
	c.Assert(value.Bool(true), qt.Equals, value.True)
	c.Assert(value.Bool(false), qt.Equals, value.False)
}

func TestIsTruthy(t *testing.T) {
	c := qt.New(t)

	c.Assert(value.IsTruthy(value.Null), qt.Equals, false)
	c.Assert(value.IsTruthy(value.False), qt.Equals, false)
	c.Assert(value.IsTruthy(value.True), qt.Equals, true)
	c.Assert(value.IsTruthy(value.NewNumber(0)), qt.Equals, true)
	c.Assert(value.IsTruthy(value.NewString("")), qt.Equals, true)
}

func TestValueLenDefaultsToOneForScalars(t *testing.T) {
	c := qt.New(t)

	c.Assert(value.NewNumber(1).Len(), qt.Equals, 1)
	c.Assert(value.NewString("x").Len(), qt.Equals, 1)
	c.Assert(value.Null.Len(), qt.Equals, 1)
}

type countingVisitor struct {
	sawNull, sawBool, sawNumber, sawList bool
}

func (v *countingVisitor) VisitNull()                                      { v.sawNull = true }
func (v *countingVisitor) VisitBoolean(b bool)                             { v.sawBool = true }
func (v *countingVisitor) VisitString(s *value.String)                     {}
func (v *countingVisitor) VisitNumber(n *value.Number)                     { v.sawNumber = true }
func (v *countingVisitor) VisitColor(c *value.Color)                       {}
func (v *countingVisitor) VisitList(l *value.List)                        { v.sawList = true }
func (v *countingVisitor) VisitArgumentList(l *value.ArgumentList)         {}
func (v *countingVisitor) VisitMap(m *value.Map)                          {}
func (v *countingVisitor) VisitCompilerFunction(f *value.CompilerFunction) {}
func (v *countingVisitor) VisitHostFunction(f *value.HostFunction)        {}
func (v *countingVisitor) VisitCalculation(c *value.Calculation)          {}
func (v *countingVisitor) VisitMixin(m *value.Mixin)                      {}

func TestVisitDispatchesPerVariant(t *testing.T) {
	c := qt.New(t)

	v := &countingVisitor{}
	c.Assert(value.Visit(value.Null, v), qt.IsNil)
	c.Assert(v.sawNull, qt.Equals, true)

	v = &countingVisitor{}
	c.Assert(value.Visit(value.True, v), qt.IsNil)
	c.Assert(v.sawBool, qt.Equals, true)

	v = &countingVisitor{}
	c.Assert(value.Visit(value.NewNumber(1), v), qt.IsNil)
	c.Assert(v.sawNumber, qt.Equals, true)

	lst, err := value.NewList([]value.Value{value.NewNumber(1)}, value.SeparatorComma, false)
	c.Assert(err, qt.IsNil)
	v = &countingVisitor{}
	c.Assert(value.Visit(lst, v), qt.IsNil)
	c.Assert(v.sawList, qt.Equals, true)
}

func TestDowncastHelpers(t *testing.T) {
	c := qt.New(t)

	_, err := value.AsNumber(value.NewString("x"))
	c.Assert(err, qt.Not(qt.IsNil))

	n, err := value.AsNumber(value.NewNumber(3))
	c.Assert(err, qt.IsNil)
	c.Assert(n.Value(), qt.Equals, 3.0)
}
