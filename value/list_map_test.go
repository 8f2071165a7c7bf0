package value_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/sassdriver/dartsass/value"
)

func TestListSeparatorUndecidedOnlyAllowedForShortLists(t *testing.T) {
	c := qt.New(t)

	_, err := value.NewList(nil, value.SeparatorUndecided, false)
	c.Assert(err, qt.IsNil)

	_, err = value.NewList([]value.Value{value.NewNumber(1)}, value.SeparatorUndecided, false)
	c.Assert(err, qt.IsNil)

	_, err = value.NewList([]value.Value{value.NewNumber(1), value.NewNumber(2)}, value.SeparatorUndecided, false)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestListAtResolvesNegativeSassIndices(t *testing.T) {
	c := qt.New(t)

	l, err := value.NewList([]value.Value{value.NewNumber(1), value.NewNumber(2), value.NewNumber(3)}, value.SeparatorComma, false)
	c.Assert(err, qt.IsNil)

	v, err := l.At(1)
	c.Assert(err, qt.IsNil)
	c.Assert(v.(*value.Number).Value(), qt.Equals, 1.0)

	v, err = l.At(-1)
	c.Assert(err, qt.IsNil)
	c.Assert(v.(*value.Number).Value(), qt.Equals, 3.0)

	_, err = l.At(4)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestListEqualityComparesSeparatorAndBrackets(t *testing.T) {
	c := qt.New(t)

	a, _ := value.NewList([]value.Value{value.NewNumber(1)}, value.SeparatorComma, false)
	b, _ := value.NewList([]value.Value{value.NewNumber(1)}, value.SeparatorSpace, false)
	d, _ := value.NewList([]value.Value{value.NewNumber(1)}, value.SeparatorComma, true)
	e, _ := value.NewList([]value.Value{value.NewNumber(1)}, value.SeparatorComma, false)

	c.Assert(a.Equal(b), qt.Equals, false)
	c.Assert(a.Equal(d), qt.Equals, false)
	c.Assert(a.Equal(e), qt.Equals, true)
}

func TestArgumentListIteratesOnlyPositionalElements(t *testing.T) {
	c := qt.New(t)

	al, err := value.NewArgumentList(
		[]value.Value{value.NewNumber(1), value.NewNumber(2)},
		value.SeparatorComma,
		[]string{"color"},
		map[string]value.Value{"color": value.NewString("red")},
	)
	c.Assert(err, qt.IsNil)
	c.Assert(al.Len(), qt.Equals, 2)

	v, ok := al.Keyword("color")
	c.Assert(ok, qt.Equals, true)
	c.Assert(v.(*value.String).Text, qt.Equals, "red")

	_, ok = al.Keyword("missing")
	c.Assert(ok, qt.Equals, false)
}

func TestArgumentListRejectsDuplicateKeywordNames(t *testing.T) {
	c := qt.New(t)

	_, err := value.NewArgumentList(nil, value.SeparatorComma,
		[]string{"x", "x"},
		map[string]value.Value{"x": value.NewNumber(1)},
	)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestMapPreservesInsertionOrderAndRejectsDuplicateKeys(t *testing.T) {
	c := qt.New(t)

	m, err := value.NewMap([]value.MapEntry{
		{Key: value.NewString("a"), Value: value.NewNumber(1)},
		{Key: value.NewString("b"), Value: value.NewNumber(2)},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(m.Entries()[0].Key.(*value.String).Text, qt.Equals, "a")
	c.Assert(m.Entries()[1].Key.(*value.String).Text, qt.Equals, "b")

	v, ok := m.Get(value.NewString("b"))
	c.Assert(ok, qt.Equals, true)
	c.Assert(v.(*value.Number).Value(), qt.Equals, 2.0)

	_, err = value.NewMap([]value.MapEntry{
		{Key: value.NewString("a"), Value: value.NewNumber(1)},
		{Key: value.NewString("a"), Value: value.NewNumber(2)},
	})
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestMapEqualityIsOrderIndependent(t *testing.T) {
	c := qt.New(t)

	a, _ := value.NewMap([]value.MapEntry{
		{Key: value.NewString("a"), Value: value.NewNumber(1)},
		{Key: value.NewString("b"), Value: value.NewNumber(2)},
	})
	b, _ := value.NewMap([]value.MapEntry{
		{Key: value.NewString("b"), Value: value.NewNumber(2)},
		{Key: value.NewString("a"), Value: value.NewNumber(1)},
	})

	c.Assert(a.Equal(b), qt.Equals, true)
}
