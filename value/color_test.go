package value_test

import (
	"errors"
	"math"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/sassdriver/dartsass/value"
)

func TestColorConstructorsClampOutOfRangeChannels(t *testing.T) {
	c := qt.New(t)

	col, err := value.NewRGBColor(300, -10, 0, 0.5)
	c.Assert(err, qt.Not(qt.IsNil))
	r, g, _ := col.RGB()
	c.Assert(r, qt.Equals, 255.0)
	c.Assert(g, qt.Equals, 0.0)

	var chErr *value.ColorChannelError
	c.Assert(errors.As(err, &chErr), qt.Equals, true)
	c.Assert(chErr.Channel, qt.Equals, "red")
}

func TestColorRoundTripsAcrossRepresentations(t *testing.T) {
	c := qt.New(t)

	rgb, err := value.NewRGBColor(51, 102, 204, 1)
	c.Assert(err, qt.IsNil)

	h, s, l := rgb.HSL()
	hsl, err := value.NewHSLColor(h, s, l, 1)
	c.Assert(err, qt.IsNil)

	r1, g1, b1 := rgb.RGB()
	r2, g2, b2 := hsl.RGB()
	c.Assert(math.Abs(r1-r2) < 0.01, qt.Equals, true)
	c.Assert(math.Abs(g1-g2) < 0.01, qt.Equals, true)
	c.Assert(math.Abs(b1-b2) < 0.01, qt.Equals, true)
}

func TestColorEqualityComparesCanonicalRGBA(t *testing.T) {
	c := qt.New(t)

	a, _ := value.NewRGBColor(10, 20, 30, 0.5)
	b, _ := value.NewHSLColor(0, 0, 0, 1) // distinct color
	c.Assert(a.Equal(b), qt.Equals, false)

	same, _ := value.NewRGBColor(10, 20, 30, 0.5)
	c.Assert(a.Equal(same), qt.Equals, true)
}

func TestHWBGrayscaleWhenWhitenessAndBlacknessSaturate(t *testing.T) {
	c := qt.New(t)

	col, err := value.NewHWBColor(200, 60, 60, 1)
	c.Assert(err, qt.IsNil)
	r, g, b := col.RGB()
	c.Assert(r, qt.Equals, g)
	c.Assert(g, qt.Equals, b)
}
