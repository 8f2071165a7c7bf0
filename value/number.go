package value

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// numericTolerance is the maximum allowed drift between a Number's value
// and an integer for Number.Int to still treat it as exact, and the
// tolerance ApproxEqual uses for unit-aware numeric comparison.
const numericTolerance = 1e-11

// Number is a Sass number: a float64 magnitude plus a reduced unit
// fraction (numerator units over denominator units). Construction always
// reduces the fraction so that no unit name appears on both sides.
type Number struct {
	value        float64
	numerators   []string
	denominators []string
}

// NewNumber constructs a unitless number.
func NewNumber(v float64) *Number { return &Number{value: v} }

// NewNumberWithUnits constructs a number with the given numerator and
// denominator units, reducing any unit that appears on both sides.
func NewNumberWithUnits(v float64, numerators, denominators []string) *Number {
	n := &Number{value: v, numerators: append([]string(nil), numerators...), denominators: append([]string(nil), denominators...)}
	n.reduce()
	return n
}

// reduce cancels any unit name appearing in both the numerator and
// denominator lists, per the invariant that a Number's unit fraction is
// kept in lowest terms.
func (n *Number) reduce() {
	var num []string
	denom := append([]string(nil), n.denominators...)
	for _, u := range n.numerators {
		if i := indexOf(denom, u); i >= 0 {
			denom = append(denom[:i], denom[i+1:]...)
			continue
		}
		num = append(num, u)
	}
	n.numerators = num
	n.denominators = denom
}

func indexOf(ss []string, s string) int {
	for i, x := range ss {
		if x == s {
			return i
		}
	}
	return -1
}

func (n *Number) sassValue() {}
func (n *Number) Len() int   { return 1 }

func (n *Number) Value() float64        { return n.value }
func (n *Number) Numerators() []string   { return append([]string(nil), n.numerators...) }
func (n *Number) Denominators() []string { return append([]string(nil), n.denominators...) }

// Unit reports the canonical single-unit name ("px", "s", ...) when the
// number has exactly one numerator unit and no denominator units, the
// common case. It reports "" for unitless or compound-unit numbers.
func (n *Number) Unit() string {
	if len(n.numerators) == 1 && len(n.denominators) == 0 {
		return n.numerators[0]
	}
	return ""
}

func (n *Number) HasUnits() bool {
	return len(n.numerators) > 0 || len(n.denominators) > 0
}

func (n *Number) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v", n.value)
	if len(n.numerators) > 0 {
		b.WriteString(strings.Join(n.numerators, "*"))
	}
	if len(n.denominators) > 0 {
		b.WriteByte('/')
		b.WriteString(strings.Join(n.denominators, "*"))
	}
	return b.String()
}

func sortedCopy(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Strings(out)
	return out
}

// Equal requires identical reduced unit lists (order-insensitive) and
// exact double equality, per §4.1: "no fuzzy tolerance in equality".
func (n *Number) Equal(o Value) bool {
	on, ok := o.(*Number)
	if !ok {
		return false
	}
	if n.value != on.value {
		return false
	}
	return unitSetsEqual(n.numerators, on.numerators) && unitSetsEqual(n.denominators, on.denominators)
}

func unitSetsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as, bs := sortedCopy(a), sortedCopy(b)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// ApproxEqual is the unit-aware "≈" comparison from §4.1: same dimension
// (after coercion) and values within numericTolerance.
func (n *Number) ApproxEqual(o *Number) bool {
	target, err := o.Coerce(n.numerators, n.denominators)
	if err != nil {
		return false
	}
	return math.Abs(n.value-target.value) < numericTolerance
}

// Int returns the number's value rounded to an integer, failing with a
// NumericRangeError when the number is not within numericTolerance of an
// integer.
func (n *Number) Int() (int, error) {
	r := math.Round(n.value)
	if math.Abs(n.value-r) >= numericTolerance {
		return 0, &NumericRangeError{Value: n.value, Reason: "is not an integer"}
	}
	return int(r), nil
}

// cssUnitToCanonical maps every known CSS unit to a (dimension, ratio to
// canonical-unit-of-that-dimension) pair, so that e.g. "in" <-> "px" can be
// converted by fixed ratios. Units outside this table are only compatible
// with themselves (arbitrary unit names never convert).
var cssUnitToCanonical = map[string]struct {
	dimension string
	toCanon   float64
}{
	// Length, canonical unit: px.
	"px": {"length", 1},
	"in": {"length", 96},
	"pt": {"length", 96.0 / 72.0},
	"pc": {"length", 16},
	"cm": {"length", 96.0 / 2.54},
	"mm": {"length", 96.0 / 25.4},
	"q":  {"length", 96.0 / 101.6},
	// Angle, canonical unit: deg.
	"deg":  {"angle", 1},
	"grad": {"angle", 0.9},
	"rad":  {"angle", 180 / math.Pi},
	"turn": {"angle", 360},
	// Time, canonical unit: s.
	"s":  {"time", 1},
	"ms": {"time", 0.001},
	// Frequency, canonical unit: Hz.
	"hz":  {"frequency", 1},
	"khz": {"frequency", 1000},
	// Resolution, canonical unit: dpi.
	"dpi":  {"resolution", 1},
	"dpcm": {"resolution", 2.54},
	"dppx": {"resolution", 96},
}

// Coerce converts n to the given target numerator/denominator unit lists
// when the dimensional analysis matches: each target unit must be in the
// same CSS dimension family as the unit it replaces, or be textually
// identical for unit names outside the known CSS table.
func (n *Number) Coerce(numerators, denominators []string) (*Number, error) {
	factor := 1.0
	f, err := conversionFactor(n.numerators, numerators)
	if err != nil {
		return nil, err
	}
	factor *= f
	f, err = conversionFactor(n.denominators, denominators)
	if err != nil {
		return nil, err
	}
	factor /= f
	return &Number{value: n.value * factor, numerators: append([]string(nil), numerators...), denominators: append([]string(nil), denominators...)}, nil
}

// conversionFactor computes the multiplier taking a value expressed in
// `from` units to one expressed in `to` units, requiring both lists to
// have matching length and each pairwise unit to share a CSS dimension
// (or be textually identical for unknown unit names).
func conversionFactor(from, to []string) (float64, error) {
	if len(from) != len(to) {
		return 0, &UnitMismatchError{From: from, To: to}
	}
	factor := 1.0
	usedTo := make([]bool, len(to))
	for _, fu := range from {
		matched := false
		for i, tu := range to {
			if usedTo[i] {
				continue
			}
			f, ok := unitRatio(fu, tu)
			if !ok {
				continue
			}
			factor *= f
			usedTo[i] = true
			matched = true
			break
		}
		if !matched {
			return 0, &UnitMismatchError{From: from, To: to}
		}
	}
	return factor, nil
}

// unitRatio reports the multiplier converting one `from` unit to one `to`
// unit, and whether the two units are compatible at all.
func unitRatio(from, to string) (float64, bool) {
	from, to = strings.ToLower(from), strings.ToLower(to)
	if from == to {
		return 1, true
	}
	fc, fok := cssUnitToCanonical[from]
	tc, tok := cssUnitToCanonical[to]
	if !fok || !tok || fc.dimension != tc.dimension {
		return 0, false
	}
	return fc.toCanon / tc.toCanon, true
}

// AsNumber downcasts v to *Number.
func AsNumber(v Value) (*Number, error) {
	n, ok := v.(*Number)
	if !ok {
		return nil, &DowncastError{Want: "number", Got: v}
	}
	return n, nil
}
