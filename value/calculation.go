package value

import (
	"fmt"
	"strings"
)

// CalcOperator is the arithmetic operator joining two operands in a
// Calculation's argument tree.
type CalcOperator int

const (
	CalcPlus CalcOperator = iota
	CalcMinus
	CalcTimes
	CalcDividedBy
)

func (o CalcOperator) String() string {
	switch o {
	case CalcPlus:
		return "+"
	case CalcMinus:
		return "-"
	case CalcTimes:
		return "*"
	case CalcDividedBy:
		return "/"
	default:
		return "?"
	}
}

// CalcOperand is one node of a Calculation's argument tree: a Number, a
// bare interpolated/unquoted string, or a binary operation over two
// further operands. Exactly one field is set.
type CalcOperand struct {
	Number        *Number
	Str           string
	Interpolation string
	Operation     *CalcOperation
}

func (o *CalcOperand) String() string {
	switch {
	case o.Number != nil:
		return o.Number.String()
	case o.Operation != nil:
		return o.Operation.String()
	case o.Interpolation != "":
		return "#{" + o.Interpolation + "}"
	default:
		return o.Str
	}
}

func (o *CalcOperand) Equal(other *CalcOperand) bool {
	switch {
	case o.Number != nil:
		return other.Number != nil && o.Number.Equal(other.Number)
	case o.Operation != nil:
		return other.Operation != nil && o.Operation.Equal(other.Operation)
	case o.Interpolation != "":
		return other.Interpolation == o.Interpolation
	default:
		return other.Number == nil && other.Operation == nil && other.Interpolation == "" && other.Str == o.Str
	}
}

// CalcOperation is a binary operation between two calculation operands.
type CalcOperation struct {
	Operator    CalcOperator
	Left, Right *CalcOperand
}

func (op *CalcOperation) String() string {
	return fmt.Sprintf("(%s %s %s)", op.Left, op.Operator, op.Right)
}

func (op *CalcOperation) Equal(other *CalcOperation) bool {
	return op.Operator == other.Operator && op.Left.Equal(other.Left) && op.Right.Equal(other.Right)
}

// Calculation is a Sass calc()-family value: a function name (calc, min,
// max, clamp, ...) plus its argument tree.
type Calculation struct {
	Name      string
	Arguments []*CalcOperand
}

func (c *Calculation) sassValue() {}
func (c *Calculation) Len() int   { return 1 }

func (c *Calculation) String() string {
	parts := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		parts[i] = a.String()
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

func (c *Calculation) Equal(o Value) bool {
	oc, ok := o.(*Calculation)
	if !ok || oc.Name != c.Name || len(oc.Arguments) != len(c.Arguments) {
		return false
	}
	for i := range c.Arguments {
		if !c.Arguments[i].Equal(oc.Arguments[i]) {
			return false
		}
	}
	return true
}

// AsCalculation downcasts v to *Calculation.
func AsCalculation(v Value) (*Calculation, error) {
	c, ok := v.(*Calculation)
	if !ok {
		return nil, &DowncastError{Want: "calculation", Got: v}
	}
	return c, nil
}
