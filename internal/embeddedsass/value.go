package embeddedsass

// Singleton enumerates the wire values of the Null/Boolean singletons.
// Mirrors the field shapes the teacher's functions.MarshalValue /
// UnmarshalValue switch over (sass.SingletonValue_{NULL,TRUE,FALSE}).
type Singleton int32

const (
	SingletonNull Singleton = iota
	SingletonTrue
	SingletonFalse
)

type ListSeparator int32

const (
	ListSeparatorUndecided ListSeparator = iota
	ListSeparatorComma
	ListSeparatorSpace
	ListSeparatorSlash
)

// Value is the wire representation of a Sass value: exactly one of the
// fields below is set, one per C1 variant.
type Value struct {
	Singleton        *Singleton
	String_          *ValueString
	Number           *ValueNumber
	RgbColor         *ValueRGBColor
	HslColor         *ValueHSLColor
	HwbColor         *ValueHWBColor
	List             *ValueList
	Map              *ValueMap
	ArgumentList     *ValueArgumentList
	CompilerFunction *ValueCompilerFunction
	HostFunction     *ValueHostFunction
	Calculation      *ValueCalculation
	Mixin            *ValueMixin
}

type ValueString struct {
	Text   string
	Quoted bool
}

type ValueNumber struct {
	Value        float64
	Numerators   []string
	Denominators []string
}

type ValueRGBColor struct {
	Red, Green, Blue uint32
	Alpha            float64
}

type ValueHSLColor struct {
	Hue, Saturation, Lightness, Alpha float64
}

type ValueHWBColor struct {
	Hue, Whiteness, Blackness, Alpha float64
}

type ValueList struct {
	Separator   ListSeparator
	HasBrackets bool
	Contents    []*Value
}

type ValueMapEntry struct {
	Key   *Value
	Value *Value
}

type ValueMap struct {
	Entries []*ValueMapEntry
}

type ValueArgumentListKeyword struct {
	Name  string
	Value *Value
}

type ValueArgumentList struct {
	Id       uint32
	Separator ListSeparator
	Contents []*Value
	Keywords []*ValueArgumentListKeyword
}

type ValueCompilerFunction struct {
	Id uint32
}

type ValueHostFunction struct {
	Id        uint32
	Signature string
}

// CalculationOperator enumerates the arithmetic operators a Calculation
// operand tree can carry between two operands.
type CalculationOperator int32

const (
	CalcOpPlus CalculationOperator = iota
	CalcOpMinus
	CalcOpTimes
	CalcOpDividedBy
)

// ValueCalculationValue is one operand in a Calculation's argument tree:
// a number, a bare interpolated/unquoted string, or a binary operation
// over two further operands.
type ValueCalculationValue struct {
	Number        *ValueNumber
	String_       string
	Interpolation string
	Operation     *ValueCalculationOperation
}

type ValueCalculationOperation struct {
	Operator CalculationOperator
	Left     *ValueCalculationValue
	Right    *ValueCalculationValue
}

type ValueCalculation struct {
	Name      string
	Arguments []*ValueCalculationValue
}

type ValueMixin struct {
	Id uint32
}

const (
	fValueSingleton        = 1
	fValueString           = 2
	fValueNumber           = 3
	fValueRgbColor         = 4
	fValueHslColor         = 5
	fValueHwbColor         = 6
	fValueList             = 7
	fValueMap              = 8
	fValueArgumentList     = 9
	fValueCompilerFunction = 10
	fValueHostFunction     = 11
	fValueCalculation      = 12
	fValueMixin            = 13
)

func (v *Value) Marshal() []byte {
	if v == nil {
		return nil
	}
	var b []byte
	switch {
	case v.Singleton != nil:
		b = appendVarint(b, fValueSingleton, uint64(*v.Singleton)+1)
		// +1 so that NULL (0) still serializes a tag; see unmarshal's -1.
	case v.String_ != nil:
		b = appendMessage(b, fValueString, v.String_.marshal())
	case v.Number != nil:
		b = appendMessage(b, fValueNumber, v.Number.marshal())
	case v.RgbColor != nil:
		b = appendMessage(b, fValueRgbColor, v.RgbColor.marshal())
	case v.HslColor != nil:
		b = appendMessage(b, fValueHslColor, v.HslColor.marshal())
	case v.HwbColor != nil:
		b = appendMessage(b, fValueHwbColor, v.HwbColor.marshal())
	case v.List != nil:
		b = appendMessage(b, fValueList, v.List.marshal())
	case v.Map != nil:
		b = appendMessage(b, fValueMap, v.Map.marshal())
	case v.ArgumentList != nil:
		b = appendMessage(b, fValueArgumentList, v.ArgumentList.marshal())
	case v.CompilerFunction != nil:
		b = appendMessage(b, fValueCompilerFunction, v.CompilerFunction.marshal())
	case v.HostFunction != nil:
		b = appendMessage(b, fValueHostFunction, v.HostFunction.marshal())
	case v.Calculation != nil:
		b = appendMessage(b, fValueCalculation, v.Calculation.marshal())
	case v.Mixin != nil:
		b = appendMessage(b, fValueMixin, v.Mixin.marshal())
	}
	if b == nil {
		// An unset Value still needs to round-trip as the Null singleton.
		n := SingletonNull
		return (&Value{Singleton: &n}).Marshal()
	}
	return b
}

func UnmarshalValue(b []byte) (*Value, error) {
	v := new(Value)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case fValueSingleton:
			s := Singleton(f.u64 - 1)
			v.Singleton = &s
		case fValueString:
			s, err := unmarshalValueString(f.bytes)
			if err != nil {
				return err
			}
			v.String_ = s
		case fValueNumber:
			n, err := unmarshalValueNumber(f.bytes)
			if err != nil {
				return err
			}
			v.Number = n
		case fValueRgbColor:
			c, err := unmarshalRGBColor(f.bytes)
			if err != nil {
				return err
			}
			v.RgbColor = c
		case fValueHslColor:
			c, err := unmarshalHSLColor(f.bytes)
			if err != nil {
				return err
			}
			v.HslColor = c
		case fValueHwbColor:
			c, err := unmarshalHWBColor(f.bytes)
			if err != nil {
				return err
			}
			v.HwbColor = c
		case fValueList:
			l, err := unmarshalValueList(f.bytes)
			if err != nil {
				return err
			}
			v.List = l
		case fValueMap:
			m, err := unmarshalValueMap(f.bytes)
			if err != nil {
				return err
			}
			v.Map = m
		case fValueArgumentList:
			a, err := unmarshalArgumentList(f.bytes)
			if err != nil {
				return err
			}
			v.ArgumentList = a
		case fValueCompilerFunction:
			v.CompilerFunction = &ValueCompilerFunction{Id: uint32(decodeVarintField(f.bytes, 1))}
		case fValueHostFunction:
			h, err := unmarshalHostFunction(f.bytes)
			if err != nil {
				return err
			}
			v.HostFunction = h
		case fValueCalculation:
			c, err := unmarshalCalculation(f.bytes)
			if err != nil {
				return err
			}
			v.Calculation = c
		case fValueMixin:
			v.Mixin = &ValueMixin{Id: uint32(decodeVarintField(f.bytes, 1))}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *ValueString) marshal() []byte {
	var b []byte
	b = appendString(b, 1, s.Text)
	b = appendBool(b, 2, s.Quoted)
	return b
}

func unmarshalValueString(b []byte) (*ValueString, error) {
	s := new(ValueString)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			s.Text = f.str()
		case 2:
			s.Quoted = f.boolean()
		}
		return nil
	})
	return s, err
}

func (n *ValueNumber) marshal() []byte {
	var b []byte
	b = appendDouble(b, 1, n.Value)
	b = appendStrings(b, 2, n.Numerators)
	b = appendStrings(b, 3, n.Denominators)
	return b
}

func unmarshalValueNumber(b []byte) (*ValueNumber, error) {
	n := new(ValueNumber)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			n.Value = f.double()
		case 2:
			n.Numerators = append(n.Numerators, f.str())
		case 3:
			n.Denominators = append(n.Denominators, f.str())
		}
		return nil
	})
	return n, err
}

func (c *ValueRGBColor) marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(c.Red))
	b = appendVarint(b, 2, uint64(c.Green))
	b = appendVarint(b, 3, uint64(c.Blue))
	b = appendDouble(b, 4, c.Alpha)
	return b
}

func unmarshalRGBColor(b []byte) (*ValueRGBColor, error) {
	c := new(ValueRGBColor)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			c.Red = uint32(f.u64)
		case 2:
			c.Green = uint32(f.u64)
		case 3:
			c.Blue = uint32(f.u64)
		case 4:
			c.Alpha = f.double()
		}
		return nil
	})
	return c, err
}

func (c *ValueHSLColor) marshal() []byte {
	var b []byte
	b = appendDouble(b, 1, c.Hue)
	b = appendDouble(b, 2, c.Saturation)
	b = appendDouble(b, 3, c.Lightness)
	b = appendDouble(b, 4, c.Alpha)
	return b
}

func unmarshalHSLColor(b []byte) (*ValueHSLColor, error) {
	c := new(ValueHSLColor)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			c.Hue = f.double()
		case 2:
			c.Saturation = f.double()
		case 3:
			c.Lightness = f.double()
		case 4:
			c.Alpha = f.double()
		}
		return nil
	})
	return c, err
}

func (c *ValueHWBColor) marshal() []byte {
	var b []byte
	b = appendDouble(b, 1, c.Hue)
	b = appendDouble(b, 2, c.Whiteness)
	b = appendDouble(b, 3, c.Blackness)
	b = appendDouble(b, 4, c.Alpha)
	return b
}

func unmarshalHWBColor(b []byte) (*ValueHWBColor, error) {
	c := new(ValueHWBColor)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			c.Hue = f.double()
		case 2:
			c.Whiteness = f.double()
		case 3:
			c.Blackness = f.double()
		case 4:
			c.Alpha = f.double()
		}
		return nil
	})
	return c, err
}

func (l *ValueList) marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(l.Separator)+1)
	b = appendBool(b, 2, l.HasBrackets)
	for _, v := range l.Contents {
		b = appendMessage(b, 3, v.Marshal())
	}
	return b
}

func unmarshalValueList(b []byte) (*ValueList, error) {
	l := new(ValueList)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			l.Separator = ListSeparator(f.u64 - 1)
		case 2:
			l.HasBrackets = f.boolean()
		case 3:
			v, err := UnmarshalValue(f.bytes)
			if err != nil {
				return err
			}
			l.Contents = append(l.Contents, v)
		}
		return nil
	})
	return l, err
}

func (m *ValueMap) marshal() []byte {
	var b []byte
	for _, e := range m.Entries {
		var eb []byte
		eb = appendMessage(eb, 1, e.Key.Marshal())
		eb = appendMessage(eb, 2, e.Value.Marshal())
		b = appendMessage(b, 1, eb)
	}
	return b
}

func unmarshalValueMap(b []byte) (*ValueMap, error) {
	m := new(ValueMap)
	err := rangeFields(b, func(f field) error {
		if f.num != 1 {
			return nil
		}
		entry := new(ValueMapEntry)
		err := rangeFields(f.bytes, func(ef field) error {
			switch ef.num {
			case 1:
				v, err := UnmarshalValue(ef.bytes)
				if err != nil {
					return err
				}
				entry.Key = v
			case 2:
				v, err := UnmarshalValue(ef.bytes)
				if err != nil {
					return err
				}
				entry.Value = v
			}
			return nil
		})
		if err != nil {
			return err
		}
		m.Entries = append(m.Entries, entry)
		return nil
	})
	return m, err
}

func (a *ValueArgumentList) marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(a.Id))
	b = appendVarint(b, 2, uint64(a.Separator)+1)
	for _, v := range a.Contents {
		b = appendMessage(b, 3, v.Marshal())
	}
	for _, kw := range a.Keywords {
		var kb []byte
		kb = appendString(kb, 1, kw.Name)
		kb = appendMessage(kb, 2, kw.Value.Marshal())
		b = appendMessage(b, 4, kb)
	}
	return b
}

func unmarshalArgumentList(b []byte) (*ValueArgumentList, error) {
	a := new(ValueArgumentList)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			a.Id = uint32(f.u64)
		case 2:
			a.Separator = ListSeparator(f.u64 - 1)
		case 3:
			v, err := UnmarshalValue(f.bytes)
			if err != nil {
				return err
			}
			a.Contents = append(a.Contents, v)
		case 4:
			kw := new(ValueArgumentListKeyword)
			err := rangeFields(f.bytes, func(kf field) error {
				switch kf.num {
				case 1:
					kw.Name = kf.str()
				case 2:
					v, err := UnmarshalValue(kf.bytes)
					if err != nil {
						return err
					}
					kw.Value = v
				}
				return nil
			})
			if err != nil {
				return err
			}
			a.Keywords = append(a.Keywords, kw)
		}
		return nil
	})
	return a, err
}

func (c *ValueCompilerFunction) marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(c.Id))
	return b
}

func (h *ValueHostFunction) marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(h.Id))
	b = appendString(b, 2, h.Signature)
	return b
}

func unmarshalHostFunction(b []byte) (*ValueHostFunction, error) {
	h := new(ValueHostFunction)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			h.Id = uint32(f.u64)
		case 2:
			h.Signature = f.str()
		}
		return nil
	})
	return h, err
}

func (m *ValueMixin) marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.Id))
	return b
}

func (c *ValueCalculation) marshal() []byte {
	var b []byte
	b = appendString(b, 1, c.Name)
	for _, a := range c.Arguments {
		b = appendMessage(b, 2, a.marshal())
	}
	return b
}

func unmarshalCalculation(b []byte) (*ValueCalculation, error) {
	c := new(ValueCalculation)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			c.Name = f.str()
		case 2:
			a, err := unmarshalCalculationValue(f.bytes)
			if err != nil {
				return err
			}
			c.Arguments = append(c.Arguments, a)
		}
		return nil
	})
	return c, err
}

func (v *ValueCalculationValue) marshal() []byte {
	var b []byte
	switch {
	case v.Number != nil:
		b = appendMessage(b, 1, v.Number.marshal())
	case v.Operation != nil:
		b = appendMessage(b, 3, v.Operation.marshal())
	case v.Interpolation != "":
		b = appendString(b, 4, v.Interpolation)
	default:
		b = appendString(b, 2, v.String_)
	}
	return b
}

func unmarshalCalculationValue(b []byte) (*ValueCalculationValue, error) {
	v := new(ValueCalculationValue)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			n, err := unmarshalValueNumber(f.bytes)
			if err != nil {
				return err
			}
			v.Number = n
		case 2:
			v.String_ = f.str()
		case 3:
			op, err := unmarshalCalculationOperation(f.bytes)
			if err != nil {
				return err
			}
			v.Operation = op
		case 4:
			v.Interpolation = f.str()
		}
		return nil
	})
	return v, err
}

func (o *ValueCalculationOperation) marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(o.Operator)+1)
	b = appendMessage(b, 2, o.Left.marshal())
	b = appendMessage(b, 3, o.Right.marshal())
	return b
}

func unmarshalCalculationOperation(b []byte) (*ValueCalculationOperation, error) {
	o := new(ValueCalculationOperation)
	err := rangeFields(b, func(f field) error {
		switch f.num {
		case 1:
			o.Operator = CalculationOperator(f.u64 - 1)
		case 2:
			v, err := unmarshalCalculationValue(f.bytes)
			if err != nil {
				return err
			}
			o.Left = v
		case 3:
			v, err := unmarshalCalculationValue(f.bytes)
			if err != nil {
				return err
			}
			o.Right = v
		}
		return nil
	})
	return o, err
}

// decodeVarintField pulls a single top-level varint field out of a
// submessage; used for the single-field CompilerFunction/Mixin wrappers.
func decodeVarintField(b []byte, num int) uint64 {
	var out uint64
	_ = rangeFields(b, func(f field) error {
		if int(f.num) == num {
			out = f.u64
		}
		return nil
	})
	return out
}
