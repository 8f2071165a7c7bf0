package value

import (
	"fmt"
	"strings"
)

// List is an ordered sequence of Values with a separator and a bracketed
// flag. The zero value is not valid; use NewList.
type List struct {
	elements  []Value
	separator Separator
	brackets  bool
}

// NewList constructs a List, enforcing the invariant that SeparatorUndecided
// is only permitted when the list has at most one element.
func NewList(elements []Value, sep Separator, brackets bool) (*List, error) {
	if sep == SeparatorUndecided && len(elements) > 1 {
		return nil, fmt.Errorf("value: separator undecided is only valid for lists of length <= 1, got %d elements", len(elements))
	}
	return &List{elements: append([]Value(nil), elements...), separator: sep, brackets: brackets}, nil
}

func (l *List) sassValue() {}

// Len reports the list's element count (overriding Value.Len's
// length-1-for-scalars default).
func (l *List) Len() int { return len(l.elements) }

func (l *List) Separator() Separator { return l.separator }
func (l *List) HasBrackets() bool    { return l.brackets }

// Elements returns the list's elements in order. The returned slice must
// not be mutated.
func (l *List) Elements() []Value { return l.elements }

// At resolves a 1-based, possibly-negative Sass index against the list,
// wrapping from the end, and returns the element there.
func (l *List) At(i int) (Value, error) {
	idx := sassIndex(i, len(l.elements))
	if idx < 1 || idx > len(l.elements) {
		return nil, fmt.Errorf("value: index %d out of range for list of length %d", i, len(l.elements))
	}
	return l.elements[idx-1], nil
}

func (l *List) String() string {
	parts := make([]string, len(l.elements))
	for i, e := range l.elements {
		parts[i] = e.String()
	}
	sep := l.separator.String()
	if sep == "" {
		sep = " "
	}
	inner := strings.Join(parts, sep+" ")
	if l.brackets {
		return "[" + inner + "]"
	}
	return inner
}

// Equal compares element-wise plus separator/bracket flags.
func (l *List) Equal(o Value) bool {
	ol, ok := o.(*List)
	if !ok || len(l.elements) != len(ol.elements) || l.separator != ol.separator || l.brackets != ol.brackets {
		return false
	}
	for i := range l.elements {
		if !l.elements[i].Equal(ol.elements[i]) {
			return false
		}
	}
	return true
}

// AsList downcasts v to *List.
func AsList(v Value) (*List, error) {
	l, ok := v.(*List)
	if !ok {
		return nil, &DowncastError{Want: "list", Got: v}
	}
	return l, nil
}

// ArgumentList is a List plus a keyword map, used to represent a
// function's `$args...` rest argument. Len/iteration over it (per §4.1)
// only considers the positional elements, not the keywords.
type ArgumentList struct {
	*List
	keywordOrder []string
	keywords     map[string]Value
}

// NewArgumentList constructs an ArgumentList. keywordNames gives first-seen
// order for the keyword map; keywords must have exactly the same key set.
func NewArgumentList(elements []Value, sep Separator, keywordNames []string, keywords map[string]Value) (*ArgumentList, error) {
	l, err := NewList(elements, sep, false)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(keywordNames))
	order := make([]string, 0, len(keywordNames))
	kw := make(map[string]Value, len(keywordNames))
	for _, name := range keywordNames {
		if seen[name] {
			return nil, fmt.Errorf("value: duplicate keyword argument %q", name)
		}
		v, ok := keywords[name]
		if !ok {
			return nil, fmt.Errorf("value: keyword %q has no value", name)
		}
		seen[name] = true
		order = append(order, name)
		kw[name] = v
	}
	return &ArgumentList{List: l, keywordOrder: order, keywords: kw}, nil
}

// Keyword looks up a keyword argument by name.
func (a *ArgumentList) Keyword(name string) (Value, bool) {
	v, ok := a.keywords[name]
	return v, ok
}

// KeywordNames returns keyword argument names in first-seen order.
func (a *ArgumentList) KeywordNames() []string {
	return append([]string(nil), a.keywordOrder...)
}

func (a *ArgumentList) Equal(o Value) bool {
	oa, ok := o.(*ArgumentList)
	if !ok || !a.List.Equal(oa.List) || len(a.keywordOrder) != len(oa.keywordOrder) {
		return false
	}
	for _, name := range a.keywordOrder {
		ov, ok := oa.keywords[name]
		if !ok || !a.keywords[name].Equal(ov) {
			return false
		}
	}
	return true
}

// AsArgumentList downcasts v to *ArgumentList.
func AsArgumentList(v Value) (*ArgumentList, error) {
	a, ok := v.(*ArgumentList)
	if !ok {
		return nil, &DowncastError{Want: "argument list", Got: v}
	}
	return a, nil
}
