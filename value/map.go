package value

import "strings"

// MapEntry is one key/value pair of a Map.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map is an ordered mapping from Value to Value, preserving insertion
// order. Keys are compared by Value.Equal.
type Map struct {
	entries []MapEntry
}

// NewMap constructs a Map from entries in insertion order. Duplicate keys
// (by Equal) are an error: Sass map literals never have duplicate keys by
// the time they reach a host function.
func NewMap(entries []MapEntry) (*Map, error) {
	m := &Map{entries: append([]MapEntry(nil), entries...)}
	for i := range m.entries {
		for j := 0; j < i; j++ {
			if m.entries[i].Key.Equal(m.entries[j].Key) {
				return nil, mapDuplicateKeyError{}
			}
		}
	}
	return m, nil
}

type mapDuplicateKeyError struct{}

func (mapDuplicateKeyError) Error() string { return "value: duplicate map key" }

func (m *Map) sassValue() {}
func (m *Map) Len() int   { return 1 }

// Entries returns the map's entries in insertion order. The returned
// slice must not be mutated.
func (m *Map) Entries() []MapEntry { return m.entries }

// Get looks up a value by key using Value.Equal.
func (m *Map) Get(key Value) (Value, bool) {
	for _, e := range m.entries {
		if e.Key.Equal(key) {
			return e.Value, true
		}
	}
	return nil, false
}

func (m *Map) String() string {
	parts := make([]string, len(m.entries))
	for i, e := range m.entries {
		parts[i] = e.Key.String() + ": " + e.Value.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Equal compares maps as unordered sets of pairs, per §4.1.
func (m *Map) Equal(o Value) bool {
	om, ok := o.(*Map)
	if !ok || len(m.entries) != len(om.entries) {
		return false
	}
	used := make([]bool, len(om.entries))
outer:
	for _, e := range m.entries {
		for j, oe := range om.entries {
			if used[j] {
				continue
			}
			if e.Key.Equal(oe.Key) && e.Value.Equal(oe.Value) {
				used[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}

// AsMap downcasts v to *Map.
func AsMap(v Value) (*Map, error) {
	m, ok := v.(*Map)
	if !ok {
		return nil, &DowncastError{Want: "map", Got: v}
	}
	return m, nil
}
