// Package embeddedsass implements the message set carried inside every
// Embedded Sass protocol frame.
//
// The upstream `.proto` schema for this protocol is generated by protoc and
// is explicitly out of scope for this module (see the project's design
// notes); no protoc-generated package ships alongside this driver. Rather
// than faking a full protoreflect-backed message set, this package encodes
// and decodes the wire shapes the protocol needs directly against
// google.golang.org/protobuf's low-level wire primitives
// (encoding/protowire), the same dependency the rest of the module already
// requires for the codec.
package embeddedsass

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// appendString appends a length-delimited string field.
func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendString(b, s)
	return b
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendBytes(b, v)
	return b
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	b = protowire.AppendVarint(b, v)
	return b
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	return appendVarint(b, num, 1)
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, protowire.EncodeFixed64(v))
	return b
}

// appendMessage appends a length-delimited submessage unconditionally,
// including when sub is empty. Emptiness of the encoded bytes is not a
// reliable "value absent" signal (an all-zero-value submessage legitimately
// encodes to zero bytes), so presence must always be decided by the caller
// before it calls appendMessage, never by inspecting sub.
func appendMessage(b []byte, num protowire.Number, sub []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendBytes(b, sub)
	return b
}

func appendStrings(b []byte, num protowire.Number, vs []string) []byte {
	for _, v := range vs {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, v)
	}
	return b
}

// field is one decoded (field number, wire type, raw value) tuple yielded by
// rangeFields. Which value field is filled depends on typ: for VarintType
// u64 is the decoded varint; for Fixed64Type u64 holds
// protowire.DecodeFixed64-ready bits; for BytesType bytes holds the
// unwrapped bytes.
type field struct {
	num   protowire.Number
	typ   protowire.Type
	u64   uint64
	bytes []byte
}

// rangeFields walks every top-level field in b, invoking fn for each. It
// skips fields it cannot interpret (unknown wire types) without passing
// them to fn, matching the "unknown wire fields are forwarded opaquely when
// possible and dropped otherwise" rule from the codec design: since this
// driver has no passthrough sink for unknown fields, dropping after a
// successful skip is the correct behavior for a field this process does
// not originate.
func rangeFields(b []byte, fn func(field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("embeddedsass: invalid tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		var f field
		f.num, f.typ = num, typ

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("embeddedsass: invalid varint: %w", protowire.ParseError(n))
			}
			f.u64 = v
			b = b[n:]
		case protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return fmt.Errorf("embeddedsass: invalid fixed64: %w", protowire.ParseError(n))
			}
			f.u64 = v
			b = b[n:]
		case protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return fmt.Errorf("embeddedsass: invalid fixed32: %w", protowire.ParseError(n))
			}
			f.u64 = uint64(v)
			b = b[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("embeddedsass: invalid bytes: %w", protowire.ParseError(n))
			}
			f.bytes = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("embeddedsass: cannot skip field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (f field) str() string  { return string(f.bytes) }
func (f field) double() float64 {
	return protowire.DecodeFixed64(f.u64)
}
func (f field) boolean() bool { return f.u64 != 0 }
