package datamodel

import (
	"fmt"
	"math"

	"github.com/angelybo/matter-rs/pkg/tlv"
)

// Bounds for the variable-length attribute variants.
const (
	// MaxStringLen bounds UTF-8 string attribute values.
	MaxStringLen = 256

	// MaxBytesLen bounds octet string attribute values.
	MaxBytesLen = 256
)

// ValueType identifies the variant held by an AttrValue.
type ValueType int

const (
	// TypeBool holds a boolean.
	TypeBool ValueType = iota

	// TypeUint8 through TypeUint64 hold unsigned integers.
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64

	// TypeInt8 through TypeInt64 hold signed integers.
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64

	// TypeString holds a bounded UTF-8 string.
	TypeString

	// TypeBytes holds a bounded octet string.
	TypeBytes

	// TypeCustom is a sentinel: the owning cluster provides the reader.
	TypeCustom
)

// String returns the name of the value type.
func (t ValueType) String() string {
	switch t {
	case TypeBool:
		return "Bool"
	case TypeUint8:
		return "Uint8"
	case TypeUint16:
		return "Uint16"
	case TypeUint32:
		return "Uint32"
	case TypeUint64:
		return "Uint64"
	case TypeInt8:
		return "Int8"
	case TypeInt16:
		return "Int16"
	case TypeInt32:
		return "Int32"
	case TypeInt64:
		return "Int64"
	case TypeString:
		return "String"
	case TypeBytes:
		return "Bytes"
	case TypeCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// IsUnsigned returns true for the unsigned integer variants.
func (t ValueType) IsUnsigned() bool {
	return t >= TypeUint8 && t <= TypeUint64
}

// IsSigned returns true for the signed integer variants.
func (t ValueType) IsSigned() bool {
	return t >= TypeInt8 && t <= TypeInt64
}

// uintMax returns the maximum value of an unsigned variant.
func (t ValueType) uintMax() uint64 {
	switch t {
	case TypeUint8:
		return math.MaxUint8
	case TypeUint16:
		return math.MaxUint16
	case TypeUint32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

// intRange returns the bounds of a signed variant.
func (t ValueType) intRange() (int64, int64) {
	switch t {
	case TypeInt8:
		return math.MinInt8, math.MaxInt8
	case TypeInt16:
		return math.MinInt16, math.MaxInt16
	case TypeInt32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

// AttrValue is a tagged union over the Matter scalar set. Values are
// immutable; assignment happens through the owning cluster base, which
// enforces type-preserving writes.
type AttrValue struct {
	typ ValueType
	b   bool
	u   uint64
	i   int64
	s   string
}

// BoolValue returns a boolean attribute value.
func BoolValue(v bool) AttrValue {
	return AttrValue{typ: TypeBool, b: v}
}

// Uint8Value returns an 8-bit unsigned attribute value.
func Uint8Value(v uint8) AttrValue {
	return AttrValue{typ: TypeUint8, u: uint64(v)}
}

// Uint16Value returns a 16-bit unsigned attribute value.
func Uint16Value(v uint16) AttrValue {
	return AttrValue{typ: TypeUint16, u: uint64(v)}
}

// Uint32Value returns a 32-bit unsigned attribute value.
func Uint32Value(v uint32) AttrValue {
	return AttrValue{typ: TypeUint32, u: uint64(v)}
}

// Uint64Value returns a 64-bit unsigned attribute value.
func Uint64Value(v uint64) AttrValue {
	return AttrValue{typ: TypeUint64, u: v}
}

// Int8Value returns an 8-bit signed attribute value.
func Int8Value(v int8) AttrValue {
	return AttrValue{typ: TypeInt8, i: int64(v)}
}

// Int16Value returns a 16-bit signed attribute value.
func Int16Value(v int16) AttrValue {
	return AttrValue{typ: TypeInt16, i: int64(v)}
}

// Int32Value returns a 32-bit signed attribute value.
func Int32Value(v int32) AttrValue {
	return AttrValue{typ: TypeInt32, i: int64(v)}
}

// Int64Value returns a 64-bit signed attribute value.
func Int64Value(v int64) AttrValue {
	return AttrValue{typ: TypeInt64, i: v}
}

// StringValue returns a bounded UTF-8 string attribute value.
func StringValue(v string) AttrValue {
	return AttrValue{typ: TypeString, s: v}
}

// BytesValue returns a bounded octet string attribute value.
func BytesValue(v []byte) AttrValue {
	return AttrValue{typ: TypeBytes, s: string(v)}
}

// CustomValue returns the sentinel marking a cluster-provided reader.
func CustomValue() AttrValue {
	return AttrValue{typ: TypeCustom}
}

// Type returns the variant held by the value.
func (v AttrValue) Type() ValueType {
	return v.typ
}

// IsCustom returns true for the cluster-provided-reader sentinel.
func (v AttrValue) IsCustom() bool {
	return v.typ == TypeCustom
}

// Bool extracts the boolean variant.
func (v AttrValue) Bool() (bool, error) {
	if v.typ != TypeBool {
		return false, ErrInvalidDataType
	}
	return v.b, nil
}

// Uint extracts any unsigned integer variant.
func (v AttrValue) Uint() (uint64, error) {
	if !v.typ.IsUnsigned() {
		return 0, ErrInvalidDataType
	}
	return v.u, nil
}

// Uint8 extracts the 8-bit unsigned variant.
func (v AttrValue) Uint8() (uint8, error) {
	if v.typ != TypeUint8 {
		return 0, ErrInvalidDataType
	}
	return uint8(v.u), nil
}

// Uint16 extracts the 16-bit unsigned variant.
func (v AttrValue) Uint16() (uint16, error) {
	if v.typ != TypeUint16 {
		return 0, ErrInvalidDataType
	}
	return uint16(v.u), nil
}

// Int extracts any signed integer variant.
func (v AttrValue) Int() (int64, error) {
	if !v.typ.IsSigned() {
		return 0, ErrInvalidDataType
	}
	return v.i, nil
}

// Text extracts the UTF-8 string variant.
func (v AttrValue) Text() (string, error) {
	if v.typ != TypeString {
		return "", ErrInvalidDataType
	}
	return v.s, nil
}

// Bytes extracts the octet string variant. The returned slice is a copy.
func (v AttrValue) Bytes() ([]byte, error) {
	if v.typ != TypeBytes {
		return nil, ErrInvalidDataType
	}
	return []byte(v.s), nil
}

// Equal reports whether two values hold the same variant and contents.
func (v AttrValue) Equal(other AttrValue) bool {
	return v == other
}

// String implements fmt.Stringer for logging.
func (v AttrValue) String() string {
	switch {
	case v.typ == TypeBool:
		return fmt.Sprintf("Bool(%v)", v.b)
	case v.typ.IsUnsigned():
		return fmt.Sprintf("%s(%d)", v.typ, v.u)
	case v.typ.IsSigned():
		return fmt.Sprintf("%s(%d)", v.typ, v.i)
	case v.typ == TypeString:
		return fmt.Sprintf("String(%q)", v.s)
	case v.typ == TypeBytes:
		return fmt.Sprintf("Bytes(%d octets)", len(v.s))
	default:
		return "Custom"
	}
}

// Encode writes the value as an anonymous TLV element.
func (v AttrValue) Encode(w *tlv.Writer) error {
	return v.EncodeWithTag(w, tlv.Anonymous())
}

// EncodeWithTag writes the value as a TLV element with the given tag.
func (v AttrValue) EncodeWithTag(w *tlv.Writer, tag tlv.Tag) error {
	switch {
	case v.typ == TypeBool:
		return w.PutBool(tag, v.b)
	case v.typ.IsUnsigned():
		return w.PutUint(tag, v.u)
	case v.typ.IsSigned():
		return w.PutInt(tag, v.i)
	case v.typ == TypeString:
		return w.PutString(tag, v.s)
	case v.typ == TypeBytes:
		return w.PutBytes(tag, []byte(v.s))
	default:
		return ErrInvalidDataType
	}
}

// DecodeValue decodes a TLV element into the given variant. A variant
// mismatch yields ErrInvalidDataType; a value outside the variant's range
// (or over the string bounds) yields ErrConstraintError.
func DecodeValue(typ ValueType, el *tlv.Element) (AttrValue, error) {
	switch {
	case typ == TypeBool:
		b, err := el.Bool()
		if err != nil {
			return AttrValue{}, ErrInvalidDataType
		}
		return BoolValue(b), nil

	case typ.IsUnsigned():
		u, err := el.Uint()
		if err != nil {
			return AttrValue{}, ErrInvalidDataType
		}
		if u > typ.uintMax() {
			return AttrValue{}, ErrConstraintError
		}
		return AttrValue{typ: typ, u: u}, nil

	case typ.IsSigned():
		i, err := el.Int()
		if err != nil {
			return AttrValue{}, ErrInvalidDataType
		}
		lo, hi := typ.intRange()
		if i < lo || i > hi {
			return AttrValue{}, ErrConstraintError
		}
		return AttrValue{typ: typ, i: i}, nil

	case typ == TypeString:
		s, err := el.String()
		if err != nil {
			return AttrValue{}, ErrInvalidDataType
		}
		if len(s) > MaxStringLen {
			return AttrValue{}, ErrConstraintError
		}
		return StringValue(s), nil

	case typ == TypeBytes:
		b, err := el.Bytes()
		if err != nil {
			return AttrValue{}, ErrInvalidDataType
		}
		if len(b) > MaxBytesLen {
			return AttrValue{}, ErrConstraintError
		}
		return BytesValue(b), nil

	default:
		return AttrValue{}, ErrInvalidDataType
	}
}
