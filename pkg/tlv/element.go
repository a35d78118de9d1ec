// Package tlv implements the subset of the Matter TLV (Tag-Length-Value)
// encoding (Appendix A of the Matter specification) consumed by the data
// model: a decoded element tree with tree-walking iteration and typed
// scalar extractors, plus a streaming writer.
package tlv

// ElementType represents the type of a TLV element as encoded in the
// lower 5 bits of the control octet (Spec A.7.1).
type ElementType int

const (
	ElementTypeInt8    ElementType = 0x00 // Signed Integer, 1-octet value
	ElementTypeInt16   ElementType = 0x01 // Signed Integer, 2-octet value
	ElementTypeInt32   ElementType = 0x02 // Signed Integer, 4-octet value
	ElementTypeInt64   ElementType = 0x03 // Signed Integer, 8-octet value
	ElementTypeUInt8   ElementType = 0x04 // Unsigned Integer, 1-octet value
	ElementTypeUInt16  ElementType = 0x05 // Unsigned Integer, 2-octet value
	ElementTypeUInt32  ElementType = 0x06 // Unsigned Integer, 4-octet value
	ElementTypeUInt64  ElementType = 0x07 // Unsigned Integer, 8-octet value
	ElementTypeFalse   ElementType = 0x08 // Boolean False
	ElementTypeTrue    ElementType = 0x09 // Boolean True
	ElementTypeUTF8_1  ElementType = 0x0C // UTF-8 String, 1-octet length
	ElementTypeUTF8_2  ElementType = 0x0D // UTF-8 String, 2-octet length
	ElementTypeBytes1  ElementType = 0x10 // Octet String, 1-octet length
	ElementTypeBytes2  ElementType = 0x11 // Octet String, 2-octet length
	ElementTypeNull    ElementType = 0x14 // Null
	ElementTypeStruct  ElementType = 0x15 // Structure
	ElementTypeArray   ElementType = 0x16 // Array
	ElementTypeList    ElementType = 0x17 // List
	ElementTypeEnd     ElementType = 0x18 // End of Container
)

// String returns the string representation of the element type.
func (e ElementType) String() string {
	switch e {
	case ElementTypeInt8:
		return "Int8"
	case ElementTypeInt16:
		return "Int16"
	case ElementTypeInt32:
		return "Int32"
	case ElementTypeInt64:
		return "Int64"
	case ElementTypeUInt8:
		return "UInt8"
	case ElementTypeUInt16:
		return "UInt16"
	case ElementTypeUInt32:
		return "UInt32"
	case ElementTypeUInt64:
		return "UInt64"
	case ElementTypeFalse:
		return "False"
	case ElementTypeTrue:
		return "True"
	case ElementTypeUTF8_1, ElementTypeUTF8_2:
		return "UTF8String"
	case ElementTypeBytes1, ElementTypeBytes2:
		return "OctetString"
	case ElementTypeNull:
		return "Null"
	case ElementTypeStruct:
		return "Struct"
	case ElementTypeArray:
		return "Array"
	case ElementTypeList:
		return "List"
	case ElementTypeEnd:
		return "EndOfContainer"
	default:
		return "Unknown"
	}
}

// IsSignedInt returns true for the signed integer element types.
func (e ElementType) IsSignedInt() bool {
	return e >= ElementTypeInt8 && e <= ElementTypeInt64
}

// IsUnsignedInt returns true for the unsigned integer element types.
func (e ElementType) IsUnsignedInt() bool {
	return e >= ElementTypeUInt8 && e <= ElementTypeUInt64
}

// IsBool returns true for the boolean element types.
func (e ElementType) IsBool() bool {
	return e == ElementTypeFalse || e == ElementTypeTrue
}

// IsUTF8 returns true for the UTF-8 string element types.
func (e ElementType) IsUTF8() bool {
	return e == ElementTypeUTF8_1 || e == ElementTypeUTF8_2
}

// IsBytes returns true for the octet string element types.
func (e ElementType) IsBytes() bool {
	return e == ElementTypeBytes1 || e == ElementTypeBytes2
}

// IsContainer returns true for struct, array and list element types.
func (e ElementType) IsContainer() bool {
	return e == ElementTypeStruct || e == ElementTypeArray || e == ElementTypeList
}

// ValueSize returns the fixed value size in bytes for integer types.
func (e ElementType) ValueSize() int {
	switch e {
	case ElementTypeInt8, ElementTypeUInt8:
		return 1
	case ElementTypeInt16, ElementTypeUInt16:
		return 2
	case ElementTypeInt32, ElementTypeUInt32:
		return 4
	case ElementTypeInt64, ElementTypeUInt64:
		return 8
	default:
		return 0
	}
}

// LengthFieldSize returns the size of the length field for string types.
func (e ElementType) LengthFieldSize() int {
	switch e {
	case ElementTypeUTF8_1, ElementTypeBytes1:
		return 1
	case ElementTypeUTF8_2, ElementTypeBytes2:
		return 2
	default:
		return 0
	}
}

// Element is one decoded TLV element. Container elements hold their
// children in encoding order; scalar elements hold their decoded value.
// Elements are immutable once parsed.
type Element struct {
	typ ElementType
	tag Tag

	u        uint64
	i        int64
	str      []byte
	children []*Element
}

// Type returns the element type.
func (e *Element) Type() ElementType {
	return e.typ
}

// Tag returns the element tag.
func (e *Element) Tag() Tag {
	return e.tag
}

// IsNull returns true if the element is a TLV null.
func (e *Element) IsNull() bool {
	return e.typ == ElementTypeNull
}

// Bool extracts a boolean value.
func (e *Element) Bool() (bool, error) {
	if !e.typ.IsBool() {
		return false, ErrInvalidDataType
	}
	return e.typ == ElementTypeTrue, nil
}

// Uint extracts an unsigned integer value of any width.
func (e *Element) Uint() (uint64, error) {
	if !e.typ.IsUnsignedInt() {
		return 0, ErrInvalidDataType
	}
	return e.u, nil
}

// Uint8 extracts an unsigned integer that fits in 8 bits.
func (e *Element) Uint8() (uint8, error) {
	v, err := e.Uint()
	if err != nil || v > 0xFF {
		return 0, ErrInvalidDataType
	}
	return uint8(v), nil
}

// Uint16 extracts an unsigned integer that fits in 16 bits.
func (e *Element) Uint16() (uint16, error) {
	v, err := e.Uint()
	if err != nil || v > 0xFFFF {
		return 0, ErrInvalidDataType
	}
	return uint16(v), nil
}

// Uint32 extracts an unsigned integer that fits in 32 bits.
func (e *Element) Uint32() (uint32, error) {
	v, err := e.Uint()
	if err != nil || v > 0xFFFFFFFF {
		return 0, ErrInvalidDataType
	}
	return uint32(v), nil
}

// Int extracts a signed integer value of any width.
func (e *Element) Int() (int64, error) {
	if !e.typ.IsSignedInt() {
		return 0, ErrInvalidDataType
	}
	return e.i, nil
}

// String extracts a UTF-8 string value.
func (e *Element) String() (string, error) {
	if !e.typ.IsUTF8() {
		return "", ErrInvalidDataType
	}
	return string(e.str), nil
}

// Bytes extracts an octet string value. The returned slice is a copy.
func (e *Element) Bytes() ([]byte, error) {
	if !e.typ.IsBytes() {
		return nil, ErrInvalidDataType
	}
	out := make([]byte, len(e.str))
	copy(out, e.str)
	return out, nil
}

// Enter returns an iterator over the children of a container element.
func (e *Element) Enter() (*Iterator, error) {
	if !e.typ.IsContainer() {
		return nil, ErrNotContainer
	}
	return &Iterator{elems: e.children}, nil
}

// Len returns the number of children of a container, 0 otherwise.
func (e *Element) Len() int {
	return len(e.children)
}

// Iterator walks the children of a container element in encoding order.
type Iterator struct {
	elems []*Element
	idx   int
}

// Next returns the next child element, or false when exhausted.
func (it *Iterator) Next() (*Element, bool) {
	if it.idx >= len(it.elems) {
		return nil, false
	}
	e := it.elems[it.idx]
	it.idx++
	return e, true
}
