package tlv

import (
	"encoding/binary"
	"unicode/utf8"
)

// maxContainerDepth bounds nesting while decoding untrusted payloads.
const maxContainerDepth = 8

// Parse decodes a single top-level TLV element, including any nested
// containers. Trailing bytes after the element are an error.
func Parse(data []byte) (*Element, error) {
	d := &decoder{buf: data}
	el, err := d.element(0)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, ErrUnexpectedEnd
	}
	if d.pos != len(d.buf) {
		return nil, ErrTrailingData
	}
	return el, nil
}

type decoder struct {
	buf []byte
	pos int
}

// element decodes the next element, or returns (nil, nil) on a matching
// end-of-container marker.
func (d *decoder) element(depth int) (*Element, error) {
	ctrl, err := d.byte()
	if err != nil {
		return nil, err
	}

	typ := ElementType(ctrl & 0x1F)
	tagCtrl := TagControl(ctrl >> 5)

	if typ == ElementTypeEnd {
		if depth == 0 {
			return nil, ErrContainerMismatch
		}
		return nil, nil
	}

	var tag Tag
	switch tagCtrl {
	case TagControlAnonymous:
		tag = Anonymous()
	case TagControlContext:
		n, err := d.byte()
		if err != nil {
			return nil, err
		}
		tag = ContextTag(n)
	default:
		return nil, ErrUnsupportedTag
	}

	el := &Element{typ: typ, tag: tag}

	switch {
	case typ.IsUnsignedInt():
		v, err := d.uint(typ.ValueSize())
		if err != nil {
			return nil, err
		}
		el.u = v

	case typ.IsSignedInt():
		v, err := d.uint(typ.ValueSize())
		if err != nil {
			return nil, err
		}
		el.i = signExtend(v, typ.ValueSize())

	case typ.IsBool(), typ == ElementTypeNull:
		// Value is carried by the type itself.

	case typ.IsUTF8(), typ.IsBytes():
		n, err := d.uint(typ.LengthFieldSize())
		if err != nil {
			return nil, err
		}
		s, err := d.take(int(n))
		if err != nil {
			return nil, err
		}
		if typ.IsUTF8() && !utf8.Valid(s) {
			return nil, ErrInvalidUTF8
		}
		el.str = s

	case typ.IsContainer():
		if depth >= maxContainerDepth {
			return nil, ErrInvalidElementType
		}
		for {
			child, err := d.element(depth + 1)
			if err != nil {
				return nil, err
			}
			if child == nil {
				break
			}
			el.children = append(el.children, child)
		}

	default:
		return nil, ErrInvalidElementType
	}

	return el, nil
}

func (d *decoder) byte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, ErrUnexpectedEnd
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) take(n int) ([]byte, error) {
	if d.pos+n > len(d.buf) {
		return nil, ErrUnexpectedEnd
	}
	s := d.buf[d.pos : d.pos+n]
	d.pos += n
	return s, nil
}

// uint reads a little-endian unsigned value of 1, 2, 4 or 8 bytes.
func (d *decoder) uint(size int) (uint64, error) {
	s, err := d.take(size)
	if err != nil {
		return 0, err
	}
	switch size {
	case 1:
		return uint64(s[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(s)), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(s)), nil
	case 8:
		return binary.LittleEndian.Uint64(s), nil
	default:
		return 0, ErrInvalidElementType
	}
}

func signExtend(v uint64, size int) int64 {
	switch size {
	case 1:
		return int64(int8(v))
	case 2:
		return int64(int16(v))
	case 4:
		return int64(int32(v))
	default:
		return int64(v)
	}
}
