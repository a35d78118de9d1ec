package tlv

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"
)

// Writer encodes TLV elements to an io.Writer.
type Writer struct {
	w              io.Writer
	containerStack []ElementType // Track open containers for validation
}

// NewWriter creates a new TLV Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// writeControlAndTag writes the control octet and tag field.
func (w *Writer) writeControlAndTag(elemType ElementType, tag Tag) error {
	ctrl := byte(tag.Control())<<5 | byte(elemType)
	if _, err := w.w.Write([]byte{ctrl}); err != nil {
		return err
	}
	if tag.IsContext() {
		_, err := w.w.Write([]byte{tag.Number()})
		return err
	}
	return nil
}

func (w *Writer) writeFixedValue(elemType ElementType, tag Tag, value []byte) error {
	if err := w.writeControlAndTag(elemType, tag); err != nil {
		return err
	}
	_, err := w.w.Write(value)
	return err
}

// PutBool writes a boolean with the given tag.
func (w *Writer) PutBool(tag Tag, v bool) error {
	elemType := ElementTypeFalse
	if v {
		elemType = ElementTypeTrue
	}
	return w.writeControlAndTag(elemType, tag)
}

// PutNull writes a null element with the given tag.
func (w *Writer) PutNull(tag Tag) error {
	return w.writeControlAndTag(ElementTypeNull, tag)
}

// PutUint writes an unsigned integer with the given tag.
// The writer chooses the minimum width needed to encode the value.
func (w *Writer) PutUint(tag Tag, v uint64) error {
	var buf [8]byte

	switch {
	case v <= math.MaxUint8:
		buf[0] = byte(v)
		return w.writeFixedValue(ElementTypeUInt8, tag, buf[:1])
	case v <= math.MaxUint16:
		binary.LittleEndian.PutUint16(buf[:2], uint16(v))
		return w.writeFixedValue(ElementTypeUInt16, tag, buf[:2])
	case v <= math.MaxUint32:
		binary.LittleEndian.PutUint32(buf[:4], uint32(v))
		return w.writeFixedValue(ElementTypeUInt32, tag, buf[:4])
	default:
		binary.LittleEndian.PutUint64(buf[:8], v)
		return w.writeFixedValue(ElementTypeUInt64, tag, buf[:8])
	}
}

// PutInt writes a signed integer with the given tag.
// The writer chooses the minimum width needed to encode the value.
func (w *Writer) PutInt(tag Tag, v int64) error {
	var buf [8]byte

	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		buf[0] = byte(v)
		return w.writeFixedValue(ElementTypeInt8, tag, buf[:1])
	case v >= math.MinInt16 && v <= math.MaxInt16:
		binary.LittleEndian.PutUint16(buf[:2], uint16(v))
		return w.writeFixedValue(ElementTypeInt16, tag, buf[:2])
	case v >= math.MinInt32 && v <= math.MaxInt32:
		binary.LittleEndian.PutUint32(buf[:4], uint32(v))
		return w.writeFixedValue(ElementTypeInt32, tag, buf[:4])
	default:
		binary.LittleEndian.PutUint64(buf[:8], uint64(v))
		return w.writeFixedValue(ElementTypeInt64, tag, buf[:8])
	}
}

// PutString writes a UTF-8 string with the given tag.
func (w *Writer) PutString(tag Tag, s string) error {
	if !utf8.ValidString(s) {
		return ErrInvalidUTF8
	}
	return w.putLengthDelimited(ElementTypeUTF8_1, ElementTypeUTF8_2, tag, []byte(s))
}

// PutBytes writes an octet string with the given tag.
func (w *Writer) PutBytes(tag Tag, b []byte) error {
	return w.putLengthDelimited(ElementTypeBytes1, ElementTypeBytes2, tag, b)
}

func (w *Writer) putLengthDelimited(narrow, wide ElementType, tag Tag, payload []byte) error {
	if len(payload) > math.MaxUint16 {
		return ErrInvalidDataType
	}

	if len(payload) <= math.MaxUint8 {
		if err := w.writeControlAndTag(narrow, tag); err != nil {
			return err
		}
		if _, err := w.w.Write([]byte{byte(len(payload))}); err != nil {
			return err
		}
	} else {
		if err := w.writeControlAndTag(wide, tag); err != nil {
			return err
		}
		var lenBuf [2]byte
		binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(payload)))
		if _, err := w.w.Write(lenBuf[:]); err != nil {
			return err
		}
	}

	_, err := w.w.Write(payload)
	return err
}

// StartStruct opens a structure container.
func (w *Writer) StartStruct(tag Tag) error {
	return w.startContainer(ElementTypeStruct, tag)
}

// StartArray opens an array container.
func (w *Writer) StartArray(tag Tag) error {
	return w.startContainer(ElementTypeArray, tag)
}

// StartList opens a list container.
func (w *Writer) StartList(tag Tag) error {
	return w.startContainer(ElementTypeList, tag)
}

func (w *Writer) startContainer(elemType ElementType, tag Tag) error {
	if err := w.writeControlAndTag(elemType, tag); err != nil {
		return err
	}
	w.containerStack = append(w.containerStack, elemType)
	return nil
}

// EndContainer closes the innermost open container.
func (w *Writer) EndContainer() error {
	if len(w.containerStack) == 0 {
		return ErrContainerMismatch
	}
	w.containerStack = w.containerStack[:len(w.containerStack)-1]
	_, err := w.w.Write([]byte{byte(ElementTypeEnd)})
	return err
}

// Depth returns the number of currently open containers.
func (w *Writer) Depth() int {
	return len(w.containerStack)
}
