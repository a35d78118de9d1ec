package tlv

import (
	"bytes"
	"errors"
	"testing"
)

func encode(t *testing.T, fn func(w *Writer) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := fn(w); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestParse_Uint(t *testing.T) {
	tests := []struct {
		name string
		v    uint64
		typ  ElementType
	}{
		{"u8", 0x42, ElementTypeUInt8},
		{"u16", 0x1234, ElementTypeUInt16},
		{"u32", 0x12345678, ElementTypeUInt32},
		{"u64", 0x123456789ABCDEF0, ElementTypeUInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encode(t, func(w *Writer) error {
				return w.PutUint(Anonymous(), tt.v)
			})

			el, err := Parse(data)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if el.Type() != tt.typ {
				t.Errorf("Type() = %v, want %v", el.Type(), tt.typ)
			}
			got, err := el.Uint()
			if err != nil {
				t.Fatalf("Uint() error = %v", err)
			}
			if got != tt.v {
				t.Errorf("Uint() = 0x%X, want 0x%X", got, tt.v)
			}
		})
	}
}

func TestParse_Int(t *testing.T) {
	for _, v := range []int64{0, -1, 127, -128, 32767, -32768, -70000, 1 << 40} {
		data := encode(t, func(w *Writer) error {
			return w.PutInt(Anonymous(), v)
		})

		el, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse(%d) error = %v", v, err)
		}
		got, err := el.Int()
		if err != nil {
			t.Fatalf("Int() error = %v", err)
		}
		if got != v {
			t.Errorf("Int() = %d, want %d", got, v)
		}
	}
}

func TestParse_Bool(t *testing.T) {
	for _, v := range []bool{true, false} {
		data := encode(t, func(w *Writer) error {
			return w.PutBool(Anonymous(), v)
		})

		el, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		got, err := el.Bool()
		if err != nil {
			t.Fatalf("Bool() error = %v", err)
		}
		if got != v {
			t.Errorf("Bool() = %v, want %v", got, v)
		}
	}
}

func TestParse_StringAndBytes(t *testing.T) {
	data := encode(t, func(w *Writer) error {
		return w.PutString(Anonymous(), "hello")
	})
	el, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	s, err := el.String()
	if err != nil {
		t.Fatalf("String() error = %v", err)
	}
	if s != "hello" {
		t.Errorf("String() = %q, want %q", s, "hello")
	}

	raw := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	data = encode(t, func(w *Writer) error {
		return w.PutBytes(ContextTag(3), raw)
	})
	el, err = Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !el.Tag().IsContext() || el.Tag().Number() != 3 {
		t.Errorf("Tag() = %+v, want context tag 3", el.Tag())
	}
	b, err := el.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if !bytes.Equal(b, raw) {
		t.Errorf("Bytes() = %x, want %x", b, raw)
	}
}

func TestParse_Null(t *testing.T) {
	data := encode(t, func(w *Writer) error {
		return w.PutNull(Anonymous())
	})
	el, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !el.IsNull() {
		t.Errorf("IsNull() = false, want true")
	}
}

func TestParse_Struct(t *testing.T) {
	data := encode(t, func(w *Writer) error {
		if err := w.StartStruct(Anonymous()); err != nil {
			return err
		}
		if err := w.PutUint(Anonymous(), 128); err != nil {
			return err
		}
		if err := w.PutUint(Anonymous(), 10); err != nil {
			return err
		}
		if err := w.PutBool(Anonymous(), true); err != nil {
			return err
		}
		return w.EndContainer()
	})

	el, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if el.Type() != ElementTypeStruct {
		t.Fatalf("Type() = %v, want Struct", el.Type())
	}
	if el.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", el.Len())
	}

	it, err := el.Enter()
	if err != nil {
		t.Fatalf("Enter() error = %v", err)
	}

	first, ok := it.Next()
	if !ok {
		t.Fatal("Next() returned no element")
	}
	if v, _ := first.Uint8(); v != 128 {
		t.Errorf("first.Uint8() = %d, want 128", v)
	}

	second, _ := it.Next()
	if v, _ := second.Uint16(); v != 10 {
		t.Errorf("second.Uint16() = %d, want 10", v)
	}

	third, _ := it.Next()
	if v, _ := third.Bool(); !v {
		t.Errorf("third.Bool() = false, want true")
	}

	if _, ok := it.Next(); ok {
		t.Error("Next() after last element returned ok")
	}
}

func TestParse_NestedContainers(t *testing.T) {
	data := encode(t, func(w *Writer) error {
		if err := w.StartStruct(Anonymous()); err != nil {
			return err
		}
		if err := w.StartArray(ContextTag(0)); err != nil {
			return err
		}
		if err := w.PutUint(Anonymous(), 1); err != nil {
			return err
		}
		if err := w.PutUint(Anonymous(), 2); err != nil {
			return err
		}
		if err := w.EndContainer(); err != nil {
			return err
		}
		return w.EndContainer()
	})

	el, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	it, _ := el.Enter()
	inner, ok := it.Next()
	if !ok || inner.Type() != ElementTypeArray {
		t.Fatalf("inner = %v, want Array", inner)
	}
	if inner.Len() != 2 {
		t.Errorf("inner.Len() = %d, want 2", inner.Len())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrUnexpectedEnd},
		{"truncated value", []byte{0x05, 0x34}, ErrUnexpectedEnd},
		{"unterminated struct", []byte{0x15, 0x04, 0x01}, ErrUnexpectedEnd},
		{"bare end marker", []byte{0x18}, ErrContainerMismatch},
		{"trailing data", []byte{0x04, 0x01, 0x04, 0x02}, ErrTrailingData},
		{"profile tag", []byte{0x44, 0x00, 0x00, 0x01}, ErrUnsupportedTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestElement_TypeMismatch(t *testing.T) {
	data := encode(t, func(w *Writer) error {
		return w.PutBool(Anonymous(), true)
	})
	el, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if _, err := el.Uint(); !errors.Is(err, ErrInvalidDataType) {
		t.Errorf("Uint() on bool error = %v, want ErrInvalidDataType", err)
	}
	if _, err := el.String(); !errors.Is(err, ErrInvalidDataType) {
		t.Errorf("String() on bool error = %v, want ErrInvalidDataType", err)
	}
	if _, err := el.Enter(); !errors.Is(err, ErrNotContainer) {
		t.Errorf("Enter() on bool error = %v, want ErrNotContainer", err)
	}
}

func TestElement_UintWidthMismatch(t *testing.T) {
	data := encode(t, func(w *Writer) error {
		return w.PutUint(Anonymous(), 300)
	})
	el, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if _, err := el.Uint8(); !errors.Is(err, ErrInvalidDataType) {
		t.Errorf("Uint8() on 300 error = %v, want ErrInvalidDataType", err)
	}
	if v, err := el.Uint16(); err != nil || v != 300 {
		t.Errorf("Uint16() = %d, %v, want 300, nil", v, err)
	}
}

func TestWriter_ContainerMismatch(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.EndContainer(); !errors.Is(err, ErrContainerMismatch) {
		t.Errorf("EndContainer() error = %v, want ErrContainerMismatch", err)
	}
}
