package datamodel

import (
	"bytes"
	"errors"
	"testing"

	"github.com/angelybo/matter-rs/pkg/tlv"
)

func TestAttrValue_Accessors(t *testing.T) {
	v := Uint8Value(200)
	if got, err := v.Uint8(); err != nil || got != 200 {
		t.Errorf("Uint8() = %d, %v, want 200, nil", got, err)
	}
	if _, err := v.Bool(); !errors.Is(err, ErrInvalidDataType) {
		t.Errorf("Bool() on uint8 error = %v, want ErrInvalidDataType", err)
	}

	b := BoolValue(true)
	if got, err := b.Bool(); err != nil || !got {
		t.Errorf("Bool() = %v, %v, want true, nil", got, err)
	}
	if _, err := b.Uint(); !errors.Is(err, ErrInvalidDataType) {
		t.Errorf("Uint() on bool error = %v, want ErrInvalidDataType", err)
	}

	s := StringValue("lamp")
	if got, err := s.Text(); err != nil || got != "lamp" {
		t.Errorf("Text() = %q, %v, want %q, nil", got, err, "lamp")
	}
}

func TestAttrValue_Equal(t *testing.T) {
	if !Uint8Value(7).Equal(Uint8Value(7)) {
		t.Error("Equal() = false for identical values")
	}
	if Uint8Value(7).Equal(Uint16Value(7)) {
		t.Error("Equal() = true across variants")
	}
	if BoolValue(true).Equal(BoolValue(false)) {
		t.Error("Equal() = true for different booleans")
	}
}

func TestDecodeValue_RoundTrip(t *testing.T) {
	// decode → write → read → encode must be identity on the value.
	values := []AttrValue{
		BoolValue(true),
		Uint8Value(254),
		Uint16Value(3000),
		Uint32Value(1 << 20),
		Uint64Value(1 << 40),
		Int8Value(-5),
		Int16Value(-3000),
		StringValue("device"),
		BytesValue([]byte{1, 2, 3}),
	}

	for _, v := range values {
		var buf bytes.Buffer
		w := tlv.NewWriter(&buf)
		if err := v.Encode(w); err != nil {
			t.Fatalf("Encode(%v) error = %v", v, err)
		}

		el, err := tlv.Parse(buf.Bytes())
		if err != nil {
			t.Fatalf("Parse(%v) error = %v", v, err)
		}

		got, err := DecodeValue(v.Type(), el)
		if err != nil {
			t.Fatalf("DecodeValue(%v) error = %v", v, err)
		}
		if !got.Equal(v) {
			t.Errorf("round trip = %v, want %v", got, v)
		}
	}
}

func TestDecodeValue_Overflow(t *testing.T) {
	var buf bytes.Buffer
	w := tlv.NewWriter(&buf)
	if err := w.PutUint(tlv.Anonymous(), 300); err != nil {
		t.Fatalf("PutUint: %v", err)
	}
	el, err := tlv.Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if _, err := DecodeValue(TypeUint8, el); !errors.Is(err, ErrConstraintError) {
		t.Errorf("DecodeValue(u8, 300) error = %v, want ErrConstraintError", err)
	}
	if v, err := DecodeValue(TypeUint16, el); err != nil {
		t.Errorf("DecodeValue(u16, 300) error = %v", err)
	} else if u, _ := v.Uint(); u != 300 {
		t.Errorf("DecodeValue(u16, 300) = %d, want 300", u)
	}
}

func TestDecodeValue_VariantMismatch(t *testing.T) {
	var buf bytes.Buffer
	w := tlv.NewWriter(&buf)
	if err := w.PutBool(tlv.Anonymous(), true); err != nil {
		t.Fatalf("PutBool: %v", err)
	}
	el, err := tlv.Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if _, err := DecodeValue(TypeUint8, el); !errors.Is(err, ErrInvalidDataType) {
		t.Errorf("DecodeValue(u8, bool) error = %v, want ErrInvalidDataType", err)
	}
}

func TestIsSystemAttribute(t *testing.T) {
	tests := []struct {
		id   AttributeID
		want bool
	}{
		{0x0000, false},
		{0xEFFF, false},
		{0xF000, true},
		{0xFFFD, true},
		{0xFFFE, true},
		{0xFFFF, false},
	}

	for _, tt := range tests {
		if got := IsSystemAttribute(tt.id); got != tt.want {
			t.Errorf("IsSystemAttribute(0x%04X) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestNewAttribute_Validation(t *testing.T) {
	if _, err := NewAttribute(1, BoolValue(false), AccessRV, QualityPersistent); err != nil {
		t.Errorf("NewAttribute(RV persistent) error = %v", err)
	}

	// Fixed excludes the Write bit.
	if _, err := NewAttribute(1, Uint8Value(0), AccessRWVO, QualityFixed); !errors.Is(err, ErrInvalidData) {
		t.Errorf("NewAttribute(fixed+write) error = %v, want ErrInvalidData", err)
	}
}
