package persist

import (
	"fmt"

	"github.com/angelybo/matter-rs/pkg/datamodel"
)

// record is the stored form of an attribute value.
type record struct {
	Type  uint8  `cbor:"1,keyasint"`
	Bool  bool   `cbor:"2,keyasint,omitempty"`
	Uint  uint64 `cbor:"3,keyasint,omitempty"`
	Int   int64  `cbor:"4,keyasint,omitempty"`
	Str   string `cbor:"5,keyasint,omitempty"`
	Bytes []byte `cbor:"6,keyasint,omitempty"`
}

// newRecord converts an attribute value for storage.
func newRecord(v datamodel.AttrValue) record {
	rec := record{Type: uint8(v.Type())}

	switch v.Type() {
	case datamodel.TypeBool:
		rec.Bool, _ = v.Bool()
	case datamodel.TypeUint8, datamodel.TypeUint16, datamodel.TypeUint32, datamodel.TypeUint64:
		rec.Uint, _ = v.Uint()
	case datamodel.TypeInt8, datamodel.TypeInt16, datamodel.TypeInt32, datamodel.TypeInt64:
		rec.Int, _ = v.Int()
	case datamodel.TypeString:
		rec.Str, _ = v.Text()
	case datamodel.TypeBytes:
		rec.Bytes, _ = v.Bytes()
	}
	return rec
}

// value reconstructs the attribute value.
func (r record) value() (datamodel.AttrValue, error) {
	switch datamodel.ValueType(r.Type) {
	case datamodel.TypeBool:
		return datamodel.BoolValue(r.Bool), nil
	case datamodel.TypeUint8:
		return datamodel.Uint8Value(uint8(r.Uint)), nil
	case datamodel.TypeUint16:
		return datamodel.Uint16Value(uint16(r.Uint)), nil
	case datamodel.TypeUint32:
		return datamodel.Uint32Value(uint32(r.Uint)), nil
	case datamodel.TypeUint64:
		return datamodel.Uint64Value(r.Uint), nil
	case datamodel.TypeInt8:
		return datamodel.Int8Value(int8(r.Int)), nil
	case datamodel.TypeInt16:
		return datamodel.Int16Value(int16(r.Int)), nil
	case datamodel.TypeInt32:
		return datamodel.Int32Value(int32(r.Int)), nil
	case datamodel.TypeInt64:
		return datamodel.Int64Value(r.Int), nil
	case datamodel.TypeString:
		return datamodel.StringValue(r.Str), nil
	case datamodel.TypeBytes:
		return datamodel.BytesValue(r.Bytes), nil
	default:
		return datamodel.AttrValue{}, fmt.Errorf("persist: unknown value type %d", r.Type)
	}
}
