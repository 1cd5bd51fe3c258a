package variant

import (
	"fmt"

	"github.com/chazu/basic/ast"
	"github.com/fxamacker/cbor/v2"
)

// wireVariant is the CBOR shape of a Variant.
type wireVariant struct {
	Type   uint8   `cbor:"1,keyasint"`
	Int    int64   `cbor:"2,keyasint,omitempty"`
	Float  float64 `cbor:"3,keyasint,omitempty"`
	String string  `cbor:"4,keyasint,omitempty"`
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic("variant: failed to create CBOR encoder: " + err.Error())
	}
}

// MarshalCBOR implements cbor.Marshaler.
func (v Variant) MarshalCBOR() ([]byte, error) {
	return encMode.Marshal(wireVariant{Type: uint8(v.q), Int: v.i, Float: v.f, String: v.s})
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (v *Variant) UnmarshalCBOR(data []byte) error {
	var w wireVariant
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("variant: unmarshal: %w", err)
	}
	q := ast.TypeQualifier(w.Type)
	switch q {
	case ast.Integer:
		*v = Integer(int32(w.Int))
	case ast.Long:
		*v = Long(w.Int)
	case ast.Single:
		*v = Single(float32(w.Float))
	case ast.Double:
		*v = Double(w.Float)
	case ast.String:
		*v = String(w.String)
	case ast.QualifierNone:
		*v = Variant{}
	default:
		return fmt.Errorf("variant: unknown type tag %d", w.Type)
	}
	return nil
}
