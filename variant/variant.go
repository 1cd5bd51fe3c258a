// Package variant implements the value type of the BASIC virtual machine.
package variant

import (
	"errors"
	"math"
	"strconv"

	"github.com/chazu/basic/ast"
)

// Errors raised by Variant operations. The VM attaches a source location.
var (
	ErrTypeMismatch   = errors.New("Type mismatch")
	ErrOverflow       = errors.New("Overflow")
	ErrDivisionByZero = errors.New("Division by zero")
)

// Variant is a tagged union of the five BASIC data types. The zero value is
// not a valid Variant; use Default for a typed zero.
//
// Only the field selected by the tag is ever set, so Variants can be
// compared with ==.
type Variant struct {
	q ast.TypeQualifier
	i int64
	f float64
	s string
}

// True and False are the results of comparisons.
var (
	True  = Integer(-1)
	False = Integer(0)
)

// Integer creates a 32-bit integer value.
func Integer(v int32) Variant { return Variant{q: ast.Integer, i: int64(v)} }

// Long creates a 64-bit integer value.
func Long(v int64) Variant { return Variant{q: ast.Long, i: v} }

// Single creates a single-precision value.
func Single(v float32) Variant { return Variant{q: ast.Single, f: float64(v)} }

// Double creates a double-precision value.
func Double(v float64) Variant { return Variant{q: ast.Double, f: v} }

// String creates a string value.
func String(v string) Variant { return Variant{q: ast.String, s: v} }

// Bool converts a Go bool to the BASIC representation (-1 / 0).
func Bool(b bool) Variant {
	if b {
		return True
	}
	return False
}

// Default returns the zero value of a type.
func Default(q ast.TypeQualifier) Variant {
	switch q {
	case ast.Integer:
		return Integer(0)
	case ast.Long:
		return Long(0)
	case ast.Double:
		return Double(0)
	case ast.String:
		return String("")
	}
	return Single(0)
}

// Qualifier returns the type of the value.
func (v Variant) Qualifier() ast.TypeQualifier { return v.q }

// IsString reports whether the value is a string.
func (v Variant) IsString() bool { return v.q == ast.String }

// IsValid reports whether the value was built by one of the constructors.
func (v Variant) IsValid() bool { return v.q != ast.QualifierNone }

// Int returns the value of an Integer or Long.
func (v Variant) Int() int64 { return v.i }

// Float returns the value of a Single or Double.
func (v Variant) Float() float64 { return v.f }

// Str returns the value of a String.
func (v Variant) Str() string { return v.s }

// String formats the value the way PRINT shows it.
func (v Variant) String() string {
	switch v.q {
	case ast.Integer, ast.Long:
		return strconv.FormatInt(v.i, 10)
	case ast.Single:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case ast.Double:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case ast.String:
		return v.s
	}
	return "<invalid>"
}

// ---------------------------------------------------------------------------
// Conversions
// ---------------------------------------------------------------------------

func (v Variant) isInteger() bool { return v.q == ast.Integer || v.q == ast.Long }

// asFloat returns any numeric value as float64.
func (v Variant) asFloat() float64 {
	if v.isInteger() {
		return float64(v.i)
	}
	return v.f
}

// Truthy converts a numeric value to a condition: anything non-zero is true.
func (v Variant) Truthy() (bool, error) {
	switch v.q {
	case ast.Integer, ast.Long:
		return v.i != 0, nil
	case ast.Single, ast.Double:
		return v.f != 0, nil
	}
	return false, ErrTypeMismatch
}

// Cast converts the value to the given type. Floating point values are
// rounded half away from zero when stored into integers.
func (v Variant) Cast(q ast.TypeQualifier) (Variant, error) {
	if v.q == q {
		return v, nil
	}
	if v.q == ast.String || q == ast.String {
		return Variant{}, ErrTypeMismatch
	}
	switch q {
	case ast.Integer:
		n, err := v.roundToInt()
		if err != nil {
			return Variant{}, err
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return Variant{}, ErrOverflow
		}
		return Integer(int32(n)), nil
	case ast.Long:
		n, err := v.roundToInt()
		if err != nil {
			return Variant{}, err
		}
		return Long(n), nil
	case ast.Single:
		f := v.asFloat()
		if math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
			return Variant{}, ErrOverflow
		}
		return Single(float32(f)), nil
	case ast.Double:
		return Double(v.asFloat()), nil
	}
	return Variant{}, ErrTypeMismatch
}

func (v Variant) roundToInt() (int64, error) {
	if v.isInteger() {
		return v.i, nil
	}
	r := math.Round(v.f)
	if math.IsNaN(r) || r < math.MinInt64 || r >= math.MaxInt64 {
		return 0, ErrOverflow
	}
	return int64(r), nil
}
