package variant

import (
	"math"
	"strings"

	"github.com/chazu/basic/ast"
)

// ---------------------------------------------------------------------------
// Arithmetic
// ---------------------------------------------------------------------------

// widest returns the result type of a numeric binary operation. Qualifiers
// are declared in rank order: Integer < Long < Single < Double.
func widest(a, b Variant) ast.TypeQualifier {
	if a.q > b.q {
		return a.q
	}
	return b.q
}

func numericOperands(a, b Variant) error {
	if !a.q.IsNumeric() || !b.q.IsNumeric() {
		return ErrTypeMismatch
	}
	return nil
}

// fitInteger returns an Integer when n fits, widening to Long otherwise.
func fitInteger(n int64) Variant {
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		return Integer(int32(n))
	}
	return Long(n)
}

// Plus adds two numbers or concatenates two strings.
func (v Variant) Plus(other Variant) (Variant, error) {
	if v.q == ast.String && other.q == ast.String {
		return String(v.s + other.s), nil
	}
	if err := numericOperands(v, other); err != nil {
		return Variant{}, err
	}
	switch widest(v, other) {
	case ast.Integer:
		return fitInteger(v.i + other.i), nil
	case ast.Long:
		sum := v.i + other.i
		if (v.i > 0 && other.i > 0 && sum < 0) || (v.i < 0 && other.i < 0 && sum >= 0) {
			return Variant{}, ErrOverflow
		}
		return Long(sum), nil
	case ast.Single:
		return Single(float32(v.asFloat()) + float32(other.asFloat())), nil
	default:
		return Double(v.asFloat() + other.asFloat()), nil
	}
}

// Minus subtracts other from v.
func (v Variant) Minus(other Variant) (Variant, error) {
	if err := numericOperands(v, other); err != nil {
		return Variant{}, err
	}
	switch widest(v, other) {
	case ast.Integer:
		return fitInteger(v.i - other.i), nil
	case ast.Long:
		diff := v.i - other.i
		if (v.i >= 0 && other.i < 0 && diff < 0) || (v.i < 0 && other.i > 0 && diff >= 0) {
			return Variant{}, ErrOverflow
		}
		return Long(diff), nil
	case ast.Single:
		return Single(float32(v.asFloat()) - float32(other.asFloat())), nil
	default:
		return Double(v.asFloat() - other.asFloat()), nil
	}
}

// Times multiplies two numbers.
func (v Variant) Times(other Variant) (Variant, error) {
	if err := numericOperands(v, other); err != nil {
		return Variant{}, err
	}
	switch widest(v, other) {
	case ast.Integer:
		return fitInteger(v.i * other.i), nil
	case ast.Long:
		p := v.i * other.i
		if v.i != 0 && (p/v.i != other.i || (v.i == -1 && other.i == math.MinInt64)) {
			return Variant{}, ErrOverflow
		}
		return Long(p), nil
	case ast.Single:
		return Single(float32(v.asFloat()) * float32(other.asFloat())), nil
	default:
		return Double(v.asFloat() * other.asFloat()), nil
	}
}

// Divide performs floating point division. The result is Double when either
// operand is Double and Single otherwise.
func (v Variant) Divide(other Variant) (Variant, error) {
	if err := numericOperands(v, other); err != nil {
		return Variant{}, err
	}
	divisor := other.asFloat()
	if divisor == 0 {
		return Variant{}, ErrDivisionByZero
	}
	if v.q == ast.Double || other.q == ast.Double {
		return Double(v.asFloat() / divisor), nil
	}
	return Single(float32(v.asFloat()) / float32(divisor)), nil
}

// Negate flips the sign of a number.
func (v Variant) Negate() (Variant, error) {
	switch v.q {
	case ast.Integer:
		return fitInteger(-v.i), nil
	case ast.Long:
		if v.i == math.MinInt64 {
			return Variant{}, ErrOverflow
		}
		return Long(-v.i), nil
	case ast.Single:
		return Single(-float32(v.f)), nil
	case ast.Double:
		return Double(-v.f), nil
	}
	return Variant{}, ErrTypeMismatch
}

// ---------------------------------------------------------------------------
// Logic
// ---------------------------------------------------------------------------

// Not is the bitwise complement, so NOT of True is False.
func (v Variant) Not() (Variant, error) {
	switch v.q {
	case ast.Integer:
		return Integer(^int32(v.i)), nil
	case ast.Long:
		return Long(^v.i), nil
	case ast.Single, ast.Double:
		n, err := v.roundToInt()
		if err != nil {
			return Variant{}, err
		}
		return Long(^n), nil
	}
	return Variant{}, ErrTypeMismatch
}

// And is the bitwise conjunction.
func (v Variant) And(other Variant) (Variant, error) {
	return v.bitwise(other, func(a, b int64) int64 { return a & b })
}

// Or is the bitwise disjunction.
func (v Variant) Or(other Variant) (Variant, error) {
	return v.bitwise(other, func(a, b int64) int64 { return a | b })
}

func (v Variant) bitwise(other Variant, op func(a, b int64) int64) (Variant, error) {
	if err := numericOperands(v, other); err != nil {
		return Variant{}, err
	}
	if v.q == ast.Integer && other.q == ast.Integer {
		return Integer(int32(op(v.i, other.i))), nil
	}
	a, err := v.roundToInt()
	if err != nil {
		return Variant{}, err
	}
	b, err := other.roundToInt()
	if err != nil {
		return Variant{}, err
	}
	return Long(op(a, b)), nil
}

// ---------------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------------

// Compare returns -1, 0 or 1. Strings compare with strings and numbers with
// numbers; anything else is a type mismatch.
func (v Variant) Compare(other Variant) (int, error) {
	if v.q == ast.String && other.q == ast.String {
		return strings.Compare(v.s, other.s), nil
	}
	if err := numericOperands(v, other); err != nil {
		return 0, err
	}
	if v.isInteger() && other.isInteger() {
		switch {
		case v.i < other.i:
			return -1, nil
		case v.i > other.i:
			return 1, nil
		}
		return 0, nil
	}
	a, b := v.asFloat(), other.asFloat()
	switch {
	case a < b:
		return -1, nil
	case a > b:
		return 1, nil
	}
	return 0, nil
}
