package ast

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Positions
// ---------------------------------------------------------------------------

// Position represents a source location.
type Position struct {
	Line   int `cbor:"1,keyasint"` // 1-based line number
	Column int `cbor:"2,keyasint"` // 1-based column number
}

// Pos is a shorthand constructor used heavily by tests.
func Pos(line, column int) Position {
	return Position{Line: line, Column: column}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ---------------------------------------------------------------------------
// Type qualifiers
// ---------------------------------------------------------------------------

// TypeQualifier is the type suffix of a name. The zero value means "none"
// and never appears on a linted name.
type TypeQualifier byte

const (
	QualifierNone TypeQualifier = iota
	Integer                     // %
	Long                        // &
	Single                      // !
	Double                      // #
	String                      // $
)

// ParseQualifier maps a suffix character to its qualifier.
func ParseQualifier(c byte) (TypeQualifier, bool) {
	switch c {
	case '%':
		return Integer, true
	case '&':
		return Long, true
	case '!':
		return Single, true
	case '#':
		return Double, true
	case '$':
		return String, true
	}
	return QualifierNone, false
}

// String returns the suffix character.
func (q TypeQualifier) String() string {
	switch q {
	case Integer:
		return "%"
	case Long:
		return "&"
	case Single:
		return "!"
	case Double:
		return "#"
	case String:
		return "$"
	}
	return ""
}

// IsNumeric reports whether values of this type take part in arithmetic.
func (q TypeQualifier) IsNumeric() bool {
	return q >= Integer && q <= Double
}

// ---------------------------------------------------------------------------
// Names
// ---------------------------------------------------------------------------

// BareName is an identifier without its type suffix. BASIC names are
// case-insensitive; use Key when a name indexes a map.
type BareName string

// Key returns the canonical form of the name.
func (b BareName) Key() string {
	return strings.ToUpper(string(b))
}

// Equal compares two names ignoring case.
func (b BareName) Equal(other BareName) bool {
	return strings.EqualFold(string(b), string(other))
}

// QualifiedName is a bare name plus its resolved type.
type QualifiedName struct {
	Bare      BareName      `cbor:"1,keyasint"`
	Qualifier TypeQualifier `cbor:"2,keyasint"`
}

// NewName builds a qualified name.
func NewName(bare string, q TypeQualifier) QualifiedName {
	return QualifiedName{Bare: BareName(bare), Qualifier: q}
}

// ParseName splits "N%" into its parts. A name without a suffix is Single,
// the default type of an undeclared BASIC variable.
func ParseName(s string) QualifiedName {
	if s == "" {
		return QualifiedName{}
	}
	if q, ok := ParseQualifier(s[len(s)-1]); ok {
		return QualifiedName{Bare: BareName(s[:len(s)-1]), Qualifier: q}
	}
	return QualifiedName{Bare: BareName(s), Qualifier: Single}
}

// Equal compares names ignoring the case of the bare part.
func (n QualifiedName) Equal(other QualifiedName) bool {
	return n.Qualifier == other.Qualifier && n.Bare.Equal(other.Bare)
}

func (n QualifiedName) String() string {
	return string(n.Bare) + n.Qualifier.String()
}
