package ast

// QualifierOf returns the type an expression evaluates to. The linter has
// already rejected ill-typed expressions, so mixed string/numeric operands
// are not considered.
func QualifierOf(e Expr) TypeQualifier {
	switch n := e.(type) {
	case *IntegerLiteral:
		return Integer
	case *LongLiteral:
		return Long
	case *SingleLiteral:
		return Single
	case *DoubleLiteral:
		return Double
	case *StringLiteral:
		return String
	case *Variable:
		return n.Name.Qualifier
	case *Constant:
		return n.Name.Qualifier
	case *FunctionCall:
		return n.Name.Qualifier
	case *BuiltInFunctionCall:
		return n.Function.Name().Qualifier
	case *Parenthesis:
		return QualifierOf(n.Child)
	case *UnaryExpr:
		q := QualifierOf(n.Child)
		if n.Op == UnaryNot && (q == Single || q == Double) {
			return Long
		}
		return q
	case *BinaryExpr:
		return binaryQualifier(n)
	}
	return QualifierNone
}

func binaryQualifier(n *BinaryExpr) TypeQualifier {
	if n.Op.IsRelational() {
		return Integer
	}
	left, right := QualifierOf(n.Left), QualifierOf(n.Right)
	switch n.Op {
	case OpDivide:
		if left == Double || right == Double {
			return Double
		}
		return Single
	case OpAnd, OpOr:
		if left == Integer && right == Integer {
			return Integer
		}
		return Long
	}
	// numeric ranks follow declaration order: Integer < Long < Single < Double
	if left == String || right == String {
		return String
	}
	if left > right {
		return left
	}
	return right
}
