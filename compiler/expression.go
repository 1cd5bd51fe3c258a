package compiler

import (
	"github.com/chazu/basic/ast"
	"github.com/chazu/basic/bytecode"
	"github.com/chazu/basic/variant"
)

// expression emits code leaving the value of e in register A.
func (g *Generator) expression(e ast.Expr) {
	pos := e.Pos()
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		g.emit(bytecode.Load(variant.Integer(n.Value)), pos)
	case *ast.LongLiteral:
		g.emit(bytecode.Load(variant.Long(n.Value)), pos)
	case *ast.SingleLiteral:
		g.emit(bytecode.Load(variant.Single(n.Value)), pos)
	case *ast.DoubleLiteral:
		g.emit(bytecode.Load(variant.Double(n.Value)), pos)
	case *ast.StringLiteral:
		g.emit(bytecode.Load(variant.String(n.Value)), pos)
	case *ast.Variable:
		if g.constOnly && !g.isConstant(n.Name.Bare) {
			g.errorf(pos, "Invalid constant")
			return
		}
		g.emit(bytecode.CopyVarToA(n.Name), pos)
	case *ast.Constant:
		g.emit(bytecode.CopyVarToA(n.Name), pos)
	case *ast.FunctionCall:
		if g.constOnly {
			g.errorf(pos, "Invalid constant")
			return
		}
		g.functionCall(n)
	case *ast.BuiltInFunctionCall:
		if g.constOnly {
			g.errorf(pos, "Invalid constant")
			return
		}
		g.builtInCall(n.Function.Name().String(), n.Args, pos, true)
	case *ast.BinaryExpr:
		// Right to left so the left operand ends up in A and the right in B.
		g.emit(bytecode.PushRegisters(), pos)
		g.expression(n.Right)
		g.emit(bytecode.CopyAToB(), pos)
		g.expression(n.Left)
		g.emit(operatorInstruction(n.Op), pos)
		g.emit(bytecode.PopRegisters(), pos)
	case *ast.UnaryExpr:
		g.expression(n.Child)
		if n.Op == ast.UnaryNot {
			g.emit(bytecode.NotA(), pos)
		} else {
			g.emit(bytecode.NegateA(), pos)
		}
	case *ast.Parenthesis:
		g.expression(n.Child)
	default:
		g.errorf(pos, "unsupported expression %T", e)
	}
}

func operatorInstruction(op ast.Operator) bytecode.Instruction {
	switch op {
	case ast.OpLess:
		return bytecode.LessThan()
	case ast.OpLessOrEqual:
		return bytecode.LessOrEqualThan()
	case ast.OpEqual:
		return bytecode.EqualTo()
	case ast.OpGreaterOrEqual:
		return bytecode.GreaterOrEqualThan()
	case ast.OpGreater:
		return bytecode.GreaterThan()
	case ast.OpNotEqual:
		return bytecode.NotEqualTo()
	case ast.OpPlus:
		return bytecode.Plus()
	case ast.OpMinus:
		return bytecode.Minus()
	case ast.OpTimes:
		return bytecode.Times()
	case ast.OpDivide:
		return bytecode.Divide()
	case ast.OpAnd:
		return bytecode.And()
	default:
		return bytecode.Or()
	}
}
