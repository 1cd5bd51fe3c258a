package compiler

import (
	"github.com/chazu/basic/ast"
	"github.com/chazu/basic/bytecode"
)

func (g *Generator) statements(stmts []ast.Stmt) {
	for _, s := range stmts {
		g.statement(s)
	}
}

func (g *Generator) statement(s ast.Stmt) {
	pos := s.Pos()
	switch n := s.(type) {
	case *ast.Assignment:
		g.expression(n.Value)
		g.emit(bytecode.Store(n.Name), pos)
	case *ast.Const:
		g.constOnly = true
		g.expression(n.Value)
		g.constOnly = false
		g.emit(bytecode.Cast(n.Name.Qualifier), pos)
		g.emit(bytecode.StoreConst(n.Name), pos)
		g.declareConstant(n.Name.Bare)
	case *ast.SubCall:
		g.subCall(n)
	case *ast.BuiltInSubCall:
		g.builtInSubCall(n)
	case *ast.IfBlock:
		g.ifBlock(n)
	case *ast.SelectCase:
		g.selectCase(n)
	case *ast.ForLoop:
		g.forLoop(n)
	case *ast.While:
		g.while(n)
	case *ast.ErrorHandler:
		g.emit(bytecode.SetUnresolvedErrorHandler(g.userLabel(n.Label)), pos)
	case *ast.Label:
		g.emit(bytecode.Label(g.userLabel(n.Name)), pos)
	case *ast.GoTo:
		g.emit(bytecode.UnresolvedJump(g.userLabel(n.Label)), pos)
	case *ast.SetReturnValue:
		g.expression(n.Value)
		g.emit(bytecode.StoreAToResult(), pos)
	default:
		g.errorf(pos, "unsupported statement %T", s)
	}
}

// ifBlock lowers IF / ELSEIF / ELSE. Each condition that fails falls
// through to the next one; every taken branch jumps to the end.
func (g *Generator) ifBlock(n *ast.IfBlock) {
	end := g.newLabel("end_if")
	blocks := append([]ast.ConditionalBlock{n.If}, n.ElseIfs...)
	for _, b := range blocks {
		next := g.newLabel("else_if")
		g.expression(b.Condition)
		g.emit(bytecode.UnresolvedJumpIfFalse(next), b.PosVal)
		g.statements(b.Body)
		g.emit(bytecode.UnresolvedJump(end), b.PosVal)
		g.emit(bytecode.Label(next), b.PosVal)
	}
	g.statements(n.Else)
	g.emit(bytecode.Label(end), n.PosVal)
}

// selectCase evaluates the selector once into a hidden variable and tests
// the cases in order.
func (g *Generator) selectCase(n *ast.SelectCase) {
	selector := g.hiddenVar("select", ast.QualifierOf(n.Expr))
	g.expression(n.Expr)
	g.emit(bytecode.Store(selector), n.PosVal)

	end := g.newLabel("end_select")
	for _, c := range n.Cases {
		next := g.newLabel("case")
		switch c.Kind {
		case ast.CaseSimple:
			g.caseTest(selector, ast.OpEqual, c.Expr, next, c.PosVal)
		case ast.CaseIs:
			if !c.Op.IsRelational() {
				g.errorf(c.PosVal, "CASE IS requires a relational operator, got %s", c.Op)
				return
			}
			g.caseTest(selector, c.Op, c.Expr, next, c.PosVal)
		case ast.CaseRange:
			g.caseTest(selector, ast.OpGreaterOrEqual, c.Expr, next, c.PosVal)
			g.caseTest(selector, ast.OpLessOrEqual, c.Upper, next, c.PosVal)
		}
		g.statements(c.Body)
		g.emit(bytecode.UnresolvedJump(end), c.PosVal)
		g.emit(bytecode.Label(next), c.PosVal)
	}
	g.statements(n.Else)
	g.emit(bytecode.Label(end), n.PosVal)
}

// caseTest jumps to next unless `selector op e` holds.
func (g *Generator) caseTest(selector ast.QualifiedName, op ast.Operator, e ast.Expr, next string, pos ast.Position) {
	g.expression(e)
	g.emit(bytecode.CopyAToB(), pos)
	g.emit(bytecode.CopyVarToA(selector), pos)
	g.emit(operatorInstruction(op), pos)
	g.emit(bytecode.UnresolvedJumpIfFalse(next), pos)
}

func (g *Generator) while(n *ast.While) {
	top := g.newLabel("while")
	end := g.newLabel("wend")
	g.emit(bytecode.Label(top), n.PosVal)
	g.expression(n.Condition)
	g.emit(bytecode.UnresolvedJumpIfFalse(end), n.PosVal)
	g.statements(n.Body)
	g.emit(bytecode.UnresolvedJump(top), n.PosVal)
	g.emit(bytecode.Label(end), n.PosVal)
}
