package compiler

import (
	"github.com/chazu/basic/ast"
	"github.com/chazu/basic/bytecode"
	"github.com/chazu/basic/variant"
)

// forLoop lowers FOR / NEXT. The upper bound and the step are evaluated
// once into hidden variables typed like the counter. With an explicit step
// both a counting-up and a counting-down body are emitted and the sign of
// the step picks one at run time; a zero step throws before the body runs.
// Labels defined in the body get fresh names in the counting-down copy, so
// the counting-up copy keeps the names jumps from outside the loop use.
func (g *Generator) forLoop(n *ast.ForLoop) {
	if n.NextCounter != nil && !n.NextCounter.Equal(n.Counter) {
		g.errorf(n.PosVal, "NEXT without FOR: %s", n.NextCounter)
		return
	}
	q := n.Counter.Qualifier
	upper := g.hiddenVar("upper", q)
	step := g.hiddenVar("step", q)
	out := g.newLabel("end_for")

	g.expression(n.Lower)
	g.emit(bytecode.Store(n.Counter), n.Lower.Pos())
	g.expression(n.Upper)
	g.emit(bytecode.Store(upper), n.Upper.Pos())

	if n.Step == nil {
		g.emit(bytecode.Load(variant.Integer(1)), n.PosVal)
		g.emit(bytecode.Store(step), n.PosVal)
		g.forBody(n, upper, step, bytecode.LessOrEqualThan(), out)
		g.emit(bytecode.Label(out), n.PosVal)
		return
	}

	stepPos := n.Step.Pos()
	positive := g.newLabel("for_positive")
	zero := g.newLabel("for_zero")

	g.emit(bytecode.Load(variant.Integer(0)), stepPos)
	g.emit(bytecode.CopyAToB(), stepPos)
	g.expression(n.Step)
	g.emit(bytecode.Store(step), stepPos)
	g.emit(bytecode.CopyVarToA(step), stepPos)
	g.emit(bytecode.LessThan(), stepPos)
	g.emit(bytecode.UnresolvedJumpIfFalse(positive), stepPos)
	outer := g.labelCopies
	g.labelCopies = g.renameBodyLabels(n.Body, outer)
	g.forBody(n, upper, step, bytecode.GreaterOrEqualThan(), out)
	g.labelCopies = outer
	g.emit(bytecode.UnresolvedJump(out), n.PosVal)

	g.emit(bytecode.Label(positive), stepPos)
	g.emit(bytecode.CopyVarToA(step), stepPos)
	g.emit(bytecode.GreaterThan(), stepPos)
	g.emit(bytecode.UnresolvedJumpIfFalse(zero), stepPos)
	g.forBody(n, upper, step, bytecode.LessOrEqualThan(), out)
	g.emit(bytecode.UnresolvedJump(out), n.PosVal)

	g.emit(bytecode.Label(zero), stepPos)
	g.emit(bytecode.Throw("Step cannot be zero"), stepPos)
	g.emit(bytecode.Label(out), n.PosVal)
}

// forBody emits one loop: test the counter against the upper bound with
// cmp, run the body, add the step and go round again.
func (g *Generator) forBody(n *ast.ForLoop, upper, step ast.QualifiedName, cmp bytecode.Instruction, out string) {
	top := g.newLabel("for_top")
	g.emit(bytecode.Label(top), n.PosVal)
	g.emit(bytecode.CopyVarToB(upper), n.PosVal)
	g.emit(bytecode.CopyVarToA(n.Counter), n.PosVal)
	g.emit(cmp, n.PosVal)
	g.emit(bytecode.UnresolvedJumpIfFalse(out), n.PosVal)
	g.statements(n.Body)
	g.emit(bytecode.CopyVarToA(n.Counter), n.PosVal)
	g.emit(bytecode.CopyVarToB(step), n.PosVal)
	g.emit(bytecode.Plus(), n.PosVal)
	g.emit(bytecode.Store(n.Counter), n.PosVal)
	g.emit(bytecode.UnresolvedJump(top), n.PosVal)
}

// renameBodyLabels extends outer with a fresh name for every label defined
// anywhere in body.
func (g *Generator) renameBodyLabels(body []ast.Stmt, outer map[string]string) map[string]string {
	renamed := make(map[string]string, len(outer))
	for k, v := range outer {
		renamed[k] = v
	}
	var walk func([]ast.Stmt)
	walk = func(stmts []ast.Stmt) {
		for _, s := range stmts {
			switch n := s.(type) {
			case *ast.Label:
				renamed[n.Name.Key()] = g.newLabel("label_" + n.Name.Key())
			case *ast.IfBlock:
				walk(n.If.Body)
				for _, b := range n.ElseIfs {
					walk(b.Body)
				}
				walk(n.Else)
			case *ast.SelectCase:
				for _, c := range n.Cases {
					walk(c.Body)
				}
				walk(n.Else)
			case *ast.ForLoop:
				walk(n.Body)
			case *ast.While:
				walk(n.Body)
			}
		}
	}
	walk(body)
	return renamed
}
