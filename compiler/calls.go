package compiler

import (
	"github.com/chazu/basic/ast"
	"github.com/chazu/basic/bytecode"
)

// functionCall emits a call of a user function, or of the undefined-function
// fallback when no implementation exists. The call runs inside its own
// register frame so the caller's B survives it.
func (g *Generator) functionCall(n *ast.FunctionCall) {
	impl, ok := g.functions.Lookup(n.Name.Bare)
	if !ok {
		g.builtInCall(bytecode.BuiltinUndefined, n.Args, n.PosVal, true)
		return
	}
	g.emit(bytecode.PushRegisters(), n.PosVal)
	g.userCall(functionLabel(impl.Name.Bare), impl, n.Args, n.PosVal)
	g.emit(bytecode.CopyResultToA(), n.PosVal)
	g.emit(bytecode.PopRegisters(), n.PosVal)
}

func (g *Generator) subCall(n *ast.SubCall) {
	impl, ok := g.subs.Lookup(n.Name)
	if !ok {
		g.errorf(n.PosVal, "Subprogram not defined: %s", n.Name)
		return
	}
	g.userCall(subLabel(impl.Name.Bare), impl, n.Args, n.PosVal)
}

// userCall stages arguments against the callee's parameters, then jumps to
// the callee. A bare variable is passed by reference, anything else by value.
func (g *Generator) userCall(label string, impl *ast.Implementation, args []ast.Expr, pos ast.Position) {
	g.emit(bytecode.PreparePush(), pos)
	for i, arg := range args {
		if i >= len(impl.Params) {
			break
		}
		param := impl.Params[i]
		if v, ok := arg.(*ast.Variable); ok {
			g.emit(bytecode.SetNamedRefParam(param, v.Name), arg.Pos())
			continue
		}
		g.expression(arg)
		g.emit(bytecode.SetNamedValParam(param), arg.Pos())
	}
	g.emit(bytecode.PushStack(), pos)
	ret := len(g.instructions) + 2
	g.emit(bytecode.PushRet(ret), pos)
	g.emit(bytecode.UnresolvedJump(label), pos)
	g.emit(bytecode.PopStack(), pos)
}

// builtInCall stages unnamed arguments and dispatches to the VM directly.
func (g *Generator) builtInCall(name string, args []ast.Expr, pos ast.Position, isFunction bool) {
	if isFunction {
		g.emit(bytecode.PushRegisters(), pos)
	}
	g.emit(bytecode.PreparePush(), pos)
	for _, arg := range args {
		if v, ok := arg.(*ast.Variable); ok {
			g.emit(bytecode.PushUnnamedRefParam(v.Name), arg.Pos())
			continue
		}
		g.expression(arg)
		g.emit(bytecode.PushUnnamedValParam(), arg.Pos())
	}
	g.emit(bytecode.PushStack(), pos)
	if isFunction {
		g.emit(bytecode.BuiltInFunction(name), pos)
	} else {
		g.emit(bytecode.BuiltInSub(name), pos)
	}
	g.emit(bytecode.PopStack(), pos)
	if isFunction {
		g.emit(bytecode.CopyResultToA(), pos)
		g.emit(bytecode.PopRegisters(), pos)
	}
}

func (g *Generator) builtInSubCall(n *ast.BuiltInSubCall) {
	if n.Sub == ast.System {
		g.emit(bytecode.Halt(), n.PosVal)
		return
	}
	g.builtInCall(n.Sub.String(), n.Args, n.PosVal, false)
}
