// Package basictest builds linted ASTs in code, for tests that would
// otherwise need a parser.
package basictest

import "github.com/chazu/basic/ast"

// Expressions

func Int(v int32) ast.Expr      { return &ast.IntegerLiteral{Value: v} }
func Long(v int64) ast.Expr     { return &ast.LongLiteral{Value: v} }
func Single(v float32) ast.Expr { return &ast.SingleLiteral{Value: v} }
func Double(v float64) ast.Expr { return &ast.DoubleLiteral{Value: v} }
func Str(s string) ast.Expr     { return &ast.StringLiteral{Value: s} }

// Var references a variable; "N%" is an integer, "N" a single.
func Var(name string) *ast.Variable { return &ast.Variable{Name: ast.ParseName(name)} }

// ConstRef references a constant.
func ConstRef(name string) ast.Expr { return &ast.Constant{Name: ast.ParseName(name)} }

// Call calls a function.
func Call(name string, args ...ast.Expr) ast.Expr {
	return &ast.FunctionCall{Name: ast.ParseName(name), Args: args}
}

// Environ calls ENVIRON$.
func Environ(arg ast.Expr) ast.Expr {
	return &ast.BuiltInFunctionCall{Function: ast.Environ, Args: []ast.Expr{arg}}
}

func Bin(op ast.Operator, left, right ast.Expr) ast.Expr {
	return &ast.BinaryExpr{Op: op, Left: left, Right: right}
}

func Add(left, right ast.Expr) ast.Expr  { return Bin(ast.OpPlus, left, right) }
func Sub(left, right ast.Expr) ast.Expr  { return Bin(ast.OpMinus, left, right) }
func Less(left, right ast.Expr) ast.Expr { return Bin(ast.OpLess, left, right) }
func Eq(left, right ast.Expr) ast.Expr   { return Bin(ast.OpEqual, left, right) }

func Neg(e ast.Expr) ast.Expr { return &ast.UnaryExpr{Op: ast.UnaryMinus, Child: e} }
func Not(e ast.Expr) ast.Expr { return &ast.UnaryExpr{Op: ast.UnaryNot, Child: e} }

// Statements

func Assign(name string, value ast.Expr) ast.Stmt {
	return &ast.Assignment{Name: ast.ParseName(name), Value: value}
}

func Const(name string, value ast.Expr) ast.Stmt {
	return &ast.Const{Name: ast.ParseName(name), Value: value}
}

func CallSub(name string, args ...ast.Expr) ast.Stmt {
	return &ast.SubCall{Name: ast.BareName(name), Args: args}
}

func Print(args ...ast.Expr) ast.Stmt {
	return &ast.BuiltInSubCall{Sub: ast.Print, Args: args}
}

func Input(args ...ast.Expr) ast.Stmt {
	return &ast.BuiltInSubCall{Sub: ast.Input, Args: args}
}

func SetEnv(arg ast.Expr) ast.Stmt {
	return &ast.BuiltInSubCall{Sub: ast.EnvironSub, Args: []ast.Expr{arg}}
}

func System() ast.Stmt { return &ast.BuiltInSubCall{Sub: ast.System} }

// If builds IF cond THEN body [ELSE elseBody].
func If(cond ast.Expr, body []ast.Stmt, elseBody ...ast.Stmt) ast.Stmt {
	return &ast.IfBlock{
		If:   ast.ConditionalBlock{Condition: cond, Body: body},
		Else: elseBody,
	}
}

// For builds FOR counter = lower TO upper [STEP step]. Pass a nil step for
// the default.
func For(counter string, lower, upper, step ast.Expr, body ...ast.Stmt) *ast.ForLoop {
	return &ast.ForLoop{
		Counter: ast.ParseName(counter),
		Lower:   lower,
		Upper:   upper,
		Step:    step,
		Body:    body,
	}
}

func While(cond ast.Expr, body ...ast.Stmt) ast.Stmt {
	return &ast.While{Condition: cond, Body: body}
}

func Label(name string) ast.Stmt { return &ast.Label{Name: ast.BareName(name)} }
func GoTo(name string) ast.Stmt  { return &ast.GoTo{Label: ast.BareName(name)} }
func OnErrorGoTo(name string) ast.Stmt {
	return &ast.ErrorHandler{Label: ast.BareName(name)}
}

func Return(value ast.Expr) ast.Stmt { return &ast.SetReturnValue{Value: value} }

// Subprograms

// Function declares FUNCTION name(params) with the given body.
func Function(name string, params []string, body ...ast.Stmt) ast.Node {
	return &ast.FunctionImplementation{Name: ast.ParseName(name), Params: names(params), Body: body}
}

// SubDecl declares SUB name(params) with the given body.
func SubDecl(name string, params []string, body ...ast.Stmt) ast.Node {
	return &ast.SubImplementation{Name: ast.BareName(name), Params: names(params), Body: body}
}

func names(params []string) []ast.QualifiedName {
	out := make([]ast.QualifiedName, len(params))
	for i, p := range params {
		out[i] = ast.ParseName(p)
	}
	return out
}

// Stmts is shorthand for a statement list.
func Stmts(s ...ast.Stmt) []ast.Stmt { return s }

// Program resolves a list of top-level items and panics on duplicates.
func Program(items ...ast.Node) *ast.Program {
	prog, err := ast.Resolve(items)
	if err != nil {
		panic(err)
	}
	return prog
}
