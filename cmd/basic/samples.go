package main

import (
	"fmt"
	"sort"

	"github.com/chazu/basic/ast"
	"github.com/chazu/basic/bytecode"
	"github.com/chazu/basic/compiler"
)

// sample is a demo program, written out as the linter would hand it over.
type sample struct {
	source string
	build  func() []ast.Node
}

var samples = map[string]sample{
	"hello":     {"hello.bas", helloSample},
	"countdown": {"countdown.bas", countdownSample},
	"sum":       {"sum.bas", sumSample},
	"environ":   {"environ.bas", environSample},
	"handler":   {"handler.bas", handlerSample},
}

func sampleNames() []string {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// compileSample generates the image for a named sample.
func compileSample(name string) (*bytecode.Image, error) {
	s, ok := samples[name]
	if !ok {
		return nil, fmt.Errorf("unknown sample %q (have %v)", name, sampleNames())
	}
	prog, err := ast.Resolve(s.build())
	if err != nil {
		return nil, err
	}
	code, err := compiler.Generate(prog)
	if err != nil {
		return nil, err
	}
	img := bytecode.NewImage(name, code)
	img.Source = s.source
	return img, nil
}

func at(line, column int) ast.Position { return ast.Pos(line, column) }

func printStmt(pos ast.Position, args ...ast.Expr) ast.Stmt {
	return &ast.BuiltInSubCall{PosVal: pos, Sub: ast.Print, Args: args}
}

func str(pos ast.Position, s string) ast.Expr {
	return &ast.StringLiteral{PosVal: pos, Value: s}
}

func integer(pos ast.Position, v int32) ast.Expr {
	return &ast.IntegerLiteral{PosVal: pos, Value: v}
}

func variable(pos ast.Position, name string) *ast.Variable {
	return &ast.Variable{PosVal: pos, Name: ast.ParseName(name)}
}

// PRINT "Hello, world"
func helloSample() []ast.Node {
	return []ast.Node{printStmt(at(1, 1), str(at(1, 7), "Hello, world"))}
}

// FOR I% = 10 TO 1 STEP -1
//     PRINT I%
// NEXT
// PRINT "Liftoff"
func countdownSample() []ast.Node {
	return []ast.Node{
		&ast.ForLoop{
			PosVal:  at(1, 1),
			Counter: ast.ParseName("I%"),
			Lower:   integer(at(1, 10), 10),
			Upper:   integer(at(1, 16), 1),
			Step:    &ast.UnaryExpr{PosVal: at(1, 23), Op: ast.UnaryMinus, Child: integer(at(1, 24), 1)},
			Body:    []ast.Stmt{printStmt(at(2, 5), variable(at(2, 11), "I%"))},
		},
		printStmt(at(4, 1), str(at(4, 7), "Liftoff")),
	}
}

// INPUT N%
// PRINT Sum%(N%)
//
// FUNCTION Sum%(X%)
//     IF X% > 1 THEN
//         Sum% = Sum%(X% - 1) + X%
//     ELSE
//         Sum% = 1
//     END IF
// END FUNCTION
func sumSample() []ast.Node {
	x := func(line, col int) ast.Expr { return variable(at(line, col), "X%") }
	return []ast.Node{
		&ast.BuiltInSubCall{PosVal: at(1, 1), Sub: ast.Input, Args: []ast.Expr{variable(at(1, 7), "N%")}},
		printStmt(at(2, 1), &ast.FunctionCall{
			PosVal: at(2, 7),
			Name:   ast.ParseName("Sum%"),
			Args:   []ast.Expr{variable(at(2, 12), "N%")},
		}),
		&ast.FunctionImplementation{
			PosVal: at(4, 1),
			Name:   ast.ParseName("Sum%"),
			Params: []ast.QualifiedName{ast.ParseName("X%")},
			Body: []ast.Stmt{&ast.IfBlock{
				PosVal: at(5, 5),
				If: ast.ConditionalBlock{
					PosVal:    at(5, 5),
					Condition: &ast.BinaryExpr{PosVal: at(5, 8), Op: ast.OpGreater, Left: x(5, 8), Right: integer(at(5, 13), 1)},
					Body: []ast.Stmt{&ast.SetReturnValue{
						PosVal: at(6, 9),
						Value: &ast.BinaryExpr{
							PosVal: at(6, 16),
							Op:     ast.OpPlus,
							Left: &ast.FunctionCall{
								PosVal: at(6, 16),
								Name:   ast.ParseName("Sum%"),
								Args: []ast.Expr{&ast.BinaryExpr{
									PosVal: at(6, 21),
									Op:     ast.OpMinus,
									Left:   x(6, 21),
									Right:  integer(at(6, 26), 1),
								}},
							},
							Right: x(6, 31),
						},
					}},
				},
				Else: []ast.Stmt{&ast.SetReturnValue{PosVal: at(8, 9), Value: integer(at(8, 16), 1)}},
			}},
		},
	}
}

// ENVIRON "GREETING=hello"
// PRINT ENVIRON$("GREETING")
func environSample() []ast.Node {
	return []ast.Node{
		&ast.BuiltInSubCall{PosVal: at(1, 1), Sub: ast.EnvironSub, Args: []ast.Expr{str(at(1, 9), "GREETING=hello")}},
		printStmt(at(2, 1), &ast.BuiltInFunctionCall{
			PosVal:   at(2, 7),
			Function: ast.Environ,
			Args:     []ast.Expr{str(at(2, 16), "GREETING")},
		}),
	}
}

// ON ERROR GOTO Handler
// X = 1 / 0
// PRINT "unreachable"
// SYSTEM
// Handler:
// PRINT "Saved by the bell"
func handlerSample() []ast.Node {
	return []ast.Node{
		&ast.ErrorHandler{PosVal: at(1, 1), Label: "Handler"},
		&ast.Assignment{
			PosVal: at(2, 1),
			Name:   ast.ParseName("X"),
			Value:  &ast.BinaryExpr{PosVal: at(2, 5), Op: ast.OpDivide, Left: integer(at(2, 5), 1), Right: integer(at(2, 9), 0)},
		},
		printStmt(at(3, 1), str(at(3, 7), "unreachable")),
		&ast.BuiltInSubCall{PosVal: at(4, 1), Sub: ast.System},
		&ast.Label{PosVal: at(5, 1), Name: "Handler"},
		printStmt(at(6, 1), str(at(6, 7), "Saved by the bell")),
	}
}
