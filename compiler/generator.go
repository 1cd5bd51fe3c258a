// Package compiler lowers a linted BASIC program into the flat instruction
// vector executed by the vm package.
package compiler

import (
	"fmt"

	"github.com/chazu/basic/ast"
	"github.com/chazu/basic/bytecode"
	"github.com/chazu/basic/variant"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("basic.compiler")

// ---------------------------------------------------------------------------
// Generator: linted AST to bytecode
// ---------------------------------------------------------------------------

// Generator emits instructions with symbolic labels and resolves them to
// absolute indices once every subprogram has been laid out.
type Generator struct {
	functions *ast.Registry
	subs      *ast.Registry

	instructions []bytecode.InstructionNode
	labelSeq     int
	errors       []*Error

	// CONST declarations seen so far, by bare name key. Top-level constants
	// are visible inside subprograms.
	globalConsts map[string]bool
	localConsts  map[string]bool // nil outside subprogram bodies
	constOnly    bool            // lowering a CONST initializer

	// labelCopies renames user labels while a second copy of a FOR body
	// is emitted, so jumps inside that copy stay inside it.
	labelCopies map[string]string
}

// NewGenerator creates a generator for the given subprogram tables.
func NewGenerator(functions, subs *ast.Registry) *Generator {
	return &Generator{
		functions:    functions,
		subs:         subs,
		globalConsts: make(map[string]bool),
	}
}

// Generate lowers a whole program.
func Generate(prog *ast.Program) (*bytecode.Program, error) {
	return NewGenerator(prog.Functions, prog.Subs).Generate(prog.Statements)
}

// Errors returns every error recorded so far.
func (g *Generator) Errors() []*Error {
	return g.errors
}

// Generate emits the top-level statements followed by every function and
// sub body, then resolves labels. It returns the first error recorded.
func (g *Generator) Generate(statements []ast.Stmt) (*bytecode.Program, error) {
	g.statements(statements)

	end := ast.Position{}
	if len(statements) > 0 {
		end = statements[len(statements)-1].Pos()
	}
	g.emit(bytecode.Halt(), end)

	for _, impl := range g.functions.All() {
		g.localConsts = make(map[string]bool)
		g.emit(bytecode.Label(functionLabel(impl.Name.Bare)), impl.Pos)
		g.emit(bytecode.Load(variant.Default(impl.Name.Qualifier)), impl.Pos)
		g.emit(bytecode.StoreAToResult(), impl.Pos)
		g.statements(impl.Body)
		g.emit(bytecode.PopRet(), impl.Pos)
	}
	for _, impl := range g.subs.All() {
		g.localConsts = make(map[string]bool)
		g.emit(bytecode.Label(subLabel(impl.Name.Bare)), impl.Pos)
		g.statements(impl.Body)
		g.emit(bytecode.PopRet(), impl.Pos)
	}
	g.localConsts = nil

	prog := g.resolve()
	if len(g.errors) > 0 {
		return nil, g.errors[0]
	}
	log.Debugf("generated %d instructions, %d labels", len(prog.Instructions), len(prog.Labels))
	return prog, nil
}

// errorf records a generation error.
func (g *Generator) errorf(pos ast.Position, format string, args ...any) {
	g.errors = append(g.errors, &Error{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (g *Generator) emit(instr bytecode.Instruction, pos ast.Position) {
	g.instructions = append(g.instructions, instr.At(pos))
}

// newLabel returns a label name no BASIC identifier can clash with.
func (g *Generator) newLabel(prefix string) string {
	g.labelSeq++
	return fmt.Sprintf("_%s_%d", prefix, g.labelSeq)
}

// hiddenVar names a compiler temporary. The leading '~' keeps it out of
// the user's namespace.
func (g *Generator) hiddenVar(prefix string, q ast.TypeQualifier) ast.QualifiedName {
	g.labelSeq++
	if q == ast.QualifierNone {
		q = ast.Single
	}
	return ast.NewName(fmt.Sprintf("~%s_%d", prefix, g.labelSeq), q)
}

func functionLabel(name ast.BareName) string { return ":fun:" + name.Key() }
func subLabel(name ast.BareName) string      { return ":sub:" + name.Key() }

func (g *Generator) userLabel(name ast.BareName) string {
	if renamed, ok := g.labelCopies[name.Key()]; ok {
		return renamed
	}
	return name.Key()
}

// ---------------------------------------------------------------------------
// Constants
// ---------------------------------------------------------------------------

func (g *Generator) declareConstant(name ast.BareName) {
	if g.localConsts != nil {
		g.localConsts[name.Key()] = true
		return
	}
	g.globalConsts[name.Key()] = true
}

func (g *Generator) isConstant(name ast.BareName) bool {
	if g.localConsts != nil && g.localConsts[name.Key()] {
		return true
	}
	return g.globalConsts[name.Key()]
}
