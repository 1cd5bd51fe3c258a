package compiler

import (
	"strings"
	"testing"

	"github.com/chazu/basic/ast"
	"github.com/chazu/basic/bytecode"
	. "github.com/chazu/basic/internal/basictest"
	"github.com/chazu/basic/variant"
)

func mustGenerate(t *testing.T, prog *ast.Program) *bytecode.Program {
	t.Helper()
	out, err := Generate(prog)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	return out
}

func opcodes(prog *bytecode.Program) []bytecode.Opcode {
	ops := make([]bytecode.Opcode, len(prog.Instructions))
	for i, node := range prog.Instructions {
		ops[i] = node.Op
	}
	return ops
}

func expectOpcodes(t *testing.T, prog *bytecode.Program, want ...bytecode.Opcode) {
	t.Helper()
	got := opcodes(prog)
	if len(got) != len(want) {
		t.Fatalf("got %d instructions %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("instruction %d = %s, want %s", i, got[i], want[i])
		}
	}
}

// fullProgram touches every kind of control transfer the generator emits.
func fullProgram() *ast.Program {
	return Program(
		OnErrorGoTo("Handler"),
		Assign("N", Int(3)),
		For("I", Int(1), Var("N"), nil, Print(Var("I"))),
		For("J%", Int(7), Int(-6), Neg(Int(2)), Print(Var("J%"))),
		If(Less(Int(1), Var("N")), Stmts(CallSub("Hello", Var("N"))), Print(Str("small"))),
		While(Less(Var("N"), Int(10)), Assign("N", Add(Var("N"), Int(1)))),
		Assign("S%", Call("Sum%", Int(3))),
		GoTo("Done"),
		Label("Handler"),
		Print(Str("Saved by the bell")),
		Label("Done"),
		Function("Sum%", []string{"X%"},
			If(Less(Int(1), Var("X%")),
				Stmts(Return(Add(Call("Sum%", Sub(Var("X%"), Int(1))), Var("X%")))),
				Return(Int(1)))),
		SubDecl("Hello", []string{"X"}, Assign("X", Int(42))),
	)
}

func TestGenerateAssignment(t *testing.T) {
	prog := mustGenerate(t, Program(Assign("X%", Int(42))))
	expectOpcodes(t, prog, bytecode.OpLoad, bytecode.OpStore, bytecode.OpHalt)
	if got := prog.Instructions[0].Value; got != variant.Integer(42) {
		t.Errorf("loaded %v, want 42", got)
	}
	if got := prog.Instructions[1].Name; !got.Equal(ast.NewName("x", ast.Integer)) {
		t.Errorf("stored %v, want X%%", got)
	}
}

func TestBinaryExpressionEvaluatesRightFirst(t *testing.T) {
	prog := mustGenerate(t, Program(Assign("X", Sub(Var("A"), Var("B")))))
	expectOpcodes(t, prog,
		bytecode.OpPushRegisters,
		bytecode.OpCopyVarToA, // B
		bytecode.OpCopyAToB,
		bytecode.OpCopyVarToA, // A
		bytecode.OpMinus,
		bytecode.OpPopRegisters,
		bytecode.OpStore,
		bytecode.OpHalt,
	)
	if got := prog.Instructions[1].Name.Bare; got != "B" {
		t.Errorf("first operand read = %s, want B", got)
	}
}

func TestLabelResolutionIsComplete(t *testing.T) {
	prog := mustGenerate(t, fullProgram())
	n := len(prog.Instructions)
	for i, node := range prog.Instructions {
		if node.IsUnresolved() {
			t.Errorf("instruction %d still symbolic: %s", i, node.Instruction)
		}
		if node.HasTarget() && (node.Target < 0 || node.Target >= n) {
			t.Errorf("instruction %d: target %d out of range [0,%d)", i, node.Target, n)
		}
	}
	if err := prog.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSubprogramLayout(t *testing.T) {
	prog := mustGenerate(t, fullProgram())

	fun, ok := prog.Labels[":fun:SUM"]
	if !ok {
		t.Fatalf("no :fun:SUM label in %v", prog.Labels)
	}
	if prev := prog.Instructions[fun-1].Op; prev != bytecode.OpHalt {
		t.Errorf("instruction before first function = %s, want HALT", prev)
	}
	if got := prog.Instructions[fun]; got.Op != bytecode.OpLoad || got.Value != variant.Integer(0) {
		t.Errorf("function prologue = %s, want LOAD 0%%", got.Instruction)
	}
	if got := prog.Instructions[fun+1].Op; got != bytecode.OpStoreAToResult {
		t.Errorf("function prologue = %s, want STORE_A_TO_RESULT", got)
	}

	sub, ok := prog.Labels[":sub:HELLO"]
	if !ok {
		t.Fatalf("no :sub:HELLO label in %v", prog.Labels)
	}
	if prev := prog.Instructions[sub-1].Op; prev != bytecode.OpPopRet {
		t.Errorf("instruction before sub = %s, want POP_RET", prev)
	}
	if last := prog.Instructions[len(prog.Instructions)-1].Op; last != bytecode.OpPopRet {
		t.Errorf("last instruction = %s, want POP_RET", last)
	}
}

func TestCallSequence(t *testing.T) {
	prog := mustGenerate(t, fullProgram())
	sub := prog.Labels[":sub:HELLO"]

	found := false
	for i, node := range prog.Instructions {
		if node.Op != bytecode.OpPushRet {
			continue
		}
		jump := prog.Instructions[i+1]
		if jump.Op != bytecode.OpJump {
			t.Fatalf("PUSH_RET at %d followed by %s, want JUMP", i, jump.Instruction)
		}
		if node.Target != i+2 {
			t.Errorf("PUSH_RET at %d returns to %d, want %d", i, node.Target, i+2)
		}
		if got := prog.Instructions[node.Target].Op; got != bytecode.OpPopStack {
			t.Errorf("return address %d holds %s, want POP_STACK", node.Target, got)
		}
		if jump.Target != sub {
			continue
		}
		found = true
		if got := prog.Instructions[i-1].Op; got != bytecode.OpPushStack {
			t.Errorf("before PUSH_RET = %s, want PUSH_STACK", got)
		}
		ref := prog.Instructions[i-2]
		if ref.Op != bytecode.OpSetNamedRefParam || ref.Param.Bare != "X" || ref.Name.Bare != "N" {
			t.Errorf("argument staging = %s, want SET_NAMED_REF_PARAM X! <- N!", ref.Instruction)
		}
	}
	if !found {
		t.Error("no call of HELLO found")
	}
}

func TestLiteralArgumentPassedByValue(t *testing.T) {
	prog := mustGenerate(t, Program(
		CallSub("Hello", Int(5)),
		SubDecl("Hello", []string{"X"}),
	))
	expectOpcodes(t, prog,
		bytecode.OpPreparePush,
		bytecode.OpLoad,
		bytecode.OpSetNamedValParam,
		bytecode.OpPushStack,
		bytecode.OpPushRet,
		bytecode.OpJump,
		bytecode.OpPopStack,
		bytecode.OpHalt,
		bytecode.OpPopRet,
	)
	if got := prog.Instructions[5].Target; got != 8 {
		t.Errorf("jump target = %d, want 8", got)
	}
}

func TestForLoopWithStepEmitsBothDirections(t *testing.T) {
	loop := For("I%", Int(7), Int(-6), &ast.IntegerLiteral{Value: 0, PosVal: ast.Pos(1, 22)})
	prog := mustGenerate(t, Program(loop))

	var throws, ge, le int
	for _, node := range prog.Instructions {
		switch node.Op {
		case bytecode.OpThrow:
			throws++
			if node.Message != "Step cannot be zero" {
				t.Errorf("throw message = %q", node.Message)
			}
			if node.Pos != ast.Pos(1, 22) {
				t.Errorf("throw position = %s, want 1:22", node.Pos)
			}
		case bytecode.OpGreaterOrEqualThan:
			ge++
		case bytecode.OpLessOrEqualThan:
			le++
		}
	}
	if throws != 1 || ge != 1 || le != 1 {
		t.Errorf("throw/>=/<= counts = %d/%d/%d, want 1/1/1", throws, ge, le)
	}
}

func TestForLoopCopiesGetTheirOwnLabels(t *testing.T) {
	inner := For("J%", Int(2), Int(1), Neg(Int(1)), GoTo("Inner"), Label("Inner"))
	outer := For("I%", Int(3), Int(1), Neg(Int(1)), inner, GoTo("Next"), Label("Next"))
	prog := mustGenerate(t, Program(outer))

	copies := map[string]int{}
	for name := range prog.Labels {
		switch {
		case name == "NEXT" || strings.HasPrefix(name, "_label_NEXT_"):
			copies["NEXT"]++
		case name == "INNER" || strings.HasPrefix(name, "_label_INNER_"):
			copies["INNER"]++
		}
	}
	// the outer body is laid out twice and the inner body twice per outer copy
	if copies["NEXT"] != 2 || copies["INNER"] != 4 {
		t.Errorf("label copies = %v, want NEXT:2 INNER:4 (labels %v)", copies, prog.Labels)
	}
	if _, ok := prog.Labels["NEXT"]; !ok {
		t.Errorf("counting-up copy lost its label name: %v", prog.Labels)
	}
}

func TestForLoopSnapshotsUpperBound(t *testing.T) {
	prog := mustGenerate(t, Program(For("I", Int(1), Var("N"), nil)))
	reads := 0
	for _, node := range prog.Instructions {
		if node.Op == bytecode.OpCopyVarToA && node.Name.Bare == "N" {
			reads++
		}
	}
	if reads != 1 {
		t.Errorf("upper bound read %d times, want 1", reads)
	}
}

func TestForLoopNextMismatch(t *testing.T) {
	loop := For("I", Int(1), Int(3), nil)
	other := ast.ParseName("J")
	loop.NextCounter = &other
	_, err := Generate(Program(loop))
	if err == nil || !strings.Contains(err.Error(), "NEXT without FOR") {
		t.Errorf("err = %v, want NEXT without FOR", err)
	}
}

func TestUnknownLabel(t *testing.T) {
	_, err := Generate(Program(&ast.GoTo{Label: "Nowhere", PosVal: ast.Pos(3, 1)}))
	if err == nil {
		t.Fatal("expected error")
	}
	if got, want := err.Error(), "[IG] Label not found: NOWHERE at 3:1"; got != want {
		t.Errorf("err = %q, want %q", got, want)
	}
}

func TestConstantExpressions(t *testing.T) {
	if _, err := Generate(Program(
		Const("A%", Int(1)),
		Const("B%", Add(ConstRef("A%"), Var("A%"))),
	)); err != nil {
		t.Errorf("constant built from a constant: %v", err)
	}

	_, err := Generate(Program(Const("X%", Var("Y%"))))
	if err == nil || !strings.Contains(err.Error(), "Invalid constant") {
		t.Errorf("err = %v, want Invalid constant", err)
	}

	_, err = Generate(Program(Const("X%", Call("Foo%"))))
	if err == nil || !strings.Contains(err.Error(), "Invalid constant") {
		t.Errorf("err = %v, want Invalid constant", err)
	}
}

func TestConstCastsToDeclaredType(t *testing.T) {
	prog := mustGenerate(t, Program(Const("X#", Int(1))))
	expectOpcodes(t, prog, bytecode.OpLoad, bytecode.OpCast, bytecode.OpStoreConst, bytecode.OpHalt)
	if got := prog.Instructions[1].Qualifier; got != ast.Double {
		t.Errorf("cast to %s, want #", got)
	}
}

func TestSystemLowersToHalt(t *testing.T) {
	prog := mustGenerate(t, Program(System(), Print(Str("unreachable"))))
	if got := prog.Instructions[0].Op; got != bytecode.OpHalt {
		t.Errorf("first instruction = %s, want HALT", got)
	}
}

func TestUndefinedFunctionFallback(t *testing.T) {
	prog := mustGenerate(t, Program(Assign("X", Call("Add", Int(1), Int(2)))))
	found := false
	for _, node := range prog.Instructions {
		if node.Op == bytecode.OpBuiltInFunction && node.Builtin == bytecode.BuiltinUndefined {
			found = true
		}
	}
	if !found {
		t.Errorf("no BUILT_IN_FUNCTION %s in\n%s", bytecode.BuiltinUndefined, prog.Disassemble())
	}
}

func TestUndefinedSub(t *testing.T) {
	_, err := Generate(Program(CallSub("Missing")))
	if err == nil || !strings.Contains(err.Error(), "Subprogram not defined") {
		t.Errorf("err = %v, want Subprogram not defined", err)
	}
}

func TestSelectCase(t *testing.T) {
	sel := &ast.SelectCase{
		Expr: Var("X%"),
		Cases: []ast.CaseBlock{
			{Kind: ast.CaseSimple, Expr: Int(1), Body: Stmts(Print(Str("one")))},
			{Kind: ast.CaseIs, Op: ast.OpGreater, Expr: Int(10), Body: Stmts(Print(Str("big")))},
			{Kind: ast.CaseRange, Expr: Int(2), Upper: Int(5), Body: Stmts(Print(Str("few")))},
		},
		Else: Stmts(Print(Str("other"))),
	}
	prog := mustGenerate(t, Program(sel))
	if err := prog.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	reads := 0
	for _, node := range prog.Instructions {
		if node.Op == bytecode.OpCopyVarToA && node.Name.Bare == "X" {
			reads++
		}
	}
	if reads != 1 {
		t.Errorf("selector read %d times, want 1", reads)
	}

	bad := &ast.SelectCase{
		Expr:  Var("X%"),
		Cases: []ast.CaseBlock{{Kind: ast.CaseIs, Op: ast.OpPlus, Expr: Int(1)}},
	}
	if _, err := Generate(Program(bad)); err == nil {
		t.Error("expected error for CASE IS with an arithmetic operator")
	}
}
