package vm

import (
	"errors"
	"testing"

	"github.com/chazu/basic/ast"
	"github.com/chazu/basic/variant"
)

func name(s string) ast.QualifiedName { return ast.ParseName(s) }

func expectPanic(t *testing.T, want string, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic %q", want)
		}
		if msg, _ := r.(string); msg != want {
			t.Errorf("panic = %v, want %q", r, want)
		}
	}()
	f()
}

func TestContextRootVariables(t *testing.T) {
	c := NewContext()
	if _, ok := c.GetRValue(name("X%")); ok {
		t.Error("unset variable reported as present")
	}
	if err := c.SetLValue(name("X%"), variant.Single(2.5)); err != nil {
		t.Fatalf("SetLValue: %v", err)
	}
	got, ok := c.GetRValue(name("X%"))
	if !ok || got != variant.Integer(3) {
		t.Errorf("X%% = %v, %v, want 3", got, ok)
	}
	// A% and A$ are different variables.
	if _, ok := c.GetRValue(name("X$")); ok {
		t.Error("X$ shares storage with X%")
	}
	if err := c.SetLValue(name("X$"), variant.Integer(1)); !errors.Is(err, variant.ErrTypeMismatch) {
		t.Errorf("err = %v, want type mismatch", err)
	}
}

func TestContextConstants(t *testing.T) {
	c := NewContext()
	if err := c.SetConstLValue(name("X"), variant.Integer(42)); err != nil {
		t.Fatalf("SetConstLValue: %v", err)
	}
	if err := c.SetConstLValue(name("X"), variant.Integer(1)); !errors.Is(err, ErrDuplicateDefinition) {
		t.Errorf("redefinition err = %v, want duplicate definition", err)
	}
	if err := c.SetLValue(name("X%"), variant.Integer(1)); !errors.Is(err, ErrDuplicateDefinition) {
		t.Errorf("assignment err = %v, want duplicate definition", err)
	}
	// Constants are found regardless of the qualifier used to read them.
	if got, ok := c.GetRValue(name("X%")); !ok || got != variant.Single(42) {
		t.Errorf("X%% = %v, %v, want 42", got, ok)
	}

	if err := c.SetLValue(name("Y"), variant.Integer(1)); err != nil {
		t.Fatalf("SetLValue: %v", err)
	}
	if err := c.SetConstLValue(name("Y$"), variant.String("a")); !errors.Is(err, ErrDuplicateDefinition) {
		t.Errorf("const over variable err = %v, want duplicate definition", err)
	}
}

func TestSubFrameShadowsConstant(t *testing.T) {
	c := NewContext()
	if err := c.SetConstLValue(name("X"), variant.Integer(42)); err != nil {
		t.Fatalf("SetConstLValue: %v", err)
	}
	c.PushArgs()
	c.SwapArgsWithSub()
	if got, _ := c.GetRValue(name("X")); got != variant.Single(42) {
		t.Errorf("inherited X = %v, want 42", got)
	}
	if err := c.SetLValue(name("X"), variant.Integer(1)); !errors.Is(err, ErrDuplicateDefinition) {
		t.Errorf("assigning inherited constant err = %v, want duplicate definition", err)
	}
	if err := c.SetConstLValue(name("X"), variant.Integer(100)); err != nil {
		t.Fatalf("shadowing: %v", err)
	}
	if got, _ := c.GetRValue(name("X")); got != variant.Single(100) {
		t.Errorf("shadowed X = %v, want 100", got)
	}
	c.Pop()
	if got, _ := c.GetRValue(name("X")); got != variant.Single(42) {
		t.Errorf("X after return = %v, want 42", got)
	}
}

func TestSubFrameHidesCallerVariables(t *testing.T) {
	c := NewContext()
	if err := c.SetLValue(name("A"), variant.Integer(1)); err != nil {
		t.Fatalf("SetLValue: %v", err)
	}
	c.PushArgs()
	// Argument expressions still see the caller.
	if got, ok := c.GetRValue(name("A")); !ok || got != variant.Single(1) {
		t.Errorf("A while staging = %v, %v, want 1", got, ok)
	}
	c.SwapArgsWithSub()
	if _, ok := c.GetRValue(name("A")); ok {
		t.Error("sub sees caller's A")
	}
	if err := c.SetLValue(name("A"), variant.Integer(2)); err != nil {
		t.Fatalf("SetLValue: %v", err)
	}
	c.Pop()
	if got, _ := c.GetRValue(name("A")); got != variant.Single(1) {
		t.Errorf("A = %v, want 1", got)
	}
}

func TestByRefWritesThrough(t *testing.T) {
	c := NewContext()

	// CALL Outer(N): N is created on the fly.
	c.PushArgs()
	if err := c.SetNamedArg(name("A"), c.CreateParameter(name("N"))); err != nil {
		t.Fatalf("SetNamedArg: %v", err)
	}
	c.SwapArgsWithSub()

	// Outer calls Inner(A).
	c.PushArgs()
	arg := c.CreateParameter(name("A"))
	if !arg.IsRef() || !arg.RefName().Equal(name("A")) {
		t.Fatalf("argument = %v, want ByRef(A!)", arg)
	}
	if err := c.SetNamedArg(name("B"), arg); err != nil {
		t.Fatalf("SetNamedArg: %v", err)
	}
	c.SwapArgsWithSub()
	if err := c.SetLValue(name("B"), variant.Integer(9)); err != nil {
		t.Fatalf("SetLValue: %v", err)
	}
	if got, _ := c.GetRValue(name("B")); got != variant.Single(9) {
		t.Errorf("B = %v, want 9", got)
	}
	c.Pop()
	c.Pop()

	if got, ok := c.GetRValue(name("N")); !ok || got != variant.Single(9) {
		t.Errorf("N = %v, %v, want 9", got, ok)
	}
	if c.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", c.Depth())
	}
}

func TestConstantsArePassedByValue(t *testing.T) {
	c := NewContext()
	if err := c.SetConstLValue(name("K"), variant.Integer(5)); err != nil {
		t.Fatalf("SetConstLValue: %v", err)
	}
	c.PushArgs()
	arg := c.CreateParameter(name("K"))
	if arg.IsRef() || arg.Value() != variant.Single(5) {
		t.Errorf("argument = %v, want ByVal(5)", arg)
	}
}

func TestSetNamedArgCastsValues(t *testing.T) {
	c := NewContext()
	c.PushArgs()
	if err := c.SetNamedArg(name("X%"), ByVal(variant.Single(2.5))); err != nil {
		t.Fatalf("SetNamedArg: %v", err)
	}
	if err := c.SetNamedArg(name("S$"), ByVal(variant.Integer(1))); !errors.Is(err, variant.ErrTypeMismatch) {
		t.Errorf("err = %v, want type mismatch", err)
	}
	c.SwapArgsWithSub()
	if got, _ := c.GetRValue(name("X%")); got != variant.Integer(3) {
		t.Errorf("X%% = %v, want 3", got)
	}
}

func TestUnnamedArguments(t *testing.T) {
	c := NewContext()
	c.PushArgs()
	c.PushUnnamedArg(ByVal(variant.String("a")))
	c.PushUnnamedArg(c.CreateParameter(name("V%")))
	c.SwapArgsWithSub()

	if c.UnnamedCount() != 2 {
		t.Fatalf("UnnamedCount() = %d, want 2", c.UnnamedCount())
	}
	first := c.PopUnnamed()
	if got := c.EvaluateArg(first); got != variant.String("a") {
		t.Errorf("first = %v, want a", got)
	}
	if err := c.SetPoppedArg(first, variant.String("b")); !errors.Is(err, errExpectedVariable) {
		t.Errorf("writing a value err = %v, want Expected variable", err)
	}
	second := c.PopUnnamed()
	if err := c.SetPoppedArg(second, variant.Integer(7)); err != nil {
		t.Fatalf("SetPoppedArg: %v", err)
	}
	if got := c.EvaluateArg(second); got != variant.Integer(7) {
		t.Errorf("second = %v, want 7", got)
	}
	if _, ok := c.TryPopUnnamed(); ok {
		t.Error("TryPopUnnamed returned an argument from an empty queue")
	}
	c.Pop()
	if got, _ := c.GetRValue(name("V%")); got != variant.Integer(7) {
		t.Errorf("V%% = %v, want 7", got)
	}
}

func TestCallResultHandoff(t *testing.T) {
	c := NewContext()
	if got := c.CallResult(); got != variant.Integer(0) {
		t.Errorf("initial CallResult() = %v, want 0", got)
	}

	c.PushArgs()
	c.SwapArgsWithSub()
	c.SetFunctionResult(variant.Integer(1))

	// A nested call made while this function runs does not disturb its
	// own result.
	c.PushArgs()
	c.SwapArgsWithSub()
	c.SetFunctionResult(variant.Integer(2))
	c.Pop()
	if got := c.CallResult(); got != variant.Integer(2) {
		t.Errorf("inner CallResult() = %v, want 2", got)
	}

	c.Pop()
	if got := c.CallResult(); got != variant.Integer(1) {
		t.Errorf("outer CallResult() = %v, want 1", got)
	}
}

func TestContextMisuse(t *testing.T) {
	expectPanic(t, "Stack underflow", func() { NewContext().Pop() })
	expectPanic(t, "Did not finish args building", func() {
		c := NewContext()
		c.PushArgs()
		c.Pop()
	})
	expectPanic(t, "Not in an args context", func() {
		NewContext().PushUnnamedArg(ByVal(variant.Integer(1)))
	})
	expectPanic(t, "Not in a sub context", func() {
		NewContext().SetFunctionResult(variant.Integer(1))
	})
}

func TestRegisterStack(t *testing.T) {
	s := newRegisterStack()
	s.top().A = variant.Integer(1)
	s.top().B = variant.Integer(2)
	s.push()
	if got := s.top().A; got != variant.Integer(0) {
		t.Errorf("fresh A = %v, want 0", got)
	}
	s.top().A = variant.Integer(9)
	s.pop()
	if got := *s.top(); got.A != variant.Integer(9) || got.B != variant.Integer(2) {
		t.Errorf("after pop = %v/%v, want 9/2", got.A, got.B)
	}
	expectPanic(t, "registerStack.pop: no registers to pop", s.pop)

	r := s.top()
	if err := r.setA(variant.Integer(1).Plus(variant.String("x"))); err == nil {
		t.Error("expected type mismatch")
	}
	if r.A != variant.Integer(9) {
		t.Errorf("A after failed op = %v, want 9", r.A)
	}
}
