package ast

import (
	"strings"
	"testing"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		bare BareName
		q    TypeQualifier
	}{
		{"N%", "N", Integer},
		{"total&", "total", Long},
		{"X!", "X", Single},
		{"X", "X", Single},
		{"Pi#", "Pi", Double},
		{"A$", "A", String},
	}
	for _, tt := range tests {
		got := ParseName(tt.in)
		if got.Bare != tt.bare || got.Qualifier != tt.q {
			t.Errorf("ParseName(%q) = %v/%v, want %v/%v", tt.in, got.Bare, got.Qualifier, tt.bare, tt.q)
		}
	}
	if got := ParseName("X").String(); got != "X!" {
		t.Errorf("String() = %q, want X!", got)
	}
}

func TestNamesAreCaseInsensitive(t *testing.T) {
	if !ParseName("counter%").Equal(ParseName("COUNTER%")) {
		t.Error("counter% != COUNTER%")
	}
	if ParseName("A%").Equal(ParseName("A$")) {
		t.Error("A% == A$")
	}
	if BareName("sum").Key() != "SUM" {
		t.Errorf("Key() = %q, want SUM", BareName("sum").Key())
	}
}

func TestResolveSplitsSubprograms(t *testing.T) {
	items := []Node{
		&Assignment{Name: ParseName("X"), Value: &IntegerLiteral{Value: 1}},
		&FunctionImplementation{Name: ParseName("Sum%"), Params: []QualifiedName{ParseName("X%")}},
		&SubImplementation{Name: "Hello"},
		&GoTo{Label: "Done"},
	}
	prog, err := Resolve(items)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(prog.Statements) != 2 {
		t.Errorf("statements = %d, want 2", len(prog.Statements))
	}
	if impl, ok := prog.Functions.Lookup("SUM"); !ok || impl.Name.Qualifier != Integer {
		t.Errorf("Lookup(SUM) = %v, %v", impl, ok)
	}
	if _, ok := prog.Subs.Lookup("hello"); !ok {
		t.Error("sub hello not registered")
	}
	if prog.Functions.Len() != 1 || prog.Subs.Len() != 1 {
		t.Errorf("registry sizes = %d/%d, want 1/1", prog.Functions.Len(), prog.Subs.Len())
	}
}

func TestResolveRejectsDuplicates(t *testing.T) {
	items := []Node{
		&SubImplementation{PosVal: Pos(1, 1), Name: "Hello"},
		&SubImplementation{PosVal: Pos(5, 1), Name: "HELLO"},
	}
	_, err := Resolve(items)
	if err == nil || !strings.Contains(err.Error(), "Duplicate definition: HELLO at 5:1") {
		t.Errorf("err = %v, want duplicate definition at 5:1", err)
	}
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	if _, ok := r.Lookup("X"); ok || r.Len() != 0 || r.All() != nil {
		t.Error("nil registry is not empty")
	}
}

func TestQualifierOf(t *testing.T) {
	i := &IntegerLiteral{Value: 1}
	l := &LongLiteral{Value: 1}
	s := &SingleLiteral{Value: 1}
	d := &DoubleLiteral{Value: 1}
	str := &StringLiteral{Value: "a"}
	bin := func(op Operator, a, b Expr) Expr { return &BinaryExpr{Op: op, Left: a, Right: b} }

	tests := []struct {
		name string
		e    Expr
		want TypeQualifier
	}{
		{"int+int", bin(OpPlus, i, i), Integer},
		{"int+long", bin(OpPlus, i, l), Long},
		{"long*single", bin(OpTimes, l, s), Single},
		{"single-double", bin(OpMinus, s, d), Double},
		{"int/int", bin(OpDivide, i, i), Single},
		{"int/double", bin(OpDivide, i, d), Double},
		{"str+str", bin(OpPlus, str, str), String},
		{"str<str", bin(OpLess, str, str), Integer},
		{"int and int", bin(OpAnd, i, i), Integer},
		{"int or single", bin(OpOr, i, s), Long},
		{"not single", &UnaryExpr{Op: UnaryNot, Child: s}, Long},
		{"-double", &UnaryExpr{Op: UnaryMinus, Child: d}, Double},
		{"(long)", &Parenthesis{Child: l}, Long},
		{"call", &FunctionCall{Name: ParseName("F$")}, String},
		{"environ$", &BuiltInFunctionCall{Function: Environ}, String},
	}
	for _, tt := range tests {
		if got := QualifierOf(tt.e); got != tt.want {
			t.Errorf("%s: QualifierOf = %q, want %q", tt.name, got, tt.want)
		}
	}
}
