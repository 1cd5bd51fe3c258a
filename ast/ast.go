package ast

// ---------------------------------------------------------------------------
// AST: linted BASIC program
// ---------------------------------------------------------------------------
//
// The tree here is what the linter hands over: every name carries its
// resolved type qualifier, constants are told apart from variables and
// built-in calls are already recognised.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Position
	node() // marker method
}

// ---------------------------------------------------------------------------
// Expression nodes
// ---------------------------------------------------------------------------

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr() // marker method
}

// IntegerLiteral represents a 32-bit integer literal.
type IntegerLiteral struct {
	PosVal Position
	Value  int32
}

func (n *IntegerLiteral) Pos() Position { return n.PosVal }
func (n *IntegerLiteral) node()         {}
func (n *IntegerLiteral) expr()         {}

// LongLiteral represents a 64-bit integer literal.
type LongLiteral struct {
	PosVal Position
	Value  int64
}

func (n *LongLiteral) Pos() Position { return n.PosVal }
func (n *LongLiteral) node()         {}
func (n *LongLiteral) expr()         {}

// SingleLiteral represents a single-precision literal.
type SingleLiteral struct {
	PosVal Position
	Value  float32
}

func (n *SingleLiteral) Pos() Position { return n.PosVal }
func (n *SingleLiteral) node()         {}
func (n *SingleLiteral) expr()         {}

// DoubleLiteral represents a double-precision literal.
type DoubleLiteral struct {
	PosVal Position
	Value  float64
}

func (n *DoubleLiteral) Pos() Position { return n.PosVal }
func (n *DoubleLiteral) node()         {}
func (n *DoubleLiteral) expr()         {}

// StringLiteral represents a string literal.
type StringLiteral struct {
	PosVal Position
	Value  string
}

func (n *StringLiteral) Pos() Position { return n.PosVal }
func (n *StringLiteral) node()         {}
func (n *StringLiteral) expr()         {}

// Variable represents a variable reference.
type Variable struct {
	PosVal Position
	Name   QualifiedName
}

func (n *Variable) Pos() Position { return n.PosVal }
func (n *Variable) node()         {}
func (n *Variable) expr()         {}

// Constant represents a reference to a CONST.
type Constant struct {
	PosVal Position
	Name   QualifiedName
}

func (n *Constant) Pos() Position { return n.PosVal }
func (n *Constant) node()         {}
func (n *Constant) expr()         {}

// FunctionCall represents a call of a user-defined (or undefined) function.
type FunctionCall struct {
	PosVal Position
	Name   QualifiedName
	Args   []Expr
}

func (n *FunctionCall) Pos() Position { return n.PosVal }
func (n *FunctionCall) node()         {}
func (n *FunctionCall) expr()         {}

// BuiltInFunction enumerates the functions implemented by the VM.
type BuiltInFunction int

const (
	Environ BuiltInFunction = iota // ENVIRON$
)

// Name returns the qualified name the VM dispatches on.
func (f BuiltInFunction) Name() QualifiedName {
	switch f {
	case Environ:
		return NewName("ENVIRON", String)
	}
	return QualifiedName{}
}

// BuiltInFunctionCall represents a call of a built-in function.
type BuiltInFunctionCall struct {
	PosVal   Position
	Function BuiltInFunction
	Args     []Expr
}

func (n *BuiltInFunctionCall) Pos() Position { return n.PosVal }
func (n *BuiltInFunctionCall) node()         {}
func (n *BuiltInFunctionCall) expr()         {}

// Operator is a binary operator.
type Operator int

const (
	OpLess Operator = iota
	OpLessOrEqual
	OpEqual
	OpGreaterOrEqual
	OpGreater
	OpNotEqual
	OpPlus
	OpMinus
	OpTimes
	OpDivide
	OpAnd
	OpOr
)

var operatorNames = [...]string{
	OpLess:           "<",
	OpLessOrEqual:    "<=",
	OpEqual:          "=",
	OpGreaterOrEqual: ">=",
	OpGreater:        ">",
	OpNotEqual:       "<>",
	OpPlus:           "+",
	OpMinus:          "-",
	OpTimes:          "*",
	OpDivide:         "/",
	OpAnd:            "AND",
	OpOr:             "OR",
}

func (op Operator) String() string {
	if int(op) < len(operatorNames) {
		return operatorNames[op]
	}
	return "?"
}

// IsRelational reports whether the operator compares its operands.
func (op Operator) IsRelational() bool {
	return op <= OpNotEqual
}

// BinaryExpr represents a binary operation.
type BinaryExpr struct {
	PosVal Position
	Op     Operator
	Left   Expr
	Right  Expr
}

func (n *BinaryExpr) Pos() Position { return n.PosVal }
func (n *BinaryExpr) node()         {}
func (n *BinaryExpr) expr()         {}

// UnaryOperator is a prefix operator.
type UnaryOperator int

const (
	UnaryMinus UnaryOperator = iota
	UnaryNot
)

// UnaryExpr represents a prefix operation.
type UnaryExpr struct {
	PosVal Position
	Op     UnaryOperator
	Child  Expr
}

func (n *UnaryExpr) Pos() Position { return n.PosVal }
func (n *UnaryExpr) node()         {}
func (n *UnaryExpr) expr()         {}

// Parenthesis represents a parenthesized expression.
type Parenthesis struct {
	PosVal Position
	Child  Expr
}

func (n *Parenthesis) Pos() Position { return n.PosVal }
func (n *Parenthesis) node()         {}
func (n *Parenthesis) expr()         {}

// ---------------------------------------------------------------------------
// Statement nodes
// ---------------------------------------------------------------------------

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmt() // marker method
}

// Assignment represents `name = value`.
type Assignment struct {
	PosVal Position
	Name   QualifiedName
	Value  Expr
}

func (n *Assignment) Pos() Position { return n.PosVal }
func (n *Assignment) node()         {}
func (n *Assignment) stmt()         {}

// Const represents `CONST name = value`.
type Const struct {
	PosVal Position
	Name   QualifiedName
	Value  Expr
}

func (n *Const) Pos() Position { return n.PosVal }
func (n *Const) node()         {}
func (n *Const) stmt()         {}

// SubCall represents a call of a user-defined sub.
type SubCall struct {
	PosVal Position
	Name   BareName
	Args   []Expr
}

func (n *SubCall) Pos() Position { return n.PosVal }
func (n *SubCall) node()         {}
func (n *SubCall) stmt()         {}

// BuiltInSub enumerates the subs implemented by the VM.
type BuiltInSub int

const (
	EnvironSub BuiltInSub = iota // ENVIRON
	Input
	Print
	System
)

var builtInSubNames = [...]string{
	EnvironSub: "ENVIRON",
	Input:      "INPUT",
	Print:      "PRINT",
	System:     "SYSTEM",
}

func (s BuiltInSub) String() string {
	if int(s) < len(builtInSubNames) {
		return builtInSubNames[s]
	}
	return "?"
}

// BuiltInSubCall represents a call of a built-in sub.
type BuiltInSubCall struct {
	PosVal Position
	Sub    BuiltInSub
	Args   []Expr
}

func (n *BuiltInSubCall) Pos() Position { return n.PosVal }
func (n *BuiltInSubCall) node()         {}
func (n *BuiltInSubCall) stmt()         {}

// ConditionalBlock is a condition guarding a list of statements.
type ConditionalBlock struct {
	PosVal    Position
	Condition Expr
	Body      []Stmt
}

// IfBlock represents IF / ELSEIF / ELSE / END IF.
type IfBlock struct {
	PosVal  Position
	If      ConditionalBlock
	ElseIfs []ConditionalBlock
	Else    []Stmt
}

func (n *IfBlock) Pos() Position { return n.PosVal }
func (n *IfBlock) node()         {}
func (n *IfBlock) stmt()         {}

// CaseKind tells the three CASE forms apart.
type CaseKind int

const (
	CaseSimple CaseKind = iota // CASE expr
	CaseIs                     // CASE IS op expr
	CaseRange                  // CASE expr TO expr
)

// CaseBlock is one CASE of a SELECT CASE.
type CaseBlock struct {
	PosVal Position
	Kind   CaseKind
	Op     Operator // CaseIs only; must be relational
	Expr   Expr
	Upper  Expr // CaseRange only
	Body   []Stmt
}

// SelectCase represents SELECT CASE / END SELECT.
type SelectCase struct {
	PosVal Position
	Expr   Expr
	Cases  []CaseBlock
	Else   []Stmt
}

func (n *SelectCase) Pos() Position { return n.PosVal }
func (n *SelectCase) node()         {}
func (n *SelectCase) stmt()         {}

// ForLoop represents FOR / NEXT.
type ForLoop struct {
	PosVal      Position
	Counter     QualifiedName
	Lower       Expr
	Upper       Expr
	Step        Expr // nil means STEP 1
	Body        []Stmt
	NextCounter *QualifiedName // the name after NEXT, if any
}

func (n *ForLoop) Pos() Position { return n.PosVal }
func (n *ForLoop) node()         {}
func (n *ForLoop) stmt()         {}

// While represents WHILE / WEND.
type While struct {
	PosVal    Position
	Condition Expr
	Body      []Stmt
}

func (n *While) Pos() Position { return n.PosVal }
func (n *While) node()         {}
func (n *While) stmt()         {}

// ErrorHandler represents ON ERROR GOTO label.
type ErrorHandler struct {
	PosVal Position
	Label  BareName
}

func (n *ErrorHandler) Pos() Position { return n.PosVal }
func (n *ErrorHandler) node()         {}
func (n *ErrorHandler) stmt()         {}

// Label represents a label definition (`name:`).
type Label struct {
	PosVal Position
	Name   BareName
}

func (n *Label) Pos() Position { return n.PosVal }
func (n *Label) node()         {}
func (n *Label) stmt()         {}

// GoTo represents GOTO label.
type GoTo struct {
	PosVal Position
	Label  BareName
}

func (n *GoTo) Pos() Position { return n.PosVal }
func (n *GoTo) node()         {}
func (n *GoTo) stmt()         {}

// SetReturnValue represents an assignment to the enclosing function's name.
type SetReturnValue struct {
	PosVal Position
	Value  Expr
}

func (n *SetReturnValue) Pos() Position { return n.PosVal }
func (n *SetReturnValue) node()         {}
func (n *SetReturnValue) stmt()         {}
