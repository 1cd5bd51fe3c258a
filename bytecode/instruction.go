package bytecode

import (
	"fmt"

	"github.com/chazu/basic/ast"
	"github.com/chazu/basic/variant"
)

// Instruction is one VM instruction. Which operand fields are meaningful
// depends on Op (see OpcodeInfo.Operand); the others stay zero.
type Instruction struct {
	Op        Opcode            `cbor:"1,keyasint"`
	Value     variant.Variant   `cbor:"2,keyasint"`
	Name      ast.QualifiedName `cbor:"3,keyasint"`
	Param     ast.QualifiedName `cbor:"4,keyasint"`
	Qualifier ast.TypeQualifier `cbor:"5,keyasint,omitempty"`
	Label     string            `cbor:"6,keyasint,omitempty"`
	Builtin   string            `cbor:"7,keyasint,omitempty"`
	Message   string            `cbor:"8,keyasint,omitempty"`
	Target    int               `cbor:"9,keyasint,omitempty"`
}

// InstructionNode is an instruction plus the source position it came from.
type InstructionNode struct {
	Instruction `cbor:"1,keyasint"`
	Pos         ast.Position `cbor:"2,keyasint"`
}

// At attaches a position to an instruction.
func (i Instruction) At(pos ast.Position) InstructionNode {
	return InstructionNode{Instruction: i, Pos: pos}
}

// IsUnresolved reports whether the instruction still refers to a label.
func (i Instruction) IsUnresolved() bool {
	switch i.Op {
	case OpLabel, OpUnresolvedJump, OpUnresolvedJumpIfFalse, OpSetUnresolvedErrorHandler:
		return true
	}
	return false
}

// HasTarget reports whether Target holds an instruction index.
func (i Instruction) HasTarget() bool {
	return i.Op.Info().Operand == OperandTarget
}

// String renders the instruction as in a disassembly listing.
func (i Instruction) String() string {
	name := i.Op.Name()
	switch i.Op.Info().Operand {
	case OperandValue:
		if i.Value.IsString() {
			return fmt.Sprintf("%s %q", name, i.Value.Str())
		}
		return fmt.Sprintf("%s %s%s", name, i.Value, i.Value.Qualifier())
	case OperandQualifier:
		return fmt.Sprintf("%s %s", name, i.Qualifier)
	case OperandName:
		return fmt.Sprintf("%s %s", name, i.Name)
	case OperandParam:
		return fmt.Sprintf("%s %s", name, i.Param)
	case OperandParamName:
		return fmt.Sprintf("%s %s <- %s", name, i.Param, i.Name)
	case OperandTarget:
		return fmt.Sprintf("%s %d", name, i.Target)
	case OperandLabel:
		return fmt.Sprintf("%s %s", name, i.Label)
	case OperandBuiltin:
		return fmt.Sprintf("%s %s", name, i.Builtin)
	case OperandMessage:
		return fmt.Sprintf("%s %q", name, i.Message)
	}
	return name
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

func Load(v variant.Variant) Instruction { return Instruction{Op: OpLoad, Value: v} }
func CopyAToB() Instruction              { return Instruction{Op: OpCopyAToB} }
func Cast(q ast.TypeQualifier) Instruction {
	return Instruction{Op: OpCast, Qualifier: q}
}
func PushRegisters() Instruction { return Instruction{Op: OpPushRegisters} }
func PopRegisters() Instruction  { return Instruction{Op: OpPopRegisters} }

func Plus() Instruction    { return Instruction{Op: OpPlus} }
func Minus() Instruction   { return Instruction{Op: OpMinus} }
func Times() Instruction   { return Instruction{Op: OpTimes} }
func Divide() Instruction  { return Instruction{Op: OpDivide} }
func And() Instruction     { return Instruction{Op: OpAnd} }
func Or() Instruction      { return Instruction{Op: OpOr} }
func NegateA() Instruction { return Instruction{Op: OpNegateA} }
func NotA() Instruction    { return Instruction{Op: OpNotA} }

func EqualTo() Instruction            { return Instruction{Op: OpEqualTo} }
func NotEqualTo() Instruction         { return Instruction{Op: OpNotEqualTo} }
func LessThan() Instruction           { return Instruction{Op: OpLessThan} }
func LessOrEqualThan() Instruction    { return Instruction{Op: OpLessOrEqualThan} }
func GreaterThan() Instruction        { return Instruction{Op: OpGreaterThan} }
func GreaterOrEqualThan() Instruction { return Instruction{Op: OpGreaterOrEqualThan} }

func Store(name ast.QualifiedName) Instruction      { return Instruction{Op: OpStore, Name: name} }
func StoreConst(name ast.QualifiedName) Instruction { return Instruction{Op: OpStoreConst, Name: name} }
func CopyVarToA(name ast.QualifiedName) Instruction { return Instruction{Op: OpCopyVarToA, Name: name} }
func CopyVarToB(name ast.QualifiedName) Instruction { return Instruction{Op: OpCopyVarToB, Name: name} }

func Jump(target int) Instruction        { return Instruction{Op: OpJump, Target: target} }
func JumpIfFalse(target int) Instruction { return Instruction{Op: OpJumpIfFalse, Target: target} }
func Label(name string) Instruction      { return Instruction{Op: OpLabel, Label: name} }
func UnresolvedJump(label string) Instruction {
	return Instruction{Op: OpUnresolvedJump, Label: label}
}
func UnresolvedJumpIfFalse(label string) Instruction {
	return Instruction{Op: OpUnresolvedJumpIfFalse, Label: label}
}
func Halt() Instruction { return Instruction{Op: OpHalt} }

func PreparePush() Instruction { return Instruction{Op: OpPreparePush} }
func PushUnnamedRefParam(name ast.QualifiedName) Instruction {
	return Instruction{Op: OpPushUnnamedRefParam, Name: name}
}
func PushUnnamedValParam() Instruction { return Instruction{Op: OpPushUnnamedValParam} }
func SetNamedRefParam(param, name ast.QualifiedName) Instruction {
	return Instruction{Op: OpSetNamedRefParam, Param: param, Name: name}
}
func SetNamedValParam(param ast.QualifiedName) Instruction {
	return Instruction{Op: OpSetNamedValParam, Param: param}
}
func PushStack() Instruction         { return Instruction{Op: OpPushStack} }
func PopStack() Instruction          { return Instruction{Op: OpPopStack} }
func PushRet(target int) Instruction { return Instruction{Op: OpPushRet, Target: target} }
func PopRet() Instruction            { return Instruction{Op: OpPopRet} }
func StoreAToResult() Instruction    { return Instruction{Op: OpStoreAToResult} }
func CopyResultToA() Instruction     { return Instruction{Op: OpCopyResultToA} }

func BuiltInSub(name string) Instruction      { return Instruction{Op: OpBuiltInSub, Builtin: name} }
func BuiltInFunction(name string) Instruction { return Instruction{Op: OpBuiltInFunction, Builtin: name} }
func Throw(message string) Instruction        { return Instruction{Op: OpThrow, Message: message} }
func SetErrorHandler(target int) Instruction {
	return Instruction{Op: OpSetErrorHandler, Target: target}
}
func SetUnresolvedErrorHandler(label string) Instruction {
	return Instruction{Op: OpSetUnresolvedErrorHandler, Label: label}
}
