// Package bytecode defines the instruction set executed by the BASIC
// virtual machine, together with the program container, a disassembler and
// the on-disk image format.
package bytecode

import "fmt"

// ---------------------------------------------------------------------------
// Opcode definitions
// ---------------------------------------------------------------------------

// Opcode identifies an instruction.
type Opcode byte

// Register operations (A and B)
const (
	OpLoad          Opcode = 0x00 // A = value
	OpCopyAToB      Opcode = 0x01 // B = A
	OpCast          Opcode = 0x02 // A = cast(A, qualifier)
	OpPushRegisters Opcode = 0x03 // push a fresh register pair
	OpPopRegisters  Opcode = 0x04 // pop the pair, keeping its A
)

// Arithmetic and logic (A op B -> A)
const (
	OpPlus    Opcode = 0x10
	OpMinus   Opcode = 0x11
	OpTimes   Opcode = 0x12
	OpDivide  Opcode = 0x13
	OpAnd     Opcode = 0x14
	OpOr      Opcode = 0x15
	OpNegateA Opcode = 0x16 // A = -A
	OpNotA    Opcode = 0x17 // A = NOT A
)

// Comparisons (A op B -> A as -1/0)
const (
	OpEqualTo            Opcode = 0x20
	OpNotEqualTo         Opcode = 0x21
	OpLessThan           Opcode = 0x22
	OpLessOrEqualThan    Opcode = 0x23
	OpGreaterThan        Opcode = 0x24
	OpGreaterOrEqualThan Opcode = 0x25
)

// Variables and constants
const (
	OpStore      Opcode = 0x30 // name = A
	OpStoreConst Opcode = 0x31 // CONST name = A
	OpCopyVarToA Opcode = 0x32 // A = name
	OpCopyVarToB Opcode = 0x33 // B = name
)

// Control flow
const (
	OpJump                  Opcode = 0x40 // goto target
	OpJumpIfFalse           Opcode = 0x41 // goto target when A is false
	OpLabel                 Opcode = 0x42 // symbolic target, removed by resolution
	OpUnresolvedJump        Opcode = 0x43 // goto label
	OpUnresolvedJumpIfFalse Opcode = 0x44 // goto label when A is false
	OpHalt                  Opcode = 0x45 // stop
)

// Call protocol
const (
	OpPreparePush         Opcode = 0x50 // open an argument staging frame
	OpPushUnnamedRefParam Opcode = 0x51 // queue a reference to name
	OpPushUnnamedValParam Opcode = 0x52 // queue A by value
	OpSetNamedRefParam    Opcode = 0x53 // param = reference to name
	OpSetNamedValParam    Opcode = 0x54 // param = A
	OpPushStack           Opcode = 0x55 // turn the staging frame into a sub frame
	OpPopStack            Opcode = 0x56 // leave the sub frame
	OpPushRet             Opcode = 0x57 // push return address
	OpPopRet              Opcode = 0x58 // return
	OpStoreAToResult      Opcode = 0x59 // function result = A
	OpCopyResultToA       Opcode = 0x5A // A = result of the last call
)

// Built-ins and errors
const (
	OpBuiltInSub                Opcode = 0x60 // run a built-in sub
	OpBuiltInFunction           Opcode = 0x61 // run a built-in function
	OpThrow                     Opcode = 0x62 // raise message
	OpSetErrorHandler           Opcode = 0x63 // ON ERROR GOTO target
	OpSetUnresolvedErrorHandler Opcode = 0x64 // ON ERROR GOTO label
)

// ---------------------------------------------------------------------------
// Opcode metadata
// ---------------------------------------------------------------------------

// OperandKind describes which Instruction fields an opcode uses.
type OperandKind int

const (
	OperandNone      OperandKind = iota
	OperandValue                 // Value
	OperandQualifier             // Qualifier
	OperandName                  // Name
	OperandParam                 // Param
	OperandParamName             // Param and Name
	OperandTarget                // Target
	OperandLabel                 // Label
	OperandBuiltin               // Builtin
	OperandMessage               // Message
)

// OpcodeInfo contains metadata about an opcode.
type OpcodeInfo struct {
	Name    string
	Operand OperandKind
}

// opcodeTable maps opcodes to their metadata.
var opcodeTable = map[Opcode]OpcodeInfo{
	// Registers
	OpLoad:          {"LOAD", OperandValue},
	OpCopyAToB:      {"COPY_A_TO_B", OperandNone},
	OpCast:          {"CAST", OperandQualifier},
	OpPushRegisters: {"PUSH_REGISTERS", OperandNone},
	OpPopRegisters:  {"POP_REGISTERS", OperandNone},

	// Arithmetic
	OpPlus:    {"PLUS", OperandNone},
	OpMinus:   {"MINUS", OperandNone},
	OpTimes:   {"TIMES", OperandNone},
	OpDivide:  {"DIVIDE", OperandNone},
	OpAnd:     {"AND", OperandNone},
	OpOr:      {"OR", OperandNone},
	OpNegateA: {"NEGATE_A", OperandNone},
	OpNotA:    {"NOT_A", OperandNone},

	// Comparisons
	OpEqualTo:            {"EQUAL_TO", OperandNone},
	OpNotEqualTo:         {"NOT_EQUAL_TO", OperandNone},
	OpLessThan:           {"LESS_THAN", OperandNone},
	OpLessOrEqualThan:    {"LESS_OR_EQUAL_THAN", OperandNone},
	OpGreaterThan:        {"GREATER_THAN", OperandNone},
	OpGreaterOrEqualThan: {"GREATER_OR_EQUAL_THAN", OperandNone},

	// Variables
	OpStore:      {"STORE", OperandName},
	OpStoreConst: {"STORE_CONST", OperandName},
	OpCopyVarToA: {"COPY_VAR_TO_A", OperandName},
	OpCopyVarToB: {"COPY_VAR_TO_B", OperandName},

	// Control flow
	OpJump:                  {"JUMP", OperandTarget},
	OpJumpIfFalse:           {"JUMP_IF_FALSE", OperandTarget},
	OpLabel:                 {"LABEL", OperandLabel},
	OpUnresolvedJump:        {"UNRESOLVED_JUMP", OperandLabel},
	OpUnresolvedJumpIfFalse: {"UNRESOLVED_JUMP_IF_FALSE", OperandLabel},
	OpHalt:                  {"HALT", OperandNone},

	// Calls
	OpPreparePush:         {"PREPARE_PUSH", OperandNone},
	OpPushUnnamedRefParam: {"PUSH_UNNAMED_REF_PARAM", OperandName},
	OpPushUnnamedValParam: {"PUSH_UNNAMED_VAL_PARAM", OperandNone},
	OpSetNamedRefParam:    {"SET_NAMED_REF_PARAM", OperandParamName},
	OpSetNamedValParam:    {"SET_NAMED_VAL_PARAM", OperandParam},
	OpPushStack:           {"PUSH_STACK", OperandNone},
	OpPopStack:            {"POP_STACK", OperandNone},
	OpPushRet:             {"PUSH_RET", OperandTarget},
	OpPopRet:              {"POP_RET", OperandNone},
	OpStoreAToResult:      {"STORE_A_TO_RESULT", OperandNone},
	OpCopyResultToA:       {"COPY_RESULT_TO_A", OperandNone},

	// Built-ins and errors
	OpBuiltInSub:                {"BUILT_IN_SUB", OperandBuiltin},
	OpBuiltInFunction:           {"BUILT_IN_FUNCTION", OperandBuiltin},
	OpThrow:                     {"THROW", OperandMessage},
	OpSetErrorHandler:           {"SET_ERROR_HANDLER", OperandTarget},
	OpSetUnresolvedErrorHandler: {"SET_UNRESOLVED_ERROR_HANDLER", OperandLabel},
}

// Info returns metadata for an opcode.
func (op Opcode) Info() OpcodeInfo {
	if info, ok := opcodeTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN_%02X", byte(op)), Operand: OperandNone}
}

// Name returns the human-readable name for an opcode.
func (op Opcode) Name() string {
	return op.Info().Name
}

// IsKnown reports whether the opcode belongs to the instruction set.
func (op Opcode) IsKnown() bool {
	_, ok := opcodeTable[op]
	return ok
}

func (op Opcode) String() string {
	return op.Name()
}
