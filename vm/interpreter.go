// Package vm executes resolved bytecode programs.
package vm

import (
	"context"
	"fmt"

	"github.com/chazu/basic/ast"
	"github.com/chazu/basic/bytecode"
	"github.com/chazu/basic/variant"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("basic.vm")

// cancelCheckInterval is how many instructions run between checks of the
// context passed to Interpret.
const cancelCheckInterval = 1024

// ---------------------------------------------------------------------------
// Interpreter
// ---------------------------------------------------------------------------

// Interpreter runs one program at a time. It is not safe for concurrent use.
type Interpreter struct {
	stdlib Stdlib

	// Trace logs every instruction at debug level.
	Trace bool

	context      *Context
	registers    *registerStack
	returnStack  []int
	errorHandler int // -1 when no ON ERROR GOTO is active
	steps        int
}

// NewInterpreter creates an interpreter talking to the given stdlib.
func NewInterpreter(stdlib Stdlib) *Interpreter {
	return &Interpreter{stdlib: stdlib}
}

// Context returns the context chain of the last run.
func (i *Interpreter) Context() *Context {
	return i.context
}

// Steps returns the number of instructions executed by the last run.
func (i *Interpreter) Steps() int {
	return i.steps
}

// Interpret runs prog from its first instruction until HALT or the end of
// the vector. An error with no ON ERROR GOTO handler aborts the run and is
// returned as a *RuntimeError.
//
// A program that breaks the call protocol (popping a frame or register pair
// that was never pushed, returning with an empty return stack) fails with
// ErrMalformedProgram instead of crashing the host.
func (i *Interpreter) Interpret(ctx context.Context, prog *bytecode.Program) (err error) {
	i.context = NewContext()
	i.registers = newRegisterStack()
	i.returnStack = i.returnStack[:0]
	i.errorHandler = -1
	i.steps = 0

	instructions := prog.Instructions
	pc := 0
	defer func() {
		if r := recover(); r != nil {
			msg, ok := r.(string)
			if !ok {
				panic(r)
			}
			var pos ast.Position
			if pc < len(instructions) {
				pos = instructions[pc].Pos
			}
			log.Errorf("malformed program at instruction %d: %s", pc, msg)
			err = &RuntimeError{Message: msg, Pos: pos, Err: ErrMalformedProgram}
		}
	}()

	for pc < len(instructions) {
		if i.steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return &RuntimeError{Message: ErrInterrupted.Error(), Pos: instructions[pc].Pos, Err: ErrInterrupted}
			}
		}
		i.steps++

		node := &instructions[pc]
		if i.Trace {
			log.Debugf("%04d %s %s", pc, node.Pos, node.Instruction)
		}
		next, halt, err := i.step(node, pc)
		if err != nil {
			rtErr := errAt(err, node.Pos)
			if i.errorHandler < 0 {
				return rtErr
			}
			log.Debugf("error %q at %s, jumping to handler %d", rtErr.Message, rtErr.Pos, i.errorHandler)
			pc = i.errorHandler
			continue
		}
		if halt {
			break
		}
		pc = next
	}
	return nil
}

// step executes one instruction and returns the index of the next one.
func (i *Interpreter) step(node *bytecode.InstructionNode, pc int) (next int, halt bool, err error) {
	next = pc + 1
	regs := i.registers.top()

	switch node.Op {
	// --- Registers ---
	case bytecode.OpLoad:
		regs.A = node.Value

	case bytecode.OpCopyAToB:
		regs.B = regs.A

	case bytecode.OpCast:
		err = regs.setA(regs.A.Cast(node.Qualifier))

	case bytecode.OpPushRegisters:
		i.registers.push()

	case bytecode.OpPopRegisters:
		i.registers.pop()

	// --- Arithmetic and logic ---
	case bytecode.OpPlus:
		err = regs.setA(regs.A.Plus(regs.B))

	case bytecode.OpMinus:
		err = regs.setA(regs.A.Minus(regs.B))

	case bytecode.OpTimes:
		err = regs.setA(regs.A.Times(regs.B))

	case bytecode.OpDivide:
		err = regs.setA(regs.A.Divide(regs.B))

	case bytecode.OpAnd:
		err = regs.setA(regs.A.And(regs.B))

	case bytecode.OpOr:
		err = regs.setA(regs.A.Or(regs.B))

	case bytecode.OpNegateA:
		err = regs.setA(regs.A.Negate())

	case bytecode.OpNotA:
		err = regs.setA(regs.A.Not())

	// --- Comparisons ---
	case bytecode.OpEqualTo, bytecode.OpNotEqualTo, bytecode.OpLessThan,
		bytecode.OpLessOrEqualThan, bytecode.OpGreaterThan, bytecode.OpGreaterOrEqualThan:
		var cmp int
		cmp, err = regs.A.Compare(regs.B)
		if err == nil {
			regs.A = variant.Bool(compareHolds(node.Op, cmp))
		}

	// --- Variables ---
	case bytecode.OpStore:
		err = i.context.SetLValue(node.Name, regs.A)

	case bytecode.OpStoreConst:
		err = i.context.SetConstLValue(node.Name, regs.A)

	case bytecode.OpCopyVarToA:
		regs.A = i.readVar(node.Name)

	case bytecode.OpCopyVarToB:
		regs.B = i.readVar(node.Name)

	// --- Control flow ---
	case bytecode.OpJump:
		next = node.Target

	case bytecode.OpJumpIfFalse:
		var ok bool
		ok, err = regs.A.Truthy()
		if err == nil && !ok {
			next = node.Target
		}

	case bytecode.OpHalt:
		halt = true

	case bytecode.OpLabel, bytecode.OpUnresolvedJump, bytecode.OpUnresolvedJumpIfFalse,
		bytecode.OpSetUnresolvedErrorHandler:
		panic(fmt.Sprintf("step: unresolved instruction %s at %d", node.Instruction, pc))

	// --- Calls ---
	case bytecode.OpPreparePush:
		i.context.PushArgs()

	case bytecode.OpPushUnnamedRefParam:
		i.context.PushUnnamedArg(i.context.CreateParameter(node.Name))

	case bytecode.OpPushUnnamedValParam:
		i.context.PushUnnamedArg(ByVal(regs.A))

	case bytecode.OpSetNamedRefParam:
		err = i.context.SetNamedArg(node.Param, i.context.CreateParameter(node.Name))

	case bytecode.OpSetNamedValParam:
		err = i.context.SetNamedArg(node.Param, ByVal(regs.A))

	case bytecode.OpPushStack:
		i.context.SwapArgsWithSub()

	case bytecode.OpPopStack:
		i.context.Pop()

	case bytecode.OpPushRet:
		i.returnStack = append(i.returnStack, node.Target)

	case bytecode.OpPopRet:
		if len(i.returnStack) == 0 {
			panic("Return stack underflow")
		}
		next = i.returnStack[len(i.returnStack)-1]
		i.returnStack = i.returnStack[:len(i.returnStack)-1]

	case bytecode.OpStoreAToResult:
		i.context.SetFunctionResult(regs.A)

	case bytecode.OpCopyResultToA:
		regs.A = i.context.CallResult()

	// --- Built-ins and errors ---
	case bytecode.OpBuiltInSub:
		halt, err = i.builtInSub(node)

	case bytecode.OpBuiltInFunction:
		err = i.builtInFunction(node)

	case bytecode.OpThrow:
		err = newError(node.Pos, "%s", node.Message)

	case bytecode.OpSetErrorHandler:
		i.errorHandler = node.Target

	default:
		panic(fmt.Sprintf("step: unknown opcode %s at %d", node.Op, pc))
	}
	return next, halt, err
}

// readVar reads a variable; a name never assigned reads as the zero value
// of its type.
func (i *Interpreter) readVar(name ast.QualifiedName) variant.Variant {
	if v, ok := i.context.GetRValue(name); ok {
		return v
	}
	return variant.Default(name.Qualifier)
}

func compareHolds(op bytecode.Opcode, cmp int) bool {
	switch op {
	case bytecode.OpEqualTo:
		return cmp == 0
	case bytecode.OpNotEqualTo:
		return cmp != 0
	case bytecode.OpLessThan:
		return cmp < 0
	case bytecode.OpLessOrEqualThan:
		return cmp <= 0
	case bytecode.OpGreaterThan:
		return cmp > 0
	default:
		return cmp >= 0
	}
}
