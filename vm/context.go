package vm

import (
	"errors"
	"fmt"

	"github.com/chazu/basic/ast"
	"github.com/chazu/basic/variant"
)

// ErrDuplicateDefinition is raised when a constant would be redefined in the
// same frame, or a constant's name is assigned to.
var ErrDuplicateDefinition = errors.New("Duplicate definition")

// ---------------------------------------------------------------------------
// Arguments
// ---------------------------------------------------------------------------

// Argument is a parameter binding: either a value, or a reference to a
// variable of the frame the call was made from.
type Argument struct {
	ref   bool
	value variant.Variant
	name  ast.QualifiedName
}

// ByVal binds a snapshot of a value.
func ByVal(v variant.Variant) Argument { return Argument{value: v} }

// ByRef binds a variable of the calling frame.
func ByRef(name ast.QualifiedName) Argument { return Argument{ref: true, name: name} }

// IsRef reports whether the argument is a reference.
func (a Argument) IsRef() bool { return a.ref }

// Value returns the value of a ByVal argument.
func (a Argument) Value() variant.Variant { return a.value }

// RefName returns the variable a ByRef argument points at.
func (a Argument) RefName() ast.QualifiedName { return a.name }

func (a Argument) String() string {
	if a.ref {
		return "ByRef(" + a.name.String() + ")"
	}
	return "ByVal(" + a.value.String() + ")"
}

// nameMap indexes values by bare name, then by type. A and A$ are different
// variables.
type nameMap[T any] map[string]map[ast.TypeQualifier]T

func (m nameMap[T]) get(name ast.QualifiedName) (T, bool) {
	v, ok := m[name.Bare.Key()][name.Qualifier]
	return v, ok
}

func (m nameMap[T]) set(name ast.QualifiedName, v T) {
	key := name.Bare.Key()
	inner, ok := m[key]
	if !ok {
		inner = make(map[ast.TypeQualifier]T)
		m[key] = inner
	}
	inner[name.Qualifier] = v
}

func (m nameMap[T]) hasBare(bare ast.BareName) bool {
	return len(m[bare.Key()]) > 0
}

// ---------------------------------------------------------------------------
// Frames
// ---------------------------------------------------------------------------

type frame interface {
	// callResult is where a returning call leaves its result.
	setCallResult(v variant.Variant)
	getCallResult() variant.Variant
}

// rootFrame holds the program's globals.
type rootFrame struct {
	variables  nameMap[variant.Variant]
	constants  map[string]variant.Variant
	callResult variant.Variant
}

// argsFrame stages the arguments of a call that is being prepared.
type argsFrame struct {
	named      nameMap[Argument]
	unnamed    []Argument
	callResult variant.Variant
}

// subFrame is one activation of a function or sub.
type subFrame struct {
	variables  nameMap[Argument]
	constants  map[string]variant.Variant
	unnamed    []Argument
	result     variant.Variant // this function's own return value
	callResult variant.Variant
}

func (f *rootFrame) setCallResult(v variant.Variant) { f.callResult = v }
func (f *rootFrame) getCallResult() variant.Variant  { return f.callResult }
func (f *argsFrame) setCallResult(v variant.Variant) { f.callResult = v }
func (f *argsFrame) getCallResult() variant.Variant  { return f.callResult }
func (f *subFrame) setCallResult(v variant.Variant)  { f.callResult = v }
func (f *subFrame) getCallResult() variant.Variant   { return f.callResult }

// ---------------------------------------------------------------------------
// Context chain
// ---------------------------------------------------------------------------

// Context is the chain of scopes: one Root at the bottom, then any mix of
// Args (call being staged) and Sub (call in progress) frames. Every frame's
// parent is the frame just below it.
type Context struct {
	frames []frame
}

// NewContext creates a chain holding only the Root frame.
func NewContext() *Context {
	return &Context{frames: []frame{&rootFrame{
		variables:  make(nameMap[variant.Variant]),
		constants:  make(map[string]variant.Variant),
		callResult: variant.Integer(0),
	}}}
}

// Depth returns the number of frames, Root included.
func (c *Context) Depth() int {
	return len(c.frames)
}

func (c *Context) topLevel() int {
	return len(c.frames) - 1
}

// PushArgs opens a staging frame for a call's arguments.
func (c *Context) PushArgs() {
	c.frames = append(c.frames, &argsFrame{
		named:      make(nameMap[Argument]),
		callResult: variant.Integer(0),
	})
}

// SwapArgsWithSub turns the staged arguments into the callee's frame.
func (c *Context) SwapArgsWithSub() {
	args := c.demandArgs()
	c.frames[c.topLevel()] = &subFrame{
		variables:  args.named,
		constants:  make(map[string]variant.Variant),
		unnamed:    args.unnamed,
		result:     variant.Integer(0),
		callResult: variant.Integer(0),
	}
}

// Pop leaves the current subprogram frame, handing its result to the frame
// that made the call.
func (c *Context) Pop() {
	switch c.frames[c.topLevel()].(type) {
	case *rootFrame:
		panic("Stack underflow")
	case *argsFrame:
		panic("Did not finish args building")
	}
	sub := c.frames[c.topLevel()].(*subFrame)
	c.frames = c.frames[:c.topLevel()]
	c.frames[c.topLevel()].setCallResult(sub.result)
}

func (c *Context) demandArgs() *argsFrame {
	if f, ok := c.frames[c.topLevel()].(*argsFrame); ok {
		return f
	}
	panic("Not in an args context")
}

func (c *Context) demandSub() *subFrame {
	if f, ok := c.frames[c.topLevel()].(*subFrame); ok {
		return f
	}
	panic("Not in a sub context")
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// GetRValue reads a name as seen from the top frame. It reports false for a
// name that was never materialized.
func (c *Context) GetRValue(name ast.QualifiedName) (variant.Variant, bool) {
	return c.getRValue(c.topLevel(), name)
}

func (c *Context) getRValue(level int, name ast.QualifiedName) (variant.Variant, bool) {
	switch f := c.frames[level].(type) {
	case *rootFrame:
		if v, ok := f.constants[name.Bare.Key()]; ok {
			return v, true
		}
		return f.variables.get(name)
	case *argsFrame:
		return c.getRValue(level-1, name)
	case *subFrame:
		if v, ok := f.constants[name.Bare.Key()]; ok {
			return v, true
		}
		if arg, ok := f.variables.get(name); ok {
			if arg.ref {
				return c.getRValue(level-1, arg.name)
			}
			return arg.value, true
		}
		// Subprograms see their callers' constants but not their variables.
		return c.ancestorConstant(level-1, name.Bare)
	}
	panic(fmt.Sprintf("getRValue: unknown frame %T", c.frames[level]))
}

// ancestorConstant looks a constant up from level down to Root.
func (c *Context) ancestorConstant(level int, bare ast.BareName) (variant.Variant, bool) {
	for ; level >= 0; level-- {
		var constants map[string]variant.Variant
		switch f := c.frames[level].(type) {
		case *rootFrame:
			constants = f.constants
		case *subFrame:
			constants = f.constants
		}
		if v, ok := constants[bare.Key()]; ok {
			return v, true
		}
	}
	return variant.Variant{}, false
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// SetLValue assigns to a variable as seen from the top frame, casting the
// value to the variable's type. Writes through a ByRef land in the frame
// the reference came from.
func (c *Context) SetLValue(name ast.QualifiedName, value variant.Variant) error {
	return c.setLValue(c.topLevel(), name, value)
}

func (c *Context) setLValue(level int, name ast.QualifiedName, value variant.Variant) error {
	switch f := c.frames[level].(type) {
	case *rootFrame:
		if _, ok := f.constants[name.Bare.Key()]; ok {
			return ErrDuplicateDefinition
		}
		v, err := value.Cast(name.Qualifier)
		if err != nil {
			return err
		}
		f.variables.set(name, v)
		return nil
	case *argsFrame:
		return c.setLValue(level-1, name, value)
	case *subFrame:
		if _, ok := f.constants[name.Bare.Key()]; ok {
			return ErrDuplicateDefinition
		}
		if arg, ok := f.variables.get(name); ok && arg.ref {
			return c.setLValue(level-1, arg.name, value)
		} else if !ok {
			if _, isConst := c.ancestorConstant(level-1, name.Bare); isConst {
				return ErrDuplicateDefinition
			}
		}
		v, err := value.Cast(name.Qualifier)
		if err != nil {
			return err
		}
		f.variables.set(name, ByVal(v))
		return nil
	}
	panic(fmt.Sprintf("setLValue: unknown frame %T", c.frames[level]))
}

// SetConstLValue declares a constant in the top frame. A frame may not
// declare the same name twice, nor reuse a variable's name, but it may
// shadow a constant of an enclosing frame.
func (c *Context) SetConstLValue(name ast.QualifiedName, value variant.Variant) error {
	v, err := value.Cast(name.Qualifier)
	if err != nil {
		return err
	}
	key := name.Bare.Key()
	switch f := c.frames[c.topLevel()].(type) {
	case *rootFrame:
		if _, ok := f.constants[key]; ok || f.variables.hasBare(name.Bare) {
			return ErrDuplicateDefinition
		}
		f.constants[key] = v
	case *subFrame:
		if _, ok := f.constants[key]; ok || f.variables.hasBare(name.Bare) {
			return ErrDuplicateDefinition
		}
		f.constants[key] = v
	default:
		panic("SetConstLValue: constants cannot be declared while staging arguments")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Argument staging
// ---------------------------------------------------------------------------

// CreateParameter resolves a name passed as an argument: a visible constant
// is passed by value, a variable by reference. A name that does not exist
// yet is created with its zero value in the nearest non-Args frame and
// passed by reference.
func (c *Context) CreateParameter(name ast.QualifiedName) Argument {
	return c.createParameter(c.topLevel(), name)
}

func (c *Context) createParameter(level int, name ast.QualifiedName) Argument {
	switch f := c.frames[level].(type) {
	case *rootFrame:
		if v, ok := f.constants[name.Bare.Key()]; ok {
			return ByVal(v)
		}
		if _, ok := f.variables.get(name); !ok {
			f.variables.set(name, variant.Default(name.Qualifier))
		}
		return ByRef(name)
	case *argsFrame:
		return c.createParameter(level-1, name)
	case *subFrame:
		if v, ok := f.constants[name.Bare.Key()]; ok {
			return ByVal(v)
		}
		if _, ok := f.variables.get(name); ok {
			return ByRef(name)
		}
		if v, ok := c.ancestorConstant(level-1, name.Bare); ok {
			return ByVal(v)
		}
		f.variables.set(name, ByVal(variant.Default(name.Qualifier)))
		return ByRef(name)
	}
	panic(fmt.Sprintf("createParameter: unknown frame %T", c.frames[level]))
}

// SetNamedArg binds a parameter of the call being staged. ByVal arguments
// are cast to the parameter's type.
func (c *Context) SetNamedArg(param ast.QualifiedName, arg Argument) error {
	args := c.demandArgs()
	if !arg.ref {
		v, err := arg.value.Cast(param.Qualifier)
		if err != nil {
			return err
		}
		arg.value = v
	}
	args.named.set(param, arg)
	return nil
}

// PushUnnamedArg queues a positional argument for a built-in.
func (c *Context) PushUnnamedArg(arg Argument) {
	args := c.demandArgs()
	args.unnamed = append(args.unnamed, arg)
}

// ---------------------------------------------------------------------------
// Inside a subprogram
// ---------------------------------------------------------------------------

// UnnamedCount returns how many positional arguments are left.
func (c *Context) UnnamedCount() int {
	return len(c.demandSub().unnamed)
}

// TryPopUnnamed removes the next positional argument, if any.
func (c *Context) TryPopUnnamed() (Argument, bool) {
	sub := c.demandSub()
	if len(sub.unnamed) == 0 {
		return Argument{}, false
	}
	arg := sub.unnamed[0]
	sub.unnamed = sub.unnamed[1:]
	return arg, true
}

// PopUnnamed removes the next positional argument. Built-ins only call it
// after checking the count.
func (c *Context) PopUnnamed() Argument {
	arg, ok := c.TryPopUnnamed()
	if !ok {
		panic("PopUnnamed: no unnamed arguments left")
	}
	return arg
}

// EvaluateArg returns the current value behind an argument of the top frame.
func (c *Context) EvaluateArg(arg Argument) variant.Variant {
	c.demandSub()
	if !arg.ref {
		return arg.value
	}
	v, ok := c.getRValue(c.topLevel()-1, arg.name)
	if !ok {
		return variant.Default(arg.name.Qualifier)
	}
	return v
}

// SetPoppedArg writes through an argument taken from the top frame. Only
// references can be written to.
func (c *Context) SetPoppedArg(arg Argument, value variant.Variant) error {
	c.demandSub()
	if !arg.ref {
		return errExpectedVariable
	}
	return c.setLValue(c.topLevel()-1, arg.name, value)
}

var errExpectedVariable = errors.New("Expected variable")

// SetFunctionResult sets the return value of the running function.
func (c *Context) SetFunctionResult(v variant.Variant) {
	c.demandSub().result = v
}

// CallResult returns what the last call made from the top frame returned.
func (c *Context) CallResult() variant.Variant {
	return c.frames[c.topLevel()].getCallResult()
}
