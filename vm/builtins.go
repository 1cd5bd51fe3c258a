package vm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/basic/ast"
	"github.com/chazu/basic/bytecode"
	"github.com/chazu/basic/variant"
)

// ---------------------------------------------------------------------------
// Built-in subs
// ---------------------------------------------------------------------------

func (i *Interpreter) builtInSub(node *bytecode.InstructionNode) (halt bool, err error) {
	switch node.Builtin {
	case bytecode.BuiltinPrint:
		i.print()
	case bytecode.BuiltinInput:
		err = i.input(node.Pos)
	case bytecode.BuiltinEnvironSub:
		err = i.setEnviron(node.Pos)
	case bytecode.BuiltinSystem:
		i.stdlib.System()
		halt = true
	default:
		err = newError(node.Pos, "Unknown built-in sub %s", node.Builtin)
	}
	return halt, err
}

// print stringifies every staged argument.
func (i *Interpreter) print() {
	args := make([]string, 0, i.context.UnnamedCount())
	for {
		arg, ok := i.context.TryPopUnnamed()
		if !ok {
			break
		}
		args = append(args, i.context.EvaluateArg(arg).String())
	}
	i.stdlib.Print(args)
}

// input reads one line per staged variable and stores it with the
// variable's type.
func (i *Interpreter) input(pos ast.Position) error {
	for {
		arg, ok := i.context.TryPopUnnamed()
		if !ok {
			return nil
		}
		if !arg.IsRef() {
			return errAt(errExpectedVariable, pos)
		}
		line, err := i.stdlib.Input()
		if err != nil {
			return &RuntimeError{Message: fmt.Sprintf("Input failed: %v", err), Pos: pos, Err: err}
		}
		v, err := parseInput(line, arg.RefName().Qualifier)
		if err != nil {
			return errAt(err, pos)
		}
		if err := i.context.SetPoppedArg(arg, v); err != nil {
			return err
		}
	}
}

// parseInput converts a line of input. Strings are taken verbatim, line
// ending included; an empty line is zero for numeric types.
func parseInput(line string, q ast.TypeQualifier) (variant.Variant, error) {
	if q == ast.String {
		return variant.String(line), nil
	}
	s := strings.TrimSpace(line)
	if s == "" {
		return variant.Default(q), nil
	}
	switch q {
	case ast.Integer, ast.Long:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return variant.Long(n).Cast(q)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return variant.Variant{}, fmt.Errorf("Invalid number %q: %w", s, variant.ErrTypeMismatch)
		}
		return variant.Double(f).Cast(q)
	case ast.Single:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return variant.Variant{}, fmt.Errorf("Invalid number %q: %w", s, variant.ErrTypeMismatch)
		}
		return variant.Single(float32(f)), nil
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return variant.Variant{}, fmt.Errorf("Invalid number %q: %w", s, variant.ErrTypeMismatch)
		}
		return variant.Double(f), nil
	}
}

// setEnviron implements ENVIRON "NAME=VALUE".
func (i *Interpreter) setEnviron(pos ast.Position) error {
	if i.context.UnnamedCount() != 1 {
		return newError(pos, "Invalid expression. Must be name=value.")
	}
	v := i.context.EvaluateArg(i.context.PopUnnamed())
	if !v.IsString() {
		return errAt(variant.ErrTypeMismatch, pos)
	}
	name, value, ok := strings.Cut(v.Str(), "=")
	if !ok || name == "" {
		return newError(pos, "Invalid expression. Must be name=value.")
	}
	i.stdlib.SetEnvVar(name, value)
	return nil
}

// ---------------------------------------------------------------------------
// Built-in functions
// ---------------------------------------------------------------------------

func (i *Interpreter) builtInFunction(node *bytecode.InstructionNode) error {
	switch node.Builtin {
	case bytecode.BuiltinEnviron:
		return i.environ(node.Pos)
	case bytecode.BuiltinUndefined:
		return i.undefinedFunction(node.Pos)
	}
	return newError(node.Pos, "Unknown built-in function %s", node.Builtin)
}

// environ implements ENVIRON$(name). An unset variable is "".
func (i *Interpreter) environ(pos ast.Position) error {
	if i.context.UnnamedCount() != 1 {
		return newError(pos, "ENVIRON$ expects exactly one argument")
	}
	v := i.context.EvaluateArg(i.context.PopUnnamed())
	if !v.IsString() {
		return &RuntimeError{Message: "Type mismatch at ENVIRON$", Pos: pos, Err: variant.ErrTypeMismatch}
	}
	i.context.SetFunctionResult(variant.String(i.stdlib.GetEnvVar(v.Str())))
	return nil
}

// undefinedFunction stands in for a function that has no implementation.
// It yields 0 as long as no argument is a string.
func (i *Interpreter) undefinedFunction(pos ast.Position) error {
	for {
		arg, ok := i.context.TryPopUnnamed()
		if !ok {
			break
		}
		if i.context.EvaluateArg(arg).IsString() {
			return errAt(variant.ErrTypeMismatch, pos)
		}
	}
	i.context.SetFunctionResult(variant.Integer(0))
	return nil
}
