package vm

import (
	"errors"
	"fmt"

	"github.com/chazu/basic/ast"
)

// RuntimeError is a located failure raised while executing a program.
type RuntimeError struct {
	Message string
	Pos     ast.Position
	Err     error // underlying cause, if any
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// ErrInterrupted is the cause of the error returned when the context passed
// to Interpret is cancelled.
var ErrInterrupted = errors.New("Interrupted")

// ErrMalformedProgram is the cause of failures raised by instruction
// sequences the generator never produces, such as a PopStack with no
// frame to pop.
var ErrMalformedProgram = errors.New("malformed program")

// errAt attaches a position to a failure. Errors that already carry a
// position keep it.
func errAt(err error, pos ast.Position) *RuntimeError {
	var rt *RuntimeError
	if errors.As(err, &rt) {
		return rt
	}
	return &RuntimeError{Message: err.Error(), Pos: pos, Err: err}
}

// newError builds a located error with no underlying cause.
func newError(pos ast.Position, format string, args ...any) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...), Pos: pos}
}
