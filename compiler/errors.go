package compiler

import (
	"fmt"

	"github.com/chazu/basic/ast"
)

// Error is a code generation failure. Generation errors abort before
// anything runs.
type Error struct {
	Pos     ast.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[IG] %s at %s", e.Message, e.Pos)
}
