package bytecode

import "fmt"

// Program is a resolved instruction vector ready for execution.
type Program struct {
	Instructions []InstructionNode `cbor:"1,keyasint"`
	// Labels maps every label the generator emitted (user labels and the
	// synthetic ones) to the index it resolved to.
	Labels map[string]int `cbor:"2,keyasint,omitempty"`
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Instructions)
}

// Validate checks that the program can be executed: every opcode is known,
// nothing refers to a label any more and every target is in range.
func (p *Program) Validate() error {
	n := len(p.Instructions)
	for idx, node := range p.Instructions {
		if !node.Op.IsKnown() {
			return fmt.Errorf("instruction %d: unknown opcode 0x%02X", idx, byte(node.Op))
		}
		if node.IsUnresolved() {
			return fmt.Errorf("instruction %d: unresolved %s", idx, node.Instruction)
		}
		if node.HasTarget() && (node.Target < 0 || node.Target >= n) {
			return fmt.Errorf("instruction %d: target %d out of range [0,%d)", idx, node.Target, n)
		}
	}
	for name, idx := range p.Labels {
		if idx < 0 || idx > n {
			return fmt.Errorf("label %s: index %d out of range", name, idx)
		}
	}
	return nil
}
