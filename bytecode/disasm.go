package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of the program.
func (p *Program) Disassemble() string {
	return p.DisassembleWithName("")
}

// DisassembleWithName returns a listing with a name header.
func (p *Program) DisassembleWithName(name string) string {
	var sb strings.Builder
	labels := IndexLabels(p.Labels)

	// Header
	if name != "" {
		sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	}
	sb.WriteString(fmt.Sprintf("; %d instructions, %d labels\n\n", len(p.Instructions), labels.Len()))

	for idx, node := range p.Instructions {
		for _, label := range labels.At(idx) {
			sb.WriteString(fmt.Sprintf("%s:\n", label))
		}
		sb.WriteString(fmt.Sprintf("%04d  %-7s  %s\n", idx, node.Pos, node.Instruction))
	}
	// Labels placed after the last instruction.
	for _, label := range labels.At(len(p.Instructions)) {
		sb.WriteString(fmt.Sprintf("%s:\n", label))
	}
	return sb.String()
}
