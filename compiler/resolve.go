package compiler

import "github.com/chazu/basic/bytecode"

// resolve drops Label instructions and rewrites every symbolic jump to the
// absolute index of the first instruction following its label. PushRet
// addresses are remapped the same way.
func (g *Generator) resolve() *bytecode.Program {
	labels := make(map[string]int)
	remap := make([]int, len(g.instructions)+1)
	n := 0
	for i, node := range g.instructions {
		remap[i] = n
		if node.Op == bytecode.OpLabel {
			// a label emitted twice resolves to its last occurrence
			labels[node.Label] = n
			continue
		}
		n++
	}
	remap[len(g.instructions)] = n

	lookup := func(node bytecode.InstructionNode) int {
		target, ok := labels[node.Label]
		if !ok {
			g.errorf(node.Pos, "Label not found: %s", node.Label)
		}
		return target
	}

	out := make([]bytecode.InstructionNode, 0, n)
	for _, node := range g.instructions {
		switch node.Op {
		case bytecode.OpLabel:
			continue
		case bytecode.OpUnresolvedJump:
			node.Instruction = bytecode.Jump(lookup(node))
		case bytecode.OpUnresolvedJumpIfFalse:
			node.Instruction = bytecode.JumpIfFalse(lookup(node))
		case bytecode.OpSetUnresolvedErrorHandler:
			node.Instruction = bytecode.SetErrorHandler(lookup(node))
		case bytecode.OpJump, bytecode.OpJumpIfFalse, bytecode.OpSetErrorHandler, bytecode.OpPushRet:
			node.Target = remap[node.Target]
		}
		out = append(out, node)
	}
	return &bytecode.Program{Instructions: out, Labels: labels}
}
