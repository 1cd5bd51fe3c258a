package vm

import "github.com/chazu/basic/variant"

// Registers is one A/B pair.
type Registers struct {
	A variant.Variant
	B variant.Variant
}

func zeroRegisters() Registers {
	return Registers{A: variant.Integer(0), B: variant.Integer(0)}
}

// registerStack protects the caller's registers while a subexpression is
// evaluated. There is always at least one pair.
type registerStack struct {
	pairs []Registers
}

func newRegisterStack() *registerStack {
	return &registerStack{pairs: []Registers{zeroRegisters()}}
}

func (s *registerStack) top() *Registers {
	return &s.pairs[len(s.pairs)-1]
}

func (s *registerStack) push() {
	s.pairs = append(s.pairs, zeroRegisters())
}

// pop discards the top pair and hands its A to the pair below.
func (s *registerStack) pop() {
	if len(s.pairs) < 2 {
		panic("registerStack.pop: no registers to pop")
	}
	a := s.top().A
	s.pairs = s.pairs[:len(s.pairs)-1]
	s.top().A = a
}

func (s *registerStack) depth() int {
	return len(s.pairs)
}

// setA stores the result of an operation, leaving A untouched on failure.
func (r *Registers) setA(v variant.Variant, err error) error {
	if err == nil {
		r.A = v
	}
	return err
}
