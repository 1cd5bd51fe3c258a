package ast

import "fmt"

// ---------------------------------------------------------------------------
// Subprograms
// ---------------------------------------------------------------------------

// FunctionImplementation is a FUNCTION ... END FUNCTION block as it appears
// among the top-level items.
type FunctionImplementation struct {
	PosVal Position
	Name   QualifiedName
	Params []QualifiedName
	Body   []Stmt
}

func (n *FunctionImplementation) Pos() Position { return n.PosVal }
func (n *FunctionImplementation) node()         {}

// SubImplementation is a SUB ... END SUB block as it appears among the
// top-level items.
type SubImplementation struct {
	PosVal Position
	Name   BareName
	Params []QualifiedName
	Body   []Stmt
}

func (n *SubImplementation) Pos() Position { return n.PosVal }
func (n *SubImplementation) node()         {}

// Implementation is a registry entry. Subs leave Name.Qualifier unset.
type Implementation struct {
	Name   QualifiedName
	Params []QualifiedName
	Body   []Stmt
	Pos    Position
}

// Registry maps case-insensitive bare names to implementations. It keeps
// declaration order so code generation is deterministic.
type Registry struct {
	byName map[string]*Implementation
	order  []*Implementation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Implementation)}
}

// Add registers an implementation.
func (r *Registry) Add(impl *Implementation) error {
	key := impl.Name.Bare.Key()
	if _, exists := r.byName[key]; exists {
		return fmt.Errorf("Duplicate definition: %s at %s", impl.Name.Bare, impl.Pos)
	}
	r.byName[key] = impl
	r.order = append(r.order, impl)
	return nil
}

// Lookup finds an implementation by bare name.
func (r *Registry) Lookup(name BareName) (*Implementation, bool) {
	if r == nil {
		return nil, false
	}
	impl, ok := r.byName[name.Key()]
	return impl, ok
}

// All returns the implementations in declaration order.
func (r *Registry) All() []*Implementation {
	if r == nil {
		return nil
	}
	return r.order
}

// Len returns the number of implementations.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// ---------------------------------------------------------------------------
// Program
// ---------------------------------------------------------------------------

// Program is a linted program: top-level statements plus the function and
// sub tables.
type Program struct {
	Statements []Stmt
	Functions  *Registry
	Subs       *Registry
}

// Resolve moves FUNCTION and SUB implementations out of the top-level items
// into their registries. Everything else must be a statement and keeps its
// order.
func Resolve(items []Node) (*Program, error) {
	prog := &Program{
		Functions: NewRegistry(),
		Subs:      NewRegistry(),
	}
	for _, item := range items {
		switch n := item.(type) {
		case *FunctionImplementation:
			err := prog.Functions.Add(&Implementation{
				Name:   n.Name,
				Params: n.Params,
				Body:   n.Body,
				Pos:    n.PosVal,
			})
			if err != nil {
				return nil, err
			}
		case *SubImplementation:
			err := prog.Subs.Add(&Implementation{
				Name:   QualifiedName{Bare: n.Name},
				Params: n.Params,
				Body:   n.Body,
				Pos:    n.PosVal,
			})
			if err != nil {
				return nil, err
			}
		case Stmt:
			prog.Statements = append(prog.Statements, n)
		default:
			return nil, fmt.Errorf("unexpected top-level node %T at %s", item, item.Pos())
		}
	}
	return prog, nil
}
