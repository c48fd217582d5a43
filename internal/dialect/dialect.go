// Package dialect describes the builtin operations available to a zyl
// program and the legality constraints optimization passes must honor.
package dialect

// Builtin describes one builtin operation.
type Builtin struct {
	Name     string
	Params   int
	Variadic bool // accepts Params or more arguments
	Returns  int
	// Movable operations may be duplicated or reordered when their
	// arguments are movable. Reading from mutable state is not movable
	// even when it has no side effects.
	Movable bool
	// SideEffects operations must keep their count and relative order.
	SideEffects bool
	// LiteralArgs lists zero-based argument positions that must be
	// compile-time literals.
	LiteralArgs []int
}

// AcceptsArgCount reports whether n arguments satisfy the builtin's arity.
func (b *Builtin) AcceptsArgCount(n int) bool {
	if b.Variadic {
		return n >= b.Params
	}
	return n == b.Params
}

// RequiresLiteral reports whether argument position i must be a literal.
func (b *Builtin) RequiresLiteral(i int) bool {
	for _, pos := range b.LiteralArgs {
		if pos == i {
			return true
		}
	}
	return false
}

// Dialect is an immutable description of a builtin operation set. It may be
// shared read-only across concurrent pipeline runs.
type Dialect interface {
	// Name identifies the dialect for reporting.
	Name() string
	// Builtin returns the description of the named builtin operation.
	Builtin(name string) (*Builtin, bool)
	// ReservedNames returns names user code must not declare.
	ReservedNames() []string
}
