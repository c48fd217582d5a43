package opt

import (
	"zyl/internal/dialect"
)

// DefaultStackLimit is the stack-pressure threshold used when the session
// does not configure one.
const DefaultStackLimit = 16

// Context is the shared state threaded through every pass invocation. The
// only mutable piece is the NameDispenser; Dialect is read-only for the
// lifetime of a pipeline run.
type Context struct {
	Dialect    dialect.Dialect
	Names      *NameDispenser
	StackLimit int
}

// NewContext builds a pass context for one pipeline run. Reserved names are
// folded into the dispenser so no pass can hand them out as temporaries,
// even when the dispenser did not come from Disambiguate.
func NewContext(d dialect.Dialect, names *NameDispenser, reserved []string, stackLimit int) *Context {
	for _, name := range reserved {
		names.MarkUsed(name)
	}
	if stackLimit <= 0 {
		stackLimit = DefaultStackLimit
	}
	return &Context{
		Dialect:    d,
		Names:      names,
		StackLimit: stackLimit,
	}
}
