package dialect

import (
	"fmt"
	"sort"
)

// Version selects a core builtin table.
type Version uint8

const (
	// V1 is the baseline operation set.
	V1 Version = 1
	// V2 adds bulk memory and transient storage operations.
	V2 Version = 2
)

// ParseVersion maps a configuration string to a Version.
func ParseVersion(s string) (Version, error) {
	switch s {
	case "", "v1":
		return V1, nil
	case "v2":
		return V2, nil
	default:
		return 0, fmt.Errorf("unknown dialect version %q", s)
	}
}

type coreDialect struct {
	name     string
	builtins map[string]*Builtin
}

func (d *coreDialect) Name() string {
	return d.name
}

func (d *coreDialect) Builtin(name string) (*Builtin, bool) {
	b, ok := d.builtins[name]
	return b, ok
}

func (d *coreDialect) ReservedNames() []string {
	names := make([]string, 0, len(d.builtins))
	for name := range d.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// pure is a movable, side-effect-free operation.
func pure(name string, params, returns int) *Builtin {
	return &Builtin{Name: name, Params: params, Returns: returns, Movable: true}
}

// reads depends on mutable state: no side effects, but not movable.
func reads(name string, params, returns int) *Builtin {
	return &Builtin{Name: name, Params: params, Returns: returns}
}

// writes mutates state: neither movable nor removable.
func writes(name string, params, returns int) *Builtin {
	return &Builtin{Name: name, Params: params, Returns: returns, SideEffects: true}
}

func coreTable() map[string]*Builtin {
	table := []*Builtin{
		pure("add", 2, 1),
		pure("sub", 2, 1),
		pure("mul", 2, 1),
		pure("div", 2, 1),
		pure("mod", 2, 1),
		pure("exp", 2, 1),
		pure("lt", 2, 1),
		pure("gt", 2, 1),
		pure("eq", 2, 1),
		pure("iszero", 1, 1),
		pure("and", 2, 1),
		pure("or", 2, 1),
		pure("xor", 2, 1),
		pure("not", 1, 1),
		pure("shl", 2, 1),
		pure("shr", 2, 1),
		// pop discards a value; the pruner uses it to keep a
		// side-effecting initializer while dropping its binding.
		pure("pop", 1, 0),

		reads("mload", 1, 1),
		reads("sload", 1, 1),
		reads("calldataload", 1, 1),
		reads("gas", 0, 1),

		writes("mstore", 2, 0),
		writes("mstore8", 2, 0),
		writes("sstore", 2, 0),
		writes("log", 2, 0),
		writes("revert", 2, 0),
		writes("stop", 0, 0),

		// Data segment accessors take a compile-time segment name.
		{Name: "datasize", Params: 1, Returns: 1, Movable: true, LiteralArgs: []int{0}},
		{Name: "dataoffset", Params: 1, Returns: 1, Movable: true, LiteralArgs: []int{0}},
	}
	out := make(map[string]*Builtin, len(table))
	for _, b := range table {
		out[b.Name] = b
	}
	return out
}

// Core returns the builtin table for the given version. The result is
// immutable and safe for concurrent readers.
func Core(v Version) Dialect {
	builtins := coreTable()
	name := "core/v1"
	if v >= V2 {
		name = "core/v2"
		builtins["mcopy"] = writes("mcopy", 3, 0)
		builtins["tload"] = reads("tload", 1, 1)
		builtins["tstore"] = writes("tstore", 2, 0)
	}
	return &coreDialect{name: name, builtins: builtins}
}
