package opt

import (
	"fmt"
	"strconv"
	"strings"
)

// maxSuffixProbes bounds the hint-derived suffix search before falling back
// to counter-based names.
const maxSuffixProbes = 256

// NameDispenser allocates identifiers guaranteed distinct from a tracked
// used set. It is deterministic given the sequence of prior calls, so
// identical inputs always optimize to identical outputs. The used set never
// shrinks.
type NameDispenser struct {
	used    map[string]struct{}
	counter uint64
}

// NewNameDispenser creates a dispenser seeded with the given names.
func NewNameDispenser(seed ...string) *NameDispenser {
	nd := &NameDispenser{used: make(map[string]struct{}, len(seed))}
	for _, name := range seed {
		nd.used[name] = struct{}{}
	}
	return nd
}

// Has reports whether name is in the used set.
func (nd *NameDispenser) Has(name string) bool {
	_, ok := nd.used[name]
	return ok
}

// MarkUsed adds name to the used set without allocating it.
func (nd *NameDispenser) MarkUsed(name string) {
	nd.used[name] = struct{}{}
}

// Len returns the size of the used set.
func (nd *NameDispenser) Len() int {
	return len(nd.used)
}

// Fresh produces a name not in the used set, preferentially derived from
// hint, registers it, and returns it. An existing numeric suffix on the
// hint is stripped first so repeated allocation from the same base yields
// base_1, base_2, ... rather than base_1_1.
func (nd *NameDispenser) Fresh(hint string) string {
	base := stripSuffix(hint)
	if base == "" {
		base = "v"
	}
	if !nd.Has(base) {
		nd.MarkUsed(base)
		return base
	}
	for i := 1; i <= maxSuffixProbes; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if !nd.Has(candidate) {
			nd.MarkUsed(candidate)
			return candidate
		}
	}
	// Hint space exhausted under the bounded search; the counter names
	// form an unbounded fallback namespace.
	for {
		nd.counter++
		candidate := fmt.Sprintf("v_%d", nd.counter)
		if !nd.Has(candidate) {
			nd.MarkUsed(candidate)
			return candidate
		}
	}
}

// stripSuffix removes a trailing _N numeric suffix, if present.
func stripSuffix(name string) string {
	idx := strings.LastIndexByte(name, '_')
	if idx <= 0 || idx == len(name)-1 {
		return name
	}
	if _, err := strconv.ParseUint(name[idx+1:], 10, 64); err != nil {
		return name
	}
	return name[:idx]
}
