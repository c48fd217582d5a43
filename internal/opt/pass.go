package opt

import (
	"fmt"

	"zyl/internal/ast"
)

// Pass is one cataloged transformation. Run mutates the block it is given;
// use Apply to get all-or-nothing behavior.
type Pass struct {
	// Key is the stable one-letter mnemonic drivers select the pass by.
	Key string
	// Name is the long, human-readable identifier.
	Name string
	// Desc is a one-line description for menus.
	Desc string
	Run  func(*Context, *ast.Block) error
}

// Catalog lists every pass in menu order. Keys and names are stable API for
// drivers; the order is presentation only.
func Catalog() []Pass {
	return []Pass{
		{Key: "c", Name: "cse", Desc: "common subexpression elimination", Run: EliminateCommonSubexpressions},
		{Key: "u", Name: "prune", Desc: "remove unused declarations", Run: PruneUnused},
		{Key: "i", Name: "inline", Desc: "inline user-defined functions", Run: Inline},
		{Key: "a", Name: "ssa", Desc: "single-assignment conversion", Run: TransformToSSA},
		{Key: "V", Name: "unssa", Desc: "reverse single-assignment conversion", Run: ReverseSSA},
		{Key: "m", Name: "remat", Desc: "rematerialize literals to cut stack pressure", Run: Rematerialize},
	}
}

// Lookup resolves a pass by its mnemonic key or full name.
func Lookup(key string) (Pass, bool) {
	for _, p := range Catalog() {
		if p.Key == key || p.Name == key {
			return p, true
		}
	}
	return Pass{}, false
}

// Apply runs the pass on a clone of the block and returns the rewritten
// tree. On failure the original block is untouched and nil is returned with
// the error, so a failed pass can never leave a partially rewritten tree.
func Apply(ctx *Context, pass Pass, block *ast.Block) (*ast.Block, error) {
	clone := ast.CloneBlock(block)
	if err := pass.Run(ctx, clone); err != nil {
		return nil, err
	}
	return clone, nil
}

// ApplyKeys applies a sequence of passes identified by their one-letter
// mnemonics, left to right. It stops at the first failure, returning the
// tree produced so far along with the error.
func ApplyKeys(ctx *Context, keys string, block *ast.Block) (*ast.Block, error) {
	current := block
	for _, r := range keys {
		pass, ok := Lookup(string(r))
		if !ok {
			return current, fmt.Errorf("unknown pass key %q", string(r))
		}
		next, err := Apply(ctx, pass, current)
		if err != nil {
			return current, err
		}
		current = next
	}
	return current, nil
}
