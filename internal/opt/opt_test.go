package opt

import (
	"testing"

	"zyl/internal/ast"
	"zyl/internal/diag"
	"zyl/internal/dialect"
	"zyl/internal/parser"
	"zyl/internal/source"
)

func parseBlock(t *testing.T, src string) *ast.Block {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.zyl", []byte(src))
	bag := diag.NewBag(32)
	block := parser.ParseFile(fs.Get(id), bag)
	if block == nil {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	return block
}

// newTestContext builds a context without disambiguating anything, for
// tests whose input already has unique names.
func newTestContext() *Context {
	return NewContext(dialect.Core(dialect.V1), NewNameDispenser(), nil, DefaultStackLimit)
}

// prepare parses and disambiguates src, returning a ready pass context.
func prepare(t *testing.T, src string) (*Context, *ast.Block) {
	t.Helper()
	block := parseBlock(t, src)
	d := dialect.Core(dialect.V1)
	names := Disambiguate(block, d, nil)
	return NewContext(d, names, nil, DefaultStackLimit), block
}
