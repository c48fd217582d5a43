package parser

import (
	"testing"

	"zyl/internal/ast"
	"zyl/internal/diag"
	"zyl/internal/source"
)

func parse(t *testing.T, src string) *ast.Block {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.zyl", []byte(src))
	bag := diag.NewBag(16)
	block := ParseFile(fs.Get(id), bag)
	if block == nil {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	return block
}

func parseErr(t *testing.T, src string) *diag.Bag {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.zyl", []byte(src))
	bag := diag.NewBag(16)
	if block := ParseFile(fs.Get(id), bag); block != nil {
		t.Fatalf("expected parse failure for %q", src)
	}
	if !bag.HasErrors() {
		t.Fatalf("nil tree without diagnostics for %q", src)
	}
	return bag
}

func TestParseStatementKinds(t *testing.T) {
	block := parse(t, `{
		let a := 1
		let b, c
		a := add(a, 1)
		mstore(0, a)
		if lt(a, 2) { }
		switch a
		case 1 { }
		default { }
		for { let i := 0 } lt(i, 3) { i := add(i, 1) } {
			break
			continue
		}
		function f(x, y) -> r, s {
			r := x
			s := y
			leave
		}
		{
			let inner := 2
		}
	}`)
	want := []ast.StmtKind{
		ast.StmtVarDecl, ast.StmtVarDecl, ast.StmtAssign, ast.StmtExpr,
		ast.StmtIf, ast.StmtSwitch, ast.StmtFor, ast.StmtFuncDef, ast.StmtBlock,
	}
	if len(block.Stmts) != len(want) {
		t.Fatalf("expected %d statements, got %d", len(want), len(block.Stmts))
	}
	for i, k := range want {
		if block.Stmts[i].Kind != k {
			t.Fatalf("statement %d: expected %s, got %s", i, k, block.Stmts[i].Kind)
		}
	}
}

func TestParseMultiValueDeclaration(t *testing.T) {
	block := parse(t, `{
		let a, b := f(1)
		function f(x) -> r, s { }
	}`)
	data := block.Stmts[0].Data.(ast.VarDeclData)
	if len(data.Names) != 2 || data.Names[0] != "a" || data.Names[1] != "b" {
		t.Fatalf("expected names a, b, got %v", data.Names)
	}
	if data.Value == nil || data.Value.Kind != ast.ExprCall {
		t.Fatalf("expected a call initializer")
	}
}

func TestParseSwitchShape(t *testing.T) {
	block := parse(t, `{
		switch calldataload(0)
		case 0x01 {
			mstore(0, 1)
		}
		case 0x02 { }
		default {
			revert(0, 0)
		}
	}`)
	data := block.Stmts[0].Data.(ast.SwitchData)
	if len(data.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(data.Cases))
	}
	if data.Default == nil {
		t.Fatalf("expected a default block")
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"missing close brace": `{ let a := 1`,
		"missing open brace":  `let a := 1 }`,
		"switch without arms": `{ switch 1 }`,
		"let without name":    `{ let := 1 }`,
		"dangling assign":     `{ a := }`,
		"call on literal":     `{ let a := 1(2) }`,
		"trailing tokens":     `{ } extra`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			parseErr(t, src)
		})
	}
}

func TestParseCaseRequiresLiteral(t *testing.T) {
	bag := parseErr(t, `{
		let a := 1
		switch a
		case a { }
	}`)
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SynExpectLiteral {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a literal-wanted diagnostic, got %v", bag.Items())
	}
}
