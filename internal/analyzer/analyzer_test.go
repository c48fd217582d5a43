package analyzer

import (
	"testing"

	"zyl/internal/ast"
	"zyl/internal/diag"
	"zyl/internal/dialect"
	"zyl/internal/parser"
	"zyl/internal/source"
)

func parse(t *testing.T, src string) *ast.Block {
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

func analyze(t *testing.T, src string) (*diag.Bag, bool) {
	t.Helper()
	block := parse(t, src)
	bag := diag.NewBag(32)
	ok := Analyze(block, dialect.Core(dialect.V1), bag)
	return bag, ok
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestAnalyzeAcceptsValidProgram(t *testing.T) {
	bag, ok := analyze(t, `{
		let a := 1
		function f(x) -> r {
			r := add(x, 1)
		}
		a := f(a)
		if lt(a, 10) {
			mstore(0, a)
		}
	}`)
	if !ok {
		t.Fatalf("expected clean analysis, got %v", bag.Items())
	}
}

func TestUndeclaredIdentifier(t *testing.T) {
	bag, ok := analyze(t, `{
		mstore(0, nothere)
	}`)
	if ok || !hasCode(bag, diag.AnaUnresolvedIdent) {
		t.Fatalf("expected unresolved identifier, got %v", bag.Items())
	}
}

func TestDuplicateDeclarationInScope(t *testing.T) {
	bag, ok := analyze(t, `{
		let a := 1
		let a := 2
		mstore(0, a)
	}`)
	if ok || !hasCode(bag, diag.AnaDuplicateDecl) {
		t.Fatalf("expected duplicate declaration, got %v", bag.Items())
	}
}

func TestShadowingInNestedScopeIsAllowed(t *testing.T) {
	bag, ok := analyze(t, `{
		let a := 1
		{
			let a := 2
			mstore(0, a)
		}
		mstore(32, a)
	}`)
	if !ok {
		t.Fatalf("nested shadowing is legal, got %v", bag.Items())
	}
}

func TestShadowedBuiltin(t *testing.T) {
	bag, ok := analyze(t, `{
		let add := 1
		mstore(0, add)
	}`)
	if ok || !hasCode(bag, diag.AnaShadowedBuiltin) {
		t.Fatalf("expected shadowed builtin, got %v", bag.Items())
	}
}

func TestBuiltinArityMismatch(t *testing.T) {
	bag, ok := analyze(t, `{
		mstore(0)
	}`)
	if ok || !hasCode(bag, diag.AnaArityMismatch) {
		t.Fatalf("expected arity mismatch, got %v", bag.Items())
	}
}

func TestFunctionArityMismatch(t *testing.T) {
	bag, ok := analyze(t, `{
		function f(x) -> r {
			r := x
		}
		mstore(0, f(1, 2))
	}`)
	if ok || !hasCode(bag, diag.AnaArityMismatch) {
		t.Fatalf("expected arity mismatch, got %v", bag.Items())
	}
}

func TestFunctionBodyCannotSeeOuterLocals(t *testing.T) {
	bag, ok := analyze(t, `{
		let outside := 1
		function f() -> r {
			r := outside
		}
		mstore(0, f())
	}`)
	if ok || !hasCode(bag, diag.AnaUnresolvedIdent) {
		t.Fatalf("function bodies must not see outer locals, got %v", bag.Items())
	}
}

func TestFunctionBodyCanCallOuterFunctions(t *testing.T) {
	bag, ok := analyze(t, `{
		function g() -> r {
			r := 1
		}
		function f() -> r {
			r := g()
		}
		mstore(0, f())
	}`)
	if !ok {
		t.Fatalf("function resolution crosses the boundary, got %v", bag.Items())
	}
}

func TestForwardFunctionCall(t *testing.T) {
	bag, ok := analyze(t, `{
		let a := later(1)
		mstore(0, a)
		function later(x) -> r {
			r := x
		}
	}`)
	if !ok {
		t.Fatalf("functions are hoisted within their block, got %v", bag.Items())
	}
}

func TestBreakOutsideLoop(t *testing.T) {
	bag, ok := analyze(t, `{
		break
	}`)
	if ok || !hasCode(bag, diag.AnaLoopControlOutside) {
		t.Fatalf("expected loop-control error, got %v", bag.Items())
	}
}

func TestLeaveOutsideFunction(t *testing.T) {
	bag, ok := analyze(t, `{
		leave
	}`)
	if ok || !hasCode(bag, diag.AnaLeaveOutsideFunc) {
		t.Fatalf("expected leave error, got %v", bag.Items())
	}
}

func TestLoopBodyAllowsBreak(t *testing.T) {
	bag, ok := analyze(t, `{
		for { let i := 0 } lt(i, 3) { i := add(i, 1) } {
			break
		}
	}`)
	if !ok {
		t.Fatalf("break inside a loop is legal, got %v", bag.Items())
	}
}

func TestAssignToFunction(t *testing.T) {
	bag, ok := analyze(t, `{
		function f() -> r {
			r := 1
		}
		f := 2
	}`)
	if ok || !hasCode(bag, diag.AnaAssignToFunction) {
		t.Fatalf("expected assign-to-function error, got %v", bag.Items())
	}
}

func TestAssignToUndeclared(t *testing.T) {
	bag, ok := analyze(t, `{
		a := 1
	}`)
	if ok || !hasCode(bag, diag.AnaAssignUndeclared) {
		t.Fatalf("expected undeclared-assignment error, got %v", bag.Items())
	}
}

func TestValueCountMismatch(t *testing.T) {
	bag, ok := analyze(t, `{
		let a, b := add(1, 2)
		mstore(0, add(a, b))
	}`)
	if ok || !hasCode(bag, diag.AnaValueMismatch) {
		t.Fatalf("expected value-count mismatch, got %v", bag.Items())
	}
}

func TestLiteralArgumentRequired(t *testing.T) {
	bag, ok := analyze(t, `{
		let x := 1
		let a := datasize(x)
		mstore(0, a)
	}`)
	if ok || !hasCode(bag, diag.AnaLiteralArgWanted) {
		t.Fatalf("expected literal-argument error, got %v", bag.Items())
	}
}

func TestForPreScopeSpansLoop(t *testing.T) {
	bag, ok := analyze(t, `{
		for { let i := 0 } lt(i, 3) { i := add(i, 1) } {
			mstore(0, i)
		}
		mstore(32, 1)
	}`)
	if !ok {
		t.Fatalf("pre-block declarations span the loop, got %v", bag.Items())
	}
}
