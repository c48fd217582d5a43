package opt

import (
	"strings"
	"testing"

	"zyl/internal/printer"
)

func TestSSASplitsReassignedVariable(t *testing.T) {
	ctx, block := prepare(t, `{
		let a := 1
		a := add(a, 1)
		mstore(0, a)
	}`)
	if err := TransformToSSA(ctx, block); err != nil {
		t.Fatalf("ssa failed: %v", err)
	}
	out := printer.Format(block)
	for _, want := range []string{
		"let a_1 := 1",
		"let a := a_1",
		"let a_2 := add(a_1, 1)",
		"a := a_2",
		"mstore(0, a_2)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestSSALeavesSingleAssignmentAlone(t *testing.T) {
	ctx, block := prepare(t, `{
		let a := 1
		let b := add(a, 1)
		mstore(0, b)
	}`)
	before := printer.Format(block)
	if err := TransformToSSA(ctx, block); err != nil {
		t.Fatalf("ssa failed: %v", err)
	}
	if after := printer.Format(block); after != before {
		t.Fatalf("never-reassigned variables should be untouched:\n%s", after)
	}
}

func TestSSAReadsFallBackAfterJoin(t *testing.T) {
	ctx, block := prepare(t, `{
		let a := 1
		if lt(a, 2) {
			a := 5
		}
		mstore(0, a)
	}`)
	if err := TransformToSSA(ctx, block); err != nil {
		t.Fatalf("ssa failed: %v", err)
	}
	out := printer.Format(block)
	if !strings.Contains(out, "mstore(0, a)") {
		t.Fatalf("a read after a branch must use the join slot:\n%s", out)
	}
}

func TestReverseSSACollapsesDeclarationChain(t *testing.T) {
	// Names in the input are already unique; disambiguation would fold the
	// numeric suffixes away, so the tree is used as parsed.
	block := parseBlock(t, `{
		let a_1 := add(1, 2)
		let a := a_1
		mstore(0, a)
	}`)
	ctx := newTestContext()
	if err := ReverseSSA(ctx, block); err != nil {
		t.Fatalf("unssa failed: %v", err)
	}
	out := printer.Format(block)
	if !strings.Contains(out, "let a := add(1, 2)") {
		t.Fatalf("single-use chain should collapse:\n%s", out)
	}
	if strings.Contains(out, "a_1") {
		t.Fatalf("intermediate name should be gone:\n%s", out)
	}
}

func TestReverseSSACollapsesAssignmentChain(t *testing.T) {
	block := parseBlock(t, `{
		let a := 1
		let a_2 := add(a, 1)
		a := a_2
		mstore(0, a)
	}`)
	ctx := newTestContext()
	if err := ReverseSSA(ctx, block); err != nil {
		t.Fatalf("unssa failed: %v", err)
	}
	out := printer.Format(block)
	if !strings.Contains(out, "a := add(a, 1)") {
		t.Fatalf("assignment chain should collapse:\n%s", out)
	}
}

func TestReverseSSAKeepsMultiUseTemporaries(t *testing.T) {
	block := parseBlock(t, `{
		let a_1 := add(1, 2)
		let a := a_1
		mstore(0, a_1)
	}`)
	ctx := newTestContext()
	if err := ReverseSSA(ctx, block); err != nil {
		t.Fatalf("unssa failed: %v", err)
	}
	out := printer.Format(block)
	if !strings.Contains(out, "let a_1 := add(1, 2)") {
		t.Fatalf("a temporary with another use must stay:\n%s", out)
	}
}
