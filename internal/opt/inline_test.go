package opt

import (
	"errors"
	"strings"
	"testing"

	"zyl/internal/printer"
)

func TestInlineRejectsArityMismatch(t *testing.T) {
	// Never-analyzed input with unique names reaches the pass directly.
	block := parseBlock(t, `{
		function double(x) -> y {
			y := add(x, x)
		}
		let b := double(1, 2)
	}`)
	err := Inline(newTestContext(), block)
	var pre *PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("expected a precondition failure, got %v", err)
	}
}

func TestInlineExpandsSmallFunction(t *testing.T) {
	ctx, block := prepare(t, `{
		function double(x) -> y {
			y := add(x, x)
		}
		let a := 1
		let b := double(a)
		mstore(0, b)
	}`)
	if err := Inline(ctx, block); err != nil {
		t.Fatalf("inline failed: %v", err)
	}
	out := printer.Format(block)
	if !strings.Contains(out, "y_1 := add(a, a)") {
		t.Fatalf("trivial argument should substitute directly:\n%s", out)
	}
	if !strings.Contains(out, "let b := y_1") {
		t.Fatalf("call target should bind the result slot:\n%s", out)
	}
	if strings.Contains(out, "double(a)") {
		t.Fatalf("call site should be gone:\n%s", out)
	}
}

func TestInlineBindsComplexArguments(t *testing.T) {
	ctx, block := prepare(t, `{
		function double(x) -> y {
			y := add(x, x)
		}
		let a := 1
		let b := double(add(a, 1))
		mstore(0, b)
	}`)
	if err := Inline(ctx, block); err != nil {
		t.Fatalf("inline failed: %v", err)
	}
	out := printer.Format(block)
	if !strings.Contains(out, "let x_1 := add(a, 1)") {
		t.Fatalf("compound argument needs a temporary:\n%s", out)
	}
	if !strings.Contains(out, "y_1 := add(x_1, x_1)") {
		t.Fatalf("body should read the temporary:\n%s", out)
	}
}

func TestInlineReassignedParamGetsSlot(t *testing.T) {
	ctx, block := prepare(t, `{
		function bump(x) -> y {
			x := add(x, 1)
			y := x
		}
		let a := 1
		let b := bump(a)
		mstore(0, b)
	}`)
	if err := Inline(ctx, block); err != nil {
		t.Fatalf("inline failed: %v", err)
	}
	out := printer.Format(block)
	if !strings.Contains(out, "let x_1 := a") {
		t.Fatalf("a reassigned parameter needs a real slot even for a trivial argument:\n%s", out)
	}
	if strings.Contains(out, "a := add(a, 1)") {
		t.Fatalf("the caller's variable must never be written:\n%s", out)
	}
}

func TestInlineSkipsRecursion(t *testing.T) {
	ctx, block := prepare(t, `{
		function spin(n) -> r {
			r := spin(n)
		}
		let a := spin(2)
		mstore(0, a)
	}`)
	if err := Inline(ctx, block); err != nil {
		t.Fatalf("inline failed: %v", err)
	}
	out := printer.Format(block)
	if !strings.Contains(out, "let a := spin(2)") {
		t.Fatalf("self-referential functions stay out of scope:\n%s", out)
	}
}

func TestInlineSkipsLeave(t *testing.T) {
	ctx, block := prepare(t, `{
		function f() -> r {
			r := 1
			leave
		}
		let a := f()
		mstore(0, a)
	}`)
	if err := Inline(ctx, block); err != nil {
		t.Fatalf("inline failed: %v", err)
	}
	out := printer.Format(block)
	if !strings.Contains(out, "let a := f()") {
		t.Fatalf("bodies with early returns stay out of scope:\n%s", out)
	}
}

func TestInlineSkipsLargeBodies(t *testing.T) {
	ctx, block := prepare(t, `{
		function big(x) -> y {
			let a := 1
			let b := 2
			let c := 3
			let d := 4
			let e := 5
			let f := 6
			let g := 7
			let h := 8
			let i := 9
			let j := 10
			let k := 11
			let l := 12
			y := add(x, a)
			mstore(0, add(b, add(c, add(d, add(e, add(f, add(g, add(h, add(i, add(j, add(k, l)))))))))))
		}
		let out := big(1)
		mstore(32, out)
	}`)
	if err := Inline(ctx, block); err != nil {
		t.Fatalf("inline failed: %v", err)
	}
	formatted := printer.Format(block)
	if !strings.Contains(formatted, "let out := big(1)") {
		t.Fatalf("oversized bodies stay out of scope:\n%s", formatted)
	}
}

func TestInlineThroughCallChains(t *testing.T) {
	ctx, block := prepare(t, `{
		function inner(x) -> y {
			y := add(x, 1)
		}
		function outer(x) -> y {
			y := inner(x)
		}
		let a := outer(5)
		mstore(0, a)
	}`)
	if err := Inline(ctx, block); err != nil {
		t.Fatalf("inline failed: %v", err)
	}
	out := printer.Format(block)
	if strings.Contains(out, "let a := outer(5)") {
		t.Fatalf("the outer call should be expanded:\n%s", out)
	}
	if !strings.Contains(out, "add(5, 1)") {
		t.Fatalf("the inner call inside the expansion should be expanded too:\n%s", out)
	}
}
