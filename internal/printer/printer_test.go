package printer

import (
	"testing"

	"zyl/internal/ast"
	"zyl/internal/diag"
	"zyl/internal/parser"
	"zyl/internal/source"
)

func parse(t *testing.T, src string) *ast.Block {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.zyl", []byte(src))
	bag := diag.NewBag(16)
	block := parser.ParseFile(fs.Get(id), bag)
	if block == nil {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	return block
}

func TestFormatCanonical(t *testing.T) {
	block := parse(t, "{let a:=1\nif lt(a,2){a:=add(a , 1)}}")
	want := `{
    let a := 1
    if lt(a, 2) {
        a := add(a, 1)
    }
}
`
	if got := Format(block); got != want {
		t.Fatalf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestFormatEmptyBlock(t *testing.T) {
	block := parse(t, `{ }`)
	if got := Format(block); got != "{ }\n" {
		t.Fatalf("expected empty-block form, got %q", got)
	}
}

func TestFormatFunctionHeader(t *testing.T) {
	block := parse(t, `{ function f(a, b) -> r { r := add(a, b) } }`)
	want := `{
    function f(a, b) -> r {
        r := add(a, b)
    }
}
`
	if got := Format(block); got != want {
		t.Fatalf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestFormatSwitchArms(t *testing.T) {
	block := parse(t, `{ switch x case 1 { } default { mstore(0, 1) } }`)
	want := `{
    switch x
    case 1 { }
    default {
        mstore(0, 1)
    }
}
`
	if got := Format(block); got != want {
		t.Fatalf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestFormatRoundTrips(t *testing.T) {
	sources := []string{
		`{ let a, b }`,
		`{ let s := "se\"g" pop(datasize("code")) }`,
		`{ for { let i := 0 } lt(i, 10) { i := add(i, 1) } { if eq(i, 5) { break } } }`,
		`{ function f() -> r { r := 1 leave } mstore(0, f()) }`,
		`{ { { let deep := 0x2a } } }`,
	}
	for _, src := range sources {
		first := Format(parse(t, src))
		second := Format(parse(t, first))
		if first != second {
			t.Fatalf("format is not stable for %q:\n%s\nvs\n%s", src, first, second)
		}
	}
}
