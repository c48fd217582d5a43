package lexer

import (
	"testing"

	"zyl/internal/diag"
	"zyl/internal/source"
	"zyl/internal/token"
)

func tokenize(src string) ([]token.Token, *diag.Bag) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.zyl", []byte(src))
	bag := diag.NewBag(16)
	return Tokenize(fs.Get(id), bag), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeBasicStatement(t *testing.T) {
	toks, bag := tokenize(`let x := add(1, 0x2f)`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	want := []token.Kind{
		token.KwLet, token.Ident, token.ColonAssign, token.Ident,
		token.LParen, token.NumberLit, token.Comma, token.HexLit,
		token.RParen, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestTokenizeKeywordsAndBools(t *testing.T) {
	toks, bag := tokenize(`function if switch case default for break continue leave true false`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	want := []token.Kind{
		token.KwFunction, token.KwIf, token.KwSwitch, token.KwCase,
		token.KwDefault, token.KwFor, token.KwBreak, token.KwContinue,
		token.KwLeave, token.BoolLit, token.BoolLit, token.EOF,
	}
	for i, k := range kinds(toks) {
		if k != want[i] {
			t.Fatalf("token %d: expected %s, got %s", i, want[i], k)
		}
	}
}

func TestTokenizeSkipsComments(t *testing.T) {
	toks, bag := tokenize(`
		// a line comment
		let /* inline */ x := 1
	`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	want := []token.Kind{token.KwLet, token.Ident, token.ColonAssign, token.NumberLit, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTokenizeStringDropsQuotes(t *testing.T) {
	toks, bag := tokenize(`"seg\"ment"`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if toks[0].Kind != token.StringLit {
		t.Fatalf("expected string literal, got %s", toks[0].Kind)
	}
	if toks[0].Text != `seg\"ment` {
		t.Fatalf("text should drop quotes and keep escapes, got %q", toks[0].Text)
	}
}

func TestTokenizeDottedIdent(t *testing.T) {
	toks, bag := tokenize(`obj.field$0`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if toks[0].Kind != token.Ident || toks[0].Text != "obj.field$0" {
		t.Fatalf("expected one dotted identifier, got %s %q", toks[0].Kind, toks[0].Text)
	}
}

func TestUnterminatedString(t *testing.T) {
	toks, bag := tokenize(`"open`)
	if !bag.HasErrors() {
		t.Fatalf("expected an error")
	}
	if toks[0].Kind != token.Invalid {
		t.Fatalf("expected invalid token, got %s", toks[0].Kind)
	}
}

func TestMalformedNumber(t *testing.T) {
	_, bag := tokenize(`1abc`)
	if !bag.HasErrors() {
		t.Fatalf("a number glued to letters must be rejected")
	}
}

func TestEmptyHexLiteral(t *testing.T) {
	_, bag := tokenize(`0x`)
	if !bag.HasErrors() {
		t.Fatalf("0x without digits must be rejected")
	}
}

func TestUnknownCharacter(t *testing.T) {
	toks, bag := tokenize(`#`)
	if !bag.HasErrors() {
		t.Fatalf("expected an error")
	}
	if toks[0].Kind != token.Invalid {
		t.Fatalf("expected invalid token, got %s", toks[0].Kind)
	}
}

func TestNextAfterEOF(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.zyl", nil)
	lx := New(fs.Get(id), diag.NewBag(4))
	for i := 0; i < 3; i++ {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("expected EOF, got %s", tok.Kind)
		}
	}
}
