package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddVirtualAndLookup(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem.zyl", []byte("{ }"))
	f := fs.Get(id)
	if f == nil || !f.Virtual || f.Path != "mem.zyl" {
		t.Fatalf("unexpected file metadata: %+v", f)
	}
	if byPath, ok := fs.ByPath("mem.zyl"); !ok || byPath.ID != id {
		t.Fatalf("path lookup failed")
	}
	if fs.Get(FileID(99)) != nil {
		t.Fatalf("out-of-range id should yield nil")
	}
}

func TestLoadNormalizesCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.zyl")
	if err := os.WriteFile(path, []byte("{\r\n}\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(fs.Get(id).Content); got != "{\n}\n" {
		t.Fatalf("CRLF should be normalized, got %q", got)
	}
}

func TestPosition(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("pos.zyl", []byte("ab\ncde\nf"))
	cases := []struct {
		offset uint32
		line   uint32
		col    uint32
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{5, 2, 3},
		{7, 3, 1},
	}
	for _, c := range cases {
		got := fs.Position(id, c.offset)
		if got.Line != c.line || got.Col != c.col {
			t.Fatalf("offset %d: expected %d:%d, got %d:%d", c.offset, c.line, c.col, got.Line, got.Col)
		}
	}
}

func TestLineContents(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("lines.zyl", []byte("first\nsecond\nthird")))
	if got := string(f.Line(2)); got != "second" {
		t.Fatalf("expected second line, got %q", got)
	}
	if got := string(f.Line(3)); got != "third" {
		t.Fatalf("expected last line without newline, got %q", got)
	}
	if f.Line(0) != nil || f.Line(9) != nil {
		t.Fatalf("out-of-range lines should be nil")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 6, End: 12}
	got := a.Cover(b)
	if got.Start != 4 || got.End != 12 {
		t.Fatalf("expected 4..12, got %d..%d", got.Start, got.End)
	}
	if a.Cover(Span{}) != a {
		t.Fatalf("covering an empty span should be a no-op")
	}
}
