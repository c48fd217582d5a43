package driver

import (
	"fmt"

	"zyl/internal/analyzer"
	"zyl/internal/ast"
	"zyl/internal/diag"
	"zyl/internal/opt"
	"zyl/internal/parser"
	"zyl/internal/printer"
	"zyl/internal/source"
)

// maxDiagnostics bounds reported problems per file.
const maxDiagnostics = 100

// Program is a parsed, analyzed, disambiguated tree ready for passes.
type Program struct {
	File  *source.File
	Block *ast.Block
	Ctx   *opt.Context
}

// Prepare runs the front half of the pipeline on one file: lex, parse,
// analyze, then disambiguate exactly once. The returned context carries the
// dispenser seeded by disambiguation, so every later fresh name is safe.
func (s *Session) Prepare(fs *source.FileSet, id source.FileID) (*Program, *diag.Bag, error) {
	file := fs.Get(id)
	if file == nil {
		return nil, nil, fmt.Errorf("unknown file id %d", id)
	}
	bag := diag.NewBag(maxDiagnostics)

	block := parser.ParseFile(file, bag)
	if block == nil {
		return nil, bag, fmt.Errorf("%s: parse failed", file.Path)
	}
	if !analyzer.Analyze(block, s.Dialect, bag) {
		return nil, bag, fmt.Errorf("%s: analysis failed", file.Path)
	}

	names := opt.Disambiguate(block, s.Dialect, s.Config.Reserved)
	ctx := opt.NewContext(s.Dialect, names, s.Config.Reserved, s.Config.StackLimit)
	return &Program{File: file, Block: block, Ctx: ctx}, bag, nil
}

// Optimize applies the configured pass sequence to a prepared program and
// returns the rewritten tree. Individual pass failures abort the sequence;
// the tree produced by the passes that did succeed is returned with the
// error so callers can decide what to keep.
func (s *Session) Optimize(prog *Program, passes string) (*ast.Block, error) {
	if passes == "" {
		passes = s.Config.Passes
	}
	return opt.ApplyKeys(prog.Ctx, passes, prog.Block)
}

// OptimizeSource is the single-shot convenience used by tests and the CLI:
// source text in, canonical optimized text out.
func (s *Session) OptimizeSource(name, src, passes string) (string, *diag.Bag, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(src))
	prog, bag, err := s.Prepare(fs, id)
	if err != nil {
		return "", bag, err
	}
	block, err := s.Optimize(prog, passes)
	if err != nil {
		return "", bag, err
	}
	return printer.Format(block), bag, nil
}
