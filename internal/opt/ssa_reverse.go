package opt

import (
	"zyl/internal/ast"
)

// ReverseSSA collapses single-assignment chains back into reusable
// variable slots. The pattern produced by the SSA transform,
//
//	let a_1 := E          let a := E      (declaration form)
//	let a := a_1     =>
//
//	let a_2 := E          a := E          (assignment form)
//	a := a_2         =>
//
// is rewritten whenever the intermediate name is referenced exactly once,
// by the immediately following statement, so live ranges cannot overlap.
func ReverseSSA(ctx *Context, b *ast.Block) error {
	if err := checkDisambiguated("unssa", b); err != nil {
		return err
	}
	refs := CountReferences(b)
	reverseBlock(refs, b)
	return nil
}

func reverseBlock(refs map[string]int, b *ast.Block) {
	if b == nil {
		return
	}
	var out []ast.Stmt
	for i := 0; i < len(b.Stmts); i++ {
		s := b.Stmts[i]
		for _, sub := range ast.SubBlocks(&s) {
			reverseBlock(refs, sub)
		}
		if i+1 < len(b.Stmts) {
			if merged, ok := mergeChain(refs, &s, &b.Stmts[i+1]); ok {
				out = append(out, merged)
				i++
				continue
			}
		}
		out = append(out, s)
	}
	b.Stmts = out
}

// mergeChain merges `let tmp := E` followed by a statement binding a single
// name to tmp, when tmp has no other use.
func mergeChain(refs map[string]int, first, second *ast.Stmt) (ast.Stmt, bool) {
	decl, ok := first.Data.(ast.VarDeclData)
	if !ok || len(decl.Names) != 1 || decl.Value == nil {
		return ast.Stmt{}, false
	}
	tmp := decl.Names[0]
	if refs[tmp] != 1 {
		return ast.Stmt{}, false
	}
	switch data := second.Data.(type) {
	case ast.VarDeclData:
		if len(data.Names) == 1 && ast.IdentName(data.Value) == tmp {
			return ast.Stmt{
				Kind: ast.StmtVarDecl,
				Span: first.Span.Cover(second.Span),
				Data: ast.VarDeclData{Names: data.Names, Value: decl.Value},
			}, true
		}
	case ast.AssignData:
		if len(data.Names) == 1 && ast.IdentName(data.Value) == tmp {
			return ast.Stmt{
				Kind: ast.StmtAssign,
				Span: first.Span.Cover(second.Span),
				Data: ast.AssignData{Names: data.Names, Value: decl.Value},
			}, true
		}
	}
	return ast.Stmt{}, false
}
