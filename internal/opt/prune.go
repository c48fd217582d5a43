package opt

import (
	"zyl/internal/ast"
)

// PruneUnused removes declarations whose names are never referenced:
// variable declarations without side-effecting initializers, and function
// definitions nobody calls. A declaration whose initializer has side
// effects keeps the initializer as a pop(...) expression statement and only
// drops the binding. Expression statements without side effects are removed
// as well.
//
// One application removes one layer; dropping a function can orphan more
// declarations, so the driver re-invokes the pass until it reports no
// change through the tree it returns.
func PruneUnused(ctx *Context, b *ast.Block) error {
	if err := checkDisambiguated("prune", b); err != nil {
		return err
	}
	refs := CountReferences(b)
	pruneBlock(ctx, refs, b)
	return nil
}

func pruneBlock(ctx *Context, refs map[string]int, b *ast.Block) {
	if b == nil {
		return
	}
	kept := b.Stmts[:0]
	for i := range b.Stmts {
		s := b.Stmts[i]
		switch data := s.Data.(type) {
		case ast.VarDeclData:
			if anyReferenced(refs, data.Names) {
				kept = append(kept, s)
				continue
			}
			if data.Value == nil || !ExprHasSideEffects(ctx.Dialect, data.Value) {
				continue // dropped entirely
			}
			if repl, ok := dropBinding(data, s); ok {
				kept = append(kept, repl)
				continue
			}
			// Multi-value side-effecting initializer: the binding cannot
			// be separated from the call, keep the declaration.
			kept = append(kept, s)
		case ast.ExprStmtData:
			if !ExprHasSideEffects(ctx.Dialect, data.Expr) {
				continue
			}
			kept = append(kept, s)
		case ast.FuncDefData:
			if refs[data.Name] == 0 {
				continue
			}
			pruneBlock(ctx, refs, data.Body)
			kept = append(kept, s)
		default:
			for _, sub := range ast.SubBlocks(&s) {
				pruneBlock(ctx, refs, sub)
			}
			kept = append(kept, s)
		}
	}
	b.Stmts = kept
}

// dropBinding turns `let t := effectfulCall(...)` into `pop(effectfulCall(...))`,
// retaining the call while removing the unused binding. Only single-value
// initializers can be rewritten this way.
func dropBinding(data ast.VarDeclData, s ast.Stmt) (ast.Stmt, bool) {
	if len(data.Names) != 1 {
		return ast.Stmt{}, false
	}
	wrapped := &ast.Expr{
		Kind: ast.ExprCall,
		Span: data.Value.Span,
		Data: ast.CallData{Func: "pop", Args: []*ast.Expr{data.Value}},
	}
	return ast.Stmt{
		Kind: ast.StmtExpr,
		Span: s.Span,
		Data: ast.ExprStmtData{Expr: wrapped},
	}, true
}

func anyReferenced(refs map[string]int, names []string) bool {
	for _, name := range names {
		if refs[name] > 0 {
			return true
		}
	}
	return false
}
