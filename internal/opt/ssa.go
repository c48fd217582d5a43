package opt

import (
	"zyl/internal/ast"
)

// TransformToSSA rewrites variables that are assigned more than once so
// that every assignment introduces a fresh name, and reads between
// assignments use the latest name. The original variable is kept as the
// join slot: each rewritten assignment is followed by a reassignment of the
// original, and reads after a control-flow join fall back to it.
//
//	let a := f()        let a_1 := f()
//	a := g(a)      =>   let a := a_1
//	use(a)              let a_2 := g(a_1)
//	                    a := a_2
//	                    use(a_2)
func TransformToSSA(ctx *Context, b *ast.Block) error {
	if err := checkDisambiguated("ssa", b); err != nil {
		return err
	}
	candidates := multiplyAssigned(b)
	tr := &ssaTransform{ctx: ctx, candidates: candidates, current: make(map[string]string)}
	tr.block(b)
	return nil
}

// multiplyAssigned returns the variables targeted by at least one
// assignment statement; with unique names, declaration plus one assignment
// already means two writes.
func multiplyAssigned(b *ast.Block) map[string]bool {
	out := make(map[string]bool)
	ast.InspectBlock(b, func(s *ast.Stmt) bool {
		if data, ok := s.Data.(ast.AssignData); ok {
			for _, name := range data.Names {
				out[name] = true
			}
		}
		return true
	}, nil)
	return out
}

type ssaTransform struct {
	ctx        *Context
	candidates map[string]bool
	// current maps a candidate variable to its latest SSA name, valid
	// until the next assignment or control-flow join.
	current map[string]string
}

func (tr *ssaTransform) block(b *ast.Block) {
	if b == nil {
		return
	}
	var out []ast.Stmt
	for i := range b.Stmts {
		s := b.Stmts[i]
		switch data := s.Data.(type) {
		case ast.ExprStmtData:
			tr.rewrite(data.Expr)
			out = append(out, s)
		case ast.VarDeclData:
			tr.rewrite(data.Value)
			out = append(out, tr.splitWrite(s, data.Names, data.Value, true)...)
		case ast.AssignData:
			tr.rewrite(data.Value)
			out = append(out, tr.splitWrite(s, data.Names, data.Value, false)...)
		case ast.FuncDefData:
			// Function bodies have their own variables; the transform
			// state never crosses the boundary.
			saved := tr.current
			tr.current = make(map[string]string)
			tr.block(data.Body)
			tr.current = saved
			out = append(out, s)
		case ast.IfData:
			tr.rewrite(data.Cond)
			out = append(out, tr.join(s)...)
		case ast.SwitchData:
			tr.rewrite(data.Expr)
			out = append(out, tr.join(s)...)
		default:
			out = append(out, tr.join(s)...)
		}
	}
	b.Stmts = out
}

// join processes a statement with nested control flow. Variables assigned
// anywhere inside lose their current SSA name before and after: inside, a
// prior name may be stale on a repeated path; afterwards, the divergent
// branches reconcile through the original variable slot.
func (tr *ssaTransform) join(s ast.Stmt) []ast.Stmt {
	assigned := CollectAssignedNames(&s)
	for name := range assigned {
		delete(tr.current, name)
	}
	for _, sub := range ast.SubBlocks(&s) {
		tr.block(sub)
	}
	for name := range assigned {
		delete(tr.current, name)
	}
	return []ast.Stmt{s}
}

// splitWrite rewrites a write to candidate variables into a fresh-named
// declaration plus reassignments of the original slots.
func (tr *ssaTransform) splitWrite(s ast.Stmt, names []string, value *ast.Expr, declares bool) []ast.Stmt {
	anyCandidate := false
	for _, name := range names {
		if tr.candidates[name] {
			anyCandidate = true
			break
		}
	}
	if !anyCandidate || value == nil {
		return []ast.Stmt{s}
	}

	ssaNames := make([]string, len(names))
	for i, name := range names {
		ssaNames[i] = tr.ctx.Names.Fresh(name)
		tr.current[name] = ssaNames[i]
	}
	out := []ast.Stmt{{
		Kind: ast.StmtVarDecl,
		Span: s.Span,
		Data: ast.VarDeclData{Names: ssaNames, Value: value},
	}}
	for i, name := range names {
		kind := ast.StmtAssign
		var data ast.StmtData = ast.AssignData{Names: []string{name}, Value: ast.Ident(ssaNames[i], s.Span)}
		if declares {
			kind = ast.StmtVarDecl
			data = ast.VarDeclData{Names: []string{name}, Value: ast.Ident(ssaNames[i], s.Span)}
		}
		out = append(out, ast.Stmt{Kind: kind, Span: s.Span, Data: data})
	}
	return out
}

// rewrite redirects reads of candidate variables to their latest SSA name.
func (tr *ssaTransform) rewrite(e *ast.Expr) {
	if e == nil {
		return
	}
	ast.InspectExpr(e, func(sub *ast.Expr) bool {
		if data, ok := sub.Data.(ast.IdentData); ok {
			if latest, ok := tr.current[data.Name]; ok {
				data.Name = latest
				sub.Data = data
			}
		}
		return true
	})
}
