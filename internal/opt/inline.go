package opt

import (
	"zyl/internal/ast"
)

const (
	// maxInlineBodySize is the statement-count ceiling (counted
	// recursively) for a function to be considered inlinable.
	maxInlineBodySize = 12
	// maxInlineExpansion bounds the total number of statements one pass
	// invocation may introduce. Exceeding it fails the whole pass.
	maxInlineExpansion = 4096
)

type inliner struct {
	ctx *Context
	// funcs indexes every function definition in the program by name.
	// Names are unique after disambiguation, so one flat map suffices.
	funcs map[string]*ast.FuncDefData
	// active is the in-progress expansion chain; a function never inlines
	// into itself, directly or through the chain.
	active map[string]bool
	// introduced counts statements added so far, against the budget.
	introduced int
	failed     error
}

// Inline expands calls to small user-defined functions at statement-position
// call sites (declaration, assignment, or expression statements whose value
// is a single call). Argument expressions are bound to fresh temporaries in
// left-to-right order unless they are bare identifiers or literals; every
// name local to the inlined body is freshly allocated. Calls nested deeper
// inside expressions are left alone.
func Inline(ctx *Context, b *ast.Block) error {
	if err := checkDisambiguated("inline", b); err != nil {
		return err
	}
	in := &inliner{
		ctx:    ctx,
		funcs:  make(map[string]*ast.FuncDefData),
		active: make(map[string]bool),
	}
	ast.InspectBlock(b, func(s *ast.Stmt) bool {
		if data, ok := s.Data.(ast.FuncDefData); ok {
			dataCopy := data
			in.funcs[data.Name] = &dataCopy
		}
		return true
	}, nil)
	in.block(b)
	return in.failed
}

// inlinable reports whether fn may be expanded at a call site right now.
func (in *inliner) inlinable(fn *ast.FuncDefData) bool {
	if in.active[fn.Name] {
		return false
	}
	if blockSize(fn.Body) > maxInlineBodySize {
		return false
	}
	// Bodies with nested definitions, early returns, or calls back into
	// the active chain stay out of scope for expansion.
	ok := true
	ast.InspectBlock(fn.Body, func(s *ast.Stmt) bool {
		switch s.Kind {
		case ast.StmtFuncDef, ast.StmtLeave:
			ok = false
		}
		return ok
	}, func(e *ast.Expr) bool {
		if data, isCall := e.Data.(ast.CallData); isCall && data.Func == fn.Name {
			ok = false
		}
		return ok
	})
	return ok
}

func blockSize(b *ast.Block) int {
	n := 0
	ast.InspectBlock(b, func(*ast.Stmt) bool {
		n++
		return true
	}, nil)
	return n
}

func (in *inliner) block(b *ast.Block) {
	if b == nil || in.failed != nil {
		return
	}
	var out []ast.Stmt
	for i := range b.Stmts {
		s := b.Stmts[i]
		if in.failed != nil {
			return
		}
		if expansion, ok := in.tryExpand(&s); ok {
			out = append(out, expansion...)
			continue
		}
		for _, sub := range ast.SubBlocks(&s) {
			in.block(sub)
		}
		out = append(out, s)
	}
	b.Stmts = out
}

// tryExpand rewrites one statement-position call site into the inlined
// body plus binding statements.
func (in *inliner) tryExpand(s *ast.Stmt) ([]ast.Stmt, bool) {
	var call *ast.CallData
	var targets []string
	declares := false
	switch data := s.Data.(type) {
	case ast.VarDeclData:
		if c, ok := asCall(data.Value); ok {
			call, targets, declares = c, data.Names, true
		}
	case ast.AssignData:
		if c, ok := asCall(data.Value); ok {
			call, targets = c, data.Names
		}
	case ast.ExprStmtData:
		if c, ok := asCall(data.Expr); ok {
			call = c
		}
	}
	if call == nil {
		return nil, false
	}
	fn, ok := in.funcs[call.Func]
	if !ok || !in.inlinable(fn) {
		return nil, false
	}
	// Analyzed trees never get here with a bad arity, but the expansion
	// indexes params and returns by position, so refuse instead of panic.
	if len(call.Args) != len(fn.Params) {
		in.failed = preconditionf("inline", "call to %s passes %d arguments, function takes %d", call.Func, len(call.Args), len(fn.Params))
		return nil, false
	}
	if len(targets) != 0 && len(targets) != len(fn.Returns) {
		in.failed = preconditionf("inline", "call to %s binds %d values, function returns %d", call.Func, len(targets), len(fn.Returns))
		return nil, false
	}

	subst := make(map[string]string, len(fn.Params)+len(fn.Returns))
	var out []ast.Stmt

	// Params the body reassigns need a real slot regardless of how simple
	// the argument is.
	assignedParams := make(map[string]struct{})
	for i := range fn.Body.Stmts {
		for name := range CollectAssignedNames(&fn.Body.Stmts[i]) {
			assignedParams[name] = struct{}{}
		}
	}

	// Arguments evaluate left to right; anything but a bare identifier or
	// literal gets a temporary so evaluation order and effect counts are
	// preserved.
	for i, arg := range call.Args {
		param := fn.Params[i]
		_, reassigned := assignedParams[param]
		if !reassigned && (arg.Kind == ast.ExprIdent || arg.Kind == ast.ExprLiteral) {
			subst[param] = "" // substituted inline below
			continue
		}
		tmp := in.ctx.Names.Fresh(param)
		out = append(out, ast.Stmt{
			Kind: ast.StmtVarDecl,
			Span: arg.Span,
			Data: ast.VarDeclData{Names: []string{tmp}, Value: ast.CloneExpr(arg)},
		})
		subst[param] = tmp
	}
	// Trivial arguments substitute directly by cloned expression.
	direct := make(map[string]*ast.Expr)
	for i, arg := range call.Args {
		param := fn.Params[i]
		if subst[param] == "" {
			delete(subst, param)
			direct[param] = arg
		}
	}

	// Zero-initialized slots receive the function's results.
	results := make([]string, len(fn.Returns))
	for i, ret := range fn.Returns {
		results[i] = in.ctx.Names.Fresh(ret)
		subst[ret] = results[i]
		out = append(out, ast.Stmt{
			Kind: ast.StmtVarDecl,
			Span: s.Span,
			Data: ast.VarDeclData{Names: []string{results[i]}},
		})
	}

	body := ast.CloneBlock(fn.Body)
	in.renameLocals(body, subst, direct)
	out = append(out, body.Stmts...)

	// Bind the call's targets to the result slots.
	for i, target := range targets {
		kind := ast.StmtAssign
		var data ast.StmtData = ast.AssignData{Names: []string{target}, Value: ast.Ident(results[i], s.Span)}
		if declares {
			kind = ast.StmtVarDecl
			data = ast.VarDeclData{Names: []string{target}, Value: ast.Ident(results[i], s.Span)}
		}
		out = append(out, ast.Stmt{Kind: kind, Span: s.Span, Data: data})
	}

	in.introduced += len(out)
	if in.introduced > maxInlineExpansion {
		in.failed = exhaustedf("inline", "expansion budget of %d statements exceeded", maxInlineExpansion)
		return nil, false
	}

	// Expand nested call sites inside the inserted body with the callee on
	// the active chain, so recursion cannot sneak in via the expansion.
	in.active[fn.Name] = true
	inserted := &ast.Block{Stmts: out, Span: s.Span}
	in.block(inserted)
	delete(in.active, fn.Name)

	return inserted.Stmts, true
}

// renameLocals rewrites a cloned body: params/returns map through subst or
// substitute directly, and every declaration local to the body gets a fresh
// name so caller names are never reused.
func (in *inliner) renameLocals(body *ast.Block, subst map[string]string, direct map[string]*ast.Expr) {
	// First pass: allocate fresh names for all local declarations. Names
	// are globally unique already, so a flat map is enough.
	ast.InspectBlock(body, func(s *ast.Stmt) bool {
		if data, ok := s.Data.(ast.VarDeclData); ok {
			for _, name := range data.Names {
				subst[name] = in.ctx.Names.Fresh(name)
			}
		}
		return true
	}, nil)

	rewriteNames := func(names []string) []string {
		renamed := make([]string, len(names))
		for i, name := range names {
			if mapped, ok := subst[name]; ok {
				renamed[i] = mapped
			} else {
				renamed[i] = name
			}
		}
		return renamed
	}
	ast.InspectBlock(body, func(s *ast.Stmt) bool {
		switch data := s.Data.(type) {
		case ast.VarDeclData:
			data.Names = rewriteNames(data.Names)
			s.Data = data
		case ast.AssignData:
			data.Names = rewriteNames(data.Names)
			s.Data = data
		}
		return true
	}, func(e *ast.Expr) bool {
		data, ok := e.Data.(ast.IdentData)
		if !ok {
			return true
		}
		if repl, ok := direct[data.Name]; ok {
			*e = *ast.CloneExpr(repl)
			return true
		}
		if mapped, ok := subst[data.Name]; ok {
			data.Name = mapped
			e.Data = data
		}
		return true
	})
}

func asCall(e *ast.Expr) (*ast.CallData, bool) {
	if e == nil || e.Kind != ast.ExprCall {
		return nil, false
	}
	data := e.Data.(ast.CallData)
	return &data, true
}
