package opt

import (
	"strings"

	"zyl/internal/ast"
)

// cseState tracks, within a single block, which variable currently holds
// the value of a canonicalized call signature.
type cseState struct {
	ctx *Context
	// valueOf maps a signature to the variable holding that value.
	valueOf map[string]string
	// signaturesUsing maps a variable to the signatures mentioning it, for
	// invalidation when the variable is reassigned.
	signaturesUsing map[string][]string
}

// EliminateCommonSubexpressions replaces repeated evaluations of the same
// pure, movable operation over identical arguments with a reference to the
// variable already holding the result. State is kept strictly per block:
// nothing is merged across control-flow joins, and any signature touching a
// reassigned variable is dropped.
func EliminateCommonSubexpressions(ctx *Context, b *ast.Block) error {
	if err := checkDisambiguated("cse", b); err != nil {
		return err
	}
	cseBlock(ctx, b)
	return nil
}

func cseBlock(ctx *Context, b *ast.Block) {
	if b == nil {
		return
	}
	state := &cseState{
		ctx:             ctx,
		valueOf:         make(map[string]string),
		signaturesUsing: make(map[string][]string),
	}
	for i := range b.Stmts {
		state.stmt(&b.Stmts[i])
	}
}

func (st *cseState) stmt(s *ast.Stmt) {
	switch data := s.Data.(type) {
	case ast.ExprStmtData:
		st.rewrite(data.Expr)
	case ast.VarDeclData:
		st.rewrite(data.Value)
		if len(data.Names) == 1 && data.Value != nil {
			if sig, ok := st.signature(data.Value); ok {
				st.remember(sig, data.Names[0], data.Value)
			}
		}
	case ast.AssignData:
		st.rewrite(data.Value)
		for _, name := range data.Names {
			st.invalidate(name)
		}
		if len(data.Names) == 1 && data.Value != nil {
			if sig, ok := st.signature(data.Value); ok {
				st.remember(sig, data.Names[0], data.Value)
			}
		}
	case ast.IfData:
		st.rewrite(data.Cond)
		st.enterJoin(s)
	case ast.SwitchData:
		st.rewrite(data.Expr)
		st.enterJoin(s)
	case ast.ForData:
		// The loop condition re-evaluates per iteration; no expression
		// rewriting with outer state is safe inside.
		st.enterJoin(s)
	case ast.BlockStmtData:
		st.enterJoin(s)
	case ast.FuncDefData:
		cseBlock(st.ctx, data.Body)
	}
}

// enterJoin processes a control statement: its nested blocks are optimized
// with fresh per-block state, and every signature referencing a variable
// the statement may assign is dropped afterwards.
func (st *cseState) enterJoin(s *ast.Stmt) {
	for _, sub := range ast.SubBlocks(s) {
		cseBlock(st.ctx, sub)
	}
	for name := range CollectAssignedNames(s) {
		st.invalidate(name)
	}
}

// rewrite replaces known subexpressions bottom-up.
func (st *cseState) rewrite(e *ast.Expr) {
	if e == nil {
		return
	}
	data, ok := e.Data.(ast.CallData)
	if !ok {
		return
	}
	for _, arg := range data.Args {
		st.rewrite(arg)
	}
	sig, ok := st.signature(e)
	if !ok {
		return
	}
	if holder, ok := st.valueOf[sig]; ok {
		e.Kind = ast.ExprIdent
		e.Data = ast.IdentData{Name: holder}
	}
}

// signature canonicalizes a call whose value may be shared: a movable,
// side-effect-free, single-result builtin over identifier or literal
// arguments.
func (st *cseState) signature(e *ast.Expr) (string, bool) {
	data, ok := e.Data.(ast.CallData)
	if !ok {
		return "", false
	}
	b, ok := st.ctx.Dialect.Builtin(data.Func)
	if !ok || !b.Movable || b.SideEffects || b.Returns != 1 {
		return "", false
	}
	parts := make([]string, 0, len(data.Args)+1)
	parts = append(parts, data.Func)
	for _, arg := range data.Args {
		switch argData := arg.Data.(type) {
		case ast.IdentData:
			parts = append(parts, "i:"+argData.Name)
		case ast.LiteralData:
			parts = append(parts, "l"+argData.Kind.String()+":"+argData.Value)
		default:
			return "", false
		}
	}
	return strings.Join(parts, "\x00"), true
}

func (st *cseState) remember(sig, holder string, value *ast.Expr) {
	st.valueOf[sig] = holder
	for name := range exprReferencedVars(value) {
		st.signaturesUsing[name] = append(st.signaturesUsing[name], sig)
	}
	// The holder itself going stale must also drop the signature.
	st.signaturesUsing[holder] = append(st.signaturesUsing[holder], sig)
}

// invalidate drops every signature that mentions name, and every signature
// whose holder is name.
func (st *cseState) invalidate(name string) {
	for _, sig := range st.signaturesUsing[name] {
		delete(st.valueOf, sig)
	}
	delete(st.signaturesUsing, name)
	for sig, holder := range st.valueOf {
		if holder == name {
			delete(st.valueOf, sig)
		}
	}
}
