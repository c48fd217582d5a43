package opt

import (
	"zyl/internal/ast"
	"zyl/internal/dialect"
)

// renameScope tracks old-name to new-name mappings during disambiguation.
type renameScope struct {
	parent *renameScope
	vars   map[string]string
	funcs  map[string]string
	// funcBoundary marks a function body: variable lookups stop here,
	// function lookups do not.
	funcBoundary bool
}

func (s *renameScope) lookupVar(name string) (string, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if renamed, ok := cur.vars[name]; ok {
			return renamed, true
		}
		if cur.funcBoundary {
			return "", false
		}
	}
	return "", false
}

func (s *renameScope) lookupFunc(name string) (string, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if renamed, ok := cur.funcs[name]; ok {
			return renamed, true
		}
	}
	return "", false
}

type disambiguator struct {
	names *NameDispenser
	scope *renameScope
}

// Disambiguate renames every declaration in the tree so that no two
// declarations anywhere share a name, eliminating lexical shadowing. It
// mutates the tree in place and returns the NameDispenser seeded with the
// final used-name set; the rest of the pipeline allocates from it, so
// later fresh names cannot collide with anything in the tree.
//
// The pass is idempotent modulo cosmetic renaming and must run exactly
// once, before any catalog pass.
func Disambiguate(b *ast.Block, d dialect.Dialect, reserved []string) *NameDispenser {
	nd := NewNameDispenser(reserved...)
	for _, name := range d.ReservedNames() {
		nd.MarkUsed(name)
	}
	dis := &disambiguator{names: nd}
	dis.block(b)
	return nd
}

func (dis *disambiguator) push(funcBoundary bool) {
	dis.scope = &renameScope{
		parent:       dis.scope,
		vars:         make(map[string]string),
		funcs:        make(map[string]string),
		funcBoundary: funcBoundary,
	}
}

func (dis *disambiguator) pop() {
	dis.scope = dis.scope.parent
}

func (dis *disambiguator) block(b *ast.Block) {
	dis.push(false)
	defer dis.pop()
	dis.stmts(b)
}

// stmts processes a block's statements in the current scope, hoisting
// function names first so forward calls resolve.
func (dis *disambiguator) stmts(b *ast.Block) {
	if b == nil {
		return
	}
	for i := range b.Stmts {
		s := &b.Stmts[i]
		if s.Kind != ast.StmtFuncDef {
			continue
		}
		data := s.Data.(ast.FuncDefData)
		dis.scope.funcs[data.Name] = dis.names.Fresh(data.Name)
	}
	for i := range b.Stmts {
		dis.stmt(&b.Stmts[i])
	}
}

func (dis *disambiguator) stmt(s *ast.Stmt) {
	switch data := s.Data.(type) {
	case ast.ExprStmtData:
		dis.expr(data.Expr)
	case ast.VarDeclData:
		// The initializer sees the outer binding, not the new one.
		dis.expr(data.Value)
		renamed := make([]string, len(data.Names))
		for i, name := range data.Names {
			renamed[i] = dis.names.Fresh(name)
			dis.scope.vars[name] = renamed[i]
		}
		data.Names = renamed
		s.Data = data
	case ast.AssignData:
		dis.expr(data.Value)
		renamed := make([]string, len(data.Names))
		for i, name := range data.Names {
			if mapped, ok := dis.scope.lookupVar(name); ok {
				renamed[i] = mapped
			} else {
				renamed[i] = name
			}
		}
		data.Names = renamed
		s.Data = data
	case ast.IfData:
		dis.expr(data.Cond)
		dis.block(data.Body)
	case ast.SwitchData:
		dis.expr(data.Expr)
		for _, c := range data.Cases {
			dis.block(c.Body)
		}
		dis.block(data.Default)
	case ast.ForData:
		// Pre's declarations stay visible in cond, post, and body.
		dis.push(false)
		dis.stmts(data.Pre)
		dis.expr(data.Cond)
		dis.block(data.Body)
		dis.block(data.Post)
		dis.pop()
	case ast.BlockStmtData:
		dis.block(data.Block)
	case ast.FuncDefData:
		if mapped, ok := dis.scope.lookupFunc(data.Name); ok {
			data.Name = mapped
		}
		dis.push(true)
		params := make([]string, len(data.Params))
		for i, name := range data.Params {
			params[i] = dis.names.Fresh(name)
			dis.scope.vars[name] = params[i]
		}
		returns := make([]string, len(data.Returns))
		for i, name := range data.Returns {
			returns[i] = dis.names.Fresh(name)
			dis.scope.vars[name] = returns[i]
		}
		data.Params = params
		data.Returns = returns
		dis.block(data.Body)
		dis.pop()
		s.Data = data
	}
}

func (dis *disambiguator) expr(e *ast.Expr) {
	if e == nil {
		return
	}
	switch data := e.Data.(type) {
	case ast.IdentData:
		if mapped, ok := dis.scope.lookupVar(data.Name); ok {
			data.Name = mapped
			e.Data = data
		}
	case ast.CallData:
		if mapped, ok := dis.scope.lookupFunc(data.Func); ok {
			data.Func = mapped
			e.Data = data
		}
		for _, arg := range data.Args {
			dis.expr(arg)
		}
	}
}
