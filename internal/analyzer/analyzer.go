// Package analyzer validates a parsed tree before optimization.
//
// It enforces the scoping rules the optimizer relies on: identifiers resolve
// to visible declarations, function bodies only see their own locals plus
// functions, builtin calls match the dialect's arity and literal-argument
// constraints, and loop/function control statements appear where they are
// allowed.
package analyzer

import (
	"fmt"

	"zyl/internal/ast"
	"zyl/internal/diag"
	"zyl/internal/dialect"
	"zyl/internal/source"
)

// Analyzer walks one tree against one dialect.
type Analyzer struct {
	dialect dialect.Dialect
	bag     *diag.Bag
	scope   *scope
	inLoop  bool
	inFunc  bool
}

type scope struct {
	parent *scope
	vars   map[string]bool
	funcs  map[string]*ast.FuncDefData
	// funcBoundary marks a function body: variable resolution stops here,
	// function resolution does not.
	funcBoundary bool
}

func (s *scope) lookupVar(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.vars[name] {
			return true
		}
		if cur.funcBoundary {
			return false
		}
	}
	return false
}

func (s *scope) lookupFunc(name string) (*ast.FuncDefData, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if fn, ok := cur.funcs[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

func (s *scope) declaredHere(name string) bool {
	return s.vars[name] || s.funcs[name] != nil
}

// Analyze validates the tree and reports problems into bag. It returns true
// when the tree is acceptable input for the optimizer.
func Analyze(block *ast.Block, d dialect.Dialect, bag *diag.Bag) bool {
	a := &Analyzer{dialect: d, bag: bag}
	a.checkBlock(block)
	return !bag.HasErrors()
}

func (a *Analyzer) errorf(code diag.Code, span source.Span, format string, args ...any) {
	a.bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Primary:  span,
	})
}

func (a *Analyzer) push(funcBoundary bool) {
	a.scope = &scope{
		parent:       a.scope,
		vars:         make(map[string]bool),
		funcs:        make(map[string]*ast.FuncDefData),
		funcBoundary: funcBoundary,
	}
}

func (a *Analyzer) pop() {
	a.scope = a.scope.parent
}

func (a *Analyzer) declareVar(name string, span source.Span) {
	if _, ok := a.dialect.Builtin(name); ok {
		a.errorf(diag.AnaShadowedBuiltin, span, "%q shadows a builtin operation", name)
		return
	}
	if a.scope.declaredHere(name) {
		a.errorf(diag.AnaDuplicateDecl, span, "%q is already declared in this scope", name)
		return
	}
	a.scope.vars[name] = true
}

// checkBlock analyzes a block, hoisting function declarations so they are
// callable anywhere within the block.
func (a *Analyzer) checkBlock(b *ast.Block) {
	a.push(false)
	defer a.pop()
	a.hoistFuncs(b)
	for i := range b.Stmts {
		a.checkStmt(&b.Stmts[i])
	}
}

func (a *Analyzer) hoistFuncs(b *ast.Block) {
	for i := range b.Stmts {
		s := &b.Stmts[i]
		if s.Kind != ast.StmtFuncDef {
			continue
		}
		data := s.Data.(ast.FuncDefData)
		if _, ok := a.dialect.Builtin(data.Name); ok {
			a.errorf(diag.AnaShadowedBuiltin, s.Span, "function %q shadows a builtin operation", data.Name)
			continue
		}
		if a.scope.declaredHere(data.Name) {
			a.errorf(diag.AnaDuplicateDecl, s.Span, "%q is already declared in this scope", data.Name)
			continue
		}
		dataCopy := data
		a.scope.funcs[data.Name] = &dataCopy
	}
}

func (a *Analyzer) checkStmt(s *ast.Stmt) {
	switch data := s.Data.(type) {
	case ast.ExprStmtData:
		a.checkExprValues(data.Expr, 0)
	case ast.VarDeclData:
		if data.Value != nil {
			a.checkExprValues(data.Value, len(data.Names))
		}
		for _, name := range data.Names {
			a.declareVar(name, s.Span)
		}
	case ast.AssignData:
		a.checkExprValues(data.Value, len(data.Names))
		for _, name := range data.Names {
			if _, ok := a.scope.lookupFunc(name); ok {
				a.errorf(diag.AnaAssignToFunction, s.Span, "cannot assign to function %q", name)
				continue
			}
			if !a.scope.lookupVar(name) {
				a.errorf(diag.AnaAssignUndeclared, s.Span, "assignment to undeclared variable %q", name)
			}
		}
	case ast.IfData:
		a.checkExprValues(data.Cond, 1)
		a.checkBlock(data.Body)
	case ast.SwitchData:
		a.checkExprValues(data.Expr, 1)
		for _, c := range data.Cases {
			if c.Value == nil || c.Value.Kind != ast.ExprLiteral {
				a.errorf(diag.AnaLiteralArgWanted, s.Span, "switch case requires a literal value")
			}
			a.checkBlock(c.Body)
		}
		if data.Default != nil {
			a.checkBlock(data.Default)
		}
	case ast.ForData:
		// The pre block's declarations stay visible in cond, post, and body.
		a.push(false)
		a.hoistFuncs(data.Pre)
		for i := range data.Pre.Stmts {
			a.checkStmt(&data.Pre.Stmts[i])
		}
		a.checkExprValues(data.Cond, 1)
		wasLoop := a.inLoop
		a.inLoop = true
		a.checkBlock(data.Body)
		a.checkBlock(data.Post)
		a.inLoop = wasLoop
		a.pop()
	case ast.BreakData, ast.ContinueData:
		if !a.inLoop {
			a.errorf(diag.AnaLoopControlOutside, s.Span, "%s outside of a for loop", s.Kind)
		}
	case ast.LeaveData:
		if !a.inFunc {
			a.errorf(diag.AnaLeaveOutsideFunc, s.Span, "leave outside of a function body")
		}
	case ast.BlockStmtData:
		a.checkBlock(data.Block)
	case ast.FuncDefData:
		a.checkFuncDef(s, data)
	default:
		a.errorf(diag.UnknownCode, s.Span, "malformed statement payload %T", s.Data)
	}
}

func (a *Analyzer) checkFuncDef(s *ast.Stmt, data ast.FuncDefData) {
	a.push(true)
	defer a.pop()
	for _, name := range data.Params {
		a.declareVar(name, s.Span)
	}
	for _, name := range data.Returns {
		a.declareVar(name, s.Span)
	}
	wasLoop, wasFunc := a.inLoop, a.inFunc
	a.inLoop, a.inFunc = false, true
	a.hoistFuncs(data.Body)
	for i := range data.Body.Stmts {
		a.checkStmt(&data.Body.Stmts[i])
	}
	a.inLoop, a.inFunc = wasLoop, wasFunc
}

// checkExprValues validates an expression that must produce exactly want
// values.
func (a *Analyzer) checkExprValues(e *ast.Expr, want int) {
	if e == nil {
		return
	}
	got := a.checkExpr(e)
	if got != want {
		a.errorf(diag.AnaValueMismatch, e.Span, "expression produces %d value(s), %d expected", got, want)
	}
}

// checkExpr validates an expression and returns how many values it produces.
func (a *Analyzer) checkExpr(e *ast.Expr) int {
	switch data := e.Data.(type) {
	case ast.IdentData:
		if !a.scope.lookupVar(data.Name) {
			a.errorf(diag.AnaUnresolvedIdent, e.Span, "undeclared identifier %q", data.Name)
		}
		return 1
	case ast.LiteralData:
		return 1
	case ast.CallData:
		return a.checkCall(e, data)
	default:
		a.errorf(diag.UnknownCode, e.Span, "malformed expression payload %T", e.Data)
		return 1
	}
}

func (a *Analyzer) checkCall(e *ast.Expr, data ast.CallData) int {
	for _, arg := range data.Args {
		a.checkExprValues(arg, 1)
	}
	if b, ok := a.dialect.Builtin(data.Func); ok {
		if !b.AcceptsArgCount(len(data.Args)) {
			a.errorf(diag.AnaArityMismatch, e.Span,
				"builtin %q expects %d argument(s), got %d", data.Func, b.Params, len(data.Args))
		}
		for i, arg := range data.Args {
			if b.RequiresLiteral(i) && arg.Kind != ast.ExprLiteral {
				a.errorf(diag.AnaLiteralArgWanted, arg.Span,
					"argument %d of %q must be a literal", i+1, data.Func)
			}
		}
		return b.Returns
	}
	if fn, ok := a.scope.lookupFunc(data.Func); ok {
		if len(data.Args) != len(fn.Params) {
			a.errorf(diag.AnaArityMismatch, e.Span,
				"function %q expects %d argument(s), got %d", data.Func, len(fn.Params), len(data.Args))
		}
		return len(fn.Returns)
	}
	a.errorf(diag.AnaUnresolvedIdent, e.Span, "call to undeclared function %q", data.Func)
	return 1
}
