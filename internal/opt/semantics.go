package opt

import (
	"zyl/internal/ast"
	"zyl/internal/dialect"
)

// ExprMovable reports whether evaluating the expression may be duplicated
// or reordered without changing observable behavior. Identifiers and
// literals are always movable; a call is movable only when the dialect
// marks the builtin movable and every argument is movable. Calls to
// user-defined functions are never movable.
func ExprMovable(d dialect.Dialect, e *ast.Expr) bool {
	switch data := e.Data.(type) {
	case ast.IdentData, ast.LiteralData:
		return true
	case ast.CallData:
		b, ok := d.Builtin(data.Func)
		if !ok || !b.Movable {
			return false
		}
		for _, arg := range data.Args {
			if !ExprMovable(d, arg) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ExprHasSideEffects reports whether evaluating the expression can have an
// observable external effect. Calls to user-defined functions are treated
// conservatively as side-effecting.
func ExprHasSideEffects(d dialect.Dialect, e *ast.Expr) bool {
	if e == nil {
		return false
	}
	switch data := e.Data.(type) {
	case ast.CallData:
		b, ok := d.Builtin(data.Func)
		if !ok || b.SideEffects {
			return true
		}
		for _, arg := range data.Args {
			if ExprHasSideEffects(d, arg) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// exprReferencedVars collects the identifiers read by the expression.
func exprReferencedVars(e *ast.Expr) map[string]struct{} {
	vars := make(map[string]struct{})
	ast.InspectExpr(e, func(sub *ast.Expr) bool {
		if data, ok := sub.Data.(ast.IdentData); ok {
			vars[data.Name] = struct{}{}
		}
		return true
	})
	return vars
}
