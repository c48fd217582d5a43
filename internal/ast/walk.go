package ast

// InspectExpr calls f for e and every nested expression, pre-order.
// Traversal of a subtree stops when f returns false.
func InspectExpr(e *Expr, f func(*Expr) bool) {
	if e == nil || !f(e) {
		return
	}
	if data, ok := e.Data.(CallData); ok {
		for _, a := range data.Args {
			InspectExpr(a, f)
		}
	}
}

// InspectBlock calls stmt for every statement and expr for every expression
// in the block, pre-order. Either callback may be nil. Returning false from
// stmt skips that statement's children.
func InspectBlock(b *Block, stmt func(*Stmt) bool, expr func(*Expr) bool) {
	if b == nil {
		return
	}
	for i := range b.Stmts {
		inspectStmt(&b.Stmts[i], stmt, expr)
	}
}

func inspectStmt(s *Stmt, stmt func(*Stmt) bool, expr func(*Expr) bool) {
	if stmt != nil && !stmt(s) {
		return
	}
	visitExpr := func(e *Expr) {
		if expr != nil {
			InspectExpr(e, expr)
		}
	}
	switch data := s.Data.(type) {
	case ExprStmtData:
		visitExpr(data.Expr)
	case VarDeclData:
		visitExpr(data.Value)
	case AssignData:
		visitExpr(data.Value)
	case IfData:
		visitExpr(data.Cond)
		InspectBlock(data.Body, stmt, expr)
	case SwitchData:
		visitExpr(data.Expr)
		for _, c := range data.Cases {
			visitExpr(c.Value)
			InspectBlock(c.Body, stmt, expr)
		}
		InspectBlock(data.Default, stmt, expr)
	case ForData:
		InspectBlock(data.Pre, stmt, expr)
		visitExpr(data.Cond)
		InspectBlock(data.Post, stmt, expr)
		InspectBlock(data.Body, stmt, expr)
	case BlockStmtData:
		InspectBlock(data.Block, stmt, expr)
	case FuncDefData:
		InspectBlock(data.Body, stmt, expr)
	}
}

// SubBlocks returns the blocks nested directly inside the statement.
func SubBlocks(s *Stmt) []*Block {
	switch data := s.Data.(type) {
	case IfData:
		return []*Block{data.Body}
	case SwitchData:
		out := make([]*Block, 0, len(data.Cases)+1)
		for _, c := range data.Cases {
			out = append(out, c.Body)
		}
		if data.Default != nil {
			out = append(out, data.Default)
		}
		return out
	case ForData:
		return []*Block{data.Pre, data.Post, data.Body}
	case BlockStmtData:
		return []*Block{data.Block}
	case FuncDefData:
		return []*Block{data.Body}
	}
	return nil
}
