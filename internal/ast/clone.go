package ast

import (
	"fmt"
	"slices"
)

// CloneBlock returns a deep copy of the block. Passes run on a clone so a
// failed pass never leaves a partially rewritten tree behind.
func CloneBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	out := &Block{
		Stmts: make([]Stmt, len(b.Stmts)),
		Span:  b.Span,
	}
	for i := range b.Stmts {
		out.Stmts[i] = CloneStmt(&b.Stmts[i])
	}
	return out
}

// CloneStmt returns a deep copy of the statement.
func CloneStmt(s *Stmt) Stmt {
	out := Stmt{Kind: s.Kind, Span: s.Span}
	switch data := s.Data.(type) {
	case ExprStmtData:
		out.Data = ExprStmtData{Expr: CloneExpr(data.Expr)}
	case VarDeclData:
		out.Data = VarDeclData{Names: slices.Clone(data.Names), Value: CloneExpr(data.Value)}
	case AssignData:
		out.Data = AssignData{Names: slices.Clone(data.Names), Value: CloneExpr(data.Value)}
	case IfData:
		out.Data = IfData{Cond: CloneExpr(data.Cond), Body: CloneBlock(data.Body)}
	case SwitchData:
		cases := make([]SwitchCase, len(data.Cases))
		for i, c := range data.Cases {
			cases[i] = SwitchCase{Value: CloneExpr(c.Value), Body: CloneBlock(c.Body)}
		}
		out.Data = SwitchData{Expr: CloneExpr(data.Expr), Cases: cases, Default: CloneBlock(data.Default)}
	case ForData:
		out.Data = ForData{
			Pre:  CloneBlock(data.Pre),
			Cond: CloneExpr(data.Cond),
			Post: CloneBlock(data.Post),
			Body: CloneBlock(data.Body),
		}
	case BreakData:
		out.Data = BreakData{}
	case ContinueData:
		out.Data = ContinueData{}
	case LeaveData:
		out.Data = LeaveData{}
	case BlockStmtData:
		out.Data = BlockStmtData{Block: CloneBlock(data.Block)}
	case FuncDefData:
		out.Data = FuncDefData{
			Name:    data.Name,
			Params:  slices.Clone(data.Params),
			Returns: slices.Clone(data.Returns),
			Body:    CloneBlock(data.Body),
		}
	default:
		panic(fmt.Sprintf("ast: unknown statement payload %T", s.Data))
	}
	return out
}

// CloneExpr returns a deep copy of the expression.
func CloneExpr(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	out := &Expr{Kind: e.Kind, Span: e.Span}
	switch data := e.Data.(type) {
	case IdentData:
		out.Data = IdentData{Name: data.Name}
	case LiteralData:
		out.Data = LiteralData{Kind: data.Kind, Value: data.Value}
	case CallData:
		args := make([]*Expr, len(data.Args))
		for i, a := range data.Args {
			args[i] = CloneExpr(a)
		}
		out.Data = CallData{Func: data.Func, Args: args}
	default:
		panic(fmt.Sprintf("ast: unknown expression payload %T", e.Data))
	}
	return out
}
