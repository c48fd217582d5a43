package ast

import (
	"zyl/internal/source"
)

// StmtKind enumerates statement kinds.
type StmtKind uint8

const (
	// StmtExpr represents an expression statement (a call evaluated for effect).
	StmtExpr StmtKind = iota
	// StmtVarDecl represents a variable declaration (let a, b := ...).
	StmtVarDecl
	// StmtAssign represents assignment to previously declared variables.
	StmtAssign
	// StmtIf represents a conditional without an else branch.
	StmtIf
	// StmtSwitch represents a multi-way branch over literal cases.
	StmtSwitch
	// StmtFor represents the loop form: for {pre} cond {post} {body}.
	StmtFor
	// StmtBreak represents break out of the innermost loop.
	StmtBreak
	// StmtContinue represents continue of the innermost loop.
	StmtContinue
	// StmtLeave represents early return from the enclosing function.
	StmtLeave
	// StmtBlock represents a nested block with its own scope.
	StmtBlock
	// StmtFuncDef represents a function definition.
	StmtFuncDef
)

// String returns a human-readable name for the statement kind.
func (k StmtKind) String() string {
	switch k {
	case StmtExpr:
		return "Expr"
	case StmtVarDecl:
		return "VarDecl"
	case StmtAssign:
		return "Assign"
	case StmtIf:
		return "If"
	case StmtSwitch:
		return "Switch"
	case StmtFor:
		return "For"
	case StmtBreak:
		return "Break"
	case StmtContinue:
		return "Continue"
	case StmtLeave:
		return "Leave"
	case StmtBlock:
		return "Block"
	case StmtFuncDef:
		return "FuncDef"
	default:
		return "Unknown"
	}
}

// Stmt represents a single statement.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData // Kind-specific payload
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}

// VarDeclData holds data for StmtVarDecl. Value is nil for zero-initialized
// declarations; a multi-name declaration binds the results of a single call.
type VarDeclData struct {
	Names []string
	Value *Expr
}

func (VarDeclData) stmtData() {}

// AssignData holds data for StmtAssign. All targets must be declared
// variables; a multi-target assignment consumes the results of one call.
type AssignData struct {
	Names []string
	Value *Expr
}

func (AssignData) stmtData() {}

// IfData holds data for StmtIf. There is no else branch in the grammar;
// two-way branches are expressed with switch.
type IfData struct {
	Cond *Expr
	Body *Block
}

func (IfData) stmtData() {}

// SwitchCase is one literal-guarded arm of a switch.
type SwitchCase struct {
	Value *Expr // always a literal
	Body  *Block
}

// SwitchData holds data for StmtSwitch.
type SwitchData struct {
	Expr    *Expr
	Cases   []SwitchCase
	Default *Block // nil if absent
}

func (SwitchData) stmtData() {}

// ForData holds data for StmtFor. Pre and Post are blocks; declarations in
// Pre are visible in Cond, Post, and Body.
type ForData struct {
	Pre  *Block
	Cond *Expr
	Post *Block
	Body *Block
}

func (ForData) stmtData() {}

// BreakData holds data for StmtBreak.
type BreakData struct{}

func (BreakData) stmtData() {}

// ContinueData holds data for StmtContinue.
type ContinueData struct{}

func (ContinueData) stmtData() {}

// LeaveData holds data for StmtLeave.
type LeaveData struct{}

func (LeaveData) stmtData() {}

// BlockStmtData holds data for StmtBlock.
type BlockStmtData struct {
	Block *Block
}

func (BlockStmtData) stmtData() {}

// FuncDefData holds data for StmtFuncDef. Params and Returns introduce
// bindings in the body's scope; Returns are the named result slots.
type FuncDefData struct {
	Name    string
	Params  []string
	Returns []string
	Body    *Block
}

func (FuncDefData) stmtData() {}
