package ast

import (
	"zyl/internal/source"
)

// ExprKind enumerates expression kinds.
type ExprKind uint8

const (
	// ExprIdent represents a variable reference.
	ExprIdent ExprKind = iota
	// ExprLiteral represents a literal value.
	ExprLiteral
	// ExprCall represents a builtin or user-defined function call.
	ExprCall
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "Ident"
	case ExprLiteral:
		return "Literal"
	case ExprCall:
		return "Call"
	default:
		return "Unknown"
	}
}

// Expr represents a single expression.
type Expr struct {
	Kind ExprKind
	Span source.Span
	Data ExprData // Kind-specific payload
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// IdentData holds data for ExprIdent.
type IdentData struct {
	Name string
}

func (IdentData) exprData() {}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	// LiteralNumber is a decimal integer literal.
	LiteralNumber LiteralKind = iota
	// LiteralHex is a 0x-prefixed hexadecimal literal.
	LiteralHex
	// LiteralString is a double-quoted string literal.
	LiteralString
	// LiteralBool is true or false.
	LiteralBool
)

// String returns a human-readable name for the literal kind.
func (k LiteralKind) String() string {
	switch k {
	case LiteralNumber:
		return "Number"
	case LiteralHex:
		return "Hex"
	case LiteralString:
		return "String"
	case LiteralBool:
		return "Bool"
	default:
		return "Unknown"
	}
}

// LiteralData holds data for ExprLiteral. Value keeps the raw source text
// (without quotes for strings) so printing round-trips exactly.
type LiteralData struct {
	Kind  LiteralKind
	Value string
}

func (LiteralData) exprData() {}

// CallData holds data for ExprCall. Func names either a dialect builtin or
// a user-defined function; arguments are evaluated left to right.
type CallData struct {
	Func string
	Args []*Expr
}

func (CallData) exprData() {}

// Ident constructs an identifier expression.
func Ident(name string, span source.Span) *Expr {
	return &Expr{Kind: ExprIdent, Span: span, Data: IdentData{Name: name}}
}

// Lit constructs a literal expression.
func Lit(kind LiteralKind, value string, span source.Span) *Expr {
	return &Expr{Kind: ExprLiteral, Span: span, Data: LiteralData{Kind: kind, Value: value}}
}

// IdentName returns the name of an identifier expression, or "" if e is not
// an identifier.
func IdentName(e *Expr) string {
	if e == nil || e.Kind != ExprIdent {
		return ""
	}
	return e.Data.(IdentData).Name
}
