package token

import (
	"zyl/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a number, string, or bool literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case NumberLit, HexLit, StringLit, BoolLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwLet, KwFunction, KwIf, KwSwitch, KwCase, KwDefault, KwFor, KwBreak, KwContinue, KwLeave:
		return true
	default:
		return false
	}
}

var keywords = map[string]Kind{
	"let":      KwLet,
	"function": KwFunction,
	"if":       KwIf,
	"switch":   KwSwitch,
	"case":     KwCase,
	"default":  KwDefault,
	"for":      KwFor,
	"break":    KwBreak,
	"continue": KwContinue,
	"leave":    KwLeave,
	"true":     BoolLit,
	"false":    BoolLit,
}

// LookupKeyword returns the keyword kind for ident, if it is one.
// Keywords are case-sensitive; only lowercase spellings are recognized.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
