package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwFunction represents the 'function' keyword.
	KwFunction // function
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwSwitch represents the 'switch' keyword.
	KwSwitch // switch
	// KwCase represents the 'case' keyword.
	KwCase // case
	// KwDefault represents the 'default' keyword.
	KwDefault // default
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwLeave represents the 'leave' keyword.
	KwLeave // leave

	// NumberLit represents a decimal number literal.
	NumberLit
	// HexLit represents a 0x-prefixed hexadecimal literal.
	HexLit
	// StringLit represents a double-quoted string literal.
	StringLit
	// BoolLit represents 'true' or 'false'.
	BoolLit

	// LBrace represents '{'.
	LBrace
	// RBrace represents '}'.
	RBrace
	// LParen represents '('.
	LParen
	// RParen represents ')'.
	RParen
	// Comma represents ','.
	Comma
	// ColonAssign represents ':='.
	ColonAssign
	// Arrow represents '->'.
	Arrow
)

// String returns a human-readable name for the token kind.
func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case EOF:
		return "EOF"
	case Ident:
		return "Ident"
	case KwLet:
		return "let"
	case KwFunction:
		return "function"
	case KwIf:
		return "if"
	case KwSwitch:
		return "switch"
	case KwCase:
		return "case"
	case KwDefault:
		return "default"
	case KwFor:
		return "for"
	case KwBreak:
		return "break"
	case KwContinue:
		return "continue"
	case KwLeave:
		return "leave"
	case NumberLit:
		return "NumberLit"
	case HexLit:
		return "HexLit"
	case StringLit:
		return "StringLit"
	case BoolLit:
		return "BoolLit"
	case LBrace:
		return "{"
	case RBrace:
		return "}"
	case LParen:
		return "("
	case RParen:
		return ")"
	case Comma:
		return ","
	case ColonAssign:
		return ":="
	case Arrow:
		return "->"
	default:
		return "Unknown"
	}
}
