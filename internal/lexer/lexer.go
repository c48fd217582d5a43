// Package lexer turns zyl source text into tokens.
package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"zyl/internal/diag"
	"zyl/internal/source"
	"zyl/internal/token"
)

// Lexer scans a single source file.
type Lexer struct {
	file *source.File
	off  uint32
	bag  *diag.Bag
}

func New(file *source.File, bag *diag.Bag) *Lexer {
	return &Lexer{file: file, bag: bag}
}

// Tokenize scans the whole file, including the trailing EOF token.
func Tokenize(file *source.File, bag *diag.Bag) []token.Token {
	lx := New(file, bag)
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func (lx *Lexer) limit() uint32 {
	n, err := safecast.Conv[uint32](len(lx.file.Content))
	if err != nil {
		panic(fmt.Errorf("file too large: %w", err))
	}
	return n
}

func (lx *Lexer) eof() bool {
	return lx.off >= lx.limit()
}

func (lx *Lexer) peek() byte {
	return lx.file.Content[lx.off]
}

func (lx *Lexer) peekAt(delta uint32) (byte, bool) {
	if lx.off+delta >= lx.limit() {
		return 0, false
	}
	return lx.file.Content[lx.off+delta], true
}

func (lx *Lexer) span(start uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: lx.off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

// Next returns the next significant token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	lx.skipTrivia()
	if lx.eof() {
		return token.Token{Kind: token.EOF, Span: lx.span(lx.off)}
	}

	start := lx.off
	ch := lx.peek()
	switch {
	case isIdentStart(ch):
		return lx.scanIdentOrKeyword()
	case ch >= '0' && ch <= '9':
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	}

	lx.off++
	switch ch {
	case '{':
		return token.Token{Kind: token.LBrace, Span: lx.span(start), Text: "{"}
	case '}':
		return token.Token{Kind: token.RBrace, Span: lx.span(start), Text: "}"}
	case '(':
		return token.Token{Kind: token.LParen, Span: lx.span(start), Text: "("}
	case ')':
		return token.Token{Kind: token.RParen, Span: lx.span(start), Text: ")"}
	case ',':
		return token.Token{Kind: token.Comma, Span: lx.span(start), Text: ","}
	case ':':
		if b, ok := lx.peekAt(0); ok && b == '=' {
			lx.off++
			return token.Token{Kind: token.ColonAssign, Span: lx.span(start), Text: ":="}
		}
	case '-':
		if b, ok := lx.peekAt(0); ok && b == '>' {
			lx.off++
			return token.Token{Kind: token.Arrow, Span: lx.span(start), Text: "->"}
		}
	}

	sp := lx.span(start)
	lx.bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.LexUnknownChar,
		Message:  fmt.Sprintf("unexpected character %q", ch),
		Primary:  sp,
	})
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// skipTrivia consumes whitespace, line comments, and block comments.
func (lx *Lexer) skipTrivia() {
	for !lx.eof() {
		ch := lx.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			lx.off++
		case ch == '/':
			b, ok := lx.peekAt(1)
			if !ok {
				return
			}
			switch b {
			case '/':
				for !lx.eof() && lx.peek() != '\n' {
					lx.off++
				}
			case '*':
				start := lx.off
				lx.off += 2
				closed := false
				for !lx.eof() {
					if lx.peek() == '*' {
						if n, ok := lx.peekAt(1); ok && n == '/' {
							lx.off += 2
							closed = true
							break
						}
					}
					lx.off++
				}
				if !closed {
					lx.bag.Add(diag.Diagnostic{
						Severity: diag.SevError,
						Code:     diag.LexUnterminatedBlockComment,
						Message:  "unterminated block comment",
						Primary:  lx.span(start),
					})
				}
			default:
				return
			}
		default:
			return
		}
	}
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.off
	for !lx.eof() && isIdentContinue(lx.peek()) {
		lx.off++
	}
	sp := lx.span(start)
	text := lx.text(sp)
	if kind, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kind, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.off
	if lx.peek() == '0' {
		if b, ok := lx.peekAt(1); ok && (b == 'x' || b == 'X') {
			lx.off += 2
			digits := 0
			for !lx.eof() && isHexDigit(lx.peek()) {
				lx.off++
				digits++
			}
			sp := lx.span(start)
			if digits == 0 {
				lx.bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.LexBadNumber,
					Message:  "hex literal needs at least one digit",
					Primary:  sp,
				})
				return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
			}
			return token.Token{Kind: token.HexLit, Span: sp, Text: lx.text(sp)}
		}
	}
	for !lx.eof() && lx.peek() >= '0' && lx.peek() <= '9' {
		lx.off++
	}
	sp := lx.span(start)
	// Reject identifiers glued onto a number, e.g. 1abc.
	if !lx.eof() && isIdentStart(lx.peek()) {
		for !lx.eof() && isIdentContinue(lx.peek()) {
			lx.off++
		}
		sp = lx.span(start)
		lx.bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.LexBadNumber,
			Message:  fmt.Sprintf("malformed number %q", lx.text(sp)),
			Primary:  sp,
		})
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	return token.Token{Kind: token.NumberLit, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) scanString() token.Token {
	start := lx.off
	lx.off++ // opening quote
	for !lx.eof() && lx.peek() != '"' && lx.peek() != '\n' {
		if lx.peek() == '\\' {
			lx.off++ // escaped char follows
			if lx.eof() {
				break
			}
		}
		lx.off++
	}
	if lx.eof() || lx.peek() != '"' {
		sp := lx.span(start)
		lx.bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.LexUnterminatedString,
			Message:  "unterminated string literal",
			Primary:  sp,
		})
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	lx.off++ // closing quote
	sp := lx.span(start)
	// Text drops the surrounding quotes.
	return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.file.Content[sp.Start+1 : sp.End-1])}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch == '$' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || ch == '.' || (ch >= '0' && ch <= '9')
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
