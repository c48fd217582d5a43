// Package parser builds the zyl tree from tokens.
//
// Grammar sketch:
//
//	program  := block
//	block    := '{' stmt* '}'
//	stmt     := block | letDecl | funcDef | ifStmt | switchStmt | forStmt
//	          | 'break' | 'continue' | 'leave' | assignment | expr
//	letDecl  := 'let' identList (':=' expr)?
//	funcDef  := 'function' ident '(' identList? ')' ('->' identList)? block
//	ifStmt   := 'if' expr block
//	switch   := 'switch' expr ('case' literal block)* ('default' block)?
//	forStmt  := 'for' block expr block block
//	assign   := identList ':=' expr
//	expr     := ident '(' exprList? ')' | ident | literal
package parser

import (
	"fmt"

	"zyl/internal/ast"
	"zyl/internal/diag"
	"zyl/internal/lexer"
	"zyl/internal/source"
	"zyl/internal/token"
)

// Parser consumes a token stream and produces a Block.
type Parser struct {
	toks []token.Token
	pos  int
	bag  *diag.Bag
}

// New creates a parser over a token stream. The stream must end with EOF.
func New(toks []token.Token, bag *diag.Bag) *Parser {
	return &Parser{toks: toks, bag: bag}
}

// ParseFile lexes and parses a whole source file.
func ParseFile(file *source.File, bag *diag.Bag) *ast.Block {
	toks := lexer.Tokenize(file, bag)
	if bag.HasErrors() {
		return nil
	}
	p := New(toks, bag)
	block := p.ParseProgram()
	if bag.HasErrors() {
		return nil
	}
	return block
}

// ParseProgram parses the top-level block and requires EOF after it.
func (p *Parser) ParseProgram() *ast.Block {
	block := p.parseBlock()
	if p.cur().Kind != token.EOF {
		p.errorf(diag.SynUnexpectedToken, p.cur().Span, "expected end of input, found %s", p.describe(p.cur()))
	}
	return block
}

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) next() token.Token {
	tok := p.toks[p.pos]
	if p.cur().Kind != token.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) at(kind token.Kind) bool {
	return p.cur().Kind == kind
}

func (p *Parser) accept(kind token.Kind) (token.Token, bool) {
	if p.at(kind) {
		return p.next(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(kind token.Kind, code diag.Code) token.Token {
	if p.at(kind) {
		return p.next()
	}
	p.errorf(code, p.cur().Span, "expected %s, found %s", kind, p.describe(p.cur()))
	return token.Token{Kind: token.Invalid, Span: p.cur().Span}
}

func (p *Parser) describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "end of input"
	}
	if tok.Text != "" {
		return fmt.Sprintf("%q", tok.Text)
	}
	return tok.Kind.String()
}

func (p *Parser) errorf(code diag.Code, span source.Span, format string, args ...any) {
	p.bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Primary:  span,
	})
}

func (p *Parser) parseBlock() *ast.Block {
	open := p.expect(token.LBrace, diag.SynExpectLBrace)
	block := &ast.Block{Span: open.Span}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.pos
		stmt, ok := p.parseStmt()
		if ok {
			block.Stmts = append(block.Stmts, stmt)
		}
		if p.pos == before {
			// No progress; drop the offending token to avoid looping.
			p.next()
		}
	}
	closing := p.expect(token.RBrace, diag.SynExpectRBrace)
	block.Span = block.Span.Cover(closing.Span)
	return block
}

func (p *Parser) parseStmt() (ast.Stmt, bool) {
	tok := p.cur()
	switch tok.Kind {
	case token.LBrace:
		block := p.parseBlock()
		return ast.Stmt{Kind: ast.StmtBlock, Span: block.Span, Data: ast.BlockStmtData{Block: block}}, true
	case token.KwLet:
		return p.parseVarDecl()
	case token.KwFunction:
		return p.parseFuncDef()
	case token.KwIf:
		p.next()
		cond := p.parseExpr()
		body := p.parseBlock()
		return ast.Stmt{Kind: ast.StmtIf, Span: tok.Span.Cover(body.Span), Data: ast.IfData{Cond: cond, Body: body}}, cond != nil
	case token.KwSwitch:
		return p.parseSwitch()
	case token.KwFor:
		p.next()
		pre := p.parseBlock()
		cond := p.parseExpr()
		post := p.parseBlock()
		body := p.parseBlock()
		return ast.Stmt{
			Kind: ast.StmtFor,
			Span: tok.Span.Cover(body.Span),
			Data: ast.ForData{Pre: pre, Cond: cond, Post: post, Body: body},
		}, cond != nil
	case token.KwBreak:
		p.next()
		return ast.Stmt{Kind: ast.StmtBreak, Span: tok.Span, Data: ast.BreakData{}}, true
	case token.KwContinue:
		p.next()
		return ast.Stmt{Kind: ast.StmtContinue, Span: tok.Span, Data: ast.ContinueData{}}, true
	case token.KwLeave:
		p.next()
		return ast.Stmt{Kind: ast.StmtLeave, Span: tok.Span, Data: ast.LeaveData{}}, true
	case token.Ident:
		return p.parseAssignOrCall()
	default:
		p.errorf(diag.SynUnexpectedToken, tok.Span, "expected statement, found %s", p.describe(tok))
		return ast.Stmt{}, false
	}
}

func (p *Parser) parseVarDecl() (ast.Stmt, bool) {
	start := p.next() // let
	names := p.parseIdentList()
	if len(names) == 0 {
		return ast.Stmt{}, false
	}
	data := ast.VarDeclData{Names: names}
	span := start.Span
	if _, ok := p.accept(token.ColonAssign); ok {
		data.Value = p.parseExpr()
		if data.Value == nil {
			return ast.Stmt{}, false
		}
		span = span.Cover(data.Value.Span)
	}
	return ast.Stmt{Kind: ast.StmtVarDecl, Span: span, Data: data}, true
}

func (p *Parser) parseFuncDef() (ast.Stmt, bool) {
	start := p.next() // function
	name := p.expect(token.Ident, diag.SynExpectIdentifier)
	p.expect(token.LParen, diag.SynUnexpectedToken)
	var params []string
	if !p.at(token.RParen) {
		params = p.parseIdentList()
	}
	p.expect(token.RParen, diag.SynExpectRParen)
	var returns []string
	if _, ok := p.accept(token.Arrow); ok {
		returns = p.parseIdentList()
	}
	body := p.parseBlock()
	return ast.Stmt{
		Kind: ast.StmtFuncDef,
		Span: start.Span.Cover(body.Span),
		Data: ast.FuncDefData{Name: name.Text, Params: params, Returns: returns, Body: body},
	}, name.Kind == token.Ident
}

func (p *Parser) parseSwitch() (ast.Stmt, bool) {
	start := p.next() // switch
	value := p.parseExpr()
	if value == nil {
		return ast.Stmt{}, false
	}
	data := ast.SwitchData{Expr: value}
	span := start.Span.Cover(value.Span)
	for {
		if _, ok := p.accept(token.KwCase); ok {
			lit := p.parseLiteral()
			body := p.parseBlock()
			data.Cases = append(data.Cases, ast.SwitchCase{Value: lit, Body: body})
			span = span.Cover(body.Span)
			continue
		}
		if _, ok := p.accept(token.KwDefault); ok {
			data.Default = p.parseBlock()
			span = span.Cover(data.Default.Span)
		}
		break
	}
	if len(data.Cases) == 0 && data.Default == nil {
		p.errorf(diag.SynUnexpectedToken, p.cur().Span, "switch needs at least one case or a default")
		return ast.Stmt{}, false
	}
	return ast.Stmt{Kind: ast.StmtSwitch, Span: span, Data: data}, true
}

// parseAssignOrCall disambiguates `a, b := f()` and `a := x` from a bare
// call statement `f(...)` by looking one token past the identifier list.
func (p *Parser) parseAssignOrCall() (ast.Stmt, bool) {
	first := p.cur()
	names := p.parseIdentList()
	if len(names) == 0 {
		return ast.Stmt{}, false
	}
	if _, ok := p.accept(token.ColonAssign); ok {
		value := p.parseExpr()
		if value == nil {
			return ast.Stmt{}, false
		}
		return ast.Stmt{
			Kind: ast.StmtAssign,
			Span: first.Span.Cover(value.Span),
			Data: ast.AssignData{Names: names, Value: value},
		}, true
	}
	if len(names) > 1 {
		p.errorf(diag.SynExpectColonAssign, p.cur().Span, "expected := after assignment targets")
		return ast.Stmt{}, false
	}
	expr := p.parseCallAfterName(first)
	if expr == nil {
		return ast.Stmt{}, false
	}
	return ast.Stmt{Kind: ast.StmtExpr, Span: expr.Span, Data: ast.ExprStmtData{Expr: expr}}, true
}

func (p *Parser) parseIdentList() []string {
	var names []string
	for {
		tok := p.expect(token.Ident, diag.SynExpectIdentifier)
		if tok.Kind != token.Ident {
			return nil
		}
		names = append(names, tok.Text)
		if _, ok := p.accept(token.Comma); !ok {
			return names
		}
	}
}

func (p *Parser) parseExpr() *ast.Expr {
	tok := p.cur()
	switch {
	case tok.Kind == token.Ident:
		p.next()
		if p.at(token.LParen) {
			return p.parseCallAfterName(tok)
		}
		return ast.Ident(tok.Text, tok.Span)
	case tok.IsLiteral():
		return p.parseLiteral()
	default:
		p.errorf(diag.SynExpectExpression, tok.Span, "expected expression, found %s", p.describe(tok))
		return nil
	}
}

// parseCallAfterName parses the argument list of a call whose name token has
// already been consumed. A bare name statement is only legal as a call.
func (p *Parser) parseCallAfterName(name token.Token) *ast.Expr {
	if !p.at(token.LParen) {
		p.errorf(diag.SynCallTargetNotName, p.cur().Span, "expected ( to start a call to %q", name.Text)
		return nil
	}
	p.next()
	data := ast.CallData{Func: name.Text}
	if !p.at(token.RParen) {
		for {
			arg := p.parseExpr()
			if arg == nil {
				return nil
			}
			data.Args = append(data.Args, arg)
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
	}
	closing := p.expect(token.RParen, diag.SynExpectRParen)
	return &ast.Expr{Kind: ast.ExprCall, Span: name.Span.Cover(closing.Span), Data: data}
}

func (p *Parser) parseLiteral() *ast.Expr {
	tok := p.cur()
	var kind ast.LiteralKind
	switch tok.Kind {
	case token.NumberLit:
		kind = ast.LiteralNumber
	case token.HexLit:
		kind = ast.LiteralHex
	case token.StringLit:
		kind = ast.LiteralString
	case token.BoolLit:
		kind = ast.LiteralBool
	default:
		p.errorf(diag.SynExpectLiteral, tok.Span, "expected literal, found %s", p.describe(tok))
		return nil
	}
	p.next()
	return ast.Lit(kind, tok.Text, tok.Span)
}
