// Package printer serializes zyl trees back to canonical source text.
//
// The output round-trips: parsing the printed form yields a structurally
// identical tree. Every tree the optimizer produces is printable.
package printer

import (
	"fmt"
	"io"
	"strings"

	"zyl/internal/ast"
)

// Printer writes a tree as formatted source text.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter creates a printer targeting w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes the block to w as canonical source text.
func Print(w io.Writer, b *ast.Block) error {
	p := NewPrinter(w)
	p.printBlock(b)
	p.printf("\n")
	return p.err
}

// Format returns the canonical source text of the block.
func Format(b *ast.Block) string {
	var sb strings.Builder
	// strings.Builder writes cannot fail.
	_ = Print(&sb, b)
	return sb.String()
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) line() {
	p.printf("\n%s", strings.Repeat("    ", p.indent))
}

func (p *Printer) printBlock(b *ast.Block) {
	if b == nil || len(b.Stmts) == 0 {
		p.printf("{ }")
		return
	}
	p.printf("{")
	p.indent++
	for i := range b.Stmts {
		p.line()
		p.printStmt(&b.Stmts[i])
	}
	p.indent--
	p.line()
	p.printf("}")
}

func (p *Printer) printStmt(s *ast.Stmt) {
	switch data := s.Data.(type) {
	case ast.ExprStmtData:
		p.printExpr(data.Expr)
	case ast.VarDeclData:
		p.printf("let %s", strings.Join(data.Names, ", "))
		if data.Value != nil {
			p.printf(" := ")
			p.printExpr(data.Value)
		}
	case ast.AssignData:
		p.printf("%s := ", strings.Join(data.Names, ", "))
		p.printExpr(data.Value)
	case ast.IfData:
		p.printf("if ")
		p.printExpr(data.Cond)
		p.printf(" ")
		p.printBlock(data.Body)
	case ast.SwitchData:
		p.printf("switch ")
		p.printExpr(data.Expr)
		for _, c := range data.Cases {
			p.line()
			p.printf("case ")
			p.printExpr(c.Value)
			p.printf(" ")
			p.printBlock(c.Body)
		}
		if data.Default != nil {
			p.line()
			p.printf("default ")
			p.printBlock(data.Default)
		}
	case ast.ForData:
		p.printf("for ")
		p.printBlock(data.Pre)
		p.printf(" ")
		p.printExpr(data.Cond)
		p.printf(" ")
		p.printBlock(data.Post)
		p.printf(" ")
		p.printBlock(data.Body)
	case ast.BreakData:
		p.printf("break")
	case ast.ContinueData:
		p.printf("continue")
	case ast.LeaveData:
		p.printf("leave")
	case ast.BlockStmtData:
		p.printBlock(data.Block)
	case ast.FuncDefData:
		p.printf("function %s(%s)", data.Name, strings.Join(data.Params, ", "))
		if len(data.Returns) > 0 {
			p.printf(" -> %s", strings.Join(data.Returns, ", "))
		}
		p.printf(" ")
		p.printBlock(data.Body)
	default:
		p.printf("/* unknown statement %s */", s.Kind)
	}
}

func (p *Printer) printExpr(e *ast.Expr) {
	if e == nil {
		return
	}
	switch data := e.Data.(type) {
	case ast.IdentData:
		p.printf("%s", data.Name)
	case ast.LiteralData:
		if data.Kind == ast.LiteralString {
			// Value keeps the raw inner text with escapes intact.
			p.printf("\"%s\"", data.Value)
		} else {
			p.printf("%s", data.Value)
		}
	case ast.CallData:
		p.printf("%s(", data.Func)
		for i, a := range data.Args {
			if i > 0 {
				p.printf(", ")
			}
			p.printExpr(a)
		}
		p.printf(")")
	default:
		p.printf("/* unknown expression %s */", e.Kind)
	}
}
