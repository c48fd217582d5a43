// Package ast defines the tree representation for zyl programs.
//
// The grammar is a small statically scoped expression/statement language:
// ordered blocks of statements, lexically scoped declarations, and
// expressions built from identifiers, literals, and calls. The optimizer
// pipeline consumes and produces this exact representation; statement order
// within a block is semantically meaningful.
package ast

import (
	"zyl/internal/source"
)

// Block is an ordered sequence of statements.
type Block struct {
	Stmts []Stmt
	Span  source.Span
}

// IsEmpty returns true if the block has no statements.
func (b *Block) IsEmpty() bool {
	return len(b.Stmts) == 0
}

// LastStmt returns the last statement in the block, or nil if empty.
func (b *Block) LastStmt() *Stmt {
	if len(b.Stmts) == 0 {
		return nil
	}
	return &b.Stmts[len(b.Stmts)-1]
}
