// Package ast defines the abstract syntax tree for the JavaScript-family
// source language accepted by saraswati.
package ast

import (
	"bytes"

	"github.com/saraswati-lib/saraswati/internal/token"
)

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Stmt represents a statement node. Statements cause side effects but
// do not evaluate to a value.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions. An expression placed
// directly in a statement list is an expression statement.
type Expr interface {
	Node
	exprNode()
}

// Program represents a complete program.
type Program struct {
	Stmts []Node // statements and expression statements, in source order
}

func (p *Program) Pos() token.Position {
	if len(p.Stmts) > 0 {
		return p.Stmts[0].Pos()
	}
	return token.NoPos
}

func (p *Program) End() token.Position {
	if len(p.Stmts) > 0 {
		return p.Stmts[len(p.Stmts)-1].End()
	}
	return token.NoPos
}

func (p *Program) String() string {
	var out bytes.Buffer
	for i, s := range p.Stmts {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.String())
	}
	return out.String()
}
