package ast

import (
	"bytes"
	"strings"

	"github.com/saraswati-lib/saraswati/internal/token"
)

// Declarator binds one name within a Var statement.
type Declarator struct {
	Name  *Ident // declared name
	Value Expr   // initial value; nil if omitted
}

// End returns the end position of the declarator.
func (d *Declarator) End() token.Position {
	if d.Value != nil {
		return d.Value.End()
	}
	return d.Name.End()
}

// Var is a statement that declares one or more variables.
// Examples: "let x = 1", "const a = 1, b = 2", "var y".
type Var struct {
	Decl  token.Position // position of the "let", "const" or "var" keyword
	Kind  string         // "let", "const" or "var"
	Decls []*Declarator  // declared names, in order
}

func (s *Var) stmtNode() {}

func (s *Var) Pos() token.Position { return s.Decl }
func (s *Var) End() token.Position {
	if len(s.Decls) == 0 {
		return s.Decl.Advance(len(s.Kind))
	}
	return s.Decls[len(s.Decls)-1].End()
}

// Names returns the names declared by the statement.
func (s *Var) Names() []string {
	names := make([]string, 0, len(s.Decls))
	for _, d := range s.Decls {
		names = append(names, d.Name.Name)
	}
	return names
}

func (s *Var) String() string {
	var out bytes.Buffer
	out.WriteString(s.Kind + " ")
	for i, d := range s.Decls {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(d.Name.Name)
		if d.Value != nil {
			out.WriteString(" = ")
			out.WriteString(d.Value.String())
		}
	}
	return out.String()
}

// Return is a statement that returns from the enclosing function.
type Return struct {
	Return token.Position // position of "return" keyword
	Value  Expr           // return value; nil for bare return
}

func (s *Return) stmtNode() {}

func (s *Return) Pos() token.Position { return s.Return }
func (s *Return) End() token.Position {
	if s.Value != nil {
		return s.Value.End()
	}
	return s.Return.Advance(6) // len("return")
}

func (s *Return) String() string {
	if s.Value != nil {
		return "return " + s.Value.String()
	}
	return "return"
}

// Throw is a statement that raises an exception.
type Throw struct {
	Throw token.Position // position of "throw" keyword
	Value Expr           // thrown value
}

func (s *Throw) stmtNode() {}

func (s *Throw) Pos() token.Position { return s.Throw }
func (s *Throw) End() token.Position { return s.Value.End() }

func (s *Throw) String() string { return "throw " + s.Value.String() }

// Block is a brace-delimited list of statements.
//
// Blocks synthesized by a rewrite may carry no closing brace position; their
// span then ends with their last statement.
type Block struct {
	Lbrace token.Position // position of "{"
	Stmts  []Node         // statements in the block
	Rbrace token.Position // position of "}"
}

func (s *Block) stmtNode() {}

func (s *Block) Pos() token.Position { return s.Lbrace }
func (s *Block) End() token.Position {
	if s.Rbrace.IsValid() {
		return s.Rbrace.Advance(1)
	}
	if len(s.Stmts) > 0 {
		return s.Stmts[len(s.Stmts)-1].End()
	}
	return s.Lbrace
}

func (s *Block) String() string {
	if len(s.Stmts) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(s.Stmts))
	for _, stmt := range s.Stmts {
		parts = append(parts, stmt.String())
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// If is a conditional statement. The bodies may be blocks or single
// statements.
type If struct {
	If          token.Position // position of "if" keyword
	Cond        Expr           // condition
	Consequence Node           // then branch
	Alternative Node           // else branch; nil if no else
}

func (s *If) stmtNode() {}

func (s *If) Pos() token.Position { return s.If }
func (s *If) End() token.Position {
	if s.Alternative != nil {
		return s.Alternative.End()
	}
	return s.Consequence.End()
}

func (s *If) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(s.Cond.String())
	out.WriteString(") ")
	out.WriteString(s.Consequence.String())
	if s.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(s.Alternative.String())
	}
	return out.String()
}

// While is a "while (cond) body" loop.
type While struct {
	While token.Position // position of "while" keyword
	Cond  Expr           // loop condition
	Body  Node           // loop body
}

func (s *While) stmtNode() {}

func (s *While) Pos() token.Position { return s.While }
func (s *While) End() token.Position { return s.Body.End() }

func (s *While) String() string {
	return "while (" + s.Cond.String() + ") " + s.Body.String()
}

// DoWhile is a "do body while (cond)" loop.
type DoWhile struct {
	Do     token.Position // position of "do" keyword
	Body   Node           // loop body
	Cond   Expr           // loop condition
	Rparen token.Position // position of the ")" closing the condition
}

func (s *DoWhile) stmtNode() {}

func (s *DoWhile) Pos() token.Position { return s.Do }
func (s *DoWhile) End() token.Position { return s.Rparen.Advance(1) }

func (s *DoWhile) String() string {
	return "do " + s.Body.String() + " while (" + s.Cond.String() + ")"
}

// For is a C-style "for (init; cond; post) body" loop.
type For struct {
	For  token.Position // position of "for" keyword
	Init Node           // *Var or expression; nil if omitted
	Cond Expr           // nil if omitted
	Post Expr           // nil if omitted
	Body Node           // loop body
}

func (s *For) stmtNode() {}

func (s *For) Pos() token.Position { return s.For }
func (s *For) End() token.Position { return s.Body.End() }

func (s *For) String() string {
	var out bytes.Buffer
	out.WriteString("for (")
	if s.Init != nil {
		out.WriteString(s.Init.String())
	}
	out.WriteString("; ")
	if s.Cond != nil {
		out.WriteString(s.Cond.String())
	}
	out.WriteString("; ")
	if s.Post != nil {
		out.WriteString(s.Post.String())
	}
	out.WriteString(") ")
	out.WriteString(s.Body.String())
	return out.String()
}

// ForOf is a "for (let x of xs)" or "for (const k in obj)" loop.
type ForOf struct {
	For  token.Position // position of "for" keyword
	Kind string         // "let", "const", "var", or "" for an existing binding
	Name *Ident         // loop variable
	In   bool           // true for "in", false for "of"
	Iter Expr           // iterated value
	Body Node           // loop body
}

func (s *ForOf) stmtNode() {}

func (s *ForOf) Pos() token.Position { return s.For }
func (s *ForOf) End() token.Position { return s.Body.End() }

func (s *ForOf) String() string {
	var out bytes.Buffer
	out.WriteString("for (")
	if s.Kind != "" {
		out.WriteString(s.Kind + " ")
	}
	out.WriteString(s.Name.Name)
	if s.In {
		out.WriteString(" in ")
	} else {
		out.WriteString(" of ")
	}
	out.WriteString(s.Iter.String())
	out.WriteString(") ")
	out.WriteString(s.Body.String())
	return out.String()
}

// Break is a statement that exits the enclosing loop or switch.
type Break struct {
	Break token.Position // position of "break" keyword
}

func (s *Break) stmtNode() {}

func (s *Break) Pos() token.Position { return s.Break }
func (s *Break) End() token.Position { return s.Break.Advance(5) } // len("break")

func (s *Break) String() string { return "break" }

// Continue is a statement that skips to the next loop iteration.
type Continue struct {
	Continue token.Position // position of "continue" keyword
}

func (s *Continue) stmtNode() {}

func (s *Continue) Pos() token.Position { return s.Continue }
func (s *Continue) End() token.Position { return s.Continue.Advance(8) } // len("continue")

func (s *Continue) String() string { return "continue" }

// Try is a try/catch/finally statement.
type Try struct {
	Try          token.Position // position of "try" keyword
	Body         *Block         // try block
	CatchIdent   *Ident         // catch parameter; nil if omitted
	CatchBlock   *Block         // catch block; nil if no catch
	FinallyBlock *Block         // finally block; nil if no finally
}

func (s *Try) stmtNode() {}

func (s *Try) Pos() token.Position { return s.Try }
func (s *Try) End() token.Position {
	if s.FinallyBlock != nil {
		return s.FinallyBlock.End()
	}
	if s.CatchBlock != nil {
		return s.CatchBlock.End()
	}
	return s.Body.End()
}

func (s *Try) String() string {
	var out bytes.Buffer
	out.WriteString("try ")
	out.WriteString(s.Body.String())
	if s.CatchBlock != nil {
		out.WriteString(" catch ")
		if s.CatchIdent != nil {
			out.WriteString("(" + s.CatchIdent.Name + ") ")
		}
		out.WriteString(s.CatchBlock.String())
	}
	if s.FinallyBlock != nil {
		out.WriteString(" finally ")
		out.WriteString(s.FinallyBlock.String())
	}
	return out.String()
}

// Case is one clause of a switch statement.
type Case struct {
	Case    token.Position // position of "case" or "default" keyword
	Default bool           // true for the default clause
	Expr    Expr           // case value; nil for default
	Colon   token.Position // position of ":"
	Body    []Node         // clause statements
}

func (s *Case) Pos() token.Position { return s.Case }
func (s *Case) End() token.Position {
	if len(s.Body) > 0 {
		return s.Body[len(s.Body)-1].End()
	}
	return s.Colon.Advance(1)
}

func (s *Case) String() string {
	var out bytes.Buffer
	if s.Default {
		out.WriteString("default:")
	} else {
		out.WriteString("case " + s.Expr.String() + ":")
	}
	for _, stmt := range s.Body {
		out.WriteString(" " + stmt.String() + ";")
	}
	return out.String()
}

// Switch is a switch statement.
type Switch struct {
	Switch token.Position // position of "switch" keyword
	Value  Expr           // switched value
	Lbrace token.Position // position of "{"
	Cases  []*Case        // clauses in order
	Rbrace token.Position // position of "}"
}

func (s *Switch) stmtNode() {}

func (s *Switch) Pos() token.Position { return s.Switch }
func (s *Switch) End() token.Position { return s.Rbrace.Advance(1) }

func (s *Switch) String() string {
	var out bytes.Buffer
	out.WriteString("switch (")
	out.WriteString(s.Value.String())
	out.WriteString(") {")
	for _, c := range s.Cases {
		out.WriteString(" " + c.String())
	}
	out.WriteString(" }")
	return out.String()
}

// Empty is a lone ";" statement.
type Empty struct {
	Semicolon token.Position // position of ";"
}

func (s *Empty) stmtNode() {}

func (s *Empty) Pos() token.Position { return s.Semicolon }
func (s *Empty) End() token.Position { return s.Semicolon.Advance(1) }

func (s *Empty) String() string { return ";" }
