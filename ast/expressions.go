package ast

import (
	"bytes"
	"strings"

	"github.com/saraswati-lib/saraswati/internal/token"
)

// Ident is an expression node that refers to a variable by name.
type Ident struct {
	NamePos token.Position // position of identifier
	Name    string         // identifier name

	// NameEnd overrides the end of the identifier when set. Identifiers
	// introduced by a rewrite use it to occupy a span other than the width
	// of their name.
	NameEnd token.Position
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() token.Position { return x.NamePos }
func (x *Ident) End() token.Position {
	if x.NameEnd.IsValid() {
		return x.NameEnd
	}
	return x.NamePos.Advance(len(x.Name))
}

func (x *Ident) String() string { return x.Name }

// Prefix is an operator expression where the operator precedes the operand.
// Examples include "!ok", "-x" and "typeof v".
type Prefix struct {
	OpPos token.Position // position of operator
	Op    string         // operator: "!", "-", "+", "~", "typeof", "void", "delete", "++", "--"
	X     Expr           // operand
}

func (x *Prefix) exprNode() {}

func (x *Prefix) Pos() token.Position { return x.OpPos }
func (x *Prefix) End() token.Position { return x.X.End() }

func (x *Prefix) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.Op)
	if isWordOp(x.Op) {
		out.WriteString(" ")
	}
	out.WriteString(x.X.String())
	out.WriteString(")")
	return out.String()
}

func isWordOp(op string) bool {
	switch op {
	case "typeof", "void", "delete", "in", "instanceof":
		return true
	}
	return false
}

// Postfix is an increment or decrement applied after its operand ("i++").
type Postfix struct {
	X     Expr           // operand
	OpPos token.Position // position of operator
	Op    string         // "++" or "--"
}

func (x *Postfix) exprNode() {}

func (x *Postfix) Pos() token.Position { return x.X.Pos() }
func (x *Postfix) End() token.Position { return x.OpPos.Advance(len(x.Op)) }

func (x *Postfix) String() string { return "(" + x.X.String() + x.Op + ")" }

// Spread represents a spread expression (...expr) used in array literals,
// object literals, and function calls.
type Spread struct {
	Ellipsis token.Position // position of "..."
	X        Expr           // expression being spread
}

func (x *Spread) exprNode() {}

func (x *Spread) Pos() token.Position { return x.Ellipsis }
func (x *Spread) End() token.Position { return x.X.End() }

func (x *Spread) String() string { return "..." + x.X.String() }

// Infix is an operator expression where the operator is between the operands.
// Examples include "x + y" and "a ?? b".
type Infix struct {
	X     Expr           // left operand
	OpPos token.Position // position of operator
	Op    string         // operator: "+", "-", "===", "&&", "in", etc.
	Y     Expr           // right operand
}

func (x *Infix) exprNode() {}

func (x *Infix) Pos() token.Position { return x.X.Pos() }
func (x *Infix) End() token.Position { return x.Y.End() }

func (x *Infix) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.X.String())
	out.WriteString(" " + x.Op + " ")
	out.WriteString(x.Y.String())
	out.WriteString(")")
	return out.String()
}

// Assign is an assignment expression such as "x = 1" or "o.n += 2".
type Assign struct {
	X     Expr           // assignment target: *Ident, *GetAttr or *Index
	OpPos token.Position // position of operator
	Op    string         // "=", "+=", "-=", etc.
	Value Expr           // assigned value
}

func (x *Assign) exprNode() {}

func (x *Assign) Pos() token.Position { return x.X.Pos() }
func (x *Assign) End() token.Position { return x.Value.End() }

func (x *Assign) String() string {
	return x.X.String() + " " + x.Op + " " + x.Value.String()
}

// Ternary is a conditional expression: "cond ? a : b".
type Ternary struct {
	Cond     Expr           // condition
	Question token.Position // position of "?"
	IfTrue   Expr           // value if condition is truthy
	Colon    token.Position // position of ":"
	IfFalse  Expr           // value if condition is falsy
}

func (x *Ternary) exprNode() {}

func (x *Ternary) Pos() token.Position { return x.Cond.Pos() }
func (x *Ternary) End() token.Position { return x.IfFalse.End() }

func (x *Ternary) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.Cond.String())
	out.WriteString(" ? ")
	out.WriteString(x.IfTrue.String())
	out.WriteString(" : ")
	out.WriteString(x.IfFalse.String())
	out.WriteString(")")
	return out.String()
}

// Call is an expression node that describes the invocation of a function.
//
// Calls synthesized by a rewrite may carry no closing paren position; their
// span then ends with their last argument.
type Call struct {
	Fun      Expr           // function expression
	Optional bool           // "f?.(x)"
	Lparen   token.Position // position of "("
	Args     []Expr         // function arguments
	Rparen   token.Position // position of ")"
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position { return x.Fun.Pos() }
func (x *Call) End() token.Position {
	if x.Rparen.IsValid() {
		return x.Rparen.Advance(1)
	}
	if len(x.Args) > 0 {
		return x.Args[len(x.Args)-1].End()
	}
	return x.Fun.End()
}

// HasSpread reports whether any argument is a spread expression.
func (x *Call) HasSpread() bool {
	for _, arg := range x.Args {
		if _, ok := arg.(*Spread); ok {
			return true
		}
	}
	return false
}

func (x *Call) String() string {
	var out bytes.Buffer
	out.WriteString(x.Fun.String())
	if x.Optional {
		out.WriteString("?.")
	}
	out.WriteString("(")
	out.WriteString(joinExprs(x.Args))
	out.WriteString(")")
	return out.String()
}

// New is a constructor call: "new Foo(a, b)".
type New struct {
	New     token.Position // position of "new" keyword
	Fun     Expr           // constructor expression
	HasArgs bool           // false for "new Foo" without parentheses
	Lparen  token.Position // position of "("
	Args    []Expr         // constructor arguments
	Rparen  token.Position // position of ")"
}

func (x *New) exprNode() {}

func (x *New) Pos() token.Position { return x.New }
func (x *New) End() token.Position {
	if x.HasArgs {
		return x.Rparen.Advance(1)
	}
	return x.Fun.End()
}

func (x *New) String() string {
	if !x.HasArgs {
		return "new " + x.Fun.String()
	}
	return "new " + x.Fun.String() + "(" + joinExprs(x.Args) + ")"
}

// GetAttr is an expression node that describes the access of an attribute
// on an object, as in "obj.attr" or "obj?.attr".
type GetAttr struct {
	X        Expr           // object expression
	Period   token.Position // position of "." or "?."
	Optional bool           // "?." access
	Attr     *Ident         // attribute name
}

func (x *GetAttr) exprNode() {}

func (x *GetAttr) Pos() token.Position { return x.X.Pos() }
func (x *GetAttr) End() token.Position { return x.Attr.End() }

func (x *GetAttr) String() string {
	if x.Optional {
		return x.X.String() + "?." + x.Attr.Name
	}
	return x.X.String() + "." + x.Attr.Name
}

// Index is an expression node that describes indexing on an object.
type Index struct {
	X        Expr           // object expression
	Optional bool           // "x?.[i]"
	Lbrack   token.Position // position of "["
	Index    Expr           // index expression
	Rbrack   token.Position // position of "]"
}

func (x *Index) exprNode() {}

func (x *Index) Pos() token.Position { return x.X.Pos() }
func (x *Index) End() token.Position { return x.Rbrack.Advance(1) }

func (x *Index) String() string {
	var out bytes.Buffer
	out.WriteString(x.X.String())
	if x.Optional {
		out.WriteString("?.")
	}
	out.WriteString("[")
	out.WriteString(x.Index.String())
	out.WriteString("]")
	return out.String()
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}
