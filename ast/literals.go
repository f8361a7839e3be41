package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/saraswati-lib/saraswati/internal/token"
)

// Number is an expression node that holds a numeric literal.
type Number struct {
	ValuePos token.Position // position of the literal
	Literal  string         // the literal as written, e.g. "0x1F" or "1.5e3"
}

func (x *Number) exprNode() {}

func (x *Number) Pos() token.Position { return x.ValuePos }
func (x *Number) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Number) String() string { return x.Literal }

// Null is an expression node that holds the null literal.
type Null struct {
	NullPos token.Position // position of "null"
}

func (x *Null) exprNode() {}

func (x *Null) Pos() token.Position { return x.NullPos }
func (x *Null) End() token.Position { return x.NullPos.Advance(4) } // len("null")

func (x *Null) String() string { return "null" }

// Bool is an expression node that holds a boolean literal.
type Bool struct {
	ValuePos token.Position // position of the literal
	Literal  string         // "true" or "false"
	Value    bool
}

func (x *Bool) exprNode() {}

func (x *Bool) Pos() token.Position { return x.ValuePos }
func (x *Bool) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Bool) String() string { return x.Literal }

// String is an expression node that holds a quoted string literal.
type String struct {
	ValuePos token.Position // position of opening quote
	Literal  string         // the raw literal including quotes
	Value    string         // the unquoted string value
}

func (x *String) exprNode() {}

func (x *String) Pos() token.Position { return x.ValuePos }
func (x *String) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *String) String() string {
	if x.Literal != "" {
		return x.Literal
	}
	return fmt.Sprintf("%q", x.Value)
}

// Template is a backtick string with optional "${...}" interpolations.
// Quasis holds the raw text around the expressions, so there is always one
// more quasi than there are expressions.
type Template struct {
	Lquote token.Position // position of opening backtick
	Quasis []string       // raw text segments
	Exprs  []Expr         // interpolated expressions
	Rquote token.Position // position of closing backtick
}

func (x *Template) exprNode() {}

func (x *Template) Pos() token.Position { return x.Lquote }
func (x *Template) End() token.Position { return x.Rquote.Advance(1) }

func (x *Template) String() string {
	var out bytes.Buffer
	out.WriteString("`")
	for i, q := range x.Quasis {
		out.WriteString(q)
		if i < len(x.Exprs) {
			out.WriteString("${")
			out.WriteString(x.Exprs[i].String())
			out.WriteString("}")
		}
	}
	out.WriteString("`")
	return out.String()
}

// FuncParam represents a function parameter: a plain identifier or an
// identifier with a default value.
type FuncParam interface {
	Expr
	ParamName() string
}

func (x *Ident) ParamName() string { return x.Name }

// DefaultValue is a parameter with a default value: "(a = 1) => a".
type DefaultValue struct {
	Name    *Ident // parameter name
	Default Expr   // default value
}

func (x *DefaultValue) exprNode() {}

func (x *DefaultValue) Pos() token.Position { return x.Name.Pos() }
func (x *DefaultValue) End() token.Position { return x.Default.End() }

func (x *DefaultValue) ParamName() string { return x.Name.Name }

func (x *DefaultValue) String() string {
	return x.Name.String() + " = " + x.Default.String()
}

// Func is an expression node that holds a function literal or an arrow
// function. A named function placed directly in a statement list is a
// function declaration.
type Func struct {
	Func      token.Position // position of "function" keyword, or of the first token of an arrow function
	Name      *Ident         // function name; nil for anonymous functions
	Lparen    token.Position // position of "("; unset for "x => x"
	Params    []FuncParam    // parameters
	RestParam *Ident         // rest parameter (e.g., ...args); nil if none
	Rparen    token.Position // position of ")"
	IsArrow   bool           // arrow function syntax
	Body      *Block         // function body; nil for an arrow with an expression body
	ExprBody  Expr           // expression body of an arrow function
}

func (x *Func) exprNode() {}
func (x *Func) stmtNode() {} // named functions are also statements

func (x *Func) Pos() token.Position { return x.Func }

func (x *Func) End() token.Position {
	if x.Body != nil {
		return x.Body.End()
	}
	if x.ExprBody != nil {
		return x.ExprBody.End()
	}
	return x.Rparen.Advance(1)
}

// ParamNames returns the names bound by the parameter list, including the
// rest parameter.
func (x *Func) ParamNames() []string {
	names := make([]string, 0, len(x.Params)+1)
	for _, p := range x.Params {
		names = append(names, p.ParamName())
	}
	if x.RestParam != nil {
		names = append(names, x.RestParam.Name)
	}
	return names
}

func (x *Func) String() string {
	var out bytes.Buffer
	params := make([]string, 0, len(x.Params)+1)
	for _, p := range x.Params {
		params = append(params, p.String())
	}
	if x.RestParam != nil {
		params = append(params, "..."+x.RestParam.Name)
	}
	if x.IsArrow {
		out.WriteString("(")
		out.WriteString(strings.Join(params, ", "))
		out.WriteString(") => ")
		if x.ExprBody != nil {
			out.WriteString(x.ExprBody.String())
		} else {
			out.WriteString(x.Body.String())
		}
		return out.String()
	}
	out.WriteString("function")
	if x.Name != nil {
		out.WriteString(" ")
		out.WriteString(x.Name.Name)
	}
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") ")
	out.WriteString(x.Body.String())
	return out.String()
}

// List is an expression node that builds an array.
type List struct {
	Lbrack token.Position // position of "["
	Items  []Expr         // list elements
	Rbrack token.Position // position of "]"
}

func (x *List) exprNode() {}

func (x *List) Pos() token.Position { return x.Lbrack }
func (x *List) End() token.Position { return x.Rbrack.Advance(1) }

func (x *List) String() string { return "[" + joinExprs(x.Items) + "]" }

// ObjectItem represents a single entry in an object literal.
// For spread expressions (...obj), Key is nil and Value is the spread expression.
type ObjectItem struct {
	Key       Expr // *Ident, *String, *Number, or any expression when Computed
	Computed  bool // "[expr]: value"
	Shorthand bool // "{ a }" meaning "{ a: a }"
	Value     Expr
}

// Object is an expression node that builds an object.
type Object struct {
	Lbrace token.Position // position of "{"
	Items  []ObjectItem   // ordered items (key-value pairs or spreads)
	Rbrace token.Position // position of "}"
}

func (x *Object) exprNode() {}

func (x *Object) Pos() token.Position { return x.Lbrace }
func (x *Object) End() token.Position { return x.Rbrace.Advance(1) }

// HasSpread returns true if any items are spread expressions
func (x *Object) HasSpread() bool {
	for _, item := range x.Items {
		if item.Key == nil {
			return true
		}
	}
	return false
}

func (x *Object) String() string {
	pairs := make([]string, 0, len(x.Items))
	for _, item := range x.Items {
		switch {
		case item.Key == nil:
			pairs = append(pairs, item.Value.String())
		case item.Shorthand:
			pairs = append(pairs, item.Key.String())
		case item.Computed:
			pairs = append(pairs, "["+item.Key.String()+"]: "+item.Value.String())
		default:
			pairs = append(pairs, item.Key.String()+": "+item.Value.String())
		}
	}
	if len(pairs) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(pairs, ", ") + " }"
}
