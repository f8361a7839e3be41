// Package printer renders syntax trees back to source text.
//
// The output is normalized: statements are terminated with semicolons,
// blocks are indented and expressions are parenthesized by precedence
// rather than by how they were written.
package printer

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/saraswati-lib/saraswati/ast"
)

// DefaultIndent is the number of spaces used per indentation level.
const DefaultIndent = 2

// Config controls the printer output.
type Config struct {
	// Indent is the number of spaces per indentation level. Zero means
	// DefaultIndent.
	Indent int
}

// Fprint writes the source form of node to w using the default Config.
func Fprint(w io.Writer, node ast.Node) error {
	return Config{}.Fprint(w, node)
}

// Print returns the source form of node using the default Config.
func Print(node ast.Node) string {
	return Config{}.Print(node)
}

// Fprint writes the source form of node to w.
func (c Config) Fprint(w io.Writer, node ast.Node) error {
	_, err := io.WriteString(w, c.Print(node))
	return err
}

// Print returns the source form of node.
func (c Config) Print(node ast.Node) string {
	indent := c.Indent
	if indent <= 0 {
		indent = DefaultIndent
	}
	p := &printer{unit: strings.Repeat(" ", indent), stmtStart: -1}
	switch n := node.(type) {
	case *ast.Program:
		for _, stmt := range n.Stmts {
			p.stmt(stmt)
			p.buf.WriteString("\n")
		}
	case *ast.Func:
		if n.Name != nil {
			p.stmt(n)
		} else {
			p.expr(n, lowest)
		}
	case ast.Stmt:
		p.stmt(n)
	case ast.Expr:
		p.expr(n, lowest)
	case nil:
	default:
		fmt.Fprintf(&p.buf, "/* %T */", n)
	}
	return p.buf.String()
}

type printer struct {
	buf    bytes.Buffer
	unit   string
	indent int

	// stmtStart is the buffer offset where the current expression statement
	// began. Object literals and function expressions printed there need
	// parentheses so they are not read as blocks or declarations.
	stmtStart int

	// noIn parenthesizes "in" expressions inside a for-loop initializer.
	noIn bool
}

func (p *printer) writeIndent() {
	p.buf.WriteString(strings.Repeat(p.unit, p.indent))
}

func (p *printer) newline() {
	p.buf.WriteString("\n")
	p.writeIndent()
}

// stmt prints one entry of a statement list, including its terminator.
func (p *printer) stmt(node ast.Node) {
	switch n := node.(type) {
	case *ast.Func:
		if n.Name != nil {
			p.funcLiteral(n)
			return
		}
		p.exprStmt(n)

	case *ast.Var:
		p.varDecl(n)
		p.buf.WriteString(";")

	case *ast.Return:
		p.buf.WriteString("return")
		if n.Value != nil {
			p.buf.WriteString(" ")
			p.expr(n.Value, lowest)
		}
		p.buf.WriteString(";")

	case *ast.Throw:
		p.buf.WriteString("throw ")
		p.expr(n.Value, lowest)
		p.buf.WriteString(";")

	case *ast.Break:
		p.buf.WriteString("break;")

	case *ast.Continue:
		p.buf.WriteString("continue;")

	case *ast.Empty:
		p.buf.WriteString(";")

	case *ast.Block:
		p.block(n)

	case *ast.If:
		p.buf.WriteString("if (")
		p.expr(n.Cond, lowest)
		p.buf.WriteString(")")
		p.body(n.Consequence)
		if n.Alternative == nil {
			return
		}
		if _, ok := n.Consequence.(*ast.Block); ok {
			p.buf.WriteString(" ")
		} else {
			p.newline()
		}
		p.buf.WriteString("else")
		if elif, ok := n.Alternative.(*ast.If); ok {
			p.buf.WriteString(" ")
			p.stmt(elif)
			return
		}
		p.body(n.Alternative)

	case *ast.While:
		p.buf.WriteString("while (")
		p.expr(n.Cond, lowest)
		p.buf.WriteString(")")
		p.body(n.Body)

	case *ast.DoWhile:
		p.buf.WriteString("do")
		p.body(n.Body)
		if _, ok := n.Body.(*ast.Block); ok {
			p.buf.WriteString(" ")
		} else {
			p.newline()
		}
		p.buf.WriteString("while (")
		p.expr(n.Cond, lowest)
		p.buf.WriteString(");")

	case *ast.For:
		p.buf.WriteString("for (")
		if n.Init != nil {
			p.noIn = true
			if v, ok := n.Init.(*ast.Var); ok {
				p.varDecl(v)
			} else if e, ok := n.Init.(ast.Expr); ok {
				p.expr(e, lowest)
			}
			p.noIn = false
		}
		p.buf.WriteString(";")
		if n.Cond != nil {
			p.buf.WriteString(" ")
			p.expr(n.Cond, lowest)
		}
		p.buf.WriteString(";")
		if n.Post != nil {
			p.buf.WriteString(" ")
			p.expr(n.Post, lowest)
		}
		p.buf.WriteString(")")
		p.body(n.Body)

	case *ast.ForOf:
		p.buf.WriteString("for (")
		if n.Kind != "" {
			p.buf.WriteString(n.Kind + " ")
		}
		p.buf.WriteString(n.Name.Name)
		if n.In {
			p.buf.WriteString(" in ")
			p.expr(n.Iter, lowest)
		} else {
			p.buf.WriteString(" of ")
			p.expr(n.Iter, assign)
		}
		p.buf.WriteString(")")
		p.body(n.Body)

	case *ast.Try:
		p.buf.WriteString("try ")
		p.block(n.Body)
		if n.CatchBlock != nil {
			p.buf.WriteString(" catch ")
			if n.CatchIdent != nil {
				p.buf.WriteString("(" + n.CatchIdent.Name + ") ")
			}
			p.block(n.CatchBlock)
		}
		if n.FinallyBlock != nil {
			p.buf.WriteString(" finally ")
			p.block(n.FinallyBlock)
		}

	case *ast.Switch:
		p.buf.WriteString("switch (")
		p.expr(n.Value, lowest)
		p.buf.WriteString(") {")
		for _, c := range n.Cases {
			p.newline()
			if c.Default {
				p.buf.WriteString("default:")
			} else {
				p.buf.WriteString("case ")
				p.expr(c.Expr, lowest)
				p.buf.WriteString(":")
			}
			p.indent++
			for _, s := range c.Body {
				p.newline()
				p.stmt(s)
			}
			p.indent--
		}
		p.newline()
		p.buf.WriteString("}")

	case ast.Expr:
		p.exprStmt(n)

	default:
		// Fallback: print type name
		fmt.Fprintf(&p.buf, "/* %T */", n)
	}
}

func (p *printer) exprStmt(x ast.Expr) {
	saved := p.stmtStart
	p.stmtStart = p.buf.Len()
	p.expr(x, lowest)
	p.stmtStart = saved
	p.buf.WriteString(";")
}

func (p *printer) varDecl(v *ast.Var) {
	p.buf.WriteString(v.Kind)
	for i, d := range v.Decls {
		if i > 0 {
			p.buf.WriteString(",")
		}
		p.buf.WriteString(" ")
		p.buf.WriteString(d.Name.Name)
		if d.Value != nil {
			p.buf.WriteString(" = ")
			p.expr(d.Value, assign)
		}
	}
}

func (p *printer) block(b *ast.Block) {
	if len(b.Stmts) == 0 {
		p.buf.WriteString("{}")
		return
	}
	p.buf.WriteString("{")
	p.indent++
	for _, s := range b.Stmts {
		p.newline()
		p.stmt(s)
	}
	p.indent--
	p.newline()
	p.buf.WriteString("}")
}

// body prints the body of a control statement. Blocks stay on the same
// line; other statements go on their own indented line.
func (p *printer) body(node ast.Node) {
	if b, ok := node.(*ast.Block); ok {
		p.buf.WriteString(" ")
		p.block(b)
		return
	}
	p.indent++
	p.newline()
	p.stmt(node)
	p.indent--
}

// Operator precedence levels, loosest first.
const (
	lowest = iota
	assign
	ternary
	nullish
	or
	and
	bitOr
	bitXor
	bitAnd
	equality
	relational
	shift
	additive
	multiplicative
	power
	prefix
	postfix
	call
	primary
)

var infixPrecedence = map[string]int{
	"??": nullish,
	"||": or, "&&": and,
	"|": bitOr, "^": bitXor, "&": bitAnd,
	"==": equality, "!=": equality, "===": equality, "!==": equality,
	"<": relational, "<=": relational, ">": relational, ">=": relational,
	"in": relational, "instanceof": relational,
	"<<": shift, ">>": shift, ">>>": shift,
	"+": additive, "-": additive,
	"*": multiplicative, "/": multiplicative, "%": multiplicative,
	"**": power,
}

func precedence(x ast.Expr) int {
	switch n := x.(type) {
	case *ast.Assign:
		return assign
	case *ast.Ternary:
		return ternary
	case *ast.Infix:
		if prec, ok := infixPrecedence[n.Op]; ok {
			return prec
		}
		return lowest
	case *ast.Prefix:
		return prefix
	case *ast.Postfix:
		return postfix
	case *ast.Call, *ast.GetAttr, *ast.Index:
		return call
	case *ast.New:
		if !n.HasArgs {
			// "new Foo" cannot be called or accessed without parentheses.
			return postfix
		}
		return call
	case *ast.Func:
		if n.IsArrow {
			return assign
		}
		return primary
	case *ast.Spread:
		return assign
	}
	return primary
}

// expr prints x, adding parentheses when its precedence is below min.
func (p *printer) expr(x ast.Expr, min int) {
	parens := precedence(x) < min || p.needsParens(x)
	if parens {
		p.buf.WriteString("(")
		noIn := p.noIn
		p.noIn = false
		defer func() { p.noIn = noIn }()
	}
	p.exprInner(x)
	if parens {
		p.buf.WriteString(")")
	}
}

func (p *printer) needsParens(x ast.Expr) bool {
	atStart := p.buf.Len() == p.stmtStart
	switch n := x.(type) {
	case *ast.Object:
		return atStart
	case *ast.Func:
		return atStart && !n.IsArrow
	case *ast.Infix:
		return p.noIn && n.Op == "in"
	}
	return false
}

func (p *printer) exprInner(x ast.Expr) {
	switch n := x.(type) {
	case *ast.Ident:
		p.buf.WriteString(n.Name)

	case *ast.Number:
		p.buf.WriteString(n.Literal)

	case *ast.String:
		if n.Literal != "" {
			p.buf.WriteString(n.Literal)
		} else {
			p.buf.WriteString(strconv.Quote(n.Value))
		}

	case *ast.Bool:
		if n.Value {
			p.buf.WriteString("true")
		} else {
			p.buf.WriteString("false")
		}

	case *ast.Null:
		p.buf.WriteString("null")

	case *ast.Template:
		p.buf.WriteString("`")
		for i, q := range n.Quasis {
			p.buf.WriteString(q)
			if i < len(n.Exprs) {
				p.buf.WriteString("${")
				p.expr(n.Exprs[i], lowest)
				p.buf.WriteString("}")
			}
		}
		p.buf.WriteString("`")

	case *ast.List:
		p.buf.WriteString("[")
		p.exprList(n.Items)
		p.buf.WriteString("]")

	case *ast.Object:
		p.object(n)

	case *ast.Func:
		p.funcLiteral(n)

	case *ast.Spread:
		p.buf.WriteString("...")
		p.expr(n.X, assign)

	case *ast.Prefix:
		p.buf.WriteString(n.Op)
		if needsSpaceAfterPrefix(n) {
			p.buf.WriteString(" ")
		}
		p.expr(n.X, prefix)

	case *ast.Postfix:
		p.expr(n.X, call)
		p.buf.WriteString(n.Op)

	case *ast.Infix:
		p.infix(n)

	case *ast.Assign:
		p.expr(n.X, call)
		p.buf.WriteString(" " + n.Op + " ")
		p.expr(n.Value, assign)

	case *ast.Ternary:
		p.expr(n.Cond, nullish)
		p.buf.WriteString(" ? ")
		p.expr(n.IfTrue, assign)
		p.buf.WriteString(" : ")
		p.expr(n.IfFalse, assign)

	case *ast.Call:
		p.expr(n.Fun, call)
		if n.Optional {
			p.buf.WriteString("?.")
		}
		p.buf.WriteString("(")
		p.exprList(n.Args)
		p.buf.WriteString(")")

	case *ast.New:
		p.buf.WriteString("new ")
		if precedence(n.Fun) < call || containsCall(n.Fun) {
			p.buf.WriteString("(")
			p.exprInner(n.Fun)
			p.buf.WriteString(")")
		} else {
			p.exprInner(n.Fun)
		}
		if n.HasArgs {
			p.buf.WriteString("(")
			p.exprList(n.Args)
			p.buf.WriteString(")")
		}

	case *ast.GetAttr:
		p.memberObject(n.X)
		if n.Optional {
			p.buf.WriteString("?.")
		} else {
			p.buf.WriteString(".")
		}
		p.buf.WriteString(n.Attr.Name)

	case *ast.Index:
		p.memberObject(n.X)
		if n.Optional {
			p.buf.WriteString("?.")
		}
		p.buf.WriteString("[")
		p.expr(n.Index, lowest)
		p.buf.WriteString("]")

	case *ast.DefaultValue:
		p.buf.WriteString(n.Name.Name)
		p.buf.WriteString(" = ")
		p.expr(n.Default, assign)

	default:
		// Fallback: print type name
		fmt.Fprintf(&p.buf, "/* %T */", n)
	}
}

func (p *printer) infix(n *ast.Infix) {
	prec := infixPrecedence[n.Op]
	left, right := prec, prec+1
	if n.Op == "**" {
		// Right-associative, and a unary operand on the left is not allowed.
		left, right = postfix, prec
	}
	p.operand(n.X, n.Op, left)
	p.buf.WriteString(" " + n.Op + " ")
	p.operand(n.Y, n.Op, right)
}

// operand prints one side of an infix expression. "??" cannot be mixed
// with "||" or "&&" without parentheses.
func (p *printer) operand(x ast.Expr, op string, min int) {
	if inner, ok := x.(*ast.Infix); ok && mixesNullish(op, inner.Op) {
		min = primary
	}
	p.expr(x, min)
}

func mixesNullish(outer, inner string) bool {
	logical := func(op string) bool { return op == "||" || op == "&&" }
	return (outer == "??" && logical(inner)) || (logical(outer) && inner == "??")
}

// memberObject prints the object of a member access. Number literals are
// parenthesized so the "." is not read as a decimal point.
func (p *printer) memberObject(x ast.Expr) {
	if _, ok := x.(*ast.Number); ok {
		p.buf.WriteString("(")
		p.exprInner(x)
		p.buf.WriteString(")")
		return
	}
	p.expr(x, call)
}

func (p *printer) exprList(items []ast.Expr) {
	for i, item := range items {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		p.expr(item, assign)
	}
}

func (p *printer) object(n *ast.Object) {
	if len(n.Items) == 0 {
		p.buf.WriteString("{}")
		return
	}
	p.buf.WriteString("{ ")
	for i, item := range n.Items {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		switch {
		case item.Key == nil:
			p.expr(item.Value, assign)
		case item.Shorthand:
			p.exprInner(item.Key)
		case item.Computed:
			p.buf.WriteString("[")
			p.expr(item.Key, assign)
			p.buf.WriteString("]: ")
			p.expr(item.Value, assign)
		default:
			p.exprInner(item.Key)
			p.buf.WriteString(": ")
			p.expr(item.Value, assign)
		}
	}
	p.buf.WriteString(" }")
}

func (p *printer) funcLiteral(n *ast.Func) {
	if n.IsArrow {
		p.buf.WriteString("(")
		p.params(n)
		p.buf.WriteString(") => ")
		if n.ExprBody != nil {
			// An object literal body must be parenthesized.
			if _, ok := n.ExprBody.(*ast.Object); ok {
				p.buf.WriteString("(")
				p.exprInner(n.ExprBody)
				p.buf.WriteString(")")
			} else {
				p.expr(n.ExprBody, assign)
			}
		} else {
			p.block(n.Body)
		}
		return
	}
	p.buf.WriteString("function")
	if n.Name != nil {
		p.buf.WriteString(" ")
		p.buf.WriteString(n.Name.Name)
	} else {
		p.buf.WriteString(" ")
	}
	p.buf.WriteString("(")
	p.params(n)
	p.buf.WriteString(") ")
	p.block(n.Body)
}

func (p *printer) params(n *ast.Func) {
	for i, param := range n.Params {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		p.exprInner(param)
	}
	if n.RestParam != nil {
		if len(n.Params) > 0 {
			p.buf.WriteString(", ")
		}
		p.buf.WriteString("...")
		p.buf.WriteString(n.RestParam.Name)
	}
}

func needsSpaceAfterPrefix(n *ast.Prefix) bool {
	switch n.Op {
	case "typeof", "void", "delete":
		return true
	case "-", "--":
		return startsWithOp(n.X, '-')
	case "+", "++":
		return startsWithOp(n.X, '+')
	}
	return false
}

// startsWithOp reports whether x prints with a leading c, as in "-(-a)"
// where "--a" would read as a decrement.
func startsWithOp(x ast.Expr, c byte) bool {
	switch n := x.(type) {
	case *ast.Prefix:
		return n.Op[0] == c
	case *ast.Number:
		return strings.HasPrefix(n.Literal, string(c))
	}
	return false
}

// containsCall reports whether a member chain includes a call, which
// must be parenthesized when used as a "new" target.
func containsCall(x ast.Expr) bool {
	switch n := x.(type) {
	case *ast.Call:
		return true
	case *ast.GetAttr:
		return containsCall(n.X)
	case *ast.Index:
		return containsCall(n.X)
	}
	return false
}
