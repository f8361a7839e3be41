package ast

import "iter"

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkList(v, n.Stmts)

	// Statements
	case *Var:
		for _, d := range n.Decls {
			Walk(v, d.Name)
			if d.Value != nil {
				Walk(v, d.Value)
			}
		}
	case *Return:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *Throw:
		Walk(v, n.Value)
	case *Block:
		walkList(v, n.Stmts)
	case *If:
		Walk(v, n.Cond)
		Walk(v, n.Consequence)
		if n.Alternative != nil {
			Walk(v, n.Alternative)
		}
	case *While:
		Walk(v, n.Cond)
		Walk(v, n.Body)
	case *DoWhile:
		Walk(v, n.Body)
		Walk(v, n.Cond)
	case *For:
		if n.Init != nil {
			Walk(v, n.Init)
		}
		if n.Cond != nil {
			Walk(v, n.Cond)
		}
		if n.Post != nil {
			Walk(v, n.Post)
		}
		Walk(v, n.Body)
	case *ForOf:
		Walk(v, n.Name)
		Walk(v, n.Iter)
		Walk(v, n.Body)
	case *Try:
		Walk(v, n.Body)
		if n.CatchIdent != nil {
			Walk(v, n.CatchIdent)
		}
		if n.CatchBlock != nil {
			Walk(v, n.CatchBlock)
		}
		if n.FinallyBlock != nil {
			Walk(v, n.FinallyBlock)
		}
	case *Switch:
		Walk(v, n.Value)
		for _, c := range n.Cases {
			Walk(v, c)
		}
	case *Case:
		if n.Expr != nil {
			Walk(v, n.Expr)
		}
		walkList(v, n.Body)

	// Error recovery nodes and leaves
	case *Break, *Continue, *Empty:
	case *Ident, *Number, *String, *Bool, *Null:

	// Expressions
	case *Template:
		for _, e := range n.Exprs {
			Walk(v, e)
		}
	case *Prefix:
		Walk(v, n.X)
	case *Postfix:
		Walk(v, n.X)
	case *Spread:
		Walk(v, n.X)
	case *Infix:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *Assign:
		Walk(v, n.X)
		Walk(v, n.Value)
	case *Ternary:
		Walk(v, n.Cond)
		Walk(v, n.IfTrue)
		Walk(v, n.IfFalse)
	case *Call:
		Walk(v, n.Fun)
		for _, arg := range n.Args {
			Walk(v, arg)
		}
	case *New:
		Walk(v, n.Fun)
		for _, arg := range n.Args {
			Walk(v, arg)
		}
	case *GetAttr:
		Walk(v, n.X)
		Walk(v, n.Attr)
	case *Index:
		Walk(v, n.X)
		Walk(v, n.Index)
	case *List:
		for _, item := range n.Items {
			Walk(v, item)
		}
	case *Object:
		for _, item := range n.Items {
			if item.Key != nil && !item.Shorthand {
				Walk(v, item.Key)
			}
			Walk(v, item.Value)
		}
	case *DefaultValue:
		Walk(v, n.Name)
		Walk(v, n.Default)
	case *Func:
		if n.Name != nil {
			Walk(v, n.Name)
		}
		for _, p := range n.Params {
			Walk(v, p)
		}
		if n.RestParam != nil {
			Walk(v, n.RestParam)
		}
		if n.Body != nil {
			Walk(v, n.Body)
		}
		if n.ExprBody != nil {
			Walk(v, n.ExprBody)
		}
	}
}

func walkList(v Visitor, list []Node) {
	for _, n := range list {
		Walk(v, n)
	}
}

// Inspect traverses an AST in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect invokes f recursively for each of the
// non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the AST rooted at node
// in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		ok := true
		Inspect(root, func(n Node) bool {
			if ok {
				ok = yield(n)
			}
			return ok
		})
	}
}
