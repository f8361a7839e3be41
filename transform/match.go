package transform

import (
	"fmt"

	"github.com/saraswati-lib/saraswati/ast"
	"github.com/saraswati-lib/saraswati/errors"
)

// Class is the outcome of classifying a call expression.
type Class int

const (
	NotTarget Class = iota
	TargetValid
	TargetInvalidContext
)

func (c Class) String() string {
	switch c {
	case NotTarget:
		return "not-target"
	case TargetValid:
		return "target"
	case TargetInvalidContext:
		return "invalid-context"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Site is a call expression together with its position in the tree.
type Site struct {
	Call *ast.Call

	// Statement is set when the call stands alone as a statement.
	Statement bool

	// Trailing holds the statements that follow the call in its statement
	// list. It is nil for expression sites and for statement bodies such as
	// "if (x) yield()".
	Trailing []ast.Node
}

// Match is the result of Classify. Code and Reason are set for
// TargetInvalidContext, and for a NotTarget caused by shadowing.
type Match struct {
	Class    Class
	Code     errors.ErrorCode
	Reason   string
	Shadowed bool
}

// Matcher decides whether call sites are target calls. It holds no per-run
// state and may be shared.
type Matcher struct {
	sig    Signature
	mode   Mode
	callee []string
}

// NewMatcher returns a matcher for sig under mode.
func NewMatcher(sig Signature, mode Mode) *Matcher {
	return &Matcher{sig: sig, mode: mode, callee: sig.CalleePath()}
}

// MatchesCallee reports whether fun has the shape of the signature's
// callee path. Optional member access never matches.
func (m *Matcher) MatchesCallee(fun ast.Expr) bool {
	path, ok := calleePath(fun)
	if !ok || len(path) != len(m.callee) {
		return false
	}
	for i := range path {
		if path[i] != m.callee[i] {
			return false
		}
	}
	return true
}

func calleePath(fun ast.Expr) ([]string, bool) {
	switch f := fun.(type) {
	case *ast.Ident:
		return []string{f.Name}, true
	case *ast.GetAttr:
		if f.Optional {
			return nil, false
		}
		path, ok := calleePath(f.X)
		if !ok {
			return nil, false
		}
		return append(path, f.Attr.Name), true
	}
	return nil, false
}

// Classify inspects the call at site with the scope stack positioned at the
// call. It does not modify the tree or the stack.
func (m *Matcher) Classify(site Site, scopes *Scopes) Match {
	call := site.Call
	if call.Optional || !m.MatchesCallee(call.Fun) {
		return Match{Class: NotTarget}
	}
	if m.sig.RespectShadowing {
		if kind, ok := scopes.Lookup(m.callee[0]); ok {
			return Match{
				Class:    NotTarget,
				Code:     errors.E2100,
				Reason:   fmt.Sprintf("%q is bound by a local %s declaration; the call is left as is", m.callee[0], kind),
				Shadowed: true,
			}
		}
	}

	name := m.sig.Callee + "(...)"
	if m.requiresStatement() && !site.Statement {
		return invalid(errors.E2001, "%s must be used as a standalone statement", name)
	}
	switch m.sig.Context {
	case ContextBlock:
		if !scopes.InBlock() {
			return invalid(errors.E2002, "%s must be used inside a block", name)
		}
	case ContextFunction:
		if scopes.FunctionDepth() == 0 {
			return invalid(errors.E2002, "%s must be used inside a function body", name)
		}
	}
	if !m.sig.AllowNestedFunctions {
		home := 0
		if m.sig.Context == ContextFunction {
			home = 1
		}
		if scopes.FunctionDepth() > home {
			return invalid(errors.E2003, "%s cannot be used inside a nested function", name)
		}
	}
	if n := len(call.Args); !call.HasSpread() && (n < m.sig.MinArgs || (m.sig.MaxArgs != Unbounded && n > m.sig.MaxArgs)) {
		return invalid(errors.E2004, "%s expects %s, got %d", name, m.sig.arity(), n)
	}
	if call.HasSpread() && !m.sig.Unconstrained() {
		return invalid(errors.E2005, "%s does not accept spread arguments", name)
	}
	if m.mode == ModeContinuation {
		if match, ok := checkTrailing(name, site.Trailing); !ok {
			return match
		}
	}
	return Match{Class: TargetValid}
}

func (m *Matcher) requiresStatement() bool {
	return m.sig.Placement == PlacementStatement || m.mode.RequiresStatement()
}

func invalid(code errors.ErrorCode, format string, args ...any) Match {
	return Match{
		Class:  TargetInvalidContext,
		Code:   code,
		Reason: fmt.Sprintf(format, args...),
	}
}

// checkTrailing verifies that the statements following a target call can be
// moved into a continuation function without changing their meaning.
func checkTrailing(name string, trailing []ast.Node) (Match, bool) {
	for _, stmt := range trailing {
		if fn, ok := stmt.(*ast.Func); ok && fn.Name != nil {
			return invalid(errors.E2007, "function declaration %q after %s cannot move into the continuation", fn.Name.Name, name), false
		}
	}
	var found Match
	ok := true
	for _, stmt := range trailing {
		inspectControl(stmt, 0, 0, func(n ast.Node, loops, switches int) bool {
			switch n := n.(type) {
			case *ast.Return:
				found = invalid(errors.E2006, "return statement after %s would escape the continuation", name)
			case *ast.Break:
				if loops+switches > 0 {
					return true
				}
				found = invalid(errors.E2006, "break statement after %s would escape the continuation", name)
			case *ast.Continue:
				if loops > 0 {
					return true
				}
				found = invalid(errors.E2006, "continue statement after %s would escape the continuation", name)
			case *ast.Var:
				if n.Kind != "var" {
					return true
				}
				found = invalid(errors.E2007, "var declaration of %q after %s cannot move into the continuation", n.Decls[0].Name.Name, name)
			default:
				return true
			}
			ok = false
			return false
		})
		if !ok {
			return found, false
		}
	}
	return Match{}, true
}

// inspectControl visits the statements under node that are not inside a
// nested function, tracking how many loops and switches enclose each one.
// It stops as soon as visit returns false.
func inspectControl(node ast.Node, loops, switches int, visit func(ast.Node, int, int) bool) bool {
	if node == nil {
		return true
	}
	if !visit(node, loops, switches) {
		return false
	}
	each := func(nodes []ast.Node, loops, switches int) bool {
		for _, n := range nodes {
			if !inspectControl(n, loops, switches, visit) {
				return false
			}
		}
		return true
	}
	switch n := node.(type) {
	case *ast.Block:
		return each(n.Stmts, loops, switches)
	case *ast.If:
		return inspectControl(n.Consequence, loops, switches, visit) &&
			(n.Alternative == nil || inspectControl(n.Alternative, loops, switches, visit))
	case *ast.While:
		return inspectControl(n.Body, loops+1, switches, visit)
	case *ast.DoWhile:
		return inspectControl(n.Body, loops+1, switches, visit)
	case *ast.For:
		if v, ok := n.Init.(*ast.Var); ok && !visit(v, loops, switches) {
			return false
		}
		return inspectControl(n.Body, loops+1, switches, visit)
	case *ast.ForOf:
		if n.Kind == "var" {
			decl := &ast.Var{Decl: n.For, Kind: "var", Decls: []*ast.Declarator{{Name: n.Name}}}
			if !visit(decl, loops, switches) {
				return false
			}
		}
		return inspectControl(n.Body, loops+1, switches, visit)
	case *ast.Try:
		return inspectControl(n.Body, loops, switches, visit) &&
			(n.CatchBlock == nil || inspectControl(n.CatchBlock, loops, switches, visit)) &&
			(n.FinallyBlock == nil || inspectControl(n.FinallyBlock, loops, switches, visit))
	case *ast.Switch:
		for _, c := range n.Cases {
			if !each(c.Body, loops, switches+1) {
				return false
			}
		}
	}
	return true
}
