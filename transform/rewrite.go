package transform

import (
	"fmt"
	"strconv"

	"github.com/saraswati-lib/saraswati/ast"
	"github.com/saraswati-lib/saraswati/internal/token"
)

// Replacement is the output of a rewrite. Exactly one of Expr and Stmts is
// set. Continuation is set in continuation mode and points at the body of
// the synthesized function, which holds the trailing statements of the
// original list and still needs to be walked.
type Replacement struct {
	Expr         ast.Expr
	Stmts        []ast.Node
	Continuation *ast.Block
}

// rewriter produces replacements for confirmed target calls. Temporary
// names are numbered per run.
type rewriter struct {
	mode    Mode
	runtime []string
	scopes  *Scopes
	temps   int
}

func newRewriter(mode Mode, sig Signature, scopes *Scopes) *rewriter {
	return &rewriter{mode: mode, runtime: sig.RuntimePath(), scopes: scopes}
}

// rewrite dispatches on the mode. A site the mode has no strategy for is an
// internal inconsistency between the matcher and the rewriter.
func (r *rewriter) rewrite(site Site) (Replacement, error) {
	switch r.mode {
	case ModeDirect:
		return r.direct(site), nil
	case ModeLowered:
		if !site.Statement {
			return Replacement{}, internalError("lowered rewrite of expression-position call at %s", SpanOf(site.Call))
		}
		return r.lowered(site), nil
	case ModeContinuation:
		if !site.Statement {
			return Replacement{}, internalError("continuation rewrite of expression-position call at %s", SpanOf(site.Call))
		}
		return r.continuation(site), nil
	default:
		return Replacement{}, internalError("no rewrite strategy for %s", r.mode)
	}
}

func internalError(format string, args ...any) error {
	return &AbortError{Err: ErrInternal, Detail: fmt.Sprintf(format, args...)}
}

// runtimeCallee builds the runtime path over [from, to). The root
// identifier carries the whole span and the attribute names are empty
// ranges at to, so the path nests inside the span it replaces.
func (r *rewriter) runtimeCallee(from, to token.Position) ast.Expr {
	var expr ast.Expr = &ast.Ident{NamePos: from, Name: r.runtime[0], NameEnd: to}
	for _, seg := range r.runtime[1:] {
		expr = &ast.GetAttr{
			X:      expr,
			Period: to,
			Attr:   &ast.Ident{NamePos: to, Name: seg, NameEnd: to},
		}
	}
	return expr
}

// direct swaps the callee of the call for the runtime path.
func (r *rewriter) direct(site Site) Replacement {
	call := site.Call
	call.Fun = r.runtimeCallee(call.Fun.Pos(), call.Fun.End())
	return Replacement{Expr: call}
}

// lowered hoists each argument into a const temporary, in order, and calls
// the runtime with the temporaries. A spread argument is hoisted as an array
// copy and spread again at the call. Each declaration takes its argument's
// span and the new call sits on the original closing paren.
func (r *rewriter) lowered(site Site) Replacement {
	call := site.Call
	anchor := call.Rparen
	if !anchor.IsValid() {
		anchor = call.End()
	}
	stmts := make([]ast.Node, 0, len(call.Args)+1)
	args := make([]ast.Expr, 0, len(call.Args))
	for _, arg := range call.Args {
		value, spread := arg, false
		if s, ok := arg.(*ast.Spread); ok {
			// Spread a copy now so later arguments cannot change what the
			// runtime call receives.
			value = &ast.List{
				Lbrack: s.Pos(),
				Items:  []ast.Expr{&ast.Spread{Ellipsis: s.Ellipsis, X: s.X}},
				Rbrack: s.End().Advance(-1),
			}
			spread = true
		}
		name := r.freshName()
		stmts = append(stmts, &ast.Var{
			Decl: value.Pos(),
			Kind: "const",
			Decls: []*ast.Declarator{{
				Name:  &ast.Ident{NamePos: value.Pos(), Name: name, NameEnd: value.Pos()},
				Value: value,
			}},
		})
		var ref ast.Expr = &ast.Ident{NamePos: anchor, Name: name, NameEnd: anchor}
		if spread {
			ref = &ast.Spread{Ellipsis: anchor, X: ref}
		}
		args = append(args, ref)
	}
	stmts = append(stmts, &ast.Call{
		Fun:    r.runtimeCallee(anchor, anchor),
		Lparen: anchor,
		Args:   args,
		Rparen: anchor,
	})
	return Replacement{Stmts: stmts}
}

// freshName returns a temporary name not visible from the current scope and
// binds it there.
func (r *rewriter) freshName() string {
	prefix := "__" + r.runtime[len(r.runtime)-1]
	for {
		name := prefix + strconv.Itoa(r.temps)
		r.temps++
		if _, taken := r.scopes.Lookup(name); !taken {
			r.scopes.Declare(name, BindingTemp)
			return name
		}
	}
}

// continuation moves the trailing statements into an arrow function passed
// as the last runtime argument, so this and arguments keep their meaning. The function spans the trailing statements, or is
// empty at the end of the call when there are none.
func (r *rewriter) continuation(site Site) Replacement {
	call := site.Call
	start := call.End()
	if len(site.Trailing) > 0 {
		start = site.Trailing[0].Pos()
	}
	body := &ast.Block{Lbrace: start, Stmts: append([]ast.Node(nil), site.Trailing...)}
	fn := &ast.Func{Func: start, Lparen: start, Rparen: start, IsArrow: true, Body: body}
	call.Fun = r.runtimeCallee(call.Fun.Pos(), call.Fun.End())
	call.Args = append(call.Args, fn)
	call.Rparen = token.NoPos
	return Replacement{Stmts: []ast.Node{call}, Continuation: body}
}
