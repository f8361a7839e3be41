package transform

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/saraswati-lib/saraswati/ast"
)

// State is the walker's position in its per-traversal state machine.
type State int

const (
	StateIdle State = iota
	StateVisiting
	StateRecursing
	StateClassifying
	StateRewriting
	StateSplicing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateVisiting:
		return "visiting"
	case StateRecursing:
		return "recursing"
	case StateClassifying:
		return "classifying"
	case StateRewriting:
		return "rewriting"
	case StateSplicing:
		return "splicing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// walker performs one post-order traversal. Children are visited before
// the call that contains them is classified, and every Enter is paired with
// a deferred Exit so the stack unwinds on aborts too.
type walker struct {
	matcher  *Matcher
	rewriter *rewriter
	scopes   *Scopes
	strict   bool
	dryRun   bool
	logger   zerolog.Logger

	diags    Diagnostics
	rewrites int
	state    State
	visits   map[State]int
}

func newWalker(m *Matcher, mode Mode, sig Signature, strict, dryRun bool, logger zerolog.Logger) *walker {
	scopes := NewScopes()
	return &walker{
		matcher:  m,
		rewriter: newRewriter(mode, sig, scopes),
		scopes:   scopes,
		strict:   strict,
		dryRun:   dryRun,
		logger:   logger,
		visits:   map[State]int{},
	}
}

func (w *walker) setState(s State) {
	w.state = s
	w.visits[s]++
}

func (w *walker) walkProgram(p *ast.Program) error {
	w.scopes.declareHoisted(p.Stmts)
	w.scopes.declareLexical(p.Stmts)
	stmts, err := w.walkStmts(p.Stmts)
	if err != nil {
		return err
	}
	p.Stmts = stmts
	w.setState(StateDone)
	w.logger.Debug().
		Int("rewrites", w.rewrites).
		Int("diagnostics", len(w.diags)).
		Int("calls_classified", w.visits[StateClassifying]).
		Int("max_depth", w.scopes.Stats().MaxDepth).
		Msg("walk complete")
	return nil
}

// walkStmts walks a statement list and returns the list with replacements
// spliced in. A continuation rewrite consumes the rest of the list.
func (w *walker) walkStmts(list []ast.Node) ([]ast.Node, error) {
	out := make([]ast.Node, 0, len(list))
	for i, stmt := range list {
		w.setState(StateVisiting)
		call, ok := stmt.(*ast.Call)
		if !ok {
			node, err := w.walkStmt(stmt)
			if err != nil {
				return nil, err
			}
			out = append(out, node)
			continue
		}
		stmts, consumed, err := w.walkCallStmt(call, list[i+1:])
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)
		if consumed {
			break
		}
	}
	return out, nil
}

// walkCallStmt handles a call standing alone as a statement. It reports
// whether the trailing statements were moved into a continuation.
func (w *walker) walkCallStmt(call *ast.Call, trailing []ast.Node) ([]ast.Node, bool, error) {
	if err := w.walkCallChildren(call); err != nil {
		return nil, false, err
	}
	repl, rewritten, err := w.visitCall(Site{Call: call, Statement: true, Trailing: trailing})
	if err != nil {
		return nil, false, err
	}
	switch {
	case !rewritten:
		return []ast.Node{call}, false, nil
	case repl.Expr != nil:
		return []ast.Node{repl.Expr}, false, nil
	case repl.Continuation != nil:
		if w.matcher.mode.RevisitsReplacement() && len(repl.Continuation.Stmts) > 0 {
			w.setState(StateRecursing)
			if err := w.walkContinuation(repl.Continuation); err != nil {
				return nil, false, err
			}
		}
		return repl.Stmts, true, nil
	default:
		return repl.Stmts, false, nil
	}
}

func (w *walker) walkContinuation(body *ast.Block) error {
	w.scopes.Enter(ScopeContinuation)
	defer w.scopes.Exit()
	w.scopes.declareLexical(body.Stmts)
	stmts, err := w.walkStmts(body.Stmts)
	if err != nil {
		return err
	}
	body.Stmts = stmts
	return nil
}

// visitCall classifies a call whose children have been walked and rewrites
// it when it is a valid target.
func (w *walker) visitCall(site Site) (Replacement, bool, error) {
	w.setState(StateClassifying)
	m := w.matcher.Classify(site, w.scopes)
	switch m.Class {
	case NotTarget:
		if m.Shadowed {
			w.report(site.Call, SeverityWarning, m)
		}
		return Replacement{}, false, nil
	case TargetInvalidContext:
		d := w.report(site.Call, SeverityError, m)
		if w.strict {
			return Replacement{}, false, &AbortError{Err: ErrStrict, Diagnostic: &d}
		}
		return Replacement{}, false, nil
	case TargetValid:
		if w.dryRun {
			return Replacement{}, false, nil
		}
		w.setState(StateRewriting)
		span := SpanOf(site.Call)
		repl, err := w.rewriter.rewrite(site)
		if err != nil {
			return Replacement{}, false, err
		}
		w.rewrites++
		w.logger.Debug().
			Stringer("mode", w.rewriter.mode).
			Stringer("span", span).
			Int("statements", len(repl.Stmts)).
			Msg("rewrote target call")
		w.setState(StateSplicing)
		return repl, true, nil
	default:
		return Replacement{}, false, internalError("unknown classification %s", m.Class)
	}
}

func (w *walker) report(node ast.Node, sev Severity, m Match) Diagnostic {
	d := Diagnostic{Span: SpanOf(node), Severity: sev, Code: m.Code, Message: m.Reason}
	w.diags = append(w.diags, d)
	w.logger.Debug().
		Stringer("span", d.Span).
		Stringer("severity", sev).
		Str("code", string(d.Code)).
		Msg(d.Message)
	return d
}

func (w *walker) walkStmt(node ast.Node) (ast.Node, error) {
	var err error
	switch n := node.(type) {
	case *ast.Var:
		for _, d := range n.Decls {
			if d.Value != nil {
				if d.Value, err = w.walkExpr(d.Value); err != nil {
					return nil, err
				}
			}
		}
	case *ast.Return:
		if n.Value != nil {
			n.Value, err = w.walkExpr(n.Value)
		}
	case *ast.Throw:
		n.Value, err = w.walkExpr(n.Value)
	case *ast.Block:
		err = w.walkBlock(n, ScopeBlock, nil)
	case *ast.If:
		if n.Cond, err = w.walkExpr(n.Cond); err != nil {
			return nil, err
		}
		if n.Consequence, err = w.walkBody(n.Consequence); err != nil {
			return nil, err
		}
		if n.Alternative != nil {
			n.Alternative, err = w.walkBody(n.Alternative)
		}
	case *ast.While:
		if n.Cond, err = w.walkExpr(n.Cond); err != nil {
			return nil, err
		}
		n.Body, err = w.walkBody(n.Body)
	case *ast.DoWhile:
		if n.Body, err = w.walkBody(n.Body); err != nil {
			return nil, err
		}
		n.Cond, err = w.walkExpr(n.Cond)
	case *ast.For:
		err = w.walkFor(n)
	case *ast.ForOf:
		err = w.walkForOf(n)
	case *ast.Try:
		err = w.walkTry(n)
	case *ast.Switch:
		err = w.walkSwitch(n)
	case ast.Expr:
		return w.walkExpr(n)
	}
	if err != nil {
		return nil, err
	}
	return node, nil
}

// walkBody walks the body of an if or a loop. A body that is not a block
// still gets its own frame, and a body rewritten into several statements is
// wrapped in a block.
func (w *walker) walkBody(node ast.Node) (ast.Node, error) {
	if b, ok := node.(*ast.Block); ok {
		return b, w.walkBlock(b, ScopeBlock, nil)
	}
	w.scopes.Enter(ScopeBlock)
	defer w.scopes.Exit()
	w.scopes.declareLexical([]ast.Node{node})

	call, ok := node.(*ast.Call)
	if !ok {
		return w.walkStmt(node)
	}
	start := call.Pos()
	stmts, _, err := w.walkCallStmt(call, nil)
	if err != nil {
		return nil, err
	}
	if len(stmts) == 1 {
		return stmts[0], nil
	}
	return &ast.Block{Lbrace: start, Stmts: stmts}, nil
}

// walkBlock walks b inside a new frame. declare, when set, binds names
// that belong to the frame before the block's own declarations.
func (w *walker) walkBlock(b *ast.Block, kind ScopeKind, declare func()) error {
	w.scopes.Enter(kind)
	defer w.scopes.Exit()
	if declare != nil {
		declare()
	}
	w.scopes.declareLexical(b.Stmts)
	stmts, err := w.walkStmts(b.Stmts)
	if err != nil {
		return err
	}
	b.Stmts = stmts
	return nil
}

func (w *walker) walkFor(n *ast.For) error {
	w.scopes.Enter(ScopeBlock)
	defer w.scopes.Exit()
	var err error
	if n.Init != nil {
		if v, ok := n.Init.(*ast.Var); ok {
			w.scopes.declareLexical([]ast.Node{v})
		}
		if n.Init, err = w.walkStmt(n.Init); err != nil {
			return err
		}
	}
	if n.Cond != nil {
		if n.Cond, err = w.walkExpr(n.Cond); err != nil {
			return err
		}
	}
	if n.Post != nil {
		if n.Post, err = w.walkExpr(n.Post); err != nil {
			return err
		}
	}
	n.Body, err = w.walkBody(n.Body)
	return err
}

func (w *walker) walkForOf(n *ast.ForOf) error {
	var err error
	if n.Iter, err = w.walkExpr(n.Iter); err != nil {
		return err
	}
	w.scopes.Enter(ScopeBlock)
	defer w.scopes.Exit()
	if n.Kind != "" {
		w.scopes.Declare(n.Name.Name, bindingForVar(n.Kind))
	}
	n.Body, err = w.walkBody(n.Body)
	return err
}

func (w *walker) walkTry(n *ast.Try) error {
	if err := w.walkBlock(n.Body, ScopeBlock, nil); err != nil {
		return err
	}
	if n.CatchBlock != nil {
		err := w.walkBlock(n.CatchBlock, ScopeBlock, func() {
			if n.CatchIdent != nil {
				w.scopes.Declare(n.CatchIdent.Name, BindingCatch)
			}
		})
		if err != nil {
			return err
		}
	}
	if n.FinallyBlock != nil {
		return w.walkBlock(n.FinallyBlock, ScopeBlock, nil)
	}
	return nil
}

// walkSwitch walks every clause inside one frame, since the clauses of a
// switch share a scope.
func (w *walker) walkSwitch(n *ast.Switch) error {
	var err error
	if n.Value, err = w.walkExpr(n.Value); err != nil {
		return err
	}
	w.scopes.Enter(ScopeBlock)
	defer w.scopes.Exit()
	for _, c := range n.Cases {
		w.scopes.declareLexical(c.Body)
	}
	for _, c := range n.Cases {
		if c.Expr != nil {
			if c.Expr, err = w.walkExpr(c.Expr); err != nil {
				return err
			}
		}
		if c.Body, err = w.walkStmts(c.Body); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) walkFunc(fn *ast.Func) error {
	w.scopes.Enter(ScopeFunction)
	defer w.scopes.Exit()
	w.scopes.declareFunction(fn)
	for _, p := range fn.Params {
		if dv, ok := p.(*ast.DefaultValue); ok {
			var err error
			if dv.Default, err = w.walkExpr(dv.Default); err != nil {
				return err
			}
		}
	}
	if fn.Body != nil {
		stmts, err := w.walkStmts(fn.Body.Stmts)
		if err != nil {
			return err
		}
		fn.Body.Stmts = stmts
		return nil
	}
	var err error
	if fn.ExprBody != nil {
		fn.ExprBody, err = w.walkExpr(fn.ExprBody)
	}
	return err
}

func (w *walker) walkCallChildren(call *ast.Call) error {
	var err error
	w.setState(StateRecursing)
	if call.Fun, err = w.walkExpr(call.Fun); err != nil {
		return err
	}
	return w.walkExprs(call.Args)
}

func (w *walker) walkExprs(list []ast.Expr) error {
	for i := range list {
		var err error
		if list[i], err = w.walkExpr(list[i]); err != nil {
			return err
		}
	}
	return nil
}

// walkExpr walks an expression and returns its replacement, which is the
// expression itself unless it was a rewritten target call.
func (w *walker) walkExpr(expr ast.Expr) (ast.Expr, error) {
	w.setState(StateVisiting)
	var err error
	switch n := expr.(type) {
	case *ast.Call:
		if err = w.walkCallChildren(n); err != nil {
			return nil, err
		}
		repl, rewritten, err := w.visitCall(Site{Call: n})
		if err != nil {
			return nil, err
		}
		if !rewritten {
			return n, nil
		}
		if repl.Expr == nil {
			return nil, internalError("%s rewrite produced no expression for %s", w.rewriter.mode, SpanOf(n))
		}
		return repl.Expr, nil
	case *ast.New:
		if n.Fun, err = w.walkExpr(n.Fun); err == nil {
			err = w.walkExprs(n.Args)
		}
	case *ast.Prefix:
		n.X, err = w.walkExpr(n.X)
	case *ast.Postfix:
		n.X, err = w.walkExpr(n.X)
	case *ast.Spread:
		n.X, err = w.walkExpr(n.X)
	case *ast.Infix:
		if n.X, err = w.walkExpr(n.X); err == nil {
			n.Y, err = w.walkExpr(n.Y)
		}
	case *ast.Assign:
		if n.X, err = w.walkExpr(n.X); err == nil {
			n.Value, err = w.walkExpr(n.Value)
		}
	case *ast.Ternary:
		if n.Cond, err = w.walkExpr(n.Cond); err != nil {
			return nil, err
		}
		if n.IfTrue, err = w.walkExpr(n.IfTrue); err == nil {
			n.IfFalse, err = w.walkExpr(n.IfFalse)
		}
	case *ast.GetAttr:
		n.X, err = w.walkExpr(n.X)
	case *ast.Index:
		if n.X, err = w.walkExpr(n.X); err == nil {
			n.Index, err = w.walkExpr(n.Index)
		}
	case *ast.List:
		err = w.walkExprs(n.Items)
	case *ast.Object:
		for i := range n.Items {
			item := &n.Items[i]
			if item.Computed {
				if item.Key, err = w.walkExpr(item.Key); err != nil {
					return nil, err
				}
			}
			if !item.Shorthand {
				if item.Value, err = w.walkExpr(item.Value); err != nil {
					return nil, err
				}
			}
		}
	case *ast.Template:
		err = w.walkExprs(n.Exprs)
	case *ast.Func:
		err = w.walkFunc(n)
	}
	if err != nil {
		return nil, err
	}
	return expr, nil
}
