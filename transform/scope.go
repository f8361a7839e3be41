package transform

import (
	"fmt"

	"github.com/saraswati-lib/saraswati/ast"
)

// ScopeKind identifies the construct that introduced a scope frame.
type ScopeKind int

const (
	ScopeModule ScopeKind = iota
	ScopeFunction
	ScopeBlock
	// ScopeContinuation is the body of a function synthesized by a
	// continuation rewrite. It binds like a block and is transparent to
	// context and nesting checks, since its statements keep the position
	// they had in the source.
	ScopeContinuation
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeContinuation:
		return "continuation"
	default:
		return fmt.Sprintf("ScopeKind(%d)", int(k))
	}
}

// BindingKind records how a name was bound.
type BindingKind int

const (
	BindingLet BindingKind = iota
	BindingConst
	BindingVar
	BindingFunction
	BindingParam
	BindingCatch
	BindingTemp
)

func (k BindingKind) String() string {
	switch k {
	case BindingLet:
		return "let"
	case BindingConst:
		return "const"
	case BindingVar:
		return "var"
	case BindingFunction:
		return "function"
	case BindingParam:
		return "parameter"
	case BindingCatch:
		return "catch"
	case BindingTemp:
		return "temporary"
	default:
		return fmt.Sprintf("BindingKind(%d)", int(k))
	}
}

func bindingForVar(kind string) BindingKind {
	switch kind {
	case "const":
		return BindingConst
	case "var":
		return BindingVar
	default:
		return BindingLet
	}
}

// Scope is one frame of the scope stack. Parent is the index of the
// enclosing frame in the stack, or -1 for the module frame.
type Scope struct {
	Kind     ScopeKind
	Parent   int
	bindings map[string]BindingKind
}

// Stats counts scope operations over one traversal.
type Stats struct {
	Enters   int
	Exits    int
	MaxDepth int
}

// Balanced reports whether every Enter was matched by an Exit.
func (s Stats) Balanced() bool { return s.Enters == s.Exits }

// Scopes is the scope stack maintained while walking a tree. The module
// frame is created with the stack and is never entered or exited.
type Scopes struct {
	frames []Scope
	stats  Stats
}

// NewScopes returns a stack holding only the module frame.
func NewScopes() *Scopes {
	return &Scopes{
		frames: []Scope{{Kind: ScopeModule, Parent: -1, bindings: map[string]BindingKind{}}},
	}
}

// Enter pushes a new frame.
func (s *Scopes) Enter(kind ScopeKind) {
	s.frames = append(s.frames, Scope{
		Kind:     kind,
		Parent:   len(s.frames) - 1,
		bindings: map[string]BindingKind{},
	})
	s.stats.Enters++
	if d := s.Depth(); d > s.stats.MaxDepth {
		s.stats.MaxDepth = d
	}
}

// Exit pops the innermost frame. The module frame is never popped.
func (s *Scopes) Exit() {
	if len(s.frames) <= 1 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
	s.stats.Exits++
}

// Depth returns the number of frames above the module frame.
func (s *Scopes) Depth() int { return len(s.frames) - 1 }

// Current returns the innermost frame.
func (s *Scopes) Current() *Scope { return &s.frames[len(s.frames)-1] }

// Stats returns the counters accumulated so far.
func (s *Scopes) Stats() Stats { return s.stats }

// Declare binds name in the innermost frame.
func (s *Scopes) Declare(name string, kind BindingKind) {
	s.Current().bindings[name] = kind
}

// Lookup returns the nearest binding for name, walking from the innermost
// frame outwards through parent indexes.
func (s *Scopes) Lookup(name string) (BindingKind, bool) {
	for i := len(s.frames) - 1; i >= 0; i = s.frames[i].Parent {
		if kind, ok := s.frames[i].bindings[name]; ok {
			return kind, true
		}
	}
	return 0, false
}

// FunctionDepth returns how many function frames enclose the current
// position.
func (s *Scopes) FunctionDepth() int {
	depth := 0
	for i := len(s.frames) - 1; i >= 0; i = s.frames[i].Parent {
		if s.frames[i].Kind == ScopeFunction {
			depth++
		}
	}
	return depth
}

// InBlock reports whether any frame other than the module frame encloses
// the current position.
func (s *Scopes) InBlock() bool {
	for i := len(s.frames) - 1; i > 0; i = s.frames[i].Parent {
		if s.frames[i].Kind != ScopeContinuation {
			return true
		}
	}
	return false
}

// declareFunction binds the parameters of fn and the var and function
// declarations of its body in the current frame, which must be the frame
// entered for fn.
func (s *Scopes) declareFunction(fn *ast.Func) {
	if fn.Name != nil {
		s.Declare(fn.Name.Name, BindingFunction)
	}
	for _, name := range fn.ParamNames() {
		s.Declare(name, BindingParam)
	}
	if fn.Body != nil {
		s.declareHoisted(fn.Body.Stmts)
		s.declareLexical(fn.Body.Stmts)
	}
}

// declareHoisted binds every var declared in stmts, at any block depth but
// not inside nested functions.
func (s *Scopes) declareHoisted(stmts []ast.Node) {
	for _, stmt := range stmts {
		ast.Inspect(stmt, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.Func:
				return false
			case *ast.Var:
				if n.Kind == "var" {
					for _, name := range n.Names() {
						s.Declare(name, BindingVar)
					}
				}
			case *ast.ForOf:
				if n.Kind == "var" {
					s.Declare(n.Name.Name, BindingVar)
				}
			}
			return true
		})
	}
}

// declareLexical binds the let, const and function declarations placed
// directly in stmts.
func (s *Scopes) declareLexical(stmts []ast.Node) {
	for _, stmt := range stmts {
		switch n := stmt.(type) {
		case *ast.Var:
			if n.Kind != "var" {
				for _, name := range n.Names() {
					s.Declare(name, bindingForVar(n.Kind))
				}
			}
		case *ast.Func:
			if n.Name != nil {
				s.Declare(n.Name.Name, BindingFunction)
			}
		}
	}
}
