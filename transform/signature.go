package transform

import (
	"fmt"
	"strings"

	"github.com/saraswati-lib/saraswati/internal/lexer"
)

// Placement describes where a target call may appear syntactically.
type Placement int

const (
	// PlacementStatement requires the call to stand alone as a statement.
	PlacementStatement Placement = iota
	// PlacementExpression allows the call anywhere an expression may appear.
	PlacementExpression
)

var placementNames = map[Placement]string{
	PlacementStatement:  "statement",
	PlacementExpression: "expression",
}

func (p Placement) String() string {
	if name, ok := placementNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Placement(%d)", int(p))
}

// ParsePlacement converts a placement name into a Placement.
func ParsePlacement(s string) (Placement, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for p, n := range placementNames {
		if n == name {
			return p, nil
		}
	}
	return 0, unknownValue("placement", s, placementNames)
}

// Context is the enclosing construct a target call must be reachable from.
type Context int

const (
	// ContextAnywhere accepts target calls at any depth, including the
	// top level of the module.
	ContextAnywhere Context = iota
	// ContextBlock requires the call to sit inside a block-introducing
	// construct rather than directly at module level.
	ContextBlock
	// ContextFunction requires the call to sit inside a function body.
	ContextFunction
)

var contextNames = map[Context]string{
	ContextAnywhere: "anywhere",
	ContextBlock:    "block",
	ContextFunction: "function",
}

func (c Context) String() string {
	if name, ok := contextNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Context(%d)", int(c))
}

// ParseContext converts a context name into a Context.
func ParseContext(s string) (Context, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range contextNames {
		if n == name {
			return c, nil
		}
	}
	return 0, unknownValue("context", s, contextNames)
}

// Unbounded is the MaxArgs value that places no upper limit on arity.
const Unbounded = -1

// Signature identifies the calls subject to rewriting and the structural
// constraints they must satisfy. A Signature is fixed when a Transformer is
// constructed and is safe to share between goroutines.
type Signature struct {
	// Callee is the dotted callee path, e.g. "yield" or "sched.yield".
	Callee string

	// MinArgs and MaxArgs bound the argument count. MaxArgs may be
	// Unbounded.
	MinArgs int
	MaxArgs int

	// Placement says whether the call must be a standalone statement.
	Placement Placement

	// Context is the construct the call must appear within.
	Context Context

	// AllowNestedFunctions permits target calls inside functions nested
	// below the construct required by Context.
	AllowNestedFunctions bool

	// RespectShadowing leaves calls alone when the callee's root name is
	// bound by a local declaration.
	RespectShadowing bool

	// Runtime is the dotted callee path emitted by every rewrite.
	Runtime string
}

// DefaultSignature returns the signature used when none is configured:
// "yield(...)" statements inside function bodies, rewritten to calls of
// "__rt.yield".
func DefaultSignature() Signature {
	return Signature{
		Callee:           "yield",
		MinArgs:          0,
		MaxArgs:          Unbounded,
		Placement:        PlacementStatement,
		Context:          ContextFunction,
		RespectShadowing: true,
		Runtime:          "__rt.yield",
	}
}

// CalleePath returns the segments of the callee path.
func (s Signature) CalleePath() []string { return strings.Split(s.Callee, ".") }

// RuntimePath returns the segments of the runtime callee path.
func (s Signature) RuntimePath() []string { return strings.Split(s.Runtime, ".") }

// Unconstrained reports whether the signature accepts any number of
// arguments.
func (s Signature) Unconstrained() bool {
	return s.MinArgs == 0 && s.MaxArgs == Unbounded
}

// Validate checks that the signature is internally consistent.
func (s Signature) Validate() error {
	if err := validPath("callee", s.Callee); err != nil {
		return err
	}
	if err := validPath("runtime", s.Runtime); err != nil {
		return err
	}
	if s.Runtime == s.Callee {
		return fmt.Errorf("runtime %q must differ from the callee", s.Runtime)
	}
	if s.MinArgs < 0 {
		return fmt.Errorf("min args must not be negative (got %d)", s.MinArgs)
	}
	if s.MaxArgs != Unbounded && s.MaxArgs < s.MinArgs {
		return fmt.Errorf("max args %d is less than min args %d", s.MaxArgs, s.MinArgs)
	}
	if _, ok := placementNames[s.Placement]; !ok {
		return fmt.Errorf("invalid placement %s", s.Placement)
	}
	if _, ok := contextNames[s.Context]; !ok {
		return fmt.Errorf("invalid context %s", s.Context)
	}
	return nil
}

func validPath(what, path string) error {
	if path == "" {
		return fmt.Errorf("%s must not be empty", what)
	}
	for _, seg := range strings.Split(path, ".") {
		if !lexer.IsIdentifier(seg) {
			return fmt.Errorf("%s %q: %q is not a valid identifier", what, path, seg)
		}
	}
	return nil
}

// arity describes the accepted argument count for use in messages.
func (s Signature) arity() string {
	switch {
	case s.MaxArgs == Unbounded:
		return "at least " + plural(s.MinArgs, "argument")
	case s.MinArgs == s.MaxArgs:
		return "exactly " + plural(s.MinArgs, "argument")
	default:
		return fmt.Sprintf("%d to %d arguments", s.MinArgs, s.MaxArgs)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func (s Signature) String() string {
	return fmt.Sprintf("%s(%s) -> %s [%s, %s]", s.Callee, s.arity(), s.Runtime, s.Placement, s.Context)
}
