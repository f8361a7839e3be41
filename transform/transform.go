// Package transform rewrites target calls in a syntax tree.
//
// A Transformer walks a parsed program once, in post-order, keeping a stack
// of lexical scopes. Every call expression whose callee matches the
// configured Signature is classified: valid target calls are rewritten
// according to the Mode, and target calls in a position the signature does
// not allow are reported as diagnostics and left unchanged.
//
// The tree is mutated in place. Diagnostics are returned as structured
// values; rendering them is left to errors.Handler.
package transform

import (
	goerrors "errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/saraswati-lib/saraswati/ast"
)

var (
	// ErrInternal reports that the matcher accepted a call the rewriter
	// has no strategy for. It never occurs for a Transformer built by New.
	ErrInternal = goerrors.New("internal inconsistency")

	// ErrStrict reports that a strict run met an invalid target call.
	ErrStrict = goerrors.New("invalid target call in strict mode")
)

// AbortError is returned when a run stops before completing. The tree
// passed to the run must not be used afterwards.
type AbortError struct {
	Err        error       // ErrInternal or ErrStrict
	Diagnostic *Diagnostic // the diagnostic that stopped a strict run
	Detail     string
	Scopes     Stats // scope counters at the time of the abort
}

func (e *AbortError) Error() string {
	switch {
	case e.Diagnostic != nil:
		return fmt.Sprintf("transform: %s: %s", e.Err, e.Diagnostic)
	case e.Detail != "":
		return fmt.Sprintf("transform: %s: %s", e.Err, e.Detail)
	default:
		return "transform: " + e.Err.Error()
	}
}

func (e *AbortError) Unwrap() error { return e.Err }

// Option configures a Transformer.
type Option func(*config)

type config struct {
	strict bool
	logger zerolog.Logger
}

// WithStrict makes the first invalid target call abort the run with
// ErrStrict instead of being recorded and skipped.
func WithStrict(strict bool) Option {
	return func(cfg *config) {
		cfg.strict = strict
	}
}

// WithLogger sets the logger used for debug output. The default discards
// everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// Result is the outcome of a completed run.
type Result struct {
	Program     *ast.Program
	Diagnostics Diagnostics
	Rewrites    int
	Scopes      Stats
}

// Transformer rewrites target calls for one mode and signature. It holds no
// per-run state and may be used from several goroutines at once.
type Transformer struct {
	mode    Mode
	sig     Signature
	matcher *Matcher
	strict  bool
	logger  zerolog.Logger
}

// New validates the configuration and returns a Transformer.
func New(mode Mode, sig Signature, opts ...Option) (*Transformer, error) {
	cfg := &config{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(cfg)
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid mode %s", mode)
	}
	if err := sig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid signature: %w", err)
	}
	if mode.RequiresStatement() && sig.Placement != PlacementStatement {
		return nil, fmt.Errorf("%s mode requires %s placement (got %s)", mode, PlacementStatement, sig.Placement)
	}
	return &Transformer{
		mode:    mode,
		sig:     sig,
		matcher: NewMatcher(sig, mode),
		strict:  cfg.strict,
		logger:  cfg.logger.With().Str("component", "transform").Logger(),
	}, nil
}

// Mode returns the configured mode.
func (t *Transformer) Mode() Mode { return t.mode }

// Signature returns the configured signature.
func (t *Transformer) Signature() Signature { return t.sig }

// Run transforms program in place. When the run aborts the returned error
// is an *AbortError and no result is returned.
func (t *Transformer) Run(program *ast.Program) (*Result, error) {
	return t.run(program, t.strict, false)
}

// Transform transforms program in place and returns it. The error combines
// the error-severity diagnostics, so callers wanting the best-effort tree
// alongside diagnostics should use Run.
func (t *Transformer) Transform(program *ast.Program) (*ast.Program, error) {
	res, err := t.Run(program)
	if err != nil {
		return nil, err
	}
	return res.Program, res.Diagnostics.Err()
}

// Check classifies every call in program without rewriting anything and
// returns the diagnostics a run would produce. The tree is not modified.
// A run that aborts, including a strict run meeting an invalid target call,
// returns the *AbortError.
func (t *Transformer) Check(program *ast.Program) (Diagnostics, error) {
	res, err := t.run(program, t.strict, true)
	if err != nil {
		return nil, err
	}
	return res.Diagnostics, nil
}

func (t *Transformer) run(program *ast.Program, strict, dryRun bool) (*Result, error) {
	if program == nil {
		return nil, goerrors.New("transform: nil program")
	}
	w := newWalker(t.matcher, t.mode, t.sig, strict, dryRun, t.logger)
	if err := w.walkProgram(program); err != nil {
		var abort *AbortError
		if goerrors.As(err, &abort) {
			abort.Scopes = w.scopes.Stats()
		}
		t.logger.Debug().Err(err).Msg("transform aborted")
		return nil, err
	}
	return &Result{
		Program:     program,
		Diagnostics: w.diags,
		Rewrites:    w.rewrites,
		Scopes:      w.scopes.Stats(),
	}, nil
}

// Transform is a convenience wrapper around New and Run.
func Transform(tree *ast.Program, mode Mode, sig Signature, opts ...Option) (*ast.Program, []Diagnostic, error) {
	t, err := New(mode, sig, opts...)
	if err != nil {
		return nil, nil, err
	}
	res, err := t.Run(tree)
	if err != nil {
		return nil, nil, err
	}
	return res.Program, res.Diagnostics, nil
}
