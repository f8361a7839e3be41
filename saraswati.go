// Package saraswati compiles JavaScript-family source by rewriting calls to
// a target function according to a compilation mode.
//
// A Compiler parses the source, runs the configured validators and passes,
// rewrites target calls with the transform package and prints the result:
//
//	c, _ := saraswati.New(saraswati.WithMode(transform.ModeContinuation))
//	res, err := c.CompileSource(ctx, src, "main.js")
//	if err != nil {
//		return err // parse, validation or abort error
//	}
//	fmt.Print(res.Code)
//
// Misplaced target calls do not fail a compilation by default. They are
// returned as Result.Diagnostics and the calls are left as written.
package saraswati

import (
	"context"
	"fmt"
	"os"

	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/saraswati-lib/saraswati/ast"
	"github.com/saraswati-lib/saraswati/errors"
	"github.com/saraswati-lib/saraswati/parser"
	"github.com/saraswati-lib/saraswati/printer"
	"github.com/saraswati-lib/saraswati/syntax"
	"github.com/saraswati-lib/saraswati/transform"
)

// Result is the output of one compilation.
type Result struct {
	RunID       string
	Filename    string
	Code        string
	Program     *ast.Program
	Diagnostics transform.Diagnostics
	Rewrites    int
}

// Err combines the error-severity diagnostics into one error, or returns
// nil when there are none.
func (r *Result) Err() error {
	if r == nil {
		return nil
	}
	return r.Diagnostics.Err()
}

// Compiler compiles source files with a fixed configuration. It is safe for
// concurrent use.
type Compiler struct {
	transformer   *transform.Transformer
	validators    []syntax.Validator
	passes        syntax.Transformer
	printer       printer.Config
	parseMaxDepth int
	logger        zerolog.Logger
}

// New returns a Compiler. It fails when the mode and signature do not form
// a valid configuration.
func New(opts ...Option) (*Compiler, error) {
	cfg := collectOptions(opts...)
	t, err := transform.New(cfg.mode, cfg.sig,
		transform.WithStrict(cfg.strict),
		transform.WithLogger(cfg.logger))
	if err != nil {
		return nil, err
	}
	c := &Compiler{
		transformer:   t,
		validators:    cfg.validators,
		printer:       cfg.printer,
		parseMaxDepth: cfg.parseMaxDepth,
		logger:        cfg.logger,
	}
	if len(cfg.transformers) > 0 {
		c.passes = syntax.Chain(cfg.transformers...)
	}
	return c, nil
}

// Mode returns the configured compilation mode.
func (c *Compiler) Mode() transform.Mode { return c.transformer.Mode() }

// Signature returns the configured target call signature.
func (c *Compiler) Signature() transform.Signature { return c.transformer.Signature() }

// CompileFile reads and compiles the file at path.
func (c *Compiler) CompileFile(ctx context.Context, path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.CompileSource(ctx, string(src), path)
}

// CompileSource compiles src. The filename is used in positions and
// diagnostics and may be empty.
//
// Parse errors, validation errors and aborted transforms are returned as
// the error. Diagnostics for misplaced target calls are returned in the
// result; use Result.Err to treat them as a failure.
func (c *Compiler) CompileSource(ctx context.Context, src, filename string) (*Result, error) {
	runID := uuid.Must(uuid.NewV4()).String()
	logger := c.logger.With().Str("run_id", runID).Str("file", filename).Logger()

	program, err := c.parse(ctx, src, filename)
	if err != nil {
		logger.Debug().Err(err).Msg("parse failed")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := c.transformer.Run(program)
	if err != nil {
		logger.Debug().Err(err).Msg("transform aborted")
		return nil, err
	}
	result := &Result{
		RunID:       runID,
		Filename:    filename,
		Code:        c.printer.Print(res.Program),
		Program:     res.Program,
		Diagnostics: res.Diagnostics,
		Rewrites:    res.Rewrites,
	}
	logger.Debug().
		Stringer("mode", c.transformer.Mode()).
		Int("rewrites", res.Rewrites).
		Int("errors", len(res.Diagnostics.Errors())).
		Int("warnings", len(res.Diagnostics.Warnings())).
		Msg("compiled")
	return result, nil
}

// Check parses src and returns the diagnostics a compilation would report,
// without rewriting anything.
func (c *Compiler) Check(ctx context.Context, src, filename string) (transform.Diagnostics, error) {
	program, err := c.parse(ctx, src, filename)
	if err != nil {
		return nil, err
	}
	return c.transformer.Check(program)
}

// parse produces a validated program with the configured passes applied.
func (c *Compiler) parse(ctx context.Context, src, filename string) (*ast.Program, error) {
	var opts []parser.Option
	if filename != "" {
		opts = append(opts, parser.WithFilename(filename))
	}
	if c.parseMaxDepth > 0 {
		opts = append(opts, parser.WithMaxDepth(c.parseMaxDepth))
	}
	program, err := parser.Parse(ctx, src, opts...)
	if err != nil {
		return nil, err
	}
	if errs := syntax.ValidateAll(program, c.validators...); len(errs) > 0 {
		return nil, syntax.NewValidationErrors(errs)
	}
	if c.passes != nil {
		if program, err = c.passes.Transform(program); err != nil {
			return nil, fmt.Errorf("pass failed: %w", err)
		}
	}
	return program, nil
}

// Emit renders err through h. Parse errors, validation errors, transform
// diagnostics and aborts are each expanded into located reports. Other
// errors are emitted as they are.
func Emit(h *errors.Handler, err error) {
	switch e := err.(type) {
	case nil:
	case *parser.Errors:
		for _, pe := range e.Errors() {
			h.Emit(pe)
		}
	case *syntax.ValidationErrors:
		for _, ve := range e.Errors {
			h.Emit(h.Locate(ve.Code, "error", ve.Message, ve.Position, ve.End()))
		}
	case *transform.AbortError:
		if e.Diagnostic != nil {
			EmitDiagnostics(h, transform.Diagnostics{*e.Diagnostic})
			return
		}
		h.Emit(e)
	case *multierror.Error:
		for _, inner := range e.Errors {
			Emit(h, inner)
		}
	case transform.Diagnostic:
		EmitDiagnostics(h, transform.Diagnostics{e})
	default:
		h.Emit(err)
	}
}

// EmitDiagnostics renders each diagnostic through h with its source line.
func EmitDiagnostics(h *errors.Handler, diags transform.Diagnostics) {
	for _, d := range diags {
		h.Emit(h.Locate(d.Code, d.Severity.String(), d.Message, d.Span.Start, d.Span.End))
	}
}
