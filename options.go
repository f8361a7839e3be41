package saraswati

import (
	"github.com/rs/zerolog"
	"github.com/saraswati-lib/saraswati/printer"
	"github.com/saraswati-lib/saraswati/syntax"
	"github.com/saraswati-lib/saraswati/transform"
)

// Option configures a Compiler.
type Option func(*config)

type config struct {
	mode          transform.Mode
	sig           transform.Signature
	strict        bool
	logger        zerolog.Logger
	printer       printer.Config
	parseMaxDepth int
	validators    []syntax.Validator
	transformers  []syntax.Transformer
}

func collectOptions(opts ...Option) *config {
	cfg := &config{
		mode:   transform.ModeDirect,
		sig:    transform.DefaultSignature(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithMode selects how target calls are rewritten. The default is
// transform.ModeDirect.
func WithMode(mode transform.Mode) Option {
	return func(cfg *config) {
		cfg.mode = mode
	}
}

// WithSignature sets the target call signature. The default is
// transform.DefaultSignature().
func WithSignature(sig transform.Signature) Option {
	return func(cfg *config) {
		cfg.sig = sig
	}
}

// WithStrict makes the first misplaced target call fail the compilation.
func WithStrict(strict bool) Option {
	return func(cfg *config) {
		cfg.strict = strict
	}
}

// WithLogger sets the logger. Every compilation logs with a run_id field.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithPrinterConfig controls how the rewritten program is printed.
func WithPrinterConfig(pc printer.Config) Option {
	return func(cfg *config) {
		cfg.printer = pc
	}
}

// WithParseMaxDepth limits the parser nesting depth. Zero keeps the
// parser default.
func WithParseMaxDepth(depth int) Option {
	return func(cfg *config) {
		cfg.parseMaxDepth = depth
	}
}

// WithSyntax restricts the accepted language. It is shorthand for
// WithValidator(syntax.NewSyntaxValidator(sc)).
func WithSyntax(sc syntax.SyntaxConfig) Option {
	return WithValidator(syntax.NewSyntaxValidator(sc))
}

// WithValidator adds a validator that runs after parsing. This option is
// additive; validators run in the order given.
func WithValidator(v syntax.Validator) Option {
	return func(cfg *config) {
		cfg.validators = append(cfg.validators, v)
	}
}

// WithTransformer adds a pass that runs after validation and before target
// calls are rewritten. This option is additive.
func WithTransformer(t syntax.Transformer) Option {
	return func(cfg *config) {
		cfg.transformers = append(cfg.transformers, t)
	}
}
