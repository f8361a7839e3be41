package syntax

import "github.com/saraswati-lib/saraswati/ast"

// Transformer modifies an AST before it is printed.
// Transformers receive ownership of the AST and return a (possibly new) AST.
type Transformer interface {
	// Transform processes the AST and returns the result.
	// The returned AST may be the same instance (modified in place)
	// or a completely new AST.
	Transform(program *ast.Program) (*ast.Program, error)
}

// TransformerFunc is an adapter to use a function as a Transformer.
type TransformerFunc func(*ast.Program) (*ast.Program, error)

// Transform implements the Transformer interface.
func (f TransformerFunc) Transform(p *ast.Program) (*ast.Program, error) {
	return f(p)
}

// Chain returns a Transformer that applies each transformer in order,
// stopping at the first error.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(p *ast.Program) (*ast.Program, error) {
		for _, t := range transformers {
			var err error
			if p, err = t.Transform(p); err != nil {
				return nil, err
			}
		}
		return p, nil
	})
}
