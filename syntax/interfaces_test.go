package syntax

import (
	"context"
	"errors"
	"testing"

	"github.com/saraswati-lib/saraswati/ast"
	"github.com/saraswati-lib/saraswati/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, source string) *ast.Program {
	t.Helper()
	program, err := parser.Parse(context.Background(), source)
	require.NoError(t, err)
	return program
}

func TestTransformerFunc(t *testing.T) {
	called := false
	transformer := TransformerFunc(func(p *ast.Program) (*ast.Program, error) {
		called = true
		return p, nil
	})

	program := parse(t, "1 + 2")
	result, err := transformer.Transform(program)

	assert.NoError(t, err)
	assert.True(t, called)
	assert.Same(t, program, result)
}

func TestTransformerReturnsError(t *testing.T) {
	transformer := TransformerFunc(func(p *ast.Program) (*ast.Program, error) {
		return nil, errors.New("transform failed")
	})

	_, err := transformer.Transform(parse(t, "1 + 2"))
	assert.EqualError(t, err, "transform failed")
}

func TestTransformerModifiesAST(t *testing.T) {
	// Rename every reference to "a" as "b"
	transformer := TransformerFunc(func(p *ast.Program) (*ast.Program, error) {
		for node := range ast.Preorder(p) {
			if ident, ok := node.(*ast.Ident); ok && ident.Name == "a" {
				ident.Name = "b"
			}
		}
		return p, nil
	})

	result, err := transformer.Transform(parse(t, "a + a * c"))
	require.NoError(t, err)
	assert.Equal(t, "(b + (b * c))", result.String())
}

func TestChain(t *testing.T) {
	var order []string
	step := func(name string) Transformer {
		return TransformerFunc(func(p *ast.Program) (*ast.Program, error) {
			order = append(order, name)
			return p, nil
		})
	}

	program := parse(t, "x")
	result, err := Chain(step("first"), step("second")).Transform(program)
	require.NoError(t, err)
	assert.Same(t, program, result)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestChainStopsAtError(t *testing.T) {
	reached := false
	failing := TransformerFunc(func(p *ast.Program) (*ast.Program, error) {
		return nil, errors.New("boom")
	})
	after := TransformerFunc(func(p *ast.Program) (*ast.Program, error) {
		reached = true
		return p, nil
	})

	result, err := Chain(failing, after).Transform(parse(t, "x"))
	assert.EqualError(t, err, "boom")
	assert.Nil(t, result)
	assert.False(t, reached)
}

func TestValidatorFunc(t *testing.T) {
	called := false
	validator := ValidatorFunc(func(p *ast.Program) []ValidationError {
		called = true
		return nil
	})

	errs := validator.Validate(parse(t, "1 + 2"))
	assert.True(t, called)
	assert.Empty(t, errs)
}

func TestValidatorFuncReturnsErrors(t *testing.T) {
	validator := ValidatorFunc(func(p *ast.Program) []ValidationError {
		return []ValidationError{
			{Message: "custom error 1"},
			{Message: "custom error 2"},
		}
	})

	errs := validator.Validate(parse(t, "1 + 2"))
	require.Len(t, errs, 2)
	assert.Equal(t, "custom error 1", errs[0].Message)
	assert.Equal(t, "custom error 2", errs[1].Message)
}

func TestValidatorFuncWithNodeInspection(t *testing.T) {
	noSecrets := ValidatorFunc(func(p *ast.Program) []ValidationError {
		var errs []ValidationError
		for node := range ast.Preorder(p) {
			if ident, ok := node.(*ast.Ident); ok && ident.Name == "secret" {
				errs = append(errs, ValidationError{
					Message:  "access to 'secret' is not allowed",
					Node:     node,
					Position: node.Pos(),
				})
			}
		}
		return errs
	})

	t.Run("allows normal identifiers", func(t *testing.T) {
		assert.Empty(t, noSecrets.Validate(parse(t, "x + y")))
	})

	t.Run("catches secret identifier", func(t *testing.T) {
		errs := noSecrets.Validate(parse(t, "secret + 1"))
		require.Len(t, errs, 1)
		assert.Equal(t, "access to 'secret' is not allowed", errs[0].Message)
	})

	t.Run("catches multiple secret usages", func(t *testing.T) {
		assert.Len(t, noSecrets.Validate(parse(t, "secret + secret")), 2)
	})
}

func TestValidateAll(t *testing.T) {
	one := ValidatorFunc(func(p *ast.Program) []ValidationError {
		return []ValidationError{{Message: "one"}}
	})
	none := ValidatorFunc(func(p *ast.Program) []ValidationError { return nil })
	two := ValidatorFunc(func(p *ast.Program) []ValidationError {
		return []ValidationError{{Message: "two"}, {Message: "three"}}
	})

	errs := ValidateAll(parse(t, "x"), one, none, two)
	require.Len(t, errs, 3)
	assert.Equal(t, "one", errs[0].Message)
	assert.Equal(t, "three", errs[2].Message)
	assert.Empty(t, ValidateAll(parse(t, "x")))
}
