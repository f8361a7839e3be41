package syntax

import (
	"errors"
	"testing"

	saraswatierrors "github.com/saraswati-lib/saraswati/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validateCase struct {
	source  string
	wantErr bool
}

func runValidateCases(t *testing.T, config SyntaxConfig, tests []validateCase) {
	t.Helper()
	validator := NewSyntaxValidator(config)
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			errs := validator.Validate(parse(t, tt.source))
			if tt.wantErr {
				assert.NotEmpty(t, errs, "expected error for: %s", tt.source)
			} else {
				assert.Empty(t, errs, "unexpected error for: %s", tt.source)
			}
		})
	}
}

func TestSyntaxValidator_DisallowVar(t *testing.T) {
	runValidateCases(t, SyntaxConfig{DisallowVar: true}, []validateCase{
		{"let x = 1", false},
		{"const x = 1", false},
		{"var x = 1", true},
		{"function f() { if (a) { var y } }", true},
		{"for (var i = 0; i < 3; i++) {}", true},
	})
}

func TestSyntaxValidator_DisallowFuncDecl(t *testing.T) {
	runValidateCases(t, SyntaxConfig{DisallowFuncDecl: true}, []validateCase{
		{"let f = function () {}", false},
		{"let f = function named() {}", false},
		{"x => x", false},
		{"function f() {}", true},
		{"if (a) { function g() {} }", true},
		{"switch (x) { case 1: function h() {} }", true},
	})
}

func TestSyntaxValidator_DisallowArrow(t *testing.T) {
	runValidateCases(t, SyntaxConfig{DisallowArrow: true}, []validateCase{
		{"function f() {}", false},
		{"let f = function () {}", false},
		{"x => x", true},
		{"f((a, b) => { return a })", true},
	})
}

func TestSyntaxValidator_DisallowTryCatch(t *testing.T) {
	runValidateCases(t, SyntaxConfig{DisallowTryCatch: true}, []validateCase{
		{"f()", false},
		{"try { f() } catch (e) { g() }", true},
		{"try { f() } finally { g() }", true},
		{"throw new Error('x')", true},
	})
}

func TestSyntaxValidator_DisallowSwitch(t *testing.T) {
	runValidateCases(t, SyntaxConfig{DisallowSwitch: true}, []validateCase{
		{"if (x) { a() }", false},
		{"switch (x) { default: a() }", true},
	})
}

func TestSyntaxValidator_DisallowLabels(t *testing.T) {
	runValidateCases(t, SyntaxConfig{DisallowLabels: true}, []validateCase{
		{"while (x) { f() }", false},
		{"while (x) { break }", true},
		{"for (const x of xs) { continue }", true},
	})
}

func TestSyntaxValidator_DisallowSpread(t *testing.T) {
	runValidateCases(t, SyntaxConfig{DisallowSpread: true}, []validateCase{
		{"f(a, b)", false},
		{"f(...args)", true},
		{"[1, ...rest]", true},
		{"x = { ...base, a: 1 }", true},
	})
}

func TestSyntaxValidator_DisallowTemplates(t *testing.T) {
	runValidateCases(t, SyntaxConfig{DisallowTemplates: true}, []validateCase{
		{"'plain'", false},
		{"`hello ${name}`", true},
		{"`static`", true},
	})
}

func TestSyntaxValidator_DisallowOptionalChain(t *testing.T) {
	runValidateCases(t, SyntaxConfig{DisallowOptionalChain: true}, []validateCase{
		{"a.b(c)[d]", false},
		{"a?.b", true},
		{"f?.()", true},
		{"a?.[i]", true},
	})
}

func TestSyntaxValidator_DisallowNew(t *testing.T) {
	runValidateCases(t, SyntaxConfig{DisallowNew: true}, []validateCase{
		{"Foo()", false},
		{"new Foo()", true},
		{"new Foo", true},
	})
}

func TestMultipleErrors(t *testing.T) {
	source := `
var x = 1
var y = 2
var z = 3
`
	errs := NewSyntaxValidator(SyntaxConfig{DisallowVar: true}).Validate(parse(t, source))
	assert.Len(t, errs, 3)
}

func TestValidationErrorPosition(t *testing.T) {
	errs := NewSyntaxValidator(SyntaxConfig{DisallowVar: true}).Validate(parse(t, "f()\n  var x = 1"))
	require.Len(t, errs, 1)

	err := errs[0]
	assert.Equal(t, saraswatierrors.E3001, err.Code)
	assert.Equal(t, "var declarations are not allowed", err.Message)
	assert.Equal(t, 2, err.Position.LineNumber())
	assert.Equal(t, 3, err.Position.ColumnNumber())
	assert.Equal(t, 2, err.End().LineNumber())
	assert.Equal(t, 12, err.End().ColumnNumber())
	assert.Equal(t, "var declarations are not allowed at line 2, column 3", err.Error())
}

func TestValidationErrorWithFile(t *testing.T) {
	err := ValidationError{Message: "nope"}
	err.Position.File = "main.js"
	err.Position.Line = 4
	assert.Equal(t, "nope at main.js:5:1", err.Error())
	assert.Equal(t, err.Position, err.End())
}

func TestValidationErrors(t *testing.T) {
	assert.Equal(t, "no validation errors", NewValidationErrors(nil).Error())
	assert.Nil(t, NewValidationErrors(nil).Unwrap())

	errs := NewSyntaxValidator(SyntaxConfig{DisallowVar: true, DisallowNew: true}).
		Validate(parse(t, "var x = new Foo()"))
	require.Len(t, errs, 2)

	wrapped := NewValidationErrors(errs)
	assert.Equal(t, "2 validation errors:\n"+
		"  - var declarations are not allowed at line 1, column 1\n"+
		"  - new expressions are not allowed at line 1, column 9\n", wrapped.Error())

	var first *ValidationError
	require.True(t, errors.As(wrapped, &first))
	assert.Equal(t, "var declarations are not allowed", first.Message)

	single := NewValidationErrors(errs[:1])
	assert.Equal(t, "var declarations are not allowed at line 1, column 1", single.Error())
}
