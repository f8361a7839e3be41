package parser

import (
	"testing"

	"github.com/saraswati-lib/saraswati/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarLiterals(t *testing.T) {
	program := parseOK(t, "42; 3.14; true; false; null; 'it\\'s'")
	require.Len(t, program.Stmts, 6)

	assert.Equal(t, "42", program.Stmts[0].(*ast.Number).Literal)
	assert.Equal(t, "3.14", program.Stmts[1].(*ast.Number).Literal)
	assert.True(t, program.Stmts[2].(*ast.Bool).Value)
	assert.False(t, program.Stmts[3].(*ast.Bool).Value)
	assert.IsType(t, &ast.Null{}, program.Stmts[4])

	str := program.Stmts[5].(*ast.String)
	assert.Equal(t, "it's", str.Value)
	assert.Equal(t, `'it\'s'`, str.Literal)
	assert.Equal(t, str.Pos().Char+len(str.Literal), str.End().Char)
}

func TestTemplateLiteral(t *testing.T) {
	program := parseOK(t, "`a${b + 1}c`")
	tpl, ok := program.Stmts[0].(*ast.Template)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "c"}, tpl.Quasis)
	require.Len(t, tpl.Exprs, 1)
	assert.Equal(t, "`a${(b + 1)}c`", tpl.String())

	program = parseOK(t, "`plain`")
	tpl = program.Stmts[0].(*ast.Template)
	assert.Equal(t, []string{"plain"}, tpl.Quasis)
	assert.Empty(t, tpl.Exprs)
}

func TestTemplateSpans(t *testing.T) {
	program := parseOK(t, "`a${bc}`")
	tpl := program.Stmts[0].(*ast.Template)
	assert.Equal(t, 0, tpl.Lquote.Char)
	assert.Equal(t, 7, tpl.Rquote.Char)
	assert.Equal(t, 8, tpl.End().Char)

	ident := tpl.Exprs[0].(*ast.Ident)
	assert.Equal(t, 4, ident.Pos().Char)
	assert.Equal(t, 6, ident.End().Char)

	// Interpolations on later lines keep absolute positions.
	program = parseOK(t, "f()\nlet s = `${y}`")
	decl := program.Stmts[1].(*ast.Var)
	y := decl.Decls[0].Value.(*ast.Template).Exprs[0]
	assert.Equal(t, 2, y.Pos().LineNumber())
	assert.Equal(t, 12, y.Pos().ColumnNumber())
}

func TestTemplateCallArgument(t *testing.T) {
	program := parseOK(t, "`x${yield(1)}`")
	tpl := program.Stmts[0].(*ast.Template)
	call, ok := tpl.Exprs[0].(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "yield", call.Fun.String())
	assert.Equal(t, 4, call.Pos().Char)
	assert.Equal(t, 11, call.Rparen.Char)
}

func TestTemplateErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
		class Class
	}{
		{"`${}`", "template error: empty expression in template literal", ClassTemplate},
		{"`${a b}`", `template error: unexpected "b" in template literal`, ClassTemplate},
		{"`${(}`", "unexpected end of file", ClassToken},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			perrs := parseErr(t, tt.input)
			assert.Contains(t, perrs.Error(), tt.msg)
			assert.Equal(t, tt.class, perrs.First().Class)
		})
	}

	perrs := parseErr(t, "`${}`")
	assert.Equal(t, "each ${...} in a template literal must hold exactly one expression",
		perrs.First().ToFormatted().Hint)
}

func TestListLiteral(t *testing.T) {
	program := parseOK(t, "[1, ...xs, 3,]")
	list := program.Stmts[0].(*ast.List)
	require.Len(t, list.Items, 3)
	assert.IsType(t, &ast.Spread{}, list.Items[1])
	assert.Equal(t, "[1, ...xs, 3]", list.String())
	assert.Equal(t, 14, list.End().Char)

	program = parseOK(t, "[]")
	assert.Empty(t, program.Stmts[0].(*ast.List).Items)
}

func TestObjectLiteral(t *testing.T) {
	program := parseOK(t, "x = { a, 'b': 1, [k]: 2, ...r, m(x) { return x }, if: 3 }")
	assign := program.Stmts[0].(*ast.Assign)
	obj, ok := assign.Value.(*ast.Object)
	require.True(t, ok)
	require.Len(t, obj.Items, 6)

	assert.True(t, obj.Items[0].Shorthand)
	assert.Equal(t, "b", obj.Items[1].Key.(*ast.String).Value)
	assert.True(t, obj.Items[2].Computed)
	assert.Nil(t, obj.Items[3].Key)
	assert.IsType(t, &ast.Spread{}, obj.Items[3].Value)
	method, ok := obj.Items[4].Value.(*ast.Func)
	require.True(t, ok)
	assert.Len(t, method.Params, 1)
	assert.Equal(t, "if", obj.Items[5].Key.(*ast.Ident).Name)

	assert.Equal(t, "{ a, 'b': 1, [k]: 2, ...r, m: function(x) { return x }, if: 3 }", obj.String())
}

func TestObjectErrors(t *testing.T) {
	perrs := parseErr(t, "x = { a: }")
	assert.Contains(t, perrs.Error(), "invalid syntax")

	perrs = parseErr(t, "x = { 'a' }")
	assert.Contains(t, perrs.Error(), "while parsing object literal")
}

func TestFunctionLiteral(t *testing.T) {
	program := parseOK(t, "let f = function (a) { return a }")
	decl := program.Stmts[0].(*ast.Var)
	fn, ok := decl.Decls[0].Value.(*ast.Func)
	require.True(t, ok)
	assert.False(t, fn.IsArrow)
	assert.Nil(t, fn.Name)
	assert.Equal(t, "function(a) { return a }", fn.String())
	assert.Equal(t, 8, fn.Pos().Char)
	assert.Equal(t, 33, fn.End().Char)
}
