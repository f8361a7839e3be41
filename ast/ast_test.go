package ast

import (
	"testing"

	"github.com/saraswati-lib/saraswati/internal/token"
	"github.com/stretchr/testify/require"
)

func pos(char int) token.Position {
	return token.Position{Char: char, Column: char}
}

func TestString(t *testing.T) {
	program := &Program{
		Stmts: []Node{
			&Var{
				Decl: pos(0),
				Kind: "let",
				Decls: []*Declarator{{
					Name:  &Ident{NamePos: pos(4), Name: "myVar"},
					Value: &Ident{NamePos: pos(12), Name: "anotherVar"},
				}},
			},
		},
	}
	require.Equal(t, "let myVar = anotherVar", program.String())
}

func TestNodeStrings(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{&Call{
			Fun:  &GetAttr{X: &Ident{Name: "sched"}, Attr: &Ident{Name: "yield"}},
			Args: []Expr{&Number{Literal: "1"}, &Spread{X: &Ident{Name: "rest"}}},
		}, "sched.yield(1, ...rest)"},
		{&Prefix{Op: "typeof", X: &Ident{Name: "x"}}, "(typeof x)"},
		{&Infix{X: &Ident{Name: "a"}, Op: "??", Y: &Null{}}, "(a ?? null)"},
		{&Block{Stmts: []Node{
			&Call{Fun: &Ident{Name: "g"}},
			&Return{Value: &Bool{Literal: "true", Value: true}},
		}}, "{ g(); return true }"},
		{&Func{
			Name:   &Ident{Name: "f"},
			Params: []FuncParam{&Ident{Name: "a"}, &DefaultValue{Name: &Ident{Name: "b"}, Default: &Number{Literal: "2"}}},
			Body:   &Block{},
		}, "function f(a, b = 2) {}"},
		{&Func{
			IsArrow:  true,
			Params:   []FuncParam{&Ident{Name: "x"}},
			ExprBody: &Ident{Name: "x"},
		}, "(x) => x"},
		{&Template{
			Quasis: []string{"a ", ""},
			Exprs:  []Expr{&Ident{Name: "b"}},
		}, "`a ${b}`"},
		{&Object{Items: []ObjectItem{
			{Key: &Ident{Name: "a"}, Value: &Ident{Name: "a"}, Shorthand: true},
			{Key: &String{Literal: `"b"`, Value: "b"}, Value: &Number{Literal: "1"}},
			{Value: &Spread{X: &Ident{Name: "c"}}},
		}}, `{ a, "b": 1, ...c }`},
		{&ForOf{Kind: "const", Name: &Ident{Name: "k"}, In: true, Iter: &Ident{Name: "o"}, Body: &Block{}}, "for (const k in o) {}"},
		{&Try{Body: &Block{}, CatchIdent: &Ident{Name: "e"}, CatchBlock: &Block{}}, "try {} catch (e) {}"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.node.String())
	}
}

func TestIdentNameEnd(t *testing.T) {
	id := &Ident{NamePos: pos(3), Name: "abc"}
	require.Equal(t, 6, id.End().Char)

	zero := &Ident{NamePos: pos(9), NameEnd: pos(9), Name: "__rt"}
	require.Equal(t, 9, zero.End().Char)
}

func TestSynthesizedSpans(t *testing.T) {
	last := &Call{Fun: &Ident{NamePos: pos(20), Name: "h"}, Lparen: pos(21), Rparen: pos(22)}
	block := &Block{Lbrace: pos(10), Stmts: []Node{last}}
	require.Equal(t, 23, block.End().Char)

	call := &Call{
		Fun:  &Ident{NamePos: pos(0), NameEnd: pos(5), Name: "__rt.run"},
		Args: []Expr{&Func{Func: pos(10), Body: block}},
	}
	require.Equal(t, 0, call.Pos().Char)
	require.Equal(t, 23, call.End().Char)

	empty := &Block{Lbrace: pos(7)}
	require.Equal(t, 7, empty.End().Char)
}

func TestEmptyProgram(t *testing.T) {
	p := &Program{}
	require.Equal(t, token.NoPos, p.Pos())
	require.Equal(t, token.NoPos, p.End())
	require.Equal(t, "", p.String())
}
