package tmpl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		input string
		want  []*Fragment
	}{
		{
			"Hello ${name}!",
			[]*Fragment{
				{value: "Hello ", isVariable: false, offset: 0},
				{value: "name", isVariable: true, offset: 8},
				{value: "!", isVariable: false, offset: 13},
			},
		},
		{
			"ab ${foo} $bar baz\t",
			[]*Fragment{
				{value: "ab ", isVariable: false, offset: 0},
				{value: "foo", isVariable: true, offset: 5},
				{value: " $bar baz\t", isVariable: false, offset: 9},
			},
		},
		{
			"${ hi + 3 }${h[0]+foo.bar()}X${}",
			[]*Fragment{
				{value: " hi + 3 ", isVariable: true, offset: 2},
				{value: "h[0]+foo.bar()", isVariable: true, offset: 13},
				{value: "X", isVariable: false, offset: 28},
				{value: "", isVariable: true, offset: 31},
			},
		},
		{
			`plain text without interpolation`,
			[]*Fragment{
				{value: "plain text without interpolation", isVariable: false},
			},
		},
		{
			`{not interpolation}`,
			[]*Fragment{
				{value: "{not interpolation}", isVariable: false},
			},
		},
		{
			"${ {a: 1}.a }",
			[]*Fragment{
				{value: " {a: 1}.a ", isVariable: true, offset: 2},
			},
		},
		{
			"${ \"}\" }",
			[]*Fragment{
				{value: " \"}\" ", isVariable: true, offset: 2},
			},
		},
	}
	for _, tc := range tests {
		res, err := Parse(tc.input)
		require.Nil(t, err)
		require.Equal(t, tc.input, res.Value())
		require.Equal(t, tc.want, res.Fragments())
	}
}

func TestParseStringErrors(t *testing.T) {
	tests := []struct {
		input   string
		wantErr string
	}{
		{"${", `missing '}' in template: ${`},
		{"a${0} ${cd", `missing '}' in template: a${0} ${cd`},
		{"${ \"} }", "missing '}' in template: ${ \"} }"},
	}
	for _, tc := range tests {
		_, err := Parse(tc.input)
		require.NotNil(t, err)
		require.Equal(t, tc.wantErr, err.Error())
	}
}

func TestEscapedInterpolation(t *testing.T) {
	res, err := Parse(`a\${b}`)
	require.Nil(t, err)
	require.Len(t, res.Fragments(), 1)
	require.False(t, res.Fragments()[0].IsVariable())
	require.Equal(t, `a\${b}`, res.Fragments()[0].Value())
	require.Empty(t, res.Variables())
}
