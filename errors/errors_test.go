package errors

import (
	"bytes"
	"strings"
	"testing"

	"github.com/saraswati-lib/saraswati/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceLocation_String(t *testing.T) {
	tests := []struct {
		loc  SourceLocation
		want string
	}{
		{SourceLocation{Filename: "main.js", Line: 3, Column: 7}, "main.js:3:7"},
		{SourceLocation{Line: 1, Column: 1}, "1:1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.loc.String())
	}
	assert.True(t, SourceLocation{}.IsZero())
	assert.False(t, SourceLocation{Line: 1}.IsZero())
}

func TestLocationOf(t *testing.T) {
	pos := token.Position{Char: 12, LineStart: 10, Line: 1, Column: 2}
	assert.Equal(t, "main.js:2:3", LocationOf("main.js", pos).String())

	pos.File = "lib.js"
	assert.Equal(t, "lib.js:2:3", LocationOf("main.js", pos).String())
}

func TestEndColumn(t *testing.T) {
	start := token.Position{Line: 0, Column: 4}
	assert.Equal(t, 8, EndColumn(start, token.Position{Line: 0, Column: 8}, "let abcd = 1"))
	assert.Equal(t, 5, EndColumn(start, start, "let abcd = 1"))
	assert.Equal(t, 12, EndColumn(start, token.Position{Line: 2, Column: 1}, "let abcd = 1"))
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "invalid target call placement", E2001.Description())
	assert.Equal(t, "target name shadowed", E2100.Description())
	assert.Equal(t, "unknown error", ErrorCode("E9999").Description())
	assert.Equal(t, "E1003", E1003.String())
	assert.Equal(t, "parse", E1001.Category())
	assert.Equal(t, "transform", E2006.Category())
	assert.Equal(t, "syntax", E3001.Category())
	assert.Equal(t, "unknown", ErrorCode("X").Category())
}

func TestSuggestSimilar(t *testing.T) {
	got := SuggestSimilar("direkt", []string{"direct", "lowered", "continuation"})
	require.Len(t, got, 1)
	assert.Equal(t, "direct", got[0].Value)
	assert.Equal(t, 1, got[0].Distance)

	assert.Empty(t, SuggestSimilar("", []string{"a"}))
	assert.Empty(t, SuggestSimilar("zzzzzz", []string{"direct"}))
	// exact matches are not suggestions
	assert.Empty(t, SuggestSimilar("Direct", []string{"direct"}))

	many := SuggestSimilar("abcd", []string{"abce", "abcf", "abcg", "abch"})
	assert.Len(t, many, MaxSuggestions)
	assert.Equal(t, "abce", many[0].Value)
}

func TestFormatSuggestions(t *testing.T) {
	assert.Equal(t, "", FormatSuggestions(nil))
	assert.Equal(t, "Did you mean 'yield'?", FormatSuggestions([]Suggestion{{Value: "yield"}}))
	assert.Equal(t, "Did you mean one of: 'a', 'b'?",
		FormatSuggestions([]Suggestion{{Value: "a"}, {Value: "b"}}))
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"yield", "yeild", 2},
		{"世界", "世", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, levenshteinDistance(tt.a, tt.b))
		})
	}
}

func TestFormatter_Format(t *testing.T) {
	f := NewFormatter(false)
	err := &FormattedError{
		Code:     E2002,
		Kind:     "error",
		Message:  "target call outside required context",
		Filename: "test.js",
		Line:     10,
		Column:   5,
		SourceLines: []SourceLineEntry{
			{Number: 10, Text: "    yield(1);", IsMain: true},
		},
	}
	want := strings.Join([]string{
		"error[E2002]: target call outside required context",
		"  --> test.js:10:5",
		"   |",
		"10 |     yield(1);",
		"   |     ^",
		"",
	}, "\n")
	assert.Equal(t, want, f.Format(err))
}

func TestFormatter_FormatAnnotations(t *testing.T) {
	f := NewFormatter(false)
	result := f.Format(&FormattedError{
		Kind:    "warning",
		Message: "shadowed",
		Line:    5,
		Column:  1,
		Hint:    "Did you mean 'yield'?",
		Note:    "local binding declared here",
	})
	assert.True(t, strings.HasPrefix(result, "warning: shadowed"))
	assert.Contains(t, result, "hint: Did you mean 'yield'?")
	assert.Contains(t, result, "note: local binding declared here")
}

func TestFormatter_FormatNoLocation(t *testing.T) {
	result := NewFormatter(false).Format(&FormattedError{Kind: "error", Message: "something went wrong"})
	assert.Contains(t, result, "something went wrong")
	assert.NotContains(t, result, "-->")
}

func TestFormatter_FormatMultiple(t *testing.T) {
	f := NewFormatter(false)
	assert.Equal(t, "", f.FormatMultiple(nil))

	single := []*FormattedError{{Kind: "error", Message: "test"}}
	assert.NotContains(t, f.FormatMultiple(single), "[1/1]")

	multiple := []*FormattedError{
		{Kind: "error", Message: "first error"},
		{Kind: "error", Message: "second error"},
	}
	result := f.FormatMultiple(multiple)
	assert.Contains(t, result, "error[1/2]: first error")
	assert.Contains(t, result, "error[2/2]: second error")
	assert.Contains(t, result, "found 2 errors")
}

func TestFormatter_FormatWithColor(t *testing.T) {
	plain := NewFormatter(false).Format(&FormattedError{Code: E2001, Message: "x", Line: 1, Column: 1})
	colored := NewFormatter(true).Format(&FormattedError{Code: E2001, Message: "x", Line: 1, Column: 1})
	assert.NotContains(t, plain, "\x1b[")
	assert.Contains(t, colored, "\x1b[")
}

func TestFormatter_FormatMultiCharUnderline(t *testing.T) {
	result := NewFormatter(false).Format(&FormattedError{
		Kind:      "error",
		Message:   "bad call",
		Line:      5,
		Column:    5,
		EndColumn: 9,
		SourceLines: []SourceLineEntry{
			{Number: 5, Text: "let hello = undefined", IsMain: true},
		},
	})
	assert.Contains(t, result, "|     ^^^^^\n")
}

func TestFormatter_FormatLargeLineNumber(t *testing.T) {
	result := NewFormatter(false).Format(&FormattedError{
		Message:  "test",
		Filename: "test.js",
		Line:     1000,
		Column:   5,
		SourceLines: []SourceLineEntry{
			{Number: 1000, Text: "some code", IsMain: true},
		},
	})
	assert.Contains(t, result, "1000 | some code")
	assert.Contains(t, result, "    --> test.js:1000:5")
}

func TestCompileError(t *testing.T) {
	err := &CompileError{
		Code:        E2004,
		Message:     "yield expects 1 argument, got 2",
		Filename:    "a.js",
		Line:        2,
		Column:      3,
		SourceLine:  "  yield(1, 2)",
		Suggestions: []Suggestion{{Value: "yield"}},
	}
	assert.Equal(t, "compile error[E2004]: yield expects 1 argument, got 2 (a.js:2:3)", err.Error())
	assert.False(t, err.IsWarning())

	fe := err.ToFormatted()
	assert.Equal(t, "error", fe.Kind)
	assert.Equal(t, "Did you mean 'yield'?", fe.Hint)
	require.Len(t, fe.SourceLines, 1)
	assert.Contains(t, err.FriendlyErrorMessage(), "error[E2004]")

	warn := &CompileError{Code: E2100, Kind: "warning", Message: "shadowed"}
	assert.Equal(t, "warning[E2100]: shadowed", warn.Error())
	assert.True(t, warn.IsWarning())
}

func TestCompileErrors(t *testing.T) {
	var errs CompileErrors
	assert.False(t, errs.HasErrors())
	assert.Nil(t, errs.ToError())

	first := &CompileError{Message: "first"}
	errs.Add(first)
	assert.Equal(t, first, errs.ToError())

	errs.Add(&CompileError{Message: "second"})
	assert.Equal(t, 2, errs.Count())
	assert.Equal(t, "compile error: first (and 1 more errors)", errs.Error())
	assert.Contains(t, errs.FriendlyErrorMessage(), "found 2 errors")
}

func TestHandler(t *testing.T) {
	src := "function f() {\n  g(yield(1));\n}\n"
	var buf bytes.Buffer
	h := NewHandler(&buf, "main.js", src)

	start := token.Position{Char: 19, LineStart: 15, Line: 1, Column: 4}
	end := token.Position{Char: 27, LineStart: 15, Line: 1, Column: 12}
	d := h.Locate(E2001, "error", "yield must be used as a statement", start, end)
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, 5, d.Column)
	assert.Equal(t, 12, d.EndColumn)
	assert.Equal(t, "  g(yield(1));", d.SourceLine)

	h.Emit(d)
	h.Emit(&CompileError{Code: E2100, Kind: "warning", Message: "shadowed"})
	assert.Equal(t, 1, h.ErrorCount())
	assert.Equal(t, 1, h.WarningCount())
	assert.True(t, h.HasErrors())
	assert.Equal(t, "main.js: 1 error, 1 warning emitted", h.Summary())

	out := buf.String()
	assert.Contains(t, out, "error[E2001]: yield must be used as a statement")
	assert.Contains(t, out, " 2 |   g(yield(1));")
	assert.Contains(t, out, "   |     ^^^^^^^^\n")
	assert.Contains(t, out, "warning[E2100]: shadowed")
}

func TestHandlerPlainError(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, "x.js", "")
	assert.Equal(t, "", h.Summary())
	h.Emit(assert.AnError)
	assert.Equal(t, 1, h.ErrorCount())
	assert.Contains(t, buf.String(), assert.AnError.Error())
	assert.Equal(t, "", h.Line(0))
	assert.Equal(t, "", h.Line(5))
}
