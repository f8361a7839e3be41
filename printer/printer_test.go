package printer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/saraswati-lib/saraswati/ast"
	"github.com/saraswati-lib/saraswati/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, err := parser.Parse(context.Background(), src)
	require.NoError(t, err)
	return program
}

func TestPrintProgram(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple variable",
			input:    "let x=1",
			expected: "let x = 1;\n",
		},
		{
			name:     "variable with expression",
			input:    "let x=1+2*3",
			expected: "let x = 1 + 2 * 3;\n",
		},
		{
			name:     "multiple declarators",
			input:    "let s = 'x', t = \"y\", u",
			expected: "let s = 'x', t = \"y\", u;\n",
		},
		{
			name:  "function",
			input: "function add(a,b){return a+b}",
			expected: `function add(a, b) {
  return a + b;
}
`,
		},
		{
			name:  "if-else",
			input: "if(x>0){a()}else{b()}",
			expected: `if (x > 0) {
  a();
} else {
  b();
}
`,
		},
		{
			name:  "if without blocks",
			input: "if (a) b(); else c()",
			expected: `if (a)
  b();
else
  c();
`,
		},
		{
			name:  "else if chain",
			input: "if (a) { x() } else if (b) { y() } else { z() }",
			expected: `if (a) {
  x();
} else if (b) {
  y();
} else {
  z();
}
`,
		},
		{
			name:     "empty for",
			input:    "for (;;) {}",
			expected: "for (;;) {}\n",
		},
		{
			name:     "for loop",
			input:    "for (let i = 0; i < n; i++) {}",
			expected: "for (let i = 0; i < n; i++) {}\n",
		},
		{
			name:     "for-of with statement body",
			input:    "for (const x of xs) f(x)",
			expected: "for (const x of xs)\n  f(x);\n",
		},
		{
			name:     "do-while",
			input:    "do x(); while (y)",
			expected: "do\n  x();\nwhile (y);\n",
		},
		{
			name:  "try",
			input: "try { a() } catch (e) { b() } finally { c() }",
			expected: `try {
  a();
} catch (e) {
  b();
} finally {
  c();
}
`,
		},
		{
			name:  "switch",
			input: "switch (x) { case 1: a(); break; default: b() }",
			expected: `switch (x) {
case 1:
  a();
  break;
default:
  b();
}
`,
		},
		{
			name:     "list",
			input:    "[1,2,...rest]",
			expected: "[1, 2, ...rest];\n",
		},
		{
			name:     "object statement",
			input:    "({a: 1, b})",
			expected: "({ a: 1, b });\n",
		},
		{
			name:     "empty object",
			input:    "x = {}",
			expected: "x = {};\n",
		},
		{
			name:     "immediately invoked function",
			input:    "(function () {})()",
			expected: "(function () {})();\n",
		},
		{
			name:     "arrow returning object",
			input:    "x => ({a})",
			expected: "(x) => ({ a });\n",
		},
		{
			name:     "template",
			input:    "`a${b+1}c`",
			expected: "`a${b + 1}c`;\n",
		},
		{
			name:     "optional chain",
			input:    "a?.b?.(c)?.[d]",
			expected: "a?.b?.(c)?.[d];\n",
		},
		{
			name:     "return and throw",
			input:    "function f() { if (x) return; throw new Error('bad') }",
			expected: "function f() {\n  if (x)\n    return;\n  throw new Error('bad');\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Print(mustParse(t, tt.input)))
		})
	}
}

func TestParenthesization(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"(1 + 2) * 3", "(1 + 2) * 3;\n"},
		{"a - (b - c)", "a - (b - c);\n"},
		{"(a - b) - c", "a - b - c;\n"},
		{"2 ** 3 ** 2", "2 ** 3 ** 2;\n"},
		{"(2 ** 3) ** 2", "(2 ** 3) ** 2;\n"},
		{"(-a) ** 2", "(-a) ** 2;\n"},
		{"a ?? (b || c)", "a ?? (b || c);\n"},
		{"(a && b) ?? c", "(a && b) ?? c;\n"},
		{"- -a", "- -a;\n"},
		{"-(-1)", "- -1;\n"},
		{"typeof x", "typeof x;\n"},
		{"a = b ? c : d ? e : f", "a = b ? c : d ? e : f;\n"},
		{"(a ? b : c) ? d : e", "(a ? b : c) ? d : e;\n"},
		{"new (f())()", "new (f())();\n"},
		{"(new Foo).bar", "(new Foo).bar;\n"},
		{"new Foo.Bar(1)", "new Foo.Bar(1);\n"},
		{"(1).toString()", "(1).toString();\n"},
		{"(a, b) => a + b", "(a, b) => a + b;\n"},
		{"f((x) => x, y)", "f((x) => x, y);\n"},
		{"(a = b) + 1", "(a = b) + 1;\n"},
		{"for (let i = o ? ('a' in o) : 0;;) {}", "for (let i = o ? ('a' in o) : 0;;) {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Print(mustParse(t, tt.input)))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	src := `
function run(tasks, opts = {}) {
  let done = 0
  for (const task of tasks) {
    if (!task.ready) continue
    try {
      sched.yield(task.id, ...task.args)
      done++
    } catch (err) {
      log(` + "`failed ${task.id}: ${err.message}`" + `)
    }
  }
  switch (done) {
    case 0: return null
    default: return { done, total: tasks.length }
  }
}
`
	first := Print(mustParse(t, src))
	second := Print(mustParse(t, first))
	assert.Equal(t, first, second)
}

func TestConfigIndent(t *testing.T) {
	program := mustParse(t, "function f() { if (x) { return 1 } }")
	expected := "function f() {\n    if (x) {\n        return 1;\n    }\n}\n"
	assert.Equal(t, expected, Config{Indent: 4}.Print(program))
}

func TestPrintSingleNodes(t *testing.T) {
	call := &ast.Call{
		Fun: &ast.GetAttr{
			X:    &ast.Ident{Name: "__rt"},
			Attr: &ast.Ident{Name: "yield"},
		},
		Args: []ast.Expr{
			&ast.Number{Literal: "1"},
			&ast.Func{Body: &ast.Block{Stmts: []ast.Node{
				&ast.Call{Fun: &ast.Ident{Name: "next"}},
			}}},
		},
	}
	assert.Equal(t, "__rt.yield(1, function () {\n  next();\n})", Print(call))

	block := &ast.Block{Stmts: []ast.Node{call}}
	assert.Equal(t, "{\n  __rt.yield(1, function () {\n    next();\n  });\n}", Print(block))

	str := &ast.String{Value: "a\"b"}
	assert.Equal(t, `"a\"b"`, Print(str))
	assert.Empty(t, Print(nil))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Fprint(&buf, mustParse(t, "a()")))
	assert.Equal(t, "a();\n", buf.String())

	err := Fprint(failingWriter{}, mustParse(t, "a()"))
	assert.EqualError(t, err, "disk full")
}
