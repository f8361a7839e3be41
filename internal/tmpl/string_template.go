// Package tmpl splits the body of a template literal into its text and
// interpolation fragments.
package tmpl

import "fmt"

// Fragment is one piece of a template: either literal text or the source of
// an embedded "${...}" expression.
type Fragment struct {
	value      string
	isVariable bool
	offset     int
}

// Value returns the raw text of the fragment. For variables this is the
// expression source without the surrounding "${" and "}".
func (f *Fragment) Value() string { return f.value }

// IsVariable reports whether the fragment is an interpolated expression.
func (f *Fragment) IsVariable() bool { return f.isVariable }

// Offset returns the byte offset of the fragment value within the template.
func (f *Fragment) Offset() int { return f.offset }

// Template is a parsed template literal body.
type Template struct {
	value     string
	fragments []*Fragment
}

// Value returns the original template body.
func (t *Template) Value() string { return t.value }

// Fragments returns the template fragments in source order.
func (t *Template) Fragments() []*Fragment { return t.fragments }

// Variables returns only the interpolated fragments.
func (t *Template) Variables() []*Fragment {
	var vars []*Fragment
	for _, f := range t.fragments {
		if f.isVariable {
			vars = append(vars, f)
		}
	}
	return vars
}

// Parse splits s, the text between the backticks of a template literal, into
// fragments. Braces nested inside an interpolation are balanced, and quoted
// strings or nested templates inside it are skipped over.
func Parse(s string) (*Template, error) {
	t := &Template{value: s}
	var text []byte
	textStart := 0
	i := 0
	for i < len(s) {
		c := s[i]
		if len(text) == 0 {
			textStart = i
		}
		if c == '\\' && i+1 < len(s) {
			text = append(text, c, s[i+1])
			i += 2
			continue
		}
		if c == '$' && i+1 < len(s) && s[i+1] == '{' {
			if len(text) > 0 {
				t.fragments = append(t.fragments, &Fragment{value: string(text), offset: textStart})
				text = text[:0]
			}
			end, ok := matchBrace(s, i+2)
			if !ok {
				return nil, fmt.Errorf("missing '}' in template: %s", s)
			}
			t.fragments = append(t.fragments, &Fragment{
				value:      s[i+2 : end],
				isVariable: true,
				offset:     i + 2,
			})
			i = end + 1
			continue
		}
		text = append(text, c)
		i++
	}
	if len(text) > 0 {
		t.fragments = append(t.fragments, &Fragment{value: string(text), offset: textStart})
	}
	return t, nil
}

// matchBrace returns the index of the "}" closing an interpolation whose body
// starts at start.
func matchBrace(s string, start int) (int, bool) {
	depth := 0
	for i := start; i < len(s); i++ {
		switch c := s[i]; c {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i, true
			}
			depth--
		case '"', '\'':
			end, ok := skipQuoted(s, i, c)
			if !ok {
				return 0, false
			}
			i = end
		case '`':
			end, ok := skipTemplate(s, i)
			if !ok {
				return 0, false
			}
			i = end
		}
	}
	return 0, false
}

func skipQuoted(s string, start int, quote byte) (int, bool) {
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i, true
		case '\n':
			return 0, false
		}
	}
	return 0, false
}

func skipTemplate(s string, start int) (int, bool) {
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '`':
			return i, true
		case '$':
			if i+1 < len(s) && s[i+1] == '{' {
				end, ok := matchBrace(s, i+2)
				if !ok {
					return 0, false
				}
				i = end
			}
		}
	}
	return 0, false
}
