package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test looking up values succeeds, then fails
func TestLookup(t *testing.T) {
	for key, val := range keywords {

		// Obviously this will pass.
		if LookupIdentifier(key) != val {
			t.Errorf("Lookup of %s failed", key)
		}

		// Once the keywords are uppercase they'll no longer
		// match - so we find them as identifiers.
		if LookupIdentifier(strings.ToUpper(key)) != IDENT {
			t.Errorf("Lookup of %s failed", key)
		}
	}
}

func TestPosition(t *testing.T) {
	tok := Token{
		Type:    IDENT,
		Literal: "foo",
		StartPosition: Position{
			Line:   2,
			Column: 0,
		},
	}
	// Switches to 1-indexed
	require.Equal(t, 3, tok.StartPosition.LineNumber())
	require.Equal(t, 1, tok.StartPosition.ColumnNumber())
}

func TestAdvance(t *testing.T) {
	p := Position{Char: 10, LineStart: 8, Line: 1, Column: 2, File: "a.js"}
	q := p.Advance(3)
	require.Equal(t, 13, q.Char)
	require.Equal(t, 5, q.Column)
	require.Equal(t, 8, q.LineStart)
	require.Equal(t, "a.js", q.File)
	require.True(t, p.Before(q))
	require.False(t, q.Before(p))
}

func TestIsValid(t *testing.T) {
	require.False(t, NoPos.IsValid())
	require.True(t, Position{Char: 1}.IsValid())
	require.True(t, Position{File: "x.js"}.IsValid())
}

func TestIsKeyword(t *testing.T) {
	require.True(t, IsKeyword("function"))
	require.True(t, IsKeyword("typeof"))
	require.False(t, IsKeyword("of"))
	require.False(t, IsKeyword("target"))
}
