package asciidag

import (
	"strings"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"

	"github.com/dagview/asciidag/token"
)

func TestScannerNext(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []token.Token
	}{
		{
			name: "empty",
			in:   "",
			want: []token.Token{
				{Kind: token.EOF, Pos: token.Position{Line: 1, Column: 1}},
			},
		},
		{
			name: "node and edge",
			in:   ".\n|\n.",
			want: []token.Token{
				{Kind: token.Label, Literal: '.', Pos: token.Position{Line: 1, Column: 1}},
				{Kind: token.NL, Literal: '\n', Pos: token.Position{Line: 1, Column: 2}},
				{Kind: token.Pipe, Literal: '|', Pos: token.Position{Line: 2, Column: 1}},
				{Kind: token.NL, Literal: '\n', Pos: token.Position{Line: 2, Column: 2}},
				{Kind: token.Label, Literal: '.', Pos: token.Position{Line: 3, Column: 1}},
				{Kind: token.EOF, Pos: token.Position{Line: 3, Column: 2}},
			},
		},
		{
			name: "diagonals and cross",
			in:   "/\\X",
			want: []token.Token{
				{Kind: token.Slash, Literal: '/', Pos: token.Position{Line: 1, Column: 1}},
				{Kind: token.Backslash, Literal: '\\', Pos: token.Position{Line: 1, Column: 2}},
				{Kind: token.Cross, Literal: 'X', Pos: token.Position{Line: 1, Column: 3}},
				{Kind: token.EOF, Pos: token.Position{Line: 1, Column: 4}},
			},
		},
		{
			name: "space",
			in:   "a b",
			want: []token.Token{
				{Kind: token.Label, Literal: 'a', Pos: token.Position{Line: 1, Column: 1}},
				{Kind: token.Space, Literal: ' ', Pos: token.Position{Line: 1, Column: 2}},
				{Kind: token.Label, Literal: 'b', Pos: token.Position{Line: 1, Column: 3}},
				{Kind: token.EOF, Pos: token.Position{Line: 1, Column: 4}},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sc, err := NewScanner(strings.NewReader(test.in))
			require.NoError(t, err, "NewScanner(%q)", test.in)

			var got []token.Token
			for {
				tok, err := sc.Next()
				require.NoError(t, err, "Next() for %q", test.in)
				got = append(got, tok)
				if tok.Kind == token.EOF {
					break
				}
			}

			assert.EqualValues(t, got, test.want, "tokens for %q", test.in)
		})
	}
}
