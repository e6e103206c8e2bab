package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_Basics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{
			name:  "function declaration",
			input: "fun f() Int { return 1 + 2; }",
			want:  []TokenType{FUN, IDENT, LPAREN, RPAREN, IDENT, LBRACE, RETURN, INT, PLUS, INT, SEMI, RBRACE, EOF},
		},
		{
			name:  "comparison and arrow",
			input: "x <= y -> z",
			want:  []TokenType{IDENT, LE, IDENT, ARROW, IDENT, EOF},
		},
		{
			name:  "comment is skipped",
			input: "x // trailing comment\ny",
			want:  []TokenType{IDENT, IDENT, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(Normalize([]byte(tt.input)))
			var got []TokenType
			for {
				tok := l.Next()
				got = append(got, tok.Type)
				if tok.Type == EOF {
					break
				}
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLexer_TracksPosition(t *testing.T) {
	l := New(Normalize([]byte("a\nbb")))
	first := l.Next()
	assert.Equal(t, 0, first.Line)
	assert.Equal(t, 0, first.Column)

	second := l.Next()
	assert.Equal(t, 1, second.Line)
	assert.Equal(t, 0, second.Column)
}
