package lexer

import (
	"testing"

	"yim/token"
)

func assertTokenTypes(t *testing.T, source string, expected []token.TokenType) {
	t.Helper()
	lex := New(source)
	tokens, err := lex.Scan()
	if err != nil {
		t.Fatalf("lexing %q failed: %v", source, err)
	}
	if len(tokens) != len(expected) {
		t.Fatalf("lexing %q produced %d tokens, want %d", source, len(tokens), len(expected))
	}
	for i, tok := range tokens {
		if tok.TokenType != expected[i] {
			t.Errorf("token %d of %q - got: %s, want: %s", i, source, tok.TokenType, expected[i])
		}
	}
}

func TestScanStatements(t *testing.T) {
	tests := []struct {
		source   string
		expected []token.TokenType
	}{
		{
			source:   "ao x = 10",
			expected: []token.TokenType{token.VAR, token.IDENTIFIER, token.ASSIGN, token.NUMBER, token.EOF},
		},
		{
			source:   "da x + 5",
			expected: []token.TokenType{token.PRINT, token.IDENTIFIER, token.ADD, token.NUMBER, token.EOF},
		},
		{
			source: "wonn i < 3 job",
			expected: []token.TokenType{
				token.WHILE, token.IDENTIFIER, token.LESS, token.NUMBER, token.END, token.EOF,
			},
		},
		{
			source: "tuk i = 1 thueng 10 yang 2",
			expected: []token.TokenType{
				token.FOR, token.IDENTIFIER, token.ASSIGN, token.NUMBER,
				token.TO, token.NUMBER, token.STEP, token.NUMBER, token.EOF,
			},
		},
		{
			source: "b.get()[0]",
			expected: []token.TokenType{
				token.IDENTIFIER, token.DOT, token.IDENTIFIER, token.LPA, token.RPA,
				token.LBRACKET, token.NUMBER, token.RBRACKET, token.EOF,
			},
		},
	}

	for _, tt := range tests {
		assertTokenTypes(t, tt.source, tt.expected)
	}
}

func TestScanOperators(t *testing.T) {
	assertTokenTypes(t, "a ** b % c << 2 >> 1 & 3 | 4 ^ 5 ~6", []token.TokenType{
		token.IDENTIFIER, token.POWER, token.IDENTIFIER, token.MODULO, token.IDENTIFIER,
		token.LSHIFT, token.NUMBER, token.RSHIFT, token.NUMBER,
		token.BIT_AND, token.NUMBER, token.BIT_OR, token.NUMBER,
		token.BIT_XOR, token.NUMBER, token.BIT_NOT, token.NUMBER, token.EOF,
	})
	assertTokenTypes(t, "a && b || c <= d >= e != f == g", []token.TokenType{
		token.IDENTIFIER, token.AND, token.IDENTIFIER, token.OR, token.IDENTIFIER,
		token.LESS_EQUAL, token.IDENTIFIER, token.LARGER_EQUAL, token.IDENTIFIER,
		token.NOT_EQUAL, token.IDENTIFIER, token.EQUAL_EQUAL, token.IDENTIFIER, token.EOF,
	})
}

// Identifiers are bilingual: Thai script letters are accepted alongside
// ASCII letters, digits and underscore.
func TestScanThaiIdentifiers(t *testing.T) {
	lex := New("ao ชื่อ = \"yim\"")
	tokens, err := lex.Scan()
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	if tokens[1].TokenType != token.IDENTIFIER {
		t.Errorf("expected a Thai identifier, got %s", tokens[1].TokenType)
	}
	if tokens[1].Lexeme != "ชื่อ" {
		t.Errorf("identifier lexeme - got: %q", tokens[1].Lexeme)
	}
}

func TestScanNumberLiterals(t *testing.T) {
	tests := []struct {
		source   string
		expected float64
	}{
		{source: "0", expected: 0},
		{source: "42", expected: 42},
		{source: "3.25", expected: 3.25},
	}
	for _, tt := range tests {
		lex := New(tt.source)
		tokens, err := lex.Scan()
		if err != nil {
			t.Fatalf("lexing %q failed: %v", tt.source, err)
		}
		if tokens[0].Literal != tt.expected {
			t.Errorf("%q - got: %v, want: %v", tt.source, tokens[0].Literal, tt.expected)
		}
	}
}

func TestScanStringLiteral(t *testing.T) {
	lex := New("da \"sawasdee\"")
	tokens, err := lex.Scan()
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	if tokens[1].TokenType != token.STRING || tokens[1].Literal != "sawasdee" {
		t.Errorf("string literal - got: %v", tokens[1])
	}
}

func TestScanUnclosedStringFails(t *testing.T) {
	lex := New("\"no end")
	_, err := lex.Scan()
	if err == nil {
		t.Errorf("expected an error for an unclosed string literal")
	}
}

func TestScanInvalidNumberFails(t *testing.T) {
	lex := New("1.1.5")
	_, err := lex.Scan()
	if err == nil {
		t.Errorf("expected an error for a number with two decimal points")
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	assertTokenTypes(t, "ao x = 1 # comment until end of line\nda x", []token.TokenType{
		token.VAR, token.IDENTIFIER, token.ASSIGN, token.NUMBER,
		token.PRINT, token.IDENTIFIER, token.EOF,
	})
}

func TestLineTracking(t *testing.T) {
	lex := New("ao x = 1\nda x")
	tokens, err := lex.Scan()
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	if tokens[0].Line != 1 {
		t.Errorf("first token line - got: %d, want: 1", tokens[0].Line)
	}
	if tokens[4].Line != 2 {
		t.Errorf("da token line - got: %d, want: 2", tokens[4].Line)
	}
}
