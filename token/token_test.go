package token

import (
	"testing"
)

func TestCreateToken(t *testing.T) {
	tests := []struct {
		tokenType      TokenType
		expectedLexeme string
	}{
		{tokenType: LPA, expectedLexeme: "("},
		{tokenType: POWER, expectedLexeme: "**"},
		{tokenType: LSHIFT, expectedLexeme: "<<"},
		{tokenType: EOF, expectedLexeme: "EOF"},
	}

	for _, tt := range tests {
		tok := CreateToken(tt.tokenType, 1, 0)
		if tok.Lexeme != tt.expectedLexeme {
			t.Errorf("lexeme for %s - got: %q, want: %q", tt.tokenType, tok.Lexeme, tt.expectedLexeme)
		}
		if tok.TokenType != tt.tokenType {
			t.Errorf("token type - got: %s, want: %s", tok.TokenType, tt.tokenType)
		}
	}
}

func TestCreateIdentifierTokenClassifiesKeywords(t *testing.T) {
	tests := []struct {
		name         string
		expectedType TokenType
	}{
		{name: "ao", expectedType: VAR},
		{name: "da", expectedType: PRINT},
		{name: "kian", expectedType: FUNC},
		{name: "kuun", expectedType: RETURN},
		{name: "klum", expectedType: CLASS},
		{name: "wonn", expectedType: WHILE},
		{name: "cheek", expectedType: SWITCH},
		{name: "karani", expectedType: CASE},
		{name: "jing", expectedType: TRUE},
		{name: "tej", expectedType: FALSE},
		{name: "wang", expectedType: NULL},
		{name: "job", expectedType: END},
		{name: "sang", expectedType: IDENTIFIER}, // initializer name is a convention, not a keyword
		{name: "myVar", expectedType: IDENTIFIER},
	}

	for _, tt := range tests {
		tok := CreateIdentifierToken(tt.name, 1, 0)
		if tok.TokenType != tt.expectedType {
			t.Errorf("%q - got: %s, want: %s", tt.name, tok.TokenType, tt.expectedType)
		}
		if tok.Lexeme != tt.name {
			t.Errorf("%q - lexeme got: %q", tt.name, tok.Lexeme)
		}
	}
}

func TestCreateLiteralToken(t *testing.T) {
	tok := CreateLiteralToken(NUMBER, 123.0, "123", 3, 10)
	if tok.Literal != 123.0 {
		t.Errorf("literal - got: %v, want: 123", tok.Literal)
	}
	if tok.Line != 3 || tok.Column != 10 {
		t.Errorf("position - got: line %d column %d", tok.Line, tok.Column)
	}
}
