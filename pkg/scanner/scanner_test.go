/*
 * Copyright (c) 2022-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package scanner

import (
	"testing"

	"github.com/dburkart/ninecc/pkg/common/parse"
)

func TestMatchInteger(t *testing.T) {
	s := Scanner{Input: "12345+"}
	width := s.MatchInteger()

	if width != 5 {
		t.Errorf("12345 should have width of 5, not %d", width)
	}

	s.Input = "+1"
	if width = s.MatchInteger(); width != 0 {
		t.Error("+1 should not match an integer!")
	}
}

func TestMatchOperator(t *testing.T) {
	s := Scanner{Input: "<=3"}

	if width := s.MatchOperator(); width != 2 {
		t.Errorf("<= should have width 2, not %d", width)
	}

	s.Input = "=3"
	if width := s.MatchOperator(); width != 0 {
		t.Errorf("a lone '=' is not an operator, got width %d", width)
	}
}

func TestEmitNumber(t *testing.T) {
	s := Scanner{Input: "12345 hi"}

	tok := s.Emit()

	if tok.Type != TOK_INTEGER {
		t.Error("wanted TOK_INTEGER, got", tok.Type.ToString())
	}

	if tok.Lexeme != "12345" {
		t.Error("wanted 12345, got", tok.Lexeme)
	}

	if tok.Value != 12345 {
		t.Error("wanted value 12345, got", tok.Value)
	}
}

func TestEmitOperators(t *testing.T) {
	s := Scanner{Input: " == != <= >= < > + - * / ( )"}

	expected := []string{"==", "!=", "<=", ">=", "<", ">", "+", "-", "*", "/", "(", ")"}

	for i := 0; i < len(expected); i++ {
		tok := s.Emit()

		if tok.Type != TOK_RESERVED {
			t.Error("wanted TOK_RESERVED, got", tok.Type.ToString())
		}

		if tok.Lexeme != expected[i] {
			t.Errorf("wanted '%s', got '%s'", expected[i], tok.Lexeme)
		}
	}

	if tok := s.Emit(); tok.Type != TOK_EOF {
		t.Error("wanted TOK_EOF, got", tok.Type.ToString())
	}
}

func TestEmitAdjacentComparison(t *testing.T) {
	s := Scanner{Input: "1<=2"}

	wantTypes := []TokenType{TOK_INTEGER, TOK_RESERVED, TOK_INTEGER, TOK_EOF}
	wantLexemes := []string{"1", "<=", "2", ""}

	for i := 0; i < len(wantTypes); i++ {
		tok := s.Emit()

		if tok.Type != wantTypes[i] {
			t.Error("wanted", wantTypes[i].ToString(), ", got", tok.Type.ToString())
		}

		if tok.Lexeme != wantLexemes[i] {
			t.Error("wanted", wantLexemes[i], ", got", tok.Lexeme)
		}
	}
}

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize(" 12 + 34 ")
	if err != nil {
		t.Fatal(err)
	}

	if len(tokens) != 4 {
		t.Fatalf("wanted 4 tokens, got %d", len(tokens))
	}

	wantLocations := []parse.Location{{Start: 1, End: 3}, {Start: 4, End: 5}, {Start: 6, End: 8}, {Start: 9, End: 9}}
	for i, tok := range tokens {
		if tok.Location != wantLocations[i] {
			t.Errorf("token %d: wanted location %v, got %v", i, wantLocations[i], tok.Location)
		}
	}

	if tokens[len(tokens)-1].Type != TOK_EOF {
		t.Error("the last token should be TOK_EOF")
	}

	for _, tok := range tokens[:len(tokens)-1] {
		if tok.Type == TOK_EOF {
			t.Error("only the last token may be TOK_EOF")
		}
	}
}

func TestTokenizeASCIIWhitespace(t *testing.T) {
	tokens, err := Tokenize(" \t1\n+\v2\f\r")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 4 {
		t.Errorf("wanted 4 tokens, got %v", tokens)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	tokens, err := Tokenize("   ")
	if err != nil {
		t.Fatal(err)
	}

	if len(tokens) != 1 || tokens[0].Type != TOK_EOF {
		t.Errorf("wanted a lone TOK_EOF, got %v", tokens)
	}
}

func TestTokenizeInvalid(t *testing.T) {
	cases := map[string]int{
		"1 + a":  4,
		"1 = 2":  2,
		"!1":     0,
		"12 @ 3": 3,
		"1+2;":   3,

		"1\u00a0+2": 1,
		"1+\u00852":  2,
		"\u30001":   0,
	}

	for input, offset := range cases {
		_, err := Tokenize(input)
		if err == nil {
			t.Errorf("%q: expected a lexical error", input)
			continue
		}

		perr, ok := parse.AsError(err)
		if !ok {
			t.Errorf("%q: wanted a *parse.Error, got %T", input, err)
			continue
		}

		if perr.Kind != parse.SyntaxError {
			t.Errorf("%q: wanted SyntaxError, got %s", input, perr.Kind.ToString())
		}

		if perr.Offset() != offset {
			t.Errorf("%q: wanted offset %d, got %d", input, offset, perr.Offset())
		}
	}
}

func TestIntegerWraps(t *testing.T) {
	tokens, err := Tokenize("9223372036854775808")
	if err != nil {
		t.Fatal(err)
	}

	if tokens[0].Value != -9223372036854775808 {
		t.Errorf("wanted the value to wrap to MinInt64, got %d", tokens[0].Value)
	}
}
