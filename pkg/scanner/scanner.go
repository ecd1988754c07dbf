/*
 * Copyright (c) 2022-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package scanner

import (
	"strings"
	"unicode/utf8"

	"github.com/dburkart/ninecc/pkg/common/parse"
)

type Scanner struct {
	Input string
	Start int
	Pos   int
}

// MatchInteger returns the length of the next token, assuming it is a
// number
//
// Grammar:
//
//	integer          = 1*DIGIT
func (s *Scanner) MatchInteger() int {
	size := 0

	for i := s.Pos; i < len(s.Input) && isDigit(s.Input[i]); i++ {
		size++
	}

	return size
}

// MatchOperator returns the length of the next token, assuming it is an
// operator, or 0 if no operator starts at the current position.
//
// Grammar:
//
//	operator        = "==" / "!=" / "<=" / ">=" / "+" / "-" / "*" / "/" / "(" / ")" / "<" / ">"
func (s *Scanner) MatchOperator() int {
	for _, op := range Operators {
		if strings.HasPrefix(s.Input[s.Pos:], op) {
			return len(op)
		}
	}

	return 0
}

// Emit the next Token found on Scanner.Input. Once the input is exhausted
// every call returns TOK_EOF.
func (s *Scanner) Emit() parse.Token {
	var t parse.Token

	for {
		s.Start = s.Pos

		if s.Pos >= len(s.Input) {
			t.Type = TOK_EOF
			break
		}

		r, width := utf8.DecodeRuneInString(s.Input[s.Pos:])
		found := true
		skip := 0

		switch {
		case r < utf8.RuneSelf && isSpace(byte(r)):
			skip = width
			found = false
		case r < utf8.RuneSelf && isDigit(byte(r)):
			t.Type = TOK_INTEGER
			skip = s.MatchInteger()
		default:
			skip = s.MatchOperator()
			if skip > 0 {
				t.Type = TOK_RESERVED
				break
			}
			t.Type = TOK_INVALID
			skip = width
		}

		s.Pos = s.Start + skip
		if found {
			break
		}
	}

	t.Lexeme = s.Input[s.Start:s.Pos]
	t.Location = parse.Location{Start: s.Start, End: s.Pos}
	if t.Type == TOK_INTEGER {
		t.Value = parseInteger(t.Lexeme)
	}
	s.Start = s.Pos

	return t
}

// Tokenize scans the whole input at once. The returned slice always ends
// with exactly one TOK_EOF token; the first character that cannot start a
// token aborts the scan with a syntax error pointing at it.
func Tokenize(input string) ([]parse.Token, error) {
	s := Scanner{Input: input}
	tokens := []parse.Token{}

	for {
		t := s.Emit()

		if t.Type == TOK_INVALID {
			return nil, parse.NewSyntaxError(t, "invalid token")
		}

		tokens = append(tokens, t)

		if t.Type == TOK_EOF {
			return tokens, nil
		}
	}
}

// isSpace matches the ASCII whitespace characters only; other Unicode
// spaces are invalid tokens.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// parseInteger converts a run of decimal digits using machine arithmetic;
// values past the int64 range wrap.
func parseInteger(lexeme string) int64 {
	var v int64
	for i := 0; i < len(lexeme); i++ {
		v = v*10 + int64(lexeme[i]-'0')
	}
	return v
}
