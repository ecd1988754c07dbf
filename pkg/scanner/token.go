/*
 * Copyright (c) 2022-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package scanner

type TokenType int

const (
	TOK_INVALID TokenType = iota
	TOK_EOF

	TOK_INTEGER

	// Operators and punctuation; the lexeme carries the exact symbol
	TOK_RESERVED
)

func (t TokenType) ToString() string {
	switch t {
	case TOK_INVALID:
		return "TOK_INVALID"
	case TOK_EOF:
		return "TOK_EOF"
	case TOK_INTEGER:
		return "TOK_INTEGER"
	case TOK_RESERVED:
		return "TOK_RESERVED"
	}
	return "TOK_UNKNOWN"
}

// Operators lists every symbol the scanner emits as TOK_RESERVED. Two
// character operators come first so that they win over their prefixes.
var Operators = []string{
	"==", "!=", "<=", ">=",
	"+", "-", "*", "/", "(", ")", "<", ">",
}
