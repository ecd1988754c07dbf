/*
 * Copyright (c) 2022-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parse

type TokenType interface {
	ToString() string
}

// Location is a half-open byte range into the compiled input.
type Location struct {
	Start int
	End   int
}

type Token struct {
	Type     TokenType
	Lexeme   string
	Location Location

	// Value holds the parsed integer for numeric tokens
	Value int64
}
