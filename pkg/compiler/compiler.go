/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package compiler

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/dburkart/ninecc/pkg/ast"
	"github.com/dburkart/ninecc/pkg/codegen"
	"github.com/dburkart/ninecc/pkg/common/parse"
	"github.com/dburkart/ninecc/pkg/parser"
	"github.com/dburkart/ninecc/pkg/scanner"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// Stats describes a single successful compile.
type Stats struct {
	Tokens       int
	Nodes        int
	Instructions int
	Bytes        int
	Duration     time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("%d tokens, %d nodes, %d instructions, %s in %s",
		s.Tokens, s.Nodes, s.Instructions, humanize.Bytes(uint64(s.Bytes)), s.Duration)
}

// Tokens scans input, returning the token sequence including the final
// TOK_EOF.
func Tokens(input string) ([]parse.Token, error) {
	return scanner.Tokenize(input)
}

// Prepare scans and parses input, rejecting anything left over after the
// expression.
func Prepare(input string) (ast.Node, []parse.Token, error) {
	tokens, err := scanner.Tokenize(input)
	if err != nil {
		return nil, nil, err
	}

	p := parser.New(tokens)
	root, err := p.Parse()
	if err != nil {
		return nil, tokens, err
	}

	if !p.AtEOF() {
		t := p.Current()
		return nil, tokens, parse.NewSyntaxError(t, fmt.Sprintf("unexpected token '%s'", t.Lexeme))
	}

	return root, tokens, nil
}

// AST returns the tree for input.
func AST(input string) (ast.Node, error) {
	root, _, err := Prepare(input)
	return root, err
}

// Compile translates input into assembly written to w. Output is buffered
// until the whole program has been generated, so w receives nothing when an
// error is returned.
func Compile(input string, w io.Writer, opts ...codegen.Option) (Stats, error) {
	start := time.Now()
	stats := Stats{}

	root, tokens, err := Prepare(input)
	if err != nil {
		return stats, err
	}
	stats.Tokens = len(tokens)
	stats.Nodes = ast.Count(root)

	var buf bytes.Buffer
	g := codegen.New(&buf, opts...)
	if err := g.Generate(root); err != nil {
		return stats, err
	}
	stats.Instructions = g.Instructions
	stats.Bytes = buf.Len()

	if _, err := buf.WriteTo(w); err != nil {
		return stats, errors.Wrap(err, "unable to write assembly")
	}
	stats.Duration = time.Since(start)

	return stats, nil
}

// CompileString is Compile into a string.
func CompileString(input string, opts ...codegen.Option) (string, Stats, error) {
	var b bytes.Buffer
	stats, err := Compile(input, &b, opts...)
	return b.String(), stats, err
}
