/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dburkart/ninecc/pkg/ast"
	"github.com/dburkart/ninecc/pkg/common/parse"
	"github.com/dburkart/ninecc/pkg/compiler"
	"github.com/dburkart/ninecc/pkg/scanner"
	"github.com/dustin/go-humanize"
)

type TokenTable struct {
	Tokens []parse.Token
}

func (t TokenTable) Headers() []string {
	return []string{"#", "type", "lexeme", "start", "end", "value"}
}

func (t TokenTable) Values() [][]string {
	rows := make([][]string, 0, len(t.Tokens))
	for i, tok := range t.Tokens {
		value := ""
		if tok.Type == scanner.TOK_INTEGER {
			value = strconv.FormatInt(tok.Value, 10)
		}

		rows = append(rows, []string{
			strconv.Itoa(i),
			tok.Type.ToString(),
			tok.Lexeme,
			strconv.Itoa(tok.Location.Start),
			strconv.Itoa(tok.Location.End),
			value,
		})
	}
	return rows
}

// ASTTable lists the nodes of a tree in the order the code generator
// visits them on the way down.
type ASTTable struct {
	Root ast.Node
}

func (t ASTTable) Headers() []string {
	return []string{"depth", "node", "value"}
}

func (t ASTTable) Values() [][]string {
	r := &astRows{}
	ast.Walk(r, t.Root)
	return r.rows
}

type astRows struct {
	depth int
	rows  [][]string
}

func (r *astRows) Visit(node ast.Node) ast.Visitor {
	if node == nil {
		r.depth--
		return r
	}

	name := "Number"
	if b, ok := node.(*ast.BinaryOpNode); ok {
		name = b.Kind.ToString()
	}

	r.rows = append(r.rows, []string{
		strconv.Itoa(r.depth),
		strings.Repeat("  ", r.depth) + name,
		node.Value(),
	})
	r.depth++

	return r
}

type ResultTable struct {
	Expression string
	Value      int64
	Status     int
	Steps      int
	Stats      compiler.Stats
}

func (t ResultTable) Headers() []string {
	return []string{"expression", "value", "status", "instructions", "steps", "size"}
}

func (t ResultTable) Values() [][]string {
	return [][]string{{
		t.Expression,
		strconv.FormatInt(t.Value, 10),
		fmt.Sprint(t.Status),
		strconv.Itoa(t.Stats.Instructions),
		strconv.Itoa(t.Steps),
		humanize.Bytes(uint64(t.Stats.Bytes)),
	}}
}
