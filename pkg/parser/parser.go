/*
 * Copyright (c) 2022-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parser

import (
	"fmt"

	"github.com/dburkart/ninecc/pkg/ast"
	"github.com/dburkart/ninecc/pkg/common/parse"
	"github.com/dburkart/ninecc/pkg/scanner"
)

// Parser is a recursive-descent parser over a scanned token sequence. The
// sequence must end with TOK_EOF, as produced by scanner.Tokenize.
type Parser struct {
	tokens []parse.Token
	pos    int
}

func New(tokens []parse.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse runs the entry rule once and returns the resulting tree. Input
// left over after a complete expression is not an error here; see AtEOF.
func (p *Parser) Parse() (node ast.Node, err error) {
	defer func() {
		if e := recover(); e != nil {
			syntaxError, ok := e.(*parse.Error)
			if !ok {
				panic(e)
			}
			node, err = nil, syntaxError
		}
	}()

	if len(p.tokens) == 0 || p.tokens[len(p.tokens)-1].Type != scanner.TOK_EOF {
		panic("parser: token sequence must end with TOK_EOF")
	}

	return p.expr(), nil
}

// AtEOF reports whether every token before TOK_EOF has been consumed.
func (p *Parser) AtEOF() bool {
	return p.current().Type == scanner.TOK_EOF
}

// Current returns the token under the cursor.
func (p *Parser) Current() parse.Token {
	return p.current()
}

func (p *Parser) current() parse.Token {
	return p.tokens[p.pos]
}

func (p *Parser) advance() parse.Token {
	t := p.tokens[p.pos]
	if t.Type != scanner.TOK_EOF {
		p.pos++
	}
	return t
}

// consume advances past the current token if it is the operator op.
func (p *Parser) consume(op string) bool {
	t := p.current()
	if t.Type != scanner.TOK_RESERVED || t.Lexeme != op {
		return false
	}

	p.advance()
	return true
}

// expect is consume, but a mismatch is a syntax error.
func (p *Parser) expect(op string) {
	if !p.consume(op) {
		panic(parse.NewSyntaxError(p.current(), fmt.Sprintf("expected '%s'", op)))
	}
}

func (p *Parser) expectNumber() parse.Token {
	t := p.current()
	if t.Type != scanner.TOK_INTEGER {
		panic(parse.NewSyntaxError(t, "not a number"))
	}

	return p.advance()
}

// binary consumes the first operator of ops found at the cursor and returns
// its token and kind.
func (p *Parser) binary(ops ...string) (parse.Token, ast.OpKind, bool) {
	t := p.current()
	for _, op := range ops {
		if p.consume(op) {
			kind, _ := ast.OpKindFromSymbol(op)
			return t, kind, true
		}
	}
	return t, 0, false
}

// expr returns the root of an expression
//
// Grammar:
//
//	expr            = equality
func (p *Parser) expr() ast.Node {
	return p.equality()
}

// equality returns a BinaryOpNode, or the result of relational
//
// Grammar:
//
//	equality        = relational *( ( "==" / "!=" ) relational )
func (p *Parser) equality() ast.Node {
	node := p.relational()

	for {
		t, kind, ok := p.binary("==", "!=")
		if !ok {
			return node
		}
		node = ast.MakeBinaryOpNode(t, kind, node, p.relational())
	}
}

// relational returns a BinaryOpNode, or the result of add
//
// Grammar:
//
//	relational      = add *( ( "<" / "<=" / ">" / ">=" ) add )
func (p *Parser) relational() ast.Node {
	node := p.add()

	for {
		t, kind, ok := p.binary("<", "<=", ">", ">=")
		if !ok {
			return node
		}
		node = ast.MakeBinaryOpNode(t, kind, node, p.add())
	}
}

// add returns a BinaryOpNode, or the result of mul
//
// Grammar:
//
//	add             = mul *( ( "+" / "-" ) mul )
func (p *Parser) add() ast.Node {
	node := p.mul()

	for {
		t, kind, ok := p.binary("+", "-")
		if !ok {
			return node
		}
		node = ast.MakeBinaryOpNode(t, kind, node, p.mul())
	}
}

// mul returns a BinaryOpNode, or the result of unary
//
// Grammar:
//
//	mul             = unary *( ( "*" / "/" ) unary )
func (p *Parser) mul() ast.Node {
	node := p.unary()

	for {
		t, kind, ok := p.binary("*", "/")
		if !ok {
			return node
		}
		node = ast.MakeBinaryOpNode(t, kind, node, p.unary())
	}
}

// unary returns the result of primary. A leading minus is rewritten as a
// subtraction from zero.
//
// Grammar:
//
//	unary           = [ "+" / "-" ] primary
func (p *Parser) unary() ast.Node {
	if p.consume("+") {
		return p.primary()
	}

	t := p.current()
	if p.consume("-") {
		return ast.MakeBinaryOpNode(t, ast.OpSub, ast.MakeLiteral(t, 0), p.primary())
	}

	return p.primary()
}

// primary returns a leaf node for an expression
//
// Grammar:
//
//	primary         = integer / "(" expr ")"
func (p *Parser) primary() ast.Node {
	if p.consume("(") {
		node := p.expr()
		p.expect(")")
		return node
	}

	return ast.MakeNumberNode(p.expectNumber())
}
