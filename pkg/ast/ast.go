/*
 * Copyright (c) 2022-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ast

import (
	"fmt"

	"github.com/dburkart/ninecc/pkg/common/parse"
)

type Node interface {
	Value() string
}

type Visitor interface {
	Visit(Node) Visitor
}

type OpKind int

const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var opSymbols = map[OpKind]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpEq:  "==",
	OpNe:  "!=",
	OpLt:  "<",
	OpLe:  "<=",
	OpGt:  ">",
	OpGe:  ">=",
}

func (k OpKind) ToString() string {
	switch k {
	case OpAdd:
		return "Add"
	case OpSub:
		return "Sub"
	case OpMul:
		return "Mul"
	case OpDiv:
		return "Div"
	case OpEq:
		return "Eq"
	case OpNe:
		return "Ne"
	case OpLt:
		return "Lt"
	case OpLe:
		return "Le"
	case OpGt:
		return "Gt"
	case OpGe:
		return "Ge"
	}
	return "Unknown"
}

// Symbol returns the source text of the operator.
func (k OpKind) Symbol() string {
	return opSymbols[k]
}

// IsComparison reports whether the operator yields a 0/1 truth value.
func (k OpKind) IsComparison() bool {
	return k >= OpEq && k <= OpGe
}

// OpKindFromSymbol maps operator text to its kind.
func OpKindFromSymbol(s string) (OpKind, bool) {
	for k, sym := range opSymbols {
		if sym == s {
			return k, true
		}
	}
	return 0, false
}

type (
	BaseNode struct {
		Token parse.Token
	}

	NumberNode struct {
		BaseNode
		Val int64
	}

	// BinaryOpNode owns both of its operands; subtrees are never shared.
	BinaryOpNode struct {
		BaseNode
		Kind  OpKind
		Left  Node
		Right Node
	}
)

// -- BaseNode

func (b *BaseNode) Value() string {
	return b.Token.Lexeme
}

//-- NumberNode

func MakeNumberNode(tok parse.Token) *NumberNode {
	return &NumberNode{BaseNode: BaseNode{Token: tok}, Val: tok.Value}
}

// MakeLiteral builds a number that has no source token, such as the
// implicit zero of a unary minus.
func MakeLiteral(tok parse.Token, val int64) *NumberNode {
	return &NumberNode{BaseNode: BaseNode{Token: tok}, Val: val}
}

func (n NumberNode) Value() string {
	return fmt.Sprint(n.Val)
}

//-- BinaryOpNode

func MakeBinaryOpNode(tok parse.Token, kind OpKind, left, right Node) *BinaryOpNode {
	return &BinaryOpNode{BaseNode: BaseNode{Token: tok}, Kind: kind, Left: left, Right: right}
}

func (b BinaryOpNode) Value() string {
	return b.Kind.Symbol()
}

// Count returns the number of nodes in the tree rooted at node.
func Count(node Node) int {
	c := &counter{}
	Walk(c, node)
	return c.n
}

type counter struct {
	n int
}

func (c *counter) Visit(node Node) Visitor {
	if node != nil {
		c.n++
	}
	return c
}
