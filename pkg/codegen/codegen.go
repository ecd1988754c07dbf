/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package codegen

import (
	"fmt"
	"io"
	"math"
	"regexp"

	"github.com/dburkart/ninecc/pkg/ast"
	"github.com/pkg/errors"
)

const DefaultEntry = "main"

var symbolPattern = regexp.MustCompile(`^[A-Za-z_.$][A-Za-z0-9_.$]*$`)

var setcc = map[ast.OpKind]string{
	ast.OpEq: "sete",
	ast.OpNe: "setne",
	ast.OpLt: "setl",
	ast.OpLe: "setle",
	ast.OpGt: "setg",
	ast.OpGe: "setge",
}

type Option func(*Generator)

// WithEntry sets the global symbol the program is emitted under. Names
// that are not valid assembler symbols make Generate fail.
func WithEntry(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.entry = name
		}
	}
}

// Generator emits x86-64 assembly (Intel syntax) for an expression tree,
// evaluating it on the machine stack: every subtree leaves exactly one
// word pushed.
type Generator struct {
	w     io.Writer
	entry string
	depth int
	err   error

	// Instructions counts the instruction lines written so far
	Instructions int
}

func New(w io.Writer, opts ...Option) *Generator {
	g := &Generator{w: w, entry: DefaultEntry}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate writes a complete program for node to w.
func Generate(w io.Writer, node ast.Node, opts ...Option) error {
	return New(w, opts...).Generate(node)
}

func (g *Generator) Generate(node ast.Node) error {
	if !symbolPattern.MatchString(g.entry) {
		return errors.Errorf("codegen: invalid entry symbol '%s'", g.entry)
	}

	g.printf(".intel_syntax noprefix\n")
	g.printf(".global %s\n", g.entry)
	g.printf("%s:\n", g.entry)

	g.gen(node)

	if g.err == nil && g.depth != 1 {
		return errors.Errorf("codegen: expression left %d values on the stack", g.depth)
	}

	// The value of the whole expression is on top of the stack
	g.pop("rax")
	g.emit("ret")

	return g.err
}

func (g *Generator) gen(node ast.Node) {
	switch n := node.(type) {
	case *ast.NumberNode:
		// push only encodes a sign-extended 32-bit immediate
		if n.Val < math.MinInt32 || n.Val > math.MaxInt32 {
			g.emit("mov rax, %d", n.Val)
			g.emit("push rax")
		} else {
			g.emit("push %d", n.Val)
		}
		g.depth++
	case *ast.BinaryOpNode:
		// Left first, so that the right operand ends up on top
		g.gen(n.Left)
		g.gen(n.Right)

		g.pop("rdi")
		g.pop("rax")

		switch n.Kind {
		case ast.OpAdd:
			g.emit("add rax, rdi")
		case ast.OpSub:
			g.emit("sub rax, rdi")
		case ast.OpMul:
			g.emit("imul rax, rdi")
		case ast.OpDiv:
			g.emit("cqo")
			g.emit("idiv rdi")
		default:
			if !n.Kind.IsComparison() {
				g.fail(errors.Errorf("codegen: unknown operator '%s'", n.Kind.ToString()))
				return
			}
			g.emit("cmp rax, rdi")
			g.emit("%s al", setcc[n.Kind])
			g.emit("movzb rax, al")
		}

		g.emit("push rax")
		g.depth++
	default:
		g.fail(errors.Errorf("codegen: unexpected node %T", node))
	}
}

func (g *Generator) pop(reg string) {
	g.emit("pop %s", reg)
	g.depth--
}

func (g *Generator) emit(format string, args ...any) {
	g.Instructions++
	g.printf("  "+format+"\n", args...)
}

func (g *Generator) printf(format string, args ...any) {
	if g.err != nil {
		return
	}
	if _, err := fmt.Fprintf(g.w, format, args...); err != nil {
		g.fail(errors.Wrap(err, "codegen: write failed"))
	}
}

func (g *Generator) fail(err error) {
	if g.err == nil {
		g.err = err
	}
}
