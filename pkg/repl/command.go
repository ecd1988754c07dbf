/*
 * Copyright (c) 2022-2024, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"io"
	"strings"

	"github.com/dburkart/ninecc/pkg/codegen"
	"github.com/dburkart/ninecc/pkg/compiler"
	"github.com/dburkart/ninecc/pkg/vm"
	"github.com/pkg/errors"
)

type Verb string

const (
	VerbEval   Verb = "eval"
	VerbAsm    Verb = "asm"
	VerbTokens Verb = "tokens"
	VerbAST    Verb = "ast"
	VerbHelp   Verb = "help"
	VerbExit   Verb = "exit"
)

// Verbs that operate on an expression
var ExpressionVerbs = []Verb{VerbEval, VerbAsm, VerbTokens, VerbAST}

type Command struct {
	Verb       Verb
	Expression string
}

// ParseCommand parses a line from the prompt
//
// A line that does not start with a known verb is evaluated as an
// expression. This function assumes there is no '\n'
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, errors.New("empty input")
	}

	word, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch verb := Verb(strings.ToLower(word)); verb {
	case VerbHelp, VerbExit:
		if rest == "" {
			return Command{Verb: verb}, nil
		}
	case VerbEval, VerbAsm, VerbTokens, VerbAST:
		if rest == "" {
			return Command{}, errors.Errorf("%s requires an expression", verb)
		}
		return Command{Verb: verb, Expression: rest}, nil
	}

	return Command{Verb: VerbEval, Expression: line}, nil
}

// Execute runs an expression command. Raw assembly goes to out, everything
// tabular goes through writer.
func (c Command) Execute(out io.Writer, writer OutputWriter, opts ...codegen.Option) error {
	switch c.Verb {
	case VerbTokens:
		tokens, err := compiler.Tokens(c.Expression)
		if err != nil {
			return err
		}
		return writer.Write(TokenTable{Tokens: tokens})
	case VerbAST:
		root, err := compiler.AST(c.Expression)
		if err != nil {
			return err
		}
		return writer.Write(ASTTable{Root: root})
	case VerbAsm:
		_, err := compiler.Compile(c.Expression, out, opts...)
		return err
	case VerbEval:
		asm, stats, err := compiler.CompileString(c.Expression, opts...)
		if err != nil {
			return err
		}
		p, err := vm.Load(asm)
		if err != nil {
			return errors.Wrap(err, "unable to load program")
		}
		m := vm.NewMachine()
		v, err := m.Run(p)
		if err != nil {
			return errors.Wrap(err, "unable to run program")
		}
		return writer.Write(ResultTable{Expression: c.Expression, Value: v, Status: vm.ExitStatus(v), Steps: m.Steps, Stats: stats})
	}

	return errors.Errorf("%s does not take an expression", c.Verb)
}
