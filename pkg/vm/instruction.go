/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package vm

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Opcode int

const (
	OP_PUSH Opcode = iota
	OP_POP
	OP_MOV
	OP_ADD
	OP_SUB
	OP_IMUL
	OP_CQO
	OP_IDIV
	OP_CMP
	OP_SETCC
	OP_MOVZB
	OP_RET
)

func (o Opcode) ToString() string {
	switch o {
	case OP_PUSH:
		return "push"
	case OP_POP:
		return "pop"
	case OP_MOV:
		return "mov"
	case OP_ADD:
		return "add"
	case OP_SUB:
		return "sub"
	case OP_IMUL:
		return "imul"
	case OP_CQO:
		return "cqo"
	case OP_IDIV:
		return "idiv"
	case OP_CMP:
		return "cmp"
	case OP_SETCC:
		return "setcc"
	case OP_MOVZB:
		return "movzb"
	case OP_RET:
		return "ret"
	}
	return "unknown"
}

// Operand is either a register or an immediate.
type Operand struct {
	Register  string
	Immediate int64
}

func (o Operand) IsImmediate() bool {
	return o.Register == ""
}

type Instruction struct {
	Op       Opcode
	Cond     string
	Operands []Operand
	Line     int
}

// Program is a loaded instruction stream for a single entry point.
type Program struct {
	Entry  string
	Global string
	Code   []Instruction
}

var registers = map[string]bool{
	"rax": true,
	"rdi": true,
	"rdx": true,
	"al":  true,
}

var conditions = map[string]bool{
	"e":  true,
	"ne": true,
	"l":  true,
	"le": true,
	"g":  true,
	"ge": true,
}

// Load parses assembly in the form emitted by the code generator.
func Load(asm string) (*Program, error) {
	prog := &Program{}

	for i, raw := range strings.Split(asm, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)

		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "."):
			if err := prog.directive(line, lineNo); err != nil {
				return nil, err
			}
		case strings.HasSuffix(line, ":"):
			if prog.Entry != "" {
				return nil, errors.Errorf("line %d: only a single label is supported", lineNo)
			}
			prog.Entry = strings.TrimSuffix(line, ":")
		default:
			if prog.Entry == "" {
				return nil, errors.Errorf("line %d: instruction before entry label", lineNo)
			}
			ins, err := parseInstruction(line, lineNo)
			if err != nil {
				return nil, err
			}
			prog.Code = append(prog.Code, ins)
		}
	}

	if prog.Entry == "" {
		return nil, errors.New("no entry label found")
	}

	if prog.Global != "" && prog.Global != prog.Entry {
		return nil, errors.Errorf("global symbol '%s' does not match entry label '%s'", prog.Global, prog.Entry)
	}

	return prog, nil
}

func (p *Program) directive(line string, lineNo int) error {
	fields := strings.Fields(line)

	switch fields[0] {
	case ".intel_syntax":
		if len(fields) != 2 || fields[1] != "noprefix" {
			return errors.Errorf("line %d: only '.intel_syntax noprefix' is supported", lineNo)
		}
	case ".global", ".globl":
		if len(fields) != 2 {
			return errors.Errorf("line %d: %s takes a single symbol", lineNo, fields[0])
		}
		p.Global = fields[1]
	default:
		return errors.Errorf("line %d: unknown directive '%s'", lineNo, fields[0])
	}

	return nil
}

func parseInstruction(line string, lineNo int) (Instruction, error) {
	mnemonic, rest, _ := strings.Cut(line, " ")
	ins := Instruction{Line: lineNo}

	var operands []string
	if rest = strings.TrimSpace(rest); rest != "" {
		for _, o := range strings.Split(rest, ",") {
			operands = append(operands, strings.TrimSpace(o))
		}
	}

	want := 0
	switch {
	case mnemonic == "push":
		ins.Op, want = OP_PUSH, 1
	case mnemonic == "pop":
		ins.Op, want = OP_POP, 1
	case mnemonic == "mov":
		ins.Op, want = OP_MOV, 2
	case mnemonic == "add":
		ins.Op, want = OP_ADD, 2
	case mnemonic == "sub":
		ins.Op, want = OP_SUB, 2
	case mnemonic == "imul":
		ins.Op, want = OP_IMUL, 2
	case mnemonic == "cqo":
		ins.Op = OP_CQO
	case mnemonic == "idiv":
		ins.Op, want = OP_IDIV, 1
	case mnemonic == "cmp":
		ins.Op, want = OP_CMP, 2
	case mnemonic == "movzb":
		ins.Op, want = OP_MOVZB, 2
	case mnemonic == "ret":
		ins.Op = OP_RET
	case strings.HasPrefix(mnemonic, "set") && conditions[mnemonic[3:]]:
		ins.Op, ins.Cond, want = OP_SETCC, mnemonic[3:], 1
	default:
		return ins, errors.Errorf("line %d: unknown instruction '%s'", lineNo, mnemonic)
	}

	if len(operands) != want {
		return ins, errors.Errorf("line %d: %s expects %d operands, got %d", lineNo, mnemonic, want, len(operands))
	}

	for i, o := range operands {
		operand, err := parseOperand(o, lineNo)
		if err != nil {
			return ins, err
		}

		if operand.IsImmediate() {
			if err := checkImmediate(ins.Op, i, operand.Immediate); err != nil {
				return ins, errors.Wrapf(err, "line %d", lineNo)
			}
		}

		ins.Operands = append(ins.Operands, operand)
	}

	return ins, nil
}

// checkImmediate applies the x86-64 encoding limits: mov into a register
// takes a full 64-bit immediate, push and the source of cmp only take a
// sign-extended 32-bit one, and nothing else takes an immediate at all.
func checkImmediate(op Opcode, i int, v int64) error {
	switch {
	case op == OP_MOV && i == 1:
		return nil
	case op == OP_PUSH, op == OP_CMP && i == 1:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return errors.Errorf("%s immediate %d does not fit in 32 bits", op.ToString(), v)
		}
		return nil
	}
	return errors.Errorf("%s does not take an immediate operand", op.ToString())
}

func parseOperand(s string, lineNo int) (Operand, error) {
	if registers[s] {
		return Operand{Register: s}, nil
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Operand{}, errors.Errorf("line %d: invalid operand '%s'", lineNo, s)
	}

	return Operand{Immediate: v}, nil
}
