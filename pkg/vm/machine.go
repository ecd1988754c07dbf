/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package vm

import (
	"math"

	"github.com/pkg/errors"
)

var (
	ErrStackOverflow  = errors.New("vm: stack overflow")
	ErrStackUnderflow = errors.New("vm: stack underflow")
	ErrStackImbalance = errors.New("vm: stack not empty at ret")
	ErrDivide         = errors.New("vm: integer divide error")
	ErrNoReturn       = errors.New("vm: program ended without ret")
)

// StackDepth bounds the number of words a program may push.
const StackDepth = 1024

// Machine executes a Program. It models the registers the code generator
// uses, the flags of the last cmp, and the machine stack.
type Machine struct {
	Registers map[string]int64
	Stack     []int64

	// Operands of the last cmp
	cmpLeft  int64
	cmpRight int64

	// Steps counts executed instructions
	Steps int
}

func NewMachine() *Machine {
	return &Machine{
		Registers: map[string]int64{"rax": 0, "rdi": 0, "rdx": 0},
		Stack:     make([]int64, 0, 64),
	}
}

// Run executes p on a fresh machine and returns rax at ret.
func (p *Program) Run() (int64, error) {
	return NewMachine().Run(p)
}

// Execute loads and runs assembly text in one step.
func Execute(asm string) (int64, error) {
	p, err := Load(asm)
	if err != nil {
		return 0, err
	}
	return p.Run()
}

// ExitStatus is the process status a shell observes for a returned value.
func ExitStatus(v int64) int {
	return int(uint8(v))
}

func (m *Machine) Run(p *Program) (int64, error) {
	for _, ins := range p.Code {
		m.Steps++

		if err := m.step(ins); err != nil {
			if err == errReturn {
				return m.Registers["rax"], nil
			}
			return 0, errors.Wrapf(err, "line %d: %s", ins.Line, ins.Op.ToString())
		}
	}

	return 0, ErrNoReturn
}

var errReturn = errors.New("ret")

func (m *Machine) step(ins Instruction) error {
	ops := ins.Operands

	switch ins.Op {
	case OP_PUSH:
		return m.push(m.read(ops[0]))
	case OP_POP:
		v, err := m.pop()
		if err != nil {
			return err
		}
		m.write(ops[0].Register, v)
	case OP_MOV:
		m.write(ops[0].Register, m.read(ops[1]))
	case OP_ADD:
		m.write(ops[0].Register, m.read(ops[0])+m.read(ops[1]))
	case OP_SUB:
		m.write(ops[0].Register, m.read(ops[0])-m.read(ops[1]))
	case OP_IMUL:
		m.write(ops[0].Register, m.read(ops[0])*m.read(ops[1]))
	case OP_CQO:
		m.Registers["rdx"] = m.Registers["rax"] >> 63
	case OP_IDIV:
		return m.idiv(m.read(ops[0]))
	case OP_CMP:
		m.cmpLeft, m.cmpRight = m.read(ops[0]), m.read(ops[1])
	case OP_SETCC:
		var v int64
		if m.condition(ins.Cond) {
			v = 1
		}
		m.write(ops[0].Register, v)
	case OP_MOVZB:
		m.write(ops[0].Register, m.read(ops[1])&0xff)
	case OP_RET:
		if len(m.Stack) != 0 {
			return ErrStackImbalance
		}
		return errReturn
	}

	return nil
}

// idiv divides rdx:rax by divisor. Only dividends that fit in rax, i.e.
// rdx holding the sign extension produced by cqo, are supported.
func (m *Machine) idiv(divisor int64) error {
	rax, rdx := m.Registers["rax"], m.Registers["rdx"]

	if rdx != rax>>63 {
		return errors.New("vm: 128-bit dividends are not supported")
	}

	if divisor == 0 || (rax == math.MinInt64 && divisor == -1) {
		return ErrDivide
	}

	m.Registers["rax"] = rax / divisor
	m.Registers["rdx"] = rax % divisor
	return nil
}

func (m *Machine) condition(cc string) bool {
	l, r := m.cmpLeft, m.cmpRight

	switch cc {
	case "e":
		return l == r
	case "ne":
		return l != r
	case "l":
		return l < r
	case "le":
		return l <= r
	case "g":
		return l > r
	case "ge":
		return l >= r
	}
	return false
}

func (m *Machine) read(o Operand) int64 {
	switch {
	case o.IsImmediate():
		return o.Immediate
	case o.Register == "al":
		return m.Registers["rax"] & 0xff
	}
	return m.Registers[o.Register]
}

func (m *Machine) write(reg string, v int64) {
	if reg == "al" {
		m.Registers["rax"] = m.Registers["rax"]&^0xff | v&0xff
		return
	}
	m.Registers[reg] = v
}

func (m *Machine) push(v int64) error {
	if len(m.Stack) >= StackDepth {
		return ErrStackOverflow
	}
	m.Stack = append(m.Stack, v)
	return nil
}

func (m *Machine) pop() (int64, error) {
	if len(m.Stack) == 0 {
		return 0, ErrStackUnderflow
	}
	v := m.Stack[len(m.Stack)-1]
	m.Stack = m.Stack[:len(m.Stack)-1]
	return v, nil
}
