/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package vm

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func program(body ...string) string {
	lines := []string{".intel_syntax noprefix", ".global main", "main:"}
	for _, l := range body {
		lines = append(lines, "  "+l)
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestLoad(t *testing.T) {
	p, err := Load(program("push 1", "pop rax", "ret"))
	require.NoError(t, err)

	assert.Equal(t, "main", p.Entry)
	assert.Equal(t, "main", p.Global)
	require.Len(t, p.Code, 3)
	assert.Equal(t, OP_PUSH, p.Code[0].Op)
	assert.Equal(t, int64(1), p.Code[0].Operands[0].Immediate)
	assert.Equal(t, 4, p.Code[0].Line)
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"unknown instruction": program("jmp main"),
		"operand count":       program("add rax"),
		"bad operand":         program("push rbx"),
		"immediate dest":      program("pop 3"),
		"mov immediate dest":  program("mov 3, rax"),
		"wide push":           program("push 2147483648"),
		"wide negative push":  program("push -2147483649"),
		"wide cmp":            program("cmp rax, 2147483648"),
		"no label":            ".intel_syntax noprefix\n  push 1\n",
		"entry mismatch":      ".global start\nmain:\n  ret\n",
		"bad directive":       ".att_syntax\nmain:\n  ret\n",
	}

	for name, asm := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(asm)
			assert.Error(t, err)
		})
	}
}

func TestRunArithmetic(t *testing.T) {
	tests := []struct {
		name string
		body []string
		want int64
	}{
		{"add", []string{"push 2", "push 3", "pop rdi", "pop rax", "add rax, rdi", "push rax", "pop rax", "ret"}, 5},
		{"sub", []string{"push 2", "push 3", "pop rdi", "pop rax", "sub rax, rdi", "push rax", "pop rax", "ret"}, -1},
		{"imul", []string{"push -4", "push 3", "pop rdi", "pop rax", "imul rax, rdi", "push rax", "pop rax", "ret"}, -12},
		{"idiv", []string{"push -7", "push 2", "pop rdi", "pop rax", "cqo", "idiv rdi", "push rax", "pop rax", "ret"}, -3},
		{"setl", []string{"push 1", "push 2", "pop rdi", "pop rax", "cmp rax, rdi", "setl al", "movzb rax, al", "push rax", "pop rax", "ret"}, 1},
		{"setg", []string{"push 1", "push 2", "pop rdi", "pop rax", "cmp rax, rdi", "setg al", "movzb rax, al", "push rax", "pop rax", "ret"}, 0},
		{"push imm32 bounds", []string{"push 2147483647", "push -2147483648", "pop rdi", "pop rax", "add rax, rdi", "push rax", "pop rax", "ret"}, -1},
		{"mov imm64", []string{"mov rax, 3000000000", "push rax", "pop rax", "ret"}, 3000000000},
		{"mov register", []string{"push 5", "pop rdi", "mov rax, rdi", "push rax", "pop rax", "ret"}, 5},
		{"movzb clears high bits", []string{"push -1", "pop rax", "push 0", "pop rdi", "cmp rax, rdi", "sete al", "movzb rax, al", "push rax", "pop rax", "ret"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Execute(program(tt.body...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunDivideError(t *testing.T) {
	_, err := Execute(program("push 1", "push 0", "pop rdi", "pop rax", "cqo", "idiv rdi", "push rax", "pop rax", "ret"))
	assert.True(t, errors.Is(err, ErrDivide))

	_, err = Execute(program("mov rax, -9223372036854775808", "push rax", "push -1", "pop rdi", "pop rax", "cqo", "idiv rdi", "push rax", "pop rax", "ret"))
	assert.True(t, errors.Is(err, ErrDivide))
}

func TestRunStackErrors(t *testing.T) {
	_, err := Execute(program("pop rax", "ret"))
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	_, err = Execute(program("push 1", "push 2", "pop rax", "ret"))
	assert.True(t, errors.Is(err, ErrStackImbalance))

	_, err = Execute(program("push 1", "pop rax"))
	assert.True(t, errors.Is(err, ErrNoReturn))
}

func TestRunStackOverflow(t *testing.T) {
	body := make([]string, 0, StackDepth+1)
	for i := 0; i <= StackDepth; i++ {
		body = append(body, "push 1")
	}

	_, err := Execute(program(body...))
	assert.True(t, errors.Is(err, ErrStackOverflow))
}

func TestExitStatus(t *testing.T) {
	assert.Equal(t, 3, ExitStatus(3))
	assert.Equal(t, 253, ExitStatus(-3))
	assert.Equal(t, 0, ExitStatus(256))
}
