/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package compiler

import (
	"bufio"
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andreyvit/diff"
	"github.com/dburkart/ninecc/pkg/ast"
	"github.com/dburkart/ninecc/pkg/codegen"
	"github.com/dburkart/ninecc/pkg/common/parse"
	"github.com/dburkart/ninecc/pkg/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, input string) int64 {
	t.Helper()

	asm, _, err := CompileString(input)
	require.NoError(t, err, input)

	v, err := vm.Execute(asm)
	require.NoError(t, err, input)
	return v
}

func TestCompileAndRun(t *testing.T) {
	tests := map[string]int64{
		"0":            0,
		"42":           42,
		" 12 + 34 - 5": 41,
		"1+2*3":        7,
		"(1+2)*3":      9,
		"-5+8":         3,
		"+3":           3,
		"-(3+5)":       -8,
		"7/2":          3,
		"-7/2":         -3,
		"5*(9-6)":      15,
		"1<2":          1,
		"2<1":          0,
		"1<=1":         1,
		"2>1":          1,
		"1>=2":         0,
		"1==1":         1,
		"1!=1":         0,
		"2==2==1":      1,
		"1+1==2":       1,
		"3>2>1":        0,
		"(1<2)*10":     10,

		"2147483647+0":          2147483647,
		"2147483648-1":          2147483647,
		"3000000000/1000":       3000000,
		"0-2147483649":          -2147483649,
		"9223372036854775807+1": -9223372036854775808,
	}

	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, want, run(t, input))
		})
	}
}

func TestCompileErrorWritesNothing(t *testing.T) {
	var out bytes.Buffer

	_, err := Compile("1+", &out)
	require.Error(t, err)

	perr, ok := parse.AsError(err)
	require.True(t, ok)
	assert.Equal(t, parse.SyntaxError, perr.Kind)
	assert.Equal(t, 2, perr.Offset())
	assert.Zero(t, out.Len())
}

func TestCompileTrailingTokens(t *testing.T) {
	_, _, err := CompileString("1 2")
	require.Error(t, err)

	perr, ok := parse.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "unexpected token '2'", perr.Message)
	assert.Equal(t, 2, perr.Offset())

	_, _, err = CompileString("(1))")
	perr, ok = parse.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 3, perr.Offset())
}

func TestCompileDeterministic(t *testing.T) {
	first, _, err := CompileString("1*(2+3)/4 >= 5 != 0")
	require.NoError(t, err)

	second, _, err := CompileString("1*(2+3)/4 >= 5 != 0")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompileWideLiteral(t *testing.T) {
	asm, stats, err := CompileString("3000000000/1000")
	require.NoError(t, err)

	assert.Contains(t, asm, "  mov rax, 3000000000\n  push rax\n")
	assert.NotContains(t, asm, "push 3000000000")
	assert.Equal(t, 10, stats.Instructions)
}

func TestCompileInvalidEntry(t *testing.T) {
	var b bytes.Buffer
	_, err := Compile("1+2", &b, codegen.WithEntry("not a symbol"))
	assert.Error(t, err)
	assert.Zero(t, b.Len())
}

func TestCompileStats(t *testing.T) {
	asm, stats, err := CompileString("1+2", codegen.WithEntry("entry"))
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Tokens)
	assert.Equal(t, 3, stats.Nodes)
	assert.Equal(t, 8, stats.Instructions)
	assert.Equal(t, len(asm), stats.Bytes)
	assert.True(t, strings.HasPrefix(asm, ".intel_syntax noprefix\n.global entry\nentry:\n"))
	assert.Contains(t, stats.String(), "8 instructions")
}

// expr builds a random fully parenthesized expression together with its
// value, computed independently of the compiler.
func expr(r *rand.Rand, depth int) (string, int64) {
	if depth == 0 || r.Intn(4) == 0 {
		v := int64(r.Intn(100))
		return fmt.Sprint(v), v
	}

	ls, lv := expr(r, depth-1)
	rs, rv := expr(r, depth-1)

	switch r.Intn(5) {
	case 0:
		return "(" + ls + "+" + rs + ")", lv + rv
	case 1:
		return "(" + ls + "-" + rs + ")", lv - rv
	case 2:
		return "(" + ls + "*" + rs + ")", lv * rv
	case 3:
		if rv == 0 {
			return "(" + ls + "+" + rs + ")", lv + rv
		}
		return "(" + ls + "/" + rs + ")", lv / rv
	default:
		if lv < rv {
			return "(" + ls + "<" + rs + ")", 1
		}
		return "(" + ls + "<" + rs + ")", 0
	}
}

func TestRandomExpressions(t *testing.T) {
	r := rand.New(rand.NewSource(9))

	for i := 0; i < 200; i++ {
		input, want := expr(r, 5)

		got := run(t, input)
		require.Equal(t, want, got, input)

		root, err := AST(input)
		require.NoError(t, err)

		reference, err := ast.Evaluate(root)
		require.NoError(t, err)
		require.Equal(t, want, reference, input)
	}
}

func TestCompile(t *testing.T) {
	testDirectory, err := filepath.Abs("../../test/codegen")
	if err != nil {
		panic(err)
	}

	inputDirectory := path.Join(testDirectory, "input")
	expectationDirectory := path.Join(testDirectory, "expectations")

	tests, err := filepath.Glob(fmt.Sprintf("%s/*.txt", inputDirectory))
	require.NoError(t, err)

	for _, test := range tests {
		t.Run(filepath.Base(test), func(t *testing.T) {
			var expected string
			expectation := path.Join(expectationDirectory, filepath.Base(test))
			expectedBytes, err := os.ReadFile(expectation)
			if err == nil {
				expected = string(expectedBytes)
			}

			file, err := os.Open(test)
			require.NoError(t, err)
			defer file.Close()

			lines := bufio.NewScanner(file)

			shouldPass := false
			lines.Scan()
			if strings.ToUpper(lines.Text()) == "PASS" {
				shouldPass = true
			}

			actual := ""
			for lines.Scan() {
				asm, _, err := CompileString(lines.Text())
				if shouldPass && err != nil {
					t.Error(err)
					continue
				}
				if !shouldPass && err == nil {
					t.Errorf("Expected expression to fail: %s", lines.Text())
					continue
				}

				if shouldPass {
					actual += asm
				} else {
					perr, _ := parse.AsError(err)
					actual += perr.FormatError(lines.Text())
				}
			}

			if os.Getenv("SHOULD_REBASE") != "" {
				err := os.WriteFile(expectation, []byte(actual), 0666)
				if err != nil {
					t.Error(err)
				}
				expected = actual
			}

			if a, e := strings.TrimSpace(actual), strings.TrimSpace(expected); a != e {
				t.Errorf("Expectation not met:\n%s", diff.LineDiff(e, a))
			}
		})
	}
}
