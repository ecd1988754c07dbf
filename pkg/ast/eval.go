/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ast

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ErrDivide is returned for the quotients x86 idiv traps on: division by
// zero and MinInt64 / -1.
var ErrDivide = errors.New("integer divide error")

// Evaluate computes the value of the tree with the same 64-bit semantics
// the generated code has at run time.
func Evaluate(node Node) (int64, error) {
	switch n := node.(type) {
	case *NumberNode:
		return n.Val, nil
	case *BinaryOpNode:
		lh, err := Evaluate(n.Left)
		if err != nil {
			return 0, err
		}
		rh, err := Evaluate(n.Right)
		if err != nil {
			return 0, err
		}
		return Apply(n.Kind, lh, rh)
	}

	return 0, fmt.Errorf("cannot evaluate %T", node)
}

// Apply computes a single binary operation.
func Apply(kind OpKind, lh, rh int64) (int64, error) {
	switch kind {
	case OpAdd:
		return lh + rh, nil
	case OpSub:
		return lh - rh, nil
	case OpMul:
		return lh * rh, nil
	case OpDiv:
		if rh == 0 || (lh == math.MinInt64 && rh == -1) {
			return 0, ErrDivide
		}
		return lh / rh, nil
	case OpEq:
		return truth(lh == rh), nil
	case OpNe:
		return truth(lh != rh), nil
	case OpLt:
		return truth(lh < rh), nil
	case OpLe:
		return truth(lh <= rh), nil
	case OpGt:
		return truth(lh > rh), nil
	case OpGe:
		return truth(lh >= rh), nil
	}

	return 0, fmt.Errorf("unknown operator '%s'", kind.ToString())
}

func truth(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
