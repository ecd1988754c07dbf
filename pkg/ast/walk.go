/*
 * Copyright (c) 2023-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ast

// Walk visits node in depth-first order. After a node's children have been
// walked, the visitor is called once more with nil.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *BinaryOpNode:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *NumberNode:
		// Skip, leaf node

	default:
		panic("Unexpected Node passed to Walk")
	}

	v.Visit(nil)
}
