/*
 * Copyright (c) 2023-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ast

import (
	"reflect"
	"strings"
)

type Dumper struct {
	Output string
	indent int
}

func (d *Dumper) Visit(node Node) Visitor {
	if node == nil {
		d.indent -= 1
		return nil
	}

	level := strings.Repeat("    ", d.indent)

	value := node.Value()
	if b, ok := node.(*BinaryOpNode); ok {
		value = b.Kind.ToString() + " " + value
	}

	t := reflect.TypeOf(node)
	output := level + t.Elem().Name() + "[" + value + "]" + "\n"

	d.Output += output
	d.indent += 1

	return d
}

// ASTToString renders the tree one node per line, children indented
// beneath their parent.
func ASTToString(node Node) string {
	d := &Dumper{}
	Walk(d, node)
	return d.Output
}
