/*
 * Copyright (c) 2022-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ninecc

import (
	"context"

	"github.com/dburkart/ninecc/pkg/codegen"
)

// Result is the outcome of compiling and running one expression.
type Result struct {
	Value    int64
	Status   int
	Assembly string
}

type Client interface {
	Open(Target) error
	Close() error
	Compile(context.Context, string) (string, error)
	Run(context.Context, string) (Result, error)
}

// NewClient creates a Client for target. A "local" target compiles in
// process; an http(s) target talks to a `ninecc serve` instance, which
// applies its own code generation options.
//
// Syntax errors come back as *parse.Error in both cases, so callers can
// render the caret diagnostic the same way.
func NewClient(target string, opts ...codegen.Option) (Client, error) {
	var client Client

	t, err := ParseTarget(target)
	if err != nil {
		return nil, err
	}

	if t.Local {
		client = &LocalClient{codegen: opts}
	} else {
		client = &RemoteClient{}
	}

	err = client.Open(t)
	if err != nil {
		return nil, err
	}

	return client, nil
}
