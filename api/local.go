/*
 * Copyright (c) 2023-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ninecc

import (
	"context"

	"github.com/dburkart/ninecc/pkg/codegen"
	"github.com/dburkart/ninecc/pkg/compiler"
	"github.com/dburkart/ninecc/pkg/vm"
	"github.com/pkg/errors"
)

type LocalClient struct {
	target  Target
	codegen []codegen.Option
}

func (client *LocalClient) Open(target Target) error {
	client.target = target
	return nil
}

func (client *LocalClient) Close() error {
	return nil
}

func (client *LocalClient) Compile(ctx context.Context, expr string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	asm, _, err := compiler.CompileString(expr, client.codegen...)
	return asm, err
}

func (client *LocalClient) Run(ctx context.Context, expr string) (Result, error) {
	asm, err := client.Compile(ctx, expr)
	if err != nil {
		return Result{}, err
	}

	v, err := vm.Execute(asm)
	if err != nil {
		return Result{}, errors.Wrap(err, "unable to run program")
	}

	return Result{Value: v, Status: vm.ExitStatus(v), Assembly: asm}, nil
}
