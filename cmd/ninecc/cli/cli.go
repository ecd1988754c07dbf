/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package cli

import (
	"fmt"
	"io"

	"github.com/dburkart/ninecc/pkg/codegen"
	"github.com/dburkart/ninecc/pkg/common/parse"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ErrReported is returned by commands that already printed their
// diagnostic; the process only needs to exit non-zero.
var ErrReported = errors.New("error already reported")

// ExitError asks for a specific process exit status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExactlyOneExpression validates that a command received a single
// positional expression.
func ExactlyOneExpression(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return parse.NewUsageError(fmt.Sprintf("usage: %s: expected exactly one expression, got %d arguments", cmd.CommandPath(), len(args)))
	}
	return nil
}

// Report renders err against input if it is a diagnostic, returning
// ErrReported in that case and err otherwise.
func Report(w io.Writer, err error, input string) error {
	perr, ok := parse.AsError(err)
	if !ok {
		return err
	}

	fmt.Fprint(w, perr.FormatError(input))
	return ErrReported
}

// CodegenOptions builds generator options from the loaded configuration.
func CodegenOptions() []codegen.Option {
	return []codegen.Option{codegen.WithEntry(viper.GetString("codegen.entry"))}
}
