/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package inspect

import (
	"strings"

	"github.com/dburkart/ninecc/cmd/ninecc/cli"
	"github.com/dburkart/ninecc/pkg/repl"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Stages = []string{string(repl.VerbTokens), string(repl.VerbAST), string(repl.VerbAsm)}

var Command = &cobra.Command{
	Use:   "inspect <expression>",
	Short: "Show the tokens, syntax tree or assembly of an expression",
	Args:  cli.ExactlyOneExpression,

	RunE: func(cmd *cobra.Command, args []string) error {
		stage := viper.GetString("inspect.stage")
		if !validStage(stage) {
			return errors.Errorf("unsupported stage %q, expected one of [%s]", stage, strings.Join(Stages, ", "))
		}

		output := viper.GetString("inspect.output")
		if !repl.ValidFormat(output) {
			return errors.Errorf("unsupported output format %q, expected one of [%s]", output, strings.Join(repl.Formats, ", "))
		}

		input := args[0]
		c := repl.Command{Verb: repl.Verb(stage), Expression: input}
		writer := repl.NewOutputWriter(cmd.OutOrStdout(), output)

		if err := c.Execute(cmd.OutOrStdout(), writer, cli.CodegenOptions()...); err != nil {
			return cli.Report(cmd.ErrOrStderr(), err, input)
		}
		return nil
	},
}

func validStage(stage string) bool {
	for _, s := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

func init() {
	// Flags for this command
	Command.Flags().StringP("stage", "s", string(repl.VerbAsm), "Compiler stage to show [tokens, ast, asm]")
	Command.Flags().StringP("output", "o", "text", "Output format of tables [csv, json, text]")

	// Bind flags to viper
	viper.BindPFlag("inspect.stage", Command.Flags().Lookup("stage"))
	viper.BindPFlag("inspect.output", Command.Flags().Lookup("output"))
}
