/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package run

import (
	"fmt"

	ninecc "github.com/dburkart/ninecc/api"
	"github.com/dburkart/ninecc/cmd/ninecc/cli"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "run <expression>",
	Short: "Compile an expression and execute it on the simulator",
	Long: `Compile an expression and execute the assembly on the built-in
simulator. The value is printed and the low byte of it becomes the
exit status, the same as running the assembled binary.

With --server the expression is sent to a running 'ninecc serve'.`,
	Args: cli.ExactlyOneExpression,

	RunE: func(cmd *cobra.Command, args []string) error {
		log := viper.Get("logger").(zerolog.Logger)
		input := args[0]

		target := viper.GetString("run.server")
		client, err := ninecc.NewClient(target, cli.CodegenOptions()...)
		if err != nil {
			return err
		}
		defer client.Close()

		r, err := client.Run(cmd.Context(), input)
		if err != nil {
			return cli.Report(cmd.ErrOrStderr(), err, input)
		}
		log.Debug().
			Str("target", target).
			Str("input", input).
			Str("size", humanize.Bytes(uint64(len(r.Assembly)))).
			Msg("ran expression")

		fmt.Fprintln(cmd.OutOrStdout(), r.Value)

		if r.Status != 0 {
			return &cli.ExitError{Code: r.Status}
		}
		return nil
	},
}

func init() {
	// Flags for this command
	Command.Flags().StringP("server", "s", "local", "Where to compile and run [local, http://host:port]")

	// Bind flags to viper
	viper.BindPFlag("run.server", Command.Flags().Lookup("server"))
}
