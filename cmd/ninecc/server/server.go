/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dburkart/ninecc/cmd/ninecc/cli"
	"github.com/dburkart/ninecc/pkg/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "serve",
	Short: "Serve compile and run requests over HTTP",
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		logger := viper.Get("logger").(zerolog.Logger)

		srv := server.New(
			logger,
			server.WithPort(viper.GetInt("server.port")),
			server.WithMetricsEndpoint(viper.GetBool("server.metrics")),
			server.WithCodegenOptions(cli.CodegenOptions()...),
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return srv.ListenAndServe(ctx)
	},
}

func init() {
	// Flags for this command
	Command.Flags().IntP("port", "p", server.DefaultPort, "Port to serve compile requests on")
	Command.Flags().Bool("metrics", true, "Serve prometheus metrics on /metrics")

	// Bind flags to viper
	viper.BindPFlag("server.port", Command.Flags().Lookup("port"))
	viper.BindPFlag("server.metrics", Command.Flags().Lookup("metrics"))
}
