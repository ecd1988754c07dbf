/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ninecc

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dburkart/ninecc/cmd/ninecc/cli"
	"github.com/dburkart/ninecc/cmd/ninecc/inspect"
	"github.com/dburkart/ninecc/cmd/ninecc/repl"
	"github.com/dburkart/ninecc/cmd/ninecc/run"
	"github.com/dburkart/ninecc/cmd/ninecc/server"
	"github.com/dburkart/ninecc/pkg/common/parse"
	"github.com/dburkart/ninecc/pkg/compiler"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	Version        = "develop"
	CommitHash     = "n/a"
	BuildTimestamp = "n/a"

	rootCmd = &cobra.Command{
		Use:   "ninecc <expression>",
		Short: "ninecc compiles an integer expression to x86-64 assembly",
		Long: `ninecc compiles an integer expression to x86-64 assembly.

The expression is the only argument. Flags are not parsed so that
expressions like -5+8 can be passed as is, which means the global flags
below only apply to subcommands. Configure the root compile through the
config file or the environment instead, e.g. CODEGEN_ENTRY=start or
NINECC_VERBOSE=1.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging()
			initLogLevel()
			initConfig(cmd.Root().PersistentFlags().Lookup("config").Value.String())
			initLogLevel()
			traceConfig()
		},
		Args:               cli.ExactlyOneExpression,
		RunE:               compile,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		Version:            Version,
	}
)

func init() {
	// Configure the root binary options
	rootCmd.PersistentFlags().CountP("verbose", "v", "-v for debug logs (-vv for trace), subcommands only")
	rootCmd.PersistentFlags().Bool("local", true, "Configures the logger to print readable logs, subcommands only")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the ninecc config file (default ./config.toml), subcommands only")
	rootCmd.PersistentFlags().StringP("entry", "e", "main", "Global symbol the program is emitted under, subcommands only")

	// Bind viper config to the root flags
	viper.BindPFlag("ninecc.local", rootCmd.PersistentFlags().Lookup("local"))
	viper.BindPFlag("ninecc.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("codegen.entry", rootCmd.PersistentFlags().Lookup("entry"))
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.SetVersionTemplate(fmt.Sprintf("ninecc version: %s git_commit: %s build_time: %s\n", Version, CommitHash, BuildTimestamp))

	// Bind viper flags to ENV variables, e.g. NINECC_VERBOSE=2
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Register commands on the root binary command
	for _, c := range []*cobra.Command{repl.Command, server.Command, inspect.Command, run.Command} {
		c.Version = rootCmd.Version
		rootCmd.AddCommand(c)
	}
}

func compile(cmd *cobra.Command, args []string) error {
	log := viper.Get("logger").(zerolog.Logger)
	input := args[0]

	stats, err := compiler.Compile(input, cmd.OutOrStdout(), cli.CodegenOptions()...)
	if err != nil {
		return cli.Report(cmd.ErrOrStderr(), err, input)
	}

	log.Debug().Str("input", input).Str("stats", stats.String()).Msg("compiled expression")
	return nil
}

// Run executes the command line args and returns the process exit status.
func Run(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	var exit *cli.ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}

	if errors.Is(err, cli.ErrReported) {
		return 1
	}

	if perr, ok := parse.AsError(err); ok && perr.Kind == parse.UsageError {
		fmt.Fprint(stderr, perr.FormatError(""))
		return 1
	}

	log.Error().Err(err).Msg("root command failed")
	return 1
}

func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}
