/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2022-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dburkart/ninecc/cmd/ninecc/cli"
	"github.com/dburkart/ninecc/pkg/repl"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "repl",
	Short: "Interactive prompt for compiling and evaluating expressions",
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		output := viper.GetString("repl.output")
		if !repl.ValidFormat(output) {
			return errors.Errorf("unsupported output format %q, expected one of [%s]", output, strings.Join(repl.Formats, ", "))
		}

		return readlinePrompt(output)
	},
}

func init() {
	// Flags for this command
	Command.Flags().StringP("output", "o", "text", "Output format of results [csv, json, text]")
	Command.Flags().String("history", defaultHistoryFile(), "File to keep prompt history in")

	// Bind flags to viper
	viper.BindPFlag("repl.output", Command.Flags().Lookup("output"))
	viper.BindPFlag("repl.history", Command.Flags().Lookup("history"))
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ninecc_history")
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func newCompleter() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{}
	for _, v := range repl.ExpressionVerbs {
		items = append(items, readline.PcItem(string(v)))
	}
	items = append(items, readline.PcItem(string(repl.VerbHelp)), readline.PcItem(string(repl.VerbExit)))

	return readline.NewPrefixCompleter(items...)
}

func readlinePrompt(output string) error {
	log := viper.Get("logger").(zerolog.Logger)
	completer := newCompleter()

	// Setup the readline executor
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31m>\033[0m ",
		HistoryFile:     viper.GetString("repl.history"),
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return errors.Wrap(err, "unable to start prompt")
	}
	defer rl.Close()

	// Configure output writer
	writer := repl.NewOutputWriter(rl.Stdout(), output)

	// Handle input
	for {
		ln := rl.Line()
		if ln.CanContinue() {
			continue
		} else if ln.CanBreak() {
			break
		}

		line := strings.TrimSpace(ln.Line)
		if line == "" {
			continue
		}

		c, err := repl.ParseCommand(line)
		if err != nil {
			log.Error().Err(err).Send()
			continue
		}

		switch c.Verb {
		case repl.VerbHelp:
			printHelp(rl.Stdout(), completer)
			continue
		case repl.VerbExit:
			rl.Clean()
			return nil
		}

		err = c.Execute(rl.Stdout(), writer, cli.CodegenOptions()...)
		if err != nil {
			if cli.Report(rl.Stderr(), err, c.Expression) != cli.ErrReported {
				log.Error().Err(err).Str("expression", c.Expression).Send()
			}
			continue
		}
		fmt.Fprintln(rl.Stdout())
	}
	rl.Clean()
	return nil
}

func printHelp(w io.Writer, completer *readline.PrefixCompleter) {
	fmt.Fprintln(w, "usage:")
	fmt.Fprintln(w, completer.Tree("    "))
	fmt.Fprintln(w, "Any other input is evaluated as an expression.")
}
