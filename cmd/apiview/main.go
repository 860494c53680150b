// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command apiview compares API surface trees and prints them as code panel rows.
//
// Usage:
//
//	apiview diff [flags] before.json after.json
//	apiview render [flags] payload.json
//	apiview tokendiff [flags] before.json after.json
//
// Defaults are read from $XDG_CONFIG_HOME/apiview/config.toml, flags override them.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "apiview",
		Short:        "Compare and render API surfaces",
		Long:         `apiview diffs API surface trees and prints the resulting rows with old and new line numbers.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(h))
		},
	}

	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/apiview/config.toml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log pipeline activity to stderr")

	root.AddCommand(newDiffCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newTokenDiffCmd())
	return root
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
