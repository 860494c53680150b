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

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"znkr.io/apiview"
	"znkr.io/apiview/codepanel"
	"znkr.io/apiview/textview"
	"znkr.io/apiview/token"
)

func newTokenDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokendiff [flags] before.json after.json",
		Short: "Compare two token sequences",
		Long:  `Tokendiff compares two JSON arrays of tokens line by line and prints the diff tagged lines.`,
		Args:  cobra.ExactArgs(2),
		RunE:  runTokenDiff,
	}
	cmd.Flags().Int("token-limit", 0, "combined length above which changes are not aligned, 0 for the default")
	cmd.Flags().Int("width", 0, "truncate rows to this many cells, 0 for no limit")
	return cmd
}

func runTokenDiff(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	var req codepanel.TokenDiffRequest
	if err := readJSON(args[0], &req.Before); err != nil {
		return err
	}
	if err := readJSON(args[1], &req.After); err != nil {
		return err
	}

	var opts []apiview.Option
	if limit, _ := cmd.Flags().GetInt("token-limit"); limit > 0 {
		opts = append(opts, apiview.TokenLimit(limit))
	}
	records := codepanel.DiffTokens(req, opts...)

	rows := make([]codepanel.Row, 0, len(records))
	oldLine, newLine := 0, 0
	for _, rec := range records {
		row := codepanel.Row{
			Kind:     codepanel.CodeLine,
			Tokens:   rec.Tokens,
			DiffKind: rec.DiffKind,
			LineID:   rec.LineID,
		}
		if lines := token.Lines(rec.Tokens); len(lines) == 1 && lines[0].IsDocumentation() {
			row.Kind = codepanel.Documentation
		}
		if rec.DiffKind.OnOldSide() {
			oldLine++
			row.OldLineNumber = oldLine
		}
		if rec.DiffKind.OnNewSide() {
			newLine++
			row.NewLineNumber = newLine
		}
		rows = append(rows, row)
	}
	if err := textview.Write(cmd.OutOrStdout(), rows, cfg.textOptions(cmd)...); err != nil {
		return fmt.Errorf("writing diff: %w", err)
	}
	return nil
}
