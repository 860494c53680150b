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
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"znkr.io/apiview/apitree"
	"znkr.io/apiview/codepanel"
	"znkr.io/apiview/linearize"
	"znkr.io/apiview/pipeline"
	"znkr.io/apiview/textview"
)

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [flags] before.json after.json",
		Short: "Compare two API trees",
		Long: `Diff compares two API tree documents and prints the rows of the diffed tree.

A document is either a JSON array of root nodes or an object with an APIForest field.`,
		Args: cobra.ExactArgs(2),
		RunE: runDiff,
	}
	addRenderFlags(cmd)
	cmd.Flags().String("diagnostics-file", "", "JSON array of diagnostics to attach")
	cmd.Flags().String("comments-file", "", "JSON array of comments to attach")
	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	var trees pipeline.Trees
	if trees.Before, err = readForest(args[0]); err != nil {
		return err
	}
	if trees.After, err = readForest(args[1]); err != nil {
		return err
	}
	if path, _ := cmd.Flags().GetString("diagnostics-file"); path != "" {
		if err := readJSON(path, &trees.Diagnostics); err != nil {
			return err
		}
	}
	if path, _ := cmd.Flags().GetString("comments-file"); path != "" {
		if err := readJSON(path, &trees.Comments); err != nil {
			return err
		}
	}

	out, err := pipeline.Compare(cmd.Context(), trees, cfg.settings())
	if err != nil {
		return fmt.Errorf("diff failed: %w", err)
	}
	if slog.Default().Enabled(cmd.Context(), slog.LevelDebug) {
		summary := apitree.Summary(apitree.Diff(trees.Before, trees.After))
		slog.Debug("apiview.diff",
			"added", summary[apitree.Added],
			"removed", summary[apitree.Removed],
			"modified", summary[apitree.Modified],
			"rows", len(out.Rows))
	}
	return writeOutput(cmd, cfg, out)
}

func readForest(path string) ([]*apitree.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	forest, err := apitree.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return forest, nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

type jsonOutput struct {
	Rows         []codepanel.Row             `json:"rows"`
	Navigation   []*linearize.NavigationNode `json:"navigation"`
	HasHiddenAPI bool                        `json:"hasHiddenAPI"`
}

// writeOutput prints the rows of out in the format selected by the --format flag.
func writeOutput(cmd *cobra.Command, cfg fileConfig, out *pipeline.Output) error {
	format, _ := cmd.Flags().GetString("format")
	w := cmd.OutOrStdout()
	switch format {
	case "text":
		return textview.Write(w, out.Rows, cfg.textOptions(cmd)...)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonOutput{
			Rows:         out.Rows,
			Navigation:   out.Navigation,
			HasHiddenAPI: out.HasHiddenAPI,
		})
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
