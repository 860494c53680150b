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
	"io"
	"os"

	"github.com/spf13/cobra"
	"znkr.io/apiview/pipeline"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [flags] payload.json",
		Short: "Render a code panel payload",
		Long:  `Render linearizes a code panel payload. Use - to read the payload from stdin.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
	addRenderFlags(cmd)
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	var payload []byte
	if args[0] == "-" {
		payload, err = io.ReadAll(cmd.InOrStdin())
	} else {
		payload, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}

	out, err := pipeline.Render(cmd.Context(), payload, cfg.settings())
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return writeOutput(cmd, cfg, out)
}
