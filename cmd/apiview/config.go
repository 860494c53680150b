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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"znkr.io/apiview"
	"znkr.io/apiview/pipeline"
	"znkr.io/apiview/textview"
)

// fileConfig is the content of the config file.
type fileConfig struct {
	Style              string `toml:"style"`
	ShowDocumentation  bool   `toml:"show_documentation"`
	ShowComments       bool   `toml:"show_comments"`
	ShowSystemComments bool   `toml:"show_system_comments"`
	ShowHiddenAPIs     bool   `toml:"show_hidden_apis"`
	Color              string `toml:"color"`
	Width              int    `toml:"width"`
	IndentWidth        int    `toml:"indent_width"`
}

func defaultConfig() fileConfig {
	s := pipeline.DefaultSettings()
	return fileConfig{
		Style:              s.DiffStyle,
		ShowDocumentation:  s.ShowDocumentation,
		ShowComments:       s.ShowComments,
		ShowSystemComments: s.ShowSystemComments,
		ShowHiddenAPIs:     s.ShowHiddenAPIs,
		Color:              "auto",
		IndentWidth:        4,
	}
}

// defaultConfigPath returns $XDG_CONFIG_HOME/apiview/config.toml or its platform equivalent.
func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "apiview", "config.toml"), nil
}

// loadConfig reads the config file at path on top of the defaults. A missing file is only an
// error if the path was given explicitly.
func loadConfig(path string, explicit bool) (fileConfig, error) {
	cfg := defaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return defaultConfig(), nil
	case err != nil:
		return fileConfig{}, fmt.Errorf("reading config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fileConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return fileConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *fileConfig) validate() error {
	if _, err := apiview.ParseDiffStyle(c.Style); err != nil {
		return err
	}
	switch c.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("unknown color mode %q", c.Color)
	}
	if c.Width < 0 || c.IndentWidth < 0 {
		return fmt.Errorf("width and indent_width must not be negative")
	}
	return nil
}

// resolveConfig loads the config file selected by the --config flag and applies the flags of cmd
// that were set explicitly.
func resolveConfig(cmd *cobra.Command) (fileConfig, error) {
	cfg := defaultConfig()
	path, _ := cmd.Flags().GetString("config")
	explicit := path != ""
	if !explicit {
		// Without a config directory there is no config file, only flags.
		path, _ = defaultConfigPath()
	}
	if path != "" {
		var err error
		if cfg, err = loadConfig(path, explicit); err != nil {
			return fileConfig{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("color") {
		cfg.Color, _ = flags.GetString("color")
	}
	if flags.Lookup("style") != nil {
		if flags.Changed("style") {
			cfg.Style, _ = flags.GetString("style")
		}
		for name, field := range map[string]*bool{
			"docs":        &cfg.ShowDocumentation,
			"comments":    &cfg.ShowComments,
			"diagnostics": &cfg.ShowSystemComments,
			"hidden":      &cfg.ShowHiddenAPIs,
		} {
			if flags.Changed(name) {
				*field, _ = flags.GetBool(name)
			}
		}
	}
	if flags.Changed("width") {
		cfg.Width, _ = flags.GetInt("width")
	}
	if err := cfg.validate(); err != nil {
		return fileConfig{}, err
	}
	return cfg, nil
}

func (c fileConfig) settings() pipeline.Settings {
	return pipeline.Settings{
		DiffStyle:          c.Style,
		ShowDocumentation:  c.ShowDocumentation,
		ShowComments:       c.ShowComments,
		ShowSystemComments: c.ShowSystemComments,
		ShowHiddenAPIs:     c.ShowHiddenAPIs,
	}
}

func (c fileConfig) textOptions(cmd *cobra.Command) []textview.Option {
	color := c.Color == "on" || (c.Color == "auto" && isTerminal(cmd.OutOrStdout()))
	return []textview.Option{
		textview.Color(color),
		textview.Width(c.Width),
		textview.IndentWidth(c.IndentWidth),
	}
}

// addRenderFlags adds the flags shared by the commands that linearize a payload.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().String("style", "", "diff style (trees|nodes|full)")
	cmd.Flags().Bool("docs", true, "show documentation")
	cmd.Flags().Bool("comments", true, "show comment threads")
	cmd.Flags().Bool("diagnostics", true, "show diagnostics")
	cmd.Flags().Bool("hidden", false, "show hidden APIs")
	cmd.Flags().String("format", "text", "output format (text|json)")
	cmd.Flags().Int("width", 0, "truncate rows to this many cells, 0 for no limit")
}
