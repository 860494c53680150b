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

// Package config provides shared configuration mechanisms for packages this module.
//
// This package is an implementation detail, the configuration surface for users is provided via
// apiview.Option.
package config

import "fmt"

// DiffStyle selects which parts of a diffed tree are linearized.
type DiffStyle int

const (
	// Only subtrees with at least one diffed descendant are emitted.
	StyleTrees DiffStyle = iota

	// Only diff rows and a bounded run of preceding context are emitted.
	StyleNodes

	// Everything is emitted, diffs inline.
	StyleFull
)

// String returns the wire name of the style.
func (s DiffStyle) String() string {
	switch s {
	case StyleTrees:
		return "trees"
	case StyleNodes:
		return "nodes"
	case StyleFull:
		return "full"
	default:
		return fmt.Sprintf("DiffStyle(%d)", int(s))
	}
}

// ParseDiffStyle is the inverse of [DiffStyle.String].
func ParseDiffStyle(s string) (DiffStyle, error) {
	switch s {
	case "trees":
		return StyleTrees, nil
	case "nodes":
		return StyleNodes, nil
	case "full":
		return StyleFull, nil
	default:
		return 0, fmt.Errorf("unknown diff style %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s DiffStyle) MarshalText() ([]byte, error) {
	switch s {
	case StyleTrees, StyleNodes, StyleFull:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("invalid diff style %d", int(s))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *DiffStyle) UnmarshalText(b []byte) error {
	v, err := ParseDiffStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Config collects all configurable parameters for the functions in this module.
type Config struct {
	// Context is the capacity of the context buffer used by StyleNodes.
	Context int

	// Diff style used by the linearizer.
	Style DiffStyle

	// Visibility of documentation rows, comment threads, diagnostics and hidden API rows.
	ShowDocumentation  bool
	ShowComments       bool
	ShowSystemComments bool
	ShowHiddenAPIs     bool

	// TokenLimit is the combined length of two token sequences above which the token diff
	// falls back to a full replace of the changed middle.
	TokenLimit int
}

// Default is the default configuration.
var Default = Config{
	Context:            3,
	Style:              StyleTrees,
	ShowDocumentation:  true,
	ShowComments:       true,
	ShowSystemComments: true,
	ShowHiddenAPIs:     false,
	TokenLimit:         4096,
}

// Flag describes a single config entry. This is used to detect if configurations are being set
// that are not supported by an entry point.
type Flag int

const (
	Context Flag = 1 << iota
	Style
	Documentation
	Comments
	SystemComments
	HiddenAPIs
	TokenLimit
)

// Render is the set of flags that affect linearization.
const Render = Context | Style | Documentation | Comments | SystemComments | HiddenAPIs

// Option is the mechanism used to expose the configuration to users.
type Option func(*Config) Flag

// FromOptions creates a configuration from a set of options.
func FromOptions(opts []Option, allowed Flag) Config {
	cfg := Default
	for _, opt := range opts {
		flag := opt(&cfg)
		if flag & ^allowed != 0 {
			panic("Option " + printFlag(flag) + " not allowed here")
		}
	}
	return cfg
}

// Options converts cfg back into options, the inverse of [FromOptions].
func (cfg Config) Options() []Option {
	set := func(f Flag, fn func(*Config)) Option {
		return func(c *Config) Flag {
			fn(c)
			return f
		}
	}
	return []Option{
		set(Context, func(c *Config) { c.Context = cfg.Context }),
		set(Style, func(c *Config) { c.Style = cfg.Style }),
		set(Documentation, func(c *Config) { c.ShowDocumentation = cfg.ShowDocumentation }),
		set(Comments, func(c *Config) { c.ShowComments = cfg.ShowComments }),
		set(SystemComments, func(c *Config) { c.ShowSystemComments = cfg.ShowSystemComments }),
		set(HiddenAPIs, func(c *Config) { c.ShowHiddenAPIs = cfg.ShowHiddenAPIs }),
	}
}

func printFlag(flag Flag) string {
	switch flag {
	case Context:
		return "apiview.Context"
	case Style:
		return "apiview.Style"
	case Documentation:
		return "apiview.ShowDocumentation"
	case Comments:
		return "apiview.ShowComments"
	case SystemComments:
		return "apiview.ShowSystemComments"
	case HiddenAPIs:
		return "apiview.ShowHiddenAPIs"
	case TokenLimit:
		return "apiview.TokenLimit"
	default:
		panic("never reached")
	}
}
