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

package apiview

import "znkr.io/apiview/internal/config"

// Option configures the behavior of the functions in this module.
type Option = config.Option

// DiffStyle selects which parts of a diffed API tree are turned into rows.
type DiffStyle = config.DiffStyle

const (
	// Trees emits every subtree that contains at least one diffed descendant.
	Trees = config.StyleTrees
	// Nodes emits diff rows plus a short run of preceding context rows.
	Nodes = config.StyleNodes
	// Full emits the whole tree with diffs inline.
	Full = config.StyleFull
)

// ParseDiffStyle parses the wire names "trees", "nodes" and "full".
func ParseDiffStyle(s string) (DiffStyle, error) {
	return config.ParseDiffStyle(s)
}

// Style sets the diff style. The default is [Trees].
func Style(s DiffStyle) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Style = s
		return config.Style
	}
}

// Context sets the number of unchanged rows kept ahead of a diff row with the [Nodes] diff style.
// The default is 3.
func Context(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Context = max(0, n)
		return config.Context
	}
}

// ShowDocumentation includes documentation rows. The default is true.
func ShowDocumentation(show bool) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.ShowDocumentation = show
		return config.Documentation
	}
}

// ShowComments includes comment thread rows. The default is true.
func ShowComments(show bool) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.ShowComments = show
		return config.Comments
	}
}

// ShowSystemComments includes diagnostic rows. The default is true.
func ShowSystemComments(show bool) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.ShowSystemComments = show
		return config.SystemComments
	}
}

// ShowHiddenAPIs includes rows of API elements tagged as hidden. The default is false.
func ShowHiddenAPIs(show bool) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.ShowHiddenAPIs = show
		return config.HiddenAPIs
	}
}

// TokenLimit sets the combined length of two token sequences above which the changed middle is
// treated as a full replace instead of being aligned. The default is 4096.
func TokenLimit(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.TokenLimit = max(0, n)
		return config.TokenLimit
	}
}
