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

// Package linearize flattens a code panel payload into the ordered rows and the navigation tree
// that a diff view shows.
//
// Three policies apply at the same time: the diff style ([apiview.Trees], [apiview.Nodes],
// [apiview.Full]), documentation visibility and hidden API visibility. Comment threads and
// diagnostics can be toggled independently. Every row shown on the old side of the diff gets an
// old line number and every row shown on the new side a new line number.
package linearize

import (
	"znkr.io/apiview"
	"znkr.io/apiview/codepanel"
	"znkr.io/apiview/internal/config"
)

// NavigationNode is an entry of the navigation tree.
type NavigationNode struct {
	Label    string            `json:"label" msgpack:"label"`
	ID       string            `json:"id" msgpack:"id"` // Hashed node id
	Kind     string            `json:"kind" msgpack:"kind"`
	Icon     string            `json:"icon" msgpack:"icon"`
	Indent   int               `json:"indent" msgpack:"indent"`
	Children []*NavigationNode `json:"children,omitempty" msgpack:"children,omitempty"`
}

// Result is the output of [Build].
type Result struct {
	Rows         []codepanel.Row   `json:"rows"`
	Navigation   []*NavigationNode `json:"navigation"`
	HasHiddenAPI bool              `json:"hasHiddenAPI"`
}

// Build linearizes data.
//
// The following options are supported: [apiview.Style], [apiview.Context],
// [apiview.ShowDocumentation], [apiview.ShowComments], [apiview.ShowSystemComments] and
// [apiview.ShowHiddenAPIs].
//
// A payload without any Added or Removed rows is always linearized in full, regardless of the
// diff style. Child and bottom ids that aren't in the payload are skipped. data is not modified.
func Build(data *codepanel.Data, opts ...apiview.Option) Result {
	cfg := config.FromOptions(opts, config.Render)
	if data == nil || data.Root() == nil {
		return Result{}
	}
	p := newPass(data, cfg)
	if p.style == config.StyleFull || p.subtree(p.rootID).relevant(cfg) {
		p.visited[p.rootID] = true
		p.children(data.Root(), &frame{id: p.rootID})
	}
	return Result{
		Rows:         p.rows,
		Navigation:   p.nav,
		HasHiddenAPI: p.hidden,
	}
}
