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

package linearize

// materialize creates the navigation entries of f and its ancestors, unless they already exist.
// Frames without a navigation descriptor are skipped and their descendants attach to the nearest
// ancestor with an entry, or to the top level.
func (p *pass) materialize(f *frame) {
	if f == nil || f.materialized {
		return
	}
	p.materialize(f.parent)
	f.materialized = true
	if f.desc == nil {
		return
	}
	n := &NavigationNode{
		Label: f.desc.Label,
		ID:    f.desc.Data.NodeIDHashed,
		Kind:  f.desc.Data.Kind,
		Icon:  f.desc.Data.Icon,
	}
	if n.ID == "" {
		n.ID = f.id
	}
	f.nav = n
	for a := f.parent; a != nil; a = a.parent {
		if a.nav != nil {
			n.Indent = a.nav.Indent + 1
			a.nav.Children = append(a.nav.Children, n)
			return
		}
	}
	p.nav = append(p.nav, n)
}
