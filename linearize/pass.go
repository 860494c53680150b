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

import (
	"znkr.io/apiview/codepanel"
	"znkr.io/apiview/internal/config"
)

// pass holds all state of one linearization.
type pass struct {
	data   *codepanel.Data
	cfg    config.Config
	style  config.DiffStyle
	rootID string

	// Scan results over every node reachable from the root.
	hidden  bool
	anyDiff bool

	rows             []codepanel.Row
	nav              []*NavigationNode
	oldLine, newLine int
	buffer           []entry // context rows for StyleNodes, oldest first
	visited          map[string]bool
	memo             map[string]diffState
}

// entry is a code or documentation row followed by the rows attached to it, or a single
// diagnostic row.
type entry struct {
	rows  []codepanel.Row
	frame *frame
}

// frame is a node on the traversal path. Frames stay valid after the traversal has left them, so
// that buffered rows can still materialize their navigation entries.
type frame struct {
	id     string
	desc   *codepanel.NavigationDescriptor
	parent *frame

	materialized bool
	nav          *NavigationNode
}

// diffState summarizes the visible diff rows of a subtree.
type diffState struct {
	diff     bool // any Added or Removed row
	codeDiff bool // any Added or Removed code line
}

func (s diffState) or(t diffState) diffState {
	return diffState{diff: s.diff || t.diff, codeDiff: s.codeDiff || t.codeDiff}
}

// relevant reports whether the subtree has diffs that are shown with cfg.
func (s diffState) relevant(cfg config.Config) bool {
	if cfg.ShowDocumentation {
		return s.diff
	}
	return s.codeDiff
}

func newPass(data *codepanel.Data, cfg config.Config) *pass {
	p := &pass{
		data:    data,
		cfg:     cfg,
		style:   cfg.Style,
		rootID:  data.RootID,
		visited: make(map[string]bool),
		memo:    make(map[string]diffState),
	}
	if p.rootID == "" {
		p.rootID = codepanel.RootID
	}
	p.scan()
	if !p.anyDiff {
		p.style = config.StyleFull
	}
	return p
}

// scan walks every node reachable from the root, ignoring all visibility settings.
func (p *pass) scan() {
	seen := map[string]bool{p.rootID: true}
	stack := []string{p.rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		meta := p.data.NodeMetaData[id]
		if meta == nil {
			continue
		}
		for _, rows := range [][]codepanel.Row{meta.CodeLines, meta.Documentation, meta.Diagnostics} {
			for _, r := range rows {
				p.hidden = p.hidden || r.IsHiddenAPI
			}
		}
		for _, rows := range meta.CommentThreads {
			for _, r := range rows {
				p.hidden = p.hidden || r.IsHiddenAPI
			}
		}
		p.anyDiff = p.anyDiff || meta.HasDiff()

		next := append([]string(nil), meta.ChildrenNodeIDsInOrder...)
		if meta.BottomTokenNodeIDHash != "" {
			next = append(next, meta.BottomTokenNodeIDHash)
		}
		for _, c := range next {
			if !seen[c] {
				seen[c] = true
				stack = append(stack, c)
			}
		}
	}
}

func (p *pass) visible(r codepanel.Row) bool {
	return !r.IsHiddenAPI || p.cfg.ShowHiddenAPIs
}

// own returns the diff state of the visible rows of a single entry.
func (p *pass) own(meta *codepanel.NodeMetaData) diffState {
	var s diffState
	for _, r := range meta.CodeLines {
		if p.visible(r) && r.DiffKind.IsDiff() {
			s.diff, s.codeDiff = true, true
			break
		}
	}
	if !s.diff {
		for _, r := range meta.Documentation {
			if p.visible(r) && r.DiffKind.IsDiff() {
				s.diff = true
				break
			}
		}
	}
	return s
}

// subtree returns the diff state of a node, its descendants and its bottom entry.
func (p *pass) subtree(id string) diffState {
	if s, ok := p.memo[id]; ok {
		return s
	}
	p.memo[id] = diffState{} // cycle
	meta := p.data.NodeMetaData[id]
	if meta == nil {
		return diffState{}
	}
	s := p.own(meta)
	for _, c := range meta.ChildrenNodeIDsInOrder {
		s = s.or(p.subtree(c))
	}
	if bottom := p.data.NodeMetaData[meta.BottomTokenNodeIDHash]; bottom != nil {
		s = s.or(p.own(bottom))
	}
	p.memo[id] = s
	return s
}

func (p *pass) children(meta *codepanel.NodeMetaData, f *frame) {
	for _, c := range meta.ChildrenNodeIDsInOrder {
		p.visit(c, f)
	}
}

// visit linearizes the node id and everything below it.
func (p *pass) visit(id string, parent *frame) {
	meta := p.data.NodeMetaData[id]
	if meta == nil || p.visited[id] {
		return
	}
	p.visited[id] = true

	leaf := len(meta.ChildrenNodeIDsInOrder) == 0
	if p.style != config.StyleFull && !leaf && !p.subtree(id).relevant(p.cfg) {
		return
	}

	f := &frame{id: id, desc: meta.Navigation, parent: parent}
	p.entry(meta, f)
	p.children(meta, f)
	if b := meta.BottomTokenNodeIDHash; b != "" && !p.visited[b] {
		if bottom := p.data.NodeMetaData[b]; bottom != nil {
			p.visited[b] = true
			p.entry(bottom, f)
		}
	}
}

// entry adds the rows of one node entry: documentation, code lines each followed by its comment
// threads, and finally diagnostics.
func (p *pass) entry(meta *codepanel.NodeMetaData, f *frame) {
	var docs []codepanel.Row
	for _, r := range meta.Documentation {
		if p.visible(r) {
			docs = append(docs, r)
		}
	}
	if p.cfg.ShowDocumentation {
		for _, r := range docs {
			p.add(f, r)
		}
	}

	first := true
	for i, r := range meta.CodeLines {
		if !p.visible(r) {
			continue
		}
		if first && len(docs) > 0 {
			r.DocToggle = codepanel.DocToggleCollapsed
			if p.cfg.ShowDocumentation {
				r.DocToggle = codepanel.DocToggleExpanded
			}
		}
		first = false
		rows := []codepanel.Row{r}
		if p.cfg.ShowComments {
			for _, t := range meta.CommentThreads[i] {
				if p.visible(t) {
					rows = append(rows, t)
				}
			}
		}
		p.add(f, rows...)
	}

	if p.cfg.ShowSystemComments {
		for _, r := range meta.Diagnostics {
			if p.visible(r) {
				p.add(f, r)
			}
		}
	}
}

// add emits rows or, for unchanged rows with StyleNodes, keeps them as context until the next
// diff row. The context buffer holds at most cfg.Context entries.
func (p *pass) add(f *frame, rows ...codepanel.Row) {
	e := entry{rows: rows, frame: f}
	if p.style != config.StyleNodes || rows[0].DiffKind.IsDiff() {
		for _, b := range p.buffer {
			p.emit(b)
		}
		p.buffer = p.buffer[:0]
		p.emit(e)
		return
	}
	if p.cfg.Context <= 0 {
		return
	}
	if len(p.buffer) == p.cfg.Context {
		copy(p.buffer, p.buffer[1:])
		p.buffer = p.buffer[:len(p.buffer)-1]
	}
	p.buffer = append(p.buffer, e)
}

func (p *pass) emit(e entry) {
	p.materialize(e.frame)
	for _, r := range e.rows {
		if r.Kind == codepanel.CodeLine || r.Kind == codepanel.Documentation {
			r.OldLineNumber, r.NewLineNumber = 0, 0
			if r.DiffKind.OnOldSide() {
				p.oldLine++
				r.OldLineNumber = p.oldLine
			}
			if r.DiffKind.OnNewSide() {
				p.newLine++
				r.NewLineNumber = p.newLine
			}
		}
		p.rows = append(p.rows, r)
	}
}
