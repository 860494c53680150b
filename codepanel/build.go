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

package codepanel

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"znkr.io/apiview"
	"znkr.io/apiview/apitree"
	"znkr.io/apiview/internal/hash"
	"znkr.io/apiview/token"
)

// Input is everything the builder turns into a payload.
type Input struct {
	Forest      []*apitree.Node
	Diagnostics []DiagnosticMessage
	Comments    []Comment
}

// Builder turns an API forest into a code panel payload.
type Builder struct {
	// Differ computes the line diffs of nodes in a diffed forest. If nil, [Local] is used with
	// the builder's options.
	Differ TokenDiffer

	// Logger receives debug output. If nil, [slog.Default] is used.
	Logger *slog.Logger
}

// Build builds the payload for in with a local token differ.
//
// The following option is supported: [apiview.TokenLimit]
func Build(in Input, opts ...apiview.Option) (*Data, error) {
	b := Builder{Differ: Local(opts...)}
	return b.Build(context.Background(), in)
}

// Build builds the payload for in.
//
// Every node yields an entry for its top tokens and, if it has bottom tokens, a second entry for
// them that is referenced by BottomTokenNodeIDHash. Nodes of an undiffed forest (all NoneDiff)
// produce NoneDiff rows, all other nodes are sent through the differ.
func (b *Builder) Build(ctx context.Context, in Input) (*Data, error) {
	st := &buildState{
		ctx:    ctx,
		in:     in,
		differ: b.Differ,
		data: &Data{
			NodeMetaData: map[string]*NodeMetaData{RootID: {}},
			RootID:       RootID,
		},
	}
	if st.differ == nil {
		st.differ = Local()
	}
	for _, d := range in.Diagnostics {
		if st.diagnostics == nil {
			st.diagnostics = make(map[string][]DiagnosticMessage)
		}
		st.diagnostics[d.TargetID] = append(st.diagnostics[d.TargetID], d)
	}
	for _, c := range in.Comments {
		if st.comments == nil {
			st.comments = make(map[string][]Comment)
		}
		st.comments[c.ElementID] = append(st.comments[c.ElementID], c)
	}

	root := st.data.NodeMetaData[RootID]
	for _, n := range in.Forest {
		id, err := st.node(n, RootID, 0)
		if err != nil {
			return nil, err
		}
		root.ChildrenNodeIDsInOrder = append(root.ChildrenNodeIDsInOrder, id)
	}
	st.flags(RootID)

	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("codepanel.build", "nodes", len(st.data.NodeMetaData), "collisions", st.collisions, "diff", st.data.HasDiff)
	return st.data, nil
}

type buildState struct {
	ctx         context.Context
	in          Input
	differ      TokenDiffer
	data        *Data
	diagnostics map[string][]DiagnosticMessage
	comments    map[string][]Comment
	collisions  int
}

// hashedID returns the hashed id of one position of n. If the id is already taken (repeated node
// ids or a hash collision), an ordinal is mixed in until the id is free.
func (st *buildState) hashedID(n *apitree.Node, pos Position) string {
	p := "Top"
	if pos == Bottom {
		p = "Bottom"
	}
	id := hash.NodeID(n.Kind, n.SubKind(), n.ID, p)
	for i := 1; st.data.NodeMetaData[id] != nil; i++ {
		st.collisions++
		id = hash.NodeID(n.Kind, n.SubKind(), n.ID+"#"+strconv.Itoa(i), p)
	}
	return id
}

func (st *buildState) node(n *apitree.Node, parent string, indent int) (string, error) {
	if n == nil {
		return "", fmt.Errorf("%w: null node below %q", ErrMalformed, parent)
	}
	if err := n.CheckTokens(); err != nil {
		return "", fmt.Errorf("%w: node %q: %v", ErrMalformed, n.ID, err)
	}
	id := st.hashedID(n, Top)
	meta := &NodeMetaData{ParentNodeIDHashed: parent}
	st.data.NodeMetaData[id] = meta

	if err := st.rows(meta, n, id, Top, indent); err != nil {
		return "", err
	}
	if !n.HasTag(apitree.TagHideFromNavigation) {
		meta.Navigation = navigation(n, id)
	}

	for _, c := range n.Children {
		cid, err := st.node(c, id, indent+1)
		if err != nil {
			return "", err
		}
		meta.ChildrenNodeIDsInOrder = append(meta.ChildrenNodeIDsInOrder, cid)
	}

	if len(n.BottomTokens) > 0 || len(n.BottomDiffTokens) > 0 {
		bid := st.hashedID(n, Bottom)
		bottom := &NodeMetaData{ParentNodeIDHashed: parent}
		st.data.NodeMetaData[bid] = bottom
		meta.BottomTokenNodeIDHash = bid
		if err := st.rows(bottom, n, bid, Bottom, indent); err != nil {
			return "", err
		}
	}
	return id, nil
}

func navigation(n *apitree.Node, id string) *NavigationDescriptor {
	kind := strings.ToLower(n.Kind)
	icon := kind
	if sub, ok := n.Properties[apitree.PropSubKind]; ok {
		kind = sub
		icon = strings.ToLower(sub)
	}
	if name, ok := n.Properties[apitree.PropIconName]; ok {
		icon = strings.ToLower(name)
	}
	return &NavigationDescriptor{
		Label: n.Name,
		Data:  NavigationData{NodeIDHashed: id, Kind: kind, Icon: icon},
	}
}

// rows fills meta with the rows of one position of n.
func (st *buildState) rows(meta *NodeMetaData, n *apitree.Node, id string, pos Position, indent int) error {
	var records []TokenDiffRecord
	if n.DiffKind == apitree.NoneDiff {
		tokens := n.TopTokens
		if pos == Bottom {
			tokens = n.BottomTokens
		}
		for _, l := range token.Lines(tokens) {
			records = append(records, TokenDiffRecord{Tokens: l.Tokens, NodeID: n.ID, Position: pos, DiffKind: NoneDiff})
		}
	} else {
		req := TokenDiffRequest{NodeID: n.ID, Position: pos}
		before, after := n.TopTokens, n.TopDiffTokens
		if pos == Bottom {
			before, after = n.BottomTokens, n.BottomDiffTokens
		}
		switch n.DiffKind {
		case apitree.Added:
			req.After = before
		case apitree.Removed:
			req.Before = before
		case apitree.Unchanged, apitree.Modified:
			req.Before, req.After = before, after
		default:
			panic("never reached")
		}
		var err error
		records, err = st.differ.DiffTokens(st.ctx, req)
		if err != nil {
			return fmt.Errorf("diffing tokens of %q: %w", n.ID, err)
		}
	}

	hidden := n.HasTag(apitree.TagHidden)
	diagnostics := st.diagnostics[n.ID]
	if pos == Bottom {
		diagnostics = nil
	}
	for _, rec := range records {
		row := Row{
			Kind:         CodeLine,
			Tokens:       rec.Tokens,
			DiffKind:     rec.DiffKind,
			NodeID:       n.ID,
			NodeIDHashed: id,
			LineID:       rec.LineID,
			Position:     pos,
			Indent:       indent,
			IsHiddenAPI:  hidden,
		}
		line := token.Line{Tokens: rec.Tokens}
		if len(rec.Tokens) > 0 {
			line.GroupID = rec.Tokens[len(rec.Tokens)-1].Properties[token.PropGroupID]
		}
		if line.GroupID != "" {
			row.RowClasses = append(row.RowClasses, line.GroupID)
		}
		for _, t := range rec.Tokens {
			if nav := t.Properties[token.PropNavigateToID]; nav != "" {
				row.NavigateToID = nav
				break
			}
		}

		if line.IsDocumentation() {
			row.Kind = Documentation
			row.RowPositionInGroup = len(meta.Documentation)
			meta.Documentation = append(meta.Documentation, row)
			continue
		}

		row.RowPositionInGroup = len(meta.CodeLines)
		ids := line.IDs()
		if len(ids) > 0 {
			row.CommentToggle = CommentToggleCanShow
		}
		if len(diagnostics) > 0 {
			row.CommentToggle = CommentToggleShow
		}
		var comments []Comment
		for _, eid := range ids {
			comments = append(comments, st.comments[eid]...)
		}
		if len(comments) > 0 {
			row.CommentToggle = CommentToggleShow
			if meta.CommentThreads == nil {
				meta.CommentThreads = make(map[int][]Row)
			}
			meta.CommentThreads[row.RowPositionInGroup] = append(meta.CommentThreads[row.RowPositionInGroup], Row{
				Kind:         CommentThread,
				DiffKind:     NoneDiff,
				NodeID:       n.ID,
				NodeIDHashed: id,
				Position:     pos,
				Indent:       indent,
				RowClasses:   []string{"user-comment-thread"},
				Comments:     comments,
				IsHiddenAPI:  hidden,
			})
		}
		meta.CodeLines = append(meta.CodeLines, row)
	}

	for i := range diagnostics {
		d := diagnostics[i]
		level := d.Level
		if level == "" {
			level = LevelDefault
		}
		meta.Diagnostics = append(meta.Diagnostics, Row{
			Kind:               Diagnostic,
			DiffKind:           NoneDiff,
			NodeID:             n.ID,
			NodeIDHashed:       id,
			Position:           pos,
			Indent:             indent,
			RowPositionInGroup: i,
			RowClasses:         []string{"diagnostics", strings.ToLower(string(level))},
			Diagnostic:         &d,
			IsHiddenAPI:        hidden,
		})
	}
	return nil
}

// flags computes the diff flags of id and everything below it. It returns whether the subtree at
// id (including bottom entries) has any diff and any code diff.
func (st *buildState) flags(id string) (diff, codeDiff bool) {
	meta := st.data.NodeMetaData[id]
	for _, cid := range meta.ChildrenNodeIDsInOrder {
		d, cd := st.flags(cid)
		if child := st.data.NodeMetaData[cid]; child.BottomTokenNodeIDHash != "" {
			if bottom := st.data.NodeMetaData[child.BottomTokenNodeIDHash]; bottom != nil {
				bottom.IsNodeWithDiff = bottom.HasDiff()
				if bottom.IsNodeWithDiff {
					st.data.HasDiff = true
				}
				d = d || bottom.IsNodeWithDiff
				cd = cd || bottom.HasCodeDiff()
			}
		}
		meta.IsNodeWithDiffInDescendants = meta.IsNodeWithDiffInDescendants || d
		meta.IsNodeWithNoneDocDiffInDescendants = meta.IsNodeWithNoneDocDiffInDescendants || cd
	}
	meta.IsNodeWithDiff = meta.HasDiff()
	if meta.IsNodeWithDiff {
		st.data.HasDiff = true
	}
	diff = meta.IsNodeWithDiff || meta.IsNodeWithDiffInDescendants
	codeDiff = meta.HasCodeDiff() || meta.IsNodeWithNoneDocDiffInDescendants
	return diff, codeDiff
}
