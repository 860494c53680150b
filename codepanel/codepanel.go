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

// Package codepanel holds the per node rows of an API tree, keyed by hashed node id, and builds
// them from a (diffed) tree.
package codepanel

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"

	"znkr.io/apiview/token"
)

// ErrMalformed is returned for payloads that can't be decoded or violate the payload shape.
var ErrMalformed = errors.New("malformed code panel payload")

// RootID is the hashed id of the synthetic root node.
const RootID = "root"

// RowKind is the kind of a row.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=RowKind,DiffKind,Position
type RowKind int

const (
	CodeLine      RowKind = iota // A line of code tokens
	Documentation                // A line of documentation tokens
	Diagnostic                   // A diagnostic attached to a node
	CommentThread                // The comments attached to the preceding code line
)

var rowKindNames = []string{"codeLine", "documentation", "diagnostics", "commentThread"}

func (k RowKind) MarshalText() ([]byte, error) { return marshalEnum(k, rowKindNames) }
func (k *RowKind) UnmarshalText(b []byte) error { return unmarshalEnum(b, rowKindNames, k) }

// DiffKind classifies a row relative to a second revision.
type DiffKind int

const (
	NoneDiff  DiffKind = iota // Not part of a diff
	Unchanged                 // On both sides
	Added                     // Only on the new side
	Removed                   // Only on the old side
)

var diffKindNames = []string{"noneDiff", "unchanged", "added", "removed"}

func (k DiffKind) MarshalText() ([]byte, error) { return marshalEnum(k, diffKindNames) }
func (k *DiffKind) UnmarshalText(b []byte) error { return unmarshalEnum(b, diffKindNames, k) }

// IsDiff reports whether k is Added or Removed.
func (k DiffKind) IsDiff() bool {
	switch k {
	case Added, Removed:
		return true
	case NoneDiff, Unchanged:
		return false
	default:
		panic("never reached")
	}
}

// OnOldSide reports whether a row of this kind is shown on the old side of a diff.
func (k DiffKind) OnOldSide() bool {
	switch k {
	case NoneDiff, Unchanged, Removed:
		return true
	case Added:
		return false
	default:
		panic("never reached")
	}
}

// OnNewSide reports whether a row of this kind is shown on the new side of a diff.
func (k DiffKind) OnNewSide() bool {
	switch k {
	case NoneDiff, Unchanged, Added:
		return true
	case Removed:
		return false
	default:
		panic("never reached")
	}
}

// Position tells whether rows were produced from the top or the bottom tokens of a node.
type Position int

const (
	Top Position = iota
	Bottom
)

var positionNames = []string{"top", "bottom"}

func (p Position) MarshalText() ([]byte, error) { return marshalEnum(p, positionNames) }
func (p *Position) UnmarshalText(b []byte) error { return unmarshalEnum(b, positionNames, p) }

// DocToggle is the state of the documentation affordance on a node's first code line.
type DocToggle int

const (
	DocToggleNone DocToggle = iota
	DocToggleExpanded
	DocToggleCollapsed
)

var docToggleNames = []string{"", "expanded", "collapsed"}

func (t DocToggle) MarshalText() ([]byte, error) { return marshalEnum(t, docToggleNames) }
func (t *DocToggle) UnmarshalText(b []byte) error { return unmarshalEnum(b, docToggleNames, t) }

// CommentToggle is the state of the comment affordance on a code line.
type CommentToggle int

const (
	CommentToggleNone    CommentToggle = iota
	CommentToggleCanShow               // The line has commentable tokens
	CommentToggleShow                  // The line has comments or diagnostics
)

var commentToggleNames = []string{"", "canShow", "show"}

func (t CommentToggle) MarshalText() ([]byte, error) { return marshalEnum(t, commentToggleNames) }
func (t *CommentToggle) UnmarshalText(b []byte) error { return unmarshalEnum(b, commentToggleNames, t) }

func marshalEnum[T ~int](v T, names []string) ([]byte, error) {
	if v < 0 || int(v) >= len(names) {
		return nil, fmt.Errorf("invalid enum value %d", int(v))
	}
	return []byte(names[v]), nil
}

func unmarshalEnum[T ~int](b []byte, names []string, v *T) error {
	i := slices.Index(names, string(b))
	if i < 0 {
		return fmt.Errorf("invalid enum value %q", b)
	}
	*v = T(i)
	return nil
}

// DiagnosticLevel is the severity of a diagnostic.
type DiagnosticLevel string

const (
	LevelDefault DiagnosticLevel = "default"
	LevelInfo    DiagnosticLevel = "info"
	LevelWarning DiagnosticLevel = "warning"
	LevelError   DiagnosticLevel = "error"
)

// A DiagnosticMessage is a system generated remark about a node.
type DiagnosticMessage struct {
	ID       string          `json:"diagnosticId,omitempty"`
	TargetID string          `json:"targetId"`
	Text     string          `json:"text"`
	Level    DiagnosticLevel `json:"level,omitempty"`
	HelpLink string          `json:"helpLinkUri,omitempty"`
}

// A Comment is a user comment attached to a token id.
type Comment struct {
	ID         string `json:"id"`
	ElementID  string `json:"elementId"`
	Text       string `json:"commentText"`
	CreatedBy  string `json:"createdBy,omitempty"`
	IsResolved bool   `json:"isResolved,omitempty"`
}

// Row is one renderable unit: a line of code or documentation, a diagnostic or a comment thread.
type Row struct {
	Kind     RowKind       `json:"type"`
	Tokens   []token.Token `json:"rowOfTokens,omitempty"`
	DiffKind DiffKind      `json:"diffKind"`

	// Line numbers on the old and new side, zero if the row isn't shown on that side. They are
	// assigned during linearization.
	OldLineNumber int `json:"oldLineNumber,omitempty"`
	NewLineNumber int `json:"newLineNumber,omitempty"`

	NodeID             string   `json:"nodeId"`
	NodeIDHashed       string   `json:"nodeIdHashed"`
	NavigateToID       string   `json:"navigateToId,omitempty"`
	LineID             string   `json:"lineId,omitempty"`
	Position           Position `json:"rowOfTokensPosition"`
	Indent             int      `json:"indent"`
	RowPositionInGroup int      `json:"rowPositionInGroup"`
	RowClasses         []string `json:"rowClasses,omitempty"`

	Diagnostic *DiagnosticMessage `json:"diagnostics,omitempty"`
	Comments   []Comment          `json:"comments,omitempty"`

	IsHiddenAPI   bool          `json:"isHiddenAPI"`
	DocToggle     DocToggle     `json:"toggleDocumentation,omitempty"`
	CommentToggle CommentToggle `json:"toggleComments,omitempty"`
}

// NavigationData is the payload of a navigation descriptor.
type NavigationData struct {
	NodeIDHashed string `json:"nodeIdHashed"`
	Kind         string `json:"kind"`
	Icon         string `json:"icon"`
}

// NavigationDescriptor describes the navigation entry of a node.
type NavigationDescriptor struct {
	Label string         `json:"label"`
	Data  NavigationData `json:"data"`
}

// ChildOrder is the ordered list of child node ids.
//
// In JSON it's either an array or an object that maps positions to ids ({"0": "a", "1": "b"}).
// The object form ends at the first missing position.
type ChildOrder []string

// UnmarshalJSON implements json.Unmarshaler.
func (o *ChildOrder) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*o = nil
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var ids []string
		if err := json.Unmarshal(b, &ids); err != nil {
			return err
		}
		*o = ids
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	byPos := make(map[int]string, len(m))
	for k, v := range m {
		i, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("invalid child position %q", k)
		}
		byPos[i] = v
	}
	ids := make([]string, 0, len(m))
	for i := 0; ; i++ {
		id, ok := byPos[i]
		if !ok {
			break
		}
		ids = append(ids, id)
	}
	*o = ids
	return nil
}

// NodeMetaData holds the rows and links of one position of a node.
type NodeMetaData struct {
	CodeLines      []Row         `json:"codeLines,omitempty"`
	Documentation  []Row         `json:"documentation,omitempty"`
	Diagnostics    []Row         `json:"diagnostics,omitempty"`
	CommentThreads map[int][]Row `json:"commentThread,omitempty"` // keyed by code line index

	Navigation             *NavigationDescriptor `json:"navigationTreeNode,omitempty"`
	ParentNodeIDHashed     string                `json:"parentNodeIdHashed,omitempty"`
	ChildrenNodeIDsInOrder ChildOrder            `json:"childrenNodeIdsInOrder,omitempty"`
	BottomTokenNodeIDHash  string                `json:"bottomTokenNodeIdHash,omitempty"`

	IsNodeWithDiff                     bool `json:"isNodeWithDiff"`
	IsNodeWithDiffInDescendants        bool `json:"isNodeWithDiffInDescendants"`
	IsNodeWithNoneDocDiffInDescendants bool `json:"isNodeWithNoneDocDiffInDescendants"`
}

// HasDiff reports whether a code line or documentation row of m is Added or Removed.
func (m *NodeMetaData) HasDiff() bool {
	return hasDiff(m.CodeLines) || hasDiff(m.Documentation)
}

// HasCodeDiff reports whether a code line of m is Added or Removed.
func (m *NodeMetaData) HasCodeDiff() bool {
	return hasDiff(m.CodeLines)
}

func hasDiff(rows []Row) bool {
	return slices.ContainsFunc(rows, func(r Row) bool { return r.DiffKind.IsDiff() })
}

// Data is the code panel payload: node metadata for every position of every node plus the
// synthetic root whose children are the roots of the API forest.
type Data struct {
	NodeMetaData map[string]*NodeMetaData `json:"nodeMetaData"`
	RootID       string                   `json:"rootId,omitempty"`
	HasDiff      bool                     `json:"hasDiff"`
}

// Root returns the metadata of the root node, or nil.
func (d *Data) Root() *NodeMetaData {
	return d.NodeMetaData[d.rootID()]
}

func (d *Data) rootID() string {
	if d.RootID == "" {
		return RootID
	}
	return d.RootID
}

// IDs returns the hashed ids of all nodes in sorted order.
func (d *Data) IDs() []string {
	ids := make([]string, 0, len(d.NodeMetaData))
	for id := range d.NodeMetaData {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Decode reads a code panel payload and checks its shape.
func Decode(r io.Reader) (*Data, error) {
	var d Data
	dec := json.NewDecoder(r)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after payload", ErrMalformed)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks that d has a root and no empty entries. Dangling references are allowed.
func (d *Data) Validate() error {
	if d.NodeMetaData == nil {
		return fmt.Errorf("%w: no node metadata", ErrMalformed)
	}
	if d.Root() == nil {
		return fmt.Errorf("%w: root %q not found", ErrMalformed, d.rootID())
	}
	for id, m := range d.NodeMetaData {
		if m == nil {
			return fmt.Errorf("%w: node %q has no metadata", ErrMalformed, id)
		}
	}
	return nil
}
