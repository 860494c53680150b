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

// Package apitree models the API surface of one library revision as a tree of nodes and classifies
// the nodes of two revisions against each other.
package apitree

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"

	"znkr.io/apiview/token"
)

// ErrMalformed is returned for documents that can't be decoded or violate the tree shape.
var ErrMalformed = errors.New("malformed API tree")

// Well known node tags.
const (
	TagHidden             = "Hidden"
	TagDeprecated         = "Deprecated"
	TagHideFromNavigation = "HideFromNavigation"
)

// Well known node properties.
const (
	PropSubKind  = "SubKind"
	PropIconName = "IconName"
)

// DiffKind classifies a node relative to a second revision.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=DiffKind
type DiffKind int

const (
	NoneDiff  DiffKind = iota // Not part of a diff
	Unchanged                 // In both revisions with identical framing tokens
	Added                     // Only in the new revision
	Removed                   // Only in the old revision

	// Modified nodes are in both revisions with different framing tokens. This is a node level
	// classification only: rows never carry it, a modified node renders as removed and added rows
	// (see codepanel.DiffKind).
	Modified
)

var diffKindNames = [...]string{"noneDiff", "unchanged", "added", "removed", "modified"}

// MarshalText implements encoding.TextMarshaler.
func (k DiffKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(diffKindNames) {
		return nil, fmt.Errorf("invalid diff kind %d", int(k))
	}
	return []byte(diffKindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *DiffKind) UnmarshalText(b []byte) error {
	i := slices.Index(diffKindNames[:], string(b))
	if i < 0 {
		return fmt.Errorf("invalid diff kind %q", b)
	}
	*k = DiffKind(i)
	return nil
}

// Node is an element of the API surface, e.g. a namespace, type or member.
//
// TopTokens are rendered before the children and BottomTokens after them (for example a class
// declaration and its closing brace). In a diffed tree, TopTokens and BottomTokens hold the old
// revision and TopDiffTokens and BottomDiffTokens the new revision of a matched node.
type Node struct {
	Name         string            `json:"name"`
	ID           string            `json:"id"`
	Kind         string            `json:"kind"`
	Tags         []string          `json:"tags,omitempty"`
	Properties   map[string]string `json:"properties,omitempty"`
	TopTokens    []token.Token     `json:"topTokens,omitempty"`
	BottomTokens []token.Token     `json:"bottomTokens,omitempty"`
	Children     []*Node           `json:"children,omitempty"`

	DiffKind         DiffKind      `json:"diffKind,omitempty"`
	TopDiffTokens    []token.Token `json:"topDiffTokens,omitempty"`
	BottomDiffTokens []token.Token `json:"bottomDiffTokens,omitempty"`
}

// HasTag reports whether n carries tag.
func (n *Node) HasTag(tag string) bool {
	return slices.Contains(n.Tags, tag)
}

// SubKind returns the SubKind property or the empty string.
func (n *Node) SubKind() string {
	return n.Properties[PropSubKind]
}

// Walk iterates over all nodes of forest in document order (parents before children).
func Walk(forest []*Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		var walk func(nodes []*Node) bool
		walk = func(nodes []*Node) bool {
			for _, n := range nodes {
				if !yield(n) || !walk(n.Children) {
					return false
				}
			}
			return true
		}
		walk(forest)
	}
}

// Summary counts the nodes of forest by diff kind.
func Summary(forest []*Node) map[DiffKind]int {
	out := make(map[DiffKind]int)
	for n := range Walk(forest) {
		out[n.DiffKind]++
	}
	return out
}

type document struct {
	APIForest *[]*Node `json:"apiForest"`
}

// Decode reads an API tree document. The document is either a JSON array of root nodes or an
// object with the roots in its APIForest field.
func Decode(r io.Reader) ([]*Node, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var forest []*Node
	if err := json.Unmarshal(raw, &forest); err != nil {
		var doc document
		if err2 := json.Unmarshal(raw, &doc); err2 != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err2)
		}
		if doc.APIForest == nil {
			return nil, fmt.Errorf("%w: no apiForest", ErrMalformed)
		}
		forest = *doc.APIForest
	}
	if err := Validate(forest); err != nil {
		return nil, err
	}
	return forest, nil
}

// Validate checks that forest holds no null nodes, that every node has an id and that all tokens
// are of a known kind. Errors wrap [ErrMalformed].
func Validate(forest []*Node) error {
	for n := range Walk(forest) {
		if n == nil {
			return fmt.Errorf("%w: null node", ErrMalformed)
		}
		if n.ID == "" {
			return fmt.Errorf("%w: node %q has no id", ErrMalformed, n.Name)
		}
		if err := n.CheckTokens(); err != nil {
			return fmt.Errorf("%w: node %q: %v", ErrMalformed, n.ID, err)
		}
	}
	return nil
}

// CheckTokens returns an error if one of the token sequences of n holds a token of unknown kind.
func (n *Node) CheckTokens() error {
	for _, tokens := range [][]token.Token{n.TopTokens, n.BottomTokens, n.TopDiffTokens, n.BottomDiffTokens} {
		if err := token.CheckKinds(tokens); err != nil {
			return err
		}
	}
	return nil
}
