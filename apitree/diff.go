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

package apitree

import (
	"strconv"

	"znkr.io/apiview/internal/myers"
	"znkr.io/apiview/internal/rvecs"
	"znkr.io/apiview/token"
)

// Diff classifies the nodes of two revisions and returns the merged tree.
//
// Sibling nodes are matched by id only. The merged siblings keep the document order of both
// revisions: matched nodes appear in the order of the old revision and nodes that exist in only
// one revision are placed between their neighbors, removed ones before added ones.
//
//   - A node only in before is Removed, together with all of its descendants.
//   - A node only in after is Added, together with all of its descendants.
//   - A matched node is Unchanged if its own top and bottom tokens compare equal and Modified
//     otherwise. Its children are classified independently.
//
// If an id occurs more than once among siblings, only the first occurrence is matched. The inputs
// are not modified, but the returned tree shares token slices with them.
func Diff(before, after []*Node) []*Node {
	bkeys, akeys := siblingKeys(before, "b"), siblingKeys(after, "a")
	inBefore := make(map[string]bool, len(bkeys))
	for _, k := range bkeys {
		inBefore[k] = true
	}
	inAfter := make(map[string]*Node, len(akeys))
	for i, k := range akeys {
		inAfter[k] = after[i]
	}

	eq := func(a, b string) bool { return a == b }
	rx, ry := myers.Diff(bkeys, akeys, eq, 0)

	out := make([]*Node, 0, max(len(before), len(after)))
	for seg := range rvecs.Segments(rx, ry) {
		if seg.Match {
			for s, t := seg.S0, seg.T0; s < seg.S1; s, t = s+1, t+1 {
				out = append(out, match(before[s], after[t]))
			}
			continue
		}
		for s := seg.S0; s < seg.S1; s++ {
			if a, ok := inAfter[bkeys[s]]; ok {
				// Moved among its siblings, still the same node.
				out = append(out, match(before[s], a))
				continue
			}
			out = append(out, mark(before[s], Removed))
		}
		for t := seg.T0; t < seg.T1; t++ {
			if inBefore[akeys[t]] {
				continue
			}
			out = append(out, mark(after[t], Added))
		}
	}
	return out
}

// siblingKeys returns the matching key for every sibling. Repeated ids get a key that can't
// match anything on the other side.
func siblingKeys(nodes []*Node, side string) []string {
	seen := make(map[string]bool, len(nodes))
	keys := make([]string, len(nodes))
	for i, n := range nodes {
		if seen[n.ID] {
			keys[i] = "\x00" + side + strconv.Itoa(i)
			continue
		}
		seen[n.ID] = true
		keys[i] = n.ID
	}
	return keys
}

func match(b, a *Node) *Node {
	kind := Unchanged
	if !token.EqualSeq(b.TopTokens, a.TopTokens) || !token.EqualSeq(b.BottomTokens, a.BottomTokens) {
		kind = Modified
	}
	n := shallow(b, kind)
	n.TopTokens = b.TopTokens
	n.BottomTokens = b.BottomTokens
	n.TopDiffTokens = a.TopTokens
	n.BottomDiffTokens = a.BottomTokens
	n.Children = Diff(b.Children, a.Children)
	return n
}

// mark copies the subtree at n and sets the diff kind of every node in it.
func mark(n *Node, kind DiffKind) *Node {
	c := shallow(n, kind)
	c.TopTokens = n.TopTokens
	c.BottomTokens = n.BottomTokens
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = mark(child, kind)
		}
	}
	return c
}

func shallow(n *Node, kind DiffKind) *Node {
	return &Node{
		Name:       n.Name,
		ID:         n.ID,
		Kind:       n.Kind,
		Tags:       n.Tags,
		Properties: n.Properties,
		DiffKind:   kind,
	}
}
