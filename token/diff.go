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

package token

import (
	"slices"

	"znkr.io/apiview"
	"znkr.io/apiview/internal/config"
	"znkr.io/apiview/internal/myers"
	"znkr.io/apiview/internal/rvecs"
)

// Op describes an edit operation.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=Op
type Op int

const (
	Unchanged Op = iota // The token is on both sides
	Removed             // The token is only on the before side
	Added               // The token is only on the after side
)

// Edit describes a single edit of a token diff.
//
//   - For Unchanged, both Before and After contain the matching token.
//   - For Removed, Before contains the removed token and After is unset (zero value).
//   - For Added, After contains the added token and Before is unset (zero value).
type Edit struct {
	Op            Op
	Before, After Token
}

// Diff aligns the tokens of two versions of a line and returns one edit for every input token.
//
// The alignment is a longest common subsequence under [Equal]. Inside a run of changes, removals
// come before additions. Concatenating the Before tokens of all Unchanged and Removed edits yields
// before, concatenating the After tokens of all Unchanged and Added edits yields after.
//
// The following option is supported: [apiview.TokenLimit]
func Diff(before, after []Token, opts ...apiview.Option) []Edit {
	cfg := config.FromOptions(opts, config.TokenLimit)
	rx, ry := myers.Diff(before, after, Equal, cfg.TokenLimit)
	return edits(before, after, rx, ry)
}

func edits(x, y []Token, rx, ry []bool) []Edit {
	if len(x) == 0 && len(y) == 0 {
		return nil
	}
	out := make([]Edit, 0, max(len(x), len(y)))
	for seg := range rvecs.Segments(rx, ry) {
		if seg.Match {
			for s, t := seg.S0, seg.T0; s < seg.S1; s, t = s+1, t+1 {
				out = append(out, Edit{Op: Unchanged, Before: x[s], After: y[t]})
			}
			continue
		}
		for s := seg.S0; s < seg.S1; s++ {
			out = append(out, Edit{Op: Removed, Before: x[s]})
		}
		for t := seg.T0; t < seg.T1; t++ {
			out = append(out, Edit{Op: Added, After: y[t]})
		}
	}
	return out
}

// HasChanges reports whether edits contains at least one Removed or Added edit.
func HasChanges(edits []Edit) bool {
	return slices.ContainsFunc(edits, func(e Edit) bool { return e.Op != Unchanged })
}

// Split reconstructs the two sides of a diff.
func Split(edits []Edit) (before, after []Token) {
	for _, e := range edits {
		switch e.Op {
		case Unchanged:
			before = append(before, e.Before)
			after = append(after, e.After)
		case Removed:
			before = append(before, e.Before)
		case Added:
			after = append(after, e.After)
		default:
			panic("never reached")
		}
	}
	return
}

// Highlight diffs two versions of a line and returns copies of both sides in which the tokens
// that are not on the other side carry [RenderClassDiffChange]. If one side is empty, the other
// side is returned without highlights since the whole line is the change.
func Highlight(before, after []Token, opts ...apiview.Option) (hb, ha []Token, changed bool) {
	edits := Diff(before, after, opts...)
	hb = make([]Token, 0, len(before))
	ha = make([]Token, 0, len(after))
	for _, e := range edits {
		switch e.Op {
		case Unchanged:
			hb = append(hb, e.Before.Clone())
			ha = append(ha, e.After.Clone())
		case Removed:
			changed = true
			hb = append(hb, mark(e.Before, len(after) > 0))
		case Added:
			changed = true
			ha = append(ha, mark(e.After, len(before) > 0))
		default:
			panic("never reached")
		}
	}
	return hb, ha, changed
}

func mark(t Token, highlight bool) Token {
	t = t.Clone()
	if highlight && !slices.Contains(t.RenderClasses, RenderClassDiffChange) {
		t.RenderClasses = append(t.RenderClasses, RenderClassDiffChange)
	}
	return t
}
