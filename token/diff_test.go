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
	"crypto/sha256"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"znkr.io/apiview"
)

// toks builds single letter content tokens. An uppercase letter followed by digits is given that
// id, e.g. "A1 B2 C".
func toks(s string) []Token {
	var out []Token
	for _, f := range strings.Fields(s) {
		t := Token{Value: f[:1], Kind: Content}
		if len(f) > 1 {
			t.ID = f[1:]
		}
		out = append(out, t)
	}
	return out
}

func render(edits []Edit) string {
	var parts []string
	for _, e := range edits {
		switch e.Op {
		case Unchanged:
			parts = append(parts, e.Before.Value+":U")
		case Removed:
			parts = append(parts, e.Before.Value+":R")
		case Added:
			parts = append(parts, e.After.Value+":A")
		}
	}
	return strings.Join(parts, " ")
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name          string
		before, after []Token
		opts          []apiview.Option
		want          string
	}{
		{
			name: "empty",
			want: "",
		},
		{
			name:  "before-empty",
			after: toks("A B C"),
			want:  "A:A B:A C:A",
		},
		{
			name:   "after-empty",
			before: toks("A B C"),
			want:   "A:R B:R C:R",
		},
		{
			name:   "identical",
			before: toks("A B C"),
			after:  toks("A B C"),
			want:   "A:U B:U C:U",
		},
		{
			name:   "scenario",
			before: toks("A1 B2 D4 F6 G7"),
			after:  toks("A1 C3 D4 G7"),
			want:   "A:U B:R C:A D:U F:R G:U",
		},
		{
			name:   "id-mismatch",
			before: toks("A1 B"),
			after:  toks("A2 B"),
			want:   "A:R A:A B:U",
		},
		{
			name:   "duplicates",
			before: toks("A A B"),
			after:  toks("A B A"),
			want:   "A:U B:A A:U B:R",
		},
		{
			name:   "limit",
			before: toks("x A B C y"),
			after:  toks("x C B A y"),
			opts:   []apiview.Option{apiview.TokenLimit(4)},
			want:   "x:U A:R B:R C:R C:A B:A A:A y:U",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(Diff(tt.before, tt.after, tt.opts...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Diff(...) differs [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestDiff_ignoresCosmeticProperties(t *testing.T) {
	before := []Token{{Value: "int", RenderClasses: []string{"keyword"}}}
	after := []Token{{Value: "int", RenderClasses: []string{"type"}, Properties: map[string]string{"x": "y"}}}
	if edits := Diff(before, after); HasChanges(edits) {
		t.Errorf("Diff(...) = %v, want no changes", edits)
	}
}

func TestDiff_skipDiff(t *testing.T) {
	before := []Token{{Value: "1.0.0", Tags: []string{TagSkipDiff}}}
	after := []Token{{Value: "1.1.0", Tags: []string{TagSkipDiff}}}
	if edits := Diff(before, after); HasChanges(edits) {
		t.Errorf("Diff(...) = %v, want no changes", edits)
	}
}

func TestDiff_reconstructsInputs(t *testing.T) {
	for i := range 100 {
		seed := sha256.Sum256(fmt.Append(nil, i))
		rng := rand.New(rand.NewChaCha8(seed))
		gen := func() []Token {
			out := make([]Token, rng.IntN(20))
			for j := range out {
				out[j] = Token{Value: string(rune('A' + rng.IntN(5)))}
				if rng.IntN(3) == 0 {
					out[j].ID = fmt.Sprint(rng.IntN(3))
				}
			}
			return out
		}
		before, after := gen(), gen()

		edits := Diff(before, after)
		gotBefore, gotAfter := Split(edits)
		if diff := cmp.Diff(before, gotBefore, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("unchanged and removed tokens don't reproduce before [-want,+got]:\n%s", diff)
		}
		if diff := cmp.Diff(after, gotAfter, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("unchanged and added tokens don't reproduce after [-want,+got]:\n%s", diff)
		}

		self := Diff(before, before)
		if HasChanges(self) || len(self) != len(before) {
			t.Errorf("Diff(x, x) = %v, want all unchanged", render(self))
		}
	}
}

func TestHighlight(t *testing.T) {
	before := toks("A B C")
	after := toks("A D C")
	hb, ha, changed := Highlight(before, after)
	if !changed {
		t.Fatalf("Highlight(...) reported no change")
	}
	classes := func(ts []Token) []string {
		var out []string
		for _, t := range ts {
			out = append(out, t.Value+"="+strings.Join(t.RenderClasses, ","))
		}
		return out
	}
	if diff := cmp.Diff([]string{"A=", "B=diff-change", "C="}, classes(hb)); diff != "" {
		t.Errorf("before side differs [-want,+got]:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A=", "D=diff-change", "C="}, classes(ha)); diff != "" {
		t.Errorf("after side differs [-want,+got]:\n%s", diff)
	}
	if len(before[1].RenderClasses) != 0 {
		t.Errorf("Highlight modified its input")
	}

	_, ha, _ = Highlight(nil, after)
	if diff := cmp.Diff([]string{"A=", "D=", "C="}, classes(ha)); diff != "" {
		t.Errorf("added line differs [-want,+got]:\n%s", diff)
	}
}

func BenchmarkDiff(b *testing.B) {
	params := []struct {
		N int // Length of both inputs
		D int // Number of replaced tokens
	}{
		{50, 5},
		{500, 10},
		{500, 100},
		{4000, 100}, // Above the default token limit
	}

	for _, p := range params {
		name := fmt.Sprintf("N=%d_D=%d", p.N, p.D)
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()

			rng := rand.New(rand.NewChaCha8(sha256.Sum256([]byte(name))))
			x := make([]Token, p.N)
			for i := range x {
				x[i] = Token{Value: fmt.Sprint(rng.IntN(100))}
			}
			y := append([]Token(nil), x...)
			for range p.D {
				y[rng.IntN(len(y))] = Token{Value: "changed"}
			}

			for b.Loop() {
				_ = Diff(x, y)
			}
		})
	}
}
