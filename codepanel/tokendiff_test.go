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
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"znkr.io/apiview/token"
)

// text builds tokens from a compact form: lines are separated by "|", tokens by spaces and a
// line starting with "//" is documentation.
func text(s string) []token.Token {
	if s == "" {
		return nil
	}
	var out []token.Token
	for i, line := range strings.Split(s, "|") {
		if i > 0 {
			out = append(out, token.Token{Kind: token.LineBreak})
		}
		doc := strings.HasPrefix(line, "//")
		for _, f := range strings.Fields(line) {
			t := token.Token{Value: f}
			if doc {
				t.Properties = map[string]string{token.PropGroupID: token.GroupDocumentation}
			}
			out = append(out, t)
		}
	}
	return out
}

func renderRecords(records []TokenDiffRecord) []string {
	var out []string
	for _, r := range records {
		var vals []string
		for _, t := range r.Tokens {
			v := t.Value
			if len(t.RenderClasses) > 0 {
				v = "*" + v
			}
			vals = append(vals, v)
		}
		out = append(out, abbrev[r.DiffKind]+" "+strings.Join(vals, " "))
	}
	return out
}

var abbrev = map[DiffKind]string{NoneDiff: "N", Unchanged: "U", Added: "A", Removed: "R"}

func TestDiffTokens(t *testing.T) {
	tests := []struct {
		name          string
		before, after string
		want          []string
	}{
		{
			name: "empty",
		},
		{
			name:  "added",
			after: "class A {|}",
			want:  []string{"A class A {", "A }"},
		},
		{
			name:   "removed",
			before: "class A {|}",
			want:   []string{"R class A {", "R }"},
		},
		{
			name:   "identical",
			before: "class A {|}",
			after:  "class A {|}",
			want:   []string{"U class A {", "U }"},
		},
		{
			name:   "changed-line",
			before: "void Upload ( string path )|;",
			after:  "Task Upload ( string path )|;",
			want:   []string{"R *void Upload ( string path )", "A *Task Upload ( string path )", "U ;"},
		},
		{
			name:   "inserted-line",
			before: "a|c",
			after:  "a|b|c",
			want:   []string{"U a", "A b", "U c"},
		},
		{
			name:   "paired-by-index",
			before: "x 1|y 1",
			after:  "x 2|y 2|z",
			want:   []string{"R x *1", "A x *2", "R y *1", "A y *2", "A z"},
		},
		{
			name:   "documentation-first",
			before: "void f ( )",
			after:  "// does things|void g ( )",
			want:   []string{"A // does things", "R void *f ( )", "A void *g ( )"},
		},
		{
			name:   "documentation-changed",
			before: "// old|void f ( )",
			after:  "// new|void f ( )",
			want:   []string{"R // *old", "A // *new", "U void f ( )"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderRecords(DiffTokens(TokenDiffRequest{NodeID: "n", Before: text(tt.before), After: text(tt.after)}))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DiffTokens(...) differs [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestDiffTokens_records(t *testing.T) {
	got := DiffTokens(TokenDiffRequest{NodeID: "n", Position: Bottom, Before: text("}"), After: text("}")})
	if len(got) != 1 {
		t.Fatalf("DiffTokens(...) returned %d records, want 1", len(got))
	}
	if got[0].NodeID != "n" || got[0].Position != Bottom || got[0].LineID != LineID(text("}")) {
		t.Errorf("DiffTokens(...) = %+v, want node n, bottom position and the line id of }", got[0])
	}
}

func TestLineID(t *testing.T) {
	a := LineID(text("public class A"))
	if b := LineID(text("public class A")); a != b {
		t.Errorf("LineID is not deterministic: %q != %q", a, b)
	}
	if b := LineID(text("public class B")); a == b {
		t.Errorf("LineID(A) == LineID(B) = %q", a)
	}
	withProps := func(order ...string) []token.Token {
		t := token.Token{Value: "x", Properties: map[string]string{}}
		for _, k := range order {
			t.Properties[k] = k
		}
		return []token.Token{t}
	}
	if a, b := LineID(withProps("a", "b", "c")), LineID(withProps("c", "b", "a")); a != b {
		t.Errorf("LineID depends on map order: %q != %q", a, b)
	}
	if !strings.HasPrefix(a, "id") {
		t.Errorf("LineID(...) = %q, want id prefix", a)
	}
}

func TestTokenDiffRequest_Validate(t *testing.T) {
	bad := []token.Token{{Value: "x", Kind: 9}}
	tests := []struct {
		name    string
		req     TokenDiffRequest
		wantErr bool
	}{
		{"valid", TokenDiffRequest{Before: text("a|b"), After: text("a")}, false},
		{"empty", TokenDiffRequest{}, false},
		{"before", TokenDiffRequest{Before: bad, After: text("a")}, true},
		{"after", TokenDiffRequest{Before: text("a"), After: bad}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr != errors.Is(err, ErrMalformed) || (!tt.wantErr && err != nil) {
				t.Errorf("Validate() = %v, want error: %v", err, tt.wantErr)
			}
		})
	}
}
