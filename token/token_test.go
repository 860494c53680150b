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
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLines(t *testing.T) {
	br := Token{Kind: LineBreak}
	doc := Token{Value: "// doc", Properties: map[string]string{PropGroupID: GroupDocumentation}}
	a, b := Token{Value: "a"}, Token{Value: "b"}

	tests := []struct {
		name string
		in   []Token
		want []Line
	}{
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
		{
			name: "no-trailing-break",
			in:   []Token{a, br, b},
			want: []Line{{Tokens: []Token{a}}, {Tokens: []Token{b}}},
		},
		{
			name: "trailing-break",
			in:   []Token{a, b, br},
			want: []Line{{Tokens: []Token{a, b}}},
		},
		{
			name: "consecutive-breaks",
			in:   []Token{a, br, br, b, br},
			want: []Line{{Tokens: []Token{a}}, {}, {Tokens: []Token{b}}},
		},
		{
			name: "documentation",
			in:   []Token{doc, br, a},
			want: []Line{{Tokens: []Token{doc}, GroupID: GroupDocumentation}, {Tokens: []Token{a}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lines(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Lines(...) differs [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b Token
		want bool
	}{
		{Token{Value: "a"}, Token{Value: "a"}, true},
		{Token{Value: "a"}, Token{Value: "b"}, false},
		{Token{Value: "a", ID: "1"}, Token{Value: "a"}, false},
		{Token{Value: "a", RenderClasses: []string{"x"}}, Token{Value: "a"}, true},
		{Token{Value: "a", Tags: []string{TagSkipDiff}}, Token{Value: "b", Tags: []string{TagSkipDiff}}, true},
		{Token{Value: "a", Tags: []string{TagSkipDiff}}, Token{Value: "b"}, false},
	}
	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%+v, %+v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestKindJSON(t *testing.T) {
	var got []Token
	in := `[{"Value":"a","Kind":0},{"value":"","kind":1},{"value":" ","kind":"nonBreakingSpace"}]`
	if err := json.Unmarshal([]byte(in), &got); err != nil {
		t.Fatal(err)
	}
	want := []Token{{Value: "a"}, {Kind: LineBreak}, {Value: " ", Kind: NonBreakingSpace}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unmarshal(...) differs [-want,+got]:\n%s", diff)
	}

	for _, bad := range []string{`[{"kind":7}]`, `[{"kind":"bogus"}]`, `[{"kind":true}]`} {
		if err := json.Unmarshal([]byte(bad), &got); err == nil {
			t.Errorf("Unmarshal(%s) succeeded, want error", bad)
		}
	}
}

func TestCheckKinds(t *testing.T) {
	tests := []struct {
		name    string
		in      []Token
		wantErr bool
	}{
		{"empty", nil, false},
		{"known", []Token{{Value: "a"}, {Kind: LineBreak}, {Kind: ParameterSeparator}}, false},
		{"too-large", []Token{{Value: "a"}, {Value: "x", Kind: 9}}, true},
		{"negative", []Token{{Value: "x", Kind: -1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckKinds(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckKinds() = %v, want error: %v", err, tt.wantErr)
			}
		})
	}
}
