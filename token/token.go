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

// Package token defines the styled text units API trees are made of and aligns two token
// sequences.
package token

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Kind is the kind of a token.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=Kind
type Kind int

const (
	Content            Kind = iota // Displayed text
	LineBreak                      // End of a line
	NonBreakingSpace               // A single space
	TabSpace                       // Indentation
	ParameterSeparator             // Separator between parameters that may be wrapped
)

var kindNames = map[string]Kind{
	"content":            Content,
	"lineBreak":          LineBreak,
	"nonBreakingSpace":   NonBreakingSpace,
	"tabSpace":           TabSpace,
	"parameterSeparator": ParameterSeparator,
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k >= Content && k <= ParameterSeparator
}

// CheckKinds returns an error for the first token in tokens with an unknown kind.
func CheckKinds(tokens []Token) error {
	for i, t := range tokens {
		if !t.Kind.Valid() {
			return fmt.Errorf("token %d (%q) has unknown kind %d", i, t.Value, int(t.Kind))
		}
	}
	return nil
}

// UnmarshalJSON accepts both the numeric and the camel case form of a kind.
func (k *Kind) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		if !Kind(n).Valid() {
			return fmt.Errorf("invalid token kind %d", n)
		}
		*k = Kind(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid token kind %s", b)
	}
	v, ok := kindNames[s]
	if !ok {
		return fmt.Errorf("invalid token kind %q", s)
	}
	*k = v
	return nil
}

// Well known property keys.
const (
	PropGroupID      = "GroupId"
	PropNavigateToID = "NavigateToId"
)

// Well known tags.
const (
	TagDeprecated = "Deprecated"
	TagSkipDiff   = "SkipDiff"
)

// GroupDocumentation is the group id of documentation lines.
const GroupDocumentation = "documentation"

// RenderClassDiffChange marks tokens that differ from the paired line.
const RenderClassDiffChange = "diff-change"

// Token is a styled unit of displayed text. Tokens are values and must not be modified once they
// are part of a tree, use [Token.Clone] to derive a modified copy.
type Token struct {
	Value         string            `json:"value" msgpack:"v"`
	Kind          Kind              `json:"kind,omitempty" msgpack:"k,omitempty"`
	ID            string            `json:"id,omitempty" msgpack:"i,omitempty"`
	Properties    map[string]string `json:"properties,omitempty" msgpack:"p,omitempty"`
	RenderClasses []string          `json:"renderClasses,omitempty" msgpack:"r,omitempty"`
	Tags          []string          `json:"tags,omitempty" msgpack:"t,omitempty"`
}

// Clone returns a deep copy of t.
func (t Token) Clone() Token {
	t.RenderClasses = slices.Clone(t.RenderClasses)
	t.Tags = slices.Clone(t.Tags)
	if t.Properties != nil {
		props := make(map[string]string, len(t.Properties))
		for k, v := range t.Properties {
			props[k] = v
		}
		t.Properties = props
	}
	return t
}

// HasTag reports whether t carries tag.
func (t Token) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// Equal reports whether a and b are the same token for the purpose of a diff. Two tokens that are
// both tagged [TagSkipDiff] are always equal.
func Equal(a, b Token) bool {
	if a.HasTag(TagSkipDiff) && b.HasTag(TagSkipDiff) {
		return true
	}
	return a.ID == b.ID && a.Value == b.Value
}

// EqualSeq reports whether two token sequences are equal under [Equal].
func EqualSeq(a, b []Token) bool {
	return slices.EqualFunc(a, b, Equal)
}

// Line is a sequence of tokens between two line breaks. The line break itself is not part of the
// line.
type Line struct {
	Tokens []Token

	// GroupID is the group id of the last token on the line.
	GroupID string
}

// IsDocumentation reports whether l belongs to the documentation group.
func (l Line) IsDocumentation() bool {
	return l.GroupID == GroupDocumentation
}

// Text returns the concatenated values of the line.
func (l Line) Text() string {
	var sb strings.Builder
	for _, t := range l.Tokens {
		sb.WriteString(t.Value)
	}
	return sb.String()
}

// IDs returns the ids of all tokens on the line in order, without duplicates.
func (l Line) IDs() []string {
	var ids []string
	for _, t := range l.Tokens {
		if strings.TrimSpace(t.ID) != "" && !slices.Contains(ids, t.ID) {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// Lines splits tokens at line breaks.
//
// Every token other than a line break belongs to exactly one line. A trailing sequence without a
// line break still forms a line, consecutive line breaks produce empty lines.
func Lines(tokens []Token) []Line {
	var lines []Line
	var cur Line
	open := false
	for _, t := range tokens {
		switch t.Kind {
		case LineBreak:
			lines = append(lines, cur)
			cur = Line{}
			open = false
		case Content, NonBreakingSpace, TabSpace, ParameterSeparator:
			cur.Tokens = append(cur.Tokens, t)
			cur.GroupID = t.Properties[PropGroupID]
			open = true
		default:
			panic(fmt.Sprintf("unknown token kind: %v", t.Kind))
		}
	}
	if open {
		lines = append(lines, cur)
	}
	return lines
}
