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
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"znkr.io/apiview/apitree"
	"znkr.io/apiview/internal/hash"
	"znkr.io/apiview/token"
)

// clientTokens returns the top tokens of a class with a documentation line and an opening brace
// that carries the class id.
func clientTokens(decl string) []token.Token {
	return append(text("// A client.|"+decl), token.Token{Kind: token.LineBreak}, token.Token{Value: "{", ID: "Azure.Storage.BlobClient"})
}

func sampleForest() []*apitree.Node {
	return []*apitree.Node{{
		Name:         "Azure.Storage",
		ID:           "Azure.Storage",
		Kind:         "Namespace",
		TopTokens:    text("namespace Azure.Storage {"),
		BottomTokens: text("}"),
		Children: []*apitree.Node{
			{
				Name:       "BlobClient",
				ID:         "Azure.Storage.BlobClient",
				Kind:       "Class",
				Properties: map[string]string{apitree.PropSubKind: "Sealed"},
				TopTokens:  clientTokens("public class BlobClient"),
			},
			{
				Name:      "Internal",
				ID:        "Azure.Storage.Internal",
				Kind:      "Class",
				Tags:      []string{apitree.TagHidden, apitree.TagHideFromNavigation},
				TopTokens: text("class Internal"),
			},
		},
	}}
}

func TestBuild(t *testing.T) {
	in := Input{
		Forest: sampleForest(),
		Diagnostics: []DiagnosticMessage{
			{ID: "AZC0001", TargetID: "Azure.Storage.BlobClient", Text: "Use a better name", Level: LevelWarning},
		},
		Comments: []Comment{
			{ID: "c1", ElementID: "Azure.Storage.BlobClient", Text: "Why sealed?"},
		},
	}
	data, err := Build(in)
	if err != nil {
		t.Fatal(err)
	}

	nsID := hash.NodeID("Namespace", "", "Azure.Storage", "Top")
	nsBottomID := hash.NodeID("Namespace", "", "Azure.Storage", "Bottom")
	clientID := hash.NodeID("Class", "Sealed", "Azure.Storage.BlobClient", "Top")
	internalID := hash.NodeID("Class", "", "Azure.Storage.Internal", "Top")

	if diff := cmp.Diff(ChildOrder{nsID}, data.Root().ChildrenNodeIDsInOrder); diff != "" {
		t.Errorf("root children differ [-want,+got]:\n%s", diff)
	}
	wantIDs := []string{RootID, internalID, clientID, nsID, nsBottomID}
	slices.Sort(wantIDs)
	if diff := cmp.Diff(wantIDs, data.IDs()); diff != "" {
		t.Errorf("node ids differ [-want,+got]:\n%s", diff)
	}

	ns := data.NodeMetaData[nsID]
	if diff := cmp.Diff(ChildOrder{clientID, internalID}, ns.ChildrenNodeIDsInOrder); diff != "" {
		t.Errorf("namespace children differ [-want,+got]:\n%s", diff)
	}
	if ns.BottomTokenNodeIDHash != nsBottomID {
		t.Errorf("namespace bottom = %q, want %q", ns.BottomTokenNodeIDHash, nsBottomID)
	}
	if got := data.NodeMetaData[nsBottomID].ParentNodeIDHashed; got != RootID {
		t.Errorf("bottom parent = %q, want %q", got, RootID)
	}
	wantNav := &NavigationDescriptor{Label: "Azure.Storage", Data: NavigationData{NodeIDHashed: nsID, Kind: "namespace", Icon: "namespace"}}
	if diff := cmp.Diff(wantNav, ns.Navigation); diff != "" {
		t.Errorf("namespace navigation differs [-want,+got]:\n%s", diff)
	}

	client := data.NodeMetaData[clientID]
	if got := client.Navigation.Data; got.Kind != "Sealed" || got.Icon != "sealed" {
		t.Errorf("client navigation = %+v, want kind Sealed and icon sealed", got)
	}
	if len(client.Documentation) != 1 || client.Documentation[0].Kind != Documentation {
		t.Errorf("client documentation = %+v, want one documentation row", client.Documentation)
	}
	if len(client.CodeLines) != 2 {
		t.Fatalf("client has %d code lines, want 2", len(client.CodeLines))
	}
	if got := client.CodeLines[1].CommentToggle; got != CommentToggleShow {
		t.Errorf("comment toggle = %v, want show", got)
	}
	threads := client.CommentThreads[1]
	if len(threads) != 1 || threads[0].Kind != CommentThread || threads[0].Comments[0].ID != "c1" {
		t.Errorf("comment threads = %+v, want one thread with c1 on line 1", client.CommentThreads)
	}
	if len(client.Diagnostics) != 1 || client.Diagnostics[0].Diagnostic.ID != "AZC0001" {
		t.Errorf("diagnostics = %+v, want AZC0001", client.Diagnostics)
	}
	if diff := cmp.Diff([]string{"diagnostics", "warning"}, client.Diagnostics[0].RowClasses); diff != "" {
		t.Errorf("diagnostic row classes differ [-want,+got]:\n%s", diff)
	}

	internal := data.NodeMetaData[internalID]
	if internal.Navigation != nil {
		t.Errorf("hidden from navigation node has a navigation descriptor")
	}
	if !internal.CodeLines[0].IsHiddenAPI {
		t.Errorf("hidden node rows are not marked as hidden")
	}
	if internal.CodeLines[0].Indent != 1 {
		t.Errorf("indent = %d, want 1", internal.CodeLines[0].Indent)
	}

	for _, id := range data.IDs() {
		m := data.NodeMetaData[id]
		for _, r := range append(m.CodeLines, m.Documentation...) {
			if r.DiffKind != NoneDiff {
				t.Errorf("row %+v of an undiffed tree has diff kind %v", r, r.DiffKind)
			}
		}
	}
	if data.HasDiff {
		t.Errorf("undiffed tree has a diff")
	}
}

func TestBuild_diff(t *testing.T) {
	before := sampleForest()
	after := sampleForest()
	after[0].Children[0].TopTokens = clientTokens("public class BlobClient : IDisposable")
	after[0].Children = append(after[0].Children, &apitree.Node{
		Name:      "Options",
		ID:        "Azure.Storage.Options",
		Kind:      "Class",
		TopTokens: text("// Options.|public class Options"),
	})

	data, err := Build(Input{Forest: apitree.Diff(before, after)})
	if err != nil {
		t.Fatal(err)
	}
	if !data.HasDiff {
		t.Errorf("HasDiff = false, want true")
	}

	nsID := hash.NodeID("Namespace", "", "Azure.Storage", "Top")
	ns := data.NodeMetaData[nsID]
	if ns.IsNodeWithDiff || !ns.IsNodeWithDiffInDescendants || !ns.IsNodeWithNoneDocDiffInDescendants {
		t.Errorf("namespace flags = %v/%v/%v, want false/true/true", ns.IsNodeWithDiff, ns.IsNodeWithDiffInDescendants, ns.IsNodeWithNoneDocDiffInDescendants)
	}
	if !data.Root().IsNodeWithDiffInDescendants {
		t.Errorf("root has no diff in descendants")
	}

	client := data.NodeMetaData[hash.NodeID("Class", "Sealed", "Azure.Storage.BlobClient", "Top")]
	var kinds []string
	for _, r := range client.CodeLines {
		kinds = append(kinds, abbrev[r.DiffKind])
	}
	if diff := cmp.Diff([]string{"R", "A", "U"}, kinds); diff != "" {
		t.Errorf("client code line kinds differ [-want,+got]:\n%s", diff)
	}
	if client.Documentation[0].DiffKind != Unchanged {
		t.Errorf("client documentation = %v, want unchanged", client.Documentation[0].DiffKind)
	}

	options := data.NodeMetaData[hash.NodeID("Class", "", "Azure.Storage.Options", "Top")]
	if options.Documentation[0].DiffKind != Added || options.CodeLines[0].DiffKind != Added {
		t.Errorf("added node rows are not added")
	}
}

type failingDiffer struct{}

func (failingDiffer) DiffTokens(context.Context, TokenDiffRequest) ([]TokenDiffRecord, error) {
	return nil, context.DeadlineExceeded
}

func TestBuilder_differError(t *testing.T) {
	b := Builder{Differ: failingDiffer{}}
	forest := apitree.Diff(sampleForest(), sampleForest())
	if _, err := b.Build(context.Background(), Input{Forest: forest}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Build(...) = %v, want DeadlineExceeded", err)
	}
}

func TestBuild_unknownTokenKind(t *testing.T) {
	forest := []*apitree.Node{
		{ID: "a", Kind: "Class", TopTokens: text("a"), Children: []*apitree.Node{
			{ID: "b", Kind: "Method", TopTokens: []token.Token{{Value: "b", Kind: 9}}},
		}},
	}
	for _, in := range [][]*apitree.Node{forest, apitree.Diff(forest, forest)} {
		if _, err := Build(Input{Forest: in}); !errors.Is(err, ErrMalformed) {
			t.Errorf("Build(...) = %v, want ErrMalformed", err)
		}
	}
}

func TestBuild_collisions(t *testing.T) {
	forest := []*apitree.Node{
		{ID: "a", Kind: "Class", TopTokens: text("a")},
		{ID: "a", Kind: "Class", TopTokens: text("a2")},
	}
	data, err := Build(Input{Forest: forest})
	if err != nil {
		t.Fatal(err)
	}
	if got := len(data.Root().ChildrenNodeIDsInOrder); got != 2 {
		t.Fatalf("root has %d children, want 2", got)
	}
	ids := data.Root().ChildrenNodeIDsInOrder
	if ids[0] == ids[1] {
		t.Errorf("repeated node ids share hashed id %q", ids[0])
	}
	if got := data.NodeMetaData[ids[1]].CodeLines[0].Tokens[0].Value; got != "a2" {
		t.Errorf("second node row = %q, want a2", got)
	}
}

func TestDecode(t *testing.T) {
	const payload = `{
		"nodeMetaData": {
			"root": {"childrenNodeIdsInOrder": {"0": "n1", "1": "n2", "3": "n4"}},
			"n1": {
				"codeLines": [{"type": "codeLine", "rowOfTokens": [{"value": "class A"}], "nodeId": "A", "nodeIdHashed": "n1", "diffKind": "added", "isHiddenAPI": true}],
				"commentThread": {"0": [{"type": "commentThread", "nodeId": "A", "nodeIdHashed": "n1", "diffKind": "noneDiff"}]}
			}
		}
	}`
	data, err := Decode(strings.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(strings.NewReader(payload + "\n\n")); err != nil {
		t.Errorf("Decode(...) with trailing whitespace = %v", err)
	}
	if diff := cmp.Diff(ChildOrder{"n1", "n2"}, data.Root().ChildrenNodeIDsInOrder); diff != "" {
		t.Errorf("root children differ [-want,+got]:\n%s", diff)
	}
	row := data.NodeMetaData["n1"].CodeLines[0]
	if row.DiffKind != Added || !row.IsHiddenAPI || row.Tokens[0].Value != "class A" {
		t.Errorf("row = %+v, want an added hidden row", row)
	}
	if got := data.NodeMetaData["n1"].CommentThreads[0][0].Kind; got != CommentThread {
		t.Errorf("comment thread kind = %v", got)
	}
}

func TestDecode_malformed(t *testing.T) {
	for _, in := range []string{
		`{`,
		`{}`,
		`{"nodeMetaData": {}}`,
		`{"nodeMetaData": {"root": null}}`,
		`{"nodeMetaData": {"root": {}, "x": {"codeLines": [{"diffKind": "modified"}]}}}`,
		`{"nodeMetaData": {"root": {"childrenNodeIdsInOrder": {"first": "x"}}}}`,
		`{"nodeMetaData": {"root": {}}} x`,
		`{"nodeMetaData": {"root": {}}}{"nodeMetaData": {}}`,
	} {
		if _, err := Decode(strings.NewReader(in)); !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode(%s) = %v, want ErrMalformed", in, err)
		}
	}
}
