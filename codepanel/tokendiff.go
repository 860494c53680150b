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
	"bytes"
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"znkr.io/apiview"
	"znkr.io/apiview/internal/hash"
	"znkr.io/apiview/internal/myers"
	"znkr.io/apiview/internal/rvecs"
	"znkr.io/apiview/token"
)

// TokenDiffRequest asks for the line diff of one position of one node. Before is empty for added
// nodes and After is empty for removed nodes.
type TokenDiffRequest struct {
	NodeID   string        `json:"nodeId" msgpack:"nodeId"`
	Position Position      `json:"position" msgpack:"position"`
	Before   []token.Token `json:"beforeTokens" msgpack:"beforeTokens"`
	After    []token.Token `json:"afterTokens" msgpack:"afterTokens"`
}

// Validate checks that both sides hold only tokens of a known kind. Errors wrap [ErrMalformed].
func (r TokenDiffRequest) Validate() error {
	if err := token.CheckKinds(r.Before); err != nil {
		return fmt.Errorf("%w: before: %v", ErrMalformed, err)
	}
	if err := token.CheckKinds(r.After); err != nil {
		return fmt.Errorf("%w: after: %v", ErrMalformed, err)
	}
	return nil
}

// TokenDiffRecord is one diff tagged line of a node.
type TokenDiffRecord struct {
	Tokens   []token.Token `json:"tokenLine" msgpack:"tokenLine"`
	NodeID   string        `json:"nodeId" msgpack:"nodeId"`
	LineID   string        `json:"lineId" msgpack:"lineId"`
	Position Position      `json:"position" msgpack:"position"`
	DiffKind DiffKind      `json:"diffKind" msgpack:"diffKind"`
}

// A TokenDiffer computes the line diff of a node position.
type TokenDiffer interface {
	DiffTokens(ctx context.Context, req TokenDiffRequest) ([]TokenDiffRecord, error)
}

// Local returns a TokenDiffer that calls [DiffTokens] directly.
//
// The following option is supported: [apiview.TokenLimit]
func Local(opts ...apiview.Option) TokenDiffer {
	return local(opts)
}

type local []apiview.Option

func (l local) DiffTokens(_ context.Context, req TokenDiffRequest) ([]TokenDiffRecord, error) {
	return DiffTokens(req, l...), nil
}

// DiffTokens splits both sides of req into lines and diffs them.
//
// Identical lines are aligned first. The lines in between are paired in order within the same
// line group (documentation lines pair with documentation lines) and compared token by token. A
// pair that differs produces a Removed record with the before tokens followed by an Added record
// with the after tokens, tokens that are not on the other side are highlighted. An equal pair
// produces one Unchanged record. Lines without a partner are Removed or Added.
//
// The following option is supported: [apiview.TokenLimit]
func DiffTokens(req TokenDiffRequest, opts ...apiview.Option) []TokenDiffRecord {
	bl, al := token.Lines(req.Before), token.Lines(req.After)
	eq := func(a, b token.Line) bool {
		return a.GroupID == b.GroupID && token.EqualSeq(a.Tokens, b.Tokens)
	}
	rx, ry := myers.Diff(bl, al, eq, 0)

	out := make([]TokenDiffRecord, 0, max(len(bl), len(al)))
	emit := func(tokens []token.Token, kind DiffKind) {
		out = append(out, TokenDiffRecord{
			Tokens:   tokens,
			NodeID:   req.NodeID,
			LineID:   LineID(tokens),
			Position: req.Position,
			DiffKind: kind,
		})
	}
	for seg := range rvecs.Segments(rx, ry) {
		if seg.Match {
			for t := seg.T0; t < seg.T1; t++ {
				emit(cloneTokens(al[t].Tokens), Unchanged)
			}
			continue
		}
		bs, as := bl[seg.S0:seg.S1], al[seg.T0:seg.T1]
		for len(bs) > 0 || len(as) > 0 {
			switch {
			case len(bs) > 0 && len(as) > 0 && bs[0].GroupID == as[0].GroupID:
				hb, ha, changed := token.Highlight(bs[0].Tokens, as[0].Tokens, opts...)
				if changed {
					emit(hb, Removed)
					emit(ha, Added)
				} else {
					emit(ha, Unchanged)
				}
				bs, as = bs[1:], as[1:]
			case len(bs) > 0 && (len(as) == 0 || !as[0].IsDocumentation() || bs[0].IsDocumentation()):
				// Documentation is laid out ahead of code, otherwise the old side goes first.
				emit(cloneTokens(bs[0].Tokens), Removed)
				bs = bs[1:]
			default:
				emit(cloneTokens(as[0].Tokens), Added)
				as = as[1:]
			}
		}
	}
	return out
}

func cloneTokens(tokens []token.Token) []token.Token {
	if tokens == nil {
		return nil
	}
	out := make([]token.Token, len(tokens))
	for i, t := range tokens {
		out[i] = t.Clone()
	}
	return out
}

// LineID returns a content derived identifier of a line: the rolling hash of the line's msgpack
// encoding with sorted map keys. Different lines may share an id.
func LineID(tokens []token.Token) string {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(tokens); err != nil {
		// Tokens only consist of strings, maps and slices of strings.
		panic(err)
	}
	return hash.ID(hash.SumBytes(buf.Bytes()))
}
