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

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"znkr.io/apiview"
	"znkr.io/apiview/codepanel"
	"znkr.io/apiview/internal/hash"
	"znkr.io/apiview/token"
)

// maxCachedDiffs bounds the number of cached token diffs of a TokenDiffUnit.
const maxCachedDiffs = 1 << 14

// TokenDiffUnit answers KindTokenDiff requests with KindTokenDiffReply messages carrying the
// diffed lines of the request.
//
// Diffs are cached by a rolling hash of the serialized tokens. A cache hit is only used if the
// tokens are exactly the same.
type TokenDiffUnit struct {
	// Options for the token diff. Only [apiview.TokenLimit] is supported.
	Options []apiview.Option

	// Logger receives debug output. If nil, [slog.Default] is used.
	Logger *slog.Logger

	cache  map[int32][]cachedDiff
	cached int
	hits   int
}

type cachedDiff struct {
	key     []byte
	records []codepanel.TokenDiffRecord
}

// Run processes messages from in until in is closed or ctx is done.
func (u *TokenDiffUnit) Run(ctx context.Context, in <-chan Message, out chan<- Message) error {
	logger := orDefault(u.Logger)
	err := run(ctx, in, out, "tokendiff", func(m Message) error {
		return u.handle(ctx, m, out)
	})
	logger.Debug("pipeline.tokendiff", "cached", u.cached, "hits", u.hits)
	return err
}

func (u *TokenDiffUnit) handle(ctx context.Context, m Message, out chan<- Message) error {
	if m.Kind != KindTokenDiff {
		return fault(ctx, out, m, "tokendiff", fmt.Errorf("unexpected %v message", m.Kind))
	}
	var req codepanel.TokenDiffRequest
	if err := m.Decode(&req); err != nil {
		return fault(ctx, out, m, "tokendiff", fmt.Errorf("%w: %v", codepanel.ErrMalformed, err))
	}
	if err := req.Validate(); err != nil {
		return fault(ctx, out, m, "tokendiff", err)
	}
	records, err := u.diff(req)
	if err != nil {
		return fault(ctx, out, m, "tokendiff", err)
	}
	reply, err := NewMessage(KindTokenDiffReply, m.PassID, records)
	if err != nil {
		return fault(ctx, out, m, "tokendiff", err)
	}
	reply.Seq = m.Seq
	return send(ctx, out, reply)
}

func (u *TokenDiffUnit) diff(req codepanel.TokenDiffRequest) ([]codepanel.TokenDiffRecord, error) {
	key, err := encode(struct {
		Before []token.Token `json:"before"`
		After  []token.Token `json:"after"`
	}{req.Before, req.After})
	if err != nil {
		return nil, err
	}
	h := hash.SumBytes(key)
	var records []codepanel.TokenDiffRecord
	for _, c := range u.cache[h] {
		if bytes.Equal(c.key, key) {
			records = c.records
			u.hits++
			break
		}
	}
	if records == nil {
		records = codepanel.DiffTokens(req, u.Options...)
		if u.cache == nil || u.cached >= maxCachedDiffs {
			u.cache = make(map[int32][]cachedDiff)
			u.cached = 0
		}
		u.cache[h] = append(u.cache[h], cachedDiff{key: key, records: records})
		u.cached++
	}

	// Cached records may come from another node.
	out := make([]codepanel.TokenDiffRecord, len(records))
	for i, r := range records {
		r.NodeID, r.Position = req.NodeID, req.Position
		out[i] = r
	}
	return out, nil
}
