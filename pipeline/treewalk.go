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
	"context"
	"errors"
	"fmt"
	"log/slog"

	"znkr.io/apiview/apitree"
	"znkr.io/apiview/codepanel"
)

// Trees is the body of a KindTrees message.
type Trees struct {
	Before      []*apitree.Node               `json:"before"`
	After       []*apitree.Node               `json:"after"`
	Diagnostics []codepanel.DiagnosticMessage `json:"diagnostics,omitempty"`
	Comments    []codepanel.Comment           `json:"comments,omitempty"`
}

// TreeWalkUnit compares two API trees. The token diffs of the nodes are requested from a
// [TokenDiffUnit] over a dedicated pair of channels.
//
// It accepts KindConfig and KindTrees messages and emits the same messages as a [RenderUnit].
type TreeWalkUnit struct {
	// Logger receives debug output. If nil, [slog.Default] is used.
	Logger *slog.Logger

	settings Settings
}

// Run processes messages from in until in is closed or ctx is done. Token diff requests are sent
// to diffOut and their replies read from diffIn.
func (u *TreeWalkUnit) Run(ctx context.Context, in <-chan Message, out chan<- Message, diffOut chan<- Message, diffIn <-chan Message) error {
	u.settings = DefaultSettings()
	return run(ctx, in, out, "treewalk", func(m Message) error {
		return u.handle(ctx, m, out, diffOut, diffIn)
	})
}

func (u *TreeWalkUnit) handle(ctx context.Context, m Message, out, diffOut chan<- Message, diffIn <-chan Message) error {
	logger := orDefault(u.Logger)
	switch m.Kind {
	case KindConfig:
		var s Settings
		if err := m.Decode(&s); err != nil {
			return fault(ctx, out, m, "treewalk", err)
		}
		u.settings = s
		return nil
	case KindTrees:
		var trees Trees
		if err := m.Decode(&trees); err != nil {
			return fault(ctx, out, m, "treewalk", fmt.Errorf("%w: %v", apitree.ErrMalformed, err))
		}
		for _, forest := range [][]*apitree.Node{trees.Before, trees.After} {
			if err := apitree.Validate(forest); err != nil {
				return fault(ctx, out, m, "treewalk", err)
			}
		}
		b := codepanel.Builder{
			Differ: &channelDiffer{pass: m.PassID, out: diffOut, in: diffIn},
			Logger: logger,
		}
		data, err := b.Build(ctx, codepanel.Input{
			Forest:      apitree.Diff(trees.Before, trees.After),
			Diagnostics: trees.Diagnostics,
			Comments:    trees.Comments,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fault(ctx, out, m, "treewalk", err)
		}
		return emit(ctx, out, logger, m, u.settings, data)
	default:
		return fault(ctx, out, m, "treewalk", fmt.Errorf("unexpected %v message", m.Kind))
	}
}

// channelDiffer sends token diff requests over a channel and waits for the reply. Replies of
// other passes or earlier requests are dropped.
type channelDiffer struct {
	pass string
	seq  int
	out  chan<- Message
	in   <-chan Message
}

var errClosed = errors.New("token diff channel closed")

func (d *channelDiffer) DiffTokens(ctx context.Context, req codepanel.TokenDiffRequest) ([]codepanel.TokenDiffRecord, error) {
	d.seq++
	m, err := NewMessage(KindTokenDiff, d.pass, req)
	if err != nil {
		return nil, err
	}
	m.Seq = d.seq
	if err := send(ctx, d.out, m); err != nil {
		return nil, err
	}
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case reply, ok := <-d.in:
			if !ok {
				return nil, errClosed
			}
			if reply.PassID != d.pass || reply.Seq != d.seq {
				continue
			}
			if reply.Kind == KindFault {
				var f Fault
				if err := reply.Decode(&f); err != nil {
					return nil, err
				}
				return nil, f.err()
			}
			var records []codepanel.TokenDiffRecord
			if err := reply.Decode(&records); err != nil {
				return nil, err
			}
			return records, nil
		}
	}
}
